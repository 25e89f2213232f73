package token

import (
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	apperrors "github.com/openmusic/openmusic-api/internal/errors"
	"github.com/pkg/errors"
)

// Payload is the identity carried by both token kinds.
type Payload struct {
	ID string `json:"id"`
}

// Claims is the JWT body. UserID is serialised as "id"; the registered
// claims carry iat, exp (access tokens only) and a unique jti.
type Claims struct {
	UserID string `json:"id"`
	jwt.RegisteredClaims
}

// Pair is returned to the caller at login.
type Pair struct {
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken"`
}

var (
	errInvalidAccessToken  = apperrors.Client(apperrors.ErrTokenInvalid, "access token is invalid")
	errInvalidRefreshToken = apperrors.Client(apperrors.ErrTokenInvalid, "refresh token is invalid")
)

// Codec issues and decodes access and refresh tokens, each kind under its own key.
type Codec struct {
	access    Signer
	refresh   Signer
	accessAge time.Duration
	nowFunc   func() time.Time
}

type CodecOption func(*Codec)

func WithNowFunc(now func() time.Time) CodecOption {
	return func(c *Codec) {
		c.nowFunc = now
	}
}

func NewCodec(accessKey, refreshKey string, accessAge time.Duration, options ...CodecOption) (*Codec, error) {
	if strings.TrimSpace(accessKey) == "" {
		return nil, errors.New("[NewCodec] access key is required")
	}
	if strings.TrimSpace(refreshKey) == "" {
		return nil, errors.New("[NewCodec] refresh key is required")
	}
	if accessKey == refreshKey {
		return nil, errors.New("[NewCodec] access and refresh keys must differ")
	}
	if accessAge <= 0 {
		return nil, errors.New("[NewCodec] access token age must be positive")
	}

	c := &Codec{
		access:    NewHMACSigner(accessKey),
		refresh:   NewHMACSigner(refreshKey),
		accessAge: accessAge,
		nowFunc:   time.Now,
	}
	for _, opt := range options {
		opt(c)
	}
	return c, nil
}

// AccessTokenAge is the configured lifetime of an access token.
func (c *Codec) AccessTokenAge() time.Duration {
	return c.accessAge
}

func (c *Codec) IssueAccessToken(payload Payload) (string, error) {
	if payload.ID == "" {
		return "", errors.New("[Codec.IssueAccessToken] payload id is required")
	}
	now := c.nowFunc()
	claims := Claims{
		UserID: payload.ID,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(c.accessAge)),
			ID:        uuid.New().String(),
		},
	}
	signed, err := c.access.Sign(claims)
	if err != nil {
		return "", errors.Wrap(err, "[Codec.IssueAccessToken] Sign")
	}
	return signed, nil
}

// IssueRefreshToken signs a token without an expiry; only removal from the
// ledger invalidates it.
func (c *Codec) IssueRefreshToken(payload Payload) (string, error) {
	if payload.ID == "" {
		return "", errors.New("[Codec.IssueRefreshToken] payload id is required")
	}
	claims := Claims{
		UserID: payload.ID,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt: jwt.NewNumericDate(c.nowFunc()),
			ID:       uuid.New().String(),
		},
	}
	signed, err := c.refresh.Sign(claims)
	if err != nil {
		return "", errors.Wrap(err, "[Codec.IssueRefreshToken] Sign")
	}
	return signed, nil
}

func (c *Codec) DecodeAccessToken(raw string) (*Payload, error) {
	payload, err := c.decode(raw, c.access, jwt.WithExpirationRequired())
	if err != nil {
		return nil, errors.Wrap(errInvalidAccessToken, err.Error())
	}
	return payload, nil
}

func (c *Codec) DecodeRefreshToken(raw string) (*Payload, error) {
	payload, err := c.decode(raw, c.refresh)
	if err != nil {
		return nil, errors.Wrap(errInvalidRefreshToken, err.Error())
	}
	return payload, nil
}

func (c *Codec) decode(raw string, signer Signer, options ...jwt.ParserOption) (*Payload, error) {
	options = append(options,
		jwt.WithValidMethods([]string{signer.GetSigningMethod().Alg()}),
		jwt.WithTimeFunc(c.nowFunc),
	)

	claims := &Claims{}
	if _, err := jwt.ParseWithClaims(raw, claims, signer.GetVerificationKey, options...); err != nil {
		return nil, err
	}
	if claims.UserID == "" {
		return nil, errors.New("token carries no id")
	}
	return &Payload{ID: claims.UserID}, nil
}
