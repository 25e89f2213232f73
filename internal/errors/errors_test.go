package errors_test

import (
	"fmt"
	"net/http"
	"testing"

	apperrors "github.com/openmusic/openmusic-api/internal/errors"
	pkgerrors "github.com/pkg/errors"
	"github.com/stretchr/testify/require"
)

func TestStatusCode(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"authentication", apperrors.Client(apperrors.ErrAuthenticationFailed, "bad credentials"), http.StatusUnauthorized},
		{"token invalid", apperrors.ErrTokenInvalid, http.StatusBadRequest},
		{"not recognized", pkgerrors.Wrap(apperrors.ErrRefreshTokenNotRecognized, "[Service.Refresh]"), http.StatusBadRequest},
		{"forbidden", apperrors.Client(apperrors.ErrForbidden, "nope"), http.StatusForbidden},
		{"not found", apperrors.Wrapf(apperrors.ErrNotFound, "playlist %s", "p1"), http.StatusNotFound},
		{"invalid operation", apperrors.ErrInvalidOperation, http.StatusBadRequest},
		{"payload", apperrors.ErrInvalidPayload, http.StatusBadRequest},
		{"conflict", apperrors.ErrConflict, http.StatusConflict},
		{"store fault", fmt.Errorf("connection refused"), http.StatusInternalServerError},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Equal(t, tt.want, apperrors.StatusCode(tt.err))
		})
	}
}

func TestClientMessage(t *testing.T) {
	err := pkgerrors.Wrap(apperrors.Client(apperrors.ErrForbidden, "you are not allowed to access this resource"), "[Service.AddSong]")
	require.Equal(t, "you are not allowed to access this resource", apperrors.ClientMessage(err))
	require.True(t, apperrors.IsClientError(err))

	require.Equal(t, "not found", apperrors.ClientMessage(apperrors.Wrapf(apperrors.ErrNotFound, "get")))

	fault := pkgerrors.Wrap(fmt.Errorf("pq: relation does not exist"), "[Repo.Get]")
	require.Equal(t, "an internal server error occurred", apperrors.ClientMessage(fault))
	require.False(t, apperrors.IsClientError(fault))
}
