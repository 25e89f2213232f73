// Package validator checks request bodies against the embedded JSON schemas
// before they are decoded into handler payloads.
package validator

import (
	"bytes"
	"embed"
	"encoding/json"
	"io"
	"path"
	"strings"

	apperrors "github.com/openmusic/openmusic-api/internal/errors"
	"github.com/pkg/errors"
	"github.com/santhosh-tekuri/jsonschema/v6"
)

//go:embed schemas/*.json
var schemaFS embed.FS

// Schema names one of the embedded payload schemas.
type Schema string

const (
	User          Schema = "user"
	Login         Schema = "login"
	RefreshToken  Schema = "refresh_token"
	Album         Schema = "album"
	Song          Schema = "song"
	Playlist      Schema = "playlist"
	PlaylistSong  Schema = "playlist_song"
	Collaboration Schema = "collaboration"
)

const maxBodyBytes = 1 << 20

type Validator struct {
	schemas map[Schema]*jsonschema.Schema
}

// New compiles every embedded schema.
func New() (*Validator, error) {
	entries, err := schemaFS.ReadDir("schemas")
	if err != nil {
		return nil, errors.Wrap(err, "[validator.New] ReadDir")
	}

	c := jsonschema.NewCompiler()
	names := make([]string, 0, len(entries))
	for _, e := range entries {
		data, err := schemaFS.ReadFile(path.Join("schemas", e.Name()))
		if err != nil {
			return nil, errors.Wrapf(err, "[validator.New] ReadFile %s", e.Name())
		}
		doc, err := jsonschema.UnmarshalJSON(bytes.NewReader(data))
		if err != nil {
			return nil, errors.Wrapf(err, "[validator.New] parse %s", e.Name())
		}
		if err := c.AddResource(e.Name(), doc); err != nil {
			return nil, errors.Wrapf(err, "[validator.New] AddResource %s", e.Name())
		}
		names = append(names, e.Name())
	}

	v := &Validator{schemas: make(map[Schema]*jsonschema.Schema, len(names))}
	for _, name := range names {
		sch, err := c.Compile(name)
		if err != nil {
			return nil, errors.Wrapf(err, "[validator.New] Compile %s", name)
		}
		v.schemas[Schema(strings.TrimSuffix(name, ".json"))] = sch
	}
	return v, nil
}

// Decode validates the body against schema and then unmarshals it into dst.
// Any failure is an ErrInvalidPayload client error.
func (v *Validator) Decode(schema Schema, body io.Reader, dst any) error {
	sch, ok := v.schemas[schema]
	if !ok {
		return errors.Errorf("[Validator.Decode] unknown schema %q", schema)
	}

	data, err := io.ReadAll(io.LimitReader(body, maxBodyBytes))
	if err != nil {
		return errors.Wrap(err, "[Validator.Decode] read body")
	}
	inst, err := jsonschema.UnmarshalJSON(bytes.NewReader(data))
	if err != nil {
		return apperrors.Client(apperrors.ErrInvalidPayload, "request body must be valid JSON")
	}
	if err := sch.Validate(inst); err != nil {
		return apperrors.Client(apperrors.ErrInvalidPayload, "%s", firstCause(err))
	}
	if err := json.Unmarshal(data, dst); err != nil {
		return apperrors.Client(apperrors.ErrInvalidPayload, "request body does not match the expected shape")
	}
	return nil
}

// firstCause picks the first "- at '/field': reason" line of a validation
// error, dropping the schema location header.
func firstCause(err error) string {
	for _, line := range strings.Split(err.Error(), "\n") {
		line = strings.TrimSpace(line)
		if strings.HasPrefix(line, "- ") {
			return strings.TrimPrefix(line, "- ")
		}
	}
	return err.Error()
}
