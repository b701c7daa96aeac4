// Package payload validates JSON request bodies against embedded JSON
// Schemas before they are decoded into handler input structs.
//
// Schemas describe shape and bounds (types, enums, lengths, ranges). Rules
// that need the database or the caller's identity stay in the handlers.
package payload

import (
	"context"
	"embed"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/dalemusser/hearmeout/internal/app/system/apperr"
	"github.com/qri-io/jsonschema"
)

// MaxBodyBytes bounds request bodies read by Decode.
const MaxBodyBytes = 1 << 20

// Schema names an embedded schema.
type Schema string

const (
	IdeaCreate         Schema = "idea_create"
	IdeaUpdate         Schema = "idea_update"
	ContributionCreate Schema = "contribution_create"
	ProfileUpdate      Schema = "profile_update"
	UserSync           Schema = "user_sync"
	StatusUpdate       Schema = "status_update"
	ModerationReject   Schema = "moderation_reject"
)

//go:embed schemas/*.json
var schemaFS embed.FS

var compiled = mustCompileAll(IdeaCreate, IdeaUpdate, ContributionCreate, ProfileUpdate, UserSync, StatusUpdate, ModerationReject)

func mustCompileAll(names ...Schema) map[Schema]*jsonschema.Schema {
	out := make(map[Schema]*jsonschema.Schema, len(names))
	for _, n := range names {
		raw, err := schemaFS.ReadFile("schemas/" + string(n) + ".json")
		if err != nil {
			panic(fmt.Sprintf("payload: read schema %s: %v", n, err))
		}
		rs := &jsonschema.Schema{}
		if err := json.Unmarshal(raw, rs); err != nil {
			panic(fmt.Sprintf("payload: compile schema %s: %v", n, err))
		}
		out[n] = rs
	}
	return out
}

// Validate checks data against the named schema. Problems are returned as a
// 400 *apperr.Error whose message names the first offending field.
func Validate(ctx context.Context, name Schema, data []byte) error {
	rs, ok := compiled[name]
	if !ok {
		return fmt.Errorf("payload: unknown schema %q", name)
	}
	if !json.Valid(data) {
		return apperr.BadRequest("Request body must be valid JSON")
	}
	kerrs, err := rs.ValidateBytes(ctx, data)
	if err != nil {
		return apperr.Wrap(http.StatusBadRequest, "Request body could not be validated", err)
	}
	if len(kerrs) > 0 {
		return apperr.BadRequest(describe(kerrs[0]))
	}
	return nil
}

func describe(ke jsonschema.KeyError) string {
	field := strings.TrimPrefix(ke.PropertyPath, "/")
	if field == "" {
		return ke.Message
	}
	return field + ": " + ke.Message
}

// Decode reads r's body, validates it against name and unmarshals it into dst.
// An empty body is treated as "{}".
func Decode(r *http.Request, name Schema, dst any) error {
	data, err := io.ReadAll(io.LimitReader(r.Body, MaxBodyBytes+1))
	if err != nil {
		return apperr.Wrap(http.StatusBadRequest, "Unable to read request body", err)
	}
	if len(data) > MaxBodyBytes {
		return apperr.New(http.StatusRequestEntityTooLarge, "Request body too large")
	}
	if len(strings.TrimSpace(string(data))) == 0 {
		data = []byte("{}")
	}
	if err := Validate(r.Context(), name, data); err != nil {
		return err
	}
	if err := json.Unmarshal(data, dst); err != nil {
		var te *json.UnmarshalTypeError
		if errors.As(err, &te) {
			return apperr.BadRequest(fmt.Sprintf("%s: invalid type", te.Field))
		}
		return apperr.Wrap(http.StatusBadRequest, "Request body must be valid JSON", err)
	}
	return nil
}
