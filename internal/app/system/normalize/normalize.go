// Package normalize canonicalizes user input before it is compared or stored.
package normalize

import (
	"strings"

	"github.com/dalemusser/hearmeout/internal/domain/models"
)

// Email trims and lowercases an email address.
func Email(s string) string { return strings.ToLower(strings.TrimSpace(s)) }

// Name trims a display name. Case is preserved.
func Name(s string) string { return strings.TrimSpace(s) }

// Status trims and lowercases a status value.
func Status(s string) string { return strings.ToLower(strings.TrimSpace(s)) }

// QueryParam trims a query string value. Case is preserved.
func QueryParam(s string) string { return strings.TrimSpace(s) }

// Category trims and lowercases an idea category or stage.
func Category(s string) string { return strings.ToLower(strings.TrimSpace(s)) }

// Tags lowercases and trims each tag, drops empty and duplicate entries,
// and keeps at most models.MaxTags in first-seen order.
func Tags(in []string) []string {
	out := make([]string, 0, len(in))
	seen := make(map[string]struct{}, len(in))
	for _, t := range in {
		t = strings.ToLower(strings.TrimSpace(t))
		if t == "" {
			continue
		}
		if _, dup := seen[t]; dup {
			continue
		}
		seen[t] = struct{}{}
		out = append(out, t)
		if len(out) == models.MaxTags {
			break
		}
	}
	return out
}

// TagList splits a comma-separated query value into normalized tags.
func TagList(s string) []string {
	if strings.TrimSpace(s) == "" {
		return nil
	}
	return Tags(strings.Split(s, ","))
}
