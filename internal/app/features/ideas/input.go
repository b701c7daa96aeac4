package ideas

import (
	"strings"

	ideastore "github.com/dalemusser/hearmeout/internal/app/store/ideas"
	"github.com/dalemusser/hearmeout/internal/app/system/apperr"
	"github.com/dalemusser/hearmeout/internal/app/system/htmlsanitize"
	"github.com/dalemusser/hearmeout/internal/app/system/normalize"
	"github.com/dalemusser/hearmeout/internal/domain/models"
)

type resourceInput struct {
	Type        string   `json:"type"`
	Description string   `json:"description"`
	Amount      *float64 `json:"amount"`
	Currency    string   `json:"currency"`
	Equity      *float64 `json:"equity"`
	Fulfilled   bool     `json:"fulfilled"`
}

// ideaInput is the body of create and update. Absent fields stay nil.
type ideaInput struct {
	Title       *string         `json:"title"`
	Tagline     *string         `json:"tagline"`
	Description *string         `json:"description"`
	Category    *string         `json:"category"`
	Stage       *string         `json:"stage"`
	CoverImage  *string         `json:"coverImage"`
	Images      []string        `json:"images"`
	Resources   []resourceInput `json:"resources"`
	Tags        []string        `json:"tags"`
	IsPublic    *bool           `json:"isPublic"`
}

func requiredText(p *string, field string) (*string, error) {
	if p == nil {
		return nil, nil
	}
	s := htmlsanitize.PlainText(*p)
	if s == "" {
		return nil, apperr.BadRequest(field + " is required")
	}
	return &s, nil
}

func oneOf(p *string, allowed []string, field string) (*string, error) {
	if p == nil {
		return nil, nil
	}
	s := normalize.Category(*p)
	if !models.Contains(allowed, s) {
		return nil, apperr.BadRequest("Invalid " + field)
	}
	return &s, nil
}

// resources converts request resources. keepFulfilled is false on create,
// where every need starts unfulfilled.
func resources(in []resourceInput, keepFulfilled bool) ([]models.ResourceRequest, error) {
	if in == nil {
		return nil, nil
	}
	out := make([]models.ResourceRequest, 0, len(in))
	for _, r := range in {
		typ := normalize.Category(r.Type)
		if !models.Contains(models.ResourceTypes, typ) {
			return nil, apperr.BadRequest("Invalid resource type")
		}
		desc := htmlsanitize.PlainText(r.Description)
		if desc == "" {
			return nil, apperr.BadRequest("Resource description is required")
		}
		cur := strings.TrimSpace(r.Currency)
		if cur == "" {
			cur = models.DefaultCurrency
		}
		out = append(out, models.ResourceRequest{
			Type:        typ,
			Description: desc,
			Amount:      r.Amount,
			Currency:    cur,
			Equity:      r.Equity,
			Fulfilled:   keepFulfilled && r.Fulfilled,
		})
	}
	return out, nil
}

// update cleans the input into a store update. Text is stripped of markup,
// except the description, which keeps safe formatting.
func (in ideaInput) update(keepFulfilled bool) (ideastore.Update, error) {
	var (
		u   ideastore.Update
		err error
	)
	if u.Title, err = requiredText(in.Title, "Title"); err != nil {
		return u, err
	}
	if u.Tagline, err = requiredText(in.Tagline, "Tagline"); err != nil {
		return u, err
	}
	if in.Description != nil {
		d := strings.TrimSpace(htmlsanitize.Sanitize(*in.Description))
		if htmlsanitize.PlainText(d) == "" {
			return u, apperr.BadRequest("Description is required")
		}
		u.Description = &d
	}
	if u.Category, err = oneOf(in.Category, models.Categories, "category"); err != nil {
		return u, err
	}
	if u.Stage, err = oneOf(in.Stage, models.Stages, "stage"); err != nil {
		return u, err
	}
	if in.CoverImage != nil {
		c := strings.TrimSpace(*in.CoverImage)
		u.CoverImage = &c
	}
	if u.Resources, err = resources(in.Resources, keepFulfilled); err != nil {
		return u, err
	}
	if in.Tags != nil {
		u.Tags = normalize.Tags(in.Tags)
	}
	u.IsPublic = in.IsPublic
	return u, nil
}

func deref(p *string) string {
	if p == nil {
		return ""
	}
	return *p
}
