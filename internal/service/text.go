package service

import (
	"html"
	"strings"

	"github.com/microcosm-cc/bluemonday"

	appErrors "github.com/noah-isme/elite-academy-api/pkg/errors"
)

// textSanitizer strips markup from user-entered text. Values are stored as
// plain text, so entities produced by the policy are decoded again.
type textSanitizer struct {
	policy *bluemonday.Policy
}

func newTextSanitizer() textSanitizer {
	return textSanitizer{policy: bluemonday.StrictPolicy()}
}

// clean returns the plain-text form of value, or a field error when nothing
// remains once markup is removed.
func (t textSanitizer) clean(field, value string) (string, error) {
	out := strings.TrimSpace(html.UnescapeString(t.policy.Sanitize(value)))
	if out == "" {
		return "", appErrors.Field(field, "must not be empty")
	}
	return out, nil
}
