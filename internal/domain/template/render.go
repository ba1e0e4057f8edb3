package template

import (
	"fmt"
	"strings"

	"github.com/FoleyBridge-Solutions/Nestogy-sub050/internal/domain/validation"
)

// Render merges the caller's variables with the template's defaults
// (caller-supplied values win), substitutes every {{key}} occurrence and
// validates required fields. All violations are collected; on any violation
// the returned error is a *validation.Error listing every missing field.
func (t *Template) Render(vars map[string]string) (string, error) {
	merged := make(map[string]string, len(t.Defaults)+len(vars))
	for key, val := range t.Defaults {
		merged[key] = val
	}
	for key, val := range vars {
		merged[key] = val
	}

	verr := &validation.Error{}
	for _, field := range t.RequiredFields {
		if strings.TrimSpace(merged[field]) == "" {
			verr.Add(fmt.Sprintf("required field %q is missing or empty", field))
		}
	}
	if err := verr.OrNil(); err != nil {
		return "", err
	}

	content := t.Content
	for key, val := range merged {
		content = strings.ReplaceAll(content, "{{"+key+"}}", val)
	}
	return content, nil
}
