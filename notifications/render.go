package notifications

import (
	"context"
	"embed"
	"fmt"
	"strings"
)

// Placeholders carries the values substituted into a sent-notification
// template. Named fields, not a string-keyed map, so the template contract
// is visible in the type.
type Placeholders struct {
	Body    string
	Subject string
	SentOn  string
	From    string
	To      string
}

// Renderer turns a template plus placeholders into document bytes. The real
// HTML-to-PDF backend lives outside this module; tests and local wiring use
// PassthroughRenderer.
type Renderer interface {
	Render(ctx context.Context, template []byte, ph Placeholders) ([]byte, error)
}

//go:embed templates
var templates embed.FS

// sentEmailTemplate returns the sent-notification template, Welsh when the
// case prefers it.
func sentEmailTemplate(welsh bool) ([]byte, error) {
	name := "templates/sent_notification.html"
	if welsh {
		name = "templates/sent_welsh_notification.html"
	}
	tmpl, err := templates.ReadFile(name)
	if err != nil {
		return nil, fmt.Errorf("read template %s: %w", name, err)
	}
	return tmpl, nil
}

// =============================================================================
// PASSTHROUGH RENDERER - Substitutes placeholders, no PDF conversion
// =============================================================================

// PassthroughRenderer fills the template's {{...}} markers and returns the
// result as-is. Used where no rendering backend is wired.
type PassthroughRenderer struct{}

func (PassthroughRenderer) Render(_ context.Context, template []byte, ph Placeholders) ([]byte, error) {
	r := strings.NewReplacer(
		"{{body}}", ph.Body,
		"{{subject}}", ph.Subject,
		"{{sentOn}}", ph.SentOn,
		"{{from}}", ph.From,
		"{{to}}", ph.To,
	)
	return []byte(r.Replace(string(template))), nil
}
