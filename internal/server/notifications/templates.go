package notifications

import (
	"embed"
	"fmt"

	"github.com/flosch/pongo2/v6"
)

//go:embed templates/*.html
var templateFS embed.FS

var templateFiles = map[Kind]string{
	KindEmailVerification:    "templates/verification_email.html",
	KindPasswordResetRequest: "templates/password_reset_request.html",
	KindPasswordResetSuccess: "templates/password_reset_success.html",
}

// Renderer turns a notification into its HTML body. Templates are parsed
// once and rendered with autoescaping.
type Renderer struct {
	templates map[Kind]*pongo2.Template
}

func NewRenderer() (*Renderer, error) {
	r := &Renderer{templates: make(map[Kind]*pongo2.Template, len(templateFiles))}

	for kind, path := range templateFiles {
		src, err := templateFS.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read template %s: %w", path, err)
		}
		tpl, err := pongo2.FromBytes(src)
		if err != nil {
			return nil, fmt.Errorf("parse template %s: %w", path, err)
		}
		r.templates[kind] = tpl
	}

	return r, nil
}

func (r *Renderer) Render(n Notification) (string, error) {
	tpl, ok := r.templates[n.Kind]
	if !ok {
		return "", fmt.Errorf("invalid notification kind %q", n.Kind)
	}
	return tpl.Execute(pongo2.Context(n.Context))
}
