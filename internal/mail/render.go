// Package mail turns membership events into notification mails.
package mail

import (
	"bytes"
	"embed"
	"errors"
	"fmt"
	"html/template"
	"strings"

	"github.com/dteaa/membership_service/internal/dto"
)

//go:embed templates/*.html
var templateFS embed.FS

var ErrUnknownEvent = errors.New("no mail template for event")

type message struct {
	subject  string
	template string
}

var messages = map[string]message{
	dto.EventProfileSubmitted: {"We received your DTEAA registration", "submitted.html"},
	dto.EventProfileVerified:  {"Your DTEAA membership is verified", "verified.html"},
	dto.EventProfileRejected:  {"Action needed on your DTEAA registration", "rejected.html"},
}

// Renderer executes the embedded templates. Safe for concurrent use.
type Renderer struct {
	tmpl      *template.Template
	portalURL string
}

func NewRenderer(portalURL string) (*Renderer, error) {
	tmpl, err := template.ParseFS(templateFS, "templates/*.html")
	if err != nil {
		return nil, fmt.Errorf("parse mail templates: %w", err)
	}
	return &Renderer{tmpl: tmpl, portalURL: strings.TrimRight(portalURL, "/")}, nil
}

// Render returns the subject and HTML body for event.
func (r *Renderer) Render(event dto.ProfileEvent) (string, string, error) {
	m, ok := messages[event.Type]
	if !ok {
		return "", "", fmt.Errorf("%w: %q", ErrUnknownEvent, event.Type)
	}

	name := event.FirstName
	if name == "" {
		name = "Member"
	}
	var buf bytes.Buffer
	err := r.tmpl.ExecuteTemplate(&buf, m.template, map[string]string{
		"FirstName": name,
		"AlumniID":  event.AlumniID,
		"Comments":  event.Comments,
		"PortalURL": r.portalURL,
	})
	if err != nil {
		return "", "", err
	}
	return m.subject, buf.String(), nil
}
