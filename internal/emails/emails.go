// Package emails renders transactional email and hands it to a [Mailer].
//
// Delivery itself is pluggable: [LogMailer] records messages in the log, [Outbox] keeps them in
// memory, and [RateLimitedMailer] throttles any other Mailer.
package emails

import (
	"bytes"
	"embed"
	"fmt"
	htmltemplate "html/template"
	"io"
	texttemplate "text/template"
)

//go:embed templates/*.tmpl
var templateFS embed.FS

var (
	htmlTemplates = htmltemplate.Must(htmltemplate.ParseFS(templateFS, "templates/*.html.tmpl"))
	textTemplates = texttemplate.Must(texttemplate.ParseFS(templateFS, "templates/*.txt.tmpl"))
)

// Message is a rendered email ready for delivery.
type Message struct {
	From    string
	To      string
	Subject string
	HTML    string
	Text    string
}

// RosterInvitation is the data for the roster portal invitation email.
type RosterInvitation struct {
	RosterName      string
	InviterName     string
	InvitationURL   string
	ExpirationHours int
}

// Subject is the email subject line.
func (d RosterInvitation) Subject() string {
	return fmt.Sprintf("%s invited you to access your campaign portal", d.InviterName)
}

// Render produces the subject, HTML and plain text bodies addressed to to.
func (d RosterInvitation) Render(to string) (Message, error) {
	html, err := render(htmlTemplates, "roster_invitation.html.tmpl", d)
	if err != nil {
		return Message{}, err
	}
	text, err := render(textTemplates, "roster_invitation.txt.tmpl", d)
	if err != nil {
		return Message{}, err
	}
	return Message{To: to, Subject: d.Subject(), HTML: html, Text: text}, nil
}

// executor is satisfied by both html/template and text/template.
type executor interface {
	ExecuteTemplate(w io.Writer, name string, data any) error
}

func render(t executor, name string, data any) (string, error) {
	var buf bytes.Buffer
	if err := t.ExecuteTemplate(&buf, name, data); err != nil {
		return "", fmt.Errorf("failed to render %s: %w", name, err)
	}
	return buf.String(), nil
}
