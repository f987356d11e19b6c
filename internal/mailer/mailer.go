package mailer

import (
	"bytes"
	"embed"
	"text/template"
)

const (
	FromName              = "Taktivent"
	maxRetires            = 3
	ResetPasswordTemplate = "reset_password.tmpl"
)

//go:embed "templates"
var FS embed.FS

type Client interface {
	Send(templateFile, username, email string, data any) (int, error)
}

// render executes the "subject" and "body" blocks of a template file.
func render(templateFile string, data any) (subject, body string, err error) {
	tmpl, err := template.ParseFS(FS, "templates/"+templateFile)
	if err != nil {
		return "", "", err
	}

	var s, b bytes.Buffer
	if err := tmpl.ExecuteTemplate(&s, "subject", data); err != nil {
		return "", "", err
	}
	if err := tmpl.ExecuteTemplate(&b, "body", data); err != nil {
		return "", "", err
	}
	return s.String(), b.String(), nil
}
