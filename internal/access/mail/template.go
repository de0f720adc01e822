package mail

import (
	_ "embed"
	"html/template"
)

//go:embed templates/invite.html
var inviteHTML string

var inviteTemplate = template.Must(template.New("invite").Parse(inviteHTML))
