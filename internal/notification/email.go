package notification

import (
	"bytes"
	"fmt"
	"html/template"
	"strings"

	notifdomain "github.com/Programa-TrainIT-Ar/be-trelloop-grupo-1/internal/notification/domain"
)

var emailTemplate = template.Must(template.New("notification").Parse(`<div style="font-family:Arial,sans-serif">
  <h3>{{.Title}}</h3>
  <p>{{.Message}}</p>
  {{- if .Link}}
  <p><a href="{{.Link}}">{{.LinkLabel}}</a></p>
  {{- end}}
  <p style="color:#888;font-size:12px">Enviado por TrainIT</p>
</div>
`))

type emailView struct {
	Title     string
	Message   string
	Link      string
	LinkLabel string
}

// DeepLink is the frontend URL for resource, or "" when there is none.
func DeepLink(frontendURL string, resource *notifdomain.Resource) string {
	if resource == nil {
		return ""
	}
	base := strings.TrimRight(frontendURL, "/")
	switch resource.Kind {
	case notifdomain.ResourceBoard:
		return fmt.Sprintf("%s/board/%d", base, resource.ID)
	case notifdomain.ResourceCard:
		return fmt.Sprintf("%s/board/cards/%d", base, resource.ID)
	default:
		return ""
	}
}

func linkLabel(resource *notifdomain.Resource) string {
	if resource != nil && resource.Kind == notifdomain.ResourceBoard {
		return "Abrir tablero"
	}
	return "Abrir tarjeta"
}

// RenderEmail builds the HTML body for a notification email.
func RenderEmail(frontendURL, title, message string, resource *notifdomain.Resource) (string, error) {
	var buf bytes.Buffer
	err := emailTemplate.Execute(&buf, emailView{
		Title:     title,
		Message:   message,
		Link:      DeepLink(frontendURL, resource),
		LinkLabel: linkLabel(resource),
	})
	if err != nil {
		return "", err
	}
	return buf.String(), nil
}
