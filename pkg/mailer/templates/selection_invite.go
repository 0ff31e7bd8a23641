package templates

import (
	"strings"

	"booth-service/pkg/mailer/registry"
)

type SelectionInviteContext struct {
	Company      string
	EventName    string
	SelectionURL string
	Limit        int
	ExpiryHours  int
}

const selectionInviteSubject = `Pick your favourite photos{{if .EventName}} from {{.EventName}}{{end}}`

const selectionInviteHTML = `<!DOCTYPE html>
<html>
<body style="font-family: Arial, sans-serif; color: #222;">
  <h2>Choose your photos</h2>
  <p>{{.Company}} invites you to pick {{if .Limit}}up to {{.Limit}}{{else}}your{{end}} favourite photos{{if .EventName}} from {{.EventName}}{{end}}.</p>
  <p><a href="{{.SelectionURL}}" style="display:inline-block;padding:10px 18px;background:#111;color:#fff;text-decoration:none;border-radius:4px;">Start selecting</a></p>
  <p style="font-size: 12px; color: #666;">This invitation expires in {{.ExpiryHours}} hours.</p>
</body>
</html>`

const selectionInviteText = `Choose your photos

{{.Company}} invites you to pick {{if .Limit}}up to {{.Limit}}{{else}}your{{end}} favourite photos{{if .EventName}} from {{.EventName}}{{end}}.

Start selecting: {{.SelectionURL}}

This invitation expires in {{.ExpiryHours}} hours.`

func SelectionInviteTemplate() (*TypedTemplate[SelectionInviteContext], error) {
	parser := func(ctx SelectionInviteContext) (SelectionInviteContext, error) {
		ctx.Company = strings.TrimSpace(ctx.Company)
		if ctx.Company == "" {
			return ctx, registry.ErrCompanyRequired
		}
		if err := validateLink(ctx.SelectionURL); err != nil {
			return ctx, err
		}
		if ctx.Limit < 0 {
			ctx.Limit = 0
		}
		ctx.ExpiryHours = hoursOrDefault(ctx.ExpiryHours)
		return ctx, nil
	}

	return NewTemplate(registry.TemplateNameSelectionInvite, selectionInviteSubject, selectionInviteHTML, selectionInviteText, parser)
}
