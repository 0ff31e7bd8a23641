package templates

import (
	"strings"

	"booth-service/pkg/mailer/registry"
)

type DeliveryLinkContext struct {
	Company     string
	EventName   string
	DownloadURL string
	PhotoCount  int
	ExpiryHours int
}

const deliveryLinkSubject = `Your photos from {{if .EventName}}{{.EventName}}{{else}}{{.Company}}{{end}} are ready`

const deliveryLinkHTML = `<!DOCTYPE html>
<html>
<body style="font-family: Arial, sans-serif; color: #222;">
  <h2>Your photos are ready</h2>
  <p>{{.Company}} has {{.PhotoCount}} photo{{if ne .PhotoCount 1}}s{{end}} waiting for you{{if .EventName}} from {{.EventName}}{{end}}.</p>
  <p><a href="{{.DownloadURL}}" style="display:inline-block;padding:10px 18px;background:#111;color:#fff;text-decoration:none;border-radius:4px;">Download photos</a></p>
  <p style="font-size: 12px; color: #666;">This link expires in {{.ExpiryHours}} hours.</p>
</body>
</html>`

const deliveryLinkText = `Your photos are ready

{{.Company}} has {{.PhotoCount}} photo(s) waiting for you{{if .EventName}} from {{.EventName}}{{end}}.

Download: {{.DownloadURL}}

This link expires in {{.ExpiryHours}} hours.`

func DeliveryLinkTemplate() (*TypedTemplate[DeliveryLinkContext], error) {
	parser := func(ctx DeliveryLinkContext) (DeliveryLinkContext, error) {
		ctx.Company = strings.TrimSpace(ctx.Company)
		if ctx.Company == "" {
			return ctx, registry.ErrCompanyRequired
		}
		if err := validateLink(ctx.DownloadURL); err != nil {
			return ctx, err
		}
		ctx.ExpiryHours = hoursOrDefault(ctx.ExpiryHours)
		return ctx, nil
	}

	return NewTemplate(registry.TemplateNameDeliveryLink, deliveryLinkSubject, deliveryLinkHTML, deliveryLinkText, parser)
}
