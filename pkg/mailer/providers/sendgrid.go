package providers

import (
	"context"
	"fmt"

	"booth-service/pkg/mailer/registry"
)

type SendGridProvider struct {
	BaseProvider
	APIURL string
}

type SendGridConfig struct {
	APIKey string
	APIURL string
}

type sendGridAddress struct {
	Email string `json:"email"`
}

type sendGridPersonalization struct {
	To  []sendGridAddress `json:"to"`
	CC  []sendGridAddress `json:"cc,omitempty"`
	BCC []sendGridAddress `json:"bcc,omitempty"`
}

type sendGridContent struct {
	Type  string `json:"type"`
	Value string `json:"value"`
}

type sendGridPayload struct {
	Personalizations []sendGridPersonalization `json:"personalizations"`
	From             sendGridAddress           `json:"from"`
	ReplyTo          *sendGridAddress          `json:"reply_to,omitempty"`
	Subject          string                    `json:"subject"`
	Content          []sendGridContent         `json:"content"`
}

func NewSendGridProvider(config SendGridConfig) *SendGridProvider {
	apiURL := config.APIURL
	if apiURL == "" {
		apiURL = registry.SendGridAPIURL
	}

	return &SendGridProvider{
		BaseProvider: BaseProvider{
			APIKey:       config.APIKey,
			ProviderName: registry.ProviderSendGrid,
			Client:       newHTTPClient(),
		},
		APIURL: apiURL,
	}
}

func addresses(emails []string) []sendGridAddress {
	if len(emails) == 0 {
		return nil
	}
	out := make([]sendGridAddress, len(emails))
	for i, email := range emails {
		out[i] = sendGridAddress{Email: email}
	}
	return out
}

func (p *SendGridProvider) Send(ctx context.Context, emailData *EmailData) (*EmailResult, error) {
	if p.APIKey == "" {
		return p.failed(registry.ErrAPIKeyRequired.Error(), registry.ErrAPIKeyRequired)
	}

	payload := sendGridPayload{
		Personalizations: []sendGridPersonalization{{
			To:  addresses(emailData.To),
			CC:  addresses(emailData.CC),
			BCC: addresses(emailData.BCC),
		}},
		From:    sendGridAddress{Email: emailData.From},
		Subject: emailData.Subject,
	}
	if emailData.ReplyTo != "" {
		payload.ReplyTo = &sendGridAddress{Email: emailData.ReplyTo}
	}
	// SendGrid requires text/plain before text/html.
	if emailData.Text != "" {
		payload.Content = append(payload.Content, sendGridContent{Type: registry.MIMETextPlain, Value: emailData.Text})
	}
	payload.Content = append(payload.Content, sendGridContent{Type: registry.MIMETextHTML, Value: emailData.HTML})

	status, header, body, err := p.postJSON(ctx, p.APIURL+registry.PathSendGridMailSend, payload)
	if err != nil {
		return p.failed(err.Error(), err)
	}
	if !isHTTPSuccess(status) {
		return p.failed(fmt.Sprintf(registry.MsgSendGridAPIErrorFmt, status, string(body)), registry.ErrAPIStatus(status))
	}

	return &EmailResult{
		Success:   true,
		MessageID: header.Get(registry.HeaderMessageID),
		Provider:  p.ProviderName,
	}, nil
}

func (p *SendGridProvider) Verify(ctx context.Context) (bool, error) {
	return p.verify(ctx, p.APIURL+registry.PathSendGridScopes)
}
