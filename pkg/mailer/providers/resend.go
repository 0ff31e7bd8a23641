package providers

import (
	"context"
	"encoding/json"
	"fmt"

	"booth-service/pkg/mailer/registry"
)

type ResendProvider struct {
	BaseProvider
	APIURL string
}

type ResendConfig struct {
	APIKey string
	APIURL string
}

type resendPayload struct {
	From    string   `json:"from"`
	To      []string `json:"to"`
	Subject string   `json:"subject"`
	HTML    string   `json:"html"`
	Text    string   `json:"text,omitempty"`
	ReplyTo string   `json:"reply_to,omitempty"`
	CC      []string `json:"cc,omitempty"`
	BCC     []string `json:"bcc,omitempty"`
}

func NewResendProvider(config ResendConfig) *ResendProvider {
	apiURL := config.APIURL
	if apiURL == "" {
		apiURL = registry.ResendAPIURL
	}

	return &ResendProvider{
		BaseProvider: BaseProvider{
			APIKey:       config.APIKey,
			ProviderName: registry.ProviderResend,
			Client:       newHTTPClient(),
		},
		APIURL: apiURL,
	}
}

func (p *ResendProvider) Send(ctx context.Context, emailData *EmailData) (*EmailResult, error) {
	if p.APIKey == "" {
		return p.failed(registry.ErrAPIKeyRequired.Error(), registry.ErrAPIKeyRequired)
	}

	payload := resendPayload{
		From:    emailData.From,
		To:      emailData.To,
		Subject: emailData.Subject,
		HTML:    emailData.HTML,
		Text:    emailData.Text,
		ReplyTo: emailData.ReplyTo,
		CC:      emailData.CC,
		BCC:     emailData.BCC,
	}

	status, _, body, err := p.postJSON(ctx, p.APIURL+registry.PathResendEmails, payload)
	if err != nil {
		return p.failed(err.Error(), err)
	}
	if !isHTTPSuccess(status) {
		return p.failed(fmt.Sprintf(registry.MsgResendAPIErrorFmt, status, string(body)), registry.ErrAPIStatus(status))
	}

	var result struct {
		ID string `json:"id"`
	}
	if err := json.Unmarshal(body, &result); err != nil {
		return p.failed(fmt.Sprintf(registry.MsgFailedParseResponseFmt, err), err)
	}

	return &EmailResult{
		Success:   true,
		MessageID: result.ID,
		Provider:  p.ProviderName,
	}, nil
}

func (p *ResendProvider) Verify(ctx context.Context) (bool, error) {
	return p.verify(ctx, p.APIURL+registry.PathResendAPIKeys)
}
