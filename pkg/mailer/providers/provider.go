package providers

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"booth-service/pkg/mailer/registry"
)

type EmailProvider interface {
	Send(ctx context.Context, emailData *EmailData) (*EmailResult, error)
	Verify(ctx context.Context) (bool, error)
	GetName() string
}

type BaseProvider struct {
	APIKey       string
	ProviderName string
	Client       *http.Client
}

func (p *BaseProvider) GetName() string {
	return p.ProviderName
}

type EmailData struct {
	To      []string
	From    string
	Subject string
	HTML    string
	Text    string
	ReplyTo string
	CC      []string
	BCC     []string
}

type EmailResult struct {
	Success   bool
	MessageID string
	Error     string
	Provider  string
}

func newHTTPClient() *http.Client {
	return &http.Client{Timeout: registry.ProviderRequestTimeout}
}

func (p *BaseProvider) failed(msg string, err error) (*EmailResult, error) {
	return &EmailResult{Success: false, Error: msg, Provider: p.ProviderName}, err
}

// postJSON sends payload with bearer auth and returns the status, headers
// and a bounded body.
func (p *BaseProvider) postJSON(ctx context.Context, url string, payload any) (int, http.Header, []byte, error) {
	jsonData, err := json.Marshal(payload)
	if err != nil {
		return 0, nil, nil, fmt.Errorf(registry.MsgFailedMarshalPayloadFmt, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(jsonData))
	if err != nil {
		return 0, nil, nil, fmt.Errorf(registry.MsgFailedCreateRequestFmt, err)
	}
	req.Header.Set(registry.HeaderAuthorization, registry.AuthBearerPrefix+p.APIKey)
	req.Header.Set(registry.HeaderContentType, registry.MIMEApplicationJSON)

	resp, err := p.Client.Do(req)
	if err != nil {
		return 0, nil, nil, fmt.Errorf(registry.MsgRequestFailedFmt, err)
	}
	defer resp.Body.Close()

	body, _ := io.ReadAll(io.LimitReader(resp.Body, registry.MaxResponseBodyBytes))
	return resp.StatusCode, resp.Header, body, nil
}

func (p *BaseProvider) verify(ctx context.Context, url string) (bool, error) {
	if p.APIKey == "" {
		return false, registry.ErrAPIKeyRequired
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return false, err
	}
	req.Header.Set(registry.HeaderAuthorization, registry.AuthBearerPrefix+p.APIKey)

	resp, err := p.Client.Do(req)
	if err != nil {
		return false, err
	}
	defer resp.Body.Close()

	return isHTTPSuccess(resp.StatusCode), nil
}

func isHTTPSuccess(statusCode int) bool {
	return statusCode >= registry.HTTPStatusSuccessMin && statusCode < registry.HTTPStatusSuccessMax
}
