package capture

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"
)

type Operation string

const (
	OpRemoveBackground Operation = "remove-background"
	OpAIBackground     Operation = "ai-background"
	OpAIFilter         Operation = "ai-filter"
)

const (
	headerCreditCost    = "X-Credit-Cost"
	headerOperation     = "X-Operation"
	headerPrompt        = "X-Prompt"
	headerAuthorization = "Authorization"
	bearerPrefix        = "Bearer "
	processorTimeout    = 90 * time.Second
	maxProcessedBytes   = 25 << 20

	errProcessorStatusFmt = "processor returned status %d: %s"
	errProcessorReadFmt   = "failed to read processor response: %w"
	errProcessorCallFmt   = "processor request failed: %w"
)

type ProcessRequest struct {
	Operation   Operation
	Image       []byte
	ContentType string
	Prompt      string
}

type ProcessResult struct {
	Image       []byte
	ContentType string
	CreditCost  int
}

// Processor is the background removal and AI generation provider.
// EstimateCost is checked against remaining credits before Process runs;
// the cost reported in ProcessResult is what gets charged.
type Processor interface {
	EstimateCost(req ProcessRequest) int
	Process(ctx context.Context, req ProcessRequest) (ProcessResult, error)
}

// HTTPProcessor posts the raw image to a provider endpoint and reads the
// processed image back. The provider reports the charged credits in the
// X-Credit-Cost header.
type HTTPProcessor struct {
	Endpoint string
	APIKey   string
	Costs    map[Operation]int
	Client   *http.Client
}

func NewHTTPProcessor(endpoint, apiKey string) *HTTPProcessor {
	return &HTTPProcessor{
		Endpoint: strings.TrimRight(endpoint, "/"),
		APIKey:   apiKey,
		Costs: map[Operation]int{
			OpRemoveBackground: 0,
			OpAIBackground:     1,
			OpAIFilter:         1,
		},
		Client: &http.Client{Timeout: processorTimeout},
	}
}

func (p *HTTPProcessor) EstimateCost(req ProcessRequest) int {
	return p.Costs[req.Operation]
}

func (p *HTTPProcessor) Process(ctx context.Context, req ProcessRequest) (ProcessResult, error) {
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, p.Endpoint+"/"+string(req.Operation), bytes.NewReader(req.Image))
	if err != nil {
		return ProcessResult{}, fmt.Errorf(errProcessorCallFmt, err)
	}
	httpReq.Header.Set("Content-Type", req.ContentType)
	httpReq.Header.Set(headerOperation, string(req.Operation))
	if req.Prompt != "" {
		httpReq.Header.Set(headerPrompt, req.Prompt)
	}
	if p.APIKey != "" {
		httpReq.Header.Set(headerAuthorization, bearerPrefix+p.APIKey)
	}

	resp, err := p.Client.Do(httpReq)
	if err != nil {
		return ProcessResult{}, fmt.Errorf(errProcessorCallFmt, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxProcessedBytes))
	if err != nil {
		return ProcessResult{}, fmt.Errorf(errProcessorReadFmt, err)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return ProcessResult{}, fmt.Errorf(errProcessorStatusFmt, resp.StatusCode, strings.TrimSpace(string(body)))
	}

	cost := p.EstimateCost(req)
	if v := resp.Header.Get(headerCreditCost); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n >= 0 {
			cost = n
		}
	}

	return ProcessResult{
		Image:       body,
		ContentType: resp.Header.Get("Content-Type"),
		CreditCost:  cost,
	}, nil
}
