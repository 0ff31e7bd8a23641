package strategies

import (
	"context"
	"errors"
	"sync"

	"booth-service/pkg/mailer/providers"
	"booth-service/pkg/mailer/registry"
)

// RoundRobinStrategy rotates the first provider tried on every send and
// falls through the rest on failure.
type RoundRobinStrategy struct {
	currentIndex int
	mu           sync.Mutex
}

func (s *RoundRobinStrategy) Send(ctx context.Context, emailData *providers.EmailData, providerList []providers.EmailProvider) (*providers.EmailResult, error) {
	if len(providerList) == 0 {
		return noProviders()
	}

	s.mu.Lock()
	startIndex := s.currentIndex % len(providerList)
	s.currentIndex = (startIndex + 1) % len(providerList)
	s.mu.Unlock()

	lastErr := registry.ErrNoProvidersConfigured
	lastProvider := registry.ProviderLabelNone
	for i := range len(providerList) {
		provider := providerList[(startIndex+i)%len(providerList)]
		if provider == nil {
			continue
		}
		if err := ctx.Err(); err != nil {
			lastErr = err
			break
		}

		result, err := provider.Send(ctx, emailData)
		if result != nil && result.Success {
			return result, nil
		}

		lastProvider = provider.GetName()
		if err != nil {
			lastErr = err
			continue
		}
		lastErr = errors.New(failureText(result, nil))
	}

	return &providers.EmailResult{
		Success:  false,
		Error:    lastErr.Error(),
		Provider: lastProvider,
	}, lastErr
}
