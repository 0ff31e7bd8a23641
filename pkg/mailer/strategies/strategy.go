package strategies

import (
	"context"
	"fmt"

	"booth-service/pkg/mailer/providers"
	"booth-service/pkg/mailer/registry"
)

type EmailStrategy interface {
	Send(ctx context.Context, emailData *providers.EmailData, providerList []providers.EmailProvider) (*providers.EmailResult, error)
}

// New returns the strategy registered under name. An empty name selects
// the single provider strategy.
func New(name string) (EmailStrategy, error) {
	switch name {
	case "", registry.StrategySingle:
		return &SingleProviderStrategy{}, nil
	case registry.StrategyFailover:
		return &FailoverStrategy{}, nil
	case registry.StrategyRoundRobin:
		return &RoundRobinStrategy{}, nil
	}
	return nil, fmt.Errorf("%w: %s", registry.ErrUnknownStrategy, name)
}

func noProviders() (*providers.EmailResult, error) {
	return &providers.EmailResult{
		Success:  false,
		Error:    registry.ErrNoProvidersConfigured.Error(),
		Provider: registry.ProviderLabelNone,
	}, registry.ErrNoProvidersConfigured
}

func failureText(result *providers.EmailResult, err error) string {
	switch {
	case result != nil && result.Error != "":
		return result.Error
	case err != nil:
		return err.Error()
	}
	return registry.StrategySendFailedText
}
