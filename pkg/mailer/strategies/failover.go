package strategies

import (
	"context"
	"fmt"
	"strings"

	"booth-service/pkg/mailer/providers"
	"booth-service/pkg/mailer/registry"
)

// FailoverStrategy tries providers in order and stops at the first success.
type FailoverStrategy struct{}

func (s *FailoverStrategy) Send(ctx context.Context, emailData *providers.EmailData, providerList []providers.EmailProvider) (*providers.EmailResult, error) {
	if len(providerList) == 0 {
		return noProviders()
	}

	var errorMessages []string
	for _, provider := range providerList {
		if provider == nil {
			errorMessages = append(errorMessages, fmt.Sprintf(registry.MsgProviderErrorFmt, registry.UnknownProviderName, registry.ErrProviderCannotBeNil.Error()))
			continue
		}
		if err := ctx.Err(); err != nil {
			errorMessages = append(errorMessages, fmt.Sprintf(registry.MsgProviderErrorFmt, provider.GetName(), err.Error()))
			break
		}

		result, err := provider.Send(ctx, emailData)
		if result != nil && result.Success {
			return result, nil
		}
		errorMessages = append(errorMessages, fmt.Sprintf(registry.MsgProviderErrorFmt, provider.GetName(), failureText(result, err)))
	}

	return &providers.EmailResult{
		Success:  false,
		Error:    fmt.Sprintf(registry.MsgProviderErrorFmt, registry.ErrAllProvidersFailed.Error(), strings.Join(errorMessages, registry.MessageSeparator)),
		Provider: registry.ProviderLabelFailover,
	}, registry.ErrAllProvidersFailed
}
