package templates

import (
	"net/url"

	"booth-service/pkg/mailer/registry"
)

func validateLink(raw string) error {
	if raw == "" {
		return registry.ErrLinkRequired
	}
	parsed, err := url.Parse(raw)
	if err != nil || !parsed.IsAbs() || parsed.Host == "" {
		return registry.ErrLinkAbsolute
	}
	if parsed.Scheme != registry.URLSchemeHTTP && parsed.Scheme != registry.URLSchemeHTTPS {
		return registry.ErrLinkScheme
	}
	return nil
}

func hoursOrDefault(hours int) int {
	if hours <= 0 {
		return registry.DefaultLinkExpiryHours
	}
	return hours
}
