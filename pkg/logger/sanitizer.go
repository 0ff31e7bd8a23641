package logger

import (
	"regexp"
	"strings"
)

// Sensitive field patterns to filter from logs
var (
	tokenPattern      = regexp.MustCompile(`(?i)(token|jwt|bearer)[\s:=]+[^\s&]+`)
	apiKeyPattern     = regexp.MustCompile(`(?i)(admin[_-]?key|api[_-]?key|apikey)[\s:=]+[^\s&]+`)
	secretPattern     = regexp.MustCompile(`(?i)(secret|private[_-]?key)[\s:=]+[^\s&]+`)
	selectionURLToken = regexp.MustCompile(`(/selections/[^/\s]+/[^/\s]+/)[a-f0-9]{16,}`)
)

const redactedPlaceholder = "[REDACTED]"

var sensitiveKeys = []string{
	"token", "jwt", "bearer",
	"api_key", "apikey", "api-key", "admin_key",
	"secret", "private_key", "private-key",
	"password",
}

// SanitizeLogMessage removes link tokens and credentials from log messages
func SanitizeLogMessage(message string) string {
	message = tokenPattern.ReplaceAllString(message, "${1}="+redactedPlaceholder)
	message = apiKeyPattern.ReplaceAllString(message, "${1}="+redactedPlaceholder)
	message = secretPattern.ReplaceAllString(message, "${1}="+redactedPlaceholder)
	message = selectionURLToken.ReplaceAllString(message, "${1}"+redactedPlaceholder)
	return message
}

func IsSensitiveKey(key string) bool {
	lowerKey := strings.ToLower(key)
	for _, sensitiveKey := range sensitiveKeys {
		if strings.Contains(lowerKey, sensitiveKey) {
			return true
		}
	}
	return false
}

// SanitizeMap removes sensitive keys from a map
func SanitizeMap(data map[string]any) map[string]any {
	sanitized := make(map[string]any, len(data))
	for k, v := range data {
		if IsSensitiveKey(k) {
			sanitized[k] = redactedPlaceholder
		} else {
			sanitized[k] = v
		}
	}
	return sanitized
}
