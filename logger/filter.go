package logger

import "strings"

// DefaultMaskValue replaces sensitive values in log output
const DefaultMaskValue = "***"

// FilterConfig defines which field names are masked in log output
type FilterConfig struct {
	// SensitiveFields contains field name fragments that should be masked
	SensitiveFields []string
	// MaskValue is the value used to replace sensitive data (default: "***")
	MaskValue string
}

// DefaultFilterConfig returns a configuration masking credential-bearing
// fields such as the API key
func DefaultFilterConfig() *FilterConfig {
	return &FilterConfig{
		SensitiveFields: []string{
			"api_key", "apikey", "key",
			"secret", "token",
			"auth", "authorization",
			"credential", "credentials",
		},
		MaskValue: DefaultMaskValue,
	}
}

// CredentialFilter masks sensitive values before they reach log output
type CredentialFilter struct {
	config *FilterConfig
}

// NewCredentialFilter creates a filter with the given configuration
func NewCredentialFilter(config *FilterConfig) *CredentialFilter {
	if config == nil {
		config = DefaultFilterConfig()
	}
	if config.MaskValue == "" {
		config.MaskValue = DefaultMaskValue
	}
	return &CredentialFilter{config: config}
}

// FilterString masks string values stored under sensitive field names
func (f *CredentialFilter) FilterString(key, value string) string {
	if value != "" && f.isSensitiveField(key) {
		return f.config.MaskValue
	}
	return value
}

// FilterValue masks arbitrary values, recursing into string-keyed maps
func (f *CredentialFilter) FilterValue(key string, value any) any {
	if f.isSensitiveField(key) {
		return f.config.MaskValue
	}
	if m, ok := value.(map[string]any); ok {
		return f.FilterFields(m)
	}
	return value
}

// FilterFields masks sensitive entries in a field map
func (f *CredentialFilter) FilterFields(fields map[string]any) map[string]any {
	filtered := make(map[string]any, len(fields))
	for key, value := range fields {
		filtered[key] = f.FilterValue(key, value)
	}
	return filtered
}

// isSensitiveField checks if a field name is considered sensitive
func (f *CredentialFilter) isSensitiveField(fieldName string) bool {
	lower := strings.ToLower(fieldName)
	for _, sensitive := range f.config.SensitiveFields {
		if strings.Contains(lower, sensitive) {
			return true
		}
	}
	return false
}
