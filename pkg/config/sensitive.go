package config

import "encoding/json"

const redactedPlaceholder = "[REDACTED]"

// SensitiveString is a string that redacts itself when printed or marshaled.
// It is used for the DSN secret so credentials never leak into logs or
// serialized configuration dumps. Use Value() for the actual secret.
type SensitiveString string

// String returns a redacted representation for non-empty values.
func (s SensitiveString) String() string {
	if s == "" {
		return ""
	}
	return redactedPlaceholder
}

// Value returns the underlying secret.
func (s SensitiveString) Value() string {
	return string(s)
}

// MarshalJSON marshals the redacted representation, never the secret.
func (s SensitiveString) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.String())
}

// UnmarshalJSON accepts the actual secret value.
func (s *SensitiveString) UnmarshalJSON(data []byte) error {
	var raw string
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	*s = SensitiveString(raw)
	return nil
}
