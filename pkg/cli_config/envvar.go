package cli_config

import "os"

// EnvVar names an environment variable. Use GetOr to read it with a fallback.
type EnvVar string

// GetOr returns the variable's value, or defaultValue if it is unset or empty.
func (s EnvVar) GetOr(defaultValue string) string {
	value := os.Getenv(string(s))
	if value == "" {
		return defaultValue
	}
	return value
}

// IsSet reports whether the variable is set to a non-empty value.
func (s EnvVar) IsSet() bool {
	return os.Getenv(string(s)) != ""
}

func (s EnvVar) String() string {
	return string(s)
}
