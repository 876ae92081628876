package config

// ConnectionProfile is the resolved, validated connection configuration.
// It is created once per invocation and never mutated afterwards.
type ConnectionProfile struct {
	// ServerURL is normalized: one trailing slash stripped, https scheme
	// prepended when none is given.
	ServerURL string
	// APIToken authenticates every request.
	APIToken string
	// VerifySSL controls TLS certificate verification.
	VerifySSL bool
	// ProfileName is the config-file section the profile was resolved from.
	ProfileName string
}

// Overrides carries explicit values that outrank every other configuration
// source. Zero values mean "not given".
type Overrides struct {
	Profile   string
	URL       string
	APIToken  string
	VerifySSL *bool
}

// ConfigurationError means resolution produced an empty required field.
// The user has to fix their flags, environment or config file; nothing
// about it is retryable.
type ConfigurationError struct {
	Message string
}

func (e *ConfigurationError) Error() string { return e.Message }

// Kind returns the error kind discriminator.
func (e *ConfigurationError) Kind() string { return "ConfigurationError" }
