package config

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/spf13/viper"
	"github.com/subosito/gotenv"
)

// EnvPrefix is the prefix for every environment variable this tool reads.
const EnvPrefix = "PRTG_"

// dotenvOnce makes sure a ./.env file seeds the environment at most once
// per process, no matter how many resolvers are built.
var dotenvOnce sync.Once

// DefaultPath returns the conventional per-user config file location.
func DefaultPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("cannot determine home directory: %w", err)
	}
	return filepath.Join(home, ".config", "prtg", "config"), nil
}

// Resolver merges configuration from CLI overrides, environment variables,
// an optional ./.env file and an INI-style profile file.
type Resolver struct {
	v    *viper.Viper
	path string
}

type resolverOptions struct {
	skipDotenv bool
}

// ResolverOption configures optional Resolver behavior.
type ResolverOption func(*resolverOptions)

// WithoutDotenv disables loading ./.env into the environment. Tests use
// this to keep a stray .env from polluting their assertions.
func WithoutDotenv() ResolverOption {
	return func(o *resolverOptions) {
		o.skipDotenv = true
	}
}

// NewResolver loads the config file at path (or the default per-user
// location when path is empty) and, unless disabled, seeds the environment
// from ./.env. A missing config file is not an error; a malformed one is.
func NewResolver(path string, opts ...ResolverOption) (*Resolver, error) {
	var options resolverOptions
	for _, opt := range opts {
		opt(&options)
	}

	if !options.skipDotenv {
		dotenvOnce.Do(func() {
			if _, err := os.Stat(".env"); err == nil {
				// Fill gaps only: a variable already set in the real
				// environment wins over the same key in .env.
				_ = gotenv.Load(".env")
			}
		})
	}

	if path == "" {
		defaultPath, err := DefaultPath()
		if err != nil {
			return nil, err
		}
		path = defaultPath
	}

	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("ini")

	if _, err := os.Stat(path); err == nil {
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("error reading config file %s: %w", path, err)
		}
	}

	return &Resolver{v: v, path: path}, nil
}

// Path returns the config file location this resolver reads from.
func (r *Resolver) Path() string { return r.path }

// Resolve merges all sources into a validated ConnectionProfile.
//
// Precedence, highest first and evaluated independently per field:
// explicit override > environment (dotenv included) > profile section in
// the config file. The API token additionally prefers the single-purpose
// token over role-scoped ones, and read-write over read-only.
func (r *Resolver) Resolve(o Overrides) (*ConnectionProfile, error) {
	profile := firstNonEmpty(o.Profile, getenv("PROFILE"), "default")

	serverURL := firstNonEmpty(
		o.URL,
		getenv("URL"),
		r.fileValue(profile, "url"),
	)

	apiToken := firstNonEmpty(
		o.APIToken,
		getenv("API_TOKEN"),
		getenv("API_TOKEN_RW"),
		getenv("API_TOKEN_RO"),
		r.fileValue(profile, "api_token"),
		r.fileValue(profile, "api_token_rw"),
		r.fileValue(profile, "api_token_ro"),
	)

	verifySSL := true
	switch {
	case o.VerifySSL != nil:
		verifySSL = *o.VerifySSL
	case getenv("NO_VERIFY_SSL") != "":
		verifySSL = !isTruthy(getenv("NO_VERIFY_SSL"))
	case r.fileValue(profile, "verify_ssl") != "":
		verifySSL = isTruthy(r.fileValue(profile, "verify_ssl"))
	}

	if serverURL == "" {
		return nil, &ConfigurationError{Message: "PRTG URL is required"}
	}
	if apiToken == "" {
		return nil, &ConfigurationError{Message: "API token is required"}
	}

	return &ConnectionProfile{
		ServerURL:   NormalizeURL(serverURL),
		APIToken:    apiToken,
		VerifySSL:   verifySSL,
		ProfileName: profile,
	}, nil
}

// Profiles lists the section names defined in the config file.
func (r *Resolver) Profiles() []string {
	seen := map[string]bool{}
	var profiles []string
	for _, key := range r.v.AllKeys() {
		section, _, ok := strings.Cut(key, ".")
		if !ok || seen[section] {
			continue
		}
		seen[section] = true
		profiles = append(profiles, section)
	}
	sort.Strings(profiles)
	return profiles
}

// Check resolves the configuration and returns a human-readable summary
// with the token redacted.
func (r *Resolver) Check(o Overrides) (string, error) {
	profile, err := r.Resolve(o)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf(
		"Configuration valid:\n  Profile: %s\n  URL: %s\n  API Token: %s\n  Verify SSL: %t",
		profile.ProfileName,
		profile.ServerURL,
		redactToken(profile.APIToken),
		profile.VerifySSL,
	), nil
}

func (r *Resolver) fileValue(profile, key string) string {
	return r.v.GetString(profile + "." + key)
}

// NormalizeURL strips one trailing slash and prepends https:// when the URL
// carries no scheme. It is idempotent.
func NormalizeURL(raw string) string {
	u := strings.TrimSuffix(raw, "/")
	if !strings.HasPrefix(u, "http://") && !strings.HasPrefix(u, "https://") {
		u = "https://" + u
	}
	return u
}

// initFileContent is the starter config written by InitFile.
const initFileContent = `# PRTG CLI Tool Configuration
# Get your API token from: Setup > My Account > API Keys
# Create additional sections for different profiles

[default]
url = https://prtg.example.com
api_token = YOUR_API_TOKEN_HERE
verify_ssl = true
`

// InitFile writes a commented starter config. It refuses to overwrite an
// existing file unless force is set.
func InitFile(path string, force bool) (string, error) {
	if path == "" {
		defaultPath, err := DefaultPath()
		if err != nil {
			return "", err
		}
		path = defaultPath
	}

	if _, err := os.Stat(path); err == nil && !force {
		return "", fmt.Errorf("config file already exists: %s", path)
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return "", fmt.Errorf("failed to create config directory: %w", err)
	}
	if err := os.WriteFile(path, []byte(initFileContent), 0o600); err != nil {
		return "", fmt.Errorf("failed to write config file: %w", err)
	}
	return path, nil
}

func getenv(key string) string {
	return os.Getenv(EnvPrefix + key)
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}

func isTruthy(value string) bool {
	switch strings.ToLower(value) {
	case "1", "true", "yes":
		return true
	}
	return false
}

func redactToken(token string) string {
	if len(token) > 20 {
		return token[:10] + "..." + token[len(token)-10:]
	}
	if len(token) > 4 {
		return token[:4] + "..."
	}
	return "..."
}
