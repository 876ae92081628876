package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testConfig = `[default]
url = https://prtg.example.com
api_token = file-token
verify_ssl = true

[staging]
url = https://staging.example.com
api_token_rw = staging-rw-token
api_token_ro = staging-ro-token
verify_ssl = false
`

func writeTestConfig(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config")
	require.NoError(t, os.WriteFile(path, []byte(testConfig), 0o600))
	return path
}

func testResolver(t *testing.T) *Resolver {
	t.Helper()
	resolver, err := NewResolver(writeTestConfig(t), WithoutDotenv())
	require.NoError(t, err)
	return resolver
}

func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{
		"PRTG_PROFILE", "PRTG_URL", "PRTG_API_TOKEN",
		"PRTG_API_TOKEN_RW", "PRTG_API_TOKEN_RO", "PRTG_NO_VERIFY_SSL",
	} {
		t.Setenv(key, "")
	}
}

func TestResolvePrecedence(t *testing.T) {
	t.Run("file values only", func(t *testing.T) {
		clearEnv(t)
		profile, err := testResolver(t).Resolve(Overrides{})
		require.NoError(t, err)

		assert.Equal(t, "default", profile.ProfileName)
		assert.Equal(t, "https://prtg.example.com", profile.ServerURL)
		assert.Equal(t, "file-token", profile.APIToken)
		assert.True(t, profile.VerifySSL)
	})

	t.Run("environment beats file", func(t *testing.T) {
		clearEnv(t)
		t.Setenv("PRTG_URL", "https://env.example.com")
		t.Setenv("PRTG_API_TOKEN", "env-token")

		profile, err := testResolver(t).Resolve(Overrides{})
		require.NoError(t, err)
		assert.Equal(t, "https://env.example.com", profile.ServerURL)
		assert.Equal(t, "env-token", profile.APIToken)
	})

	t.Run("explicit override beats environment", func(t *testing.T) {
		clearEnv(t)
		t.Setenv("PRTG_URL", "https://env.example.com")
		t.Setenv("PRTG_API_TOKEN", "env-token")

		profile, err := testResolver(t).Resolve(Overrides{
			URL:      "https://flag.example.com",
			APIToken: "flag-token",
		})
		require.NoError(t, err)
		assert.Equal(t, "https://flag.example.com", profile.ServerURL)
		assert.Equal(t, "flag-token", profile.APIToken)
	})

	t.Run("profile selection via environment", func(t *testing.T) {
		clearEnv(t)
		t.Setenv("PRTG_PROFILE", "staging")

		profile, err := testResolver(t).Resolve(Overrides{})
		require.NoError(t, err)
		assert.Equal(t, "staging", profile.ProfileName)
		assert.Equal(t, "https://staging.example.com", profile.ServerURL)
		assert.False(t, profile.VerifySSL)
	})

	t.Run("profile override beats environment", func(t *testing.T) {
		clearEnv(t)
		t.Setenv("PRTG_PROFILE", "staging")

		profile, err := testResolver(t).Resolve(Overrides{Profile: "default"})
		require.NoError(t, err)
		assert.Equal(t, "default", profile.ProfileName)
	})
}

func TestResolveTokenFallback(t *testing.T) {
	t.Run("rw token beats ro token in file", func(t *testing.T) {
		clearEnv(t)
		profile, err := testResolver(t).Resolve(Overrides{Profile: "staging"})
		require.NoError(t, err)
		assert.Equal(t, "staging-rw-token", profile.APIToken)
	})

	t.Run("env rw beats env ro", func(t *testing.T) {
		clearEnv(t)
		t.Setenv("PRTG_API_TOKEN_RW", "env-rw")
		t.Setenv("PRTG_API_TOKEN_RO", "env-ro")

		profile, err := testResolver(t).Resolve(Overrides{})
		require.NoError(t, err)
		assert.Equal(t, "env-rw", profile.APIToken)
	})

	t.Run("plain env token beats scoped env tokens", func(t *testing.T) {
		clearEnv(t)
		t.Setenv("PRTG_API_TOKEN", "env-plain")
		t.Setenv("PRTG_API_TOKEN_RW", "env-rw")

		profile, err := testResolver(t).Resolve(Overrides{})
		require.NoError(t, err)
		assert.Equal(t, "env-plain", profile.APIToken)
	})

	t.Run("any env token beats file token", func(t *testing.T) {
		clearEnv(t)
		t.Setenv("PRTG_API_TOKEN_RO", "env-ro")

		profile, err := testResolver(t).Resolve(Overrides{})
		require.NoError(t, err)
		assert.Equal(t, "env-ro", profile.APIToken)
	})
}

func TestResolveVerifySSL(t *testing.T) {
	t.Run("env disables verification", func(t *testing.T) {
		clearEnv(t)
		t.Setenv("PRTG_NO_VERIFY_SSL", "true")

		profile, err := testResolver(t).Resolve(Overrides{})
		require.NoError(t, err)
		assert.False(t, profile.VerifySSL)
	})

	t.Run("falsy env value keeps verification on", func(t *testing.T) {
		clearEnv(t)
		t.Setenv("PRTG_NO_VERIFY_SSL", "0")

		profile, err := testResolver(t).Resolve(Overrides{})
		require.NoError(t, err)
		assert.True(t, profile.VerifySSL)
	})

	t.Run("override beats env", func(t *testing.T) {
		clearEnv(t)
		t.Setenv("PRTG_NO_VERIFY_SSL", "true")

		verify := true
		profile, err := testResolver(t).Resolve(Overrides{VerifySSL: &verify})
		require.NoError(t, err)
		assert.True(t, profile.VerifySSL)
	})
}

func TestResolveMissingValues(t *testing.T) {
	t.Run("missing url", func(t *testing.T) {
		clearEnv(t)
		resolver, err := NewResolver(filepath.Join(t.TempDir(), "absent"), WithoutDotenv())
		require.NoError(t, err)

		_, err = resolver.Resolve(Overrides{APIToken: "token"})
		var cfgErr *ConfigurationError
		require.ErrorAs(t, err, &cfgErr)
		assert.Contains(t, cfgErr.Error(), "URL is required")
	})

	t.Run("missing token", func(t *testing.T) {
		clearEnv(t)
		resolver, err := NewResolver(filepath.Join(t.TempDir(), "absent"), WithoutDotenv())
		require.NoError(t, err)

		_, err = resolver.Resolve(Overrides{URL: "https://prtg.example.com"})
		var cfgErr *ConfigurationError
		require.ErrorAs(t, err, &cfgErr)
		assert.Contains(t, cfgErr.Error(), "API token is required")
	})

	t.Run("unknown profile resolves empty and fails", func(t *testing.T) {
		clearEnv(t)
		_, err := testResolver(t).Resolve(Overrides{Profile: "nonexistent"})
		var cfgErr *ConfigurationError
		require.ErrorAs(t, err, &cfgErr)
	})
}

func TestDotenvSeeding(t *testing.T) {
	// t.Setenv registers the restore, Unsetenv makes the variable truly
	// absent so the .env value can seed it.
	unsetEnv := func(key string) {
		t.Setenv(key, "")
		require.NoError(t, os.Unsetenv(key))
	}

	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".env"),
		[]byte("PRTG_URL=https://dotenv.example.com\nPRTG_API_TOKEN=dotenv-token\n"), 0o600))
	oldWD, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { require.NoError(t, os.Chdir(oldWD)) })

	clearEnv(t)
	unsetEnv("PRTG_URL")
	unsetEnv("PRTG_API_TOKEN_RW")
	unsetEnv("PRTG_API_TOKEN_RO")
	t.Setenv("PRTG_API_TOKEN", "env-token")

	resolver, err := NewResolver(filepath.Join(dir, "config"))
	require.NoError(t, err)

	profile, err := resolver.Resolve(Overrides{})
	require.NoError(t, err)

	// URL is absent from the environment, so .env fills it; the token is
	// set in the real environment, which outranks the .env value.
	assert.Equal(t, "https://dotenv.example.com", profile.ServerURL)
	assert.Equal(t, "env-token", profile.APIToken)

	// .env loads at most once per process: a rewritten file is not picked
	// up by later resolvers.
	unsetEnv("PRTG_URL")
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".env"),
		[]byte("PRTG_URL=https://changed.example.com\n"), 0o600))

	again, err := NewResolver(filepath.Join(dir, "config"))
	require.NoError(t, err)
	_, err = again.Resolve(Overrides{APIToken: "token"})
	var cfgErr *ConfigurationError
	require.ErrorAs(t, err, &cfgErr)
	assert.Contains(t, cfgErr.Error(), "URL is required")
}

func TestNewResolver(t *testing.T) {
	t.Run("missing file is not an error", func(t *testing.T) {
		resolver, err := NewResolver(filepath.Join(t.TempDir(), "absent"), WithoutDotenv())
		require.NoError(t, err)
		assert.NotNil(t, resolver)
	})

	t.Run("malformed file is an error", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "config")
		require.NoError(t, os.WriteFile(path, []byte("[unclosed\ngarbage ==="), 0o600))

		_, err := NewResolver(path, WithoutDotenv())
		require.Error(t, err)
		assert.Contains(t, err.Error(), "error reading config file")
	})
}

func TestNormalizeURL(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{"adds https scheme", "prtg.example.com", "https://prtg.example.com"},
		{"keeps http scheme", "http://prtg.example.com", "http://prtg.example.com"},
		{"strips trailing slash", "https://prtg.example.com/", "https://prtg.example.com"},
		{"scheme and slash", "prtg.example.com/", "https://prtg.example.com"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := NormalizeURL(tt.input)
			assert.Equal(t, tt.expected, got)
			// Idempotent: normalizing twice changes nothing.
			assert.Equal(t, got, NormalizeURL(got))
		})
	}
}

func TestProfiles(t *testing.T) {
	profiles := testResolver(t).Profiles()
	assert.Equal(t, []string{"default", "staging"}, profiles)
}

func TestCheck(t *testing.T) {
	clearEnv(t)
	summary, err := testResolver(t).Check(Overrides{})
	require.NoError(t, err)

	assert.Contains(t, summary, "default")
	assert.Contains(t, summary, "https://prtg.example.com")
	// The token never shows up unredacted.
	assert.NotContains(t, summary, "file-token")
}

func TestInitFile(t *testing.T) {
	t.Run("writes starter config", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "subdir", "config")
		created, err := InitFile(path, false)
		require.NoError(t, err)
		assert.Equal(t, path, created)

		data, err := os.ReadFile(path)
		require.NoError(t, err)
		assert.Contains(t, string(data), "[default]")
		assert.Contains(t, string(data), "api_token")
	})

	t.Run("refuses to overwrite without force", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "config")
		require.NoError(t, os.WriteFile(path, []byte("existing"), 0o600))

		_, err := InitFile(path, false)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "already exists")

		_, err = InitFile(path, true)
		require.NoError(t, err)
	})
}
