package config

import (
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{
		"HOST", "PORT", "ENV", "API_KEY", "ENFORCE_AUTH", "FIREBASE_CREDENTIALS",
		"GOOGLE_APPLICATION_CREDENTIALS", "FIREBASE_PROJECT_ID", "STORE_BACKEND",
		"DEVICES_COLLECTION", "DATABASE_URL", "LLM_BASE_URL", "LLM_MODEL", "LLM_TIMEOUT",
		"LOG_LEVEL", "CORS_ALLOWED_ORIGINS",
	} {
		// Setenv registers the restore; Unsetenv makes the key absent for Load.
		t.Setenv(key, "")
		os.Unsetenv(key)
	}
}

func TestLoad_Defaults(t *testing.T) {
	clearEnv(t)

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "127.0.0.1:8600", cfg.Addr())
	assert.Equal(t, "development", cfg.Server.Env)
	assert.False(t, cfg.IsProduction())
	assert.Equal(t, []string{"*"}, cfg.Server.AllowedOrigins)
	assert.Equal(t, "", cfg.Auth.APIKey)
	assert.False(t, cfg.Auth.Enforce)
	assert.Equal(t, StoreFirestore, cfg.Store.Backend)
	assert.Equal(t, "devices", cfg.Store.Collection)
	assert.Equal(t, "http://127.0.0.1:11434", cfg.LLM.BaseURL)
	assert.Equal(t, "llama3.2:3b", cfg.LLM.Model)
	assert.Equal(t, 30*time.Second, cfg.LLM.Timeout)
	assert.Equal(t, "info", cfg.Log.Level)
}

func TestLoad_EnforceFollowsKeyByDefault(t *testing.T) {
	clearEnv(t)
	t.Setenv("API_KEY", "secret")

	cfg, err := Load()
	require.NoError(t, err)
	assert.True(t, cfg.Auth.Enforce)
	assert.Equal(t, "secret", cfg.Auth.APIKey)
}

func TestLoad_EnforceExplicitlyDisabled(t *testing.T) {
	clearEnv(t)
	t.Setenv("API_KEY", "secret")
	t.Setenv("ENFORCE_AUTH", "false")

	cfg, err := Load()
	require.NoError(t, err)
	assert.False(t, cfg.Auth.Enforce)
}

func TestLoad_Errors(t *testing.T) {
	testCases := []struct {
		name string
		env  map[string]string
	}{
		{name: "enforce without key", env: map[string]string{"ENFORCE_AUTH": "true"}},
		{name: "bad enforce flag", env: map[string]string{"API_KEY": "k", "ENFORCE_AUTH": "maybe"}},
		{name: "bad timeout", env: map[string]string{"LLM_TIMEOUT": "soon"}},
		{name: "negative timeout", env: map[string]string{"LLM_TIMEOUT": "-1s"}},
		{name: "unknown backend", env: map[string]string{"STORE_BACKEND": "mongo"}},
		{name: "postgres without url", env: map[string]string{"STORE_BACKEND": "postgres"}},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			clearEnv(t)
			for k, v := range tc.env {
				t.Setenv(k, v)
			}
			_, err := Load()
			assert.Error(t, err)
		})
	}
}

func TestLoad_CredentialsFallback(t *testing.T) {
	clearEnv(t)
	t.Setenv("GOOGLE_APPLICATION_CREDENTIALS", "/etc/hub/firebase-admin.json")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "/etc/hub/firebase-admin.json", cfg.Firebase.CredentialsFile)
}

func TestParseCSV(t *testing.T) {
	assert.Equal(t, []string{}, parseCSV(""))
	assert.Equal(t, []string{"a", "b"}, parseCSV(" a, ,b "))
}
