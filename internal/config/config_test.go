package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func isolate(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", filepath.Join(dir, "config"))
	t.Setenv("XDG_STATE_HOME", filepath.Join(dir, "state"))
	t.Setenv("PUSHDESK_ENV_FILE", filepath.Join(dir, "missing.env"))
	t.Setenv("PUSHDESK_CONFIG_PATH", "")
	reset()
	t.Cleanup(reset)
	return dir
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), FileModeDir))
	require.NoError(t, os.WriteFile(path, []byte(content), FileModeFile))
}

func TestLoadDefaults(t *testing.T) {
	dir := isolate(t)
	Load()

	assert.Equal(t, "http://localhost:8080/api", Get("api_url", ""))
	assert.Equal(t, 10*time.Second, GetDuration("request_timeout", 0))
	assert.False(t, GetBool("production", true))
	assert.Equal(t, 300, GetInt("fallback_latency_ms", 0))
	assert.Equal(t, "en-us", Get("locale", ""))
	assert.Equal(t, 10, GetInt("page_size", 0))
	assert.True(t, GetBool("journal_enabled", false))
	assert.Equal(t, filepath.Join(dir, "state", "pushdesk"), Get("state_dir", ""))
	assert.Equal(t, filepath.Join(dir, "config", "pushdesk"), Get("config_dir", ""))
}

func TestLoadFromTOMLFile(t *testing.T) {
	dir := isolate(t)
	path := filepath.Join(dir, "config", "pushdesk", "config.toml")
	writeFile(t, path, `
api_url = "https://api.example.com/v1/"
page_size = 25
production = true
request_timeout = "3s"
`)
	Load()

	assert.Equal(t, "https://api.example.com/v1", Get("api_url", ""))
	assert.Equal(t, 25, GetInt("page_size", 0))
	assert.True(t, GetBool("production", false))
	assert.Equal(t, 3*time.Second, GetDuration("request_timeout", 0))
}

func TestEnvOverridesFile(t *testing.T) {
	dir := isolate(t)
	path := filepath.Join(dir, "custom.toml")
	writeFile(t, path, `page_size = 25`)
	t.Setenv("PUSHDESK_CONFIG_PATH", path)
	t.Setenv("PUSHDESK_PAGE_SIZE", "50")
	Load()

	assert.Equal(t, 50, GetInt("page_size", 0))
}

func TestDotEnvFillsMissingVariables(t *testing.T) {
	dir := isolate(t)
	envFile := filepath.Join(dir, "test.env")
	writeFile(t, envFile, "PUSHDESK_LOCALE=ru-RU\nPUSHDESK_FALLBACK_LATENCY_MS=0\n")
	t.Setenv("PUSHDESK_ENV_FILE", envFile)
	// godotenv writes to the real environment; register cleanup for the keys it sets.
	t.Setenv("PUSHDESK_LOCALE", "")
	os.Unsetenv("PUSHDESK_LOCALE")
	t.Setenv("PUSHDESK_FALLBACK_LATENCY_MS", "")
	os.Unsetenv("PUSHDESK_FALLBACK_LATENCY_MS")
	Load()

	assert.Equal(t, "ru-ru", Get("locale", ""))
	assert.Equal(t, 0, GetInt("fallback_latency_ms", -1))
}

func TestInvalidValuesFallBackToDefaults(t *testing.T) {
	tests := []struct {
		name  string
		env   string
		value string
		key   string
		want  string
	}{
		{name: "non-numeric page size", env: "PUSHDESK_PAGE_SIZE", value: "many", key: "page_size", want: "10"},
		{name: "zero page size", env: "PUSHDESK_PAGE_SIZE", value: "0", key: "page_size", want: "10"},
		{name: "negative latency", env: "PUSHDESK_FALLBACK_LATENCY_MS", value: "-5", key: "fallback_latency_ms", want: "300"},
		{name: "bad url", env: "PUSHDESK_API_URL", value: "ftp://nowhere", key: "api_url", want: "http://localhost:8080/api"},
		{name: "bad bool", env: "PUSHDESK_PRODUCTION", value: "maybe", key: "production", want: "false"},
		{name: "bad locale", env: "PUSHDESK_LOCALE", value: "de-DE", key: "locale", want: "en-US"},
		{name: "bad timeout", env: "PUSHDESK_REQUEST_TIMEOUT", value: "soon", key: "request_timeout", want: "10s"},
		{name: "bool alias", env: "PUSHDESK_DEBUG", value: "yes", key: "debug", want: "true"},
		{name: "integer timeout is seconds", env: "PUSHDESK_REQUEST_TIMEOUT", value: "5", key: "request_timeout", want: "5s"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			isolate(t)
			t.Setenv(tt.env, tt.value)
			Load()
			assert.Equal(t, tt.want, Get(tt.key, ""))
		})
	}
}

func TestMalformedTOMLIsIgnored(t *testing.T) {
	dir := isolate(t)
	path := filepath.Join(dir, "broken.toml")
	writeFile(t, path, "page_size = = 3")
	t.Setenv("PUSHDESK_CONFIG_PATH", path)
	Load()

	assert.Equal(t, 10, GetInt("page_size", 0))
}

func TestGettersReturnDefaultsForUnknownKeys(t *testing.T) {
	isolate(t)
	Load()

	assert.Equal(t, "x", Get("nope", "x"))
	assert.Equal(t, 7, GetInt("nope", 7))
	assert.True(t, GetBool("nope", true))
	assert.Equal(t, time.Minute, GetDuration("nope", time.Minute))
}

func TestSetOverridesValue(t *testing.T) {
	isolate(t)
	Load()
	Set("production", "true")
	assert.True(t, GetBool("production", false))
}

func TestSampleConfigIsTOML(t *testing.T) {
	isolate(t)
	Load()
	data, err := SampleConfig()
	require.NoError(t, err)
	assert.Contains(t, string(data), "# pushdesk configuration")
	assert.Contains(t, string(data), "page_size = 10")
}

func TestRegisterValidatorPanicsOnDuplicate(t *testing.T) {
	assert.Panics(t, func() {
		RegisterValidator("page_size", PositiveIntValidator())
	})
}
