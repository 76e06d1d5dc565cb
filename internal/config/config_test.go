package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func defaults() *Config {
	c := &Config{}
	c.LoadDefaults()

	return c
}

func writeTempJSON(t *testing.T, body string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "cfg.json")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))

	return path
}

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load(nil)
	require.NoError(t, err)

	assert.Empty(t, cmp.Diff(defaults(), cfg))
}

func TestLoad_Precedence(t *testing.T) {
	t.Setenv("PUBLISHER_ADDR", ":4000")
	t.Setenv("PUBLISHER_DIAG_ADDR", ":4001")
	t.Setenv("PUBLISHER_STORE", "mongo")
	t.Setenv("PUBLISHER_CHALLENGE_WRITES", "false")

	path := writeTempJSON(t, `{
		"diag_addr": ":5001",
		"mongo_db": "articles",
		"tz": "UTC",
		"accounts": {"alice": "secret"}
	}`)

	cfg, err := Load([]string{"-config", path, "-diag_addr", ":6001", "-store=postgres"})
	require.NoError(t, err)

	want := defaults()
	want.Addr = ":4000"
	want.DiagAddr = ":6001"
	want.Store = StorePostgres
	want.MongoDatabase = "articles"
	want.TimeZone = "UTC"
	want.ChallengeWrites = false
	want.Accounts = map[string]string{"alice": "secret"}

	assert.Empty(t, cmp.Diff(want, cfg))
}

func TestLoad_Errors(t *testing.T) {
	tests := []struct {
		name string
		env  map[string]string
		args []string
	}{
		{"unknown store", nil, []string{"-store", "redis"}},
		{"unknown flag", nil, []string{"-bogus"}},
		{"bad bool env", map[string]string{"PUBLISHER_ROUTES": "maybe"}, nil},
		{"bad time zone", nil, []string{"-tz", "Mars/Olympus_Mons"}},
		{"missing config file", nil, []string{"-config", "/nonexistent/cfg.json"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for k, v := range tt.env {
				t.Setenv(k, v)
			}

			_, err := Load(tt.args)
			assert.Error(t, err)
		})
	}
}

func TestLoad_MalformedJSON(t *testing.T) {
	_, err := Load([]string{"--config=" + writeTempJSON(t, `{"addr": `)})

	assert.Error(t, err)
}

func TestLocation(t *testing.T) {
	c := defaults()

	loc, err := c.Location()
	require.NoError(t, err)
	assert.Equal(t, time.Local, loc)

	c.TimeZone = "UTC"
	loc, err = c.Location()
	require.NoError(t, err)
	assert.Equal(t, time.UTC, loc)
}

func TestConfigFlag(t *testing.T) {
	assert.Equal(t, "a.json", configFlag([]string{"-addr", ":1", "-config", "a.json"}))
	assert.Equal(t, "b.json", configFlag([]string{"--config=b.json"}))
	assert.Equal(t, "", configFlag([]string{"config", "c.json"}))
	assert.Equal(t, "", configFlag(nil))
}
