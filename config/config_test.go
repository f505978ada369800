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

func TestLoad_OverridesDefaults(t *testing.T) {
	// GIVEN: A config file setting only some keys
	// WHEN: It is loaded
	// THEN: Set keys win, everything else keeps its default

	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte(`
[server]
port = 9090

[data]
db = "welfare.db"
watch = true

[analytics]
ranking_exclude = ["sms", "litalico"]
`), 0o644))

	cfg, info, err := Load(path)
	require.NoError(t, err)
	assert.True(t, info.Found)

	want := Default()
	want.Server.Port = 9090
	want.Data.DB = "welfare.db"
	want.Data.Watch = true
	want.Analytics.RankingExclude = []string{"sms", "litalico"}

	if diff := cmp.Diff(want, cfg); diff != "" {
		t.Errorf("config mismatch (-want +got):\n%s", diff)
	}
}

func TestLoad_MissingFile(t *testing.T) {
	dir := t.TempDir()

	_, _, err := Load(filepath.Join(dir, "absent.toml"))
	assert.Error(t, err, "an explicit path must exist")

	wd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { os.Chdir(wd) })

	cfg, info, err := Load("")
	require.NoError(t, err)
	assert.False(t, info.Found)
	assert.Equal(t, Default(), cfg)
}

func TestParse_Invalid(t *testing.T) {
	tests := []struct {
		name string
		toml string
	}{
		{"syntax", "[server\nport = 1"},
		{"port", "[server]\nport = 70000"},
		{"compare bounds", "[analytics]\ncompare_min = 3\ncompare_max = 2"},
		{"compare min", "[analytics]\ncompare_min = 0"},
		{"single-company compare", "[analytics]\ncompare_min = 1"},
		{"debounce", "[data]\ndebounce_ms = -1"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Error(t, Parse([]byte(tt.toml), Default()))
		})
	}
}

func TestEncode_RoundTrip(t *testing.T) {
	data, err := Encode(Default())
	require.NoError(t, err)

	cfg := &Config{}
	require.NoError(t, Parse(data, cfg))
	assert.Equal(t, Default(), cfg)
}

func TestDurations(t *testing.T) {
	cfg := Default()
	assert.Equal(t, 15*time.Second, cfg.Server.ReadTimeout())
	assert.Equal(t, 30*time.Second, cfg.Server.WriteTimeout())
	assert.Equal(t, 300*time.Millisecond, cfg.Data.Debounce())
}
