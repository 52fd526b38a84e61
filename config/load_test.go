package config

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestFromReaderOverridesDefaults(t *testing.T) {
	cfg, err := FromReader(strings.NewReader(`
[Provider]
Remote = "https://provider.example"

[Order]
Serialize = true
`), DefaultClient())
	require.NoError(t, err)
	require.Equal(t, "https://provider.example", cfg.Provider.Remote)
	require.True(t, cfg.Order.Serialize)
	// untouched sections keep their defaults
	require.Equal(t, "http://127.0.0.1:5000", cfg.Index.Remote)
	require.Equal(t, 30*time.Second, cfg.Ledger.Timeout)
}

func TestFromReaderRejectsGarbage(t *testing.T) {
	_, err := FromReader(strings.NewReader(`not toml at {{ all`), DefaultClient())
	require.Error(t, err)
}

func TestClientBytesRoundTrip(t *testing.T) {
	def := DefaultClient()
	b, err := ClientBytes(def)
	require.NoError(t, err)

	cfg, err := FromReader(strings.NewReader(string(b)), DefaultClient())
	require.NoError(t, err)
	require.Equal(t, def, cfg)
}

func TestConfigCommentDisablesValueLines(t *testing.T) {
	b, err := ConfigComment(DefaultClient())
	require.NoError(t, err)

	for _, line := range strings.Split(string(b), "\n") {
		trimmed := strings.TrimSpace(line)
		if len(trimmed) == 0 || trimmed[0] == '[' {
			continue
		}
		require.True(t, strings.HasPrefix(trimmed, "#"), "value line not commented: %q", line)
	}

	// a fully commented config decodes straight to the defaults
	cfg, err := FromReader(strings.NewReader(string(b)), DefaultClient())
	require.NoError(t, err)
	require.Equal(t, DefaultClient(), cfg)
}

func TestConfigUpdateKeepsOverridesActive(t *testing.T) {
	cfg := DefaultClient()
	cfg.Provider.Remote = "https://provider.example"
	cfg.Order.Serialize = true

	b, err := ConfigUpdate(cfg, DefaultClient(), true)
	require.NoError(t, err)
	out := string(b)
	require.Contains(t, out, `Remote = "https://provider.example"`)
	require.NotContains(t, out, `#Remote = "https://provider.example"`)

	reparsed, err := FromReader(strings.NewReader(out), DefaultClient())
	require.NoError(t, err)
	require.Equal(t, cfg, reparsed)
}
