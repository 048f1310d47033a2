package yaml_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/fwojciec/crawlstat"
	"github.com/fwojciec/crawlstat/yaml"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseConfig(t *testing.T) {
	t.Parallel()

	t.Run("decodes all fields", func(t *testing.T) {
		t.Parallel()

		cfg, err := yaml.ParseConfig([]byte(`
seeds:
  - https://www.ics.uci.edu
scope:
  - ics.uci.edu
blocked_hosts: [grape, wics]
max_url_length: 150
user_agent: "IR UW24 12345678"
delay: 750ms
concurrency: 4
max_pages: 1000
stopwords: /etc/crawlstat/stopwords.txt
snapshot: /tmp/stats.json
database: /tmp/stats.db
`))

		require.NoError(t, err)
		assert.Equal(t, &crawlstat.Config{
			Seeds:        []string{"https://www.ics.uci.edu"},
			Scope:        crawlstat.Scope{"ics.uci.edu"},
			BlockedHosts: []string{"grape", "wics"},
			MaxURLLength: 150,
			UserAgent:    "IR UW24 12345678",
			Delay:        750 * time.Millisecond,
			Concurrency:  4,
			MaxPages:     1000,
			Stopwords:    "/etc/crawlstat/stopwords.txt",
			Snapshot:     "/tmp/stats.json",
			Database:     "/tmp/stats.db",
		}, cfg)
	})

	t.Run("empty document yields zero config", func(t *testing.T) {
		t.Parallel()

		cfg, err := yaml.ParseConfig(nil)

		require.NoError(t, err)
		assert.Equal(t, &crawlstat.Config{}, cfg)
	})

	t.Run("rejects unknown keys", func(t *testing.T) {
		t.Parallel()

		_, err := yaml.ParseConfig([]byte("sedes: [https://www.ics.uci.edu]\n"))

		require.Error(t, err)
		assert.Equal(t, crawlstat.ECONFIG, crawlstat.ErrorCode(err))
	})

	t.Run("rejects negative delay", func(t *testing.T) {
		t.Parallel()

		_, err := yaml.ParseConfig([]byte("delay: -1s\n"))

		require.Error(t, err)
		assert.Equal(t, crawlstat.EINVALID, crawlstat.ErrorCode(err))
	})
}

func TestLoadConfig(t *testing.T) {
	t.Parallel()

	t.Run("reads file", func(t *testing.T) {
		t.Parallel()

		path := filepath.Join(t.TempDir(), "crawlstat.yaml")
		require.NoError(t, os.WriteFile(path, []byte("max_pages: 10\n"), 0644))

		cfg, err := yaml.LoadConfig(path)

		require.NoError(t, err)
		assert.Equal(t, 10, cfg.MaxPages)
	})

	t.Run("missing file is a config error", func(t *testing.T) {
		t.Parallel()

		_, err := yaml.LoadConfig(filepath.Join(t.TempDir(), "missing.yaml"))

		require.Error(t, err)
		assert.Equal(t, crawlstat.ECONFIG, crawlstat.ErrorCode(err))
	})
}
