package fs_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/fwojciec/crawlstat"
	"github.com/fwojciec/crawlstat/fs"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadStopwords(t *testing.T) {
	t.Parallel()

	t.Run("reads trimmed lines", func(t *testing.T) {
		t.Parallel()

		path := filepath.Join(t.TempDir(), "stopwords.txt")
		require.NoError(t, os.WriteFile(path, []byte("the\n  and \r\n\nOF\n"), 0644))

		stopwords, err := fs.LoadStopwords(path)

		require.NoError(t, err)
		assert.Len(t, stopwords, 3)
		assert.True(t, stopwords.Contains("the"))
		assert.True(t, stopwords.Contains("and"))
		assert.True(t, stopwords.Contains("of"))
		assert.False(t, stopwords.Contains(""))
	})

	t.Run("missing file is a config error", func(t *testing.T) {
		t.Parallel()

		_, err := fs.LoadStopwords(filepath.Join(t.TempDir(), "nope.txt"))

		require.Error(t, err)
		assert.Equal(t, crawlstat.ECONFIG, crawlstat.ErrorCode(err))
	})
}
