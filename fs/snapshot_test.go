package fs_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/fwojciec/crawlstat"
	"github.com/fwojciec/crawlstat/fs"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testSnapshot() *crawlstat.Snapshot {
	return &crawlstat.Snapshot{
		UniquePages: []string{"https://www.ics.uci.edu/about.html", "https://vision.ics.uci.edu"},
		LongestPage: crawlstat.LongestPage{URL: "https://www.ics.uci.edu/about.html", Words: 812},
		WordCounts: crawlstat.WordCounts{
			{Word: "research", Count: 9},
			{Word: "computing", Count: 4},
		},
		Subdomains: map[string]int{"www.ics.uci.edu": 1, "vision.ics.uci.edu": 1},
	}
}

func TestSnapshotStore_SaveThenLoad(t *testing.T) {
	t.Parallel()

	// Given a store in a directory that does not exist yet
	path := filepath.Join(t.TempDir(), "data", "stats.json")
	store := fs.NewSnapshotStore(path)
	ctx := context.Background()

	// When I save a snapshot
	require.NoError(t, store.SaveSnapshot(ctx, testSnapshot()))

	// Then loading returns the same snapshot
	got, err := store.LoadSnapshot(ctx)
	require.NoError(t, err)
	assert.Equal(t, testSnapshot(), got)

	// And no temp file is left behind
	_, err = os.Stat(path + ".tmp")
	assert.True(t, os.IsNotExist(err))
}

func TestSnapshotStore_SaveReplacesPrevious(t *testing.T) {
	t.Parallel()

	store := fs.NewSnapshotStore(filepath.Join(t.TempDir(), "stats.json"))
	ctx := context.Background()

	require.NoError(t, store.SaveSnapshot(ctx, testSnapshot()))
	second := &crawlstat.Snapshot{
		UniquePages: []string{"https://cs.uci.edu"},
		LongestPage: crawlstat.LongestPage{URL: "https://cs.uci.edu", Words: 60},
		WordCounts:  crawlstat.WordCounts{{Word: "graphics", Count: 2}},
		Subdomains:  map[string]int{"cs.uci.edu": 1},
	}
	require.NoError(t, store.SaveSnapshot(ctx, second))

	got, err := store.LoadSnapshot(ctx)
	require.NoError(t, err)
	assert.Equal(t, second, got)
}

func TestSnapshotStore_WritesStatsJSONFields(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "stats.json")
	store := fs.NewSnapshotStore(path)
	require.NoError(t, store.SaveSnapshot(context.Background(), testSnapshot()))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.JSONEq(t, `{
		"unique_pgs": ["https://www.ics.uci.edu/about.html", "https://vision.ics.uci.edu"],
		"longest_page": ["https://www.ics.uci.edu/about.html", 812],
		"word_counts": {"research": 9, "computing": 4},
		"subdomains": {"www.ics.uci.edu": 1, "vision.ics.uci.edu": 1}
	}`, string(data))
}

func TestSnapshotStore_LoadMissing(t *testing.T) {
	t.Parallel()

	store := fs.NewSnapshotStore(filepath.Join(t.TempDir(), "stats.json"))

	_, err := store.LoadSnapshot(context.Background())

	require.Error(t, err)
	assert.Equal(t, crawlstat.ENOTFOUND, crawlstat.ErrorCode(err))
}

func TestSnapshotStore_LoadCorrupt(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "stats.json")
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0644))
	store := fs.NewSnapshotStore(path)

	_, err := store.LoadSnapshot(context.Background())

	require.Error(t, err)
	assert.Equal(t, crawlstat.EINVALID, crawlstat.ErrorCode(err))
}
