package bloom_test

import (
	"fmt"
	"testing"

	"github.com/fwojciec/crawlstat/bloom"
	"github.com/stretchr/testify/assert"
)

func TestFilter_AddAndTest(t *testing.T) {
	t.Parallel()

	f := bloom.NewFilter(1000, 0.01)

	assert.False(t, f.Test("https://www.ics.uci.edu/about"))

	f.Add("https://www.ics.uci.edu/about")

	assert.True(t, f.Test("https://www.ics.uci.edu/about"))
	assert.False(t, f.Test("https://www.ics.uci.edu/people"))
}

func TestFilter_TestAndAdd(t *testing.T) {
	t.Parallel()

	f := bloom.NewFilter(1000, 0.01)

	assert.False(t, f.TestAndAdd("https://www.stat.uci.edu"), "first insert reports absent")
	assert.True(t, f.TestAndAdd("https://www.stat.uci.edu"), "second insert reports present")
	assert.True(t, f.Test("https://www.stat.uci.edu"))
}

func TestFilter_EstimatedCount(t *testing.T) {
	t.Parallel()

	f := bloom.NewFilter(1000, 0.01)
	assert.Equal(t, uint(0), f.EstimatedCount())

	for _, key := range []string{"a", "b", "c", "a", "a"} {
		f.Add("https://cs.uci.edu/" + key)
	}

	count := f.EstimatedCount()
	assert.True(t, count >= 2 && count <= 4, "expected count near 3, got %d", count)
}

func TestFilter_FalsePositiveRate(t *testing.T) {
	t.Parallel()

	const n = 10000
	f := bloom.NewFilter(n, 0.01)

	for i := range n {
		f.Add(fmt.Sprintf("https://www.ics.uci.edu/seen/%d", i))
	}

	falsePositives := 0
	for i := range n {
		if f.Test(fmt.Sprintf("https://www.ics.uci.edu/unseen/%d", i)) {
			falsePositives++
		}
	}

	rate := float64(falsePositives) / n
	assert.Less(t, rate, 0.02, "false positive rate %f exceeds 2%%", rate)
}
