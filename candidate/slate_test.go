package candidate

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rushteam/mindprep/core"
)

func catalogIDs(n int) []int64 {
	ids := make([]int64, n)
	for i := range ids {
		ids[i] = int64(i + 1)
	}
	return ids
}

func countOf(ids []int64, want int64) int {
	n := 0
	for _, id := range ids {
		if id == want {
			n++
		}
	}
	return n
}

func TestFromGroundtruth(t *testing.T) {
	gt := []int64{5, 6, 7, 8, 9}
	next, slate, err := FromGroundtruth(gt)
	require.NoError(t, err)
	assert.Equal(t, int64(5), next)
	assert.Equal(t, []int64{5, 6, 7, 8, 9}, slate)

	slate[0] = 99
	assert.Equal(t, int64(5), gt[0], "input must not be aliased")

	_, _, err = FromGroundtruth(nil)
	assert.True(t, core.IsInvalidInput(err))
}

func TestSample_Properties(t *testing.T) {
	s := NewSampler(rand.New(rand.NewSource(1)))
	history := []int64{1, 2, 3}
	ids := catalogIDs(20)

	positions := make(map[int]bool)
	for i := 0; i < 200; i++ {
		slate, err := s.Sample(ids, history, 7, 10)
		require.NoError(t, err)
		require.Len(t, slate, 10)
		assert.Equal(t, 1, countOf(slate, 7))
		for _, h := range history {
			assert.Zero(t, countOf(slate, h), "history id %d leaked into slate", h)
		}
		seen := make(map[int64]bool)
		for pos, id := range slate {
			assert.False(t, seen[id], "duplicate id %d", id)
			seen[id] = true
			if id == 7 {
				positions[pos] = true
			}
		}
	}
	assert.Greater(t, len(positions), 1, "answer position should vary across calls")
}

func TestSample_ReproducibleWithSameSeed(t *testing.T) {
	ids := catalogIDs(50)
	a, err := NewSampler(rand.New(rand.NewSource(42))).Sample(ids, []int64{1}, 3, 10)
	require.NoError(t, err)
	b, err := NewSampler(rand.New(rand.NewSource(42))).Sample(ids, []int64{1}, 3, 10)
	require.NoError(t, err)
	assert.Equal(t, a, b)
}

func TestSample_Insufficient(t *testing.T) {
	s := NewSampler(rand.New(rand.NewSource(1)))
	// 可选：{4,5} 只有 2 个，需要 3 个
	_, err := s.Sample([]int64{1, 2, 3, 4, 5}, []int64{1, 2}, 3, 4)
	require.Error(t, err)
	assert.True(t, core.IsInsufficientCandidates(err))

	// 刚好够
	slate, err := s.Sample([]int64{1, 2, 3, 4, 5}, []int64{1, 2}, 3, 3)
	require.NoError(t, err)
	assert.ElementsMatch(t, []int64{3, 4, 5}, slate)
}

func TestSample_SingleCandidate(t *testing.T) {
	s := NewSampler(rand.New(rand.NewSource(1)))
	slate, err := s.Sample(nil, nil, 9, 1)
	require.NoError(t, err)
	assert.Equal(t, []int64{9}, slate)
}

func TestSample_InvalidCansNum(t *testing.T) {
	s := NewSampler(rand.New(rand.NewSource(1)))
	_, err := s.Sample(catalogIDs(5), nil, 1, 0)
	assert.True(t, core.IsInvalidInput(err))
}

func TestSample_DuplicateCatalogIDs(t *testing.T) {
	s := NewSampler(rand.New(rand.NewSource(3)))
	slate, err := s.Sample([]int64{4, 4, 4, 5}, nil, 1, 3)
	require.NoError(t, err)
	assert.ElementsMatch(t, []int64{1, 4, 5}, slate)
}

func TestNewWorkerRand(t *testing.T) {
	a1 := NewWorkerRand(42, 0).Int63()
	a2 := NewWorkerRand(42, 0).Int63()
	b := NewWorkerRand(42, 1).Int63()
	assert.Equal(t, a1, a2)
	assert.NotEqual(t, a1, b)
}
