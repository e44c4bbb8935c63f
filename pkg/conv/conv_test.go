package conv

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestConvertSlice(t *testing.T) {
	evens := ConvertSlice([]int{1, 2, 3, 4}, func(v int) (int, bool) { return v * 10, v%2 == 0 })
	assert.Equal(t, []int{20, 40}, evens)
	assert.Nil(t, ConvertSlice[int, int](nil, nil))
	assert.Equal(t, []int{}, ConvertSlice([]int{}, func(v int) (int, bool) { return v, true }))
}

func TestToAnySlice(t *testing.T) {
	assert.Equal(t, []any{int64(1), int64(2)}, ToAnySlice([]int64{1, 2}))
	assert.Equal(t, []any{}, ToAnySlice[int64](nil))
}

func TestConvertKeys(t *testing.T) {
	in := map[string]string{"1": "a", "x": "b", "20": "c"}
	assert.Equal(t, map[int64]string{1: "a", 20: "c"}, ConvertKeys(in, ParseInt64))
	assert.Nil(t, ConvertKeys[string, int64, string](nil, ParseInt64))
}
