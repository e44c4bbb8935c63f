package sequence

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPad(t *testing.T) {
	tests := []struct {
		name      string
		ids       []int64
		maxLen    int
		wantSeq   []int64
		wantUnpad []int64
		wantLen   int
	}{
		{
			name:      "short sequence is right padded",
			ids:       []int64{1, 2, 3},
			maxLen:    5,
			wantSeq:   []int64{1, 2, 3, 99, 99},
			wantUnpad: []int64{1, 2, 3},
			wantLen:   3,
		},
		{
			name:      "exact length",
			ids:       []int64{1, 2, 3},
			maxLen:    3,
			wantSeq:   []int64{1, 2, 3},
			wantUnpad: []int64{1, 2, 3},
			wantLen:   3,
		},
		{
			name:      "long sequence keeps most recent",
			ids:       []int64{1, 2, 3, 4, 5, 6},
			maxLen:    4,
			wantSeq:   []int64{3, 4, 5, 6},
			wantUnpad: []int64{3, 4, 5, 6},
			wantLen:   4,
		},
		{
			name:      "empty",
			ids:       nil,
			maxLen:    2,
			wantSeq:   []int64{99, 99},
			wantUnpad: []int64{},
			wantLen:   0,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			seq, unpad, n := Pad(tt.ids, tt.maxLen, 99)
			assert.Equal(t, tt.wantSeq, seq)
			assert.Equal(t, tt.wantUnpad, unpad)
			assert.Equal(t, tt.wantLen, n)
			assert.Len(t, seq, tt.maxLen)
			assert.NotContains(t, seq[:n], int64(99))
		})
	}
}

func TestPad_DoesNotAliasInput(t *testing.T) {
	ids := []int64{1, 2, 3}
	seq, unpad, _ := Pad(ids, 3, 0)
	seq[0] = 100
	unpad[1] = 200
	assert.Equal(t, []int64{1, 2, 3}, ids)
}

func TestPad_MaxLen50(t *testing.T) {
	ids := make([]int64, 73)
	for i := range ids {
		ids[i] = int64(i + 1)
	}
	seq, unpad, n := Pad(ids, 50, 1000)
	assert.Len(t, seq, 50)
	assert.Equal(t, 50, n)
	assert.Equal(t, int64(24), unpad[0])
	assert.Equal(t, int64(73), unpad[49])
}

func TestUnpad(t *testing.T) {
	seq := []int64{1, 2, 3, 9, 9}
	assert.Equal(t, []int64{1, 2, 3}, Unpad(seq, 3))
	assert.Equal(t, []int64{1, 2, 3, 9, 9}, Unpad(seq, 10))
	assert.Equal(t, []int64{}, Unpad(seq, -1))

	out := Unpad(seq, 2)
	out[0] = 7
	assert.Equal(t, int64(1), seq[0])
}
