package store

import (
	"context"
	"fmt"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rushteam/mindprep/core"
)

func newTestRedis(t *testing.T) (*RedisStore, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	st, err := NewRedisStore(mr.Addr(), 0)
	require.NoError(t, err)
	t.Cleanup(func() { st.Close() })
	return st, mr
}

func fieldsOf(n int) map[string][]byte {
	out := make(map[string][]byte, n)
	for i := 0; i < n; i++ {
		out[fmt.Sprint(i)] = []byte(fmt.Sprintf("title %d", i))
	}
	return out
}

func TestRedisStore_HSetBatches(t *testing.T) {
	tests := []struct {
		name string
		n    int
	}{
		{"empty", 0},
		{"single", 1},
		{"one full batch", hsetBatch},
		{"one past batch", hsetBatch + 1},
		{"several batches", 2*hsetBatch + 17},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			st, mr := newTestRedis(t)
			ctx := context.Background()
			want := fieldsOf(tt.n)

			require.NoError(t, st.HSet(ctx, "h", want))

			got, err := st.HGetAll(ctx, "h")
			require.NoError(t, err)
			assert.Len(t, got, tt.n)
			assert.Equal(t, len(want), len(got))
			for f, v := range want {
				assert.Equal(t, v, got[f], "field %s", f)
			}
			if tt.n == 0 {
				assert.False(t, mr.Exists("h"))
			}
		})
	}
}

func TestRedisStore_GetSetDelete(t *testing.T) {
	st, mr := newTestRedis(t)
	ctx := context.Background()

	_, err := st.Get(ctx, "k")
	assert.True(t, core.IsStoreNotFound(err))

	require.NoError(t, st.Set(ctx, "k", []byte("v")))
	v, err := st.Get(ctx, "k")
	require.NoError(t, err)
	assert.Equal(t, []byte("v"), v)
	assert.Zero(t, mr.TTL("k"), "no expiry")

	require.NoError(t, st.HSet(ctx, "h", fieldsOf(3)))
	require.NoError(t, st.Delete(ctx, "k"))
	require.NoError(t, st.Delete(ctx, "h"))
	assert.False(t, mr.Exists("k"))
	assert.False(t, mr.Exists("h"))
	assert.NoError(t, st.Delete(ctx, "never-set"))
}

func TestNewRedisStore_Unreachable(t *testing.T) {
	mr := miniredis.RunT(t)
	addr := mr.Addr()
	mr.Close()

	_, err := NewRedisStore(addr, 0)
	assert.Error(t, err)
}
