package catalog

import (
	"context"
	"fmt"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rushteam/mindprep/core"
	"github.com/rushteam/mindprep/store"
)

func TestPublishAndFromStore(t *testing.T) {
	ctx := context.Background()
	st := store.NewMemoryStore()
	defer st.Close()

	c := New([]core.NewsItem{{ID: 1, Title: "one"}, {ID: 42, Title: "forty two"}})
	require.NoError(t, c.Publish(ctx, st, ""))

	got, err := FromStore(ctx, st, DefaultMirrorKey)
	require.NoError(t, err)
	assert.Equal(t, c.IDs(), got.IDs())
	title, ok := got.Title(42)
	assert.True(t, ok)
	assert.Equal(t, "forty two", title)

	meta, err := st.Get(ctx, MetaKey(DefaultMirrorKey))
	require.NoError(t, err)
	assert.Contains(t, string(meta), `"items":2`)
}

func TestPublish_ReplacesPreviousMirror(t *testing.T) {
	ctx := context.Background()
	st := store.NewMemoryStore()
	defer st.Close()

	old := New([]core.NewsItem{{ID: 1, Title: "one"}, {ID: 2, Title: "two"}, {ID: 3, Title: "three"}})
	require.NoError(t, old.Publish(ctx, st, "k"))

	cur := New([]core.NewsItem{{ID: 2, Title: "two, edited"}, {ID: 4, Title: "four"}})
	require.NoError(t, cur.Publish(ctx, st, "k"))

	got, err := FromStore(ctx, st, "k")
	require.NoError(t, err)
	assert.Equal(t, []int64{2, 4}, got.IDs(), "stale ids removed")
	title, _ := got.Title(2)
	assert.Equal(t, "two, edited", title)
}

func TestFromStore_Incomplete(t *testing.T) {
	ctx := context.Background()
	c := New([]core.NewsItem{{ID: 1, Title: "one"}, {ID: 2, Title: "two"}})

	tests := []struct {
		name   string
		tamper func(st core.Store) error
	}{
		{"missing meta", func(st core.Store) error {
			return st.Delete(ctx, MetaKey("k"))
		}},
		{"extra field", func(st core.Store) error {
			return st.HSet(ctx, "k", map[string][]byte{"9": []byte("nine")})
		}},
		{"edited title", func(st core.Store) error {
			return st.HSet(ctx, "k", map[string][]byte{"1": []byte("uno")})
		}},
		{"corrupt meta", func(st core.Store) error {
			return st.Set(ctx, MetaKey("k"), []byte("{"))
		}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			st := store.NewMemoryStore()
			defer st.Close()
			require.NoError(t, c.Publish(ctx, st, "k"))
			require.NoError(t, tt.tamper(st))

			_, err := FromStore(ctx, st, "k")
			require.Error(t, err)
			assert.False(t, core.IsNotFound(err))
			assert.True(t, core.IsDomainError(err))
		})
	}
}

func TestFromStore_Empty(t *testing.T) {
	st := store.NewMemoryStore()
	defer st.Close()

	_, err := FromStore(context.Background(), st, "nothing")
	require.Error(t, err)
	assert.True(t, core.IsNotFound(err))
}

func TestDigest_StableAcrossConstruction(t *testing.T) {
	a := New([]core.NewsItem{{ID: 2, Title: "b"}, {ID: 1, Title: "a"}})
	b := New([]core.NewsItem{{ID: 1, Title: "a"}, {ID: 2, Title: "b"}})
	da, err := a.Digest()
	require.NoError(t, err)
	db, err := b.Digest()
	require.NoError(t, err)
	assert.Equal(t, da, db)

	c := New([]core.NewsItem{{ID: 1, Title: "a"}, {ID: 2, Title: "c"}})
	dc, err := c.Digest()
	require.NoError(t, err)
	assert.NotEqual(t, da, dc)
}

func TestPublishAndFromStore_Redis(t *testing.T) {
	ctx := context.Background()
	mr := miniredis.RunT(t)
	st, err := store.NewRedisStore(mr.Addr(), 0)
	require.NoError(t, err)
	defer st.Close()

	items := make([]core.NewsItem, 2500)
	for i := range items {
		items[i] = core.NewsItem{ID: int64(i + 1), Title: fmt.Sprintf("title %d", i+1)}
	}
	c := New(items)
	require.NoError(t, c.Publish(ctx, st, ""))

	got, err := FromStore(ctx, st, "")
	require.NoError(t, err)
	assert.Equal(t, c.IDs(), got.IDs())
	assert.True(t, mr.Exists(MetaKey(DefaultMirrorKey)))
}
