package pipeline

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rushteam/mindprep/config"
	"github.com/rushteam/mindprep/core"
	"github.com/rushteam/mindprep/dataset"
	"github.com/rushteam/mindprep/metrics"
	"github.com/rushteam/mindprep/table"
)

func writeFixtures(t *testing.T) (news, logPath string) {
	t.Helper()
	dir := t.TempDir()

	var nb strings.Builder
	for i := 1; i <= 12; i++ {
		fmt.Fprintf(&nb, "N%d\tnews\tsports\ttitle %d\tbody\n", i, i)
	}
	news = filepath.Join(dir, "news.tsv")
	require.NoError(t, os.WriteFile(news, []byte(nb.String()), 0o644))

	var lb strings.Builder
	for u := 1; u <= 20; u++ {
		fmt.Fprintf(&lb, "%d\tN1 N2 N3 N4\tN5 N6 N7\n", u)
	}
	lb.WriteString("99\tN1 N11\tN5\n") // 历史太短
	lb.WriteString("oops\tN1 N2 N3\tN5\n")
	logPath = filepath.Join(dir, "behaviors.tsv")
	require.NoError(t, os.WriteFile(logPath, []byte(lb.String()), 0o644))
	return news, logPath
}

func testConfig(t *testing.T) *config.Config {
	t.Helper()
	news, logPath := writeFixtures(t)
	cfg := config.Default()
	cfg.Input.News = news
	cfg.Input.Log = logPath
	cfg.Output.Dir = filepath.Join(t.TempDir(), "out")
	cfg.Workers = 2
	return &cfg
}

func TestPreprocessor_Run(t *testing.T) {
	cfg := testConfig(t)
	p, err := NewPreprocessor(cfg)
	require.NoError(t, err)

	m, err := p.Run(context.Background())
	require.NoError(t, err)

	assert.NotEmpty(t, m.RunID)
	assert.Equal(t, int64(12), m.Sentinel, "N11 appears in a dropped row but still counts")
	assert.Equal(t, 22, m.Log.Rows)
	assert.Equal(t, 20, m.Log.Kept)
	assert.Equal(t, 1, m.Log.Dropped[metrics.ReasonShortSequence])
	assert.Equal(t, 1, m.Log.Dropped[metrics.ReasonMalformed])
	assert.Equal(t, 12, m.Catalog.Loaded)
	assert.Equal(t, map[core.Stage]int{core.StageTrain: 14, core.StageVal: 3, core.StageTest: 3}, m.Counts)

	for _, stage := range core.Stages() {
		recs, err := table.Read(context.Background(), table.Path(cfg.Output.Dir, stage))
		require.NoError(t, err)
		assert.Len(t, recs, m.Counts[stage])
		for _, r := range recs {
			assert.Len(t, r.Seq, cfg.MaxLen)
			assert.Equal(t, []int64{1, 2, 3, 4}, r.SeqUnpad)
			assert.Equal(t, int64(12), r.Seq[cfg.MaxLen-1])
		}
	}
	assert.FileExists(t, filepath.Join(cfg.Output.Dir, core.CatalogDumpFile))

	read, err := ReadManifest(filepath.Join(cfg.Output.Dir, core.ManifestFile))
	require.NoError(t, err)
	assert.Equal(t, m.RunID, read.RunID)
	assert.Equal(t, m.Counts, read.Counts)
	assert.Equal(t, m.Split, read.Split)
}

func TestPreprocessor_OutputFeedsDataset(t *testing.T) {
	cfg := testConfig(t)
	p, err := NewPreprocessor(cfg)
	require.NoError(t, err)
	_, err = p.Run(context.Background())
	require.NoError(t, err)

	ds, err := dataset.New(context.Background(), dataset.DefaultConfig(cfg.Output.Dir, core.StageTrain))
	require.NoError(t, err)
	require.Equal(t, 14, ds.Len())

	s, err := ds.Get(0)
	require.NoError(t, err)
	assert.Equal(t, int64(5), s.ItemID)
	assert.Equal(t, "title 5", s.ItemName)
	assert.Equal(t, []int64{5, 6, 7}, s.Cans)
	assert.Equal(t, []string{"title 1", "title 2", "title 3", "title 4"}, s.SeqName)
	assert.False(t, s.Fallback)
}

func TestPreprocessor_Deterministic(t *testing.T) {
	cfg := testConfig(t)
	run := func(dir string) []core.SessionRecord {
		c := *cfg
		c.Output.Dir = dir
		p, err := NewPreprocessor(&c)
		require.NoError(t, err)
		_, err = p.Run(context.Background())
		require.NoError(t, err)
		recs, err := table.Read(context.Background(), table.Path(dir, core.StageVal))
		require.NoError(t, err)
		return recs
	}
	a := run(filepath.Join(t.TempDir(), "a"))
	b := run(filepath.Join(t.TempDir(), "b"))
	assert.Equal(t, a, b)
}

func TestPreprocessor_MissingInput(t *testing.T) {
	cfg := testConfig(t)
	cfg.Input.Log = filepath.Join(t.TempDir(), "nope.tsv")
	p, err := NewPreprocessor(cfg)
	require.NoError(t, err)

	_, err = p.Run(context.Background())
	require.Error(t, err)
	assert.True(t, core.IsMissingFile(err))
	assert.NoFileExists(t, filepath.Join(cfg.Output.Dir, core.ManifestFile))
}

func TestPipeline_NodeOrder(t *testing.T) {
	p := &Pipeline{Nodes: []Node{&SplitNode{}}}
	err := p.Run(context.Background(), &State{})
	require.Error(t, err)
	assert.True(t, core.IsInvalidInput(err))
}

func TestReadManifest_Missing(t *testing.T) {
	_, err := ReadManifest(filepath.Join(t.TempDir(), core.ManifestFile))
	assert.True(t, core.IsMissingFile(err))
}
