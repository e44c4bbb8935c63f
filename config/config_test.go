package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rushteam/mindprep/core"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, core.DefaultMaxLen, cfg.MaxLen)
	assert.Equal(t, core.DefaultMinSeqLen, cfg.MinSeqLen)
	assert.Equal(t, int64(42), cfg.Split.Seed)
	assert.InDelta(t, 0.70, cfg.Split.TrainRatio, 1e-9)
	assert.InDelta(t, 0.15, cfg.Split.ValRatio, 1e-9)
	assert.Equal(t, "MIND.tsv", cfg.Input.Log)
	assert.Equal(t, 10, cfg.Dataset.CansNum)
}

func TestLoad_FileAndEnv(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
input:
  news: /raw/news.tsv
  log: /raw/behaviors.tsv
output:
  dir: /out
max_len: 20
split:
  seed: 7
log:
  level: debug
`), 0o644))

	t.Setenv("MINDPREP_OUTPUT__DIR", "/env/out")
	t.Setenv("MINDPREP_WORKERS", "3")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "/raw/news.tsv", cfg.Input.News)
	assert.Equal(t, "/env/out", cfg.Output.Dir, "env overrides file")
	assert.Equal(t, 20, cfg.MaxLen)
	assert.Equal(t, 3, cfg.Workers)
	assert.Equal(t, int64(7), cfg.Split.Seed)
	assert.InDelta(t, 0.70, cfg.Split.TrainRatio, 1e-9, "unset keys keep defaults")
	assert.Equal(t, "debug", cfg.Log.Level)
}

func TestValidate(t *testing.T) {
	cfg := Default()
	require.NoError(t, cfg.Validate())

	bad := Default()
	bad.MaxLen = 0
	assert.Error(t, bad.Validate())

	bad = Default()
	bad.Input.Log = ""
	assert.Error(t, bad.Validate())

	bad = Default()
	bad.Split.TrainRatio, bad.Split.ValRatio = 0.9, 0.2
	assert.Error(t, bad.Validate())
}

func TestEnvTransform(t *testing.T) {
	assert.Equal(t, "split.train_ratio", envTransform("MINDPREP_SPLIT__TRAIN_RATIO"))
	assert.Equal(t, "max_len", envTransform("MINDPREP_MAX_LEN"))
}
