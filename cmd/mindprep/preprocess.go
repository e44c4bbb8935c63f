package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/rushteam/mindprep/core"
	"github.com/rushteam/mindprep/pipeline"
)

func newPreprocessCmd(c *cli) *cobra.Command {
	var news, logPath, out string
	var workers int

	cmd := &cobra.Command{
		Use:   "preprocess",
		Short: "Build session tables, the catalog dump and the manifest",
		Example: `  mindprep preprocess --news MIND_news.tsv --log MIND.tsv --out data/ref/mind
  mindprep preprocess -c mindprep.yaml`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg := *c.cfg
			if news != "" {
				cfg.Input.News = news
			}
			if logPath != "" {
				cfg.Input.Log = logPath
			}
			if out != "" {
				cfg.Output.Dir = out
			}
			if cmd.Flags().Changed("workers") {
				cfg.Workers = workers
			}

			p, err := pipeline.NewPreprocessor(&cfg)
			if err != nil {
				return err
			}
			m, err := p.Run(cmd.Context())
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "run %s: sentinel=%d train=%d val=%d test=%d -> %s\n",
				m.RunID, m.Sentinel,
				m.Counts[core.StageTrain], m.Counts[core.StageVal], m.Counts[core.StageTest],
				cfg.Output.Dir)
			return nil
		},
	}
	cmd.Flags().StringVar(&news, "news", "", "news metadata TSV (overrides input.news)")
	cmd.Flags().StringVar(&logPath, "log", "", "interaction log TSV (overrides input.log)")
	cmd.Flags().StringVarP(&out, "out", "o", "", "output directory (overrides output.dir)")
	cmd.Flags().IntVar(&workers, "workers", 0, "concurrent builders, 0 means GOMAXPROCS")
	return cmd
}
