package main

import (
	"path/filepath"

	"github.com/goccy/go-json"
	"github.com/spf13/cobra"

	"github.com/rushteam/mindprep/core"
	"github.com/rushteam/mindprep/dataset"
	"github.com/rushteam/mindprep/pipeline"
)

func newInspectCmd(c *cli) *cobra.Command {
	var (
		dir          string
		stage        string
		indices      []int
		filter       string
		showManifest bool
	)

	cmd := &cobra.Command{
		Use:   "inspect",
		Short: "Print samples from a preprocessed stage, or its manifest",
		Example: `  mindprep inspect --data data/ref/mind --stage val --index 0 --index 5
  mindprep inspect --data data/ref/mind --manifest`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg := c.cfg.Dataset
			if dir != "" {
				cfg.DataSource = dir
			}
			if cmd.Flags().Changed("stage") {
				s, err := core.ParseStage(stage)
				if err != nil {
					return err
				}
				cfg.Stage = s
			}
			if filter != "" {
				cfg.Filter = filter
			}

			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")

			if showManifest {
				m, err := pipeline.ReadManifest(filepath.Join(cfg.DataSource, core.ManifestFile))
				if err != nil {
					return err
				}
				return enc.Encode(m)
			}

			ds, err := dataset.New(cmd.Context(), cfg)
			if err != nil {
				return err
			}
			for _, i := range indices {
				s, err := ds.Get(i)
				if err != nil {
					return err
				}
				if err := enc.Encode(s); err != nil {
					return err
				}
			}
			return nil
		},
	}
	cmd.Flags().StringVarP(&dir, "data", "d", "", "directory holding the preprocessed artifacts (overrides dataset.data_source)")
	cmd.Flags().StringVarP(&stage, "stage", "s", string(core.StageTrain), "train, val or test")
	cmd.Flags().IntSliceVarP(&indices, "index", "i", []int{0}, "sample indices to print")
	cmd.Flags().StringVar(&filter, "filter", "", "CEL expression over record, only rows where it is true are kept")
	cmd.Flags().BoolVar(&showManifest, "manifest", false, "print the manifest instead of samples")
	return cmd
}
