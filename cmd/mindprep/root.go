package main

import (
	"github.com/spf13/cobra"

	"github.com/rushteam/mindprep/config"
	"github.com/rushteam/mindprep/logging"
)

// cli 持有根命令解析出的配置，供子命令共享。
type cli struct {
	configPath string
	cfg        *config.Config
}

func newRootCmd() *cobra.Command {
	c := &cli{}
	root := &cobra.Command{
		Use:   "mindprep",
		Short: "Preprocess MIND logs into session recommendation datasets",
		Long: `mindprep turns the MIND news metadata and interaction log into
train / val / test session tables, and serves samples from them.

Configuration is read from defaults, then --config (YAML), then
MINDPREP_* environment variables (nested keys use "__").`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.Load(c.configPath)
			if err != nil {
				return err
			}
			logging.Init(cfg.Log)
			c.cfg = cfg
			return nil
		},
	}
	root.PersistentFlags().StringVarP(&c.configPath, "config", "c", "", "path to a YAML config file")

	root.AddCommand(
		newPreprocessCmd(c),
		newInspectCmd(c),
		newPublishCmd(c),
	)
	return root
}
