package main

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/rushteam/mindprep/catalog"
	"github.com/rushteam/mindprep/core"
	"github.com/rushteam/mindprep/logging"
	"github.com/rushteam/mindprep/store"
)

func newPublishCmd(c *cli) *cobra.Command {
	var dir, addr, key string
	var db int

	cmd := &cobra.Command{
		Use:   "publish",
		Short: "Mirror the id -> title catalog dump into a Redis hash",
		RunE: func(cmd *cobra.Command, _ []string) error {
			rc := c.cfg.Redis
			if addr != "" {
				rc.Addr = addr
			}
			if key != "" {
				rc.Key = key
			}
			if cmd.Flags().Changed("db") {
				rc.DB = db
			}
			if dir == "" {
				dir = c.cfg.Output.Dir
			}

			cat, err := catalog.LoadDumpFile(cmd.Context(), filepath.Join(dir, core.CatalogDumpFile))
			if err != nil {
				return err
			}
			st, err := store.NewRedisStore(rc.Addr, rc.DB)
			if err != nil {
				return err
			}
			defer st.Close()

			if err := cat.Publish(cmd.Context(), st, rc.Key); err != nil {
				return err
			}
			log := logging.Component("publish")
			log.Info().Str("store", st.Name()).Str("key", rc.Key).Int("items", cat.Len()).Msg("catalog published")
			fmt.Fprintf(cmd.OutOrStdout(), "published %d items to %s\n", cat.Len(), st.Name())
			return nil
		},
	}
	cmd.Flags().StringVarP(&dir, "data", "d", "", "directory holding id2name.txt (defaults to output.dir)")
	cmd.Flags().StringVar(&addr, "redis-addr", "", "redis address (overrides redis.addr)")
	cmd.Flags().IntVar(&db, "db", 0, "redis database (overrides redis.db)")
	cmd.Flags().StringVar(&key, "key", "", "hash key, defaults to "+catalog.DefaultMirrorKey)
	return cmd
}
