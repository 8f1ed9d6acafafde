package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"
	"github.com/yyyoichi/watermark_rdwt/internal/db"
)

func (a *app) listCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List embeddings in the registry",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			path := a.dbPath(cmd)
			if path == "" {
				return errors.New("--db is required")
			}
			d, err := db.Open(path)
			if err != nil {
				return err
			}
			defer d.Close()
			entries, err := d.List()
			if err != nil {
				return err
			}
			for _, e := range entries {
				r := e.Record
				fmt.Fprintf(cmd.OutOrStdout(), "%d\t%s\t%.12s\t%s@%s\tstrength=%g\n",
					e.ID, e.ImagePath, r.Digest, r.WatermarkSize, r.Position, r.Strength)
			}
			return nil
		},
	}
	cmd.Flags().String("db", "", "registry database")
	return cmd
}
