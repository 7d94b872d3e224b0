package main

import (
	"fmt"
	"io"

	"github.com/ongniud/logseg/topic"
	"github.com/spf13/cobra"
)

func newCatCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cat",
		Short: "Print every message in the topic's closed segments, one per line",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := resolveConfig()
			if err != nil {
				return err
			}

			tp, err := topic.Open(cfg.DataDir, cfg.BlockSize)
			if err != nil {
				return err
			}
			defer tp.Close()

			it := tp.Iter()
			defer it.Close()

			for {
				msg, err := it.Next()
				if err == io.EOF {
					return nil
				}
				if err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), string(msg))
			}
		},
	}
	return cmd
}
