package main

import (
	"github.com/ongniud/logseg/internal/logging"
	"github.com/ongniud/logseg/topic"
	"github.com/spf13/cobra"
)

func newProduceCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "produce [message...]",
		Short: "Append one message per argument to the topic",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := resolveConfig()
			if err != nil {
				return err
			}
			logger, err := logging.New(false)
			if err != nil {
				return err
			}
			defer logger.Sync()

			tp, err := topic.Open(cfg.DataDir, cfg.BlockSize, topic.WithLogger(logger))
			if err != nil {
				return err
			}
			defer tp.Close()

			for _, message := range args {
				if err := tp.Produce([]byte(message)); err != nil {
					return err
				}
			}
			return nil
		},
	}
	return cmd
}
