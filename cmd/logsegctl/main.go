// Command logsegctl drives a single topic directory from the command
// line: producing messages, replaying them, and inspecting segment
// footers. produce and cat only call the public topic.Topic contract;
// inspect reads each segment's footer with segment.LoadSegmentInfo.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var (
	cfgFile   string
	dataDir   string
	blockSize uint64
)

func newRootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:   "logsegctl",
		Short: "Inspect and drive a logseg topic directory",
	}
	root.PersistentFlags().StringVar(&cfgFile, "config", "", "path to a config file (yaml/toml/json)")
	root.PersistentFlags().StringVar(&dataDir, "dir", "", "topic directory (overrides config)")
	root.PersistentFlags().Uint64Var(&blockSize, "block-size", 0, "block size in bytes (overrides config)")

	root.AddCommand(newProduceCommand())
	root.AddCommand(newCatCommand())
	root.AddCommand(newInspectCommand())
	return root
}

func main() {
	if err := newRootCommand().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
