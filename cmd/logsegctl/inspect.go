package main

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strconv"

	"github.com/ongniud/logseg/segment"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
)

var inspectSegmentFileName = regexp.MustCompile(`^segment_(\d{9})$`)

func newInspectCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "inspect",
		Short: "List each segment file in the topic with its footer fields",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := resolveConfig()
			if err != nil {
				return err
			}
			return inspectDir(cmd, cfg.DataDir)
		},
	}
	return cmd
}

func inspectDir(cmd *cobra.Command, dir string) error {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return errors.Wrap(err, "logsegctl: reading topic directory")
	}

	var names []string
	for _, e := range entries {
		if !e.IsDir() && inspectSegmentFileName.MatchString(e.Name()) {
			names = append(names, e.Name())
		}
	}
	sort.Slice(names, func(i, j int) bool {
		a, _ := strconv.Atoi(inspectSegmentFileName.FindStringSubmatch(names[i])[1])
		b, _ := strconv.Atoi(inspectSegmentFileName.FindStringSubmatch(names[j])[1])
		return a < b
	})

	out := cmd.OutOrStdout()
	for _, name := range names {
		path := filepath.Join(dir, name)
		info, err := segment.LoadSegmentInfo(path)
		if errors.Is(err, segment.ErrMissingMagic) {
			fmt.Fprintf(out, "%s\topen\n", name)
			continue
		}
		if err != nil {
			return err
		}
		fmt.Fprintf(out, "%s\tindex=%d start=%d next=%d messages=%d block_size=%d\n",
			name, info.Index, info.StartOffset, info.NextOffset, info.MessageCount(), info.BlockSize)
	}
	return nil
}
