package main

import (
	"fmt"
	"runtime"

	"github.com/spf13/cobra"

	"github.com/cylin-ms/scenara-sub003/internal/domain/types"
)

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show build and algorithm version",
		// The root pre-run loads configuration, which version never needs.
		PersistentPreRunE: func(*cobra.Command, []string) error { return nil },
		RunE: func(cmd *cobra.Command, _ []string) error {
			_, err := fmt.Fprintf(cmd.OutOrStdout(), "collabrank %s (%s, %s)\n", version, types.AlgorithmVersion, runtime.Version())
			return err
		},
	}
}
