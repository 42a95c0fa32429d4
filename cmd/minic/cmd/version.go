package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/msto63/minilang/pkg/core/version"
)

func newVersionCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			info := version.Get()
			w := cmd.OutOrStdout()

			if done, err := a.encode(w, info); done {
				return err
			}

			fmt.Fprintf(w, "minic v%s\n", info.Version)
			fmt.Fprintf(w, "  Language:   %s\n", info.Language)
			fmt.Fprintf(w, "  API:        %s\n", info.API)
			fmt.Fprintf(w, "  Git Commit: %s\n", info.GitCommit)
			fmt.Fprintf(w, "  Build Date: %s\n", info.BuildDate)
			fmt.Fprintf(w, "  Go Version: %s\n", info.GoVersion)
			fmt.Fprintf(w, "  OS/Arch:    %s\n", info.Platform)
			return nil
		},
	}
}
