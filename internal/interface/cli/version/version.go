package version

import (
	"fmt"
	"runtime"

	"github.com/spf13/cobra"

	"github.com/YoshitsuguKoike/uatreport/internal/buildinfo"
)

func NewCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Long:  "Display version, build information, and runtime details",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			w := cmd.OutOrStdout()
			fmt.Fprintf(w, "uatreport version %s\n", buildinfo.GetVersion())
			if commit := buildinfo.GetCommit(); commit != "" {
				fmt.Fprintf(w, "  Commit:        %s\n", commit)
			}
			fmt.Fprintf(w, "  Go version:    %s\n", runtime.Version())
			fmt.Fprintf(w, "  OS/Arch:       %s/%s\n", runtime.GOOS, runtime.GOARCH)
		},
	}
}
