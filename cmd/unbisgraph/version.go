package main

import (
	"fmt"
	"runtime"
	"runtime/debug"

	"github.com/spf13/cobra"
)

// Build metadata injected via -ldflags. When the binary is built
// without them (go install, test binaries) the values fall back to the
// module's embedded build info.
var (
	version = ""
	commit  = ""
	date    = ""
)

// buildMetadata resolves the version, commit hash, and build date,
// preferring ldflags over debug.ReadBuildInfo.
func buildMetadata() (ver, rev, built string) {
	ver, rev, built = version, commit, date

	if info, ok := debug.ReadBuildInfo(); ok {
		if ver == "" {
			ver = info.Main.Version
		}
		for _, s := range info.Settings {
			switch s.Key {
			case "vcs.revision":
				if rev == "" {
					rev = shortRevision(s.Value)
				}
			case "vcs.time":
				if built == "" {
					built = s.Value
				}
			}
		}
	}

	if ver == "" {
		ver = "(devel)"
	}
	if rev == "" {
		rev = "unknown"
	}
	if built == "" {
		built = "unknown"
	}
	return ver, rev, built
}

// shortRevision abbreviates a VCS revision to the usual 7 characters.
func shortRevision(rev string) string {
	if len(rev) > 7 {
		return rev[:7]
	}
	return rev
}

// getVersion returns the display version for the root command.
func getVersion() string {
	ver, _, _ := buildMetadata()
	return ver
}

// NewVersionCmd creates the version command.
func NewVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Long:  `Print the version, commit hash, and build date of unbisgraph.`,
		Run: func(cmd *cobra.Command, _ []string) {
			ver, rev, built := buildMetadata()
			fmt.Fprintf(cmd.OutOrStdout(), "unbisgraph version %s\n", ver)
			fmt.Fprintf(cmd.OutOrStdout(), "  commit: %s\n", rev)
			fmt.Fprintf(cmd.OutOrStdout(), "  built:  %s\n", built)
			fmt.Fprintf(cmd.OutOrStdout(), "  go:     %s\n", runtime.Version())
		},
	}
}
