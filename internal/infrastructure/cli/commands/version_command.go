package commands

import (
	"fmt"
	"io"
	"runtime"
	"runtime/debug"

	"github.com/spf13/cobra"

	"github.com/doeshing/hansli-go/internal/version"
)

// NewVersionCommand creates the version command
func NewVersionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show hansli version information",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			displayVersionInformation(cmd.OutOrStdout(), resolveVersion())
			return nil
		},
	}
}

// buildVersion is what 'hansli version' reports.
type buildVersion struct {
	Version string
	Commit  string
	Date    string
}

// resolveVersion prefers -ldflags values and falls back to the module
// and VCS data embedded by 'go install'.
func resolveVersion() buildVersion {
	v := buildVersion{Version: version.Version, Commit: version.Commit, Date: version.BuildDate}
	info, ok := debug.ReadBuildInfo()
	if !ok {
		return v
	}
	if v.Version == "dev" && info.Main.Version != "" && info.Main.Version != "(devel)" {
		v.Version = info.Main.Version
	}
	for _, setting := range info.Settings {
		switch setting.Key {
		case "vcs.revision":
			if v.Commit == "" {
				v.Commit = setting.Value
			}
		case "vcs.time":
			if v.Date == "" {
				v.Date = setting.Value
			}
		}
	}
	return v
}

func displayVersionInformation(out io.Writer, v buildVersion) {
	fmt.Fprintf(out, "hansli version %s\n", v.Version)
	if v.Commit != "" {
		fmt.Fprintf(out, "Commit: %s\n", v.Commit)
	}
	if v.Date != "" {
		fmt.Fprintf(out, "Built: %s\n", v.Date)
	}
	fmt.Fprintf(out, "Go version: %s\n", runtime.Version())
}
