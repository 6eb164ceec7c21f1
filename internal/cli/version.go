package cli

import (
	"fmt"
	"runtime/debug"

	"github.com/spf13/cobra"
)

// Set via -ldflags at build time. Builds without ldflags (go install) fall
// back to the module build info.
var (
	Version   = "dev"
	Commit    = "unknown"
	BuildDate = "unknown"
)

type buildVersion struct {
	version, commit, date string
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		v := currentVersion()
		fmt.Fprintf(cmd.OutOrStdout(), "monologue %s (commit: %s, built: %s)\n", v.version, v.commit, v.date)
	},
}

// VersionString is the short form reported by /api/health.
func VersionString() string {
	v := currentVersion()
	return fmt.Sprintf("%s (%s)", v.version, v.commit)
}

func currentVersion() buildVersion {
	info, _ := debug.ReadBuildInfo()
	return resolveVersion(buildVersion{Version, Commit, BuildDate}, info)
}

// resolveVersion fills ldflags defaults from build info.
func resolveVersion(v buildVersion, info *debug.BuildInfo) buildVersion {
	if info == nil {
		return v
	}
	if v.version == "dev" && info.Main.Version != "" && info.Main.Version != "(devel)" {
		v.version = info.Main.Version
	}
	for _, s := range info.Settings {
		switch s.Key {
		case "vcs.revision":
			if v.commit == "unknown" && s.Value != "" {
				v.commit = s.Value[:min(len(s.Value), 12)]
			}
		case "vcs.time":
			if v.date == "unknown" && s.Value != "" {
				v.date = s.Value
			}
		}
	}
	return v
}
