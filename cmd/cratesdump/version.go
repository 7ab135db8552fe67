package main

import (
	"fmt"
	"io"
	"runtime"
	"runtime/debug"
	"sync"

	"github.com/spf13/cobra"

	"github.com/nao1215/cratesdump/internal/config"
)

// Set at build time via ldflags.
var (
	version = ""
	commit  = ""
	date    = ""
)

const sqliteModule = "modernc.org/sqlite"

// buildInfo describes the running binary. Values not stamped by ldflags
// come from the module build info.
type buildInfo struct {
	Module  string
	Version string
	Commit  string
	Date    string
	Go      string
	SQLite  string
}

var readBuildInfo = sync.OnceValue(func() buildInfo {
	bi, _ := debug.ReadBuildInfo()
	return newBuildInfo(bi)
})

// newBuildInfo fills the gaps left by ldflags from bi, which may be nil.
func newBuildInfo(bi *debug.BuildInfo) buildInfo {
	info := buildInfo{
		Module:  "github.com/nao1215/cratesdump",
		Version: version,
		Commit:  commit,
		Date:    date,
		Go:      runtime.Version(),
		SQLite:  "unknown",
	}
	if bi != nil {
		if bi.Main.Path != "" {
			info.Module = bi.Main.Path
		}
		if info.Version == "" {
			info.Version = bi.Main.Version
		}
		for _, s := range bi.Settings {
			switch s.Key {
			case "vcs.revision":
				if info.Commit == "" {
					info.Commit = shortRevision(s.Value)
				}
			case "vcs.time":
				if info.Date == "" {
					info.Date = s.Value
				}
			}
		}
		for _, dep := range bi.Deps {
			if dep.Path == sqliteModule {
				info.SQLite = dep.Version
				if dep.Replace != nil {
					info.SQLite = dep.Replace.Version
				}
			}
		}
	}
	if info.Version == "" {
		info.Version = "(devel)"
	}
	if info.Commit == "" {
		info.Commit = "unknown"
	}
	if info.Date == "" {
		info.Date = "unknown"
	}
	return info
}

func shortRevision(rev string) string {
	if len(rev) > 7 {
		return rev[:7]
	}
	return rev
}

func getVersion() string {
	return readBuildInfo().Version
}

func (b buildInfo) write(w io.Writer) {
	fmt.Fprintf(w, "cratesdump %s (%s)\n", b.Version, b.Module)
	fmt.Fprintf(w, "  commit:   %s\n", b.Commit)
	fmt.Fprintf(w, "  built:    %s with %s\n", b.Date, b.Go)
	fmt.Fprintf(w, "  sqlite:   %s %s\n", sqliteModule, b.SQLite)
	fmt.Fprintf(w, "  resource: %s\n", config.DefaultResource)
}

// NewVersionCmd creates the version command.
func NewVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Long: `Print the version of cratesdump, the SQLite driver it was built with
and the dump archive it downloads by default.`,
		Args: cobra.NoArgs,
		Run: func(cmd *cobra.Command, _ []string) {
			readBuildInfo().write(cmd.OutOrStdout())
		},
	}
}
