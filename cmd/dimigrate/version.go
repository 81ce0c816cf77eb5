package main

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"dimigrate/internal/version"
)

var versionJSON bool

func init() {
	versionCmd.Flags().BoolVar(&versionJSON, "json", false, "machine-readable output")
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Show the dimigrate version and build metadata",
	RunE: func(cmd *cobra.Command, args []string) error {
		out := cmd.OutOrStdout()
		meta := buildMetadata()

		if versionJSON {
			enc := json.NewEncoder(out)
			enc.SetIndent("", "  ")
			return enc.Encode(meta)
		}

		fmt.Fprintf(out, "dimigrate %s\n", meta.Version)
		if meta.Commit != "" {
			line := meta.Commit
			if meta.CommitMessage != "" {
				line += " (" + meta.CommitMessage + ")"
			}
			fmt.Fprintf(out, "commit %s\n", line)
		}
		if meta.BuildDate != "" {
			fmt.Fprintf(out, "built  %s\n", meta.BuildDate)
		}
		return nil
	},
}

type buildMeta struct {
	Version       string `json:"version"`
	Commit        string `json:"commit,omitempty"`
	CommitMessage string `json:"commit_message,omitempty"`
	BuildDate     string `json:"build_date,omitempty"`
}

// buildMetadata gathers whatever the release build stamped via -ldflags;
// source builds carry only the default version string.
func buildMetadata() buildMeta {
	v := strings.TrimSpace(version.Version)
	if v == "" {
		v = "dev"
	}
	return buildMeta{
		Version:       v,
		Commit:        strings.TrimSpace(version.GitCommit),
		CommitMessage: strings.TrimSpace(version.GitMessage),
		BuildDate:     strings.TrimSpace(version.BuildDate),
	}
}
