package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"dimigrate/internal/driver"
	"dimigrate/internal/project"
	"dimigrate/internal/vfs"
)

const noManifestMessage = "no " + project.ManifestName + " found\nplease specify the project manifest explicitly, e.g.:\n  dimigrate run path/to/" + project.ManifestName

var (
	runDryRun  bool
	runNoCache bool
)

func init() {
	runCmd.Flags().BoolVar(&runDryRun, "dry-run", false, "analyze and report without writing any file")
	runCmd.Flags().BoolVar(&runNoCache, "no-cache", false, "ignore and do not update the result cache")
}

var runCmd = &cobra.Command{
	Use:   "run [manifest...]",
	Short: "Add missing DI decorators across one or more projects",
	Long: `Run analyzes every project in order and rewrites its sources in place.
With no arguments the nearest ` + project.ManifestName + ` above the working
directory is used. Arguments may be manifest files or project directories.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		manifests, err := resolveManifests(args)
		if err != nil {
			return err
		}

		opts := driver.Options{DryRun: runDryRun}
		if !runNoCache {
			if cache, err := driver.OpenDiskCache("dimigrate"); err == nil {
				opts.Cache = cache
			}
		}

		summary := driver.Run(manifests, vfs.NewHost(), opts)

		r := newRenderer(cmd)
		r.RenderSummary(summary, runDryRun)

		if summary.Failed() {
			return errors.New("some projects could not be processed")
		}
		return nil
	},
}

// resolveManifests maps command arguments to manifest paths. A directory
// argument means its manifest; no arguments means upward discovery.
func resolveManifests(args []string) ([]string, error) {
	if len(args) == 0 {
		path, ok, err := project.FindManifest(".")
		if err != nil {
			return nil, err
		}
		if !ok {
			return nil, errors.New(noManifestMessage)
		}
		return []string{path}, nil
	}

	out := make([]string, 0, len(args))
	for _, arg := range args {
		info, err := os.Stat(arg)
		if err != nil {
			return nil, fmt.Errorf("cannot access %q: %w", arg, err)
		}
		if info.IsDir() {
			candidate := filepath.Join(arg, project.ManifestName)
			if _, err := os.Stat(candidate); err != nil {
				return nil, fmt.Errorf("%s: no %s in directory", arg, project.ManifestName)
			}
			out = append(out, candidate)
			continue
		}
		out = append(out, arg)
	}
	return out, nil
}
