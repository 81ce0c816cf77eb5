package main

import (
	"errors"

	"github.com/spf13/cobra"

	"dimigrate/internal/driver"
	"dimigrate/internal/vfs"
)

var checkNoCache bool

func init() {
	checkCmd.Flags().BoolVar(&checkNoCache, "no-cache", false, "ignore and do not update the result cache")
}

var checkCmd = &cobra.Command{
	Use:   "check [manifest...]",
	Short: "Report what a run would change, without touching any file",
	Long: `Check is run with writing disabled: it prints the files a migration
would edit and every class it could not migrate. The exit code is non-zero
when there is anything left to do.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		manifests, err := resolveManifests(args)
		if err != nil {
			return err
		}

		opts := driver.Options{DryRun: true}
		if !checkNoCache {
			if cache, err := driver.OpenDiskCache("dimigrate"); err == nil {
				opts.Cache = cache
			}
		}

		summary := driver.Run(manifests, vfs.NewHost(), opts)

		r := newRenderer(cmd)
		r.RenderSummary(summary, true)

		edited, failures, broken := summary.Totals()
		if broken > 0 {
			return errors.New("some projects could not be processed")
		}
		if edited > 0 || failures > 0 {
			return errors.New("migration work remains")
		}
		return nil
	},
}
