package main

import (
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"dimigrate/internal/version"
)

var rootCmd = &cobra.Command{
	Use:   "dimigrate",
	Short: "Angular DI decorator migration tool",
	Long:  `dimigrate finds classes that take part in dependency injection without declaring it and adds the missing decorator for them`,
}

func main() {
	rootCmd.Version = version.Version
	rootCmd.SilenceUsage = true

	rootCmd.AddCommand(runCmd)
	rootCmd.AddCommand(checkCmd)
	rootCmd.AddCommand(versionCmd)

	// Глобальные флаги
	rootCmd.PersistentFlags().String("color", "auto", "colorize output (auto|on|off)")
	rootCmd.PersistentFlags().Bool("quiet", false, "suppress non-essential output")
	rootCmd.PersistentFlags().Int("max-failures", 100, "maximum number of failures to show per project")

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// isTerminal проверяет, является ли файл терминалом
func isTerminal(f *os.File) bool {
	return term.IsTerminal(int(f.Fd()))
}
