// Command weeklypedia prints one edition's weekly digest as JSON
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"weeklypedia/internal/platform/logger"
)

var rootCmd = &cobra.Command{
	Use:           "weeklypedia",
	Short:         "Weekly edit digests for wiki language editions",
	SilenceUsage:  true,
	SilenceErrors: true,
}

func main() {
	// stdout carries the JSON, logs go to stderr
	opt := logger.FromEnv()
	opt.Writer = os.Stderr
	if os.Getenv("LOG_LEVEL") == "" {
		opt.Level = "warn"
	}
	logger.Init(opt)

	rootCmd.AddCommand(newDigestCmd())
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
