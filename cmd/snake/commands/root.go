// Package commands holds the cobra commands of the snake binary.
package commands

import (
	"fmt"
	"os"

	"github.com/battlesnakeio/termsnake/version"
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:               "snake",
	Short:             "snake is a terminal snake game",
	Version:           version.Version,
	PersistentPreRunE: setupLogging,
	PreRun:            func(c *cobra.Command, args []string) { prometheus() },
	Run: func(c *cobra.Command, args []string) {
		playCmd.Run(c, args)
	},
}

var (
	logLevel = "warn"
	logFile  = ""

	logOutput *os.File
)

// Execute runs the root command
func Execute() {
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", logLevel, "log level, as one of: [debug, info, warn, error]")
	rootCmd.PersistentFlags().StringVar(&logFile, "log-file", logFile, "write logs to this file instead of stderr")
	rootCmd.PersistentFlags().BoolVar(&promEnable, "prometheus", promEnable, "enable prometheus metrics")
	rootCmd.PersistentFlags().StringVar(&promListen, "prometheus-listen", promListen, "prometheus http endpoint")

	rootCmd.AddCommand(playCmd)
	rootCmd.AddCommand(replayCmd)
	rootCmd.AddCommand(serveCmd)

	err := rootCmd.Execute()
	if logOutput != nil {
		logOutput.Close()
	}
	if err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

func setupLogging(*cobra.Command, []string) error {
	level, err := log.ParseLevel(logLevel)
	if err != nil {
		return errors.Wrap(err, "invalid log level")
	}
	log.SetLevel(level)

	if logFile == "" {
		return nil
	}
	f, err := os.OpenFile(logFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return errors.Wrap(err, "unable to open log file")
	}
	logOutput = f
	log.SetOutput(f)
	return nil
}
