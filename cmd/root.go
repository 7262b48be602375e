package cmd

import (
	"os"

	"github.com/joho/godotenv"
	"github.com/jsphweid/cuegrid/constants"
	"github.com/jsphweid/cuegrid/logger"
	"github.com/spf13/cobra"
)

var (
	logLevel string
	outDir   string
)

var rootCmd = &cobra.Command{
	Use:   "cuegrid",
	Short: "Rhythm game chart editing core",
	Long:  `Imports cues from MIDI, generates target paths and serves a chart over HTTP.`,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		// a .env file is optional; real environment variables win
		_ = godotenv.Load()
		if outDir != "" {
			os.Setenv("CUEGRID_OUT_PATH", outDir)
		}
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "debug, info, warn, error or none (defaults to $CUEGRID_LOG_LEVEL or info)")
	rootCmd.PersistentFlags().StringVar(&outDir, "out", "", "output dir (defaults to $CUEGRID_OUT_PATH or ./out)")
}

func newLogger() *logger.Logger {
	level := logLevel
	if level == "" {
		level = constants.GetLogLevel()
	}
	return logger.New(os.Stderr, logger.LevelFromString(level))
}

func Execute() {
	cobra.CheckErr(rootCmd.Execute())
}
