// Package main provides the ecurve-classify command-line tool: a driver
// around the protein and DNA classifiers, in the idiom of the teacher's
// cmd/vibe-vep (a cobra root command dispatching to subcommands, viper
// carrying environment/config knobs, zap doing structured logging).
package main

import (
	"fmt"
	"os"

	"go.uber.org/zap"
)

// Exit codes, mirroring the teacher's cmd/vibe-vep convention.
const (
	ExitSuccess = 0
	ExitError   = 1
	ExitUsage   = 2
)

func main() {
	os.Exit(run())
}

func run() int {
	root := newRootCmd()
	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		return ExitError
	}
	return ExitSuccess
}

// newLogger builds the driver's shared *zap.SugaredLogger. Library code
// never reaches for this directly -- it is threaded in via SetLogger calls
// in runClassify, the same "no package-global logger" discipline the
// teacher's cmd/vibe-vep driver follows.
func newLogger(verbose bool) *zap.SugaredLogger {
	cfg := zap.NewProductionConfig()
	if verbose {
		cfg.Level = zap.NewAtomicLevelAt(zap.DebugLevel)
	} else {
		cfg.Level = zap.NewAtomicLevelAt(zap.InfoLevel)
	}
	cfg.Encoding = "console"
	cfg.EncoderConfig.TimeKey = ""
	cfg.OutputPaths = []string{"stderr"}
	cfg.ErrorOutputPaths = []string{"stderr"}

	logger, err := cfg.Build()
	if err != nil {
		return zap.NewNop().Sugar()
	}
	return logger.Sugar()
}
