package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// newRootCmd builds the cobra command tree: classify, config. Persistent
// flags and the CHUNK_SIZE environment knob (uproc's UPROC_CHUNK_SIZE) are
// bound through viper once here, following the teacher's
// cmd/vibe-vep/config.go pattern
// of binding env vars and a YAML dotfile through the same viper instance
// that the "config" subcommand inspects.
func newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "ecurve-classify",
		Short: "Classify protein and DNA sequences against a precomputed ecurve index",
		Long: `ecurve-classify scores FASTA/FASTQ sequences against a compressed
k-mer index of known protein families (an "ecurve"), using a
position-sensitive alignment scoring pipeline. DNA/RNA input is translated
across all six reading frames before classification.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return initConfig()
		},
	}

	cmd.PersistentFlags().Bool("verbose", false, "enable debug-level logging")
	cmd.PersistentFlags().Int("chunk-size", 0, "worker count for the parallel protein driver when --workers is 0 (0 = runtime.NumCPU()); input is streamed one sequence per task, not in batches")
	_ = viper.BindPFlag("verbose", cmd.PersistentFlags().Lookup("verbose"))
	_ = viper.BindPFlag("chunk_size", cmd.PersistentFlags().Lookup("chunk-size"))

	cmd.AddCommand(newClassifyCmd())
	cmd.AddCommand(newConfigCmd())

	return cmd
}

// initConfig wires viper's env-var and config-file layers, mirroring the
// teacher's implicit reliance on a package-global viper instance: a single
// YAML dotfile at ~/.ecurve-classify.yaml, overridable by ECURVE_-prefixed
// environment variables (so CHUNK_SIZE is read as ECURVE_CHUNK_SIZE, or
// bare CHUNK_SIZE via the explicit BindEnv below, matching uproc's
// UPROC_CHUNK_SIZE knob).
func initConfig() error {
	viper.SetEnvPrefix("ecurve")
	viper.AutomaticEnv()
	_ = viper.BindEnv("chunk_size", "CHUNK_SIZE")

	home, err := os.UserHomeDir()
	if err == nil {
		viper.AddConfigPath(home)
		viper.SetConfigName(".ecurve-classify")
		viper.SetConfigType("yaml")
		if err := viper.ReadInConfig(); err != nil {
			if _, notFound := err.(viper.ConfigFileNotFoundError); !notFound {
				return fmt.Errorf("reading config: %w", err)
			}
		}
	}
	return nil
}

func defaultConfigPath() (string, error) {
	if used := viper.ConfigFileUsed(); used != "" {
		return used, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("cannot determine home directory: %w", err)
	}
	return filepath.Join(home, ".ecurve-classify.yaml"), nil
}
