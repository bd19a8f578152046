// Package cli wires the retrieval tools into a command-line surface.
package cli

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/mouramax/versatile-retrieval/internal/config"
	"github.com/mouramax/versatile-retrieval/internal/logging"
)

var (
	configPath string
	logLevel   string
	logFormat  string

	cfg *config.Config
)

var rootCmd = &cobra.Command{
	Use:   "versatile",
	Short: "Budget-aware content retrieval for agent pipelines",
	Long: "Versatile reads files and scrapes web pages with four retrieval strategies\n" +
		"(full, head, random_chunks, summarize), returning the result as the same\n" +
		"structured envelope an agent tool invocation would receive.",
	SilenceUsage:      true,
	SilenceErrors:     true,
	PersistentPreRunE: setup,
}

// errRetrievalFailed marks a run whose envelope already carries the error
// message; no extra stderr line is wanted.
var errRetrievalFailed = errors.New("retrieval failed")

func Execute() error {
	if err := rootCmd.Execute(); err != nil {
		if !errors.Is(err, errRetrievalFailed) {
			fmt.Fprintln(os.Stderr, "Error:", err)
		}
		return err
	}
	return nil
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "path to YAML config file")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "log level (trace|debug|info|warn|error)")
	rootCmd.PersistentFlags().StringVar(&logFormat, "log-format", "", "log format (json|console)")

	rootCmd.AddCommand(readCmd)
	rootCmd.AddCommand(scrapeCmd)
}

func setup(cmd *cobra.Command, args []string) error {
	loadEnvFiles()

	var err error
	if configPath != "" {
		cfg, err = config.Load(configPath)
		if err != nil {
			return err
		}
	} else {
		cfg = config.Default()
	}

	if logLevel != "" {
		cfg.Logging.Level = logLevel
	}
	if logFormat != "" {
		cfg.Logging.Format = logFormat
	}
	logging.Setup(cfg.Logging.Level, cfg.Logging.Format)
	return nil
}

// loadEnvFiles loads .env from standard locations.
func loadEnvFiles() {
	if homeDir, err := os.UserHomeDir(); err == nil {
		configEnv := filepath.Join(homeDir, ".config", "versatile", ".env")
		if _, err := os.Stat(configEnv); err == nil {
			_ = godotenv.Load(configEnv)
		}
	}
	// Local .env can override
	_ = godotenv.Load()
}

// printEnvelope writes the envelope JSON and signals failure so shell
// pipelines can branch on the exit code.
func printEnvelope(json string, ok bool) error {
	fmt.Println(json)
	if !ok {
		return errRetrievalFailed
	}
	return nil
}
