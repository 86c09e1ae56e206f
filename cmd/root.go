// Package cmd contains the command-line interface logic for the collector.
// It uses the Cobra library: the root command runs a collection cycle, the
// verify subcommand prints the persisted state.
package cmd

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/Prajwalb0208/Newsletter-automation/internal/config"
	"github.com/Prajwalb0208/Newsletter-automation/internal/core"
	"github.com/Prajwalb0208/Newsletter-automation/internal/logger"
	"github.com/Prajwalb0208/Newsletter-automation/internal/output"
	"github.com/Prajwalb0208/Newsletter-automation/internal/redis"
	"github.com/Prajwalb0208/Newsletter-automation/internal/search"
	"github.com/Prajwalb0208/Newsletter-automation/internal/store"
	"github.com/Prajwalb0208/Newsletter-automation/internal/validator"
)

const Version = "1.0.0"

var (
	configFile string
	mode       string

	rootCmd = &cobra.Command{
		Use:   "collector",
		Short: "Collects Claude Code SDK articles and newsletters into Redis.",
		Long: `An automated collector for Claude Code SDK content. Each run searches the
web for new article and newsletter URLs, filters out ones already stored,
validates the rest and persists them to Redis with their metadata.`,
		Version: Version,
		RunE:    runCollect,
	}
)

// Execute adds all child commands to the root command and sets flags
// appropriately. This is called by main.main().
func Execute() {
	cobra.CheckErr(rootCmd.Execute())
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configFile, "config", "c", "", "Path to an optional configuration file")
	rootCmd.Flags().StringVarP(&mode, "mode", "m", "both", "Collection mode: newsletters, articles or both")
	rootCmd.SetVersionTemplate(`{{printf "%s\n" .Version}}`)
}

// runCollect executes one collection cycle. Startup failures (bad config,
// unreachable store) return an error and exit non-zero; a quota miss does
// not.
func runCollect(cmd *cobra.Command, args []string) error {
	switch mode {
	case "newsletters", "articles", "both":
	default:
		return fmt.Errorf("invalid mode %q: must be newsletters, articles or both", mode)
	}

	cfg, err := config.Load(configFile)
	if err != nil {
		return err
	}
	logger.Setup(cfg.Logging)

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	client, err := redis.NewClient(ctx, cfg.Redis)
	if err != nil {
		return err
	}
	defer client.Close()

	urlStore := store.New(client)
	source := search.NewDuckDuckGo(time.Duration(cfg.Search.TimeoutSecs) * time.Second)
	urlValidator := validator.New(time.Duration(cfg.Validator.TimeoutSecs)*time.Second, cfg.Validator.Strict)

	collector := core.NewCollector(cfg.Collector, source, urlValidator, urlStore)
	result, runErr := collector.Run(ctx, mode)

	total, err := urlStore.URLCount(ctx)
	if err != nil {
		total = -1
	}
	output.NewReporter(os.Stdout).PrintSummary(result, total)

	return runErr
}
