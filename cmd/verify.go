package cmd

import (
	"context"
	"os"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/Prajwalb0208/Newsletter-automation/internal/config"
	"github.com/Prajwalb0208/Newsletter-automation/internal/logger"
	"github.com/Prajwalb0208/Newsletter-automation/internal/models"
	"github.com/Prajwalb0208/Newsletter-automation/internal/output"
	"github.com/Prajwalb0208/Newsletter-automation/internal/redis"
	"github.com/Prajwalb0208/Newsletter-automation/internal/store"
)

var verifyCmd = &cobra.Command{
	Use:   "verify",
	Short: "Print the collected URLs and stats without modifying anything",
	Long: `Verify reads back everything the collector has persisted: the run
statistics, the full URL set and every stored entry in chronological order.
It performs no writes.`,
	RunE: runVerify,
}

func init() {
	rootCmd.AddCommand(verifyCmd)
}

func runVerify(cmd *cobra.Command, args []string) error {
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

	stats, err := urlStore.Stats(ctx)
	if err != nil {
		return err
	}
	urls, err := urlStore.Members(ctx)
	if err != nil {
		return err
	}
	timeline, err := urlStore.Timeline(ctx)
	if err != nil {
		return err
	}

	entries := make([]models.StoredEntry, 0, len(timeline))
	for _, item := range timeline {
		entry, err := urlStore.Entry(ctx, item.Fingerprint)
		if err != nil {
			log.Warn().Err(err).Str("fingerprint", item.Fingerprint).Msg("Skipping unreadable entry")
			continue
		}
		entries = append(entries, entry)
	}

	output.NewReporter(os.Stdout).PrintVerification(output.VerificationReport{
		Stats:    stats,
		URLCount: int64(len(urls)),
		Entries:  entries,
	})
	return nil
}
