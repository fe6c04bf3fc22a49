package cli

import (
	"context"
	"fmt"
	"time"

	"nutriai/nutrition-app/internal/repository/mongo"

	"github.com/spf13/cobra"
)

var indexesTimeout time.Duration

// indexesCmd creates the same indexes the server ensures at startup, for
// deployments that disable that or want it done before rollout.
var indexesCmd = &cobra.Command{
	Use:   "indexes",
	Short: "Create the MongoDB indexes used by the API",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, log, err := loadRuntime()
		if err != nil {
			return err
		}
		defer log.Sync()

		client, err := mongo.ConnectDB(cfg.Database.URI)
		if err != nil {
			return fmt.Errorf("connect to mongodb: %w", err)
		}
		defer func() {
			if err := mongo.DisconnectDB(client); err != nil {
				log.Warnw("disconnect from mongodb", "error", err)
			}
		}()

		// Index builds on a large collection can be slow; bound them separately
		ctx, cancel := context.WithTimeout(cmd.Context(), indexesTimeout)
		defer cancel()
		if err := mongo.EnsureIndexes(ctx, client.Database(cfg.Database.Name)); err != nil {
			return err
		}
		log.Infow("indexes ensured", "database", cfg.Database.Name)
		fmt.Fprintf(cmd.OutOrStdout(), "indexes ready on %s\n", cfg.Database.Name)
		return nil
	},
}

func init() {
	indexesCmd.Flags().DurationVar(&indexesTimeout, "timeout", 30*time.Second, "Deadline for index creation")
	rootCmd.AddCommand(indexesCmd)
}
