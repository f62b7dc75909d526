package cmd

import (
	"fmt"
	"os"

	"github.com/ccoveille/go-safecast"
	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/jon4hz/vazby/internal/config"
	"github.com/jon4hz/vazby/internal/database"
)

var dbStatsCmd = &cobra.Command{
	Use:   "db-stats",
	Short: "Show database statistics",
	Long:  `Display the number of users, links and audit entries and the size of the database file.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load(rootCmdPersistentFlags.ConfigFile)
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}

		db, err := database.New(cfg.Database.Path)
		if err != nil {
			return fmt.Errorf("failed to initialize database: %w", err)
		}
		defer db.Close() //nolint: errcheck

		stats, err := db.Stats(cmd.Context())
		if err != nil {
			return fmt.Errorf("failed to get database stats: %w", err)
		}

		fmt.Println("Database Statistics:")
		fmt.Printf("Users: %d (%d active)\n", stats.Users, stats.ActiveUsers)
		fmt.Printf("Approved Links: %d\n", stats.ApprovedLinks)
		fmt.Printf("Pending Links: %d\n", stats.PendingLinks)
		fmt.Printf("Audit Entries: %s\n", humanize.Comma(stats.AuditEntries))

		if info, err := os.Stat(db.Path()); err == nil {
			size, err := safecast.Convert[uint64](info.Size())
			if err == nil {
				fmt.Printf("Database Size: %s\n", humanize.Bytes(size))
			}
		}

		return nil
	},
}

func init() {
	rootCmd.AddCommand(dbStatsCmd)
}
