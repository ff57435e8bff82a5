package cmd

import (
	"context"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/MineX13/Discord-promo-checker/pkg/storage"
)

// dbCmd represents the db command
var dbCmd = &cobra.Command{
	Use:   "db",
	Short: "Inspect the local check history database",
}

func openHistoryDB(cmd *cobra.Command) (*storage.DB, error) {
	dbPath := historyDBPath(cmd)
	if dbPath == "" {
		dbPath = "promo-checker.sqlite"
	}
	if _, err := os.Stat(dbPath); os.IsNotExist(err) {
		return nil, fmt.Errorf("history database not found: %s", dbPath)
	}
	return storage.Open(dbPath)
}

// dbStatsCmd represents the stats command
var dbStatsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Print per-status totals across all recorded checks",
	RunE: func(cmd *cobra.Command, args []string) error {
		db, err := openHistoryDB(cmd)
		if err != nil {
			return err
		}
		defer db.Close()

		stats, err := db.Stats(context.Background())
		if err != nil {
			return err
		}
		if len(stats) == 0 {
			fmt.Println("No checks recorded yet.")
			return nil
		}

		w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
		fmt.Fprintln(w, "STATUS\tCHECKS")
		var total int64
		for _, s := range stats {
			fmt.Fprintf(w, "%s\t%d\n", s.Status, s.Count)
			total += s.Count
		}
		fmt.Fprintf(w, "TOTAL\t%d\n", total)
		return w.Flush()
	},
}

// dbListCmd represents the list command
var dbListCmd = &cobra.Command{
	Use:   "list",
	Short: "List the most recent recorded checks",
	RunE: func(cmd *cobra.Command, args []string) error {
		limit, _ := cmd.Flags().GetInt("limit")

		db, err := openHistoryDB(cmd)
		if err != nil {
			return err
		}
		defer db.Close()

		records, err := db.Recent(context.Background(), limit)
		if err != nil {
			return err
		}
		if len(records) == 0 {
			fmt.Println("No checks recorded yet.")
			return nil
		}

		w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
		fmt.Fprintln(w, "CHECKED AT\tCODE\tSTATUS\tPLAN")
		for _, r := range records {
			fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", r.CheckedAt.Local().Format("2006-01-02 15:04:05"), r.Code, r.Status, r.Plan)
		}
		return w.Flush()
	},
}

func init() {
	rootCmd.AddCommand(dbCmd)
	dbCmd.PersistentFlags().StringP("db", "", "", "History database path (default promo-checker.sqlite)")
	dbCmd.AddCommand(dbStatsCmd)
	dbCmd.AddCommand(dbListCmd)
	dbListCmd.Flags().IntP("limit", "n", 20, "Maximum number of checks to list")
}
