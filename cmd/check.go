package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/MineX13/Discord-promo-checker/internal/utils"
	"github.com/MineX13/Discord-promo-checker/pkg/discord"
	"github.com/MineX13/Discord-promo-checker/pkg/gift"
	"github.com/MineX13/Discord-promo-checker/pkg/storage"
)

// newClient builds the entitlement client, honoring an API base override
// from the config file (useful behind a debugging proxy).
func newClient() *discord.Client {
	client := discord.NewClient()
	if api := viper.GetString("api"); api != "" {
		client.APIBase = api
	}
	return client
}

// historyDBPath resolves the history database path: the command's --db
// flag wins, then the dbpath config key. Empty means history is off.
func historyDBPath(cmd *cobra.Command) string {
	if path, _ := cmd.Flags().GetString("db"); path != "" {
		return path
	}
	return viper.GetString("dbpath")
}

// recordHistory appends results to the history database, if enabled.
func recordHistory(dbPath string, results []gift.Result) {
	if dbPath == "" || len(results) == 0 {
		return
	}
	db, err := storage.Open(dbPath)
	if err != nil {
		utils.Log.Warn("Could not open history database: ", err)
		return
	}
	defer db.Close()
	if err := db.RecordResults(context.Background(), results); err != nil {
		utils.Log.Warn("Could not record check history: ", err)
	}
}

// checkCmd represents the check command
var checkCmd = &cobra.Command{
	Use:   "check <code-or-url>",
	Short: "Check a single promo code or gift URL",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		debug, _ := cmd.Flags().GetBool("debug")

		code, ok := gift.Extract(args[0])
		if !ok {
			return fmt.Errorf("not a valid Discord promo code or gift URL: %s", args[0])
		}

		result := newClient().Check(code, debug)

		if debug && result.Raw != "" {
			fmt.Printf("\nDEBUG - Raw API Response:\n%s\n\n", result.Raw)
		}

		fmt.Printf("Code: %s\n", result.Code)
		fmt.Printf("Status: %s\n", result.Message)
		if result.Valid && result.Plan != "" {
			fmt.Printf("Plan: %s\n", result.Plan)
		}

		recordHistory(historyDBPath(cmd), []gift.Result{result})
		return nil
	},
}

func init() {
	rootCmd.AddCommand(checkCmd)
	checkCmd.Flags().BoolP("debug", "d", false, "Print the raw API response")
	checkCmd.Flags().StringP("db", "", "", "Record the result in a history database at this path")
}
