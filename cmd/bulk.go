package cmd

import (
	"bufio"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/MineX13/Discord-promo-checker/pkg/batch"
	"github.com/MineX13/Discord-promo-checker/pkg/report"
)

const (
	defaultDelaySeconds = 2.5
	maxDelaySeconds     = 60
)

// bulkCmd represents the bulk command
var bulkCmd = &cobra.Command{
	Use:   "bulk",
	Short: "Check codes from a text file and write a results report",
	Long: `Reads codes or gift URLs from a text file (one per line, # starts a
comment), checks them sequentially with a pause between lookups, and
writes a grouped results report.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		filename, _ := cmd.Flags().GetString("file")
		if filename == "" {
			filename = promptLine("Enter the filename with codes (e.g., codes.txt): ")
		}

		delay := viper.GetFloat64("delay")
		if cmd.Flags().Changed("delay") {
			raw, _ := cmd.Flags().GetString("delay")
			delay = parseDelay(raw)
		} else if !cmd.Flags().Changed("file") {
			// Interactive entry: also ask for the delay, like the prompt
			// for the filename above.
			fmt.Println("\n💡 Recommended delay: 2-3 seconds to avoid rate limiting")
			if raw := promptLine("Delay between checks in seconds (default 2.5): "); raw != "" {
				delay = parseDelay(raw)
			}
		}

		if _, err := os.Stat(filename); os.IsNotExist(err) {
			return fmt.Errorf("file '%s' not found", filename)
		}

		codes, err := batch.LoadCodesFromFile(filename)
		if err != nil {
			return err
		}
		if len(codes) == 0 {
			fmt.Println("❌ No valid codes found in the file!")
			return nil
		}

		divider := strings.Repeat("=", 70)
		fmt.Printf("\n%s\n", divider)
		fmt.Printf("Bulk Promo Code Check - Found %d codes\n", len(codes))
		fmt.Printf("%s\n\n", divider)

		runner := batch.NewRunner(newClient())
		rep := runner.Run(codes, time.Duration(delay*float64(time.Second)))
		runner.PrintSummary(rep)

		outPath, _ := cmd.Flags().GetString("output")
		if outPath == "" {
			outPath = report.DefaultFilename(time.Now())
		}
		f, err := os.Create(outPath)
		if err != nil {
			return fmt.Errorf("could not create results file: %w", err)
		}
		if err := report.Write(f, rep, time.Now()); err != nil {
			f.Close()
			return fmt.Errorf("could not write results file: %w", err)
		}
		if err := f.Close(); err != nil {
			return err
		}
		fmt.Printf("💾 Results saved to: %s\n\n", outPath)

		recordHistory(historyDBPath(cmd), rep.All())
		return nil
	},
}

// parseDelay interprets a delay string in seconds, falling back to the
// default on garbage and clamping to [0, 60].
func parseDelay(raw string) float64 {
	delay, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
	if err != nil {
		fmt.Printf("⚠️ Invalid delay value, using default: %g seconds\n", defaultDelaySeconds)
		return defaultDelaySeconds
	}
	if delay < 0 {
		fmt.Printf("⚠️ Delay cannot be negative, using default: %g seconds\n", defaultDelaySeconds)
		return defaultDelaySeconds
	}
	if delay > maxDelaySeconds {
		fmt.Printf("⚠️ Delay too large (max %ds), using %d seconds\n", maxDelaySeconds, maxDelaySeconds)
		return maxDelaySeconds
	}
	return delay
}

func promptLine(prompt string) string {
	fmt.Print(prompt)
	scanner := bufio.NewScanner(os.Stdin)
	if !scanner.Scan() {
		return ""
	}
	return strings.TrimSpace(scanner.Text())
}

func init() {
	rootCmd.AddCommand(bulkCmd)
	bulkCmd.Flags().StringP("file", "f", "", "Text file with one code or gift URL per line")
	bulkCmd.Flags().StringP("delay", "", "", "Delay between checks in seconds (default 2.5, max 60)")
	bulkCmd.Flags().StringP("output", "o", "", "Results file path (default results_<timestamp>.txt)")
	bulkCmd.Flags().StringP("db", "", "", "Record results in a history database at this path")
}
