package cmd

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/MineX13/Discord-promo-checker/pkg/batch"
	"github.com/MineX13/Discord-promo-checker/pkg/gift"
)

const lookupPause = 500 * time.Millisecond

// interactiveCmd represents the interactive command
var interactiveCmd = &cobra.Command{
	Use:     "interactive",
	Aliases: []string{"i"},
	Short:   "Check codes one by one at a prompt",
	Run: func(cmd *cobra.Command, args []string) {
		runInteractive(os.Stdin, os.Stdout, newClient(), time.Sleep)
	},
}

// runInteractive is the REPL over single-code lookups. Reserved inputs:
// quit/exit/q terminate, debug toggles diagnostic output for the session.
func runInteractive(in io.Reader, out io.Writer, checker batch.Checker, sleep func(time.Duration)) {
	fmt.Fprintln(out, "This tool checks Discord promo/gift codes WITHOUT claiming them.")
	fmt.Fprintln(out, "Type 'debug' to enable debug mode, 'quit' to exit.")
	fmt.Fprintln(out)
	fmt.Fprintln(out, "NOTE: Discord's API may not always accurately report claimed")
	fmt.Fprintln(out, "status. If you see a code as 'CLAIMABLE' but it's claimed,")
	fmt.Fprintln(out, "enable debug mode to see the raw API response.")
	fmt.Fprintln(out)

	debugMode := false
	divider := strings.Repeat("-", 60)
	scanner := bufio.NewScanner(in)

	for {
		fmt.Fprint(out, "Enter promo code or URL (or 'quit'): ")
		if !scanner.Scan() {
			fmt.Fprintln(out)
			return
		}
		input := strings.TrimSpace(scanner.Text())

		switch strings.ToLower(input) {
		case "quit", "exit", "q":
			fmt.Fprintln(out, "\nExiting... Goodbye!")
			return
		case "debug":
			debugMode = !debugMode
			state := "enabled"
			if !debugMode {
				state = "disabled"
			}
			fmt.Fprintf(out, "🔧 Debug mode %s\n\n", state)
			continue
		case "":
			continue
		}

		code, ok := gift.Extract(input)
		if !ok {
			fmt.Fprintln(out, "⚠️ Invalid format. Please enter a valid Discord promo code or gift URL.")
			fmt.Fprintln(out)
			continue
		}

		fmt.Fprintf(out, "\nChecking code: %s\n", code)
		fmt.Fprintln(out, divider)

		result := checker.Check(code, debugMode)

		if debugMode && result.Raw != "" {
			fmt.Fprintf(out, "\nDEBUG - Raw API Response:\n%s\n\n", result.Raw)
		}

		fmt.Fprintf(out, "Code: %s\n", result.Code)
		fmt.Fprintf(out, "Status: %s\n", result.Message)
		if result.Valid && result.Plan != "" {
			fmt.Fprintf(out, "Plan: %s\n", result.Plan)
		}
		fmt.Fprintf(out, "%s\n\n", divider)

		sleep(lookupPause)
	}
}

func init() {
	rootCmd.AddCommand(interactiveCmd)
}
