// Package batch runs code checks sequentially over a list and groups the
// outcomes per status.
package batch

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/MineX13/Discord-promo-checker/pkg/gift"
)

// Checker is what the runner needs from the entitlement client.
type Checker interface {
	Check(code string, debug bool) gift.Result
}

// Report groups lookup results per status, preserving check order.
type Report struct {
	Claimable   []gift.Result
	Claimed     []gift.Result
	Invalid     []gift.Result
	RateLimited []gift.Result
	Errors      []gift.Result
}

func (r *Report) add(result gift.Result) {
	switch result.Status {
	case gift.StatusClaimable:
		r.Claimable = append(r.Claimable, result)
	case gift.StatusClaimed:
		r.Claimed = append(r.Claimed, result)
	case gift.StatusInvalid:
		r.Invalid = append(r.Invalid, result)
	case gift.StatusRateLimited:
		r.RateLimited = append(r.RateLimited, result)
	default:
		r.Errors = append(r.Errors, result)
	}
}

// Total counts results across all categories.
func (r *Report) Total() int {
	return len(r.Claimable) + len(r.Claimed) + len(r.Invalid) + len(r.RateLimited) + len(r.Errors)
}

// All returns every result in a fixed category order.
func (r *Report) All() []gift.Result {
	var all []gift.Result
	all = append(all, r.Claimable...)
	all = append(all, r.Claimed...)
	all = append(all, r.Invalid...)
	all = append(all, r.RateLimited...)
	all = append(all, r.Errors...)
	return all
}

// LoadCodes reads candidate lines from r, skipping blanks and comments,
// and extracts one code per remaining line. Lines that don't contain a
// recognizable code are dropped.
func LoadCodes(r io.Reader) ([]string, error) {
	var codes []string
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		if code, ok := gift.Extract(line); ok {
			codes = append(codes, code)
		}
	}
	return codes, scanner.Err()
}

// LoadCodesFromFile is LoadCodes over a file on disk.
func LoadCodesFromFile(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return LoadCodes(f)
}

// Runner checks codes one at a time with a fixed pause between them.
type Runner struct {
	Checker Checker
	Sleep   func(time.Duration)
	Out     io.Writer
}

// NewRunner builds a Runner that writes progress to stdout.
func NewRunner(checker Checker) *Runner {
	return &Runner{
		Checker: checker,
		Sleep:   time.Sleep,
		Out:     os.Stdout,
	}
}

// Run checks every code in order and returns the grouped report. A failed
// code never stops the batch. No pause is inserted after the last code.
func (r *Runner) Run(codes []string, delay time.Duration) *Report {
	report := &Report{}

	for i, code := range codes {
		fmt.Fprintf(r.Out, "[%d/%d] Checking: %s... ", i+1, len(codes), code)

		result := r.Checker.Check(code, false)
		report.add(result)

		switch result.Status {
		case gift.StatusClaimable:
			fmt.Fprintf(r.Out, "✅ CLAIMABLE - %s\n", result.Plan)
		case gift.StatusClaimed:
			fmt.Fprintf(r.Out, "❌ CLAIMED - %s\n", result.Plan)
		case gift.StatusInvalid:
			fmt.Fprintln(r.Out, "⚠️ INVALID")
		case gift.StatusRateLimited:
			fmt.Fprintln(r.Out, "⏳ RATE LIMITED")
		default:
			fmt.Fprintln(r.Out, "❌ ERROR")
		}

		if i < len(codes)-1 && delay > 0 {
			r.Sleep(delay)
		}
	}

	return report
}

// PrintSummary writes the per-category totals, plus a delay hint if any
// check was rate limited.
func (r *Runner) PrintSummary(report *Report) {
	divider := strings.Repeat("=", 70)
	fmt.Fprintf(r.Out, "\n%s\n", divider)
	fmt.Fprintln(r.Out, "Summary:")
	fmt.Fprintln(r.Out, divider)
	fmt.Fprintf(r.Out, "✅ Claimable: %d\n", len(report.Claimable))
	fmt.Fprintf(r.Out, "❌ Claimed: %d\n", len(report.Claimed))
	fmt.Fprintf(r.Out, "⚠️ Invalid: %d\n", len(report.Invalid))
	fmt.Fprintf(r.Out, "⏳ Rate Limited: %d\n", len(report.RateLimited))
	fmt.Fprintf(r.Out, "❌ Errors: %d\n", len(report.Errors))
	fmt.Fprintf(r.Out, "%s\n\n", divider)

	if len(report.RateLimited) > 0 {
		fmt.Fprintln(r.Out, "💡 TIP: Increase delay between checks to avoid rate limiting.")
		fmt.Fprintln(r.Out)
	}
}
