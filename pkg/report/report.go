// Package report serializes a batch run into a plain-text results file.
package report

import (
	"fmt"
	"io"
	"time"

	"github.com/MineX13/Discord-promo-checker/pkg/batch"
)

const (
	headerRule  = "======================================================================"
	sectionRule = "----------------------------------------------------------------------"
)

// DefaultFilename returns the timestamped name used when no explicit
// output file is given.
func DefaultFilename(now time.Time) string {
	return "results_" + now.Format("20060102_150405") + ".txt"
}

// Write emits one section per non-empty category in a fixed order:
// claimable, claimed, invalid, rate limited, errors.
func Write(w io.Writer, rep *batch.Report, now time.Time) error {
	var err error
	p := func(format string, args ...interface{}) {
		if err == nil {
			_, err = fmt.Fprintf(w, format, args...)
		}
	}

	p("%s\n", headerRule)
	p("Discord Promo Code Check Results - %s\n", now.Format("2006-01-02 15:04:05"))
	p("%s\n\n", headerRule)

	if len(rep.Claimable) > 0 {
		p("✅ CLAIMABLE CODES (%d):\n", len(rep.Claimable))
		p("%s\n", sectionRule)
		for _, r := range rep.Claimable {
			p("Code: %s\n", r.Code)
			p("Plan: %s\n", r.Plan)
			p("Status: %s\n", r.Message)
			p("%s\n", sectionRule)
		}
		p("\n")
	}

	if len(rep.Claimed) > 0 {
		p("❌ CLAIMED CODES (%d):\n", len(rep.Claimed))
		p("%s\n", sectionRule)
		for _, r := range rep.Claimed {
			p("Code: %s\n", r.Code)
			p("Plan: %s\n", r.Plan)
			p("%s\n", sectionRule)
		}
		p("\n")
	}

	if len(rep.Invalid) > 0 {
		p("⚠️ INVALID CODES (%d):\n", len(rep.Invalid))
		p("%s\n", sectionRule)
		for _, r := range rep.Invalid {
			p("Code: %s\n", r.Code)
			p("%s\n", sectionRule)
		}
		p("\n")
	}

	if len(rep.RateLimited) > 0 {
		p("⏳ RATE LIMITED CODES (%d):\n", len(rep.RateLimited))
		p("%s\n", sectionRule)
		for _, r := range rep.RateLimited {
			p("Code: %s\n", r.Code)
			p("Message: %s\n", r.Message)
			p("%s\n", sectionRule)
		}
		p("\n")
		p("💡 TIP: Re-run these codes with a higher delay (3-5 seconds)\n")
		p("to avoid Discord's rate limits.\n\n")
	}

	if len(rep.Errors) > 0 {
		p("❌ ERROR CODES (%d):\n", len(rep.Errors))
		p("%s\n", sectionRule)
		for _, r := range rep.Errors {
			p("Code: %s\n", r.Code)
			p("Message: %s\n", r.Message)
			p("%s\n", sectionRule)
		}
	}

	return err
}
