// Package gift models Discord gift codes and the outcome of checking one.
package gift

// Status classifies the result of a single code lookup.
type Status string

const (
	StatusClaimable   Status = "CLAIMABLE"
	StatusClaimed     Status = "CLAIMED"
	StatusInvalid     Status = "INVALID"
	StatusRateLimited Status = "RATE_LIMITED"
	StatusError       Status = "ERROR"
)

// Result holds everything known about one checked code. A lookup produces
// exactly one Result, regardless of how many retry attempts it took.
type Result struct {
	Code    string
	Valid   bool
	Status  Status
	Emoji   string
	Plan    string
	Uses    int64
	MaxUses int64
	Message string

	// Raw is the unmodified response body. Only populated in debug mode.
	Raw string
}
