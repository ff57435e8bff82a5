package discord

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"
	"time"

	"github.com/MineX13/Discord-promo-checker/pkg/gift"
	"github.com/MineX13/Discord-promo-checker/pkg/whttp"
)

const testCode = "aB3dE6gH9jK2mN5pQ8sT"

// scriptedResponse is one step of a fake transport script.
type scriptedResponse struct {
	res *whttp.WHTTPRes
	err error
}

type fakeTransport struct {
	script []scriptedResponse
	calls  int
}

func (f *fakeTransport) Get(url string, params url.Values) (*whttp.WHTTPRes, error) {
	if f.calls >= len(f.script) {
		panic("fake transport script exhausted")
	}
	step := f.script[f.calls]
	f.calls++
	return step.res, step.err
}

// sleepRecorder captures backoff waits instead of sleeping.
type sleepRecorder struct {
	waits []time.Duration
}

func (s *sleepRecorder) sleep(d time.Duration) {
	s.waits = append(s.waits, d)
}

func ok(body string) scriptedResponse {
	return scriptedResponse{res: &whttp.WHTTPRes{StatusCode: 200, Headers: http.Header{}, BodyString: body}}
}

func status(code int, headers http.Header, body string) scriptedResponse {
	if headers == nil {
		headers = http.Header{}
	}
	return scriptedResponse{res: &whttp.WHTTPRes{StatusCode: code, Headers: headers, BodyString: body}}
}

func netErr(msg string) scriptedResponse {
	return scriptedResponse{err: errors.New(msg)}
}

func newTestClient(script ...scriptedResponse) (*Client, *fakeTransport, *sleepRecorder) {
	transport := &fakeTransport{script: script}
	sleeps := &sleepRecorder{}
	return NewClientWith(transport, sleeps.sleep), transport, sleeps
}

func TestCheckRedeemedIsClaimed(t *testing.T) {
	client, transport, _ := newTestClient(ok(`{"redeemed": true, "uses": 0, "max_uses": 5, "subscription_plan": {"name": "Nitro"}}`))

	result := client.Check(testCode, false)
	if result.Status != gift.StatusClaimed {
		t.Fatalf("status = %s, want CLAIMED", result.Status)
	}
	if transport.calls != 1 {
		t.Fatalf("calls = %d, want 1", transport.calls)
	}
}

func TestCheckUsesExhaustedIsClaimed(t *testing.T) {
	client, _, _ := newTestClient(ok(`{"redeemed": false, "uses": 1, "max_uses": 1, "subscription_plan": {"name": "Nitro"}}`))

	result := client.Check(testCode, false)
	if result.Status != gift.StatusClaimed {
		t.Fatalf("status = %s, want CLAIMED", result.Status)
	}
	if result.Message != "❌ Code is CLAIMED - Nitro (Uses: 1/1)" {
		t.Fatalf("unexpected message: %q", result.Message)
	}
}

func TestCheckUnusedIsClaimable(t *testing.T) {
	client, _, _ := newTestClient(ok(`{"redeemed": false, "uses": 0, "max_uses": 1, "subscription_plan": {"name": "Nitro Basic"}}`))

	result := client.Check(testCode, false)
	if result.Status != gift.StatusClaimable {
		t.Fatalf("status = %s, want CLAIMABLE", result.Status)
	}
	if !result.Valid {
		t.Fatal("result should be valid")
	}
	if result.Plan != "Nitro Basic" {
		t.Fatalf("plan = %q, want Nitro Basic", result.Plan)
	}
	if result.Message != "✅ Code is CLAIMABLE - Nitro Basic" {
		t.Fatalf("unexpected message: %q", result.Message)
	}
}

func TestCheckMissingFieldsDefaultToClaimable(t *testing.T) {
	// No redeemed/uses/max_uses/plan at all: defaults are uses=0,
	// max_uses=1, plan Unknown, which lands on the claimable side.
	client, _, _ := newTestClient(ok(`{}`))

	result := client.Check(testCode, false)
	if result.Status != gift.StatusClaimable {
		t.Fatalf("status = %s, want CLAIMABLE", result.Status)
	}
	if result.Plan != "Unknown" {
		t.Fatalf("plan = %q, want Unknown", result.Plan)
	}
	if result.Uses != 0 || result.MaxUses != 1 {
		t.Fatalf("uses = %d/%d, want 0/1", result.Uses, result.MaxUses)
	}
}

func TestCheckNotFoundIsInvalidWithoutRetry(t *testing.T) {
	client, transport, sleeps := newTestClient(status(404, nil, `{"message": "Unknown Gift Code", "code": 10038}`))

	result := client.Check(testCode, false)
	if result.Status != gift.StatusInvalid {
		t.Fatalf("status = %s, want INVALID", result.Status)
	}
	if transport.calls != 1 {
		t.Fatalf("calls = %d, want 1", transport.calls)
	}
	if len(sleeps.waits) != 0 {
		t.Fatalf("unexpected sleeps: %v", sleeps.waits)
	}
}

func TestCheckRateLimitedExhaustsRetries(t *testing.T) {
	rl := func() scriptedResponse {
		h := http.Header{}
		h.Set("Retry-After", "3")
		return status(429, h, `{"message": "You are being rate limited.", "retry_after": 3}`)
	}
	client, transport, sleeps := newTestClient(rl(), rl(), rl())

	result := client.Check(testCode, false)
	if result.Status != gift.StatusRateLimited {
		t.Fatalf("status = %s, want RATE_LIMITED", result.Status)
	}
	if transport.calls != 3 {
		t.Fatalf("calls = %d, want 3", transport.calls)
	}
	// Backoff doubles per attempt; the final attempt fails without sleeping.
	want := []time.Duration{3 * time.Second, 6 * time.Second}
	if len(sleeps.waits) != len(want) {
		t.Fatalf("sleeps = %v, want %v", sleeps.waits, want)
	}
	for i := range want {
		if sleeps.waits[i] != want[i] {
			t.Fatalf("sleeps = %v, want %v", sleeps.waits, want)
		}
	}
}

func TestCheckRateLimitWaitIsCapped(t *testing.T) {
	h := http.Header{}
	h.Set("Retry-After", "25")
	client, _, sleeps := newTestClient(
		status(429, h, ""),
		status(429, h, ""),
		status(429, h, ""),
	)

	client.Check(testCode, false)
	// 25s, then 50s capped to 30s.
	want := []time.Duration{25 * time.Second, 30 * time.Second}
	for i := range want {
		if sleeps.waits[i] != want[i] {
			t.Fatalf("sleeps = %v, want %v", sleeps.waits, want)
		}
	}
}

func TestCheckRateLimitMissingRetryAfterDefaults(t *testing.T) {
	client, _, sleeps := newTestClient(
		status(429, nil, ""),
		ok(`{}`),
	)

	client.Check(testCode, false)
	if len(sleeps.waits) != 1 || sleeps.waits[0] != 3*time.Second {
		t.Fatalf("sleeps = %v, want [3s]", sleeps.waits)
	}
}

func TestCheckRecoversAfterRateLimit(t *testing.T) {
	h := http.Header{}
	h.Set("Retry-After", "1")
	client, transport, _ := newTestClient(
		status(429, h, ""),
		ok(`{"redeemed": false, "subscription_plan": {"name": "Nitro"}}`),
	)

	result := client.Check(testCode, false)
	if result.Status != gift.StatusClaimable {
		t.Fatalf("status = %s, want CLAIMABLE", result.Status)
	}
	if transport.calls != 2 {
		t.Fatalf("calls = %d, want 2", transport.calls)
	}
}

func TestCheckNetworkErrorExhaustsRetries(t *testing.T) {
	client, transport, sleeps := newTestClient(
		netErr("connection refused"),
		netErr("connection refused"),
		netErr("connection refused"),
	)

	result := client.Check(testCode, false)
	if result.Status != gift.StatusError {
		t.Fatalf("status = %s, want ERROR", result.Status)
	}
	if result.Message != "❌ Network error: connection refused" {
		t.Fatalf("unexpected message: %q", result.Message)
	}
	if transport.calls != 3 {
		t.Fatalf("calls = %d, want 3", transport.calls)
	}
	want := []time.Duration{2 * time.Second, 4 * time.Second}
	for i := range want {
		if sleeps.waits[i] != want[i] {
			t.Fatalf("sleeps = %v, want %v", sleeps.waits, want)
		}
	}
}

func TestCheckUnexpectedStatusIsTerminal(t *testing.T) {
	client, transport, _ := newTestClient(status(500, nil, `{"message": "Internal Server Error"}`))

	result := client.Check(testCode, false)
	if result.Status != gift.StatusError {
		t.Fatalf("status = %s, want ERROR", result.Status)
	}
	if result.Message != "❌ Error checking code: Internal Server Error" {
		t.Fatalf("unexpected message: %q", result.Message)
	}
	if transport.calls != 1 {
		t.Fatalf("calls = %d, want 1", transport.calls)
	}
}

func TestCheckUnexpectedStatusEmptyBody(t *testing.T) {
	client, _, _ := newTestClient(status(503, nil, ""))

	result := client.Check(testCode, false)
	if result.Message != "❌ Error checking code: Unknown error" {
		t.Fatalf("unexpected message: %q", result.Message)
	}
}

func TestCheckDebugKeepsRawBody(t *testing.T) {
	body := `{"redeemed": true}`
	client, _, _ := newTestClient(ok(body), ok(body))

	withDebug := client.Check(testCode, true)
	if withDebug.Raw != body {
		t.Fatalf("raw = %q, want body retained", withDebug.Raw)
	}

	withoutDebug := client.Check(testCode, false)
	if withoutDebug.Raw != "" {
		t.Fatalf("raw = %q, want empty without debug", withoutDebug.Raw)
	}
}

func TestComputeBackoff(t *testing.T) {
	cases := []struct {
		attempt int
		base    time.Duration
		cap     time.Duration
		want    time.Duration
	}{
		{0, 3 * time.Second, 30 * time.Second, 3 * time.Second},
		{1, 3 * time.Second, 30 * time.Second, 6 * time.Second},
		{2, 3 * time.Second, 30 * time.Second, 12 * time.Second},
		{4, 3 * time.Second, 30 * time.Second, 30 * time.Second},
		{0, 2 * time.Second, 10 * time.Second, 2 * time.Second},
		{2, 2 * time.Second, 10 * time.Second, 8 * time.Second},
		{3, 2 * time.Second, 10 * time.Second, 10 * time.Second},
		{62, 2 * time.Second, 10 * time.Second, 10 * time.Second}, // shift overflow guard
	}

	for _, c := range cases {
		if got := computeBackoff(c.attempt, c.base, c.cap); got != c.want {
			t.Fatalf("computeBackoff(%d, %s, %s) = %s, want %s", c.attempt, c.base, c.cap, got, c.want)
		}
	}
}

// The real transport end to end: query parameters, JSON parsing and the
// Retry-After header all travel through pkg/whttp.
func TestCheckAgainstHTTPServer(t *testing.T) {
	calls := 0
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		if r.URL.Path != "/entitlements/gift-codes/"+testCode {
			t.Fatalf("path = %s", r.URL.Path)
		}
		if r.URL.Query().Get("with_subscription_plan") != "true" {
			t.Fatalf("missing with_subscription_plan param, query = %s", r.URL.RawQuery)
		}
		if r.URL.Query().Get("with_application") != "false" {
			t.Fatalf("missing with_application param, query = %s", r.URL.RawQuery)
		}
		if calls == 1 {
			w.Header().Set("Retry-After", "0")
			w.WriteHeader(http.StatusTooManyRequests)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"redeemed": false, "subscription_plan": {"name": "Nitro"}}`))
	}))
	defer ts.Close()

	client := NewClient()
	client.APIBase = ts.URL

	result := client.Check(testCode, false)
	if result.Status != gift.StatusClaimable {
		t.Fatalf("status = %s, want CLAIMABLE", result.Status)
	}
	if result.Plan != "Nitro" {
		t.Fatalf("plan = %q, want Nitro", result.Plan)
	}
	if calls != 2 {
		t.Fatalf("server calls = %d, want 2", calls)
	}
}
