// Package discord queries Discord's gift-code entitlement endpoint to
// report whether a code is claimable, without ever redeeming it.
package discord

import (
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/tidwall/gjson"

	"github.com/MineX13/Discord-promo-checker/internal/utils"
	"github.com/MineX13/Discord-promo-checker/pkg/gift"
	"github.com/MineX13/Discord-promo-checker/pkg/whttp"
)

const (
	DefaultAPIBase = "https://discord.com/api/v9"

	GIFT_CODES_ENDPOINT = "/entitlements/gift-codes/"

	// Attempts per lookup, counting the first one.
	DefaultMaxRetries = 3

	// Backoff parameters. Rate-limit waits honor the server's Retry-After
	// (3s when absent) and never exceed 30s; network-error waits start at
	// 2s and never exceed 10s.
	defaultRetryAfter = 3 * time.Second
	rateLimitWaitCap  = 30 * time.Second
	networkWaitBase   = 2 * time.Second
	networkWaitCap    = 10 * time.Second
)

// Transport performs one GET request and reports status, headers and body.
// It exists so tests can script response sequences without a network.
type Transport interface {
	Get(url string, params url.Values) (*whttp.WHTTPRes, error)
}

type httpTransport struct {
	client *http.Client
}

func (t httpTransport) Get(reqURL string, params url.Values) (*whttp.WHTTPRes, error) {
	return whttp.SendHTTPRequest(&whttp.WHTTPReq{
		Method: "GET",
		URL:    reqURL,
		Params: params,
	}, t.client)
}

// Client checks gift codes against the entitlement endpoint.
type Client struct {
	APIBase    string
	MaxRetries int

	transport Transport
	sleep     func(time.Duration)
}

// NewClient returns a Client backed by the real HTTP transport.
func NewClient() *Client {
	return &Client{
		APIBase:    DefaultAPIBase,
		MaxRetries: DefaultMaxRetries,
		transport:  httpTransport{client: whttp.DefaultClient},
		sleep:      time.Sleep,
	}
}

// NewClientWith returns a Client with an injected transport and sleep
// function, for deterministic tests.
func NewClientWith(transport Transport, sleep func(time.Duration)) *Client {
	return &Client{
		APIBase:    DefaultAPIBase,
		MaxRetries: DefaultMaxRetries,
		transport:  transport,
		sleep:      sleep,
	}
}

// computeBackoff doubles base per attempt, capped.
func computeBackoff(attempt int, base, cap time.Duration) time.Duration {
	if attempt > 30 {
		return cap
	}
	wait := base << uint(attempt)
	if wait < 0 || wait > cap {
		return cap
	}
	return wait
}

// Check looks up one code and always returns a well-formed Result; no
// failure path escapes as an error. Rate limits and network errors are
// retried with doubling backoff, everything else is terminal on first
// sight.
func (c *Client) Check(code string, debug bool) gift.Result {
	reqURL := c.APIBase + GIFT_CODES_ENDPOINT + code
	params := url.Values{
		"with_application":       {"false"},
		"with_subscription_plan": {"true"},
	}

	for attempt := 0; attempt < c.MaxRetries; attempt++ {
		res, err := c.transport.Get(reqURL, params)

		if err != nil {
			if attempt < c.MaxRetries-1 {
				wait := computeBackoff(attempt, networkWaitBase, networkWaitCap)
				utils.Log.Debugf("Network error (%v), waiting %s before retry %d/%d", err, wait, attempt+1, c.MaxRetries)
				c.sleep(wait)
				continue
			}
			return gift.Result{
				Code:    code,
				Valid:   false,
				Status:  gift.StatusError,
				Emoji:   "❌",
				Plan:    "N/A",
				Message: fmt.Sprintf("❌ Network error: %v", err),
			}
		}

		switch res.StatusCode {
		case http.StatusOK:
			return interpretOK(code, res.BodyString, debug)

		case http.StatusNotFound:
			return gift.Result{
				Code:    code,
				Valid:   false,
				Status:  gift.StatusInvalid,
				Emoji:   "⚠️",
				Plan:    "N/A",
				Message: "⚠️ Code is INVALID (Unknown Gift Code)",
			}

		case http.StatusTooManyRequests:
			if attempt < c.MaxRetries-1 {
				retryAfter := defaultRetryAfter
				if v := res.Headers.Get("Retry-After"); v != "" {
					if seconds, parseErr := strconv.Atoi(v); parseErr == nil {
						retryAfter = time.Duration(seconds) * time.Second
					}
				}
				wait := computeBackoff(attempt, retryAfter, rateLimitWaitCap)
				utils.Log.Debugf("Rate limited, waiting %s before retry %d/%d", wait, attempt+1, c.MaxRetries)
				c.sleep(wait)
				continue
			}
			return gift.Result{
				Code:    code,
				Valid:   false,
				Status:  gift.StatusRateLimited,
				Emoji:   "⏳",
				Plan:    "N/A",
				Message: "⏳ Rate limited - Try again later or increase delay",
			}

		default:
			errMsg := "Unknown error"
			if m := gjson.Get(res.BodyString, "message"); m.Exists() {
				errMsg = m.String()
			}
			return gift.Result{
				Code:    code,
				Valid:   false,
				Status:  gift.StatusError,
				Emoji:   "❌",
				Plan:    "N/A",
				Message: fmt.Sprintf("❌ Error checking code: %s", errMsg),
			}
		}
	}

	return gift.Result{
		Code:    code,
		Valid:   false,
		Status:  gift.StatusError,
		Emoji:   "❌",
		Plan:    "N/A",
		Message: "❌ Max retries exceeded",
	}
}

func interpretOK(code, body string, debug bool) gift.Result {
	redeemed := gjson.Get(body, "redeemed").Bool()

	uses := int64(0)
	if v := gjson.Get(body, "uses"); v.Exists() {
		uses = v.Int()
	}
	maxUses := int64(1)
	if v := gjson.Get(body, "max_uses"); v.Exists() {
		maxUses = v.Int()
	}

	plan := "Unknown"
	if v := gjson.Get(body, "subscription_plan.name"); v.Exists() {
		plan = v.String()
	}

	status := gift.StatusClaimable
	emoji := "✅"
	if redeemed || uses >= maxUses {
		status = gift.StatusClaimed
		emoji = "❌"
	}

	extra := ""
	if uses > 0 || maxUses > 1 {
		extra = fmt.Sprintf(" (Uses: %d/%d)", uses, maxUses)
	}

	result := gift.Result{
		Code:    code,
		Valid:   true,
		Status:  status,
		Emoji:   emoji,
		Plan:    plan,
		Uses:    uses,
		MaxUses: maxUses,
		Message: fmt.Sprintf("%s Code is %s - %s%s", emoji, status, plan, extra),
	}
	if debug {
		result.Raw = body
	}
	return result
}
