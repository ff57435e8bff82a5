package whttp

import (
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/MineX13/Discord-promo-checker/internal/utils"
)

type WHTTPHeader struct {
	Name  string
	Value string
}

type WHTTPReq struct {
	URL     string
	Method  string
	Params  url.Values
	Headers []WHTTPHeader
}

type WHTTPRes struct {
	StatusCode int
	Headers    http.Header
	BodyString string
}

// DefaultClient is shared by all requests. The 10 second timeout bounds
// every lookup attempt; retries are handled by callers.
var DefaultClient = &http.Client{
	Timeout: 10 * time.Second,
}

// SetupProxy routes DefaultClient through an HTTP proxy. Useful for
// debugging with an intercepting proxy.
func SetupProxy(proxy string) {
	proxyURL, err := url.Parse(proxy)
	if err != nil {
		utils.Log.Fatal("Invalid proxy URL: ", err)
	}
	DefaultClient.Transport = &http.Transport{
		Proxy: http.ProxyURL(proxyURL),
	}
}

func SendHTTPRequest(wReq *WHTTPReq, client *http.Client) (wRes *WHTTPRes, err error) {
	if client == nil {
		client = DefaultClient
	}

	reqURL := wReq.URL
	if len(wReq.Params) > 0 {
		sep := "?"
		if strings.Contains(reqURL, "?") {
			sep = "&"
		}
		reqURL += sep + wReq.Params.Encode()
	}

	var req *http.Request
	req, err = http.NewRequest(wReq.Method, reqURL, nil)
	if err != nil {
		return nil, err
	}

	// Set common headers
	req.Header.Set("User-Agent", "Mozilla/5.0 (X11; Linux x86_64; rv:83.0) Gecko/20100101 Firefox/83.0")
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Accept-Language", "en")

	// Set custom headers
	for _, h := range wReq.Headers {
		req.Header.Add(h.Name, h.Value)
	}

	resp, err := client.Do(req)
	if err != nil {
		return nil, err
	}

	bodyBytes, err := io.ReadAll(resp.Body)
	if err != nil {
		resp.Body.Close()
		return nil, err
	}
	resp.Body.Close()

	wRes = &WHTTPRes{
		StatusCode: resp.StatusCode,
		Headers:    resp.Header,
		BodyString: string(bodyBytes),
	}
	return wRes, nil
}
