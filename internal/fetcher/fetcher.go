// Package fetcher downloads the homepage and the fixed set of deep pages of a
// company website.
package fetcher

import (
	"context"
	"errors"
	"io"
	"net"
	"net/http"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"
	"golang.org/x/net/html/charset"
	"golang.org/x/sync/errgroup"
)

const (
	DefaultHomeTimeout     = 15 * time.Second
	DefaultDeepPageTimeout = 10 * time.Second
	DefaultUserAgent       = "Mozilla/5.0"
	DefaultMaxBodyBytes    = 2 * 1024 * 1024
)

// DeepPaths lists the secondary pages fetched for every website, in merge order.
var DeepPaths = []string{"/about", "/about-us", "/contact", "/contact-us"}

// SourcePage is one fetched HTML document.
type SourcePage struct {
	URL  string
	HTML string
}

// AbsenceReason explains why a deep page contributed nothing.
type AbsenceReason string

const (
	ReasonNone       AbsenceReason = ""
	ReasonRequest    AbsenceReason = "request"
	ReasonTimeout    AbsenceReason = "timeout"
	ReasonNetwork    AbsenceReason = "network"
	ReasonHTTPStatus AbsenceReason = "http_status"
	ReasonRead       AbsenceReason = "read"
)

// PageResult is the outcome of a single deep-page fetch: either Page is set,
// or Reason and Err describe why the page is absent.
type PageResult struct {
	Path   string
	URL    string
	Page   *SourcePage
	Reason AbsenceReason
	Err    error
}

// OK reports whether the page was fetched.
func (r PageResult) OK() bool { return r.Page != nil }

// FetchError is returned for a failed fetch and carries its classification.
type FetchError struct {
	URL    string
	Reason AbsenceReason
	Status int
	Err    error
}

func (e *FetchError) Error() string {
	msg := "fetch " + e.URL + ": " + string(e.Reason)
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *FetchError) Unwrap() error { return e.Err }

// Options tunes a Fetcher. Zero values fall back to the package defaults.
type Options struct {
	HomeTimeout     time.Duration
	DeepPageTimeout time.Duration
	UserAgent       string
	MaxBodyBytes    int64
}

// Fetcher performs timed GET requests with a generic browser identity.
type Fetcher struct {
	client *http.Client
	opts   Options
}

// New builds a Fetcher. A nil client gets a transport with dial and TLS
// timeouts; per-request deadlines come from Options.
func New(client *http.Client, opts Options) *Fetcher {
	if client == nil {
		client = &http.Client{
			Transport: &http.Transport{
				DialContext: (&net.Dialer{
					Timeout: 10 * time.Second,
				}).DialContext,
				TLSHandshakeTimeout: 10 * time.Second,
			},
		}
	}
	if opts.HomeTimeout <= 0 {
		opts.HomeTimeout = DefaultHomeTimeout
	}
	if opts.DeepPageTimeout <= 0 {
		opts.DeepPageTimeout = DefaultDeepPageTimeout
	}
	if opts.UserAgent == "" {
		opts.UserAgent = DefaultUserAgent
	}
	if opts.MaxBodyBytes <= 0 {
		opts.MaxBodyBytes = DefaultMaxBodyBytes
	}
	return &Fetcher{client: client, opts: opts}
}

// FetchHome downloads the homepage using the home timeout.
func (f *Fetcher) FetchHome(ctx context.Context, url string) (SourcePage, error) {
	page, err := f.get(ctx, url, f.opts.HomeTimeout)
	if err != nil {
		return SourcePage{}, eris.Wrap(err, "fetcher: homepage")
	}
	return page, nil
}

// FetchDeepPages returns the deep pages that could be fetched, in DeepPaths order.
func (f *Fetcher) FetchDeepPages(ctx context.Context, baseURL string) []SourcePage {
	results := f.FetchDeepPageResults(ctx, baseURL)
	pages := make([]SourcePage, 0, len(results))
	for _, r := range results {
		if r.OK() {
			pages = append(pages, *r.Page)
		}
	}
	return pages
}

// FetchDeepPageResults fetches every deep path concurrently. Each fetch has
// its own deadline and never cancels its siblings. The returned slice is
// indexed like DeepPaths regardless of completion order.
func (f *Fetcher) FetchDeepPageResults(ctx context.Context, baseURL string) []PageResult {
	base := strings.TrimSuffix(baseURL, "/")
	results := make([]PageResult, len(DeepPaths))

	var g errgroup.Group
	for i, path := range DeepPaths {
		g.Go(func() error {
			target := base + path
			result := PageResult{Path: path, URL: target}

			page, err := f.get(ctx, target, f.opts.DeepPageTimeout)
			if err != nil {
				result.Err = err
				result.Reason = reasonOf(err)
				zap.L().Debug("fetcher: deep page absent",
					zap.String("url", target),
					zap.String("reason", string(result.Reason)),
					zap.Error(err),
				)
			} else {
				result.Page = &page
			}
			results[i] = result
			return nil
		})
	}
	_ = g.Wait()

	return results
}

func (f *Fetcher) get(ctx context.Context, target string, timeout time.Duration) (SourcePage, error) {
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return SourcePage{}, &FetchError{URL: target, Reason: ReasonRequest, Err: err}
	}
	req.Header.Set("User-Agent", f.opts.UserAgent)

	resp, err := f.client.Do(req)
	if err != nil {
		return SourcePage{}, &FetchError{URL: target, Reason: transportReason(ctx, err), Err: err}
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return SourcePage{}, &FetchError{
			URL:    target,
			Reason: ReasonHTTPStatus,
			Status: resp.StatusCode,
			Err:    eris.Errorf("status %d", resp.StatusCode),
		}
	}

	// one byte past the cap tells a truncated body from one that fits exactly
	body, err := io.ReadAll(io.LimitReader(resp.Body, f.opts.MaxBodyBytes+1))
	if err != nil {
		reason := ReasonRead
		if transportReason(ctx, err) == ReasonTimeout {
			reason = ReasonTimeout
		}
		return SourcePage{}, &FetchError{URL: target, Reason: reason, Err: err}
	}
	if int64(len(body)) > f.opts.MaxBodyBytes {
		body = body[:f.opts.MaxBodyBytes]
		zap.L().Debug("fetcher: body truncated",
			zap.String("url", target),
			zap.Int64("max_body_bytes", f.opts.MaxBodyBytes),
		)
	}

	return SourcePage{URL: target, HTML: decodeBody(body, resp.Header.Get("Content-Type"))}, nil
}

// decodeBody converts legacy charsets to UTF-8 using the Content-Type
// header, a BOM or a <meta charset> in the first 1024 bytes. A guessed
// charset never overrides a body that is already valid UTF-8, and
// undecodable bodies are passed through unchanged.
func decodeBody(body []byte, contentType string) string {
	enc, name, certain := charset.DetermineEncoding(body, contentType)
	if name == "utf-8" || (!certain && utf8.Valid(body)) {
		return string(body)
	}
	decoded, err := enc.NewDecoder().Bytes(body)
	if err != nil {
		return string(body)
	}
	return string(decoded)
}

func transportReason(ctx context.Context, err error) AbsenceReason {
	if errors.Is(ctx.Err(), context.DeadlineExceeded) || errors.Is(err, context.DeadlineExceeded) {
		return ReasonTimeout
	}
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return ReasonTimeout
	}
	return ReasonNetwork
}

func reasonOf(err error) AbsenceReason {
	var fetchErr *FetchError
	if errors.As(err, &fetchErr) {
		return fetchErr.Reason
	}
	return ReasonNetwork
}
