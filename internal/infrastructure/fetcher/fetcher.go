package fetcher

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"NewsDigest/internal/domain"
	"NewsDigest/internal/ports"
)

const defaultTimeout = 30 * time.Second

// browserHeaders is the fixed simulated-browser profile sent with
// every request.
var browserHeaders = map[string]string{
	"User-Agent":      "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36",
	"Accept":          "text/html,application/xhtml+xml,application/xml;q=0.9,image/webp,*/*;q=0.8",
	"Accept-Language": "zh-TW,zh;q=0.9,en-US;q=0.8,en;q=0.7",
}

// Fetcher retrieves raw page markup over HTTP. All failures fold into
// the returned FetchResult; Fetch never panics or errors out.
type Fetcher struct {
	client *http.Client
}

var _ ports.Fetcher = (*Fetcher)(nil)

// New builds a fetcher with the given timeout; zero means the 30s default.
func New(timeout time.Duration) *Fetcher {
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	return &Fetcher{client: &http.Client{Timeout: timeout}}
}

// Fetch retrieves a single URL.
func (f *Fetcher) Fetch(ctx context.Context, url string) domain.FetchResult {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return failure(url, 0, fmt.Sprintf("build request: %v", err))
	}
	for key, value := range browserHeaders {
		req.Header.Set(key, value)
	}

	resp, err := f.client.Do(req)
	if err != nil {
		return failure(url, 0, err.Error())
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return failure(url, resp.StatusCode, fmt.Sprintf("unexpected status %s", resp.Status))
	}

	// A truncated read is a transport failure, so the status folds to
	// zero like any other connection error.
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return failure(url, 0, fmt.Sprintf("read body: %v", err))
	}
	if len(body) == 0 {
		return failure(url, resp.StatusCode, "empty response body")
	}

	return domain.FetchResult{
		URL:        url,
		RawBody:    string(body),
		StatusCode: resp.StatusCode,
		Success:    true,
	}
}

// FetchAll retrieves every URL independently and returns results in
// input order; one failure does not abort the rest.
func (f *Fetcher) FetchAll(ctx context.Context, urls []string) []domain.FetchResult {
	results := make([]domain.FetchResult, 0, len(urls))
	for _, url := range urls {
		results = append(results, f.Fetch(ctx, url))
	}
	return results
}

func failure(url string, status int, message string) domain.FetchResult {
	return domain.FetchResult{
		URL:          url,
		StatusCode:   status,
		ErrorMessage: message,
	}
}
