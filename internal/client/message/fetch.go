package message

import (
	"context"
	"io"
	"net/http"
	"net/url"

	"github.com/google/uuid"
)

// Doer issues HTTP requests. *http.Client satisfies it.
type Doer interface {
	Do(req *http.Request) (*http.Response, error)
}

// RequestIDHeader carries a per-request id for correlating client and server logs.
const RequestIDHeader = "X-Request-ID"

// fetch issues one GET to path, resolved against the page URL, and returns the
// compact JSON text of the response body.
func (l *Loader) fetch(ctx context.Context, path string) (string, error) {
	target, err := l.requestURL(path)
	if err != nil {
		return "", &FetchError{Kind: KindNetwork, Path: path, Err: err}
	}

	if l.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, l.timeout)
		defer cancel()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, http.NoBody)
	if err != nil {
		return "", &FetchError{Kind: KindNetwork, Path: path, Err: err}
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set(RequestIDHeader, uuid.NewString())

	resp, err := l.client.Do(req)
	if err != nil {
		return "", &FetchError{Kind: KindNetwork, Path: path, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		_, _ = io.Copy(io.Discard, resp.Body)
		return "", &FetchError{Kind: KindStatus, Path: path, Status: resp.StatusCode}
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", &FetchError{Kind: KindNetwork, Path: path, Err: err}
	}

	text, err := serialize(body)
	if err != nil {
		return "", &FetchError{Kind: KindDecode, Path: path, Err: err}
	}
	return text, nil
}

// requestURL resolves path against the page URL the way a browser resolves a
// relative fetch. Absolute paths pass through unchanged.
func (l *Loader) requestURL(path string) (string, error) {
	ref, err := url.Parse(path)
	if err != nil {
		return "", err
	}
	return l.pageURL.ResolveReference(ref).String(), nil
}
