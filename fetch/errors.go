package fetch

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"strings"
	"syscall"

	"ewintr.nl/ytideas/model"
	"google.golang.org/api/googleapi"
)

// ErrConfiguration is returned when the lookup is set up without a usable
// credential. Nothing is sent upstream in that case.
var ErrConfiguration = errors.New("youtube lookup is not configured")

type TransportError struct {
	Op  string
	Err error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("%s: transport error: %v", e.Op, e.Err)
}

func (e *TransportError) Unwrap() error { return e.Err }

type UpstreamRequestError struct {
	Op         string
	StatusCode int
	Body       string
}

func (e *UpstreamRequestError) Error() string {
	return fmt.Sprintf("%s: upstream returned %d: %s", e.Op, e.StatusCode, e.Body)
}

type NotFoundError struct {
	VideoID model.YoutubeVideoID
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("video %s not found", e.VideoID)
}

type MalformedResponseError struct {
	Op     string
	Reason string
	Err    error
}

func (e *MalformedResponseError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: malformed response: %s: %v", e.Op, e.Reason, e.Err)
	}
	return fmt.Sprintf("%s: malformed response: %s", e.Op, e.Reason)
}

func (e *MalformedResponseError) Unwrap() error { return e.Err }

// classify maps an error from the API client onto the lookup error kinds.
// Anything that is neither an HTTP status error nor a network failure failed
// while decoding the body. The api key travels in the request url, so it is
// removed before the error leaves this package.
func classify(op string, err error) error {
	var apiErr *googleapi.Error
	if errors.As(err, &apiErr) {
		return &UpstreamRequestError{Op: op, StatusCode: apiErr.Code, Body: apiErr.Body}
	}

	var urlErr *url.Error
	if errors.As(err, &urlErr) {
		return &TransportError{Op: op, Err: &url.Error{Op: urlErr.Op, URL: redactURL(urlErr.URL), Err: urlErr.Err}}
	}

	var netErr net.Error
	switch {
	case errors.As(err, &netErr),
		errors.Is(err, context.DeadlineExceeded),
		errors.Is(err, context.Canceled),
		errors.Is(err, io.ErrUnexpectedEOF),
		errors.Is(err, syscall.ECONNRESET):
		return &TransportError{Op: op, Err: err}
	}

	return &MalformedResponseError{Op: op, Reason: "could not decode body", Err: err}
}

func redactURL(raw string) string {
	u, err := url.Parse(raw)
	if err != nil {
		return "<unparsable url>"
	}
	q := u.Query()
	if q.Has("key") {
		q.Set("key", "REDACTED")
		u.RawQuery = q.Encode()
	}
	u.User = nil
	return u.String()
}

// Permanent reports whether repeating the failed call can not succeed, like
// a 404 for a deleted video or a 403 for disabled comments. Quota and rate
// limit errors clear up by themselves and are not permanent.
func Permanent(err error) bool {
	var notFoundErr *NotFoundError
	if errors.As(err, &notFoundErr) {
		return true
	}

	var upstreamErr *UpstreamRequestError
	if !errors.As(err, &upstreamErr) {
		return false
	}
	switch {
	case upstreamErr.StatusCode == http.StatusTooManyRequests:
		return false
	case upstreamErr.StatusCode == http.StatusForbidden &&
		(strings.Contains(upstreamErr.Body, "quotaExceeded") || strings.Contains(upstreamErr.Body, "rateLimitExceeded")):
		return false
	default:
		return upstreamErr.StatusCode >= 400 && upstreamErr.StatusCode < 500
	}
}
