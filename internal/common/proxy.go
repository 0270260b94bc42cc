package common

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/rs/zerolog/log"
)

var messages = map[int]string{
	http.StatusOK:                  "OK",
	http.StatusNoContent:           "No content",
	http.StatusMovedPermanently:    "Moved permanently",
	http.StatusFound:               "Found",
	http.StatusBadRequest:          "Bad request",
	http.StatusUnauthorized:        "Unauthorized",
	http.StatusForbidden:           "Forbidden",
	http.StatusNotFound:            "Data not found",
	http.StatusMethodNotAllowed:    "Method not allowed",
	http.StatusTooManyRequests:     "Rate limit exceeded",
	http.StatusInternalServerError: "Internal server error",
	http.StatusBadGateway:          "Bad gateway",
	http.StatusServiceUnavailable:  "Service unavailable",
	http.StatusGatewayTimeout:      "Gateway timeout",
}

// Returned when the server answered with a non 2xx status
type StatusError struct {
	Url  string
	Code int
}

func (e *StatusError) Error() string {
	message, ok := messages[e.Code]
	if !ok {
		message = http.StatusText(e.Code)
	}
	return fmt.Sprintf("request to %s failed with status %d (%s)", e.Url, e.Code, message)
}

type Proxy struct {
	header map[string]string
	client *http.Client
}

func NewProxy(header map[string]string, timeout time.Duration) *Proxy {
	return &Proxy{header, &http.Client{Timeout: timeout}}
}

// Make a GET request to the provided url and return the body.
// Any status outside the 2xx range is reported as a *StatusError
func (proxy *Proxy) Request(ctx context.Context, url string) ([]byte, error) {

	// Create the request and add the header
	request, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("could not create request for url %s: %w", url, err)
	}
	for key, value := range proxy.header {
		request.Header.Set(key, value)
	}

	// Perform the request
	res, err := proxy.client.Do(request)
	if err != nil {
		return nil, fmt.Errorf("could not perform request to %s: %w", url, err)
	}
	defer res.Body.Close()

	if message, ok := messages[res.StatusCode]; ok {
		log.Debug().Msgf("%d %s", res.StatusCode, message)
	} else {
		log.Debug().Msgf("Status code of request (%d) is not understood", res.StatusCode)
	}

	if res.StatusCode < 200 || res.StatusCode > 299 {
		_, _ = io.Copy(io.Discard, res.Body)
		return nil, &StatusError{Url: url, Code: res.StatusCode}
	}

	// Read the response
	stream, err := io.ReadAll(res.Body)
	if err != nil {
		return nil, fmt.Errorf("could not extract the response for url %s: %w", url, err)
	}
	return stream, nil
}
