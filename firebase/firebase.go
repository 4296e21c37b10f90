package firebase

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/uhppoted/reagents-sheets/reagents"
)

// ErrNoData is returned when the Firebase location holds no data (the REST API returns 'null'
// for a missing path or for a location hidden by the database security rules).
var ErrNoData = errors.New("no data at Firebase location")

// StatusError is returned for a non-2xx response from the Firebase REST API.
type StatusError struct {
	URL        string
	StatusCode int
	Message    string
}

func (e *StatusError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("%v returned %v %v (%v)", e.URL, e.StatusCode, http.StatusText(e.StatusCode), e.Message)
	}

	return fmt.Sprintf("%v returned %v %v", e.URL, e.StatusCode, http.StatusText(e.StatusCode))
}

type Client struct {
	url  string
	http *http.Client
}

// NewClient returns a Firebase REST client for the reagents document at url. A zero
// timeout leaves the request bounded only by the context.
func NewClient(url string, timeout time.Duration) *Client {
	return &Client{
		url: url,
		http: &http.Client{
			Timeout: timeout,
		},
	}
}

// Location constructs the REST URL for a database path i.e. <base>/<path>.json. A base URL
// that already ends in .json is returned unchanged.
func Location(base, path string) string {
	base = strings.TrimSpace(base)
	path = strings.Trim(strings.TrimSpace(path), "/")

	if base == "" || strings.HasSuffix(base, ".json") {
		return base
	}

	base = strings.TrimRight(base, "/")
	if path == "" {
		return base + "/.json"
	}

	return fmt.Sprintf("%v/%v.json", base, strings.TrimSuffix(path, ".json"))
}

func (c *Client) URL() string {
	return c.url
}

// Fetch issues a single GET for the reagents document. No retries are attempted.
func (c *Client) Fetch(ctx context.Context) (*reagents.Dataset, error) {
	rq, err := http.NewRequestWithContext(ctx, http.MethodGet, c.url, nil)
	if err != nil {
		return nil, err
	}

	rq.Header.Set("Accept", "application/json")

	response, err := c.http.Do(rq)
	if err != nil {
		return nil, err
	}

	defer response.Body.Close()

	body, err := io.ReadAll(response.Body)
	if err != nil {
		return nil, fmt.Errorf("error reading response from %v (%w)", c.url, err)
	}

	if response.StatusCode < 200 || response.StatusCode > 299 {
		return nil, &StatusError{
			URL:        c.url,
			StatusCode: response.StatusCode,
			Message:    message(body),
		}
	}

	if bytes.Equal(bytes.TrimSpace(body), []byte("null")) {
		return nil, ErrNoData
	}

	dataset, err := reagents.Decode(body)
	if err != nil {
		return nil, fmt.Errorf("invalid response from %v (%w)", c.url, err)
	}

	return dataset, nil
}

// message extracts the 'error' field from a Firebase error response.
func message(body []byte) string {
	reply := struct {
		Error string `json:"error"`
	}{}

	if err := json.Unmarshal(body, &reply); err != nil {
		return ""
	}

	return reply.Error
}
