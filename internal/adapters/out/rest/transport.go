// Package rest provides the HTTP implementation of the backend transport.
package rest

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"freight/internal/core/ports"
	"freight/internal/pkg/errs"
)

const defaultRequestTimeout = 30 * time.Second

// Transport sends JSON requests to the brokerage backend over HTTP.
type Transport struct {
	baseURL string
	client  *http.Client
}

var _ ports.Transport = (*Transport)(nil)

// NewTransport creates a transport rooted at baseURL. A nil client falls
// back to a default one with a request timeout.
func NewTransport(baseURL string, client *http.Client) (*Transport, error) {
	if strings.TrimSpace(baseURL) == "" {
		return nil, errs.NewValueIsRequiredError("baseURL")
	}
	if client == nil {
		client = &http.Client{Timeout: defaultRequestTimeout}
	}
	return &Transport{
		baseURL: strings.TrimRight(baseURL, "/"),
		client:  client,
	}, nil
}

// Send issues the request and decodes the JSON response body. Any
// non-2xx status is reported as a single error carrying the status and
// the raw body.
func (t *Transport) Send(ctx context.Context, method string, path string, body map[string]any) (map[string]any, error) {
	var payload io.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		if err != nil {
			return nil, errs.NewValueIsInvalidErrorWithCause("body", err)
		}
		payload = bytes.NewReader(encoded)
	}

	url := t.baseURL + "/" + strings.TrimLeft(path, "/")
	req, err := http.NewRequestWithContext(ctx, method, url, payload)
	if err != nil {
		return nil, errs.NewValueIsInvalidErrorWithCause("request", err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := t.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		return nil, fmt.Errorf("%s %s: unexpected status %d: %s", method, path, resp.StatusCode, strings.TrimSpace(string(raw)))
	}

	if len(raw) == 0 {
		return map[string]any{}, nil
	}

	var document map[string]any
	if err := json.Unmarshal(raw, &document); err != nil {
		return nil, errs.NewValueIsInvalidErrorWithCause("response", err)
	}
	return document, nil
}
