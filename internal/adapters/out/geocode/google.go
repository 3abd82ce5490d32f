// Package geocode resolves street addresses to coordinates through the
// Google Geocoding API, with a serialized dispatch queue and a Redis
// cache in front of the provider.
package geocode

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"freight/internal/core/ports"
	"freight/internal/pkg/errs"
)

const googleGeocodeURL = "https://maps.googleapis.com/maps/api/geocode/json"

// GoogleClient implements ports.Geocoder against the Google Geocoding
// HTTP API.
type GoogleClient struct {
	apiKey   string
	endpoint string
	client   *http.Client
}

var _ ports.Geocoder = (*GoogleClient)(nil)

// NewGoogleClient creates a geocoding client. A nil http client falls
// back to a default one with a request timeout.
func NewGoogleClient(apiKey string, client *http.Client) (*GoogleClient, error) {
	if strings.TrimSpace(apiKey) == "" {
		return nil, errs.NewValueIsRequiredError("apiKey")
	}
	if client == nil {
		client = &http.Client{Timeout: 30 * time.Second}
	}
	return &GoogleClient{apiKey: apiKey, endpoint: googleGeocodeURL, client: client}, nil
}

type googleResponse struct {
	Status  string `json:"status"`
	Results []struct {
		AddressComponents []struct {
			ShortName string   `json:"short_name"`
			Types     []string `json:"types"`
		} `json:"address_components"`
		Geometry struct {
			Location struct {
				Lat float64 `json:"lat"`
				Lng float64 `json:"lng"`
			} `json:"location"`
		} `json:"geometry"`
	} `json:"results"`
}

// Geocode resolves a free-form address query. Provider-side failures
// come back as a non-OK status with a nil error; the error return is
// reserved for transport and decoding problems.
func (g *GoogleClient) Geocode(ctx context.Context, query string) (ports.GeocodeStatus, []ports.GeocodeResult, error) {
	requestURL := g.endpoint + "?" + url.Values{
		"address": {query},
		"key":     {g.apiKey},
	}.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, requestURL, nil)
	if err != nil {
		return ports.GeocodeStatusUnknownError, nil, err
	}

	resp, err := g.client.Do(req)
	if err != nil {
		return ports.GeocodeStatusUnknownError, nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return ports.GeocodeStatusUnknownError, nil, fmt.Errorf("geocode: unexpected status %d", resp.StatusCode)
	}

	var decoded googleResponse
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		return ports.GeocodeStatusUnknownError, nil, errs.NewValueIsInvalidErrorWithCause("response", err)
	}

	status := statusFromWire(decoded.Status)
	results := make([]ports.GeocodeResult, 0, len(decoded.Results))
	for _, raw := range decoded.Results {
		result := ports.GeocodeResult{
			Latitude:  raw.Geometry.Location.Lat,
			Longitude: raw.Geometry.Location.Lng,
		}
		for _, component := range raw.AddressComponents {
			result.Components = append(result.Components, ports.GeocodeComponent{
				ShortName: component.ShortName,
				Types:     component.Types,
			})
		}
		results = append(results, result)
	}
	return status, results, nil
}

func statusFromWire(status string) ports.GeocodeStatus {
	switch status {
	case "OK":
		return ports.GeocodeStatusOK
	case "ZERO_RESULTS":
		return ports.GeocodeStatusZeroResults
	case "OVER_QUERY_LIMIT":
		return ports.GeocodeStatusOverQueryLimit
	case "REQUEST_DENIED":
		return ports.GeocodeStatusRequestDenied
	case "INVALID_REQUEST":
		return ports.GeocodeStatusInvalidRequest
	default:
		return ports.GeocodeStatusUnknownError
	}
}
