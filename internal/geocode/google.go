package geocode

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"photosort/internal/photometa"
)

const (
	defaultGoogleBaseURL = "https://maps.googleapis.com/maps/api/geocode/json"
	defaultHTTPTimeout   = 10 * time.Second
)

// googleLocalityTypes lists address component types in preference order for
// the locality part of a place name.
var googleLocalityTypes = []string{
	"locality",
	"postal_town",
	"sublocality",
	"administrative_area_level_3",
	"administrative_area_level_2",
	"administrative_area_level_1",
}

// GoogleConfig describes the Google Maps Geocoding client configuration.
type GoogleConfig struct {
	APIKey     string
	BaseURL    string
	Language   string
	HTTPClient *http.Client
}

// GoogleProvider wraps the Google Maps reverse geocoding endpoint.
type GoogleProvider struct {
	apiKey   string
	language string
	baseURL  *url.URL
	http     *http.Client
}

// NewGoogle creates a GoogleProvider from the supplied configuration.
func NewGoogle(cfg GoogleConfig) (*GoogleProvider, error) {
	apiKey := strings.TrimSpace(cfg.APIKey)
	if apiKey == "" {
		return nil, errors.New("geocode: google api key is required")
	}
	base := strings.TrimSpace(cfg.BaseURL)
	if base == "" {
		base = defaultGoogleBaseURL
	}
	baseURL, err := url.Parse(base)
	if err != nil {
		return nil, fmt.Errorf("geocode: parse google base url: %w", err)
	}
	client := cfg.HTTPClient
	if client == nil {
		client = &http.Client{Timeout: defaultHTTPTimeout}
	}
	return &GoogleProvider{
		apiKey:   apiKey,
		language: strings.TrimSpace(cfg.Language),
		baseURL:  baseURL,
		http:     client,
	}, nil
}

// Name implements Provider.
func (g *GoogleProvider) Name() string { return "google" }

type googleResponse struct {
	Status       string         `json:"status"`
	ErrorMessage string         `json:"error_message"`
	Results      []googleResult `json:"results"`
}

type googleResult struct {
	FormattedAddress  string `json:"formatted_address"`
	AddressComponents []struct {
		LongName string   `json:"long_name"`
		Types    []string `json:"types"`
	} `json:"address_components"`
}

// Reverse implements Provider.
func (g *GoogleProvider) Reverse(ctx context.Context, coord photometa.Coordinate) (string, error) {
	endpoint := *g.baseURL
	params := url.Values{}
	params.Set("latlng", fmt.Sprintf("%.6f,%.6f", coord.Lat, coord.Lon))
	params.Set("key", g.apiKey)
	if g.language != "" {
		params.Set("language", g.language)
	}
	endpoint.RawQuery = params.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint.String(), nil)
	if err != nil {
		return "", fmt.Errorf("geocode: build google request: %w", err)
	}
	resp, err := g.http.Do(req)
	if err != nil {
		return "", fmt.Errorf("geocode: google request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		return "", fmt.Errorf("geocode: google request failed (%s): %s", resp.Status, readErrorBody(resp))
	}

	var payload googleResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return "", fmt.Errorf("geocode: decode google response: %w", err)
	}
	switch payload.Status {
	case "OK":
	case "ZERO_RESULTS":
		return "", ErrNoResult
	default:
		if payload.ErrorMessage != "" {
			return "", fmt.Errorf("geocode: google status %s: %s", payload.Status, payload.ErrorMessage)
		}
		return "", fmt.Errorf("geocode: google status %s", payload.Status)
	}
	if len(payload.Results) == 0 {
		return "", ErrNoResult
	}
	if name := googlePlaceName(payload.Results); name != "" {
		return name, nil
	}
	if formatted := strings.TrimSpace(payload.Results[0].FormattedAddress); formatted != "" {
		return formatted, nil
	}
	return "", ErrNoResult
}

// googlePlaceName builds "<locality>, <country>" from the first result whose
// components name a locality; country comes from any result.
func googlePlaceName(results []googleResult) string {
	var locality, country string
	for _, result := range results {
		found := map[string]string{}
		for _, component := range result.AddressComponents {
			for _, typ := range component.Types {
				if _, ok := found[typ]; !ok {
					found[typ] = component.LongName
				}
			}
		}
		if country == "" {
			country = found["country"]
		}
		if locality == "" {
			for _, typ := range googleLocalityTypes {
				if name := strings.TrimSpace(found[typ]); name != "" {
					locality = name
					break
				}
			}
		}
		if locality != "" && country != "" {
			break
		}
	}
	return joinPlace(locality, country)
}
