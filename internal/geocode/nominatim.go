package geocode

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"photosort/internal/photometa"
)

const (
	defaultNominatimBaseURL = "https://nominatim.openstreetmap.org/reverse"
	defaultUserAgent        = "photosort/dev"
)

// NominatimConfig describes the OpenStreetMap Nominatim client configuration.
type NominatimConfig struct {
	BaseURL    string
	UserAgent  string
	Language   string
	HTTPClient *http.Client
}

// NominatimProvider wraps the Nominatim reverse endpoint.
type NominatimProvider struct {
	userAgent string
	language  string
	baseURL   *url.URL
	http      *http.Client
}

// NewNominatim creates a NominatimProvider from the supplied configuration.
func NewNominatim(cfg NominatimConfig) (*NominatimProvider, error) {
	base := strings.TrimSpace(cfg.BaseURL)
	if base == "" {
		base = defaultNominatimBaseURL
	}
	baseURL, err := url.Parse(base)
	if err != nil {
		return nil, fmt.Errorf("geocode: parse nominatim base url: %w", err)
	}
	userAgent := strings.TrimSpace(cfg.UserAgent)
	if userAgent == "" {
		userAgent = defaultUserAgent
	}
	client := cfg.HTTPClient
	if client == nil {
		client = &http.Client{Timeout: defaultHTTPTimeout}
	}
	return &NominatimProvider{
		userAgent: userAgent,
		language:  strings.TrimSpace(cfg.Language),
		baseURL:   baseURL,
		http:      client,
	}, nil
}

// Name implements Provider.
func (n *NominatimProvider) Name() string { return "nominatim" }

type nominatimResponse struct {
	Error       string `json:"error"`
	DisplayName string `json:"display_name"`
	Address     struct {
		City    string `json:"city"`
		Town    string `json:"town"`
		Village string `json:"village"`
		County  string `json:"county"`
		State   string `json:"state"`
		Country string `json:"country"`
	} `json:"address"`
}

// Reverse implements Provider.
func (n *NominatimProvider) Reverse(ctx context.Context, coord photometa.Coordinate) (string, error) {
	endpoint := *n.baseURL
	params := url.Values{}
	params.Set("lat", fmt.Sprintf("%.6f", coord.Lat))
	params.Set("lon", fmt.Sprintf("%.6f", coord.Lon))
	params.Set("format", "jsonv2")
	params.Set("addressdetails", "1")
	if n.language != "" {
		params.Set("accept-language", n.language)
	}
	endpoint.RawQuery = params.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint.String(), nil)
	if err != nil {
		return "", fmt.Errorf("geocode: build nominatim request: %w", err)
	}
	req.Header.Set("User-Agent", n.userAgent)
	req.Header.Set("Accept", "application/json")

	resp, err := n.http.Do(req)
	if err != nil {
		return "", fmt.Errorf("geocode: nominatim request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		return "", fmt.Errorf("geocode: nominatim request failed (%s): %s", resp.Status, readErrorBody(resp))
	}

	var payload nominatimResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return "", fmt.Errorf("geocode: decode nominatim response: %w", err)
	}
	if payload.Error != "" {
		if strings.Contains(strings.ToLower(payload.Error), "unable to geocode") {
			return "", ErrNoResult
		}
		return "", errors.New("geocode: nominatim: " + payload.Error)
	}

	addr := payload.Address
	locality := firstNonEmpty(addr.City, addr.Town, addr.Village, addr.County, addr.State)
	if name := joinPlace(locality, addr.Country); name != "" {
		return name, nil
	}
	if display := strings.TrimSpace(payload.DisplayName); display != "" {
		return display, nil
	}
	return "", ErrNoResult
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v = strings.TrimSpace(v); v != "" {
			return v
		}
	}
	return ""
}
