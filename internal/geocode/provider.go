package geocode

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"photosort/internal/config"
	"photosort/internal/photometa"
)

// ErrNoResult indicates the provider answered but knew no place for the coordinate.
var ErrNoResult = errors.New("no geocoding result")

// Provider resolves a coordinate to a display name.
type Provider interface {
	Name() string
	Reverse(ctx context.Context, coord photometa.Coordinate) (string, error)
}

// NewProvider builds the provider selected by cfg.Geocoding.Provider.
func NewProvider(cfg *config.Config, client *http.Client) (Provider, error) {
	if cfg == nil {
		return nil, errors.New("geocode: config is nil")
	}
	if client == nil {
		client = &http.Client{Timeout: cfg.GeocodeTimeout()}
	}
	switch cfg.Geocoding.Provider {
	case "google":
		return NewGoogle(GoogleConfig{
			APIKey:     cfg.Geocoding.APIKey,
			BaseURL:    cfg.Geocoding.BaseURL,
			Language:   cfg.Geocoding.Language,
			HTTPClient: client,
		})
	case "nominatim":
		return NewNominatim(NominatimConfig{
			BaseURL:    cfg.Geocoding.BaseURL,
			UserAgent:  cfg.Geocoding.UserAgent,
			Language:   cfg.Geocoding.Language,
			HTTPClient: client,
		})
	default:
		return nil, fmt.Errorf("geocode: unsupported provider %q", cfg.Geocoding.Provider)
	}
}

// CoordinateString renders a coordinate as "48.8566N_2.3522E".
func CoordinateString(c photometa.Coordinate) string {
	latDir, lonDir := "N", "E"
	lat, lon := c.Lat, c.Lon
	if lat < 0 {
		latDir = "S"
		lat = -lat
	}
	if lon < 0 {
		lonDir = "W"
		lon = -lon
	}
	return fmt.Sprintf("%.4f%s_%.4f%s", lat, latDir, lon, lonDir)
}

func readErrorBody(resp *http.Response) string {
	body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
	return strings.TrimSpace(string(body))
}

func joinPlace(locality, country string) string {
	locality = strings.TrimSpace(locality)
	country = strings.TrimSpace(country)
	switch {
	case locality == "":
		return country
	case country == "" || strings.EqualFold(locality, country):
		return locality
	default:
		return locality + ", " + country
	}
}
