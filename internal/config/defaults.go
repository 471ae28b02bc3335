package config

const (
	defaultConfigPath             = "~/.config/photosort/config.toml"
	defaultScanOrder              = "capture"
	defaultTolerance              = 0.01
	defaultPrecision              = 4
	defaultMetadataBackend        = "goexif"
	defaultGeocodingProvider      = "google"
	defaultGoogleBaseURL          = "https://maps.googleapis.com/maps/api/geocode/json"
	defaultNominatimBaseURL       = "https://nominatim.openstreetmap.org/reverse"
	defaultGeocodingUserAgent     = "photosort/dev"
	defaultGeocodingLanguage      = "en"
	defaultGeocodingMinIntervalMS = 100
	defaultGeocodingTimeout       = 10
	defaultLogFormat              = "console"
	defaultLogLevel               = "info"
	maxPrecision                  = 8
)

// SampleAPIKeyPlaceholder is the api_key value written by CreateSample.
const SampleAPIKeyPlaceholder = "your_google_maps_api_key_here"

// defaultExtensions mirrors the set of still-image and raw formats the sorter recognises.
var defaultExtensions = []string{".jpg", ".jpeg", ".png", ".tiff", ".tif", ".raw", ".cr2", ".nef", ".arw", ".heic"}

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Scan: Scan{
			Extensions: append([]string(nil), defaultExtensions...),
			Order:      defaultScanOrder,
		},
		Grouping: Grouping{
			Tolerance:   defaultTolerance,
			Precision:   defaultPrecision,
			VerifyOrder: true,
		},
		Metadata: Metadata{
			Backend: defaultMetadataBackend,
		},
		Geocoding: Geocoding{
			Enabled:        false,
			Provider:       defaultGeocodingProvider,
			UserAgent:      defaultGeocodingUserAgent,
			Language:       defaultGeocodingLanguage,
			MinIntervalMS:  defaultGeocodingMinIntervalMS,
			TimeoutSeconds: defaultGeocodingTimeout,
			CacheEnabled:   true,
			CachePath:      defaultGeocodeCachePath(),
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
	}
}
