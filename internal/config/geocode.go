package config

import "time"

// GeocodeConfig selects the reverse-geocoding provider used to turn
// alert coordinates into place names.
type GeocodeConfig struct {
	Provider         string        `yaml:"provider"` // nominatim or google
	NominatimBaseURL string        `yaml:"nominatim_base_url"`
	GoogleAPIKey     string        `yaml:"google_api_key"`
	Timeout          time.Duration `yaml:"timeout"`
	UserAgent        string        `yaml:"user_agent"`
}

func loadGeocodeConfig() *GeocodeConfig {
	return &GeocodeConfig{
		Provider:         getEnv("GEOCODE_PROVIDER", "nominatim"),
		NominatimBaseURL: getEnv("NOMINATIM_BASE_URL", "https://nominatim.openstreetmap.org"),
		GoogleAPIKey:     getEnv("GOOGLE_MAPS_API_KEY", ""),
		Timeout:          getEnvAsDuration("GEOCODE_TIMEOUT", 10*time.Second),
		UserAgent:        getEnv("GEOCODE_USER_AGENT", "cleanwave/1.0"),
	}
}
