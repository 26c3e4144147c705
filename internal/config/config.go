package config // package config loads application configuration from environment variables

import (
	"log"     // log is used to report configuration errors and halt execution
	"os"      // os provides access to environment variables
	"strconv" // strconv converts strings to other types
)

// Config holds all runtime configuration values. Each field corresponds to
// an environment variable. Geocoder settings are grouped here so that the
// bypass switch is an explicit option handed to the write pipeline, never
// something inferred from the environment name.
type Config struct {
	Env               string  // application environment (e.g. "dev", "prod")
	Port              string  // HTTP port to listen on
	MongoURI          string  // MongoDB connection string
	MongoDB           string  // database name
	JWTSecret         string  // secret used to sign JWTs
	AccessTTLMin      int     // access token time-to-live in minutes
	RefreshTTLDays    int     // refresh token time-to-live in days
	BcryptCost        int     // bcrypt cost for password hashing
	GeocoderURL       string  // geocoding lookup endpoint
	GeocoderUserAgent string  // User-Agent sent with geocoding requests
	GeocoderBypass    bool    // skip live geocoding and use the default point
	SearchRadiusMiles float64 // default radius for proximity search
}

// Load reads configuration values from environment variables and returns a
// Config. Required variables are enforced by must() and missing values
// cause the program to exit with a fatal log message.
func Load() Config {
	return Config{
		Env:               must("APP_ENV"),
		Port:              must("APP_PORT"),
		MongoURI:          must("MONGO_URI"),
		MongoDB:           must("MONGO_DB"),
		JWTSecret:         must("JWT_SECRET"),
		AccessTTLMin:      mustInt("ACCESS_TOKEN_TTL_MIN"),
		RefreshTTLDays:    mustInt("REFRESH_TOKEN_TTL_DAYS"),
		BcryptCost:        mustInt("BCRYPT_COST"),
		GeocoderURL:       getenv("GEOCODER_URL", "https://nominatim.openstreetmap.org/search"),
		GeocoderUserAgent: getenv("GEOCODER_USER_AGENT", "roamstay-property-rental/1.0"),
		GeocoderBypass:    envBool("GEOCODER_BYPASS", false),
		SearchRadiusMiles: envFloat("DEFAULT_SEARCH_RADIUS_MILES", 25),
	}
}

// must retrieves the value of a required environment variable. If the
// variable is unset or empty, the application logs a fatal error and exits.
func must(key string) string {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		log.Fatalf("missing required env var: %s", key)
	}
	return v
}

// mustInt is like must() but converts the retrieved string into an integer.
func mustInt(key string) int {
	s := must(key)
	n, err := strconv.Atoi(s)
	if err != nil {
		log.Fatalf("invalid int for %s: %q", key, s)
	}
	return n
}

func getenv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func envBool(key string, def bool) bool {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	switch v {
	case "1", "true", "TRUE", "True", "yes", "YES", "on", "ON":
		return true
	case "0", "false", "FALSE", "False", "no", "NO", "off", "OFF":
		return false
	}
	return def
}

func envFloat(key string, def float64) float64 {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	if f, err := strconv.ParseFloat(v, 64); err == nil && f > 0 {
		return f
	}
	return def
}
