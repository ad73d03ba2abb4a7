package server

import "time"

// Config holds configuration for the HTTP server.
type Config struct {
	// Port is the port where the server will listen.
	Port string `mapstructure:"port" default:"8080" validate:"numeric"`
	// ApiKey is the secret key required to access the API. Empty disables auth.
	ApiKey string `mapstructure:"api_key" default:""`
	// CacheTTLSeconds is how long a comparison result is served before refetching.
	// Zero disables caching.
	CacheTTLSeconds int `mapstructure:"cache_ttl_seconds" default:"300" validate:"gte=0"`
}

// Addr returns the listen address.
func (c Config) Addr() string {
	return ":" + c.Port
}

// CacheTTL returns the comparison cache TTL.
func (c Config) CacheTTL() time.Duration {
	return time.Duration(c.CacheTTLSeconds) * time.Second
}
