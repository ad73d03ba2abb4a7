package audiobookshelf

// LibraryConfig holds the connection details of one Audiobookshelf library.
type LibraryConfig struct {
	// URL is the server base URL, e.g. https://abs.example.com.
	URL string `mapstructure:"url" default:"" validate:"required,url,startswith=http"`
	// Token is the user API token sent as a bearer token.
	Token string `mapstructure:"token" default:"" validate:"required"`
	// Library is the library ID on that server.
	Library string `mapstructure:"library" default:"" validate:"required"`
}

// FetchConfig tunes how catalogs are downloaded.
type FetchConfig struct {
	// ConnectTimeoutSeconds bounds connection setup.
	ConnectTimeoutSeconds int `mapstructure:"connect_timeout_seconds" default:"10" validate:"gte=0"`
	// TimeoutSeconds bounds the wait for a response.
	TimeoutSeconds int `mapstructure:"timeout_seconds" default:"30" validate:"gte=0"`
	// PageSize is the number of items per request. Zero fetches everything in one request.
	PageSize int `mapstructure:"page_size" default:"0" validate:"gte=0"`
	// MaxRetries is the number of retries on transport errors, 429 and 5xx responses.
	MaxRetries int `mapstructure:"max_retries" default:"0" validate:"gte=0"`
	// RequestsPerSecond limits request rate. Zero means unlimited.
	RequestsPerSecond float64 `mapstructure:"requests_per_second" default:"0" validate:"gte=0"`
	// Parallel fetches both libraries concurrently.
	Parallel bool `mapstructure:"parallel" default:"false"`
}
