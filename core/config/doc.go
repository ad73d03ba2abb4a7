// Package config provides configuration management for abscomp.
//
// It utilizes Viper for loading the TOML config file, Godotenv for an optional .env file
// next to it, and environment variables for overrides. Every key has a default declared in
// a `default` struct tag; the file then overrides defaults and the environment overrides both.
//
// # Configuration Structure
//
// The Config struct is the central repository for all application settings, divided into subsections:
//   - Schema: the schema version marker (must be "1")
//   - LibOne, LibTwo: Audiobookshelf URL, API token and library ID of each library
//   - Fetch: timeouts, paging, retries and rate limit for downloads
//   - Compare: the ASIN collision policy
//   - Output: report directory and formats
//   - Server: HTTP server settings (port, API key, cache TTL)
//   - Storage: S3/MinIO credentials and bucket settings for report uploads
//   - Log: Logging level and format
//
// # Validation
//
// The loaded config is validated with go-playground/validator. A failure lists every
// invalid field together with the expected file shape.
//
// # Usage
//
//	cfg, err := config.LoadConfig("absconfig.toml")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Println(cfg.LibOne.URL)
package config
