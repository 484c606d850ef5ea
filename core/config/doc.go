// Package config provides configuration management for filament-sync.
//
// It uses Viper to load settings from environment variables, optionally seeded
// from a .env file (godotenv). Defaults live in 'default' struct tags next to
// each setting.
//
// # Configuration Structure
//
//   - Server: HTTP port, optional API key, paging limits
//   - Database: MySQL or SQLite connection details
//   - Storage: S3/MinIO snapshot archive
//   - Log: level and format
//   - Catalog: remote API base URL, politeness delay, page ceiling
//   - Sync: scheduler interval and switches
//   - Matcher: snapshot TTL and default result count
//
// # Usage
//
//	cfg, err := config.LoadConfig(".")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Println(cfg.Catalog.BaseURL)
package config
