// Package config provides configuration management for the asset core tools.
//
// It utilizes Viper for loading configuration from environment variables and
// an optional .env file loaded with godotenv.
//
// # Configuration Structure
//
// The Config struct is the central repository for all application settings, divided into subsections:
//   - Log: logging level and format
//   - Assets: project, asset and engine directories, file extension, compression codec
//   - Jobs: background scheduler concurrency
//   - Recycle: local or object storage recycle bin
//   - Storage: S3/MinIO credentials and bucket for the object recycle bin
//   - Database: catalog connection (mysql or sqlite; empty driver disables it)
//   - Server: HTTP inspection server settings
//
// Every leaf field carries a `default` tag. Environment variables use the
// upper-cased key path, e.g. ASSETS_PROJECT_DIR or STORAGE_BUCKET.
//
// # Usage
//
//	cfg, err := config.LoadConfig(".")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Println(cfg.Assets.ProjectDir)
package config
