// Package config provides centralized configuration management for the
// TradePulse import service and CLI.
//
// # Configuration Sources
//
// Configuration is loaded from the following sources in order of precedence:
//
//	1. Environment variables (highest priority), including a local .env file
//	2. A YAML configuration file
//	3. Default values (lowest priority)
//
// # Environment Variables
//
// All environment variables follow the pattern TRADEPULSE_<SECTION>_<KEY>:
//
//	TRADEPULSE_SERVER_PORT=8080
//	TRADEPULSE_LOGGING_LEVEL=debug
//	TRADEPULSE_IMPORT_DEFAULT_PLATFORM=das-trader
//	TRADEPULSE_IMPORT_TIMEZONE=America/New_York
//	TRADEPULSE_IMPORT_SCHEMA_FILE=/etc/tradepulse/platforms.yaml
//
// TRADEPULSE_CONFIG_FILE names the YAML file explicitly; otherwise
// config.yaml and configs/config.yaml are tried.
//
// # Usage
//
//	cfg, err := config.Load()
//	if err != nil {
//	    log.Fatal(err)
//	}
//	loc, _ := cfg.Import.Location()
package config
