// Package config loads service configuration for transflow applications.
//
// It uses Viper to read a YAML (or JSON/TOML) file, optionally loads a .env
// file with godotenv, and lets prefixed environment variables override file
// values. Pipeline definitions and logging settings carry mapstructure tags
// so a whole service configuration loads in one call.
//
// # Usage
//
//	type AppConfig struct {
//	    config.ServiceConfig `mapstructure:",squash"`
//	    Pipeline flow.Definition `mapstructure:"pipeline"`
//	}
//	var cfg AppConfig
//	err := config.LoadConfig("signup", &cfg, config.WithConfigFile("config.yml"))
//
// With the default prefix, TRANSFLOW_LOGGING_LEVEL=debug overrides
// logging.level.
package config
