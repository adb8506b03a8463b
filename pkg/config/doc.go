// Package config loads environment-driven configuration structs.
//
// Each component declares its own Config struct with `env` tags and loads it
// through Load or MustLoad. A .env file in the working directory is picked up
// once per process, which keeps local development friction-free without
// affecting deployed environments.
package config
