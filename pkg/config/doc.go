// Package config loads env-tagged configuration structs.
//
// Load reads an optional .env file once through github.com/joho/godotenv and
// parses the environment into the target struct with
// github.com/caarlos0/env/v11. Each struct type is parsed once per process
// and served from a cache afterwards; Reload and Reset bypass the cache.
//
//	var cfg session.Config
//	if err := config.Load(&cfg); err != nil {
//	    log.Fatal(err)
//	}
//
// Nested structs are parsed recursively, so a service can compose the
// Config types of the packages it wires together into one struct.
package config
