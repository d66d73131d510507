// Package config handles configuration loading, parsing, and validation
// from defaults, an optional YAML file, .env files, environment variables
// and command line flags. Environment variables use the PHRASEBOOK_ prefix;
// the conventional DATABASE_URL, PORT, GROQ_API_KEY and GEMINI_API_KEY
// names are accepted as well.
package config
