package endpoints

import (
	"fmt"
	"os"

	"mealtrack/cli/internal/config"
)

// EnvBaseURL overrides every other base URL source when set.
// Intended for development against a local API server.
const EnvBaseURL = "MEALTRACK_API_URL"

// Resolve returns the endpoint set the client should talk to, using the RAM
// cache if available. The base URL comes from the environment when set,
// otherwise from the config file, otherwise the production default.
// This function is the main entry point for retrieving backend configuration.
func Resolve() (*Resolved, error) {
	if cached := GetCached(); cached != nil {
		return cached, nil
	}

	base := os.Getenv(EnvBaseURL)
	if base == "" {
		cfg, err := config.Load()
		if err != nil {
			return nil, fmt.Errorf("reading config: %w", err)
		}
		base = cfg.APIBaseURL
	}

	r := newResolved(base)
	SetCached(r)
	return r, nil
}
