package helpers

import (
	"time"

	"github.com/rs/zerolog/log"
)

// ParseDuration parses a duration string and falls back to the given
// default when the string is empty or malformed. Bad values are logged
// rather than failing startup.
func ParseDuration(durationStr string, defaultDuration time.Duration) time.Duration {
	duration, err := time.ParseDuration(durationStr)
	if err != nil {
		log.Warn().
			Err(err).
			Str("value", durationStr).
			Dur("default", defaultDuration).
			Msg("Unparseable duration, falling back to default")
		return defaultDuration
	}
	return duration
}
