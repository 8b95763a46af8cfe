package repository

import (
	"errors"
	"os"
	"time"

	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/rs/zerolog/log"
)

func getenvDefault(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

const timeFormat = time.RFC3339Nano

func nowStamp() string {
	return time.Now().UTC().Format(timeFormat)
}

// parseStamp falls back to the zero time on a malformed stored value: a bad
// timestamp must not make an otherwise readable item unloadable, but it is
// logged so the corrupt record can be found.
func parseStamp(s string) time.Time {
	if s == "" {
		return time.Time{}
	}
	t, err := time.Parse(timeFormat, s)
	if err != nil {
		log.Warn().Err(err).Str("value", s).Msg("malformed stored timestamp")
		return time.Time{}
	}
	return t
}

func conditionalFailed(err error) bool {
	var cfe *types.ConditionalCheckFailedException
	return errors.As(err, &cfe)
}

func mergeNames(a, b map[string]string) map[string]string {
	if len(a) == 0 {
		return b
	}
	if len(b) == 0 {
		return a
	}
	out := make(map[string]string, len(a)+len(b))
	for k, v := range a {
		out[k] = v
	}
	for k, v := range b {
		out[k] = v
	}
	return out
}
