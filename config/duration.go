package config

import (
	"fmt"
	"math"
	"reflect"
	"strconv"
	"strings"
	"time"

	"github.com/go-viper/mapstructure/v2"
)

// ParseDelay parses a duration given either as Go duration syntax ("5s",
// "1m30s") or as a bare number of seconds ("5", "0.5"). Negative values are
// rejected.
func ParseDelay(s string) (time.Duration, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, nil
	}
	if secs, err := strconv.ParseFloat(s, 64); err == nil {
		return secondsToDuration(secs)
	}
	d, err := time.ParseDuration(s)
	if err != nil {
		return 0, fmt.Errorf("invalid duration %q: use seconds (5, 0.5) or a Go duration (5s, 1m)", s)
	}
	if d < 0 {
		return 0, fmt.Errorf("duration must not be negative (got: %s)", s)
	}
	return d, nil
}

func secondsToDuration(secs float64) (time.Duration, error) {
	switch {
	case math.IsNaN(secs) || math.IsInf(secs, 0):
		return 0, fmt.Errorf("invalid duration %v", secs)
	case secs < 0:
		return 0, fmt.Errorf("duration must not be negative (got: %v)", secs)
	case secs > float64(math.MaxInt64)/float64(time.Second):
		return 0, fmt.Errorf("duration %v seconds is too large", secs)
	}
	return time.Duration(secs * float64(time.Second)), nil
}

var (
	durationType = reflect.TypeOf(time.Duration(0))
	commandType  = reflect.TypeOf(CommandLine(nil))
)

// durationHook decodes time.Duration fields from strings and bare numbers.
// YAML gives ints and floats, env vars and flags give strings.
func durationHook(_ reflect.Type, to reflect.Type, data any) (any, error) {
	if to != durationType {
		return data, nil
	}
	switch v := data.(type) {
	case string:
		return ParseDelay(v)
	case int:
		return secondsToDuration(float64(v))
	case int64:
		return secondsToDuration(float64(v))
	case uint64:
		return secondsToDuration(float64(v))
	case float64:
		return secondsToDuration(v)
	case time.Duration:
		if v < 0 {
			return nil, fmt.Errorf("duration must not be negative (got: %s)", v)
		}
		return v, nil
	}
	return data, nil
}

// commandHook decodes a single command string with shell quoting rules.
func commandHook(_ reflect.Type, to reflect.Type, data any) (any, error) {
	if to != commandType {
		return data, nil
	}
	if s, ok := data.(string); ok {
		return SplitCommand(s)
	}
	return data, nil
}

func decodeHook() mapstructure.DecodeHookFunc {
	return mapstructure.ComposeDecodeHookFunc(
		mapstructure.DecodeHookFuncType(durationHook),
		mapstructure.DecodeHookFuncType(commandHook),
	)
}
