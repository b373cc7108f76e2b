package main

import (
	"fmt"
	"strings"
	"time"

	"github.com/glennajones/gummy-bear/pkg/constants"
)

// parseDateUTC parses an optional YYYY-MM-DD flag value; empty yields zero.
func parseDateUTC(v string) (time.Time, error) {
	v = strings.TrimSpace(v)
	if v == "" {
		return time.Time{}, nil
	}
	t, err := time.ParseInLocation(constants.DateLayout, v, time.UTC)
	if err != nil {
		return time.Time{}, withCode(exitUsage, fmt.Errorf("invalid date %q: expected YYYY-MM-DD", v))
	}
	return t, nil
}
