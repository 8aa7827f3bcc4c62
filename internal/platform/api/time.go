package api

import (
	"fmt"
	"strconv"
	"time"
)

// Time tolerates the service's naive timestamps (no zone offset) as well
// as RFC 3339. Naive values are taken as UTC. It marshals as RFC 3339.
type Time time.Time

func (t Time) Std() time.Time { return time.Time(t) }

func (t Time) MarshalJSON() ([]byte, error) {
	return []byte(strconv.Quote(time.Time(t).Format(time.RFC3339))), nil
}

func (t *Time) UnmarshalJSON(b []byte) error {
	s, err := strconv.Unquote(string(b))
	if err != nil {
		return fmt.Errorf("timestamp is not a string: %s", b)
	}
	for _, layout := range []string{time.RFC3339, "2006-01-02T15:04:05"} {
		if parsed, err := time.Parse(layout, s); err == nil {
			*t = Time(parsed)
			return nil
		}
	}
	return fmt.Errorf("unrecognized timestamp %q", s)
}
