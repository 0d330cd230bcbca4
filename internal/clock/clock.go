package clock

import (
	"time"

	"go.uber.org/fx"
)

// Module provides the system clock.
var Module = fx.Provide(New)

// Clock abstracts time so the working-day lifecycle can be tested with a
// pinned calendar date.
type Clock interface {
	Now() time.Time
}

type systemClock struct{}

func New() Clock {
	return systemClock{}
}

func (systemClock) Now() time.Time {
	return time.Now().UTC()
}

// dateKeyLayout matches the original operator-facing date representation.
// Date keys are opaque strings compared only for exact equality.
const dateKeyLayout = "02/01/2006"

// DateKey formats t as the working-day key.
func DateKey(t time.Time) string {
	return t.Format(dateKeyLayout)
}

// ParseDateKey validates a working-day key and returns its calendar date.
func ParseDateKey(key string) (time.Time, error) {
	return time.Parse(dateKeyLayout, key)
}
