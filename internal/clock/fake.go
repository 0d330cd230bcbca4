package clock

import "time"

// FakeClock pins Now to a fixed instant so tests control which working day
// the services see.
type FakeClock struct {
	now time.Time
}

func NewFakeClock(t time.Time) *FakeClock {
	return &FakeClock{now: t.UTC()}
}

// NewFakeClockAt builds a fake clock parked at noon of the given date key,
// handy for tests that reason in "DD/MM/YYYY" terms.
func NewFakeClockAt(dateKey string) (*FakeClock, error) {
	t, err := ParseDateKey(dateKey)
	if err != nil {
		return nil, err
	}
	return NewFakeClock(t.Add(12 * time.Hour)), nil
}

func (c *FakeClock) Now() time.Time {
	return c.now
}

func (c *FakeClock) Set(t time.Time) {
	c.now = t.UTC()
}

func (c *FakeClock) Advance(d time.Duration) {
	c.now = c.now.Add(d)
}
