// internal/conn/clock.go
package conn

import "time"

// Clock abstracts time so the wait state machines can be scripted in
// tests. The supervisor never calls time.Now directly.
type Clock interface {
	Now() time.Time
	Sleep(d time.Duration)
}

type wallClock struct{}

func (wallClock) Now() time.Time        { return time.Now() }
func (wallClock) Sleep(d time.Duration) { time.Sleep(d) }

// SystemClock is the wall clock.
var SystemClock Clock = wallClock{}
