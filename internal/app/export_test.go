package app

import "time"

// SetClock replaces the time source and the run ID generator. Exported for testing only.
func (a *App) SetClock(now func() time.Time, newID func() string) {
	a.now = now
	a.newID = newID
}
