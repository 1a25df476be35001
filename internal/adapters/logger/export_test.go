package logger

import "time"

// SetClock replaces the clock used to name log files.
func SetClock(l *Logger, now func() time.Time) {
	l.now = now
}
