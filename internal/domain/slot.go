package domain

import (
	"errors"
	"time"
)

var (
	// ErrInvalidSlot возвращается при некорректном временном интервале
	ErrInvalidSlot = errors.New("domain: slot start must be before slot end")
)

// Slot represents the half-open time interval [Start, End) an appointment occupies
type Slot struct {
	Start time.Time
	End   time.Time
}

// Validate checks that the interval is well-formed (non-zero, start < end)
func (s Slot) Validate() error {
	if s.Start.IsZero() || s.End.IsZero() {
		return ErrInvalidSlot
	}
	if !s.Start.Before(s.End) {
		return ErrInvalidSlot
	}
	return nil
}

// Overlaps returns true if two half-open intervals intersect.
// Граничные случаи (конец одного == начало другого) пересечением не считаются.
func (s Slot) Overlaps(other Slot) bool {
	return s.Start.Before(other.End) && other.Start.Before(s.End)
}

// Duration returns the length of the slot
func (s Slot) Duration() time.Duration {
	return s.End.Sub(s.Start)
}
