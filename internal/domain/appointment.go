package domain

import "time"

// AppointmentStatus represents the lifecycle status of an appointment
type AppointmentStatus string

const (
	StatusScheduled AppointmentStatus = "SCHEDULED"
	StatusCancelled AppointmentStatus = "CANCELLED"
	StatusNoShow    AppointmentStatus = "NO_SHOW"
	StatusCompleted AppointmentStatus = "COMPLETED"
)

// Appointment represents a medical appointment in the system
type Appointment struct {
	ID         int64
	PatientID  int64
	DoctorID   int64
	Department string // Департамент фиксируется на момент создания записи
	Slot       Slot

	Status          AppointmentStatus
	RescheduleCount int // Количество успешных переносов, максимум MaxReschedules

	CancelledAt *time.Time

	CreatedAt time.Time
	UpdatedAt time.Time
}

// IsScheduled returns true if the appointment is still active (not in a terminal state)
func (a *Appointment) IsScheduled() bool {
	return a.Status == StatusScheduled
}

// IsTerminal returns true if the appointment reached a terminal state
func (a *Appointment) IsTerminal() bool {
	for _, s := range TerminalStatuses {
		if a.Status == s {
			return true
		}
	}
	return false
}

// CanTransitionTo returns true if the lifecycle graph permits the transition.
// SCHEDULED is the only non-terminal state; terminal states have no outgoing transitions.
func (a *Appointment) CanTransitionTo(target AppointmentStatus) bool {
	if !a.IsScheduled() {
		return false
	}
	switch target {
	case StatusCancelled, StatusNoShow, StatusCompleted:
		return true
	default:
		return false
	}
}
