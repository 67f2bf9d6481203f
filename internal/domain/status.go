package domain

type AppointmentStatus string

const (
	StatusScheduled  AppointmentStatus = "scheduled"
	StatusConfirmed  AppointmentStatus = "confirmed"
	StatusInProgress AppointmentStatus = "in_progress"
	StatusCompleted  AppointmentStatus = "completed"
	StatusCancelled  AppointmentStatus = "cancelled"
	StatusNoShow     AppointmentStatus = "no_show"
)

func ParseAppointmentStatus(s string) (AppointmentStatus, bool) {
	switch AppointmentStatus(s) {
	case StatusScheduled, StatusConfirmed, StatusInProgress, StatusCompleted, StatusCancelled, StatusNoShow:
		return AppointmentStatus(s), true
	}
	return "", false
}

type statusTransition struct {
	From AppointmentStatus
	To   AppointmentStatus
}

// legalTransitions is the closed set of permitted status changes. Terminal
// states (completed, cancelled, no_show) appear in no From position.
var legalTransitions = map[statusTransition]struct{}{
	{StatusScheduled, StatusConfirmed}:  {},
	{StatusScheduled, StatusInProgress}: {},
	{StatusConfirmed, StatusInProgress}: {},
	{StatusScheduled, StatusCompleted}:  {},
	{StatusConfirmed, StatusCompleted}:  {},
	{StatusInProgress, StatusCompleted}: {},
	{StatusScheduled, StatusCancelled}:  {},
	{StatusConfirmed, StatusCancelled}:  {},
	{StatusInProgress, StatusCancelled}: {},
	{StatusScheduled, StatusNoShow}:     {},
	{StatusConfirmed, StatusNoShow}:     {},
}

func CanTransition(from, to AppointmentStatus) bool {
	_, ok := legalTransitions[statusTransition{From: from, To: to}]
	return ok
}

func (s AppointmentStatus) IsTerminal() bool {
	return s == StatusCompleted || s == StatusCancelled || s == StatusNoShow
}

// IsActive reports whether an appointment in this status still occupies its
// slot on the provider's schedule. Cancelled and no-show appointments keep
// their stored interval for reporting but free the slot.
func (s AppointmentStatus) IsActive() bool {
	return s != StatusCancelled && s != StatusNoShow
}

func (s AppointmentStatus) IsEditable() bool {
	return s == StatusScheduled || s == StatusConfirmed || s == StatusInProgress
}
