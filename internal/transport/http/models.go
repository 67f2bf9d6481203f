package http

import (
	"time"

	"chairtime/backend/internal/domain"
)

type createAppointmentRequest struct {
	ClientID   string    `json:"client_id"`
	ProviderID string    `json:"provider_id"`
	StartTime  time.Time `json:"start_time"`
	EndTime    time.Time `json:"end_time"`
	ServiceIDs []string  `json:"service_ids"`
	Notes      string    `json:"notes,omitempty"`
}

type rescheduleRequest struct {
	StartTime  time.Time `json:"start_time"`
	EndTime    time.Time `json:"end_time"`
	ProviderID string    `json:"provider_id,omitempty"`
}

type transitionRequest struct {
	Status             string  `json:"status"`
	CancellationReason *string `json:"cancellation_reason,omitempty"`
}

type lineItemResponse struct {
	ServiceID       string  `json:"service_id"`
	ServiceName     string  `json:"service_name"`
	Price           float64 `json:"price"`
	DurationMinutes int     `json:"duration_minutes"`
}

type appointmentResponse struct {
	ID                 string             `json:"id"`
	ClientID           string             `json:"client_id"`
	ProviderID         string             `json:"provider_id"`
	StartTime          time.Time          `json:"start_time"`
	EndTime            time.Time          `json:"end_time"`
	Status             string             `json:"status"`
	Notes              string             `json:"notes,omitempty"`
	LineItems          []lineItemResponse `json:"line_items"`
	ActualStart        *time.Time         `json:"actual_start,omitempty"`
	ActualEnd          *time.Time         `json:"actual_end,omitempty"`
	CancellationReason *string            `json:"cancellation_reason,omitempty"`
	CancelledAt        *time.Time         `json:"cancelled_at,omitempty"`
	CreatedAt          time.Time          `json:"created_at"`
	UpdatedAt          time.Time          `json:"updated_at"`
}

type conflictDetail struct {
	AppointmentID string    `json:"appointment_id"`
	StartTime     time.Time `json:"start_time"`
	EndTime       time.Time `json:"end_time"`
}

type errorResponse struct {
	Error        string          `json:"error"`
	ConflictWith *conflictDetail `json:"conflict_with,omitempty"`
}

func toAppointmentResponse(a domain.Appointment) appointmentResponse {
	items := make([]lineItemResponse, 0, len(a.LineItems))
	for _, li := range a.LineItems {
		items = append(items, lineItemResponse{
			ServiceID:       li.ServiceID.String(),
			ServiceName:     li.ServiceName,
			Price:           li.Price,
			DurationMinutes: li.DurationMinutes,
		})
	}
	return appointmentResponse{
		ID:                 a.ID.String(),
		ClientID:           a.ClientID,
		ProviderID:         a.ProviderID,
		StartTime:          a.StartTime,
		EndTime:            a.EndTime,
		Status:             string(a.Status),
		Notes:              a.Notes,
		LineItems:          items,
		ActualStart:        a.ActualStart,
		ActualEnd:          a.ActualEnd,
		CancellationReason: a.CancellationReason,
		CancelledAt:        a.CancelledAt,
		CreatedAt:          a.CreatedAt,
		UpdatedAt:          a.UpdatedAt,
	}
}
