package http

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/mux"

	"chairtime/backend/internal/domain"
	"chairtime/backend/internal/metrics"
	"chairtime/backend/internal/service/scheduling"
	"chairtime/backend/internal/store"
)

type AppointmentsServer struct {
	svc schedulingService
	log *slog.Logger
}

type schedulingService interface {
	Create(ctx context.Context, in scheduling.CreateInput) (domain.Appointment, error)
	Get(ctx context.Context, id uuid.UUID) (domain.Appointment, error)
	Reschedule(ctx context.Context, in scheduling.RescheduleInput) (domain.Appointment, error)
	Transition(ctx context.Context, in scheduling.TransitionInput) (domain.Appointment, error)
}

func NewAppointmentsServer(svc schedulingService, log *slog.Logger) *AppointmentsServer {
	if log == nil {
		log = slog.Default()
	}
	return &AppointmentsServer{
		svc: svc,
		log: log.With(slog.String("component", "http.appointments")),
	}
}

func (s *AppointmentsServer) Routes(r *mux.Router) {
	r.Use(observeMiddleware)

	r.HandleFunc("/api/v1/appointments", s.handleCreate).Methods(http.MethodPost)
	r.HandleFunc("/api/v1/appointments/{id}", s.handleGet).Methods(http.MethodGet)
	r.HandleFunc("/api/v1/appointments/{id}/schedule", s.handleReschedule).Methods(http.MethodPatch)
	r.HandleFunc("/api/v1/appointments/{id}/status", s.handleTransition).Methods(http.MethodPost)
}

func (s *AppointmentsServer) handleCreate(w http.ResponseWriter, r *http.Request) {
	log := s.log.With(slog.String("handler", "CreateAppointment"))

	var req createAppointmentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Warn("invalid request", slog.String("reason", "bad_json"), slog.Any("err", err))
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	serviceIDs := make([]uuid.UUID, 0, len(req.ServiceIDs))
	for _, raw := range req.ServiceIDs {
		id, err := uuid.Parse(raw)
		if err != nil {
			log.Warn("invalid request", slog.String("reason", "invalid_service_id"), slog.String("service_id", raw))
			respondError(w, http.StatusBadRequest, "service_ids must be UUIDs")
			return
		}
		serviceIDs = append(serviceIDs, id)
	}

	appt, err := s.svc.Create(r.Context(), scheduling.CreateInput{
		ClientID:   req.ClientID,
		ProviderID: req.ProviderID,
		StartTime:  req.StartTime,
		EndTime:    req.EndTime,
		ServiceIDs: serviceIDs,
		Notes:      req.Notes,
	})
	if err != nil {
		s.respondServiceError(w, log, err, slog.String("provider_id", req.ProviderID))
		return
	}

	log.Info(
		"appointment created",
		slog.String("appointment_id", appt.ID.String()),
		slog.String("provider_id", appt.ProviderID),
		slog.Time("start_time", appt.StartTime),
		slog.Time("end_time", appt.EndTime),
	)
	respondJSON(w, http.StatusCreated, toAppointmentResponse(appt))
}

func (s *AppointmentsServer) handleGet(w http.ResponseWriter, r *http.Request) {
	log := s.log.With(slog.String("handler", "GetAppointment"))

	id, ok := pathID(w, r, log)
	if !ok {
		return
	}

	appt, err := s.svc.Get(r.Context(), id)
	if err != nil {
		s.respondServiceError(w, log, err, slog.String("appointment_id", id.String()))
		return
	}

	respondJSON(w, http.StatusOK, toAppointmentResponse(appt))
}

func (s *AppointmentsServer) handleReschedule(w http.ResponseWriter, r *http.Request) {
	log := s.log.With(slog.String("handler", "RescheduleAppointment"))

	id, ok := pathID(w, r, log)
	if !ok {
		return
	}

	var req rescheduleRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Warn("invalid request", slog.String("reason", "bad_json"), slog.Any("err", err))
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	appt, err := s.svc.Reschedule(r.Context(), scheduling.RescheduleInput{
		AppointmentID: id,
		StartTime:     req.StartTime,
		EndTime:       req.EndTime,
		NewProviderID: req.ProviderID,
	})
	if err != nil {
		s.respondServiceError(w, log, err, slog.String("appointment_id", id.String()))
		return
	}

	log.Info(
		"appointment rescheduled",
		slog.String("appointment_id", appt.ID.String()),
		slog.String("provider_id", appt.ProviderID),
		slog.Time("start_time", appt.StartTime),
		slog.Time("end_time", appt.EndTime),
	)
	respondJSON(w, http.StatusOK, toAppointmentResponse(appt))
}

func (s *AppointmentsServer) handleTransition(w http.ResponseWriter, r *http.Request) {
	log := s.log.With(slog.String("handler", "TransitionAppointment"))

	id, ok := pathID(w, r, log)
	if !ok {
		return
	}

	var req transitionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Warn("invalid request", slog.String("reason", "bad_json"), slog.Any("err", err))
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	appt, err := s.svc.Transition(r.Context(), scheduling.TransitionInput{
		AppointmentID: id,
		Target:        domain.AppointmentStatus(req.Status),
		Reason:        req.CancellationReason,
	})
	if err != nil {
		s.respondServiceError(w, log, err,
			slog.String("appointment_id", id.String()),
			slog.String("target_status", req.Status),
		)
		return
	}

	log.Info(
		"appointment status changed",
		slog.String("appointment_id", appt.ID.String()),
		slog.String("status", string(appt.Status)),
	)
	respondJSON(w, http.StatusOK, toAppointmentResponse(appt))
}

func (s *AppointmentsServer) respondServiceError(w http.ResponseWriter, log *slog.Logger, err error, args ...any) {
	var conflictErr *scheduling.ConflictError
	if errors.As(err, &conflictErr) {
		metrics.IncBookingConflict()
		log.Info("slot conflict", append([]any{slog.String("blocking_id", conflictErr.AppointmentID.String())}, args...)...)
		respondJSON(w, http.StatusConflict, errorResponse{
			Error: conflictErr.Error(),
			ConflictWith: &conflictDetail{
				AppointmentID: conflictErr.AppointmentID.String(),
				StartTime:     conflictErr.Interval.Start,
				EndTime:       conflictErr.Interval.End,
			},
		})
		return
	}

	var notEditableErr *scheduling.NotEditableError
	if errors.As(err, &notEditableErr) {
		log.Info("appointment not editable", append([]any{slog.String("status", string(notEditableErr.Status))}, args...)...)
		respondError(w, http.StatusConflict, notEditableErr.Error())
		return
	}

	var transitionErr *scheduling.InvalidTransitionError
	if errors.As(err, &transitionErr) {
		log.Info("invalid status transition", append([]any{slog.Any("err", err)}, args...)...)
		respondError(w, http.StatusConflict, transitionErr.Error())
		return
	}

	var unknownSvcErr *scheduling.UnknownServiceError
	if errors.As(err, &unknownSvcErr) {
		log.Warn("unknown service requested", append([]any{slog.String("service_id", unknownSvcErr.ServiceID.String())}, args...)...)
		respondError(w, http.StatusUnprocessableEntity, unknownSvcErr.Error())
		return
	}

	var vErr *scheduling.ValidationError
	if errors.As(err, &vErr) || errors.Is(err, scheduling.ErrInvalidInterval) {
		log.Warn("invalid request", append([]any{slog.Any("err", err)}, args...)...)
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	if errors.Is(err, store.ErrNotFound) {
		log.Info("appointment not found", args...)
		respondError(w, http.StatusNotFound, "appointment not found")
		return
	}

	// The database exclusion constraint backs the in-lock check; tripping it
	// still has to read as a conflict to the caller.
	if errors.Is(err, store.ErrConflict) {
		metrics.IncBookingConflict()
		log.Info("slot conflict", args...)
		respondError(w, http.StatusConflict, "that slot is already booked")
		return
	}

	log.Error("request failed", append([]any{slog.Any("err", err)}, args...)...)
	respondError(w, http.StatusInternalServerError, "internal error")
}

func pathID(w http.ResponseWriter, r *http.Request, log *slog.Logger) (uuid.UUID, bool) {
	id, err := uuid.Parse(mux.Vars(r)["id"])
	if err != nil {
		log.Warn("invalid request", slog.String("reason", "invalid_uuid"))
		respondError(w, http.StatusBadRequest, "appointment id must be a UUID")
		return uuid.Nil, false
	}
	return id, true
}

func respondJSON(w http.ResponseWriter, code int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(body)
}

func respondError(w http.ResponseWriter, code int, msg string) {
	respondJSON(w, code, errorResponse{Error: msg})
}

type statusRecorder struct {
	http.ResponseWriter
	code int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.code = code
	r.ResponseWriter.WriteHeader(code)
}

func observeMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, code: http.StatusOK}

		next.ServeHTTP(rec, r)

		route := r.URL.Path
		if cur := mux.CurrentRoute(r); cur != nil {
			if tpl, err := cur.GetPathTemplate(); err == nil {
				route = tpl
			}
		}
		metrics.ObserveHTTP(route, rec.code, time.Since(start))
	})
}
