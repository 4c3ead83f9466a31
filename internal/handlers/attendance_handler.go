package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/bin-ym/sunday-school-backend/internal/attendance"
	"github.com/bin-ym/sunday-school-backend/internal/ethiopic"
	"github.com/bin-ym/sunday-school-backend/internal/models"
)

type AttendanceHandler struct {
	store      attendance.Store
	buffer     *attendance.Buffer
	aggregator *attendance.Aggregator
	scheduler  *attendance.Scheduler
	validate   *validator.Validate
}

func NewAttendanceHandler(store attendance.Store, buffer *attendance.Buffer, aggregator *attendance.Aggregator, scheduler *attendance.Scheduler) *AttendanceHandler {
	return &AttendanceHandler{
		store:      store,
		buffer:     buffer,
		aggregator: aggregator,
		scheduler:  scheduler,
		validate:   validator.New(),
	}
}

type attendanceEntry struct {
	StudentID     string    `json:"student_id" validate:"required"`
	Present       bool      `json:"present"`
	HasPermission bool      `json:"has_permission"`
	Reason        string    `json:"reason"`
	MarkedBy      string    `json:"marked_by" validate:"required"`
	Timestamp     time.Time `json:"timestamp"`
}

type submitAttendanceRequest struct {
	Date       string            `json:"date" validate:"required"`
	Attendance []attendanceEntry `json:"attendance" validate:"required,min=1,dive"`
}

type submitAttendanceResponse struct {
	Success       bool   `json:"success"`
	Message       string `json:"message"`
	InsertedCount int    `json:"inserted_count"`
}

// SubmitAttendance buffers one facilitator's marking pass and, on the first
// submission for the date, arms the deferred aggregation.
func (h *AttendanceHandler) SubmitAttendance(w http.ResponseWriter, r *http.Request) {
	var req submitAttendanceRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request payload", http.StatusBadRequest)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		http.Error(w, "student_id and marked_by are required for every entry", http.StatusBadRequest)
		return
	}

	date, err := canonicalDate(req.Date)
	if err != nil {
		http.Error(w, "Invalid date: "+err.Error(), http.StatusBadRequest)
		return
	}

	entries := make([]models.AttendanceSubmission, len(req.Attendance))
	for i, e := range req.Attendance {
		entries[i] = models.AttendanceSubmission{
			StudentID:     e.StudentID,
			Present:       e.Present,
			HasPermission: e.HasPermission,
			Reason:        e.Reason,
			MarkedBy:      e.MarkedBy,
			Timestamp:     e.Timestamp,
		}
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	count, first, err := h.buffer.Submit(ctx, date, entries)
	if err != nil {
		log.Printf("Failed to buffer attendance for %s: %v", date, err)
		http.Error(w, "Failed to save attendance", http.StatusInternalServerError)
		return
	}
	if first && h.scheduler.Schedule(date) {
		log.Printf("Aggregation scheduled for %s", date)
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusAccepted)
	json.NewEncoder(w).Encode(submitAttendanceResponse{
		Success:       true,
		Message:       "Attendance buffered for aggregation",
		InsertedCount: count,
	})
}

// GetAttendance returns the permanent records for a date.
func (h *AttendanceHandler) GetAttendance(w http.ResponseWriter, r *http.Request) {
	date, err := canonicalDate(r.URL.Query().Get("date"))
	if err != nil {
		http.Error(w, "Invalid date: "+err.Error(), http.StatusBadRequest)
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	records, err := h.store.RecordsByDate(ctx, date)
	if err != nil {
		http.Error(w, "Failed to fetch attendance", http.StatusInternalServerError)
		return
	}
	if records == nil {
		records = []models.AttendanceRecord{}
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(records)
}

// RunAggregation triggers an immediate pass for a date. Safe to call at any
// time: the pass is idempotent and serialized per date.
func (h *AttendanceHandler) RunAggregation(w http.ResponseWriter, r *http.Request) {
	date, err := canonicalDate(r.URL.Query().Get("date"))
	if err != nil {
		http.Error(w, "Invalid date: "+err.Error(), http.StatusBadRequest)
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	res, err := h.aggregator.Run(ctx, date)
	if err != nil {
		log.Printf("Manual aggregation for %s failed: %v", date, err)
		http.Error(w, "Aggregation failed", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(res)
}

// canonicalDate validates a formatted Ethiopian date and normalizes its
// spelling so that every store filter uses the same partition key.
func canonicalDate(s string) (string, error) {
	if s == "" {
		return "", errors.New("date is required")
	}
	d, err := ethiopic.Parse(s)
	if err != nil {
		return "", err
	}
	return ethiopic.FormatDate(d)
}
