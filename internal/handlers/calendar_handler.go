package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/bin-ym/sunday-school-backend/internal/ethiopic"
)

// CalendarHandler serves the Ethiopian calendar queries the UI needs to
// label dates and list the Sundays of a school year.
type CalendarHandler struct{}

func NewCalendarHandler() *CalendarHandler {
	return &CalendarHandler{}
}

// GetToday returns the current Ethiopian date.
func (h *CalendarHandler) GetToday(w http.ResponseWriter, r *http.Request) {
	formatted, err := ethiopic.Format(time.Now())
	if err != nil {
		http.Error(w, "Failed to format date", http.StatusInternalServerError)
		return
	}
	d := ethiopic.ToEthiopian(time.Now())

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]interface{}{
		"date":  formatted,
		"year":  d.Year,
		"month": d.Month,
		"day":   d.Day,
	})
}

// GetSundays lists every Sunday of an Ethiopian year, formatted.
func (h *CalendarHandler) GetSundays(w http.ResponseWriter, r *http.Request) {
	year, err := strconv.Atoi(r.URL.Query().Get("year"))
	if err != nil || year < 1 {
		http.Error(w, "A positive year is required", http.StatusBadRequest)
		return
	}

	sundays := ethiopic.SundaysInYear(year)

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]interface{}{
		"year":    year,
		"count":   len(sundays),
		"sundays": sundays,
	})
}
