package routes

import (
	"net/http"

	"github.com/gorilla/mux"

	"github.com/bin-ym/sunday-school-backend/internal/handlers"
)

func SetupRouter(attendanceHandler *handlers.AttendanceHandler, calendarHandler *handlers.CalendarHandler) *mux.Router {
	router := mux.NewRouter()

	// Health check endpoint
	router.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("Server is healthy"))
	}).Methods("GET")

	router.HandleFunc("/api/attendance", attendanceHandler.SubmitAttendance).Methods("POST")
	router.HandleFunc("/api/attendance", attendanceHandler.GetAttendance).Methods("GET")
	router.HandleFunc("/api/attendance/aggregate", attendanceHandler.RunAggregation).Methods("POST")

	router.HandleFunc("/api/calendar/today", calendarHandler.GetToday).Methods("GET")
	router.HandleFunc("/api/calendar/sundays", calendarHandler.GetSundays).Methods("GET")

	return router
}
