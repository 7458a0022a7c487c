package web

import (
	"net/http"

	"runtrack/internal/application/orchestrators"
	"runtrack/internal/application/projections"
)

// handleMonthCalendar handles GET /calendar/{userId}?year=&month=&tz=
func (s *Server) handleMonthCalendar(w http.ResponseWriter, r *http.Request) {
	year, month, ok := s.yearMonth(w, r)
	if !ok {
		return
	}
	res, err := projections.QueryGetMonthCalendar(r.Context(), projections.GetMonthCalendarQuery{
		UserID:   r.PathValue("userId"),
		Year:     year,
		Month:    month,
		TimeZone: r.URL.Query().Get("tz"),
		Now:      timeNow(),
	}, projections.GetMonthCalendarDeps{
		UserStore:     s.stores.UserStore,
		CalendarStore: s.stores.CalendarStore,
		DefaultZone:   s.opts.DefaultZone,
	})
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, presentMonth(res))
}

// handleDayEntries handles GET /calendar/{userId}/day?date=
func (s *Server) handleDayEntries(w http.ResponseWriter, r *http.Request) {
	date := r.URL.Query().Get("date")
	if date == "" {
		badRequest(w, "date is required")
		return
	}
	entries, err := projections.QueryGetDayEntries(r.Context(), r.PathValue("userId"), date, projections.GetDayEntriesDeps{
		UserStore:     s.stores.UserStore,
		CalendarStore: s.stores.CalendarStore,
	})
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, presentEntries(entries))
}

// handleCreateDayEntry handles POST /calendar/{userId}/entries
func (s *Server) handleCreateDayEntry(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Date            string  `json:"date" validate:"required"`
		StartTime       string  `json:"start_time" validate:"required"`
		DurationMinutes int     `json:"duration_minutes" validate:"gt=0,lte=1440"`
		Distance        float64 `json:"distance" validate:"gte=0"`
		Activity        string  `json:"activity" validate:"max=200"`
		Description     string  `json:"description" validate:"max=2000"`
	}
	if !decodeBody(w, r, &req) {
		return
	}
	e, err := orchestrators.ExecuteCreateDayEntry(r.Context(), orchestrators.CreateDayEntryInput{
		UserID:          r.PathValue("userId"),
		Date:            req.Date,
		StartTime:       req.StartTime,
		DurationMinutes: req.DurationMinutes,
		Distance:        req.Distance,
		Activity:        req.Activity,
		Description:     req.Description,
	}, s.dayEntryDeps())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, presentEntry(e))
}

// handleDeleteDayEntry handles DELETE /calendar/{userId}/entries/{entryId}
func (s *Server) handleDeleteDayEntry(w http.ResponseWriter, r *http.Request) {
	if err := orchestrators.ExecuteDeleteDayEntry(r.Context(), r.PathValue("userId"), r.PathValue("entryId"), s.dayEntryDeps()); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
