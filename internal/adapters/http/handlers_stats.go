package web

import (
	"net/http"
	"time"

	"runtrack/internal/application/projections"
)

// handleDashboard handles GET /dashboard/{userId}?days=&weeks=&tz=
func (s *Server) handleDashboard(w http.ResponseWriter, r *http.Request) {
	days, err := intQuery(r, "days")
	if err != nil {
		writeError(w, err)
		return
	}
	weeks, err := intQuery(r, "weeks")
	if err != nil {
		writeError(w, err)
		return
	}
	res, err := projections.QueryGetDashboard(r.Context(), projections.GetDashboardQuery{
		UserID:   r.PathValue("userId"),
		Days:     days,
		Weeks:    weeks,
		TimeZone: r.URL.Query().Get("tz"),
		Now:      timeNow(),
	}, projections.GetDashboardDeps{UserStore: s.stores.UserStore, SessionStore: s.stores.SessionStore})
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, presentDashboard(res))
}

// handleTodayRecord handles GET /records/{userId}/today?tz=
func (s *Server) handleTodayRecord(w http.ResponseWriter, r *http.Request) {
	res, err := projections.QueryGetTodayRecord(r.Context(), projections.GetTodayRecordQuery{
		UserID:   r.PathValue("userId"),
		TimeZone: r.URL.Query().Get("tz"),
		Now:      timeNow(),
	}, projections.GetTodayRecordDeps{
		UserStore:     s.stores.UserStore,
		SettingsStore: s.stores.SettingsStore,
		SessionStore:  s.stores.SessionStore,
		CalendarStore: s.stores.CalendarStore,
		DefaultZone:   s.opts.DefaultZone,
		DefaultRate:   s.opts.DefaultRate,
	})
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, presentToday(res))
}

func (s *Server) recordDeps() projections.GetRecordListDeps {
	return projections.GetRecordListDeps{UserStore: s.stores.UserStore, SessionStore: s.stores.SessionStore, DefaultZone: s.opts.DefaultZone}
}

// handleRecordList handles GET /records/{userId}?start=&end=&tz=
// A missing end means the start date alone.
func (s *Server) handleRecordList(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	start, end := q.Get("start"), q.Get("end")
	if start == "" {
		badRequest(w, "start is required")
		return
	}
	if end == "" {
		end = start
	}
	res, err := projections.QueryGetRecordList(r.Context(), projections.GetRecordListQuery{
		UserID: r.PathValue("userId"), StartDate: start, EndDate: end, TimeZone: q.Get("tz"),
	}, s.recordDeps())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, recordListResponse{
		StartDate: res.StartDate, EndDate: res.EndDate, TimeZone: res.TimeZone,
		Sessions: presentSessions(res.Sessions), Totals: presentTotals(res.Totals),
	})
}

// handleRecordCalendar handles GET /records/{userId}/calendar?year=&month=&tz=
func (s *Server) handleRecordCalendar(w http.ResponseWriter, r *http.Request) {
	year, month, ok := s.yearMonth(w, r)
	if !ok {
		return
	}
	res, err := projections.QueryGetRecordCalendar(r.Context(), projections.GetRecordCalendarQuery{
		UserID: r.PathValue("userId"), Year: year, Month: month, TimeZone: r.URL.Query().Get("tz"),
	}, s.recordDeps())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, recordCalendarResponse{Year: res.Year, Month: res.Month, TimeZone: res.TimeZone, Days: presentDays(res.Days)})
}

// yearMonth reads ?year=&month=. Either one left out defaults to the
// current month in the server's default zone.
func (s *Server) yearMonth(w http.ResponseWriter, r *http.Request) (int, int, bool) {
	year, err := intQuery(r, "year")
	if err != nil {
		writeError(w, err)
		return 0, 0, false
	}
	month, err := intQuery(r, "month")
	if err != nil {
		writeError(w, err)
		return 0, 0, false
	}
	now := timeNow().In(s.opts.DefaultZone)
	if year == 0 {
		year = now.Year()
	}
	if month == 0 {
		month = int(now.Month())
	}
	return year, month, true
}

// handlePerf handles GET /debug/perf?minutes=
func (s *Server) handlePerf(w http.ResponseWriter, r *http.Request) {
	if s.collector == nil {
		writeJSON(w, http.StatusOK, struct{}{})
		return
	}
	minutes, err := intQuery(r, "minutes")
	if err != nil {
		writeError(w, err)
		return
	}
	if minutes <= 0 {
		minutes = 15
	}
	writeJSON(w, http.StatusOK, s.collector.Snapshot(timeNow().Add(-time.Duration(minutes)*time.Minute), 20))
}
