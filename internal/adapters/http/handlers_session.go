package web

import (
	"net/http"
	"time"

	"runtrack/internal/application/orchestrators"
	"runtrack/internal/application/projections"
)

// handleStartSession handles POST /session/start
func (s *Server) handleStartSession(w http.ResponseWriter, r *http.Request) {
	var req struct {
		UserID string `json:"user_id" validate:"required"`
		Note   string `json:"note" validate:"max=500"`
	}
	if !decodeBody(w, r, &req) {
		return
	}
	sess, err := orchestrators.ExecuteStartSession(r.Context(), orchestrators.StartSessionInput{UserID: req.UserID, Note: req.Note}, s.sessionDeps())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, presentSession(sess))
}

// handleRecordMeasurement handles POST /session/measurement
func (s *Server) handleRecordMeasurement(w http.ResponseWriter, r *http.Request) {
	var req struct {
		UserID          string     `json:"user_id" validate:"required"`
		Distance        float64    `json:"distance" validate:"gt=0"`
		DurationSeconds int        `json:"duration_seconds" validate:"gt=0"`
		StartTime       *time.Time `json:"start_time"`
		EndTime         *time.Time `json:"end_time"`
	}
	if !decodeBody(w, r, &req) {
		return
	}
	input := orchestrators.RecordMeasurementInput{UserID: req.UserID, Distance: req.Distance, DurationSeconds: req.DurationSeconds}
	if req.StartTime != nil {
		input.StartedAt = req.StartTime.UTC()
	}
	if req.EndTime != nil {
		input.EndedAt = req.EndTime.UTC()
	}
	sess, err := orchestrators.ExecuteRecordMeasurement(r.Context(), input, s.sessionDeps())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, presentSession(sess))
}

// handleStopSession handles POST /session/stop
func (s *Server) handleStopSession(w http.ResponseWriter, r *http.Request) {
	var req struct {
		UserID         string   `json:"user_id" validate:"required"`
		TotalDistance  *float64 `json:"total_distance" validate:"omitempty,gte=0"`
		ElapsedSeconds *int     `json:"elapsed_seconds" validate:"omitempty,gte=0"`
	}
	if !decodeBody(w, r, &req) {
		return
	}
	sess, err := orchestrators.ExecuteFinishSession(r.Context(), orchestrators.FinishSessionInput{
		UserID:         req.UserID,
		FinalDistance:  req.TotalDistance,
		ElapsedSeconds: req.ElapsedSeconds,
	}, s.sessionDeps())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, presentSession(sess))
}

// handleProbe handles POST /session/pause and POST /session/resume. Neither
// changes the session; the pause flag is echoed for the client to track.
func (s *Server) handleProbe(paused bool) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			UserID string `json:"user_id" validate:"required"`
		}
		if !decodeBody(w, r, &req) {
			return
		}
		res, err := orchestrators.ExecuteProbeActive(r.Context(), req.UserID, paused, s.sessionDeps())
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, presentProbe(res))
	}
}

// handleImportSession handles POST /session/import
func (s *Server) handleImportSession(w http.ResponseWriter, r *http.Request) {
	var req struct {
		UserID          string    `json:"user_id" validate:"required"`
		StartedAt       time.Time `json:"started_at" validate:"required"`
		DurationSeconds int       `json:"duration_seconds" validate:"gt=0"`
		Distance        float64   `json:"distance" validate:"gt=0"`
		Energy          *float64  `json:"energy" validate:"omitempty,gte=0"`
	}
	if !decodeBody(w, r, &req) {
		return
	}
	sess, err := orchestrators.ExecuteImportSession(r.Context(), orchestrators.ImportSessionInput{
		UserID:          req.UserID,
		StartedAt:       req.StartedAt,
		DurationSeconds: req.DurationSeconds,
		Distance:        req.Distance,
		Energy:          req.Energy,
	}, s.sessionDeps())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, presentSession(sess))
}

// handleHistory handles GET /users/{userId}/history?limit=
func (s *Server) handleHistory(w http.ResponseWriter, r *http.Request) {
	limit, err := intQuery(r, "limit")
	if err != nil {
		writeError(w, err)
		return
	}
	res, err := projections.QueryGetSessionHistory(r.Context(), projections.GetSessionHistoryQuery{
		UserID: r.PathValue("userId"),
		Limit:  limit,
	}, projections.GetSessionHistoryDeps{UserStore: s.stores.UserStore, SessionStore: s.stores.SessionStore})
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, presentHistory(res))
}
