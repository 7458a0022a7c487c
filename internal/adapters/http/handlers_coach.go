package web

import (
	"net/http"
	"strconv"

	"runtrack/internal/application/listutil"
	"runtrack/internal/application/orchestrators"
	"runtrack/internal/application/projections"
)

// setPageHeaders reports pagination metadata while keeping list bodies plain arrays.
func setPageHeaders(w http.ResponseWriter, info listutil.PageInfo) {
	h := w.Header()
	h.Set("X-Total-Count", strconv.Itoa(info.Total))
	h.Set("X-Page", strconv.Itoa(info.Page))
	h.Set("X-Per-Page", strconv.Itoa(info.PerPage))
	h.Set("X-Total-Pages", strconv.Itoa(info.TotalPages))
}

func (s *Server) coachViewDeps() projections.CoachViewDeps {
	return projections.CoachViewDeps{
		UserStore: s.stores.UserStore,
		LinkStore: s.stores.CoachLinkStore,
		NoteStore: s.stores.CoachNoteStore,
	}
}

// handleBindAthlete handles POST /coach/{coachId}/athletes
func (s *Server) handleBindAthlete(w http.ResponseWriter, r *http.Request) {
	var req struct {
		AthleteCode int `json:"athlete_code" validate:"gte=1,lte=10000"`
	}
	if !decodeBody(w, r, &req) {
		return
	}
	res, err := orchestrators.ExecuteBindAthlete(r.Context(), orchestrators.BindAthleteInput{
		CoachID:     r.PathValue("coachId"),
		AthleteCode: req.AthleteCode,
	}, s.coachDeps())
	if err != nil {
		writeError(w, err)
		return
	}
	status := http.StatusOK
	if res.Created {
		status = http.StatusCreated
	}
	writeJSON(w, status, bindResponse{Athlete: presentUser(res.Athlete), Created: res.Created})
}

// handleCoachAthletes handles GET /coach/{coachId}/athletes?page=&per_page=
func (s *Server) handleCoachAthletes(w http.ResponseWriter, r *http.Request) {
	athletes, err := projections.QueryCoachAthletes(r.Context(), r.PathValue("coachId"), s.coachViewDeps())
	if err != nil {
		writeError(w, err)
		return
	}
	page, info := listutil.Paginate(athletes, listutil.ParsePageParams(r.URL.Query()))
	setPageHeaders(w, info)
	writeJSON(w, http.StatusOK, presentUsers(page))
}

// handleCreateNote handles POST /coach/{coachId}/notes
func (s *Server) handleCreateNote(w http.ResponseWriter, r *http.Request) {
	var req struct {
		AthleteID string `json:"athlete_id" validate:"required"`
		Content   string `json:"content" validate:"required,max=4000"`
	}
	if !decodeBody(w, r, &req) {
		return
	}
	n, err := orchestrators.ExecuteCreateCoachNote(r.Context(), orchestrators.CreateCoachNoteInput{
		CoachID:   r.PathValue("coachId"),
		AthleteID: req.AthleteID,
		Content:   req.Content,
	}, s.coachDeps())
	if err != nil {
		writeError(w, err)
		return
	}
	out, err := presentNote(n)
	if err != nil {
		internalError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, out)
}

// handleAthleteNotes handles GET /athletes/{athleteId}/notes?page=&per_page=
func (s *Server) handleAthleteNotes(w http.ResponseWriter, r *http.Request) {
	notes, err := projections.QueryAthleteNotes(r.Context(), r.PathValue("athleteId"), s.coachViewDeps())
	if err != nil {
		writeError(w, err)
		return
	}
	page, info := listutil.Paginate(notes, listutil.ParsePageParams(r.URL.Query()))
	out := make([]noteResponse, 0, len(page))
	for _, n := range page {
		nr, err := presentNote(n)
		if err != nil {
			internalError(w, err)
			return
		}
		out = append(out, nr)
	}
	setPageHeaders(w, info)
	writeJSON(w, http.StatusOK, out)
}
