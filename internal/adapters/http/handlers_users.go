package web

import (
	"net/http"

	"runtrack/internal/application/orchestrators"
)

type userRequest struct {
	Name string `json:"name" validate:"required,max=100"`
	Role string `json:"role" validate:"omitempty,oneof=athlete coach"`
}

// handleResolveUser handles POST /users/resolve
func (s *Server) handleResolveUser(w http.ResponseWriter, r *http.Request) {
	var req userRequest
	if !decodeBody(w, r, &req) {
		return
	}
	u, err := orchestrators.ExecuteResolveUser(r.Context(), orchestrators.RegisterUserInput{Name: req.Name, Role: req.Role}, s.userDeps())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, presentUser(u))
}

// handleRegisterUser handles POST /users
func (s *Server) handleRegisterUser(w http.ResponseWriter, r *http.Request) {
	var req userRequest
	if !decodeBody(w, r, &req) {
		return
	}
	u, err := orchestrators.ExecuteRegisterUser(r.Context(), orchestrators.RegisterUserInput{Name: req.Name, Role: req.Role}, s.userDeps())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, presentUser(u))
}

// handleGetUser handles GET /users/{userId}
func (s *Server) handleGetUser(w http.ResponseWriter, r *http.Request) {
	u, err := orchestrators.ExecuteGetUser(r.Context(), r.PathValue("userId"), s.stores.UserStore)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, presentUser(u))
}

// handleGetSettings handles GET /users/{userId}/settings
func (s *Server) handleGetSettings(w http.ResponseWriter, r *http.Request) {
	st, err := orchestrators.ExecuteGetSettings(r.Context(), r.PathValue("userId"), s.settingsDeps())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, presentSettings(st))
}

// handleSetSettings handles PUT /users/{userId}/settings
func (s *Server) handleSetSettings(w http.ResponseWriter, r *http.Request) {
	var req struct {
		EnergyPerHour float64 `json:"energy_per_hour" validate:"gt=0"`
	}
	if !decodeBody(w, r, &req) {
		return
	}
	st, err := orchestrators.ExecuteSetEnergyRate(r.Context(), orchestrators.SetEnergyRateInput{
		UserID:        r.PathValue("userId"),
		EnergyPerHour: req.EnergyPerHour,
	}, s.settingsDeps())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, presentSettings(st))
}
