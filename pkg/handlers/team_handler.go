package handlers

import (
	"encoding/json"

	"github.com/valyala/fasthttp"

	"github.com/backsoul/teamquiz/pkg/models"
	"github.com/backsoul/teamquiz/pkg/services"
)

// TeamHandler unión de equipos a sesiones
type TeamHandler struct {
	teams *services.TeamService
}

func NewTeamHandler(teams *services.TeamService) *TeamHandler {
	return &TeamHandler{teams: teams}
}

// Join maneja POST /api/teams/join
func (h *TeamHandler) Join(ctx *fasthttp.RequestCtx) {
	var req models.JoinTeamRequest
	if err := json.Unmarshal(ctx.PostBody(), &req); err != nil {
		respondWithError(ctx, fasthttp.StatusBadRequest, "invalid JSON body")
		return
	}

	resp, err := h.teams.Join(req)
	if err != nil {
		respondWithDomainError(ctx, err)
		return
	}
	respondWithSuccess(ctx, resp, "Team joined")
}
