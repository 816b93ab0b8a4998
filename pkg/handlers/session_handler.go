package handlers

import (
	"encoding/json"
	"log"

	"github.com/valyala/fasthttp"

	"github.com/backsoul/teamquiz/pkg/auth"
	"github.com/backsoul/teamquiz/pkg/errs"
	"github.com/backsoul/teamquiz/pkg/models"
	"github.com/backsoul/teamquiz/pkg/services"
	websocketHub "github.com/backsoul/teamquiz/pkg/websocket"
)

// SessionHandler maneja las peticiones HTTP de sesiones y respuestas
type SessionHandler struct {
	sessions   *services.SessionService
	teams      *services.TeamService
	answers    *services.AnswerService
	scoreboard *services.ScoreboardService
	tokens     *auth.TokenService
	hub        *websocketHub.Hub
}

func NewSessionHandler(
	sessions *services.SessionService,
	teams *services.TeamService,
	answers *services.AnswerService,
	scoreboard *services.ScoreboardService,
	tokens *auth.TokenService,
	hub *websocketHub.Hub,
) *SessionHandler {
	return &SessionHandler{
		sessions:   sessions,
		teams:      teams,
		answers:    answers,
		scoreboard: scoreboard,
		tokens:     tokens,
		hub:        hub,
	}
}

// CreateSession maneja POST /api/admin/quizzes/{quizId}/session
func (h *SessionHandler) CreateSession(ctx *fasthttp.RequestCtx) {
	if _, err := requireAdmin(ctx, h.tokens); err != nil {
		respondWithDomainError(ctx, err)
		return
	}

	quizID := ctx.UserValue("quizId").(string)
	var req models.CreateSessionRequest
	if len(ctx.PostBody()) > 0 {
		if err := json.Unmarshal(ctx.PostBody(), &req); err != nil {
			respondWithError(ctx, fasthttp.StatusBadRequest, "invalid JSON body")
			return
		}
	}

	session, err := h.sessions.CreateSession(quizID, req.StartsAt)
	if err != nil {
		respondWithDomainError(ctx, err)
		return
	}

	respondWithSuccess(ctx, models.CreateSessionResponse{
		SessionID:   session.ID,
		SessionCode: session.SessionCode,
		QuizID:      session.QuizID,
		Status:      session.Status,
	}, "Session created")
	log.Printf("session %s created for quiz %s", session.SessionCode, session.QuizID)
}

// GetSession maneja GET /api/admin/sessions/{code}
func (h *SessionHandler) GetSession(ctx *fasthttp.RequestCtx) {
	if _, err := requireAdmin(ctx, h.tokens); err != nil {
		respondWithDomainError(ctx, err)
		return
	}

	code := ctx.UserValue("sessionCode").(string)
	session, err := h.sessions.GetSession(code)
	if err != nil {
		respondWithDomainError(ctx, err)
		return
	}

	teams, err := h.teams.ListTeams(session.ID)
	if err != nil {
		respondWithDomainError(ctx, err)
		return
	}

	respondWithSuccess(ctx, models.SessionDetail{
		Session: *session,
		Teams:   teams,
	}, "Session retrieved")
}

// StartSession maneja POST /api/admin/sessions/{code}/start
func (h *SessionHandler) StartSession(ctx *fasthttp.RequestCtx) {
	if _, err := requireAdmin(ctx, h.tokens); err != nil {
		respondWithDomainError(ctx, err)
		return
	}

	code := ctx.UserValue("sessionCode").(string)
	session, err := h.sessions.StartSession(code)
	if err != nil {
		respondWithDomainError(ctx, err)
		return
	}

	h.hub.SessionStarted(session.SessionCode)

	respondWithSuccess(ctx, models.StartSessionResponse{
		Message:     "Session started successfully",
		SessionCode: session.SessionCode,
		Status:      session.Status,
	}, "Session started successfully")
	log.Printf("session %s started", session.SessionCode)
}

// GetScoreboard maneja GET /api/admin/sessions/{code}/scoreboard
func (h *SessionHandler) GetScoreboard(ctx *fasthttp.RequestCtx) {
	if _, err := requireAdmin(ctx, h.tokens); err != nil {
		respondWithDomainError(ctx, err)
		return
	}

	code := ctx.UserValue("sessionCode").(string)
	scoreboard, err := h.scoreboard.Scoreboard(code)
	if err != nil {
		respondWithDomainError(ctx, err)
		return
	}
	respondWithSuccess(ctx, scoreboard, "Scoreboard retrieved")
}

// GetQuizInfo maneja GET /api/sessions/{code}/quiz
func (h *SessionHandler) GetQuizInfo(ctx *fasthttp.RequestCtx) {
	code := ctx.UserValue("sessionCode").(string)
	info, err := h.sessions.QuizInfo(code)
	if err != nil {
		respondWithDomainError(ctx, err)
		return
	}
	respondWithSuccess(ctx, info, "Quiz retrieved")
}

// GetCurrentQuestion maneja GET /api/sessions/{code}/question/current
func (h *SessionHandler) GetCurrentQuestion(ctx *fasthttp.RequestCtx) {
	code := ctx.UserValue("sessionCode").(string)
	question, err := h.sessions.CurrentQuestion(code)
	if err != nil {
		respondWithDomainError(ctx, err)
		return
	}
	respondWithSuccess(ctx, question, "Current question retrieved")
}

// GetTeams maneja GET /api/sessions/{code}/teams
func (h *SessionHandler) GetTeams(ctx *fasthttp.RequestCtx) {
	code := ctx.UserValue("sessionCode").(string)
	session, err := h.sessions.GetSession(code)
	if err != nil {
		respondWithDomainError(ctx, err)
		return
	}

	teams, err := h.teams.ListTeams(session.ID)
	if err != nil {
		respondWithDomainError(ctx, err)
		return
	}

	respondWithSuccess(ctx, models.TeamsResponse{
		SessionCode: session.SessionCode,
		Teams:       teams,
		TotalTeams:  len(teams),
	}, "Teams retrieved")
}

// SubmitAnswer maneja POST /api/sessions/{code}/answer. Tras una escritura
// exitosa dispara los broadcasts de actividad, stats y tabla de posiciones.
func (h *SessionHandler) SubmitAnswer(ctx *fasthttp.RequestCtx) {
	principal, err := requireTeam(ctx, h.tokens)
	if err != nil {
		respondWithDomainError(ctx, err)
		return
	}

	code := ctx.UserValue("sessionCode").(string)
	session, err := h.sessions.GetSession(code)
	if err != nil {
		respondWithDomainError(ctx, err)
		return
	}
	if principal.SessionID != session.ID {
		respondWithDomainError(ctx, errs.Unauthorizedf("team does not belong to this session"))
		return
	}

	var req models.SubmitAnswerRequest
	if err := json.Unmarshal(ctx.PostBody(), &req); err != nil {
		respondWithError(ctx, fasthttp.StatusBadRequest, "invalid JSON body")
		return
	}

	result, err := h.answers.Submit(principal.TeamID, code, req)
	if err != nil {
		respondWithDomainError(ctx, err)
		return
	}

	h.hub.AnswerSubmitted(code, principal.TeamID)
	if stats, err := h.answers.Stats(code); err == nil {
		h.hub.AnswerStatsUpdated(code, *stats)
	} else {
		log.Printf("could not compute stats for %s: %v", code, err)
	}
	if scoreboard, err := h.scoreboard.Scoreboard(code); err == nil {
		h.hub.ScoreboardUpdated(code, scoreboard.Leaderboard)
	} else {
		log.Printf("could not compute scoreboard for %s: %v", code, err)
	}

	respondWithSuccess(ctx, result, result.Message)
}
