package handlers

import (
	"encoding/json"

	"github.com/valyala/fasthttp"

	"github.com/backsoul/teamquiz/pkg/auth"
	"github.com/backsoul/teamquiz/pkg/models"
	"github.com/backsoul/teamquiz/pkg/services"
)

// QuizHandler endpoints de administración de quizzes y preguntas
type QuizHandler struct {
	quizzes *services.QuizService
	tokens  *auth.TokenService
}

func NewQuizHandler(quizzes *services.QuizService, tokens *auth.TokenService) *QuizHandler {
	return &QuizHandler{quizzes: quizzes, tokens: tokens}
}

// CreateQuiz maneja POST /api/admin/quizzes
func (h *QuizHandler) CreateQuiz(ctx *fasthttp.RequestCtx) {
	principal, err := requireAdmin(ctx, h.tokens)
	if err != nil {
		respondWithDomainError(ctx, err)
		return
	}

	var req models.CreateQuizRequest
	if err := json.Unmarshal(ctx.PostBody(), &req); err != nil {
		respondWithError(ctx, fasthttp.StatusBadRequest, "invalid JSON body")
		return
	}

	quiz, err := h.quizzes.CreateQuiz(principal.UserID, req)
	if err != nil {
		respondWithDomainError(ctx, err)
		return
	}
	respondWithSuccess(ctx, quiz, "Quiz created")
}

// GetQuestions maneja GET /api/admin/quizzes/{id}/questions
func (h *QuizHandler) GetQuestions(ctx *fasthttp.RequestCtx) {
	if _, err := requireAdmin(ctx, h.tokens); err != nil {
		respondWithDomainError(ctx, err)
		return
	}

	quizID := ctx.UserValue("quizId").(string)
	questions, err := h.quizzes.GetQuestions(quizID)
	if err != nil {
		respondWithDomainError(ctx, err)
		return
	}
	respondWithSuccess(ctx, map[string]interface{}{
		"quizId":    quizID,
		"questions": questions,
		"count":     len(questions),
	}, "Questions retrieved")
}

// AddQuestion maneja POST /api/admin/quizzes/{id}/questions
func (h *QuizHandler) AddQuestion(ctx *fasthttp.RequestCtx) {
	if _, err := requireAdmin(ctx, h.tokens); err != nil {
		respondWithDomainError(ctx, err)
		return
	}

	quizID := ctx.UserValue("quizId").(string)
	var req models.CreateQuestionRequest
	if err := json.Unmarshal(ctx.PostBody(), &req); err != nil {
		respondWithError(ctx, fasthttp.StatusBadRequest, "invalid JSON body")
		return
	}

	question, err := h.quizzes.AddQuestion(quizID, req)
	if err != nil {
		respondWithDomainError(ctx, err)
		return
	}
	respondWithSuccess(ctx, question, "Question created")
}
