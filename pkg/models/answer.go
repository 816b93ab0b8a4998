package models

import (
	"encoding/json"
	"time"
)

// Answer respuesta puntuada de un equipo. Inmutable: existe como máximo
// una por (sesión, pregunta, equipo).
type Answer struct {
	ID            string          `json:"id"`
	SessionID     string          `json:"sessionId"`
	QuestionID    string          `json:"questionId"`
	TeamID        string          `json:"teamId"`
	AnswerPayload json.RawMessage `json:"answerPayload"`
	IsCorrect     bool            `json:"isCorrect"`
	PointsAwarded int             `json:"pointsAwarded"`
	AnsweredAt    time.Time       `json:"answeredAt"`
}

// SubmitAnswerRequest request para enviar una respuesta
type SubmitAnswerRequest struct {
	QuestionID    string          `json:"questionId"`
	AnswerPayload json.RawMessage `json:"answerPayload"`
}

// SubmitAnswerResult resultado devuelto al equipo que respondió
type SubmitAnswerResult struct {
	AnswerID      string    `json:"answerId"`
	IsCorrect     bool      `json:"isCorrect"`
	PointsAwarded int       `json:"pointsAwarded"`
	SubmittedAt   time.Time `json:"submittedAt"`
	Message       string    `json:"message"`
}

// AnswerStats conteos agregados de respuestas de la sesión
type AnswerStats struct {
	TotalAnswers   int `json:"totalAnswers"`
	CorrectAnswers int `json:"correctAnswers"`
}

// LeaderboardEntry entrada en la tabla de posiciones
type LeaderboardEntry struct {
	TeamID   string `json:"teamId,omitempty"`
	TeamName string `json:"teamName"`
	Score    int    `json:"score"`
	Rank     int    `json:"rank"`
}

// Scoreboard tabla de posiciones de una sesión
type Scoreboard struct {
	SessionCode string             `json:"sessionCode"`
	Leaderboard []LeaderboardEntry `json:"leaderboard"`
}
