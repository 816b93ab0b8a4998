package models

import "time"

// Estados del ciclo de vida de una sesión
const (
	SessionStatusCreated  = "CREATED"
	SessionStatusActive   = "ACTIVE"
	SessionStatusFinished = "FINISHED"
)

// QuizSession una instancia en vivo de un quiz, identificada por su código
type QuizSession struct {
	ID                   string     `json:"id"`
	QuizID               string     `json:"quizId"`
	SessionCode          string     `json:"sessionCode"`
	Status               string     `json:"status"`
	CurrentQuestionIndex *int       `json:"currentQuestionIndex"`
	StartsAt             *time.Time `json:"startsAt,omitempty"`
	CreatedAt            time.Time  `json:"createdAt"`
}

// CreateSessionRequest request para crear sesión
type CreateSessionRequest struct {
	StartsAt *time.Time `json:"startsAt,omitempty"`
}

// CreateSessionResponse respuesta al crear una sesión
type CreateSessionResponse struct {
	SessionID   string `json:"sessionId"`
	SessionCode string `json:"sessionCode"`
	QuizID      string `json:"quizId"`
	Status      string `json:"status"`
}

// StartSessionResponse respuesta al iniciar una sesión
type StartSessionResponse struct {
	Message     string `json:"message"`
	SessionCode string `json:"sessionCode"`
	Status      string `json:"status"`
}

// AdvanceResult resultado de avanzar a la siguiente pregunta
type AdvanceResult struct {
	SessionCode          string        `json:"sessionCode"`
	Finished             bool          `json:"finished"`
	Message              string        `json:"message,omitempty"`
	CurrentQuestionIndex int           `json:"currentQuestionIndex,omitempty"`
	TotalQuestions       int           `json:"totalQuestions,omitempty"`
	Question             *QuestionView `json:"question,omitempty"`
}

// SessionDetail vista de administración de una sesión
type SessionDetail struct {
	Session QuizSession `json:"session"`
	Quiz    *Quiz       `json:"quiz,omitempty"`
	Teams   []Team      `json:"teams"`
}

// SessionQuizInfo información básica del quiz para los equipos
type SessionQuizInfo struct {
	ID             string `json:"id"`
	Title          string `json:"title"`
	TotalQuestions int    `json:"totalQuestions"`
}
