package models

import (
	"encoding/json"
	"time"
)

// QuestionType tipo de pregunta soportado por el quiz
type QuestionType string

const (
	QuestionTypeMCQ QuestionType = "MCQ"
	QuestionTypeTF  QuestionType = "TF"
)

// Choice opción de respuesta para preguntas MCQ
type Choice struct {
	ID   string `json:"id"`
	Text string `json:"text"`
}

// CorrectAnswer descriptor canónico de la respuesta correcta.
// MCQ usa ID, TF usa Value.
type CorrectAnswer struct {
	ID    string `json:"id,omitempty"`
	Value *bool  `json:"value,omitempty"`
}

// Question estructura para representar una pregunta del quiz
type Question struct {
	ID            string        `json:"id"`
	QuizID        string        `json:"quizId"`
	IndexInQuiz   int           `json:"indexInQuiz"`
	Text          string        `json:"text"`
	Type          QuestionType  `json:"type"`
	Choices       []Choice      `json:"choices,omitempty"`
	CorrectAnswer CorrectAnswer `json:"correctAnswer"`
	TimeLimitSec  int           `json:"timeLimitSec"`
	Points        int           `json:"points"`
}

// QuestionView versión de la pregunta sin la respuesta correcta.
// Es la única forma que puede salir hacia los equipos.
type QuestionView struct {
	ID           string       `json:"id"`
	Text         string       `json:"text"`
	Type         QuestionType `json:"type"`
	Choices      []Choice     `json:"choices,omitempty"`
	TimeLimitSec int          `json:"timeLimitSec"`
	Points       int          `json:"points"`
	IndexInQuiz  int          `json:"indexInQuiz"`
}

// View devuelve la pregunta sin el descriptor de respuesta correcta.
func (q Question) View() QuestionView {
	return QuestionView{
		ID:           q.ID,
		Text:         q.Text,
		Type:         q.Type,
		Choices:      q.Choices,
		TimeLimitSec: q.TimeLimitSec,
		Points:       q.Points,
		IndexInQuiz:  q.IndexInQuiz,
	}
}

// Quiz estructura del quiz con sus preguntas ordenadas por índice
type Quiz struct {
	ID        string     `json:"id"`
	Title     string     `json:"title"`
	CreatedBy string     `json:"createdBy"`
	Questions []Question `json:"questions"`
	CreatedAt time.Time  `json:"createdAt"`
}

// QuestionRef índice global pregunta → quiz, para resolver envíos de respuesta
type QuestionRef struct {
	QuizID string `json:"quizId"`
	Index  int    `json:"index"`
}

// CreateQuestionRequest request para crear una pregunta
type CreateQuestionRequest struct {
	Index         *int            `json:"index,omitempty"`
	Text          string          `json:"text"`
	Type          QuestionType    `json:"type"`
	Choices       []Choice        `json:"choices,omitempty"`
	CorrectAnswer json.RawMessage `json:"correctAnswer"`
	TimeLimitSec  int             `json:"timeLimitSec"`
	Points        int             `json:"points"`
}

// CreateQuizRequest request para crear un quiz con sus preguntas
type CreateQuizRequest struct {
	Title     string                  `json:"title"`
	Questions []CreateQuestionRequest `json:"questions"`
}

// APIResponse estructura estándar para respuestas de API
type APIResponse struct {
	Success bool        `json:"success"`
	Message string      `json:"message,omitempty"`
	Data    interface{} `json:"data,omitempty"`
	Error   string      `json:"error,omitempty"`
}
