package services

import (
	"bytes"
	"encoding/json"
	"log"
	"time"

	"github.com/google/uuid"

	"github.com/backsoul/teamquiz/pkg/errs"
	"github.com/backsoul/teamquiz/pkg/models"
)

// AnswerService es el libro de respuestas: como máximo una respuesta
// puntuada por (sesión, pregunta, equipo). La unicidad la garantiza el
// SetNX de la clave compuesta; de dos envíos concurrentes exactamente uno
// gana y el otro recibe Conflict.
type AnswerService struct {
	store    Store
	quizzes  *QuizService
	sessions *SessionService
}

func NewAnswerService(store Store, quizzes *QuizService, sessions *SessionService) *AnswerService {
	return &AnswerService{store: store, quizzes: quizzes, sessions: sessions}
}

func answerKey(sessionID, questionID, teamID string) string {
	return "quiz:answer:" + sessionID + ":" + questionID + ":" + teamID
}

func answersSetKey(sessionID string) string {
	return "quiz:session_answers:" + sessionID
}

// Submit valida, puntúa y persiste la respuesta de un equipo
func (s *AnswerService) Submit(teamID, sessionCode string, req models.SubmitAnswerRequest) (*models.SubmitAnswerResult, error) {
	if req.QuestionID == "" {
		return nil, errs.InvalidRequestf("questionId is required")
	}
	if len(req.AnswerPayload) == 0 {
		return nil, errs.InvalidRequestf("answerPayload is required")
	}

	// La primera respuesta activa una sesión CREATED; una FINISHED rechaza
	session, err := s.sessions.ActivateOnFirstAnswer(sessionCode)
	if err != nil {
		return nil, err
	}
	if session.Status != models.SessionStatusActive {
		return nil, errs.InvalidStatef("Session is not active")
	}

	question, err := s.quizzes.ResolveQuestion(req.QuestionID)
	if err != nil {
		return nil, err
	}
	if question.QuizID != session.QuizID {
		return nil, errs.InvalidRequestf("Question does not belong to this quiz")
	}

	if err := s.answerWindowOpen(session, question); err != nil {
		return nil, err
	}

	isCorrect := scoreAnswer(question, req.AnswerPayload)
	points := 0
	if isCorrect {
		points = question.Points
	}

	answer := models.Answer{
		ID:            uuid.New().String(),
		SessionID:     session.ID,
		QuestionID:    question.ID,
		TeamID:        teamID,
		AnswerPayload: req.AnswerPayload,
		IsCorrect:     isCorrect,
		PointsAwarded: points,
		AnsweredAt:    time.Now().UTC(),
	}

	data, err := json.Marshal(answer)
	if err != nil {
		return nil, errs.Wrap(errs.KindInternal, err, "could not encode answer")
	}

	key := answerKey(session.ID, question.ID, teamID)
	ok, err := s.store.SetNX(key, string(data), 0)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, errs.Conflictf("Answer already submitted for this question")
	}
	if err := s.store.SAdd(answersSetKey(session.ID), key); err != nil {
		log.Printf("could not index answer %s: %v", answer.ID, err)
	}

	message := "Incorrect answer"
	if isCorrect {
		message = "Correct answer!"
	}
	return &models.SubmitAnswerResult{
		AnswerID:      answer.ID,
		IsCorrect:     isCorrect,
		PointsAwarded: points,
		SubmittedAt:   answer.AnsweredAt,
		Message:       message,
	}, nil
}

// answerWindowOpen decide si la pregunta admite respuestas en este momento.
// Hoy la política es permisiva: cualquier pregunta del quiz mientras la
// sesión esté activa, no solo la pregunta en vivo. Endurecerla a "solo la
// pregunta actual" solo requiere tocar esta función.
func (s *AnswerService) answerWindowOpen(session *models.QuizSession, question *models.Question) error {
	return nil
}

// ListAnswers devuelve todas las respuestas registradas de una sesión
func (s *AnswerService) ListAnswers(sessionID string) ([]models.Answer, error) {
	keys, err := s.store.SMembers(answersSetKey(sessionID))
	if err != nil {
		return nil, err
	}

	var answers []models.Answer
	for _, key := range keys {
		raw, err := s.store.Get(key)
		if err != nil {
			if errs.IsNotFound(err) {
				// entrada colgante en el índice; se depura
				s.store.SRem(answersSetKey(sessionID), key)
			} else {
				log.Printf("could not load answer %s: %v", key, err)
			}
			continue
		}
		var answer models.Answer
		if err := json.Unmarshal([]byte(raw), &answer); err != nil {
			log.Printf("could not decode answer %s: %v", key, err)
			continue
		}
		answers = append(answers, answer)
	}
	return answers, nil
}

// Stats conteos agregados de la sesión, sin contenido de respuestas
func (s *AnswerService) Stats(sessionCode string) (*models.AnswerStats, error) {
	session, err := s.sessions.GetSession(sessionCode)
	if err != nil {
		return nil, err
	}
	answers, err := s.ListAnswers(session.ID)
	if err != nil {
		return nil, err
	}

	stats := &models.AnswerStats{TotalAnswers: len(answers)}
	for _, a := range answers {
		if a.IsCorrect {
			stats.CorrectAnswers++
		}
	}
	return stats, nil
}

// scoreAnswer compara el payload con la respuesta correcta. Acepta tanto
// el valor pelado ("choice_2", true) como la forma envuelta
// ({"id":"choice_2"} / {"value":true}).
func scoreAnswer(question *models.Question, payload json.RawMessage) bool {
	payload = bytes.TrimSpace(payload)

	switch question.Type {
	case models.QuestionTypeMCQ:
		var id string
		if err := json.Unmarshal(payload, &id); err == nil {
			return id == question.CorrectAnswer.ID
		}
		var wrapped struct {
			ID string `json:"id"`
		}
		if err := json.Unmarshal(payload, &wrapped); err == nil && wrapped.ID != "" {
			return wrapped.ID == question.CorrectAnswer.ID
		}
	case models.QuestionTypeTF:
		if question.CorrectAnswer.Value == nil {
			return false
		}
		var value bool
		if err := json.Unmarshal(payload, &value); err == nil {
			return value == *question.CorrectAnswer.Value
		}
		var wrapped struct {
			Value *bool `json:"value"`
		}
		if err := json.Unmarshal(payload, &wrapped); err == nil && wrapped.Value != nil {
			return *wrapped.Value == *question.CorrectAnswer.Value
		}
	}
	return false
}
