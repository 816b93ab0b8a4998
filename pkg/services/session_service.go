package services

import (
	"encoding/json"
	"math/rand"
	"time"

	"github.com/google/uuid"

	"github.com/backsoul/teamquiz/pkg/errs"
	"github.com/backsoul/teamquiz/pkg/models"
)

// Alfabeto sin caracteres ambiguos (I, O, 0, 1) para códigos dictables
const (
	codeAlphabet = "ABCDEFGHJKLMNPQRSTUVWXYZ23456789"
	codeLength   = 6
	codeRetries  = 10
)

// SessionService es la máquina de estados de las sesiones:
// CREATED → ACTIVE → FINISHED. Toda mutación del registro de sesión pasa
// por UpdateJSON, de modo que las transiciones son compare-and-swap y dos
// comandos concurrentes nunca parten del mismo estado leído.
type SessionService struct {
	store   Store
	quizzes *QuizService
	genCode func() string
}

func NewSessionService(store Store, quizzes *QuizService) *SessionService {
	return &SessionService{
		store:   store,
		quizzes: quizzes,
		genCode: randomCode,
	}
}

func sessionKey(code string) string { return "quiz:session:" + code }

func randomCode() string {
	b := make([]byte, codeLength)
	for i := range b {
		b[i] = codeAlphabet[rand.Intn(len(codeAlphabet))]
	}
	return string(b)
}

// CreateSession crea una sesión CREATED para un quiz existente con al menos
// una pregunta. El código se reserva con SetNX; ante colisión se reintenta
// hasta codeRetries veces y después se falla cerrado.
func (s *SessionService) CreateSession(quizID string, startsAt *time.Time) (*models.QuizSession, error) {
	quiz, err := s.quizzes.GetQuiz(quizID)
	if err != nil {
		return nil, err
	}
	if len(quiz.Questions) == 0 {
		return nil, errs.InvalidStatef("Quiz has no questions")
	}

	index := 0
	session := &models.QuizSession{
		ID:                   uuid.New().String(),
		QuizID:               quiz.ID,
		Status:               models.SessionStatusCreated,
		CurrentQuestionIndex: &index,
		StartsAt:             startsAt,
		CreatedAt:            time.Now().UTC(),
	}

	for attempt := 0; attempt < codeRetries; attempt++ {
		session.SessionCode = s.genCode()
		data, err := json.Marshal(session)
		if err != nil {
			return nil, errs.Wrap(errs.KindInternal, err, "could not encode session")
		}
		ok, err := s.store.SetNX(sessionKey(session.SessionCode), string(data), 0)
		if err != nil {
			return nil, err
		}
		if ok {
			return session, nil
		}
	}
	return nil, errs.Conflictf("could not allocate a unique session code")
}

// GetSession obtiene una sesión por su código
func (s *SessionService) GetSession(code string) (*models.QuizSession, error) {
	raw, err := s.store.Get(sessionKey(code))
	if err != nil {
		if errs.IsNotFound(err) {
			return nil, errs.NotFoundf("Session not found")
		}
		return nil, err
	}

	var session models.QuizSession
	if err := json.Unmarshal([]byte(raw), &session); err != nil {
		return nil, errs.Wrap(errs.KindInternal, err, "could not decode session")
	}
	return &session, nil
}

// StartSession transiciona CREATED → ACTIVE. Idempotente: sobre una sesión
// ya activa es un no-op exitoso.
func (s *SessionService) StartSession(code string) (*models.QuizSession, error) {
	return s.updateSession(code, func(session *models.QuizSession) (bool, error) {
		switch session.Status {
		case models.SessionStatusCreated:
			session.Status = models.SessionStatusActive
			return true, nil
		case models.SessionStatusActive:
			return false, nil
		default:
			return false, errs.InvalidStatef("Session has already ended")
		}
	})
}

// ActivateOnFirstAnswer es la transición implícita: una sesión CREATED pasa
// a ACTIVE en cuanto llega la primera respuesta, aun sin start explícito.
// Una sesión FINISHED rechaza la activación.
func (s *SessionService) ActivateOnFirstAnswer(code string) (*models.QuizSession, error) {
	return s.updateSession(code, func(session *models.QuizSession) (bool, error) {
		switch session.Status {
		case models.SessionStatusCreated:
			session.Status = models.SessionStatusActive
			return true, nil
		case models.SessionStatusActive:
			return false, nil
		default:
			return false, errs.InvalidStatef("Session has already ended")
		}
	})
}

// AdvanceSession incrementa el índice de pregunta de una sesión ACTIVE.
// Si el nuevo índice supera la última pregunta, la sesión pasa a FINISHED
// y el resultado llega con Finished=true y sin pregunta.
func (s *SessionService) AdvanceSession(code string) (*models.AdvanceResult, error) {
	// El quiz es inmutable durante la vida de la sesión, por lo que puede
	// leerse fuera del compare-and-swap.
	session, err := s.GetSession(code)
	if err != nil {
		return nil, err
	}
	quiz, err := s.quizzes.GetQuiz(session.QuizID)
	if err != nil {
		return nil, err
	}
	total := len(quiz.Questions)

	var result *models.AdvanceResult
	_, err = s.updateSession(code, func(sess *models.QuizSession) (bool, error) {
		result = nil
		switch sess.Status {
		case models.SessionStatusCreated:
			return false, errs.InvalidStatef("Session has not started")
		case models.SessionStatusFinished:
			return false, errs.InvalidStatef("Session has already ended")
		}
		if sess.CurrentQuestionIndex == nil {
			return false, errs.InvalidStatef("Session has not started")
		}

		next := *sess.CurrentQuestionIndex + 1
		if next >= total {
			sess.Status = models.SessionStatusFinished
			result = &models.AdvanceResult{
				SessionCode: sess.SessionCode,
				Finished:    true,
				Message:     "All questions completed",
			}
			return true, nil
		}

		*sess.CurrentQuestionIndex = next
		view := quiz.Questions[next].View()
		result = &models.AdvanceResult{
			SessionCode:          sess.SessionCode,
			Finished:             false,
			CurrentQuestionIndex: next,
			TotalQuestions:       total,
			Question:             &view,
		}
		return true, nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// EndSession fuerza FINISHED desde cualquier estado; idempotente
func (s *SessionService) EndSession(code string) (*models.QuizSession, error) {
	return s.updateSession(code, func(session *models.QuizSession) (bool, error) {
		if session.Status == models.SessionStatusFinished {
			return false, nil
		}
		session.Status = models.SessionStatusFinished
		return true, nil
	})
}

// CurrentQuestion devuelve la pregunta en vivo sin la respuesta correcta
func (s *SessionService) CurrentQuestion(code string) (*models.QuestionView, error) {
	session, err := s.GetSession(code)
	if err != nil {
		return nil, err
	}
	if session.CurrentQuestionIndex == nil {
		return nil, errs.InvalidStatef("Session has not started")
	}

	quiz, err := s.quizzes.GetQuiz(session.QuizID)
	if err != nil {
		return nil, err
	}
	idx := *session.CurrentQuestionIndex
	if idx < 0 || idx >= len(quiz.Questions) {
		return nil, errs.NotFoundf("No current question")
	}

	view := quiz.Questions[idx].View()
	return &view, nil
}

// QuizInfo devuelve la información básica del quiz de una sesión
func (s *SessionService) QuizInfo(code string) (*models.SessionQuizInfo, error) {
	session, err := s.GetSession(code)
	if err != nil {
		return nil, err
	}
	quiz, err := s.quizzes.GetQuiz(session.QuizID)
	if err != nil {
		return nil, err
	}
	return &models.SessionQuizInfo{
		ID:             quiz.ID,
		Title:          quiz.Title,
		TotalQuestions: len(quiz.Questions),
	}, nil
}

// updateSession aplica fn dentro del bucle compare-and-swap del store.
// fn devuelve true si el registro cambió y debe escribirse.
func (s *SessionService) updateSession(code string, fn func(*models.QuizSession) (bool, error)) (*models.QuizSession, error) {
	var updated models.QuizSession
	err := s.store.UpdateJSON(sessionKey(code), func(current []byte) ([]byte, error) {
		var session models.QuizSession
		if err := json.Unmarshal(current, &session); err != nil {
			return nil, errs.Wrap(errs.KindInternal, err, "could not decode session")
		}

		changed, err := fn(&session)
		if err != nil {
			return nil, err
		}
		updated = session
		if !changed {
			return nil, nil
		}
		return json.Marshal(session)
	})
	if err != nil {
		if errs.IsNotFound(err) {
			return nil, errs.NotFoundf("Session not found")
		}
		return nil, err
	}
	return &updated, nil
}
