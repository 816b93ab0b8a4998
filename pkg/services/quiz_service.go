package services

import (
	"encoding/json"
	"sort"
	"strconv"
	"time"

	"github.com/google/uuid"

	"github.com/backsoul/teamquiz/pkg/errs"
	"github.com/backsoul/teamquiz/pkg/models"
)

// QuizService maneja la creación y lectura de quizzes y sus preguntas
type QuizService struct {
	store Store
}

func NewQuizService(store Store) *QuizService {
	return &QuizService{store: store}
}

func quizKey(id string) string        { return "quiz:quiz:" + id }
func questionRefKey(id string) string { return "quiz:question:" + id }

// CreateQuiz crea un quiz con sus preguntas ordenadas por índice
func (s *QuizService) CreateQuiz(userID string, req models.CreateQuizRequest) (*models.Quiz, error) {
	if req.Title == "" {
		return nil, errs.InvalidRequestf("quiz title is required")
	}

	quiz := &models.Quiz{
		ID:        uuid.New().String(),
		Title:     req.Title,
		CreatedBy: userID,
		CreatedAt: time.Now().UTC(),
	}

	for i, qr := range req.Questions {
		index := i
		if qr.Index != nil {
			index = *qr.Index
		}
		question, err := buildQuestion(quiz.ID, index, qr)
		if err != nil {
			return nil, err
		}
		quiz.Questions = append(quiz.Questions, *question)
	}

	sort.Slice(quiz.Questions, func(i, j int) bool {
		return quiz.Questions[i].IndexInQuiz < quiz.Questions[j].IndexInQuiz
	})

	if err := s.saveQuiz(quiz); err != nil {
		return nil, err
	}
	for _, q := range quiz.Questions {
		if err := s.saveQuestionRef(q); err != nil {
			return nil, err
		}
	}

	return quiz, nil
}

// GetQuiz obtiene un quiz por ID, con sus preguntas ordenadas
func (s *QuizService) GetQuiz(id string) (*models.Quiz, error) {
	raw, err := s.store.Get(quizKey(id))
	if err != nil {
		if errs.IsNotFound(err) {
			return nil, errs.NotFoundf("Quiz not found")
		}
		return nil, err
	}

	var quiz models.Quiz
	if err := json.Unmarshal([]byte(raw), &quiz); err != nil {
		return nil, errs.Wrap(errs.KindInternal, err, "could not decode quiz")
	}
	return &quiz, nil
}

// AddQuestion agrega una pregunta al final del quiz; el índice se calcula
// automáticamente si no viene en el request
func (s *QuizService) AddQuestion(quizID string, req models.CreateQuestionRequest) (*models.Question, error) {
	var added *models.Question

	err := s.store.UpdateJSON(quizKey(quizID), func(current []byte) ([]byte, error) {
		var quiz models.Quiz
		if err := json.Unmarshal(current, &quiz); err != nil {
			return nil, errs.Wrap(errs.KindInternal, err, "could not decode quiz")
		}

		index := 0
		for _, q := range quiz.Questions {
			if q.IndexInQuiz >= index {
				index = q.IndexInQuiz + 1
			}
		}
		if req.Index != nil {
			index = *req.Index
		}

		question, err := buildQuestion(quiz.ID, index, req)
		if err != nil {
			return nil, err
		}
		added = question

		quiz.Questions = append(quiz.Questions, *question)
		sort.Slice(quiz.Questions, func(i, j int) bool {
			return quiz.Questions[i].IndexInQuiz < quiz.Questions[j].IndexInQuiz
		})
		return json.Marshal(quiz)
	})
	if err != nil {
		if errs.IsNotFound(err) {
			return nil, errs.NotFoundf("Quiz not found")
		}
		return nil, err
	}

	if err := s.saveQuestionRef(*added); err != nil {
		return nil, err
	}
	return added, nil
}

// GetQuestions devuelve las preguntas de un quiz ordenadas por índice
func (s *QuizService) GetQuestions(quizID string) ([]models.Question, error) {
	quiz, err := s.GetQuiz(quizID)
	if err != nil {
		return nil, err
	}
	return quiz.Questions, nil
}

// ResolveQuestion localiza una pregunta por su ID global. El QuizID de la
// pregunta devuelta permite detectar envíos cruzados entre quizzes.
func (s *QuizService) ResolveQuestion(questionID string) (*models.Question, error) {
	raw, err := s.store.Get(questionRefKey(questionID))
	if err != nil {
		if errs.IsNotFound(err) {
			return nil, errs.NotFoundf("Question not found")
		}
		return nil, err
	}

	var ref models.QuestionRef
	if err := json.Unmarshal([]byte(raw), &ref); err != nil {
		return nil, errs.Wrap(errs.KindInternal, err, "could not decode question ref")
	}

	quiz, err := s.GetQuiz(ref.QuizID)
	if err != nil {
		return nil, err
	}
	for i := range quiz.Questions {
		if quiz.Questions[i].ID == questionID {
			return &quiz.Questions[i], nil
		}
	}
	return nil, errs.NotFoundf("Question not found")
}

func (s *QuizService) saveQuiz(quiz *models.Quiz) error {
	data, err := json.Marshal(quiz)
	if err != nil {
		return errs.Wrap(errs.KindInternal, err, "could not encode quiz")
	}
	return s.store.Set(quizKey(quiz.ID), string(data), 0)
}

func (s *QuizService) saveQuestionRef(q models.Question) error {
	ref := models.QuestionRef{QuizID: q.QuizID, Index: q.IndexInQuiz}
	data, err := json.Marshal(ref)
	if err != nil {
		return errs.Wrap(errs.KindInternal, err, "could not encode question ref")
	}
	return s.store.Set(questionRefKey(q.ID), string(data), 0)
}

func buildQuestion(quizID string, index int, req models.CreateQuestionRequest) (*models.Question, error) {
	if req.Text == "" {
		return nil, errs.InvalidRequestf("question text is required")
	}
	if req.Points <= 0 {
		return nil, errs.InvalidRequestf("question points must be positive")
	}
	if req.TimeLimitSec <= 0 {
		return nil, errs.InvalidRequestf("question time limit must be positive")
	}

	correct, err := normalizeCorrectAnswer(req.Type, req.CorrectAnswer)
	if err != nil {
		return nil, err
	}

	switch req.Type {
	case models.QuestionTypeMCQ:
		if len(req.Choices) < 2 {
			return nil, errs.InvalidRequestf("MCQ question needs at least two choices")
		}
		found := false
		for _, c := range req.Choices {
			if c.ID == correct.ID {
				found = true
				break
			}
		}
		if !found {
			return nil, errs.InvalidRequestf("correct answer %q is not one of the choices", correct.ID)
		}
	case models.QuestionTypeTF:
		// sin opciones; la respuesta es booleana
	default:
		return nil, errs.InvalidRequestf("unknown question type %q", req.Type)
	}

	return &models.Question{
		ID:            uuid.New().String(),
		QuizID:        quizID,
		IndexInQuiz:   index,
		Text:          req.Text,
		Type:          req.Type,
		Choices:       req.Choices,
		CorrectAnswer: correct,
		TimeLimitSec:  req.TimeLimitSec,
		Points:        req.Points,
	}, nil
}

// normalizeCorrectAnswer acepta el descriptor crudo ("choice_2", true,
// "true") o ya envuelto ({"id":...} / {"value":...}) y lo normaliza
func normalizeCorrectAnswer(qType models.QuestionType, raw json.RawMessage) (models.CorrectAnswer, error) {
	if len(raw) == 0 {
		return models.CorrectAnswer{}, errs.InvalidRequestf("correct answer is required")
	}

	var wrapped models.CorrectAnswer
	if err := json.Unmarshal(raw, &wrapped); err == nil {
		if qType == models.QuestionTypeMCQ && wrapped.ID != "" {
			return models.CorrectAnswer{ID: wrapped.ID}, nil
		}
		if qType == models.QuestionTypeTF && wrapped.Value != nil {
			return models.CorrectAnswer{Value: wrapped.Value}, nil
		}
	}

	switch qType {
	case models.QuestionTypeMCQ:
		var id string
		if err := json.Unmarshal(raw, &id); err != nil || id == "" {
			return models.CorrectAnswer{}, errs.InvalidRequestf("MCQ correct answer must be a choice id")
		}
		return models.CorrectAnswer{ID: id}, nil
	case models.QuestionTypeTF:
		var value bool
		if err := json.Unmarshal(raw, &value); err != nil {
			var s string
			if err := json.Unmarshal(raw, &s); err != nil {
				return models.CorrectAnswer{}, errs.InvalidRequestf("TF correct answer must be a boolean")
			}
			parsed, err := strconv.ParseBool(s)
			if err != nil {
				return models.CorrectAnswer{}, errs.InvalidRequestf("TF correct answer must be a boolean")
			}
			value = parsed
		}
		return models.CorrectAnswer{Value: &value}, nil
	default:
		return models.CorrectAnswer{}, errs.InvalidRequestf("unknown question type %q", qType)
	}
}
