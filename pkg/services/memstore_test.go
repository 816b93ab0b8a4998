package services

import (
	"encoding/json"
	"sync"
	"testing"
	"time"

	"github.com/backsoul/teamquiz/pkg/auth"
	"github.com/backsoul/teamquiz/pkg/errs"
	"github.com/backsoul/teamquiz/pkg/models"
)

// memStore doble en memoria del contrato Store para los tests
type memStore struct {
	mu     sync.Mutex
	values map[string]string
	sets   map[string]map[string]struct{}
}

func newMemStore() *memStore {
	return &memStore{
		values: make(map[string]string),
		sets:   make(map[string]map[string]struct{}),
	}
}

func (m *memStore) Get(key string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	val, ok := m.values[key]
	if !ok {
		return "", errs.NotFoundf("key %q not found", key)
	}
	return val, nil
}

func (m *memStore) Set(key, value string, _ time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.values[key] = value
	return nil
}

func (m *memStore) SetNX(key, value string, _ time.Duration) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, exists := m.values[key]; exists {
		return false, nil
	}
	m.values[key] = value
	return true, nil
}

func (m *memStore) SAdd(key string, members ...string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.sets[key] == nil {
		m.sets[key] = make(map[string]struct{})
	}
	for _, member := range members {
		m.sets[key][member] = struct{}{}
	}
	return nil
}

func (m *memStore) SMembers(key string) ([]string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	members := make([]string, 0, len(m.sets[key]))
	for member := range m.sets[key] {
		members = append(members, member)
	}
	return members, nil
}

func (m *memStore) SRem(key string, members ...string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, member := range members {
		delete(m.sets[key], member)
	}
	return nil
}

func (m *memStore) UpdateJSON(key string, fn func([]byte) ([]byte, error)) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	val, ok := m.values[key]
	if !ok {
		return errs.NotFoundf("key %q not found", key)
	}
	next, err := fn([]byte(val))
	if err != nil {
		return err
	}
	if next != nil {
		m.values[key] = string(next)
	}
	return nil
}

// testEnv servicios cableados sobre el store en memoria
type testEnv struct {
	store      *memStore
	tokens     *auth.TokenService
	quizzes    *QuizService
	sessions   *SessionService
	teams      *TeamService
	answers    *AnswerService
	scoreboard *ScoreboardService
	users      *UserService
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	store := newMemStore()
	tokens := auth.NewTokenService("admin-secret", "team-secret", time.Hour, time.Hour)
	quizzes := NewQuizService(store)
	sessions := NewSessionService(store, quizzes)
	teams := NewTeamService(store, sessions, tokens)
	answers := NewAnswerService(store, quizzes, sessions)
	scoreboard := NewScoreboardService(sessions, teams, answers)
	users := NewUserService(store, tokens)
	return &testEnv{
		store:      store,
		tokens:     tokens,
		quizzes:    quizzes,
		sessions:   sessions,
		teams:      teams,
		answers:    answers,
		scoreboard: scoreboard,
		users:      users,
	}
}

// createQuiz quiz de referencia: Q1 MCQ (correcta choice_2, 10 pts) y
// Q2 TF (correcta true, 5 pts)
func (e *testEnv) createQuiz(t *testing.T) *models.Quiz {
	t.Helper()
	quiz, err := e.quizzes.CreateQuiz("admin-1", models.CreateQuizRequest{
		Title: "General Knowledge",
		Questions: []models.CreateQuestionRequest{
			{
				Text: "Which planet is known as the red planet?",
				Type: models.QuestionTypeMCQ,
				Choices: []models.Choice{
					{ID: "choice_1", Text: "Venus"},
					{ID: "choice_2", Text: "Mars"},
					{ID: "choice_3", Text: "Jupiter"},
				},
				CorrectAnswer: json.RawMessage(`"choice_2"`),
				TimeLimitSec:  30,
				Points:        10,
			},
			{
				Text:          "The Pacific is the largest ocean",
				Type:          models.QuestionTypeTF,
				CorrectAnswer: json.RawMessage(`true`),
				TimeLimitSec:  20,
				Points:        5,
			},
		},
	})
	if err != nil {
		t.Fatalf("CreateQuiz: %v", err)
	}
	return quiz
}

func (e *testEnv) createSession(t *testing.T, quizID string) *models.QuizSession {
	t.Helper()
	session, err := e.sessions.CreateSession(quizID, nil)
	if err != nil {
		t.Fatalf("CreateSession: %v", err)
	}
	return session
}

func (e *testEnv) joinTeam(t *testing.T, sessionCode, name string) *models.JoinTeamResponse {
	t.Helper()
	resp, err := e.teams.Join(models.JoinTeamRequest{SessionCode: sessionCode, TeamName: name})
	if err != nil {
		t.Fatalf("Join(%s): %v", name, err)
	}
	return resp
}
