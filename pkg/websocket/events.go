package websocket

import (
	"time"

	"github.com/backsoul/teamquiz/pkg/models"
)

// Catálogo canónico de eventos servidor → cliente. Ningún payload de
// broadcast lleva la respuesta correcta: los helpers solo aceptan
// models.QuestionView, que no la contiene.
const (
	EventSessionStarted      = "session:started"
	EventSessionEnded        = "session:ended"
	EventQuestionStarted     = "question:started"
	EventQuestionTimeWarning = "question:time-warning"
	EventQuestionEnded       = "question:ended"
	EventAnswerSubmitted     = "answer:submitted"
	EventAnswerStatsUpdated  = "answer:stats-updated"
	EventScoreboardUpdated   = "scoreboard:updated"

	EventJoinSuccess     = "join_success"
	EventQuestionCurrent = "question:current"
	EventError           = "error"
)

// Comandos cliente → servidor
const (
	CommandJoinSession        = "join_session"
	CommandGetCurrentQuestion = "question:get-current"
	CommandAdminNextQuestion  = "admin:next-question"
	CommandAdminEndSession    = "admin:end-session"

	AckAdminNextQuestion = "admin:next-question:ack"
	AckAdminEndSession   = "admin:end-session:ack"
)

func timestamp() string {
	return time.Now().UTC().Format(time.RFC3339)
}

func (h *Hub) SessionStarted(sessionCode string) {
	h.Broadcast(sessionCode, EventSessionStarted, map[string]interface{}{
		"sessionCode": sessionCode,
		"timestamp":   timestamp(),
	})
}

func (h *Hub) SessionEnded(sessionCode string) {
	h.Broadcast(sessionCode, EventSessionEnded, map[string]interface{}{
		"sessionCode": sessionCode,
		"timestamp":   timestamp(),
	})
}

func (h *Hub) QuestionStarted(sessionCode string, questionIndex int, question models.QuestionView) {
	h.Broadcast(sessionCode, EventQuestionStarted, map[string]interface{}{
		"sessionCode":   sessionCode,
		"questionIndex": questionIndex,
		"question":      question,
	})
}

func (h *Hub) QuestionTimeWarning(sessionCode string, questionIndex, remainingSeconds int) {
	h.Broadcast(sessionCode, EventQuestionTimeWarning, map[string]interface{}{
		"sessionCode":      sessionCode,
		"questionIndex":    questionIndex,
		"remainingSeconds": remainingSeconds,
	})
}

func (h *Hub) QuestionEnded(sessionCode string, questionIndex int) {
	h.Broadcast(sessionCode, EventQuestionEnded, map[string]interface{}{
		"sessionCode":   sessionCode,
		"questionIndex": questionIndex,
		"timestamp":     timestamp(),
	})
}

// AnswerSubmitted notifica que un equipo respondió, sin el contenido
func (h *Hub) AnswerSubmitted(sessionCode, teamID string) {
	h.Broadcast(sessionCode, EventAnswerSubmitted, map[string]interface{}{
		"sessionCode": sessionCode,
		"teamId":      teamID,
		"timestamp":   timestamp(),
	})
}

func (h *Hub) AnswerStatsUpdated(sessionCode string, stats models.AnswerStats) {
	h.Broadcast(sessionCode, EventAnswerStatsUpdated, map[string]interface{}{
		"sessionCode": sessionCode,
		"stats":       stats,
	})
}

func (h *Hub) ScoreboardUpdated(sessionCode string, leaderboard []models.LeaderboardEntry) {
	entries := make([]map[string]interface{}, 0, len(leaderboard))
	for _, e := range leaderboard {
		entries = append(entries, map[string]interface{}{
			"teamName": e.TeamName,
			"score":    e.Score,
			"rank":     e.Rank,
		})
	}
	h.Broadcast(sessionCode, EventScoreboardUpdated, map[string]interface{}{
		"sessionCode": sessionCode,
		"leaderboard": entries,
		"timestamp":   timestamp(),
	})
}
