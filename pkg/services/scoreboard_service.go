package services

import (
	"sort"
	"time"

	"github.com/backsoul/teamquiz/pkg/models"
)

// ScoreboardService deriva la tabla de posiciones del libro de respuestas.
// Lectura pura: puede consultarse en cualquier estado de la sesión.
type ScoreboardService struct {
	sessions *SessionService
	teams    *TeamService
	answers  *AnswerService
}

func NewScoreboardService(sessions *SessionService, teams *TeamService, answers *AnswerService) *ScoreboardService {
	return &ScoreboardService{sessions: sessions, teams: teams, answers: answers}
}

// Scoreboard suma los puntos de cada equipo y ordena descendente.
// Desempate: el equipo que alcanzó su puntaje antes queda primero
// (timestamp de su última respuesta puntuada); los empatados comparten
// el mismo rank denso.
func (s *ScoreboardService) Scoreboard(sessionCode string) (*models.Scoreboard, error) {
	session, err := s.sessions.GetSession(sessionCode)
	if err != nil {
		return nil, err
	}

	teams, err := s.teams.ListTeams(session.ID)
	if err != nil {
		return nil, err
	}
	answers, err := s.answers.ListAnswers(session.ID)
	if err != nil {
		return nil, err
	}

	totals := make(map[string]int)
	lastScored := make(map[string]time.Time)
	for _, a := range answers {
		totals[a.TeamID] += a.PointsAwarded
		if a.PointsAwarded > 0 && a.AnsweredAt.After(lastScored[a.TeamID]) {
			lastScored[a.TeamID] = a.AnsweredAt
		}
	}

	entries := make([]models.LeaderboardEntry, 0, len(teams))
	for _, team := range teams {
		entries = append(entries, models.LeaderboardEntry{
			TeamID:   team.ID,
			TeamName: team.Name,
			Score:    totals[team.ID],
		})
	}

	sort.SliceStable(entries, func(i, j int) bool {
		if entries[i].Score != entries[j].Score {
			return entries[i].Score > entries[j].Score
		}
		ti, tj := lastScored[entries[i].TeamID], lastScored[entries[j].TeamID]
		if !ti.Equal(tj) {
			return ti.Before(tj)
		}
		return entries[i].TeamName < entries[j].TeamName
	})

	rank := 0
	for i := range entries {
		if i == 0 || entries[i].Score < entries[i-1].Score {
			rank++
		}
		entries[i].Rank = rank
	}

	return &models.Scoreboard{
		SessionCode: session.SessionCode,
		Leaderboard: entries,
	}, nil
}
