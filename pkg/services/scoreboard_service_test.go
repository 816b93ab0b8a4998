package services

import (
	"testing"

	"github.com/backsoul/teamquiz/pkg/errs"
)

func TestScoreboardTiesShareDenseRank(t *testing.T) {
	env := newTestEnv(t)
	quiz := env.createQuiz(t)
	session := env.createSession(t, quiz.ID)
	alpha := env.joinTeam(t, session.SessionCode, "Alpha")
	beta := env.joinTeam(t, session.SessionCode, "Beta")
	gamma := env.joinTeam(t, session.SessionCode, "Gamma")

	q1 := quiz.Questions[0].ID
	submitAnswer(t, env, alpha.TeamID, session.SessionCode, q1, `"choice_2"`)
	submitAnswer(t, env, beta.TeamID, session.SessionCode, q1, `"choice_2"`)
	submitAnswer(t, env, gamma.TeamID, session.SessionCode, q1, `"choice_1"`)

	scoreboard, err := env.scoreboard.Scoreboard(session.SessionCode)
	if err != nil {
		t.Fatalf("Scoreboard: %v", err)
	}
	entries := scoreboard.Leaderboard
	if len(entries) != 3 {
		t.Fatalf("leaderboard has %d entries, want 3", len(entries))
	}

	// Alpha respondió antes que Beta con el mismo puntaje: va primero pero
	// comparten rank. Gamma con 0 puntos queda en el rank denso siguiente.
	if entries[0].TeamName != "Alpha" || entries[0].Score != 10 || entries[0].Rank != 1 {
		t.Errorf("entries[0] = %+v, want Alpha 10 pts rank 1", entries[0])
	}
	if entries[1].TeamName != "Beta" || entries[1].Score != 10 || entries[1].Rank != 1 {
		t.Errorf("entries[1] = %+v, want Beta 10 pts rank 1", entries[1])
	}
	if entries[2].TeamName != "Gamma" || entries[2].Score != 0 || entries[2].Rank != 2 {
		t.Errorf("entries[2] = %+v, want Gamma 0 pts rank 2", entries[2])
	}
}

func TestScoreboardOrdersByScoreDescending(t *testing.T) {
	env := newTestEnv(t)
	quiz := env.createQuiz(t)
	session := env.createSession(t, quiz.ID)
	low := env.joinTeam(t, session.SessionCode, "Low")
	high := env.joinTeam(t, session.SessionCode, "High")

	// Low solo acierta la TF (5 pts); High acierta las dos (15 pts)
	submitAnswer(t, env, low.TeamID, session.SessionCode, quiz.Questions[1].ID, `true`)
	submitAnswer(t, env, high.TeamID, session.SessionCode, quiz.Questions[0].ID, `"choice_2"`)
	submitAnswer(t, env, high.TeamID, session.SessionCode, quiz.Questions[1].ID, `true`)

	scoreboard, err := env.scoreboard.Scoreboard(session.SessionCode)
	if err != nil {
		t.Fatalf("Scoreboard: %v", err)
	}
	entries := scoreboard.Leaderboard
	if len(entries) != 2 {
		t.Fatalf("leaderboard has %d entries, want 2", len(entries))
	}
	if entries[0].TeamName != "High" || entries[0].Score != 15 || entries[0].Rank != 1 {
		t.Errorf("entries[0] = %+v, want High 15 pts rank 1", entries[0])
	}
	if entries[1].TeamName != "Low" || entries[1].Score != 5 || entries[1].Rank != 2 {
		t.Errorf("entries[1] = %+v, want Low 5 pts rank 2", entries[1])
	}
}

func TestScoreboardWithoutAnswers(t *testing.T) {
	env := newTestEnv(t)
	quiz := env.createQuiz(t)
	session := env.createSession(t, quiz.ID)
	env.joinTeam(t, session.SessionCode, "Quiet")

	scoreboard, err := env.scoreboard.Scoreboard(session.SessionCode)
	if err != nil {
		t.Fatalf("Scoreboard: %v", err)
	}
	if len(scoreboard.Leaderboard) != 1 {
		t.Fatalf("leaderboard has %d entries, want 1", len(scoreboard.Leaderboard))
	}
	entry := scoreboard.Leaderboard[0]
	if entry.Score != 0 || entry.Rank != 1 {
		t.Errorf("entry = %+v, want 0 pts rank 1", entry)
	}
	if scoreboard.SessionCode != session.SessionCode {
		t.Errorf("sessionCode = %q, want %q", scoreboard.SessionCode, session.SessionCode)
	}
}

func TestScoreboardUnknownSession(t *testing.T) {
	env := newTestEnv(t)
	if _, err := env.scoreboard.Scoreboard("NOPE42"); !errs.IsNotFound(err) {
		t.Errorf("err = %v, want NotFound", err)
	}
}
