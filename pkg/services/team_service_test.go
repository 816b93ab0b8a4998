package services

import (
	"testing"

	"github.com/backsoul/teamquiz/pkg/auth"
	"github.com/backsoul/teamquiz/pkg/errs"
	"github.com/backsoul/teamquiz/pkg/models"
)

func TestJoinIssuesTeamToken(t *testing.T) {
	env := newTestEnv(t)
	quiz := env.createQuiz(t)
	session := env.createSession(t, quiz.ID)

	resp := env.joinTeam(t, session.SessionCode, "Red")
	if resp.QuizID != quiz.ID || resp.SessionCode != session.SessionCode {
		t.Errorf("response = %+v, want the session's quiz and code", resp)
	}

	principal, err := env.tokens.VerifyToken(resp.TeamToken)
	if err != nil {
		t.Fatalf("VerifyToken: %v", err)
	}
	if principal.Role != auth.RoleTeam {
		t.Errorf("role = %q, want %q", principal.Role, auth.RoleTeam)
	}
	if principal.TeamID != resp.TeamID || principal.TeamName != "Red" || principal.SessionID != session.ID {
		t.Errorf("principal = %+v, want team %s in session %s", principal, resp.TeamID, session.ID)
	}

	team, err := env.teams.GetTeam(resp.TeamID)
	if err != nil {
		t.Fatalf("GetTeam: %v", err)
	}
	if team.Name != "Red" || team.SessionID != session.ID {
		t.Errorf("team = %+v", team)
	}
}

func TestJoinDuplicateNameCaseInsensitive(t *testing.T) {
	env := newTestEnv(t)
	quiz := env.createQuiz(t)
	session := env.createSession(t, quiz.ID)

	env.joinTeam(t, session.SessionCode, "Red")
	_, err := env.teams.Join(models.JoinTeamRequest{SessionCode: session.SessionCode, TeamName: "RED"})
	if !errs.IsConflict(err) {
		t.Errorf("err = %v, want Conflict", err)
	}

	// El mismo nombre en otra sesión sí es válido
	other := env.createSession(t, quiz.ID)
	if _, err := env.teams.Join(models.JoinTeamRequest{SessionCode: other.SessionCode, TeamName: "Red"}); err != nil {
		t.Errorf("same name on another session: %v", err)
	}
}

func TestJoinValidation(t *testing.T) {
	env := newTestEnv(t)

	_, err := env.teams.Join(models.JoinTeamRequest{TeamName: "Red"})
	if !errs.IsInvalidRequest(err) {
		t.Errorf("missing code: err = %v, want InvalidRequest", err)
	}

	_, err = env.teams.Join(models.JoinTeamRequest{SessionCode: "NOPE42", TeamName: "   "})
	if !errs.IsInvalidRequest(err) {
		t.Errorf("blank name: err = %v, want InvalidRequest", err)
	}

	_, err = env.teams.Join(models.JoinTeamRequest{SessionCode: "NOPE42", TeamName: "Red"})
	if !errs.IsNotFound(err) {
		t.Errorf("unknown session: err = %v, want NotFound", err)
	}
}

func TestListTeams(t *testing.T) {
	env := newTestEnv(t)
	quiz := env.createQuiz(t)
	session := env.createSession(t, quiz.ID)

	env.joinTeam(t, session.SessionCode, "Red")
	env.joinTeam(t, session.SessionCode, "Blue")

	teams, err := env.teams.ListTeams(session.ID)
	if err != nil {
		t.Fatalf("ListTeams: %v", err)
	}
	if len(teams) != 2 {
		t.Fatalf("got %d teams, want 2", len(teams))
	}
	names := map[string]bool{}
	for _, team := range teams {
		names[team.Name] = true
	}
	if !names["Red"] || !names["Blue"] {
		t.Errorf("teams = %v, want Red and Blue", names)
	}
}

func TestListTeamsPrunesDanglingEntries(t *testing.T) {
	env := newTestEnv(t)
	quiz := env.createQuiz(t)
	session := env.createSession(t, quiz.ID)

	resp := env.joinTeam(t, session.SessionCode, "Ghost")
	env.joinTeam(t, session.SessionCode, "Alive")

	// Simula un registro perdido con su entrada de índice colgante
	env.store.mu.Lock()
	delete(env.store.values, teamKey(resp.TeamID))
	env.store.mu.Unlock()

	teams, err := env.teams.ListTeams(session.ID)
	if err != nil {
		t.Fatalf("ListTeams: %v", err)
	}
	if len(teams) != 1 || teams[0].Name != "Alive" {
		t.Errorf("teams = %+v, want only Alive", teams)
	}

	members, err := env.store.SMembers(teamsSetKey(session.ID))
	if err != nil {
		t.Fatalf("SMembers: %v", err)
	}
	if len(members) != 1 {
		t.Errorf("index still has %d members, want 1", len(members))
	}
}
