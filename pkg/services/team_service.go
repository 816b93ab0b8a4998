package services

import (
	"encoding/json"
	"log"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/backsoul/teamquiz/pkg/auth"
	"github.com/backsoul/teamquiz/pkg/errs"
	"github.com/backsoul/teamquiz/pkg/models"
)

// TeamService maneja la unión de equipos a una sesión. El nombre es único
// dentro de la sesión: la reserva con SetNX decide las carreras.
type TeamService struct {
	store    Store
	sessions *SessionService
	tokens   *auth.TokenService
}

func NewTeamService(store Store, sessions *SessionService, tokens *auth.TokenService) *TeamService {
	return &TeamService{store: store, sessions: sessions, tokens: tokens}
}

func teamKey(id string) string { return "quiz:team:" + id }

func teamsSetKey(sessionID string) string { return "quiz:session_teams:" + sessionID }

func teamNameKey(sessionID, name string) string {
	return "quiz:session_team_names:" + sessionID + ":" + strings.ToLower(name)
}

// Join crea el equipo y devuelve su token firmado
func (s *TeamService) Join(req models.JoinTeamRequest) (*models.JoinTeamResponse, error) {
	if req.SessionCode == "" {
		return nil, errs.InvalidRequestf("sessionCode is required")
	}
	if strings.TrimSpace(req.TeamName) == "" {
		return nil, errs.InvalidRequestf("teamName is required")
	}

	session, err := s.sessions.GetSession(req.SessionCode)
	if err != nil {
		if errs.IsNotFound(err) {
			return nil, errs.NotFoundf("Session with code %q not found", req.SessionCode)
		}
		return nil, err
	}

	team := models.Team{
		ID:        uuid.New().String(),
		Name:      strings.TrimSpace(req.TeamName),
		SessionID: session.ID,
		JoinedAt:  time.Now().UTC(),
	}

	ok, err := s.store.SetNX(teamNameKey(session.ID, team.Name), team.ID, 0)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, errs.Conflictf("A team with name %q has already joined this session", team.Name)
	}

	data, err := json.Marshal(team)
	if err != nil {
		return nil, errs.Wrap(errs.KindInternal, err, "could not encode team")
	}
	if err := s.store.Set(teamKey(team.ID), string(data), 0); err != nil {
		return nil, err
	}
	if err := s.store.SAdd(teamsSetKey(session.ID), team.ID); err != nil {
		log.Printf("could not index team %s: %v", team.ID, err)
	}

	token, err := s.tokens.SignTeamToken(team.ID, team.Name, session.ID)
	if err != nil {
		return nil, err
	}

	return &models.JoinTeamResponse{
		TeamID:      team.ID,
		TeamToken:   token,
		QuizID:      session.QuizID,
		SessionCode: session.SessionCode,
	}, nil
}

// GetTeam obtiene un equipo por ID
func (s *TeamService) GetTeam(id string) (*models.Team, error) {
	raw, err := s.store.Get(teamKey(id))
	if err != nil {
		if errs.IsNotFound(err) {
			return nil, errs.NotFoundf("Team not found")
		}
		return nil, err
	}

	var team models.Team
	if err := json.Unmarshal([]byte(raw), &team); err != nil {
		return nil, errs.Wrap(errs.KindInternal, err, "could not decode team")
	}
	return &team, nil
}

// ListTeams devuelve los equipos unidos a una sesión
func (s *TeamService) ListTeams(sessionID string) ([]models.Team, error) {
	ids, err := s.store.SMembers(teamsSetKey(sessionID))
	if err != nil {
		return nil, err
	}

	var teams []models.Team
	for _, id := range ids {
		team, err := s.GetTeam(id)
		if err != nil {
			if errs.IsNotFound(err) {
				s.store.SRem(teamsSetKey(sessionID), id)
			} else {
				log.Printf("could not load team %s: %v", id, err)
			}
			continue
		}
		teams = append(teams, *team)
	}
	return teams, nil
}
