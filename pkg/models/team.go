package models

import "time"

// Team un equipo unido a una sesión; el nombre es único dentro de la sesión
type Team struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	SessionID    string    `json:"sessionId"`
	Disqualified bool      `json:"disqualified"`
	JoinedAt     time.Time `json:"joinedAt"`
}

// JoinTeamRequest request para unirse a una sesión como equipo
type JoinTeamRequest struct {
	SessionCode string `json:"sessionCode"`
	TeamName    string `json:"teamName"`
}

// JoinTeamResponse respuesta con el token del equipo
type JoinTeamResponse struct {
	TeamID      string `json:"teamId"`
	TeamToken   string `json:"teamToken"`
	QuizID      string `json:"quizId"`
	SessionCode string `json:"sessionCode"`
}

// TeamsResponse listado de equipos de una sesión
type TeamsResponse struct {
	SessionCode string `json:"sessionCode"`
	Teams       []Team `json:"teams"`
	TotalTeams  int    `json:"totalTeams"`
}
