package auth

import (
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/valyala/fasthttp"

	"github.com/backsoul/teamquiz/pkg/errs"
)

// Roles que puede llevar un principal autenticado
const (
	RoleAdmin = "admin"
	RoleTeam  = "team"
)

// Principal identidad verificada adjunta a una petición o socket
type Principal struct {
	Role      string
	UserID    string
	Email     string
	TeamID    string
	TeamName  string
	SessionID string
}

// TokenService firma y verifica los tokens de administrador y de equipo.
// Cada rol usa su propio secreto HS256.
type TokenService struct {
	adminSecret []byte
	teamSecret  []byte
	adminTTL    time.Duration
	teamTTL     time.Duration
}

func NewTokenService(adminSecret, teamSecret string, adminTTL, teamTTL time.Duration) *TokenService {
	return &TokenService{
		adminSecret: []byte(adminSecret),
		teamSecret:  []byte(teamSecret),
		adminTTL:    adminTTL,
		teamTTL:     teamTTL,
	}
}

// SignAdminToken genera el token de acceso de un administrador
func (t *TokenService) SignAdminToken(userID, email string) (string, error) {
	claims := jwt.MapClaims{
		"sub":   userID,
		"role":  RoleAdmin,
		"email": email,
		"exp":   time.Now().Add(t.adminTTL).Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(t.adminSecret)
	if err != nil {
		return "", errs.Wrap(errs.KindInternal, err, "could not sign admin token")
	}
	return signed, nil
}

// SignTeamToken genera el token de un equipo unido a una sesión
func (t *TokenService) SignTeamToken(teamID, teamName, sessionID string) (string, error) {
	claims := jwt.MapClaims{
		"teamId":    teamID,
		"teamName":  teamName,
		"sessionId": sessionID,
		"type":      RoleTeam,
		"exp":       time.Now().Add(t.teamTTL).Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(t.teamSecret)
	if err != nil {
		return "", errs.Wrap(errs.KindInternal, err, "could not sign team token")
	}
	return signed, nil
}

// VerifyToken valida un token de cualquiera de los dos roles y devuelve
// el principal que representa
func (t *TokenService) VerifyToken(tokenString string) (*Principal, error) {
	claims := jwt.MapClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(tk *jwt.Token) (interface{}, error) {
		if _, ok := tk.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errs.Unauthorizedf("unexpected signing method")
		}
		// El secreto depende del rol declarado en los claims; la firma
		// valida después que el rol no fue falsificado.
		if role, _ := claims["role"].(string); role == RoleAdmin {
			return t.adminSecret, nil
		}
		if typ, _ := claims["type"].(string); typ == RoleTeam {
			return t.teamSecret, nil
		}
		return nil, errs.Unauthorizedf("token carries no recognized role")
	})
	if err != nil || !token.Valid {
		return nil, errs.Unauthorizedf("invalid or expired token")
	}

	if role, _ := claims["role"].(string); role == RoleAdmin {
		userID, _ := claims["sub"].(string)
		email, _ := claims["email"].(string)
		return &Principal{Role: RoleAdmin, UserID: userID, Email: email}, nil
	}

	teamID, _ := claims["teamId"].(string)
	teamName, _ := claims["teamName"].(string)
	sessionID, _ := claims["sessionId"].(string)
	if teamID == "" {
		return nil, errs.Unauthorizedf("invalid team token")
	}
	return &Principal{Role: RoleTeam, TeamID: teamID, TeamName: teamName, SessionID: sessionID}, nil
}

// FromRequest extrae y verifica el token del header Authorization o del
// parámetro de query "token" (usado en el upgrade del WebSocket)
func (t *TokenService) FromRequest(ctx *fasthttp.RequestCtx) (*Principal, error) {
	raw := string(ctx.Request.Header.Peek("Authorization"))
	raw = strings.TrimPrefix(raw, "Bearer ")
	if raw == "" {
		raw = string(ctx.QueryArgs().Peek("token"))
	}
	if raw == "" {
		return nil, errs.Unauthorizedf("missing authentication token")
	}
	return t.VerifyToken(raw)
}
