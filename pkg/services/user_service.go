package services

import (
	"encoding/json"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/backsoul/teamquiz/pkg/auth"
	"github.com/backsoul/teamquiz/pkg/errs"
	"github.com/backsoul/teamquiz/pkg/models"
)

// UserService cuentas de administrador: registro y login
type UserService struct {
	store  Store
	tokens *auth.TokenService
}

func NewUserService(store Store, tokens *auth.TokenService) *UserService {
	return &UserService{store: store, tokens: tokens}
}

func userKey(email string) string { return "quiz:user:" + strings.ToLower(email) }

// Register crea la cuenta y devuelve un token de acceso
func (s *UserService) Register(email, password string) (*models.AuthResponse, error) {
	email = strings.TrimSpace(strings.ToLower(email))
	if email == "" || !strings.Contains(email, "@") {
		return nil, errs.InvalidRequestf("a valid email is required")
	}
	if len(password) < 8 {
		return nil, errs.InvalidRequestf("password must be at least 8 characters")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, errs.Wrap(errs.KindInternal, err, "could not hash password")
	}

	user := models.User{
		ID:           uuid.New().String(),
		Email:        email,
		PasswordHash: string(hash),
		CreatedAt:    time.Now().UTC(),
	}

	data, err := json.Marshal(user)
	if err != nil {
		return nil, errs.Wrap(errs.KindInternal, err, "could not encode user")
	}
	ok, err := s.store.SetNX(userKey(email), string(data), 0)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, errs.Conflictf("Email already registered")
	}

	return s.authResponse(user)
}

// Login verifica las credenciales y devuelve un token de acceso
func (s *UserService) Login(email, password string) (*models.AuthResponse, error) {
	email = strings.TrimSpace(strings.ToLower(email))

	raw, err := s.store.Get(userKey(email))
	if err != nil {
		return nil, errs.Unauthorizedf("Invalid credentials")
	}

	var user models.User
	if err := json.Unmarshal([]byte(raw), &user); err != nil {
		return nil, errs.Wrap(errs.KindInternal, err, "could not decode user")
	}

	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)) != nil {
		return nil, errs.Unauthorizedf("Invalid credentials")
	}

	return s.authResponse(user)
}

func (s *UserService) authResponse(user models.User) (*models.AuthResponse, error) {
	token, err := s.tokens.SignAdminToken(user.ID, user.Email)
	if err != nil {
		return nil, err
	}
	return &models.AuthResponse{
		AccessToken: token,
		User: models.UserInfo{
			ID:    user.ID,
			Email: user.Email,
			Role:  auth.RoleAdmin,
		},
	}, nil
}
