package service

import (
	"context"
	"crypto/subtle"
	"errors"
	"strings"
	"time"

	"paulinepos/internal/config"
	"paulinepos/internal/dto"
	"paulinepos/internal/model"
	"paulinepos/internal/store"

	"github.com/golang-jwt/jwt/v5"
	"github.com/rs/zerolog/log"
	"golang.org/x/crypto/bcrypt"
)

var (
	ErrEmailTaken         = errors.New("email déjà utilisé")
	ErrInvalidCredentials = errors.New("email ou mot de passe incorrect")
	ErrWrongPassword      = errors.New("mot de passe actuel incorrect")
	ErrUserNotFound       = errors.New("utilisateur introuvable")
)

const bcryptCost = 12

type AuthService interface {
	Register(ctx context.Context, req dto.RegisterRequest) (*dto.LoginResponse, error)
	Login(ctx context.Context, req dto.LoginRequest) (*dto.LoginResponse, error)
	Logout(ctx context.Context)
	Me(ctx context.Context, id model.UserID) (*dto.UserResponse, error)
	UpdateProfile(ctx context.Context, id model.UserID, req dto.UpdateProfileRequest) (*dto.UserResponse, error)
	ChangePassword(ctx context.Context, id model.UserID, req dto.ChangePasswordRequest) error
}

type authService struct {
	store *store.Store
	cfg   *config.Config
	now   func() time.Time
}

func NewAuthService(s *store.Store, cfg *config.Config) AuthService {
	return &authService{store: s, cfg: cfg, now: time.Now}
}

// Register creates the account and signs the new user in.
func (s *authService) Register(ctx context.Context, req dto.RegisterRequest) (*dto.LoginResponse, error) {
	email := strings.TrimSpace(req.Email)
	if _, taken := s.store.UserByEmail(email); taken {
		return nil, ErrEmailTaken
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcryptCost)
	if err != nil {
		return nil, err
	}
	// the early lookup spares a bcrypt round; this insert is the real check
	id, added := s.store.AddUserIfEmailFree(model.User{
		Firstname: strings.TrimSpace(req.Firstname),
		Lastname:  strings.TrimSpace(req.Lastname),
		Email:     email,
		Password:  string(hash),
	})
	if !added {
		return nil, ErrEmailTaken
	}
	user, ok := s.store.User(id)
	if !ok {
		return nil, ErrUserNotFound
	}
	log.Info().Str("user_id", string(id)).Msg("auth: user registered")
	return s.signIn(user)
}

func (s *authService) Login(ctx context.Context, req dto.LoginRequest) (*dto.LoginResponse, error) {
	user, ok := s.store.UserByEmail(req.Email)
	if !ok {
		return nil, ErrInvalidCredentials
	}
	legacy, match := checkPassword(user.Password, req.Password)
	if !match {
		return nil, ErrInvalidCredentials
	}
	if legacy {
		// accounts imported from the mobile app stored the password as is
		if hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcryptCost); err == nil {
			h := string(hash)
			s.store.UpdateUser(user.ID, model.UserPatch{Password: &h})
			log.Info().Str("user_id", string(user.ID)).Msg("auth: legacy password rehashed")
		}
	}
	return s.signIn(user)
}

func (s *authService) Logout(ctx context.Context) {
	s.store.Logout()
}

func (s *authService) Me(ctx context.Context, id model.UserID) (*dto.UserResponse, error) {
	user, ok := s.store.User(id)
	if !ok {
		return nil, ErrUserNotFound
	}
	resp := toUserResponse(user)
	return &resp, nil
}

func (s *authService) UpdateProfile(ctx context.Context, id model.UserID, req dto.UpdateProfileRequest) (*dto.UserResponse, error) {
	email := strings.TrimSpace(req.Email)
	first := strings.TrimSpace(req.Firstname)
	last := strings.TrimSpace(req.Lastname)
	found, free := s.store.UpdateUserIfEmailFree(id, model.UserPatch{Firstname: &first, Lastname: &last, Email: &email})
	if !found {
		return nil, ErrUserNotFound
	}
	if !free {
		return nil, ErrEmailTaken
	}
	return s.Me(ctx, id)
}

func (s *authService) ChangePassword(ctx context.Context, id model.UserID, req dto.ChangePasswordRequest) error {
	user, ok := s.store.User(id)
	if !ok {
		return ErrUserNotFound
	}
	if _, match := checkPassword(user.Password, req.CurrentPassword); !match {
		return ErrWrongPassword
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(req.NewPassword), bcryptCost)
	if err != nil {
		return err
	}
	h := string(hash)
	s.store.UpdateUser(id, model.UserPatch{Password: &h})
	return nil
}

func (s *authService) signIn(user model.User) (*dto.LoginResponse, error) {
	token, err := s.generateToken(user)
	if err != nil {
		return nil, err
	}
	s.store.SetCurrentUser(user.ID)
	return &dto.LoginResponse{
		AccessToken: token,
		TokenType:   "bearer",
		ExpiresIn:   int(s.cfg.JWTExpiration().Seconds()),
		User:        toUserResponse(user),
	}, nil
}

func (s *authService) generateToken(user model.User) (string, error) {
	now := s.now()
	claims := jwt.MapClaims{
		"user_id": string(user.ID),
		"email":   user.Email,
		"exp":     now.Add(s.cfg.JWTExpiration()).Unix(),
		"iat":     now.Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(s.cfg.JWTSecret))
}

// checkPassword compares against a bcrypt hash, or against the raw value
// for accounts that predate hashing. legacy is true in the latter case.
func checkPassword(stored, given string) (legacy, match bool) {
	if isBcryptHash(stored) {
		return false, bcrypt.CompareHashAndPassword([]byte(stored), []byte(given)) == nil
	}
	if stored == "" {
		return true, false
	}
	return true, subtle.ConstantTimeCompare([]byte(stored), []byte(given)) == 1
}

func isBcryptHash(s string) bool {
	_, err := bcrypt.Cost([]byte(s))
	return err == nil
}

func toUserResponse(u model.User) dto.UserResponse {
	return dto.UserResponse{
		ID:        string(u.ID),
		Firstname: u.Firstname,
		Lastname:  u.Lastname,
		Email:     u.Email,
	}
}
