package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"mentormatch/internal/model"
	"mentormatch/internal/repository"
	"mentormatch/pkg/apperror"

	"github.com/golang-jwt/jwt/v5"
	"github.com/microcosm-cc/bluemonday"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

type SignupInput struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=6"`
	Name     string `json:"name" binding:"required,max=100"`
	Role     string `json:"role" binding:"required,oneof=mentor mentee"`
}

type LoginInput struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

type AuthResponse struct {
	Token string       `json:"token"`
	User  *UserPayload `json:"user"`
}

type AuthService interface {
	Signup(ctx context.Context, input SignupInput) (*AuthResponse, error)
	Login(ctx context.Context, input LoginInput) (*AuthResponse, error)
}

type authService struct {
	repo      repository.UserRepository
	search    MentorSearchService
	sanitizer *bluemonday.Policy
	secret    string
	tokenTTL  time.Duration
}

func NewAuthService(repo repository.UserRepository, search MentorSearchService, secret string, tokenTTL time.Duration) AuthService {
	return &authService{
		repo:      repo,
		search:    search,
		sanitizer: bluemonday.StrictPolicy(),
		secret:    secret,
		tokenTTL:  tokenTTL,
	}
}

func (s *authService) Signup(ctx context.Context, input SignupInput) (*AuthResponse, error) {
	email := strings.ToLower(strings.TrimSpace(input.Email))

	if _, err := s.repo.FindByEmail(ctx, email); err == nil {
		return nil, apperror.ErrEmailTaken
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	name := strings.TrimSpace(s.sanitizer.Sanitize(input.Name))
	if name == "" {
		return nil, fmt.Errorf("%w: name must not be empty", apperror.ErrInvalidInput)
	}

	user := &model.User{
		Email:        email,
		PasswordHash: string(hashedPassword),
		Name:         name,
		Role:         input.Role,
	}

	if err := s.repo.Create(ctx, user); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, apperror.ErrEmailTaken
		}
		return nil, err
	}

	if user.IsMentor() && s.search != nil {
		if err := s.search.IndexMentor(user); err != nil {
			log.Printf("failed to index mentor %s: %v", user.ID, err)
		}
	}

	return s.buildAuthResponse(user)
}

func (s *authService) Login(ctx context.Context, input LoginInput) (*AuthResponse, error) {
	email := strings.ToLower(strings.TrimSpace(input.Email))

	user, err := s.repo.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperror.ErrInvalidCredentials
		}
		return nil, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(input.Password)); err != nil {
		return nil, apperror.ErrInvalidCredentials
	}

	return s.buildAuthResponse(user)
}

func (s *authService) buildAuthResponse(user *model.User) (*AuthResponse, error) {
	claims := newAuthClaims(user, s.tokenTTL)

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(s.secret))
	if err != nil {
		return nil, err
	}

	return &AuthResponse{
		Token: signed,
		User:  buildUserPayload(user),
	}, nil
}
