package service

import (
	"bytes"
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"log"
	"strings"

	"mentormatch/internal/model"
	"mentormatch/internal/repository"
	"mentormatch/pkg/apperror"
	"mentormatch/pkg/storage"

	"github.com/google/uuid"
	"github.com/microcosm-cc/bluemonday"
	"gorm.io/gorm"
)

// maxImageBytes caps the decoded profile image size.
const maxImageBytes = 1 << 20

type UpdateProfileInput struct {
	Name   *string   `json:"name" binding:"omitempty,min=1,max=100"`
	Bio    *string   `json:"bio" binding:"omitempty,max=1000"`
	Skills *[]string `json:"skills" binding:"omitempty,dive,min=1,max=50"`
	// Image is a base64-encoded JPEG/PNG, at most 1MB decoded.
	Image *string `json:"image"`
}

type ProfileService interface {
	Me(ctx context.Context, userID uuid.UUID) (*UserPayload, error)
	UpdateProfile(ctx context.Context, userID uuid.UUID, input UpdateProfileInput) (*UserPayload, error)
	// GetImage returns either the stored image bytes or a URL to redirect to.
	GetImage(ctx context.Context, role string, userID uuid.UUID) ([]byte, string, error)
}

type profileService struct {
	repo         repository.UserRepository
	imageStorage storage.ImageStorage
	search       MentorSearchService
	sanitizer    *bluemonday.Policy
}

func NewProfileService(repo repository.UserRepository, imageStorage storage.ImageStorage, search MentorSearchService) ProfileService {
	return &profileService{
		repo:         repo,
		imageStorage: imageStorage,
		search:       search,
		sanitizer:    bluemonday.StrictPolicy(),
	}
}

func (s *profileService) Me(ctx context.Context, userID uuid.UUID) (*UserPayload, error) {
	user, err := s.repo.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperror.New(0, "user not found", apperror.ErrNotFound)
		}
		return nil, err
	}

	return buildUserPayload(user), nil
}

func (s *profileService) UpdateProfile(ctx context.Context, userID uuid.UUID, input UpdateProfileInput) (*UserPayload, error) {
	user, err := s.repo.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperror.New(0, "user not found", apperror.ErrNotFound)
		}
		return nil, err
	}

	if input.Name != nil {
		name := strings.TrimSpace(s.sanitizer.Sanitize(*input.Name))
		if name == "" {
			return nil, fmt.Errorf("%w: name must not be empty", apperror.ErrInvalidInput)
		}
		user.Name = name
	}

	if input.Bio != nil {
		bio := strings.TrimSpace(s.sanitizer.Sanitize(*input.Bio))
		user.Bio = &bio
	}

	// Skills only mean something for mentors; silently ignored otherwise.
	if input.Skills != nil && user.IsMentor() {
		skills := make(model.StringList, 0, len(*input.Skills))
		for _, skill := range *input.Skills {
			if trimmed := strings.TrimSpace(s.sanitizer.Sanitize(skill)); trimmed != "" {
				skills = append(skills, trimmed)
			}
		}
		user.Skills = skills
	}

	if input.Image != nil && *input.Image != "" {
		if err := s.applyImage(ctx, user, *input.Image); err != nil {
			return nil, err
		}
	}

	if err := s.repo.Update(ctx, user); err != nil {
		return nil, err
	}

	if user.IsMentor() && s.search != nil {
		if err := s.search.IndexMentor(user); err != nil {
			log.Printf("failed to re-index mentor %s: %v", user.ID, err)
		}
	}

	return buildUserPayload(user), nil
}

func (s *profileService) applyImage(ctx context.Context, user *model.User, encoded string) error {
	data, err := base64.StdEncoding.DecodeString(encoded)
	if err != nil {
		return fmt.Errorf("%w: image must be a valid base64 string", apperror.ErrInvalidInput)
	}

	if len(data) > maxImageBytes {
		return fmt.Errorf("%w: image must be less than 1MB", apperror.ErrInvalidInput)
	}

	if s.imageStorage == nil {
		user.Image = data
		user.ImageURL = nil
		return nil
	}

	url, err := s.imageStorage.UploadImage(ctx, bytes.NewReader(data), "profiles", user.ID.String()+".jpg")
	if err != nil {
		return err
	}

	if user.ImageURL != nil && *user.ImageURL != "" {
		if err := s.imageStorage.DeleteImage(ctx, *user.ImageURL); err != nil {
			log.Printf("failed to delete previous profile image for %s: %v", user.ID, err)
		}
	}

	user.ImageURL = &url
	user.Image = nil
	return nil
}

func (s *profileService) GetImage(ctx context.Context, role string, userID uuid.UUID) ([]byte, string, error) {
	if role != model.RoleMentor && role != model.RoleMentee {
		return nil, "", fmt.Errorf("%w: role must be mentor or mentee", apperror.ErrInvalidInput)
	}

	user, err := s.repo.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, "", apperror.New(0, "user not found", apperror.ErrNotFound)
		}
		return nil, "", err
	}

	if user.Role != role {
		return nil, "", fmt.Errorf("%w: user role does not match requested role", apperror.ErrInvalidInput)
	}

	if len(user.Image) > 0 {
		return user.Image, "", nil
	}

	if user.ImageURL != nil && *user.ImageURL != "" {
		return nil, *user.ImageURL, nil
	}

	return nil, placeholderImageURL(role), nil
}
