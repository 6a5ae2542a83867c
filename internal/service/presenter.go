package service

import (
	"fmt"
	"os"
	"time"

	"mentormatch/internal/model"

	"github.com/google/uuid"
)

// UserPayload is the public shape of a user across auth, profile and mentor
// responses. Skills are only populated for mentors.
type UserPayload struct {
	ID        uuid.UUID `json:"id"`
	Email     string    `json:"email"`
	Name      string    `json:"name"`
	Role      string    `json:"role"`
	Bio       string    `json:"bio"`
	Skills    []string  `json:"skills,omitempty"`
	ImageURL  string    `json:"image_url"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func buildUserPayload(user *model.User) *UserPayload {
	payload := &UserPayload{
		ID:        user.ID,
		Email:     user.Email,
		Name:      user.Name,
		Role:      user.Role,
		ImageURL:  profileImageURL(user),
		CreatedAt: user.CreatedAt,
		UpdatedAt: user.UpdatedAt,
	}

	if user.Bio != nil {
		payload.Bio = *user.Bio
	}

	if user.IsMentor() {
		payload.Skills = user.Skills
		if payload.Skills == nil {
			payload.Skills = []string{}
		}
	}

	return payload
}

// profileImageURL resolves the image reference: external URL if the image
// lives in cloud storage, the blob endpoint if it lives in the database,
// a role-specific placeholder otherwise.
func profileImageURL(user *model.User) string {
	if user.ImageURL != nil && *user.ImageURL != "" {
		return *user.ImageURL
	}

	if len(user.Image) > 0 {
		return fmt.Sprintf("/api/images/%s/%s", user.Role, user.ID)
	}

	return placeholderImageURL(user.Role)
}

func placeholderImageURL(role string) string {
	if role == model.RoleMentor {
		if url := os.Getenv("MENTOR_PLACEHOLDER_IMAGE_LINK"); url != "" {
			return url
		}
		return "https://placehold.co/500x500.jpg?text=MENTOR"
	}

	if url := os.Getenv("MENTEE_PLACEHOLDER_IMAGE_LINK"); url != "" {
		return url
	}
	return "https://placehold.co/500x500.jpg?text=MENTEE"
}
