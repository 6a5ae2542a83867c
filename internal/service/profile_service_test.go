package service

import (
	"context"
	"encoding/base64"
	"fmt"
	"testing"

	"mentormatch/internal/model"
	"mentormatch/pkg/apperror"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newProfileFixture(t *testing.T) (ProfileService, *fakeUserRepo) {
	t.Helper()

	users := newFakeUserRepo()
	return NewProfileService(users, nil, nil), users
}

func seedUser(t *testing.T, users *fakeUserRepo, role string) *model.User {
	t.Helper()

	user := &model.User{
		Email: uuid.NewString() + "@example.com",
		Name:  "Someone",
		Role:  role,
	}
	require.NoError(t, users.Create(context.Background(), user))
	return user
}

func TestMe(t *testing.T) {
	svc, users := newProfileFixture(t)
	user := seedUser(t, users, model.RoleMentee)

	payload, err := svc.Me(context.Background(), user.ID)
	require.NoError(t, err)
	assert.Equal(t, user.ID, payload.ID)
	assert.Equal(t, user.Email, payload.Email)
}

func TestMeNotFound(t *testing.T) {
	svc, _ := newProfileFixture(t)

	_, err := svc.Me(context.Background(), uuid.New())
	assert.ErrorIs(t, err, apperror.ErrNotFound)
}

func TestUpdateProfile(t *testing.T) {
	svc, users := newProfileFixture(t)
	mentor := seedUser(t, users, model.RoleMentor)

	skills := []string{"go", "postgres"}
	payload, err := svc.UpdateProfile(context.Background(), mentor.ID, UpdateProfileInput{
		Name:   strPtr("Alice"),
		Bio:    strPtr("Backend engineer"),
		Skills: &skills,
	})
	require.NoError(t, err)

	assert.Equal(t, "Alice", payload.Name)
	assert.Equal(t, "Backend engineer", payload.Bio)
	assert.Equal(t, []string{"go", "postgres"}, payload.Skills)
}

func TestUpdateProfileSkillsIgnoredForMentee(t *testing.T) {
	svc, users := newProfileFixture(t)
	mentee := seedUser(t, users, model.RoleMentee)

	skills := []string{"go"}
	payload, err := svc.UpdateProfile(context.Background(), mentee.ID, UpdateProfileInput{
		Skills: &skills,
	})
	require.NoError(t, err)
	assert.Nil(t, payload.Skills)

	stored, err := users.FindByID(context.Background(), mentee.ID)
	require.NoError(t, err)
	assert.Empty(t, stored.Skills)
}

func TestUpdateProfileSanitizesFields(t *testing.T) {
	svc, users := newProfileFixture(t)
	mentor := seedUser(t, users, model.RoleMentor)

	skills := []string{"<b>go</b>", "<script></script>"}
	payload, err := svc.UpdateProfile(context.Background(), mentor.ID, UpdateProfileInput{
		Bio:    strPtr("<script>alert(1)</script>honest bio"),
		Skills: &skills,
	})
	require.NoError(t, err)

	assert.Equal(t, "honest bio", payload.Bio)
	// Markup-only skills are dropped rather than stored empty.
	assert.Equal(t, []string{"go"}, payload.Skills)
}

func TestUpdateProfileImageStoredInDatabase(t *testing.T) {
	svc, users := newProfileFixture(t)
	mentee := seedUser(t, users, model.RoleMentee)

	image := base64.StdEncoding.EncodeToString([]byte("fake image bytes"))
	payload, err := svc.UpdateProfile(context.Background(), mentee.ID, UpdateProfileInput{
		Image: &image,
	})
	require.NoError(t, err)

	// Without cloud storage the image lands on the user row and is served
	// from the blob endpoint.
	assert.Equal(t, fmt.Sprintf("/api/images/mentee/%s", mentee.ID), payload.ImageURL)

	data, redirect, err := svc.GetImage(context.Background(), model.RoleMentee, mentee.ID)
	require.NoError(t, err)
	assert.Empty(t, redirect)
	assert.Equal(t, []byte("fake image bytes"), data)
}

func TestUpdateProfileImageUploadedToStorage(t *testing.T) {
	users := newFakeUserRepo()
	imageStorage := newFakeImageStorage()
	svc := NewProfileService(users, imageStorage, nil)
	mentor := seedUser(t, users, model.RoleMentor)

	image := base64.StdEncoding.EncodeToString([]byte("fake image bytes"))
	payload, err := svc.UpdateProfile(context.Background(), mentor.ID, UpdateProfileInput{
		Image: &image,
	})
	require.NoError(t, err)

	assert.Equal(t, 1, imageStorage.uploads)
	assert.Contains(t, payload.ImageURL, "https://images.test/profiles/")

	_, redirect, err := svc.GetImage(context.Background(), model.RoleMentor, mentor.ID)
	require.NoError(t, err)
	assert.Equal(t, payload.ImageURL, redirect)
}

func TestUpdateProfileImageInvalidBase64(t *testing.T) {
	svc, users := newProfileFixture(t)
	mentee := seedUser(t, users, model.RoleMentee)

	_, err := svc.UpdateProfile(context.Background(), mentee.ID, UpdateProfileInput{
		Image: strPtr("not-base64!!!"),
	})
	assert.ErrorIs(t, err, apperror.ErrInvalidInput)
}

func TestUpdateProfileImageTooLarge(t *testing.T) {
	svc, users := newProfileFixture(t)
	mentee := seedUser(t, users, model.RoleMentee)

	oversized := base64.StdEncoding.EncodeToString(make([]byte, maxImageBytes+1))
	_, err := svc.UpdateProfile(context.Background(), mentee.ID, UpdateProfileInput{
		Image: &oversized,
	})
	assert.ErrorIs(t, err, apperror.ErrInvalidInput)
}

func TestGetImagePlaceholder(t *testing.T) {
	svc, users := newProfileFixture(t)
	mentor := seedUser(t, users, model.RoleMentor)

	data, redirect, err := svc.GetImage(context.Background(), model.RoleMentor, mentor.ID)
	require.NoError(t, err)
	assert.Nil(t, data)
	assert.Contains(t, redirect, "placehold.co")
}

func TestGetImageRoleMismatch(t *testing.T) {
	svc, users := newProfileFixture(t)
	mentee := seedUser(t, users, model.RoleMentee)

	_, _, err := svc.GetImage(context.Background(), model.RoleMentor, mentee.ID)
	assert.ErrorIs(t, err, apperror.ErrInvalidInput)
}

func TestGetImageInvalidRole(t *testing.T) {
	svc, _ := newProfileFixture(t)

	_, _, err := svc.GetImage(context.Background(), "admin", uuid.New())
	assert.ErrorIs(t, err, apperror.ErrInvalidInput)
}
