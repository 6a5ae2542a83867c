package repository

import (
	"context"

	"mentormatch/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// MentorFilter narrows and orders the mentor directory listing.
type MentorFilter struct {
	// Skill matches mentors whose skills list contains the exact skill.
	Skill string
	// OrderBy is "name" or "skill"; anything else falls back to name.
	OrderBy string
}

type UserRepository interface {
	Create(ctx context.Context, user *model.User) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.User, error)
	FindByEmail(ctx context.Context, email string) (*model.User, error)
	Update(ctx context.Context, user *model.User) error
	FindMentors(ctx context.Context, filter MentorFilter) ([]*model.User, error)
	FindMentorsByIDs(ctx context.Context, ids []uuid.UUID) ([]*model.User, error)
}

type userRepository struct {
	db *gorm.DB
}

func NewUserRepository(db *gorm.DB) UserRepository {
	return &userRepository{db: db}
}

func (r *userRepository) Create(ctx context.Context, user *model.User) error {
	return r.db.WithContext(ctx).Create(user).Error
}

func (r *userRepository) FindByID(ctx context.Context, id uuid.UUID) (*model.User, error) {
	var user model.User
	if err := r.db.WithContext(ctx).
		Where("id = ?", id).
		First(&user).Error; err != nil {
		return nil, err
	}

	return &user, nil
}

func (r *userRepository) FindByEmail(ctx context.Context, email string) (*model.User, error) {
	var user model.User
	if err := r.db.WithContext(ctx).
		Where("email = ?", email).
		First(&user).Error; err != nil {
		return nil, err
	}

	return &user, nil
}

func (r *userRepository) Update(ctx context.Context, user *model.User) error {
	return r.db.WithContext(ctx).Save(user).Error
}

func (r *userRepository) FindMentors(ctx context.Context, filter MentorFilter) ([]*model.User, error) {
	query := r.db.WithContext(ctx).
		Model(&model.User{}).
		Where("role = ?", model.RoleMentor)

	if filter.Skill != "" {
		// Skills are a JSON-encoded list, so an exact skill match is a
		// substring match on the quoted element.
		query = query.Where(`skills LIKE ?`, `%"`+filter.Skill+`"%`)
	}

	switch filter.OrderBy {
	case "skill":
		query = query.Order("skills asc")
	default:
		query = query.Order("name asc")
	}

	var mentors []*model.User
	if err := query.Find(&mentors).Error; err != nil {
		return nil, err
	}

	return mentors, nil
}

func (r *userRepository) FindMentorsByIDs(ctx context.Context, ids []uuid.UUID) ([]*model.User, error) {
	if len(ids) == 0 {
		return []*model.User{}, nil
	}

	var mentors []*model.User
	if err := r.db.WithContext(ctx).
		Where("role = ? AND id IN ?", model.RoleMentor, ids).
		Find(&mentors).Error; err != nil {
		return nil, err
	}

	// Preserve the order the search index returned.
	byID := make(map[uuid.UUID]*model.User, len(mentors))
	for _, m := range mentors {
		byID[m.ID] = m
	}

	ordered := make([]*model.User, 0, len(ids))
	for _, id := range ids {
		if m, ok := byID[id]; ok {
			ordered = append(ordered, m)
		}
	}

	return ordered, nil
}
