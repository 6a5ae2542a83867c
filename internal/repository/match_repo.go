package repository

import (
	"context"

	"mentormatch/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// MatchRequestRepository is the persistence surface of the match request
// lifecycle engine. The mutating operations are conditional on the current
// status so concurrent transitions cannot double-apply: a zero row count
// means another transition won the race.
type MatchRequestRepository interface {
	Create(ctx context.Context, request *model.MatchRequest) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.MatchRequest, error)
	HasPendingForMentee(ctx context.Context, menteeID uuid.UUID) (bool, error)
	HasAcceptedForMentor(ctx context.Context, mentorID uuid.UUID) (bool, error)
	FindByMentor(ctx context.Context, mentorID uuid.UUID) ([]*model.MatchRequest, error)
	FindByMentee(ctx context.Context, menteeID uuid.UUID) ([]*model.MatchRequest, error)

	// Accept flips the target request pending→accepted and every other
	// pending request of the same mentor pending→rejected, in one
	// transaction. Returns the number of rows the accept itself touched.
	Accept(ctx context.Context, id, mentorID uuid.UUID) (int64, error)
	// MarkRejected flips pending→rejected for the mentor's own request.
	MarkRejected(ctx context.Context, id, mentorID uuid.UUID) (int64, error)
	// MarkCancelled flips any non-accepted status→cancelled for the
	// mentee's own request.
	MarkCancelled(ctx context.Context, id, menteeID uuid.UUID) (int64, error)
}

type matchRequestRepository struct {
	db *gorm.DB
}

func NewMatchRequestRepository(db *gorm.DB) MatchRequestRepository {
	return &matchRequestRepository{db: db}
}

func (r *matchRequestRepository) Create(ctx context.Context, request *model.MatchRequest) error {
	return r.db.WithContext(ctx).Create(request).Error
}

func (r *matchRequestRepository) FindByID(ctx context.Context, id uuid.UUID) (*model.MatchRequest, error) {
	var request model.MatchRequest
	if err := r.db.WithContext(ctx).
		Where("id = ?", id).
		First(&request).Error; err != nil {
		return nil, err
	}

	return &request, nil
}

func (r *matchRequestRepository) HasPendingForMentee(ctx context.Context, menteeID uuid.UUID) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&model.MatchRequest{}).
		Where("mentee_id = ? AND status = ?", menteeID, model.StatusPending).
		Count(&count).Error; err != nil {
		return false, err
	}

	return count > 0, nil
}

func (r *matchRequestRepository) HasAcceptedForMentor(ctx context.Context, mentorID uuid.UUID) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&model.MatchRequest{}).
		Where("mentor_id = ? AND status = ?", mentorID, model.StatusAccepted).
		Count(&count).Error; err != nil {
		return false, err
	}

	return count > 0, nil
}

func (r *matchRequestRepository) FindByMentor(ctx context.Context, mentorID uuid.UUID) ([]*model.MatchRequest, error) {
	var requests []*model.MatchRequest
	if err := r.db.WithContext(ctx).
		Preload("Mentee").
		Where("mentor_id = ?", mentorID).
		Order("created_at desc").
		Find(&requests).Error; err != nil {
		return nil, err
	}

	return requests, nil
}

func (r *matchRequestRepository) FindByMentee(ctx context.Context, menteeID uuid.UUID) ([]*model.MatchRequest, error) {
	var requests []*model.MatchRequest
	if err := r.db.WithContext(ctx).
		Preload("Mentor").
		Where("mentee_id = ?", menteeID).
		Order("created_at desc").
		Find(&requests).Error; err != nil {
		return nil, err
	}

	return requests, nil
}

func (r *matchRequestRepository) Accept(ctx context.Context, id, mentorID uuid.UUID) (int64, error) {
	var accepted int64
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&model.MatchRequest{}).
			Where("id = ? AND mentor_id = ? AND status = ?", id, mentorID, model.StatusPending).
			Update("status", model.StatusAccepted)
		if res.Error != nil {
			return res.Error
		}

		accepted = res.RowsAffected
		if accepted == 0 {
			// Lost the race; nothing to reject either.
			return nil
		}

		return tx.Model(&model.MatchRequest{}).
			Where("mentor_id = ? AND status = ? AND id <> ?", mentorID, model.StatusPending, id).
			Update("status", model.StatusRejected).Error
	})

	return accepted, err
}

func (r *matchRequestRepository) MarkRejected(ctx context.Context, id, mentorID uuid.UUID) (int64, error) {
	res := r.db.WithContext(ctx).
		Model(&model.MatchRequest{}).
		Where("id = ? AND mentor_id = ? AND status = ?", id, mentorID, model.StatusPending).
		Update("status", model.StatusRejected)

	return res.RowsAffected, res.Error
}

func (r *matchRequestRepository) MarkCancelled(ctx context.Context, id, menteeID uuid.UUID) (int64, error) {
	res := r.db.WithContext(ctx).
		Model(&model.MatchRequest{}).
		Where("id = ? AND mentee_id = ? AND status <> ?", id, menteeID, model.StatusAccepted).
		Update("status", model.StatusCancelled)

	return res.RowsAffected, res.Error
}
