package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"

	"mentormatch/internal/model"
	"mentormatch/internal/repository"
	"mentormatch/pkg/apperror"

	"github.com/google/uuid"
	"github.com/microcosm-cc/bluemonday"
	"gorm.io/gorm"
)

type CreateMatchRequestInput struct {
	MentorID uuid.UUID `json:"mentor_id" binding:"required"`
	Message  string    `json:"message" binding:"required,max=500"`
}

// MatchRequestPayload is the wire shape of a lifecycle result.
type MatchRequestPayload struct {
	ID       uuid.UUID `json:"id"`
	MentorID uuid.UUID `json:"mentor_id"`
	MenteeID uuid.UUID `json:"mentee_id"`
	Message  string    `json:"message"`
	Status   string    `json:"status"`
}

// CounterpartProfile carries the public profile fields of the other party
// in a listing. Skills are set only when the counterpart is a mentor.
type CounterpartProfile struct {
	Name     string   `json:"name"`
	Email    string   `json:"email"`
	Bio      string   `json:"bio"`
	Skills   []string `json:"skills,omitempty"`
	ImageURL string   `json:"image_url"`
}

type IncomingRequest struct {
	MatchRequestPayload
	Mentee *CounterpartProfile `json:"mentee"`
}

type OutgoingRequest struct {
	MatchRequestPayload
	Mentor *CounterpartProfile `json:"mentor"`
}

// MatchService is the match request lifecycle engine. It owns every
// precondition and status transition:
//
//	pending → accepted   (owning mentor; rejects all pending siblings)
//	pending → rejected   (owning mentor, or a sibling accept)
//	pending|rejected → cancelled (owning mentee)
//
// Nothing transitions out of accepted.
type MatchService interface {
	CreateRequest(ctx context.Context, menteeID uuid.UUID, input CreateMatchRequestInput) (*MatchRequestPayload, error)
	AcceptRequest(ctx context.Context, mentorID, requestID uuid.UUID) (*MatchRequestPayload, error)
	RejectRequest(ctx context.Context, mentorID, requestID uuid.UUID) (*MatchRequestPayload, error)
	CancelRequest(ctx context.Context, menteeID, requestID uuid.UUID) (*MatchRequestPayload, error)
	ListIncoming(ctx context.Context, mentorID uuid.UUID) ([]IncomingRequest, error)
	ListOutgoing(ctx context.Context, menteeID uuid.UUID) ([]OutgoingRequest, error)
}

type matchService struct {
	requests      repository.MatchRequestRepository
	users         repository.UserRepository
	notifications NotificationService
	sanitizer     *bluemonday.Policy
}

func NewMatchService(requests repository.MatchRequestRepository, users repository.UserRepository, notifications NotificationService) MatchService {
	return &matchService{
		requests:      requests,
		users:         users,
		notifications: notifications,
		sanitizer:     bluemonday.StrictPolicy(),
	}
}

func (s *matchService) CreateRequest(ctx context.Context, menteeID uuid.UUID, input CreateMatchRequestInput) (*MatchRequestPayload, error) {
	mentor, err := s.users.FindByID(ctx, input.MentorID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperror.ErrInvalidMentor
		}
		return nil, err
	}
	if !mentor.IsMentor() {
		return nil, apperror.ErrInvalidMentor
	}

	// One pending request per mentee, to any mentor. The partial unique
	// index backs this check under concurrent creation.
	hasPending, err := s.requests.HasPendingForMentee(ctx, menteeID)
	if err != nil {
		return nil, err
	}
	if hasPending {
		return nil, apperror.ErrDuplicatePendingRequest
	}

	message := strings.TrimSpace(s.sanitizer.Sanitize(input.Message))
	if message == "" {
		return nil, fmt.Errorf("%w: message must not be empty", apperror.ErrInvalidInput)
	}

	request := &model.MatchRequest{
		MentorID: input.MentorID,
		MenteeID: menteeID,
		Message:  message,
		Status:   model.StatusPending,
	}

	if err := s.requests.Create(ctx, request); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, apperror.ErrDuplicatePendingRequest
		}
		return nil, err
	}

	s.notify(ctx, request.MentorID, menteeID, request, model.NotificationRequestReceived,
		"You received a new match request")

	return buildMatchRequestPayload(request), nil
}

func (s *matchService) AcceptRequest(ctx context.Context, mentorID, requestID uuid.UUID) (*MatchRequestPayload, error) {
	request, err := s.findOwnedByMentor(ctx, mentorID, requestID)
	if err != nil {
		return nil, err
	}

	if request.Status != model.StatusPending {
		return nil, apperror.ErrInvalidStatus
	}

	alreadyMatched, err := s.requests.HasAcceptedForMentor(ctx, mentorID)
	if err != nil {
		return nil, err
	}
	if alreadyMatched {
		return nil, apperror.ErrAlreadyMatched
	}

	// The accept and the sibling rejections run in one transaction; the
	// conditional update loses cleanly if the status changed underneath us.
	updated, err := s.requests.Accept(ctx, requestID, mentorID)
	if err != nil {
		return nil, err
	}
	if updated == 0 {
		return nil, apperror.ErrInvalidStatus
	}

	request, err = s.requests.FindByID(ctx, requestID)
	if err != nil {
		return nil, err
	}

	s.notify(ctx, request.MenteeID, mentorID, request, model.NotificationRequestAccepted,
		"Your match request was accepted")

	return buildMatchRequestPayload(request), nil
}

func (s *matchService) RejectRequest(ctx context.Context, mentorID, requestID uuid.UUID) (*MatchRequestPayload, error) {
	request, err := s.findOwnedByMentor(ctx, mentorID, requestID)
	if err != nil {
		return nil, err
	}

	if request.Status != model.StatusPending {
		return nil, apperror.ErrInvalidStatus
	}

	updated, err := s.requests.MarkRejected(ctx, requestID, mentorID)
	if err != nil {
		return nil, err
	}
	if updated == 0 {
		return nil, apperror.ErrInvalidStatus
	}

	request, err = s.requests.FindByID(ctx, requestID)
	if err != nil {
		return nil, err
	}

	s.notify(ctx, request.MenteeID, mentorID, request, model.NotificationRequestRejected,
		"Your match request was rejected")

	return buildMatchRequestPayload(request), nil
}

func (s *matchService) CancelRequest(ctx context.Context, menteeID, requestID uuid.UUID) (*MatchRequestPayload, error) {
	request, err := s.requests.FindByID(ctx, requestID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperror.ErrNotFound
		}
		return nil, err
	}

	if request.MenteeID != menteeID {
		return nil, apperror.New(0, "you can only cancel your own requests", apperror.ErrForbidden)
	}

	// Accepted requests are immutable; pending and already-terminal
	// requests may still be cancelled.
	if request.Status == model.StatusAccepted {
		return nil, apperror.New(0, "accepted request cannot be cancelled", apperror.ErrInvalidStatus)
	}

	updated, err := s.requests.MarkCancelled(ctx, requestID, menteeID)
	if err != nil {
		return nil, err
	}
	if updated == 0 {
		return nil, apperror.ErrInvalidStatus
	}

	request, err = s.requests.FindByID(ctx, requestID)
	if err != nil {
		return nil, err
	}

	s.notify(ctx, request.MentorID, menteeID, request, model.NotificationRequestCancelled,
		"A match request sent to you was cancelled")

	return buildMatchRequestPayload(request), nil
}

func (s *matchService) ListIncoming(ctx context.Context, mentorID uuid.UUID) ([]IncomingRequest, error) {
	requests, err := s.requests.FindByMentor(ctx, mentorID)
	if err != nil {
		return nil, err
	}

	incoming := make([]IncomingRequest, 0, len(requests))
	for _, request := range requests {
		incoming = append(incoming, IncomingRequest{
			MatchRequestPayload: *buildMatchRequestPayload(request),
			Mentee:              buildCounterpartProfile(request.Mentee),
		})
	}

	return incoming, nil
}

func (s *matchService) ListOutgoing(ctx context.Context, menteeID uuid.UUID) ([]OutgoingRequest, error) {
	requests, err := s.requests.FindByMentee(ctx, menteeID)
	if err != nil {
		return nil, err
	}

	outgoing := make([]OutgoingRequest, 0, len(requests))
	for _, request := range requests {
		outgoing = append(outgoing, OutgoingRequest{
			MatchRequestPayload: *buildMatchRequestPayload(request),
			Mentor:              buildCounterpartProfile(request.Mentor),
		})
	}

	return outgoing, nil
}

// findOwnedByMentor loads the request and checks mentor ownership, mapping
// the failures to the taxonomy: missing → not found, not yours → forbidden.
func (s *matchService) findOwnedByMentor(ctx context.Context, mentorID, requestID uuid.UUID) (*model.MatchRequest, error) {
	request, err := s.requests.FindByID(ctx, requestID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperror.ErrNotFound
		}
		return nil, err
	}

	if request.MentorID != mentorID {
		return nil, apperror.New(0, "you can only respond to requests sent to you", apperror.ErrForbidden)
	}

	return request, nil
}

// notify records a lifecycle notification. Failing to notify never fails
// the lifecycle operation.
func (s *matchService) notify(ctx context.Context, recipientID, actorID uuid.UUID, request *model.MatchRequest, notificationType, message string) {
	if s.notifications == nil {
		return
	}

	notification := &model.Notification{
		UserID:    recipientID,
		ActorID:   actorID,
		RequestID: request.ID,
		Type:      notificationType,
		Message:   message,
	}

	if err := s.notifications.Create(ctx, notification); err != nil {
		log.Printf("failed to create %s notification for %s: %v", notificationType, recipientID, err)
	}
}

func buildMatchRequestPayload(request *model.MatchRequest) *MatchRequestPayload {
	return &MatchRequestPayload{
		ID:       request.ID,
		MentorID: request.MentorID,
		MenteeID: request.MenteeID,
		Message:  request.Message,
		Status:   request.Status,
	}
}

func buildCounterpartProfile(user *model.User) *CounterpartProfile {
	if user == nil {
		return nil
	}

	profile := &CounterpartProfile{
		Name:     user.Name,
		Email:    user.Email,
		ImageURL: profileImageURL(user),
	}

	if user.Bio != nil {
		profile.Bio = *user.Bio
	}

	if user.IsMentor() {
		profile.Skills = user.Skills
		if profile.Skills == nil {
			profile.Skills = []string{}
		}
	}

	return profile
}
