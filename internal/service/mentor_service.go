package service

import (
	"context"
	"log"

	"mentormatch/internal/model"
	"mentormatch/internal/repository"

	"github.com/google/uuid"
)

type MentorQuery struct {
	Skill   string
	OrderBy string
	// Query is a free-text search over name/bio/skills, honored when the
	// search index is configured.
	Query string
}

// MentorSummary is a mentor directory entry.
type MentorSummary struct {
	ID      uuid.UUID     `json:"id"`
	Email   string        `json:"email"`
	Role    string        `json:"role"`
	Profile MentorProfile `json:"profile"`
}

type MentorProfile struct {
	Name     string   `json:"name"`
	Bio      string   `json:"bio"`
	ImageURL string   `json:"image_url"`
	Skills   []string `json:"skills"`
}

type MentorService interface {
	ListMentors(ctx context.Context, query MentorQuery) ([]MentorSummary, error)
}

type mentorService struct {
	repo   repository.UserRepository
	search MentorSearchService
}

func NewMentorService(repo repository.UserRepository, search MentorSearchService) MentorService {
	return &mentorService{
		repo:   repo,
		search: search,
	}
}

func (s *mentorService) ListMentors(ctx context.Context, query MentorQuery) ([]MentorSummary, error) {
	var (
		mentors []*model.User
		err     error
	)

	if query.Query != "" && s.search != nil {
		ids, searchErr := s.search.Search(query.Query, query.Skill)
		if searchErr != nil {
			// Degrade to the SQL listing rather than failing the request.
			log.Printf("mentor search failed, falling back to listing: %v", searchErr)
		} else {
			mentors, err = s.repo.FindMentorsByIDs(ctx, ids)
			if err != nil {
				return nil, err
			}
			return buildMentorSummaries(mentors), nil
		}
	}

	mentors, err = s.repo.FindMentors(ctx, repository.MentorFilter{
		Skill:   query.Skill,
		OrderBy: query.OrderBy,
	})
	if err != nil {
		return nil, err
	}

	return buildMentorSummaries(mentors), nil
}

func buildMentorSummaries(mentors []*model.User) []MentorSummary {
	summaries := make([]MentorSummary, 0, len(mentors))
	for _, mentor := range mentors {
		profile := MentorProfile{
			Name:     mentor.Name,
			ImageURL: profileImageURL(mentor),
			Skills:   mentor.Skills,
		}
		if profile.Skills == nil {
			profile.Skills = []string{}
		}
		if mentor.Bio != nil {
			profile.Bio = *mentor.Bio
		}

		summaries = append(summaries, MentorSummary{
			ID:      mentor.ID,
			Email:   mentor.Email,
			Role:    mentor.Role,
			Profile: profile,
		})
	}

	return summaries
}
