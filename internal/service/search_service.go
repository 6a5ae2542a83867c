package service

import (
	"encoding/json"
	"fmt"
	"log"

	"mentormatch/internal/model"

	"github.com/google/uuid"
	"github.com/meilisearch/meilisearch-go"
	"github.com/microcosm-cc/bluemonday"
)

const mentorIndex = "mentors"

// MentorSearchService maintains the mentor directory search index. It is
// optional: a nil service means the directory only supports SQL filtering.
type MentorSearchService interface {
	IndexMentor(mentor *model.User) error
	RemoveMentor(id string) error
	Search(query, skill string) ([]uuid.UUID, error)
}

type meiliSearchService struct {
	client    meilisearch.ServiceManager
	sanitizer *bluemonday.Policy
}

func NewMeiliSearchService(client meilisearch.ServiceManager) MentorSearchService {
	s := &meiliSearchService{
		client:    client,
		sanitizer: bluemonday.StrictPolicy(),
	}
	s.initIndex()
	return s
}

func (s *meiliSearchService) initIndex() {
	filterable := []any{"skills"}
	if _, err := s.client.Index(mentorIndex).UpdateFilterableAttributes(&filterable); err != nil {
		log.Printf("Failed to update mentors filterable attributes: %v", err)
	}

	searchable := []string{"name", "bio", "skills"}
	if _, err := s.client.Index(mentorIndex).UpdateSearchableAttributes(&searchable); err != nil {
		log.Printf("Failed to update mentors searchable attributes: %v", err)
	}

	log.Println("Meilisearch mentors index initialized")
}

type meiliMentorDoc struct {
	ID     string   `json:"id"`
	Name   string   `json:"name"`
	Bio    string   `json:"bio"`
	Skills []string `json:"skills"`
}

func (s *meiliSearchService) IndexMentor(mentor *model.User) error {
	doc := meiliMentorDoc{
		ID:     mentor.ID.String(),
		Name:   mentor.Name,
		Skills: mentor.Skills,
	}
	if doc.Skills == nil {
		doc.Skills = []string{}
	}
	if mentor.Bio != nil {
		doc.Bio = s.sanitizer.Sanitize(*mentor.Bio)
	}

	task, err := s.client.Index(mentorIndex).AddDocuments([]meiliMentorDoc{doc}, strPtr("id"))
	if err != nil {
		return err
	}

	log.Printf("Indexed mentor %s, task id: %d", mentor.ID, task.TaskUID)
	return nil
}

func (s *meiliSearchService) RemoveMentor(id string) error {
	_, err := s.client.Index(mentorIndex).DeleteDocument(id)
	return err
}

func (s *meiliSearchService) Search(query, skill string) ([]uuid.UUID, error) {
	req := &meilisearch.SearchRequest{Limit: 50}
	if skill != "" {
		req.Filter = fmt.Sprintf("skills = %q", skill)
	}

	res, err := s.client.Index(mentorIndex).Search(query, req)
	if err != nil {
		return nil, err
	}

	ids := make([]uuid.UUID, 0, len(res.Hits))
	for _, hit := range res.Hits {
		raw, ok := hit["id"]
		if !ok {
			continue
		}

		var idStr string
		if err := json.Unmarshal(raw, &idStr); err != nil {
			continue
		}

		if id, err := uuid.Parse(idStr); err == nil {
			ids = append(ids, id)
		}
	}

	return ids, nil
}

func strPtr(s string) *string {
	return &s
}
