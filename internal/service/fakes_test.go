package service

import (
	"context"
	"io"
	"sort"
	"strings"
	"sync"
	"time"

	"mentormatch/internal/model"
	"mentormatch/internal/repository"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// In-memory repository fakes. The match request fake applies the same
// conditional-update semantics as the postgres implementation, so the
// lifecycle races can be exercised without a database.

type fakeUserRepo struct {
	mu    sync.Mutex
	users map[uuid.UUID]*model.User
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{users: make(map[uuid.UUID]*model.User)}
}

func (r *fakeUserRepo) Create(ctx context.Context, user *model.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, existing := range r.users {
		if existing.Email == user.Email {
			return gorm.ErrDuplicatedKey
		}
	}

	if user.ID == uuid.Nil {
		user.ID = uuid.New()
	}
	user.CreatedAt = time.Now()
	user.UpdatedAt = user.CreatedAt

	clone := *user
	r.users[user.ID] = &clone
	return nil
}

func (r *fakeUserRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	user, ok := r.users[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}

	clone := *user
	return &clone, nil
}

func (r *fakeUserRepo) FindByEmail(ctx context.Context, email string) (*model.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, user := range r.users {
		if user.Email == email {
			clone := *user
			return &clone, nil
		}
	}

	return nil, gorm.ErrRecordNotFound
}

func (r *fakeUserRepo) Update(ctx context.Context, user *model.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.users[user.ID]; !ok {
		return gorm.ErrRecordNotFound
	}

	user.UpdatedAt = time.Now()
	clone := *user
	r.users[user.ID] = &clone
	return nil
}

func (r *fakeUserRepo) FindMentors(ctx context.Context, filter repository.MentorFilter) ([]*model.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var mentors []*model.User
	for _, user := range r.users {
		if user.Role != model.RoleMentor {
			continue
		}
		if filter.Skill != "" && !hasSkill(user.Skills, filter.Skill) {
			continue
		}
		clone := *user
		mentors = append(mentors, &clone)
	}

	sort.Slice(mentors, func(i, j int) bool {
		if filter.OrderBy == "skill" {
			return strings.Join(mentors[i].Skills, ",") < strings.Join(mentors[j].Skills, ",")
		}
		return mentors[i].Name < mentors[j].Name
	})

	return mentors, nil
}

func (r *fakeUserRepo) FindMentorsByIDs(ctx context.Context, ids []uuid.UUID) ([]*model.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	ordered := make([]*model.User, 0, len(ids))
	for _, id := range ids {
		if user, ok := r.users[id]; ok && user.Role == model.RoleMentor {
			clone := *user
			ordered = append(ordered, &clone)
		}
	}

	return ordered, nil
}

func hasSkill(skills model.StringList, skill string) bool {
	for _, s := range skills {
		if s == skill {
			return true
		}
	}
	return false
}

type fakeMatchRepo struct {
	mu       sync.Mutex
	requests map[uuid.UUID]*model.MatchRequest
	users    *fakeUserRepo
	clock    time.Time
}

func newFakeMatchRepo(users *fakeUserRepo) *fakeMatchRepo {
	return &fakeMatchRepo{
		requests: make(map[uuid.UUID]*model.MatchRequest),
		users:    users,
		clock:    time.Now(),
	}
}

func (r *fakeMatchRepo) Create(ctx context.Context, request *model.MatchRequest) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	// Mirror of the partial unique index on (mentee_id) WHERE pending.
	for _, existing := range r.requests {
		if existing.MenteeID == request.MenteeID && existing.Status == model.StatusPending {
			return gorm.ErrDuplicatedKey
		}
	}

	if request.ID == uuid.Nil {
		request.ID = uuid.New()
	}
	r.clock = r.clock.Add(time.Second)
	request.CreatedAt = r.clock
	request.UpdatedAt = r.clock

	clone := *request
	r.requests[request.ID] = &clone
	return nil
}

func (r *fakeMatchRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.MatchRequest, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	request, ok := r.requests[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}

	clone := *request
	return &clone, nil
}

func (r *fakeMatchRepo) HasPendingForMentee(ctx context.Context, menteeID uuid.UUID) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, request := range r.requests {
		if request.MenteeID == menteeID && request.Status == model.StatusPending {
			return true, nil
		}
	}
	return false, nil
}

func (r *fakeMatchRepo) HasAcceptedForMentor(ctx context.Context, mentorID uuid.UUID) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, request := range r.requests {
		if request.MentorID == mentorID && request.Status == model.StatusAccepted {
			return true, nil
		}
	}
	return false, nil
}

func (r *fakeMatchRepo) FindByMentor(ctx context.Context, mentorID uuid.UUID) ([]*model.MatchRequest, error) {
	return r.findBy(func(request *model.MatchRequest) bool {
		return request.MentorID == mentorID
	}, true)
}

func (r *fakeMatchRepo) FindByMentee(ctx context.Context, menteeID uuid.UUID) ([]*model.MatchRequest, error) {
	return r.findBy(func(request *model.MatchRequest) bool {
		return request.MenteeID == menteeID
	}, false)
}

func (r *fakeMatchRepo) findBy(match func(*model.MatchRequest) bool, preloadMentee bool) ([]*model.MatchRequest, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var requests []*model.MatchRequest
	for _, request := range r.requests {
		if !match(request) {
			continue
		}
		clone := *request
		if preloadMentee {
			clone.Mentee = r.users.users[clone.MenteeID]
		} else {
			clone.Mentor = r.users.users[clone.MentorID]
		}
		requests = append(requests, &clone)
	}

	sort.Slice(requests, func(i, j int) bool {
		return requests[i].CreatedAt.After(requests[j].CreatedAt)
	})

	return requests, nil
}

func (r *fakeMatchRepo) Accept(ctx context.Context, id, mentorID uuid.UUID) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	request, ok := r.requests[id]
	if !ok || request.MentorID != mentorID || request.Status != model.StatusPending {
		return 0, nil
	}

	request.Status = model.StatusAccepted
	request.UpdatedAt = time.Now()

	for _, sibling := range r.requests {
		if sibling.ID != id && sibling.MentorID == mentorID && sibling.Status == model.StatusPending {
			sibling.Status = model.StatusRejected
			sibling.UpdatedAt = time.Now()
		}
	}

	return 1, nil
}

func (r *fakeMatchRepo) MarkRejected(ctx context.Context, id, mentorID uuid.UUID) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	request, ok := r.requests[id]
	if !ok || request.MentorID != mentorID || request.Status != model.StatusPending {
		return 0, nil
	}

	request.Status = model.StatusRejected
	request.UpdatedAt = time.Now()
	return 1, nil
}

func (r *fakeMatchRepo) MarkCancelled(ctx context.Context, id, menteeID uuid.UUID) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	request, ok := r.requests[id]
	if !ok || request.MenteeID != menteeID || request.Status == model.StatusAccepted {
		return 0, nil
	}

	request.Status = model.StatusCancelled
	request.UpdatedAt = time.Now()
	return 1, nil
}

func (r *fakeMatchRepo) statusOf(id uuid.UUID) string {
	r.mu.Lock()
	defer r.mu.Unlock()
	if request, ok := r.requests[id]; ok {
		return request.Status
	}
	return ""
}

func (r *fakeMatchRepo) countStatus(mentorID uuid.UUID, status string) int {
	r.mu.Lock()
	defer r.mu.Unlock()

	count := 0
	for _, request := range r.requests {
		if request.MentorID == mentorID && request.Status == status {
			count++
		}
	}
	return count
}

type fakeNotifier struct {
	mu      sync.Mutex
	created []*model.Notification
}

func (n *fakeNotifier) Create(ctx context.Context, notification *model.Notification) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.created = append(n.created, notification)
	return nil
}

func (n *fakeNotifier) List(ctx context.Context, userID uuid.UUID, limit, offset int) ([]model.Notification, error) {
	return nil, nil
}

func (n *fakeNotifier) MarkAsRead(ctx context.Context, id uuid.UUID) error { return nil }

func (n *fakeNotifier) MarkAllAsRead(ctx context.Context, userID uuid.UUID) error { return nil }

func (n *fakeNotifier) UnreadCount(ctx context.Context, userID uuid.UUID) (int64, error) {
	return 0, nil
}

func (n *fakeNotifier) lastFor(userID uuid.UUID) *model.Notification {
	n.mu.Lock()
	defer n.mu.Unlock()

	for i := len(n.created) - 1; i >= 0; i-- {
		if n.created[i].UserID == userID {
			return n.created[i]
		}
	}
	return nil
}

type fakeSearch struct {
	mu      sync.Mutex
	indexed map[string]*model.User
}

func newFakeSearch() *fakeSearch {
	return &fakeSearch{indexed: make(map[string]*model.User)}
}

func (s *fakeSearch) IndexMentor(mentor *model.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	clone := *mentor
	s.indexed[mentor.ID.String()] = &clone
	return nil
}

func (s *fakeSearch) RemoveMentor(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.indexed, id)
	return nil
}

func (s *fakeSearch) Search(query, skill string) ([]uuid.UUID, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var ids []uuid.UUID
	for _, mentor := range s.indexed {
		if skill != "" && !hasSkill(mentor.Skills, skill) {
			continue
		}
		haystack := strings.ToLower(mentor.Name)
		if mentor.Bio != nil {
			haystack += " " + strings.ToLower(*mentor.Bio)
		}
		if strings.Contains(haystack, strings.ToLower(query)) {
			ids = append(ids, mentor.ID)
		}
	}

	return ids, nil
}

type fakeImageStorage struct {
	mu      sync.Mutex
	uploads int
	deleted []string
	baseURL string
}

func newFakeImageStorage() *fakeImageStorage {
	return &fakeImageStorage{baseURL: "https://images.test"}
}

func (s *fakeImageStorage) UploadImage(ctx context.Context, r io.Reader, folder, fileName string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.uploads++
	return s.baseURL + "/" + folder + "/" + fileName, nil
}

func (s *fakeImageStorage) DeleteImage(ctx context.Context, fileURL string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.deleted = append(s.deleted, fileURL)
	return nil
}
