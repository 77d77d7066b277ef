package mocks

import (
	"context"
	"sort"
	"strings"
	"sync"

	"github.com/blog-publishing-api/internal/models"
	"github.com/blog-publishing-api/internal/repository"
)

// MockRepositories bundles in-memory implementations of every repository
type MockRepositories struct {
	Users    *MockUserRepository
	Sessions *MockSessionRepository
	Posts    *MockPostRepository
	Comments *MockCommentRepository
	Tags     *MockTagRepository
}

func NewMockRepositories() *MockRepositories {
	return &MockRepositories{
		Users:    NewMockUserRepository(),
		Sessions: NewMockSessionRepository(),
		Posts:    NewMockPostRepository(),
		Comments: NewMockCommentRepository(),
		Tags:     NewMockTagRepository(),
	}
}

// Repositories exposes the mocks through the repository interfaces
func (m *MockRepositories) Repositories() *repository.Repositories {
	return &repository.Repositories{
		User:    m.Users,
		Session: m.Sessions,
		Post:    m.Posts,
		Comment: m.Comments,
		Tag:     m.Tags,
	}
}

// MockUserRepository is a mock implementation of UserRepository
type MockUserRepository struct {
	mu          sync.Mutex
	Users       map[string]*models.User
	EmailToUser map[string]*models.User
	InsertError error
	GetError    error
}

var _ repository.UserRepository = (*MockUserRepository)(nil)

func NewMockUserRepository() *MockUserRepository {
	return &MockUserRepository{
		Users:       make(map[string]*models.User),
		EmailToUser: make(map[string]*models.User),
	}
}

func (m *MockUserRepository) Create(ctx context.Context, user *models.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.InsertError != nil {
		return m.InsertError
	}
	if _, exists := m.EmailToUser[user.Email]; exists {
		return repository.ErrDuplicate
	}
	stored := *user
	m.Users[user.ID] = &stored
	m.EmailToUser[user.Email] = &stored
	return nil
}

func (m *MockUserRepository) GetByID(ctx context.Context, id string) (*models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.GetError != nil {
		return nil, m.GetError
	}
	return copyUser(m.Users[id]), nil
}

func (m *MockUserRepository) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.GetError != nil {
		return nil, m.GetError
	}
	return copyUser(m.EmailToUser[email]), nil
}

func (m *MockUserRepository) EmailExists(ctx context.Context, email string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, exists := m.EmailToUser[email]
	return exists, nil
}

func (m *MockUserRepository) UpdateProfile(ctx context.Context, id, name string, picture *string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if user, ok := m.Users[id]; ok {
		user.Name = name
		user.Picture = picture
	}
	return nil
}

func (m *MockUserRepository) Count(ctx context.Context) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.Users), nil
}

func copyUser(u *models.User) *models.User {
	if u == nil {
		return nil
	}
	c := *u
	return &c
}

// MockSessionRepository is a mock implementation of SessionRepository
type MockSessionRepository struct {
	mu       sync.Mutex
	Sessions map[string]*models.Session
	GetError error
}

var _ repository.SessionRepository = (*MockSessionRepository)(nil)

func NewMockSessionRepository() *MockSessionRepository {
	return &MockSessionRepository{Sessions: make(map[string]*models.Session)}
}

func (m *MockSessionRepository) Create(ctx context.Context, session *models.Session) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	stored := *session
	m.Sessions[session.Token] = &stored
	return nil
}

func (m *MockSessionRepository) GetByToken(ctx context.Context, token string) (*models.Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.GetError != nil {
		return nil, m.GetError
	}
	session, ok := m.Sessions[token]
	if !ok {
		return nil, nil
	}
	c := *session
	return &c, nil
}

func (m *MockSessionRepository) Delete(ctx context.Context, token string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.Sessions, token)
	return nil
}

// MockPostRepository is a mock implementation of PostRepository
type MockPostRepository struct {
	mu          sync.Mutex
	Posts       map[string]*models.Post
	InsertError error
	ListError   error
}

var _ repository.PostRepository = (*MockPostRepository)(nil)

func NewMockPostRepository() *MockPostRepository {
	return &MockPostRepository{Posts: make(map[string]*models.Post)}
}

func (m *MockPostRepository) Create(ctx context.Context, post *models.Post) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.InsertError != nil {
		return m.InsertError
	}
	m.Posts[post.ID] = copyPost(post)
	return nil
}

func (m *MockPostRepository) GetByID(ctx context.Context, id string) (*models.Post, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return copyPost(m.Posts[id]), nil
}

func (m *MockPostRepository) Update(ctx context.Context, post *models.Post) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.Posts[post.ID]; ok {
		m.Posts[post.ID] = copyPost(post)
	}
	return nil
}

func (m *MockPostRepository) Delete(ctx context.Context, id string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.Posts[id]; !ok {
		return false, nil
	}
	delete(m.Posts, id)
	return true, nil
}

func (m *MockPostRepository) List(ctx context.Context, filter models.PostFilter) ([]*models.Post, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.ListError != nil {
		return nil, m.ListError
	}

	matched := m.match(filter)
	if filter.Offset >= len(matched) {
		return []*models.Post{}, nil
	}
	matched = matched[filter.Offset:]
	if filter.Limit > 0 && len(matched) > filter.Limit {
		matched = matched[:filter.Limit]
	}
	return matched, nil
}

func (m *MockPostRepository) Count(ctx context.Context, filter models.PostFilter) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.match(filter)), nil
}

// match returns copies of the posts passing filter, newest first
func (m *MockPostRepository) match(filter models.PostFilter) []*models.Post {
	search := strings.ToLower(filter.Search)
	result := make([]*models.Post, 0, len(m.Posts))
	for _, p := range m.Posts {
		if filter.PublishedOnly && !p.Published {
			continue
		}
		if filter.Tag != "" && !containsTag(p.Tags, filter.Tag) {
			continue
		}
		if search != "" && !postMatches(p, search) {
			continue
		}
		result = append(result, copyPost(p))
	}
	sort.Slice(result, func(i, j int) bool {
		return result[i].CreatedAt.After(result[j].CreatedAt)
	})
	return result
}

func containsTag(tags []string, tag string) bool {
	for _, t := range tags {
		if t == tag {
			return true
		}
	}
	return false
}

func postMatches(p *models.Post, search string) bool {
	if strings.Contains(strings.ToLower(p.Title), search) ||
		strings.Contains(strings.ToLower(p.Content), search) {
		return true
	}
	for _, t := range p.Tags {
		if strings.Contains(strings.ToLower(t), search) {
			return true
		}
	}
	return false
}

func copyPost(p *models.Post) *models.Post {
	if p == nil {
		return nil
	}
	c := *p
	c.Tags = append([]string{}, p.Tags...)
	return &c
}

// MockCommentRepository is a mock implementation of CommentRepository
type MockCommentRepository struct {
	mu       sync.Mutex
	Comments map[string]*models.Comment
}

var _ repository.CommentRepository = (*MockCommentRepository)(nil)

func NewMockCommentRepository() *MockCommentRepository {
	return &MockCommentRepository{Comments: make(map[string]*models.Comment)}
}

func (m *MockCommentRepository) Create(ctx context.Context, comment *models.Comment) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	c := *comment
	m.Comments[comment.ID] = &c
	return nil
}

func (m *MockCommentRepository) ListByPost(ctx context.Context, postID string, limit int) ([]*models.Comment, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	result := make([]*models.Comment, 0)
	for _, c := range m.Comments {
		if c.PostID == postID {
			cc := *c
			result = append(result, &cc)
		}
	}
	sort.Slice(result, func(i, j int) bool {
		return result[i].CreatedAt.After(result[j].CreatedAt)
	})
	if limit > 0 && len(result) > limit {
		result = result[:limit]
	}
	return result, nil
}

func (m *MockCommentRepository) CountByPost(ctx context.Context, postID string) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	count := 0
	for _, c := range m.Comments {
		if c.PostID == postID {
			count++
		}
	}
	return count, nil
}

func (m *MockCommentRepository) Delete(ctx context.Context, postID, commentID string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	c, ok := m.Comments[commentID]
	if !ok || c.PostID != postID {
		return false, nil
	}
	delete(m.Comments, commentID)
	return true, nil
}

func (m *MockCommentRepository) DeleteByPost(ctx context.Context, postID string) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var removed int64
	for id, c := range m.Comments {
		if c.PostID == postID {
			delete(m.Comments, id)
			removed++
		}
	}
	return removed, nil
}

func (m *MockCommentRepository) Count(ctx context.Context) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.Comments), nil
}

// MockTagRepository is a mock implementation of TagRepository
type MockTagRepository struct {
	mu          sync.Mutex
	Counts      map[string]int
	AdjustCalls []map[string]int
	AdjustError error
}

var _ repository.TagRepository = (*MockTagRepository)(nil)

func NewMockTagRepository() *MockTagRepository {
	return &MockTagRepository{Counts: make(map[string]int)}
}

func (m *MockTagRepository) Adjust(ctx context.Context, deltas map[string]int) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.AdjustError != nil {
		return m.AdjustError
	}
	call := make(map[string]int, len(deltas))
	for name, d := range deltas {
		call[name] = d
		m.Counts[name] += d
	}
	m.AdjustCalls = append(m.AdjustCalls, call)
	for name, count := range m.Counts {
		if count <= 0 {
			delete(m.Counts, name)
		}
	}
	return nil
}

func (m *MockTagRepository) List(ctx context.Context, limit int) ([]*models.Tag, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	tags := make([]*models.Tag, 0, len(m.Counts))
	for name, count := range m.Counts {
		if count > 0 {
			tags = append(tags, &models.Tag{Name: name, Count: count})
		}
	}
	sort.Slice(tags, func(i, j int) bool {
		if tags[i].Count != tags[j].Count {
			return tags[i].Count > tags[j].Count
		}
		return tags[i].Name < tags[j].Name
	})
	if limit > 0 && len(tags) > limit {
		tags = tags[:limit]
	}
	return tags, nil
}

func (m *MockTagRepository) Count(ctx context.Context) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.Counts), nil
}
