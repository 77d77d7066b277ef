package service_test

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/blog-publishing-api/internal/auth"
	"github.com/blog-publishing-api/internal/config"
	"github.com/blog-publishing-api/internal/mocks"
	"github.com/blog-publishing-api/internal/models"
	"github.com/blog-publishing-api/internal/service"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fixture struct {
	repos    *mocks.MockRepositories
	provider *mocks.MockSessionExchanger
	services *service.Services
}

func newFixture(t *testing.T, tokenTTL time.Duration) *fixture {
	t.Helper()
	repos := mocks.NewMockRepositories()
	provider := mocks.NewMockSessionExchanger()
	cfg := &config.Config{
		Auth: config.AuthConfig{
			JWTSecret:  "test-secret",
			TokenTTL:   tokenTTL,
			SessionTTL: 7 * 24 * time.Hour,
		},
	}
	return &fixture{
		repos:    repos,
		provider: provider,
		services: service.NewServices(repos.Repositories(), provider, cfg, zerolog.Nop()),
	}
}

func (f *fixture) register(t *testing.T, email string) *models.AuthResponse {
	t.Helper()
	resp, err := f.services.Auth.Register(context.Background(), &models.RegisterRequest{
		Email: email, Password: "secret-password", Name: "User " + email,
	})
	require.NoError(t, err)
	return resp
}

func (f *fixture) admin(t *testing.T) *models.User {
	t.Helper()
	resp := f.register(t, "admin@example.com")
	require.True(t, resp.User.IsAdmin)
	user := f.services.Auth.ResolveUser(context.Background(), resp.Token)
	require.NotNil(t, user)
	return user
}

func (f *fixture) createPost(t *testing.T, admin *models.User, title string, tags []string, published bool) *models.Post {
	t.Helper()
	post, err := f.services.Post.CreatePost(context.Background(), admin, &models.CreatePostRequest{
		Title: title, Content: "Body of " + title, Tags: tags, Published: &published,
	})
	require.NoError(t, err)
	return post
}

func tagCounts(t *testing.T, f *fixture) map[string]int {
	t.Helper()
	tags, err := f.services.Tag.ListTags(context.Background())
	require.NoError(t, err)
	counts := make(map[string]int, len(tags))
	for _, tag := range tags {
		counts[tag.Name] = tag.Count
	}
	return counts
}

func TestAuth_FirstUserIsAdmin(t *testing.T) {
	f := newFixture(t, time.Hour)

	first := f.register(t, "first@example.com")
	second := f.register(t, "second@example.com")
	third := f.register(t, "third@example.com")

	assert.True(t, first.User.IsAdmin)
	assert.False(t, second.User.IsAdmin)
	assert.False(t, third.User.IsAdmin)
}

func TestAuth_RegisterDuplicateEmail(t *testing.T) {
	f := newFixture(t, time.Hour)
	f.register(t, "dup@example.com")

	_, err := f.services.Auth.Register(context.Background(), &models.RegisterRequest{
		Email: "dup@example.com", Password: "other-password", Name: "Other",
	})
	assert.ErrorIs(t, err, service.ErrConflict)
	assert.Len(t, f.repos.Users.Users, 1)
}

func TestAuth_RegisterValidation(t *testing.T) {
	f := newFixture(t, time.Hour)

	_, err := f.services.Auth.Register(context.Background(), &models.RegisterRequest{
		Email: "not-an-email", Password: "pw", Name: "X",
	})
	assert.ErrorIs(t, err, service.ErrValidation)
	assert.Empty(t, f.repos.Users.Users)
}

func TestAuth_TokenResolvesToIssuingUser(t *testing.T) {
	f := newFixture(t, time.Hour)
	f.register(t, "a@example.com")
	resp := f.register(t, "b@example.com")

	user := f.services.Auth.ResolveUser(context.Background(), resp.Token)
	require.NotNil(t, user)
	assert.Equal(t, resp.User.ID, user.ID)
	assert.Equal(t, "b@example.com", user.Email)
}

func TestAuth_ExpiredTokenDoesNotResolve(t *testing.T) {
	f := newFixture(t, -time.Minute)
	resp := f.register(t, "a@example.com")

	assert.Nil(t, f.services.Auth.ResolveUser(context.Background(), resp.Token))

	_, err := f.services.Auth.RequireAuth(context.Background(), resp.Token)
	assert.ErrorIs(t, err, service.ErrUnauthorized)
}

func TestAuth_Login(t *testing.T) {
	f := newFixture(t, time.Hour)
	registered := f.register(t, "a@example.com")

	tests := []struct {
		name     string
		email    string
		password string
		wantErr  error
	}{
		{"valid credentials", "a@example.com", "secret-password", nil},
		{"wrong password", "a@example.com", "nope", service.ErrUnauthorized},
		{"unknown email", "b@example.com", "secret-password", service.ErrUnauthorized},
		{"missing password", "a@example.com", "", service.ErrValidation},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp, err := f.services.Auth.Login(context.Background(), &models.LoginRequest{
				Email: tt.email, Password: tt.password,
			})
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, registered.User.ID, resp.User.ID)
			assert.NotEmpty(t, resp.Token)
		})
	}
}

func TestAuth_RequireAdmin(t *testing.T) {
	f := newFixture(t, time.Hour)
	admin := f.register(t, "admin@example.com")
	reader := f.register(t, "reader@example.com")
	ctx := context.Background()

	_, err := f.services.Auth.RequireAdmin(ctx, admin.Token)
	assert.NoError(t, err)

	_, err = f.services.Auth.RequireAdmin(ctx, reader.Token)
	assert.ErrorIs(t, err, service.ErrForbidden)

	_, err = f.services.Auth.RequireAdmin(ctx, "")
	assert.ErrorIs(t, err, service.ErrUnauthorized)

	_, err = f.services.Auth.RequireAdmin(ctx, "garbage")
	assert.ErrorIs(t, err, service.ErrUnauthorized)
}

func TestAuth_ResolveUser_StoreErrorIsNotFound(t *testing.T) {
	f := newFixture(t, time.Hour)
	f.repos.Sessions.GetError = errors.New("connection refused")

	assert.Nil(t, f.services.Auth.ResolveUser(context.Background(), "session_unknown"))
}

func TestAuth_ExchangeSession_CreatesUserAndSession(t *testing.T) {
	f := newFixture(t, time.Hour)
	picture := "https://img.example/a.png"
	f.provider.Sessions["sid-1"] = &auth.ProviderSession{
		Email: "oauth@example.com", Name: "OAuth User", Picture: &picture, SessionToken: "provider-token",
	}

	resp, err := f.services.Auth.ExchangeSession(context.Background(), "sid-1")
	require.NoError(t, err)
	assert.Equal(t, "provider-token", resp.Token)
	assert.True(t, resp.User.IsAdmin, "first user created via provider is admin")
	require.NotNil(t, resp.User.Picture)
	assert.Equal(t, picture, *resp.User.Picture)

	session := f.repos.Sessions.Sessions["provider-token"]
	require.NotNil(t, session)
	assert.Equal(t, resp.User.ID, session.UserID)
	assert.WithinDuration(t, time.Now().Add(7*24*time.Hour), session.ExpiresAt, time.Minute)

	user := f.services.Auth.ResolveUser(context.Background(), "provider-token")
	require.NotNil(t, user)
	assert.Equal(t, resp.User.ID, user.ID)
}

func TestAuth_ExchangeSession_RefreshesExistingUser(t *testing.T) {
	f := newFixture(t, time.Hour)
	existing := f.register(t, "a@example.com")
	f.provider.Sessions["sid-1"] = &auth.ProviderSession{Email: "a@example.com", Name: "Renamed"}

	resp, err := f.services.Auth.ExchangeSession(context.Background(), "sid-1")
	require.NoError(t, err)
	assert.Equal(t, existing.User.ID, resp.User.ID)
	assert.Equal(t, "Renamed", resp.User.Name)
	assert.True(t, strings.HasPrefix(resp.Token, "session_"), "missing provider token falls back to a generated one")
	assert.Equal(t, "Renamed", f.repos.Users.Users[existing.User.ID].Name)
	assert.Len(t, f.repos.Users.Users, 1)
}

func TestAuth_ExchangeSession_Errors(t *testing.T) {
	tests := []struct {
		name      string
		sessionID string
		exchange  func(ctx context.Context, sessionID string) (*auth.ProviderSession, error)
		wantErr   error
	}{
		{"missing session id", "", nil, service.ErrValidation},
		{"provider rejects", "sid", func(context.Context, string) (*auth.ProviderSession, error) {
			return nil, fmt.Errorf("%w: status 401", auth.ErrProviderRejected)
		}, service.ErrUnauthorized},
		{"provider unreachable", "sid", func(context.Context, string) (*auth.ProviderSession, error) {
			return nil, fmt.Errorf("%w: dial tcp", auth.ErrProviderUnavailable)
		}, service.ErrServiceUnavailable},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t, time.Hour)
			f.provider.ExchangeFunc = tt.exchange

			_, err := f.services.Auth.ExchangeSession(context.Background(), tt.sessionID)
			assert.ErrorIs(t, err, tt.wantErr)
			assert.Empty(t, f.repos.Sessions.Sessions)
		})
	}
}

func TestAuth_ExpiredSessionDoesNotResolve(t *testing.T) {
	f := newFixture(t, time.Hour)
	resp := f.register(t, "a@example.com")
	f.repos.Sessions.Sessions["session_old"] = &models.Session{
		Token:     "session_old",
		UserID:    resp.User.ID,
		ExpiresAt: time.Now().Add(-time.Second),
		CreatedAt: time.Now().Add(-time.Hour),
	}

	assert.Nil(t, f.services.Auth.ResolveUser(context.Background(), "session_old"))
}

func TestAuth_Logout(t *testing.T) {
	f := newFixture(t, time.Hour)
	f.provider.Sessions["sid-1"] = &auth.ProviderSession{Email: "a@example.com", Name: "A", SessionToken: "tok"}
	_, err := f.services.Auth.ExchangeSession(context.Background(), "sid-1")
	require.NoError(t, err)

	require.NoError(t, f.services.Auth.Logout(context.Background(), "tok"))
	assert.Nil(t, f.services.Auth.ResolveUser(context.Background(), "tok"))
	assert.NoError(t, f.services.Auth.Logout(context.Background(), ""))
}

func TestPost_PreviewDerivation(t *testing.T) {
	f := newFixture(t, time.Hour)
	admin := f.admin(t)
	long := strings.Repeat("é", 250)
	explicit := "Hand written"
	empty := ""

	tests := []struct {
		name    string
		content string
		preview *string
		want    string
	}{
		{"short content", "Short body", nil, "Short body"},
		{"exactly limit", strings.Repeat("x", 200), nil, strings.Repeat("x", 200)},
		{"long content truncated", long, nil, strings.Repeat("é", 200) + "..."},
		{"explicit preview", long, &explicit, "Hand written"},
		{"empty preview derives", "Short body", &empty, "Short body"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			post, err := f.services.Post.CreatePost(context.Background(), admin, &models.CreatePostRequest{
				Title: "T", Content: tt.content, Preview: tt.preview,
			})
			require.NoError(t, err)
			assert.Equal(t, tt.want, post.Preview)
		})
	}
}

func TestPost_CreateDefaults(t *testing.T) {
	f := newFixture(t, time.Hour)
	admin := f.admin(t)

	post, err := f.services.Post.CreatePost(context.Background(), admin, &models.CreatePostRequest{
		Title: "Hello", Content: "# Heading\n\n<script>alert(1)</script>",
	})
	require.NoError(t, err)

	assert.True(t, post.Published)
	assert.NotNil(t, post.Tags)
	assert.True(t, strings.HasPrefix(post.ID, "post_"))
	assert.Equal(t, admin.ID, post.AuthorID)
	assert.Equal(t, admin.Name, post.AuthorName)
	assert.Contains(t, post.ContentHTML, "<h1>Heading</h1>")
	assert.NotContains(t, post.ContentHTML, "<script")
}

func TestPost_CreateRequiresAdmin(t *testing.T) {
	f := newFixture(t, time.Hour)
	f.admin(t)
	reader := f.register(t, "reader@example.com")
	readerUser := f.services.Auth.ResolveUser(context.Background(), reader.Token)
	req := &models.CreatePostRequest{Title: "T", Content: "c"}

	_, err := f.services.Post.CreatePost(context.Background(), readerUser, req)
	assert.ErrorIs(t, err, service.ErrForbidden)

	_, err = f.services.Post.CreatePost(context.Background(), nil, req)
	assert.ErrorIs(t, err, service.ErrUnauthorized)

	assert.Empty(t, f.repos.Posts.Posts)
}

func TestPost_TagLifecycle(t *testing.T) {
	f := newFixture(t, time.Hour)
	admin := f.admin(t)

	post := f.createPost(t, admin, "Tagged", []string{"a", "b"}, true)
	counts := tagCounts(t, f)
	assert.GreaterOrEqual(t, counts["a"], 1)
	assert.GreaterOrEqual(t, counts["b"], 1)

	require.NoError(t, f.services.Post.DeletePost(context.Background(), admin, post.ID))
	counts = tagCounts(t, f)
	assert.NotContains(t, counts, "a")
	assert.NotContains(t, counts, "b")
}

func TestPost_UpdateTagsAppliesDifference(t *testing.T) {
	f := newFixture(t, time.Hour)
	admin := f.admin(t)
	f.createPost(t, admin, "Other", []string{"a", "b"}, true)
	post := f.createPost(t, admin, "Target", []string{"a", "b"}, true)
	require.Equal(t, map[string]int{"a": 2, "b": 2}, tagCounts(t, f))

	newTags := []string{"b", "c"}
	updated, err := f.services.Post.UpdatePost(context.Background(), admin, post.ID, &models.UpdatePostRequest{Tags: &newTags})
	require.NoError(t, err)
	assert.Equal(t, newTags, updated.Tags)

	assert.Equal(t, map[string]int{"a": 1, "b": 2, "c": 1}, tagCounts(t, f))
	last := f.repos.Tags.AdjustCalls[len(f.repos.Tags.AdjustCalls)-1]
	assert.Equal(t, map[string]int{"a": -1, "c": 1}, last)
}

func TestPost_DuplicateTagsCountOnce(t *testing.T) {
	f := newFixture(t, time.Hour)
	admin := f.admin(t)

	post := f.createPost(t, admin, "Dup", []string{"go", "go"}, true)
	assert.Equal(t, []string{"go", "go"}, post.Tags)
	assert.Equal(t, map[string]int{"go": 1}, tagCounts(t, f))

	require.NoError(t, f.services.Post.DeletePost(context.Background(), admin, post.ID))
	assert.Empty(t, tagCounts(t, f))
}

func TestPost_UpdateContentRederives(t *testing.T) {
	f := newFixture(t, time.Hour)
	admin := f.admin(t)
	explicit := "Kept preview"
	post, err := f.services.Post.CreatePost(context.Background(), admin, &models.CreatePostRequest{
		Title: "T", Content: "old", Preview: &explicit,
	})
	require.NoError(t, err)

	title := "New title"
	updated, err := f.services.Post.UpdatePost(context.Background(), admin, post.ID, &models.UpdatePostRequest{Title: &title})
	require.NoError(t, err)
	assert.Equal(t, "Kept preview", updated.Preview, "preview untouched when content unchanged")
	assert.False(t, updated.UpdatedAt.Before(post.UpdatedAt))

	content := "**new** body"
	updated, err = f.services.Post.UpdatePost(context.Background(), admin, post.ID, &models.UpdatePostRequest{Content: &content})
	require.NoError(t, err)
	assert.Equal(t, "**new** body", updated.Preview)
	assert.Contains(t, updated.ContentHTML, "<strong>new</strong>")
	assert.Equal(t, "New title", updated.Title)
}

func TestPost_UpdateEmptyPreviewRederives(t *testing.T) {
	f := newFixture(t, time.Hour)
	admin := f.admin(t)
	explicit := "Hand written"
	post, err := f.services.Post.CreatePost(context.Background(), admin, &models.CreatePostRequest{
		Title: "T", Content: "Body text", Preview: &explicit,
	})
	require.NoError(t, err)
	require.Equal(t, "Hand written", post.Preview)

	empty := ""
	updated, err := f.services.Post.UpdatePost(context.Background(), admin, post.ID, &models.UpdatePostRequest{Preview: &empty})
	require.NoError(t, err)
	assert.Equal(t, "Body text", updated.Preview)
}

func TestPost_UpdateMissing(t *testing.T) {
	f := newFixture(t, time.Hour)
	admin := f.admin(t)
	title := "x"

	_, err := f.services.Post.UpdatePost(context.Background(), admin, "post_missing", &models.UpdatePostRequest{Title: &title})
	assert.ErrorIs(t, err, service.ErrNotFound)

	err = f.services.Post.DeletePost(context.Background(), admin, "post_missing")
	assert.ErrorIs(t, err, service.ErrNotFound)
}

func TestPost_UnpublishedHiddenFromNonAdmins(t *testing.T) {
	f := newFixture(t, time.Hour)
	admin := f.admin(t)
	reader := f.services.Auth.ResolveUser(context.Background(), f.register(t, "reader@example.com").Token)
	draft := f.createPost(t, admin, "Draft", []string{"wip"}, false)
	f.createPost(t, admin, "Live", []string{"wip"}, true)
	ctx := context.Background()

	got, err := f.services.Post.GetPost(ctx, draft.ID, admin)
	require.NoError(t, err)
	assert.Equal(t, draft.ID, got.ID)

	_, err = f.services.Post.GetPost(ctx, draft.ID, nil)
	assert.ErrorIs(t, err, service.ErrNotFound)
	_, err = f.services.Post.GetPost(ctx, draft.ID, reader)
	assert.ErrorIs(t, err, service.ErrNotFound)

	query := models.ListPostsQuery{Tag: "wip", IncludeUnpublished: true}

	posts, err := f.services.Post.ListPosts(ctx, query, admin)
	require.NoError(t, err)
	assert.Len(t, posts, 2)

	for _, requester := range []*models.User{nil, reader} {
		posts, err = f.services.Post.ListPosts(ctx, query, requester)
		require.NoError(t, err)
		require.Len(t, posts, 1)
		assert.Equal(t, "Live", posts[0].Title)
	}

	count, err := f.services.Post.CountPosts(ctx, "wip", "")
	require.NoError(t, err)
	assert.Equal(t, 1, count)
}

func TestPost_ListSearchAndPaging(t *testing.T) {
	f := newFixture(t, time.Hour)
	admin := f.admin(t)
	for i := 0; i < 5; i++ {
		f.createPost(t, admin, fmt.Sprintf("Post %d", i), []string{"misc"}, true)
	}
	f.createPost(t, admin, "Unrelated", []string{"Golang"}, true)
	ctx := context.Background()

	posts, err := f.services.Post.ListPosts(ctx, models.ListPostsQuery{Search: "golang"}, nil)
	require.NoError(t, err)
	require.Len(t, posts, 1, "search matches tags case-insensitively")
	assert.Equal(t, "Unrelated", posts[0].Title)

	posts, err = f.services.Post.ListPosts(ctx, models.ListPostsQuery{Tag: "misc", Page: 2, Limit: 2}, nil)
	require.NoError(t, err)
	assert.Len(t, posts, 2)

	posts, err = f.services.Post.ListPosts(ctx, models.ListPostsQuery{Tag: "misc", Page: 3, Limit: 2}, nil)
	require.NoError(t, err)
	assert.Len(t, posts, 1)

	_, err = f.services.Post.ListPosts(ctx, models.ListPostsQuery{Page: -1}, nil)
	assert.ErrorIs(t, err, service.ErrValidation)
	_, err = f.services.Post.ListPosts(ctx, models.ListPostsQuery{Limit: 101}, nil)
	assert.ErrorIs(t, err, service.ErrValidation)
}

func TestPost_DeleteCascadesComments(t *testing.T) {
	f := newFixture(t, time.Hour)
	admin := f.admin(t)
	post := f.createPost(t, admin, "Doomed", nil, true)
	keep := f.createPost(t, admin, "Kept", nil, true)
	ctx := context.Background()

	var ids []string
	for i := 0; i < 3; i++ {
		c, err := f.services.Comment.CreateComment(ctx, post.ID, &models.CreateCommentRequest{
			Content: "nice", AuthorName: "Anon",
		})
		require.NoError(t, err)
		ids = append(ids, c.ID)
	}
	_, err := f.services.Comment.CreateComment(ctx, keep.ID, &models.CreateCommentRequest{Content: "ok", AuthorName: "Anon"})
	require.NoError(t, err)

	got, err := f.services.Post.GetPost(ctx, post.ID, nil)
	require.NoError(t, err)
	assert.Equal(t, 3, got.CommentCount)

	require.NoError(t, f.services.Post.DeletePost(ctx, admin, post.ID))

	for _, id := range ids {
		assert.NotContains(t, f.repos.Comments.Comments, id)
	}
	comments, err := f.services.Comment.ListComments(ctx, post.ID)
	require.NoError(t, err)
	assert.Empty(t, comments)
	assert.Len(t, f.repos.Comments.Comments, 1)
}

func TestComment_CreateAndDelete(t *testing.T) {
	f := newFixture(t, time.Hour)
	admin := f.admin(t)
	post := f.createPost(t, admin, "P", nil, true)
	other := f.createPost(t, admin, "Q", nil, true)
	ctx := context.Background()

	_, err := f.services.Comment.CreateComment(ctx, "post_missing", &models.CreateCommentRequest{Content: "x", AuthorName: "A"})
	assert.ErrorIs(t, err, service.ErrNotFound)

	_, err = f.services.Comment.CreateComment(ctx, post.ID, &models.CreateCommentRequest{Content: "", AuthorName: "A"})
	assert.ErrorIs(t, err, service.ErrValidation)

	comment, err := f.services.Comment.CreateComment(ctx, post.ID, &models.CreateCommentRequest{Content: "hi", AuthorName: " A "})
	require.NoError(t, err)
	assert.Equal(t, "A", comment.AuthorName)
	assert.True(t, strings.HasPrefix(comment.ID, "comment_"))

	err = f.services.Comment.DeleteComment(ctx, admin, other.ID, comment.ID)
	assert.ErrorIs(t, err, service.ErrNotFound, "comment must belong to the given post")

	err = f.services.Comment.DeleteComment(ctx, nil, post.ID, comment.ID)
	assert.ErrorIs(t, err, service.ErrUnauthorized)

	require.NoError(t, f.services.Comment.DeleteComment(ctx, admin, post.ID, comment.ID))
	assert.Empty(t, f.repos.Comments.Comments)
}

func TestStats_GetCount(t *testing.T) {
	f := newFixture(t, time.Hour)
	admin := f.admin(t)
	f.createPost(t, admin, "P", []string{"x", "y"}, false)
	ctx := context.Background()

	tests := map[string]int{
		service.ResourceUsers:    1,
		service.ResourcePosts:    1,
		service.ResourceComments: 0,
		service.ResourceTags:     2,
	}
	for resource, want := range tests {
		got, err := f.services.Stats.GetCount(ctx, resource)
		require.NoError(t, err)
		assert.Equal(t, want, got, resource)
	}

	_, err := f.services.Stats.GetCount(ctx, "widgets")
	assert.ErrorIs(t, err, service.ErrValidation)
}
