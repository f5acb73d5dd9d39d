package handlers

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/karaokeos/backend/internal/middleware"
	"github.com/karaokeos/backend/internal/models"
)

// withUser stands in for the auth middleware and authenticates every request as userID
func withUser(userID int, role models.Role) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			next.ServeHTTP(w, r.WithContext(middleware.WithUser(r.Context(), userID, int(role))))
		})
	}
}

// serve routes a request through a router built by register
func serve(t *testing.T, register func(r chi.Router), method, target, body string) *httptest.ResponseRecorder {
	t.Helper()
	r := chi.NewRouter()
	register(r)

	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, target, nil)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

type mockCatalogService struct {
	songs     *models.SongPage
	song      *models.Song
	artists   *models.ArtistPage
	languages []models.Language
	suggest   []models.SongSuggestion
	top       []models.Song
	err       error

	lastQuery   models.SongQuery
	lastSuggest string
	lastLimit   int
}

func (m *mockCatalogService) ListSongs(ctx context.Context, query models.SongQuery) (*models.SongPage, error) {
	m.lastQuery = query
	return m.songs, m.err
}

func (m *mockCatalogService) GetSong(ctx context.Context, id int) (*models.Song, error) {
	if m.err != nil {
		return nil, m.err
	}
	if m.song == nil || m.song.ID != id {
		return nil, models.ErrNotFound
	}
	return m.song, nil
}

func (m *mockCatalogService) ListArtists(ctx context.Context, q string, page, perPage int) (*models.ArtistPage, error) {
	return m.artists, m.err
}

func (m *mockCatalogService) ListLanguages(ctx context.Context) ([]models.Language, error) {
	return m.languages, m.err
}

func (m *mockCatalogService) Suggest(ctx context.Context, q string) ([]models.SongSuggestion, error) {
	m.lastSuggest = q
	return m.suggest, m.err
}

func (m *mockCatalogService) TopSongs(ctx context.Context, limit int) ([]models.Song, error) {
	m.lastLimit = limit
	return m.top, m.err
}

type mockAuthService struct {
	user  *models.User
	token string
	err   error

	lastVerifyToken string
	lastMeID        int
}

func (m *mockAuthService) Register(ctx context.Context, req *models.RegisterRequest) (*models.User, error) {
	if m.err != nil {
		return nil, m.err
	}
	return &models.User{ID: 1, Email: req.Email, Username: req.Username, Role: models.RoleUser}, nil
}

func (m *mockAuthService) Login(ctx context.Context, req *models.LoginRequest) (string, *models.User, error) {
	if m.err != nil {
		return "", nil, m.err
	}
	return m.token, m.user, nil
}

func (m *mockAuthService) VerifyEmail(ctx context.Context, token string) error {
	m.lastVerifyToken = token
	return m.err
}

func (m *mockAuthService) Me(ctx context.Context, userID int) (*models.User, error) {
	m.lastMeID = userID
	if m.err != nil {
		return nil, m.err
	}
	return m.user, nil
}

type mockPlayService struct {
	result  *models.PlayResult
	history *models.PlayHistoryPage
	err     error

	lastSongID int
	lastUserID int
	lastPage   int
}

func (m *mockPlayService) Play(ctx context.Context, songID, userID int) (*models.PlayResult, error) {
	m.lastSongID = songID
	m.lastUserID = userID
	if m.err != nil {
		return nil, m.err
	}
	return m.result, nil
}

func (m *mockPlayService) History(ctx context.Context, userID, page, perPage int) (*models.PlayHistoryPage, error) {
	m.lastUserID = userID
	m.lastPage = page
	return m.history, m.err
}

type mockLibraryService struct {
	playlist *models.PlaylistDetail
	err      error

	calls []string
	added [3]int
}

func (m *mockLibraryService) ToggleFavorite(ctx context.Context, userID, songID int) (*models.FavoriteToggleResult, error) {
	m.calls = append(m.calls, "toggle")
	if m.err != nil {
		return nil, m.err
	}
	return &models.FavoriteToggleResult{SongID: songID, Favorited: true}, nil
}

func (m *mockLibraryService) ListFavorites(ctx context.Context, userID int) ([]models.Song, error) {
	m.calls = append(m.calls, "favorites")
	return []models.Song{{ID: 1, Title: "Song"}}, m.err
}

func (m *mockLibraryService) CreatePlaylist(ctx context.Context, userID int, req *models.PlaylistRequest) (*models.Playlist, error) {
	m.calls = append(m.calls, "create")
	if m.err != nil {
		return nil, m.err
	}
	return &models.Playlist{ID: 3, UserID: userID, Name: req.Name}, nil
}

func (m *mockLibraryService) ListPlaylists(ctx context.Context, userID int) ([]models.Playlist, error) {
	m.calls = append(m.calls, "playlists")
	return []models.Playlist{}, m.err
}

func (m *mockLibraryService) GetPlaylist(ctx context.Context, userID, playlistID int) (*models.PlaylistDetail, error) {
	m.calls = append(m.calls, "get")
	if m.err != nil {
		return nil, m.err
	}
	return m.playlist, nil
}

func (m *mockLibraryService) AddSong(ctx context.Context, userID, playlistID, songID int) error {
	m.calls = append(m.calls, "add")
	m.added = [3]int{userID, playlistID, songID}
	return m.err
}

func (m *mockLibraryService) RemoveSong(ctx context.Context, userID, playlistID, songID int) error {
	m.calls = append(m.calls, "remove")
	return m.err
}

func (m *mockLibraryService) DeletePlaylist(ctx context.Context, userID, playlistID int) error {
	m.calls = append(m.calls, "delete")
	return m.err
}

type mockAdminSongService struct {
	song       *models.AdminSong
	candidates []models.Candidate
	image      *models.ArtistImage
	err        error

	lastRequest   *models.SongRequest
	lastActive    *bool
	lastCandidate models.Candidate
	deleted       int
}

func (m *mockAdminSongService) List(ctx context.Context, query models.SongQuery) (*models.AdminSongPage, error) {
	if m.err != nil {
		return nil, m.err
	}
	return &models.AdminSongPage{Items: []models.AdminSong{*m.song}}, nil
}

func (m *mockAdminSongService) Get(ctx context.Context, id int) (*models.AdminSong, error) {
	if m.err != nil {
		return nil, m.err
	}
	return m.song, nil
}

func (m *mockAdminSongService) Create(ctx context.Context, req *models.SongRequest) (*models.AdminSong, error) {
	m.lastRequest = req
	if m.err != nil {
		return nil, m.err
	}
	return m.song, nil
}

func (m *mockAdminSongService) Update(ctx context.Context, id int, req *models.SongRequest) (*models.AdminSong, error) {
	m.lastRequest = req
	if m.err != nil {
		return nil, m.err
	}
	return m.song, nil
}

func (m *mockAdminSongService) Delete(ctx context.Context, id int) error {
	m.deleted = id
	return m.err
}

func (m *mockAdminSongService) SetActive(ctx context.Context, id int, active bool) error {
	m.lastActive = &active
	return m.err
}

func (m *mockAdminSongService) LookupSong(ctx context.Context, title, artist string) ([]models.Candidate, error) {
	if m.err != nil {
		return nil, m.err
	}
	return m.candidates, nil
}

func (m *mockAdminSongService) ApplyCandidate(ctx context.Context, id int, candidate models.Candidate) (*models.AdminSong, error) {
	m.lastCandidate = candidate
	if m.err != nil {
		return nil, m.err
	}
	return m.song, nil
}

func (m *mockAdminSongService) LookupArtistImage(ctx context.Context, name string) (*models.ArtistImage, error) {
	if m.err != nil {
		return nil, m.err
	}
	return m.image, nil
}

func (m *mockAdminSongService) SetArtistImage(ctx context.Context, artistID int, req *models.ArtistImageRequest) error {
	return m.err
}

type mockDriveAccessService struct {
	summary *models.GrantSummary
	grants  []models.DriveGrant
	err     error
}

func (m *mockDriveAccessService) GrantSongToPaidUsers(ctx context.Context, songID int) (*models.GrantSummary, error) {
	if m.err != nil {
		return nil, m.err
	}
	return m.summary, nil
}

func (m *mockDriveAccessService) ListGrants(ctx context.Context, songID int) ([]models.DriveGrant, error) {
	return m.grants, m.err
}

type mockAdminUserService struct {
	user *models.User
	err  error

	lastSearch   string
	lastPassword string
	deleteActor  int
	deleteTarget int
}

func (m *mockAdminUserService) List(ctx context.Context, search string, page, perPage int) (*models.UserPage, error) {
	m.lastSearch = search
	if m.err != nil {
		return nil, m.err
	}
	return &models.UserPage{Items: []models.User{*m.user}}, nil
}

func (m *mockAdminUserService) Get(ctx context.Context, id int) (*models.User, error) {
	if m.err != nil {
		return nil, m.err
	}
	return m.user, nil
}

func (m *mockAdminUserService) Create(ctx context.Context, req *models.CreateUserRequest) (*models.User, error) {
	if m.err != nil {
		return nil, m.err
	}
	return m.user, nil
}

func (m *mockAdminUserService) Update(ctx context.Context, id int, req *models.UpdateUserRequest) (*models.User, error) {
	if m.err != nil {
		return nil, m.err
	}
	return m.user, nil
}

func (m *mockAdminUserService) ResetPassword(ctx context.Context, id int, password string) error {
	m.lastPassword = password
	return m.err
}

func (m *mockAdminUserService) Delete(ctx context.Context, actorID, id int) error {
	m.deleteActor = actorID
	m.deleteTarget = id
	return m.err
}
