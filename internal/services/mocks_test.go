package services

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/karaokeos/backend/internal/models"
)

// mockSongRepository is an in-memory implementation of the song repository interfaces
type mockSongRepository struct {
	songs       map[int]*models.Song
	listed      []models.Song
	total       int
	suggestions []models.SongSuggestion
	languages   []models.Language
	err         error
	updateErr   error

	lastFilter  models.SongFilter
	lastLimit   int
	lastOffset  int
	lastSuggest string
	created     []models.Song
	updated     []models.Song
	deleted     []int
	activeSet   map[int]bool
	metadata    map[int]models.SongMetadata
	missingCall int
}

func newMockSongRepository(songs ...models.Song) *mockSongRepository {
	m := &mockSongRepository{
		songs:     map[int]*models.Song{},
		activeSet: map[int]bool{},
		metadata:  map[int]models.SongMetadata{},
	}
	for i := range songs {
		song := songs[i]
		m.songs[song.ID] = &song
	}
	return m
}

func (m *mockSongRepository) List(ctx context.Context, filter models.SongFilter, limit, offset int) ([]models.Song, error) {
	m.lastFilter, m.lastLimit, m.lastOffset = filter, limit, offset
	if m.err != nil {
		return nil, m.err
	}
	return m.listed, nil
}

func (m *mockSongRepository) Count(ctx context.Context, filter models.SongFilter) (int, error) {
	m.lastFilter = filter
	if m.err != nil {
		return 0, m.err
	}
	return m.total, nil
}

func (m *mockSongRepository) GetByID(ctx context.Context, id int) (*models.Song, error) {
	if m.err != nil {
		return nil, m.err
	}
	song, ok := m.songs[id]
	if !ok {
		return nil, fmt.Errorf("song %d: %w", id, models.ErrNotFound)
	}
	copied := *song
	return &copied, nil
}

func (m *mockSongRepository) Suggest(ctx context.Context, q string, limit int) ([]models.SongSuggestion, error) {
	m.lastSuggest, m.lastLimit = q, limit
	if m.err != nil {
		return nil, m.err
	}
	return m.suggestions, nil
}

func (m *mockSongRepository) ListLanguages(ctx context.Context) ([]models.Language, error) {
	if m.err != nil {
		return nil, m.err
	}
	return m.languages, nil
}

func (m *mockSongRepository) Create(ctx context.Context, song *models.Song) error {
	if m.err != nil {
		return m.err
	}
	song.ID = len(m.songs) + 100
	m.songs[song.ID] = song
	m.created = append(m.created, *song)
	return nil
}

func (m *mockSongRepository) Update(ctx context.Context, song *models.Song) error {
	if m.err != nil {
		return m.err
	}
	if _, ok := m.songs[song.ID]; !ok {
		return fmt.Errorf("song %d: %w", song.ID, models.ErrNotFound)
	}
	copied := *song
	m.songs[song.ID] = &copied
	m.updated = append(m.updated, copied)
	return nil
}

func (m *mockSongRepository) Delete(ctx context.Context, id int) error {
	if m.err != nil {
		return m.err
	}
	if _, ok := m.songs[id]; !ok {
		return fmt.Errorf("song %d: %w", id, models.ErrNotFound)
	}
	delete(m.songs, id)
	m.deleted = append(m.deleted, id)
	return nil
}

func (m *mockSongRepository) SetActive(ctx context.Context, id int, active bool) error {
	if m.err != nil {
		return m.err
	}
	if _, ok := m.songs[id]; !ok {
		return fmt.Errorf("song %d: %w", id, models.ErrNotFound)
	}
	m.activeSet[id] = active
	return nil
}

func (m *mockSongRepository) UpdateMetadata(ctx context.Context, id int, meta models.SongMetadata) error {
	if m.updateErr != nil {
		return m.updateErr
	}
	song, ok := m.songs[id]
	if !ok {
		return fmt.Errorf("song %d: %w", id, models.ErrNotFound)
	}
	m.metadata[id] = meta
	song.Album, song.Genre, song.Year, song.CoverURL, song.Language = meta.Album, meta.Genre, meta.Year, meta.CoverURL, meta.Language
	return nil
}

func (m *mockSongRepository) ListMissingCover(ctx context.Context, limit, afterID int, force bool) ([]models.Song, error) {
	m.missingCall++
	if m.err != nil {
		return nil, m.err
	}
	ids := make([]int, 0, len(m.songs))
	for id := range m.songs {
		ids = append(ids, id)
	}
	sort.Ints(ids)

	var result []models.Song
	for _, id := range ids {
		song := m.songs[id]
		if id <= afterID || (!force && song.CoverURL != "") {
			continue
		}
		result = append(result, *song)
		if len(result) == limit {
			break
		}
	}
	return result, nil
}

// mockArtistRepository is an in-memory implementation of the artist repository interfaces
type mockArtistRepository struct {
	artists   []models.Artist
	total     int
	err       error
	updateErr error

	lastQ    string
	upserted []string
	images   map[int]string
}

func newMockArtistRepository(artists ...models.Artist) *mockArtistRepository {
	return &mockArtistRepository{artists: artists, images: map[int]string{}}
}

func (m *mockArtistRepository) List(ctx context.Context, q string, limit, offset int) ([]models.Artist, error) {
	m.lastQ = q
	if m.err != nil {
		return nil, m.err
	}
	return m.artists, nil
}

func (m *mockArtistRepository) Count(ctx context.Context, q string) (int, error) {
	if m.err != nil {
		return 0, m.err
	}
	return m.total, nil
}

func (m *mockArtistRepository) Upsert(ctx context.Context, name string) (int, error) {
	if m.err != nil {
		return 0, m.err
	}
	m.upserted = append(m.upserted, name)
	return len(m.upserted), nil
}

func (m *mockArtistRepository) UpdateImage(ctx context.Context, id int, imageURL, externalID string) error {
	if m.updateErr != nil {
		return m.updateErr
	}
	m.images[id] = imageURL
	return nil
}

func (m *mockArtistRepository) ListMissingImage(ctx context.Context, limit, afterID int, force bool) ([]models.Artist, error) {
	if m.err != nil {
		return nil, m.err
	}
	var result []models.Artist
	for _, a := range m.artists {
		if a.ID <= afterID || (!force && (a.ImageURL != "" || m.images[a.ID] != "")) {
			continue
		}
		result = append(result, a)
		if len(result) == limit {
			break
		}
	}
	return result, nil
}

// mockTopSongsRepository returns fixed top songs
type mockTopSongsRepository struct {
	songs     []models.Song
	lastLimit int
	err       error
}

func (m *mockTopSongsRepository) TopSongs(ctx context.Context, limit int) ([]models.Song, error) {
	m.lastLimit = limit
	if m.err != nil {
		return nil, m.err
	}
	return m.songs, nil
}

// mockUserRepository is an in-memory implementation of the user repository interfaces
type mockUserRepository struct {
	mu             sync.Mutex
	users          map[int]*models.User
	listed         []models.User
	total          int
	paid           []models.User
	emailExists    bool
	usernameExists bool
	existsErr      error
	err            error

	created        []*models.User
	updated        []models.User
	passwordHashes map[int]string
	deleted        []int
	paidAt         time.Time
}

func newMockUserRepository(users ...models.User) *mockUserRepository {
	m := &mockUserRepository{users: map[int]*models.User{}, passwordHashes: map[int]string{}}
	for i := range users {
		user := users[i]
		m.users[user.ID] = &user
	}
	return m
}

func (m *mockUserRepository) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.emailExists, m.existsErr
}

func (m *mockUserRepository) ExistsByUsername(ctx context.Context, username string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.usernameExists, m.existsErr
}

func (m *mockUserRepository) Create(ctx context.Context, user *models.User) error {
	if m.err != nil {
		return m.err
	}
	user.ID = len(m.users) + 1
	m.users[user.ID] = user
	m.created = append(m.created, user)
	return nil
}

func (m *mockUserRepository) GetByID(ctx context.Context, id int) (*models.User, error) {
	if m.err != nil {
		return nil, m.err
	}
	user, ok := m.users[id]
	if !ok {
		return nil, fmt.Errorf("user %d: %w", id, models.ErrNotFound)
	}
	copied := *user
	return &copied, nil
}

func (m *mockUserRepository) GetByEmailOrUsername(ctx context.Context, login string) (*models.User, error) {
	if m.err != nil {
		return nil, m.err
	}
	for _, user := range m.users {
		if user.Email == login || user.Username == login {
			copied := *user
			return &copied, nil
		}
	}
	return nil, fmt.Errorf("user %q: %w", login, models.ErrNotFound)
}

func (m *mockUserRepository) List(ctx context.Context, search string, limit, offset int) ([]models.User, error) {
	if m.err != nil {
		return nil, m.err
	}
	return m.listed, nil
}

func (m *mockUserRepository) Count(ctx context.Context, search string) (int, error) {
	if m.err != nil {
		return 0, m.err
	}
	return m.total, nil
}

func (m *mockUserRepository) Update(ctx context.Context, user *models.User) error {
	if m.err != nil {
		return m.err
	}
	m.updated = append(m.updated, *user)
	return nil
}

func (m *mockUserRepository) UpdatePasswordHash(ctx context.Context, id int, hash string) error {
	if m.err != nil {
		return m.err
	}
	m.passwordHashes[id] = hash
	return nil
}

func (m *mockUserRepository) Delete(ctx context.Context, id int) error {
	if m.err != nil {
		return m.err
	}
	if _, ok := m.users[id]; !ok {
		return fmt.Errorf("user %d: %w", id, models.ErrNotFound)
	}
	m.deleted = append(m.deleted, id)
	return nil
}

func (m *mockUserRepository) ListPaid(ctx context.Context, now time.Time) ([]models.User, error) {
	m.paidAt = now
	if m.err != nil {
		return nil, m.err
	}
	return m.paid, nil
}

// mockVerificationRepository records created verifications and confirms by hash
type mockVerificationRepository struct {
	created   []models.EmailVerification
	confirmed map[string]int
	createErr error
	confirmAt time.Time
}

func (m *mockVerificationRepository) Create(ctx context.Context, v *models.EmailVerification) error {
	if m.createErr != nil {
		return m.createErr
	}
	m.created = append(m.created, *v)
	return nil
}

func (m *mockVerificationRepository) Confirm(ctx context.Context, tokenHash string, now time.Time) (int, error) {
	m.confirmAt = now
	userID, ok := m.confirmed[tokenHash]
	if !ok {
		return 0, fmt.Errorf("verification: %w", models.ErrNotFound)
	}
	return userID, nil
}

// mockTokenGenerator returns a token naming the user and role
type mockTokenGenerator struct {
	err error
}

func (m *mockTokenGenerator) GenerateAccessToken(userID int, role int) (string, error) {
	if m.err != nil {
		return "", m.err
	}
	return fmt.Sprintf("token-%d-%d", userID, role), nil
}

type sentMail struct {
	to      string
	subject string
	body    string
}

// mockMailer records outgoing mail
type mockMailer struct {
	sent []sentMail
	err  error
}

func (m *mockMailer) Send(to, subject, htmlBody string) error {
	if m.err != nil {
		return m.err
	}
	m.sent = append(m.sent, sentMail{to: to, subject: subject, body: htmlBody})
	return nil
}

// mockPlayRepository records plays and serves a fixed history
type mockPlayRepository struct {
	plays   []models.Play
	history []models.PlayHistoryItem
	total   int
	err     error
}

func (m *mockPlayRepository) Create(ctx context.Context, play *models.Play) error {
	if m.err != nil {
		return m.err
	}
	m.plays = append(m.plays, *play)
	return nil
}

func (m *mockPlayRepository) ListByUser(ctx context.Context, userID, limit, offset int) ([]models.PlayHistoryItem, error) {
	if m.err != nil {
		return nil, m.err
	}
	return m.history, nil
}

func (m *mockPlayRepository) CountByUser(ctx context.Context, userID int) (int, error) {
	if m.err != nil {
		return 0, m.err
	}
	return m.total, nil
}

type grantKey struct {
	songID int
	userID int
	fileID string
}

// mockDriveGrantRepository keeps grants keyed by song, user and file
type mockDriveGrantRepository struct {
	grants    map[grantKey]models.DriveGrant
	upserts   int
	getErr    error
	upsertErr error
}

func newMockDriveGrantRepository(grants ...models.DriveGrant) *mockDriveGrantRepository {
	m := &mockDriveGrantRepository{grants: map[grantKey]models.DriveGrant{}}
	for _, g := range grants {
		m.grants[grantKey{g.SongID, g.UserID, g.FileID}] = g
	}
	return m
}

func (m *mockDriveGrantRepository) Get(ctx context.Context, songID, userID int, fileID string) (*models.DriveGrant, error) {
	if m.getErr != nil {
		return nil, m.getErr
	}
	grant, ok := m.grants[grantKey{songID, userID, fileID}]
	if !ok {
		return nil, fmt.Errorf("drive grant: %w", models.ErrNotFound)
	}
	return &grant, nil
}

func (m *mockDriveGrantRepository) Upsert(ctx context.Context, grant *models.DriveGrant) error {
	if m.upsertErr != nil {
		return m.upsertErr
	}
	m.upserts++
	m.grants[grantKey{grant.SongID, grant.UserID, grant.FileID}] = *grant
	return nil
}

func (m *mockDriveGrantRepository) ListBySong(ctx context.Context, songID int) ([]models.DriveGrant, error) {
	var grants []models.DriveGrant
	for key, g := range m.grants {
		if key.songID == songID {
			grants = append(grants, g)
		}
	}
	return grants, nil
}

// mockDriveSession records Drive calls
type mockDriveSession struct {
	granted  []string
	hardened []string
	failFor  map[string]error
}

func (m *mockDriveSession) GrantReader(ctx context.Context, fileID, email string) error {
	if err := m.failFor[email]; err != nil {
		return err
	}
	m.granted = append(m.granted, email)
	return nil
}

func (m *mockDriveSession) Harden(ctx context.Context, fileID string) {
	m.hardened = append(m.hardened, fileID)
}

// mockDriveGranter stands in for the Drive access service in the play flow
type mockDriveGranter struct {
	calls int
	err   error
}

func (m *mockDriveGranter) EnsureUserAccess(ctx context.Context, song *models.Song, user *models.User) error {
	m.calls++
	return m.err
}

// mockCandidateLookup returns fixed candidates
type mockCandidateLookup struct {
	candidates []models.Candidate
	best       map[string]models.Candidate
	lastTitle  string
	lastArtist string
}

func (m *mockCandidateLookup) Candidates(ctx context.Context, title, artist string, limit int) []models.Candidate {
	m.lastTitle, m.lastArtist = title, artist
	return m.candidates
}

func (m *mockCandidateLookup) Best(ctx context.Context, title, artist string) (models.Candidate, bool) {
	c, ok := m.best[title]
	return c, ok
}

// mockArtistImageLookup resolves images from a fixed table
type mockArtistImageLookup struct {
	images map[string]models.ArtistImage
}

func (m *mockArtistImageLookup) Resolve(ctx context.Context, name string) models.ArtistImage {
	return m.images[name]
}

// mockLibraryRepository is an in-memory implementation of LibraryRepository
type mockLibraryRepository struct {
	favorites     map[int]bool
	playlists     map[int]*models.Playlist
	playlistSongs map[int][]int
	err           error
}

func newMockLibraryRepository() *mockLibraryRepository {
	return &mockLibraryRepository{
		favorites:     map[int]bool{},
		playlists:     map[int]*models.Playlist{},
		playlistSongs: map[int][]int{},
	}
}

func (m *mockLibraryRepository) IsFavorite(ctx context.Context, userID, songID int) (bool, error) {
	if m.err != nil {
		return false, m.err
	}
	return m.favorites[songID], nil
}

func (m *mockLibraryRepository) AddFavorite(ctx context.Context, userID, songID int) error {
	m.favorites[songID] = true
	return nil
}

func (m *mockLibraryRepository) RemoveFavorite(ctx context.Context, userID, songID int) error {
	delete(m.favorites, songID)
	return nil
}

func (m *mockLibraryRepository) ListFavorites(ctx context.Context, userID int) ([]models.Song, error) {
	var songs []models.Song
	for id := range m.favorites {
		songs = append(songs, models.Song{ID: id})
	}
	return songs, nil
}

func (m *mockLibraryRepository) CreatePlaylist(ctx context.Context, playlist *models.Playlist) error {
	if m.err != nil {
		return m.err
	}
	playlist.ID = len(m.playlists) + 1
	copied := *playlist
	m.playlists[playlist.ID] = &copied
	return nil
}

func (m *mockLibraryRepository) ListPlaylists(ctx context.Context, userID int) ([]models.Playlist, error) {
	var playlists []models.Playlist
	for _, p := range m.playlists {
		if p.UserID == userID {
			playlists = append(playlists, *p)
		}
	}
	return playlists, nil
}

func (m *mockLibraryRepository) GetPlaylist(ctx context.Context, id int) (*models.Playlist, error) {
	p, ok := m.playlists[id]
	if !ok {
		return nil, fmt.Errorf("playlist %d: %w", id, models.ErrNotFound)
	}
	copied := *p
	return &copied, nil
}

func (m *mockLibraryRepository) ListPlaylistSongs(ctx context.Context, playlistID int) ([]models.Song, error) {
	songs := []models.Song{}
	for _, id := range m.playlistSongs[playlistID] {
		songs = append(songs, models.Song{ID: id})
	}
	return songs, nil
}

func (m *mockLibraryRepository) AddPlaylistSong(ctx context.Context, playlistID, songID int) error {
	for _, id := range m.playlistSongs[playlistID] {
		if id == songID {
			return fmt.Errorf("song %d in playlist %d: %w", songID, playlistID, models.ErrConflict)
		}
	}
	m.playlistSongs[playlistID] = append(m.playlistSongs[playlistID], songID)
	return nil
}

func (m *mockLibraryRepository) RemovePlaylistSong(ctx context.Context, playlistID, songID int) error {
	songs := m.playlistSongs[playlistID]
	for i, id := range songs {
		if id == songID {
			m.playlistSongs[playlistID] = append(songs[:i], songs[i+1:]...)
			return nil
		}
	}
	return fmt.Errorf("playlist song %d: %w", songID, models.ErrNotFound)
}

func (m *mockLibraryRepository) DeletePlaylist(ctx context.Context, id int) error {
	if _, ok := m.playlists[id]; !ok {
		return fmt.Errorf("playlist %d: %w", id, models.ErrNotFound)
	}
	delete(m.playlists, id)
	delete(m.playlistSongs, id)
	return nil
}
