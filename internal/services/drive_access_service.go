package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/karaokeos/backend/internal/drive"
	"github.com/karaokeos/backend/internal/models"
	"go.uber.org/zap"
)

// DriveSession is the interface that wraps the Drive calls made within one request or batch
type DriveSession interface {
	// Method GrantReader shares a file with "email" as a reader.
	//
	// If the Drive API rejects the request, the error carrying the API message will be returned.
	GrantReader(ctx context.Context, fileID, email string) error
	// Method Harden forbids copying and re-sharing the file. Failures are logged, never returned.
	Harden(ctx context.Context, fileID string)
}

// DriveSessionOpener opens a new Drive session with its own token cache
type DriveSessionOpener func(ctx context.Context) (DriveSession, error)

// NewDriveSessionOpener adapts a Drive client to a session opener, nil when Drive is not configured
func NewDriveSessionOpener(client *drive.Client) DriveSessionOpener {
	if client == nil {
		return nil
	}
	return func(ctx context.Context) (DriveSession, error) {
		return client.NewSession(ctx)
	}
}

// DriveGrantRepository is the interface that wraps methods for DriveGrants table data access
type DriveGrantRepository interface {
	// Method Get retrieves the grant of a song file for a user.
	//
	// If there is no such grant, an error wrapping models.ErrNotFound will be returned together with "nil" value.
	Get(ctx context.Context, songID, userID int, fileID string) (*models.DriveGrant, error)
	// Method Upsert creates the grant or replaces its status and message.
	Upsert(ctx context.Context, grant *models.DriveGrant) error
	// Method ListBySong retrieves all grants of a song.
	ListBySong(ctx context.Context, songID int) ([]models.DriveGrant, error)
}

// PaidUserRepository is the interface that wraps the paid members query
type PaidUserRepository interface {
	// Method ListPaid retrieves users whose paid membership is active at "now".
	ListPaid(ctx context.Context, now time.Time) ([]models.User, error)
}

// SongReader is the interface that wraps the song lookup by ID
type SongReader interface {
	// Method GetByID retrieves a song by its ID.
	//
	// If the song does not exist, an error wrapping models.ErrNotFound will be returned together with "nil" value.
	GetByID(ctx context.Context, id int) (*models.Song, error)
}

type driveAccessService struct {
	openSession DriveSessionOpener
	grantRepo   DriveGrantRepository
	userRepo    PaidUserRepository
	songRepo    SongReader
	logger      *zap.Logger
	now         func() time.Time
}

// NewDriveAccessService creates a new Drive access service.
// A nil opener disables granting, every grant call then reports models.ErrDriveNotConfigured.
func NewDriveAccessService(openSession DriveSessionOpener, grantRepo DriveGrantRepository, userRepo PaidUserRepository, songRepo SongReader, logger *zap.Logger) *driveAccessService {
	return &driveAccessService{
		openSession: openSession,
		grantRepo:   grantRepo,
		userRepo:    userRepo,
		songRepo:    songRepo,
		logger:      logger,
		now:         time.Now,
	}
}

// OpenSession starts a Drive session for a request or batch
func (s *driveAccessService) OpenSession(ctx context.Context) (DriveSession, error) {
	if s.openSession == nil {
		return nil, models.ErrDriveNotConfigured
	}
	session, err := s.openSession(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to open drive session: %w", err)
	}
	return session, nil
}

// EnsureAccess makes sure the user can read the song's Drive file
//
// An existing ok grant short-circuits without calling Drive.
// Otherwise the outcome is recorded as an ok or error grant and the grant error is returned.
func (s *driveAccessService) EnsureAccess(ctx context.Context, session DriveSession, song *models.Song, user *models.User) error {
	if song.DriveFileID == "" {
		return fmt.Errorf("song %d has no drive file: %w", song.ID, models.ErrNotPlayable)
	}

	existing, err := s.grantRepo.Get(ctx, song.ID, user.ID, song.DriveFileID)
	switch {
	case err == nil && existing.Status == models.DriveGrantOK:
		return nil
	case err != nil && !errors.Is(err, models.ErrNotFound):
		return err
	}

	grantErr := session.GrantReader(ctx, song.DriveFileID, user.Email)

	grant := &models.DriveGrant{
		SongID: song.ID,
		UserID: user.ID,
		FileID: song.DriveFileID,
		Status: models.DriveGrantOK,
	}
	if grantErr != nil {
		grant.Status = models.DriveGrantError
		grant.Message = grantErr.Error()
	} else {
		session.Harden(ctx, song.DriveFileID)
	}

	if err := s.grantRepo.Upsert(ctx, grant); err != nil {
		s.logger.Error("failed to record drive grant",
			zap.Int("songId", song.ID),
			zap.Int("userId", user.ID),
			zap.Error(err),
		)
		if grantErr == nil {
			return err
		}
	}

	if grantErr != nil {
		return fmt.Errorf("failed to grant drive access: %w", grantErr)
	}
	return nil
}

// EnsureUserAccess opens a session and grants the user access to the song file
func (s *driveAccessService) EnsureUserAccess(ctx context.Context, song *models.Song, user *models.User) error {
	session, err := s.OpenSession(ctx)
	if err != nil {
		return err
	}
	return s.EnsureAccess(ctx, session, song, user)
}

// GrantSongToPaidUsers shares the song's file with every paid member
//
// Individual failures are counted in the summary and do not stop the batch.
func (s *driveAccessService) GrantSongToPaidUsers(ctx context.Context, songID int) (*models.GrantSummary, error) {
	song, err := s.songRepo.GetByID(ctx, songID)
	if err != nil {
		return nil, err
	}
	if song.DriveFileID == "" {
		return nil, fmt.Errorf("song %d has no drive file: %w", songID, models.ErrValidation)
	}

	session, err := s.OpenSession(ctx)
	if err != nil {
		return nil, err
	}

	users, err := s.userRepo.ListPaid(ctx, s.now())
	if err != nil {
		return nil, fmt.Errorf("failed to list paid users: %w", err)
	}

	summary := &models.GrantSummary{}
	for i := range users {
		user := &users[i]

		existing, err := s.grantRepo.Get(ctx, song.ID, user.ID, song.DriveFileID)
		if err == nil && existing.Status == models.DriveGrantOK {
			summary.Skipped++
			continue
		}

		if err := s.EnsureAccess(ctx, session, song, user); err != nil {
			summary.Errors++
			summary.Failed = append(summary.Failed, user.Email)
			s.logger.Warn("drive grant failed",
				zap.Int("songId", song.ID),
				zap.Int("userId", user.ID),
				zap.Error(err),
			)
			continue
		}
		summary.OK++
	}

	s.logger.Info("drive grants finished",
		zap.Int("songId", song.ID),
		zap.Int("ok", summary.OK),
		zap.Int("errors", summary.Errors),
		zap.Int("skipped", summary.Skipped),
	)
	return summary, nil
}

// ListGrants returns the recorded grants of a song
func (s *driveAccessService) ListGrants(ctx context.Context, songID int) ([]models.DriveGrant, error) {
	if _, err := s.songRepo.GetByID(ctx, songID); err != nil {
		return nil, err
	}
	grants, err := s.grantRepo.ListBySong(ctx, songID)
	if err != nil {
		return nil, fmt.Errorf("failed to list drive grants: %w", err)
	}
	return grants, nil
}
