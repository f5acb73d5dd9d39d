package services

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/karaokeos/backend/internal/models"
	"github.com/karaokeos/backend/internal/pagination"
	"go.uber.org/zap"
)

// PlayRepository is the interface that wraps methods for Plays table data access
type PlayRepository interface {
	// Method Create records a play.
	Create(ctx context.Context, play *models.Play) error
	// Method ListByUser retrieves the plays of a user, newest first.
	ListByUser(ctx context.Context, userID, limit, offset int) ([]models.PlayHistoryItem, error)
	// Method CountByUser returns the number of plays of a user.
	CountByUser(ctx context.Context, userID int) (int, error)
}

// UserReader is the interface that wraps the user lookup by ID
type UserReader interface {
	// Method GetByID retrieves a user by ID.
	//
	// If user with such ID does not exist, an error wrapping models.ErrNotFound will be returned together with "nil" value.
	GetByID(ctx context.Context, userID int) (*models.User, error)
}

// DriveAccessGranter is the interface that wraps granting a user access to a song file
type DriveAccessGranter interface {
	// Method EnsureUserAccess shares the song's Drive file with the user.
	//
	// If Drive is not configured, models.ErrDriveNotConfigured will be returned.
	EnsureUserAccess(ctx context.Context, song *models.Song, user *models.User) error
}

type playService struct {
	songRepo  SongReader
	userRepo  UserReader
	playRepo  PlayRepository
	driveAuth DriveAccessGranter
	logger    *zap.Logger
	now       func() time.Time
}

// NewPlayService creates a new play service
func NewPlayService(songRepo SongReader, userRepo UserReader, playRepo PlayRepository, driveAuth DriveAccessGranter, logger *zap.Logger) *playService {
	return &playService{
		songRepo:  songRepo,
		userRepo:  userRepo,
		playRepo:  playRepo,
		driveAuth: driveAuth,
		logger:    logger,
		now:       time.Now,
	}
}

// Play records a play of an active song by a paid user and returns where to send the player
//
// A failed Drive grant does not stop the play, its message is returned in AccessError.
func (s *playService) Play(ctx context.Context, songID, userID int) (*models.PlayResult, error) {
	song, err := s.songRepo.GetByID(ctx, songID)
	if err != nil {
		return nil, err
	}
	if !song.IsActive {
		return nil, fmt.Errorf("song %d: %w", songID, models.ErrNotFound)
	}
	if !song.Playable() {
		return nil, fmt.Errorf("song %d: %w", songID, models.ErrNotPlayable)
	}

	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if !user.HasPaidAccess(s.now()) {
		return nil, models.ErrNotPaid
	}

	if err := s.playRepo.Create(ctx, &models.Play{SongID: song.ID, UserID: user.ID}); err != nil {
		return nil, fmt.Errorf("failed to record play: %w", err)
	}

	result := &models.PlayResult{RedirectURL: redirectURL(song)}

	if song.DriveFileID != "" {
		err := s.driveAuth.EnsureUserAccess(ctx, song, user)
		switch {
		case err == nil:
		case errors.Is(err, models.ErrDriveNotConfigured):
			s.logger.Debug("drive not configured, redirecting without grant", zap.Int("songId", song.ID))
		default:
			s.logger.Warn("drive access grant failed",
				zap.Int("songId", song.ID),
				zap.Int("userId", user.ID),
				zap.Error(err),
			)
			result.AccessError = err.Error()
		}
	}

	return result, nil
}

// redirectURL prefers the stored Drive link, then a view link built from the file id, then the external URL
func redirectURL(song *models.Song) string {
	switch {
	case song.DriveLink != "":
		return song.DriveLink
	case song.DriveFileID != "":
		return "https://drive.google.com/file/d/" + url.PathEscape(song.DriveFileID) + "/view"
	default:
		return song.ExternalURL
	}
}

// History returns a page of the user's plays with a human readable "played ago"
func (s *playService) History(ctx context.Context, userID, page, perPage int) (*models.PlayHistoryPage, error) {
	total, err := s.playRepo.CountByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to count plays: %w", err)
	}

	pager := pagination.New(total, page, perPageOrDefault(perPage))
	items, err := s.playRepo.ListByUser(ctx, userID, pager.Limit(), pager.Offset())
	if err != nil {
		return nil, fmt.Errorf("failed to list plays: %w", err)
	}

	now := s.now()
	for i := range items {
		items[i].PlayedAgo = humanize.RelTime(items[i].PlayedAt, now, "ago", "from now")
	}

	return &models.PlayHistoryPage{
		Items:      items,
		Pagination: pager.Meta(),
	}, nil
}
