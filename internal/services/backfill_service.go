package services

import (
	"context"
	"time"

	"github.com/karaokeos/backend/internal/models"
	"go.uber.org/zap"
)

// DefaultBatchSize is the number of rows a backfill reads per query
const DefaultBatchSize = 50

// BackfillOptions controls a backfill run
type BackfillOptions struct {
	// BatchSize is the page size of the id cursor, DefaultBatchSize when not positive
	BatchSize int
	// Limit stops the run after this many scanned rows, 0 means no limit
	Limit int
	// DryRun looks everything up but writes nothing
	DryRun bool
	// Force revisits rows that already have a value and overwrites it
	Force bool
	// Progress is called after each scanned row, may be nil
	Progress func(report models.BackfillReport)
	// Delay pauses between rows to go easy on upstream APIs
	Delay time.Duration
}

// BackfillSongRepository is the interface that wraps the song queries of the cover backfill
type BackfillSongRepository interface {
	// Method ListMissingCover retrieves up to "limit" songs with an ID above "afterID" in ID order, only coverless ones unless "force".
	ListMissingCover(ctx context.Context, limit, afterID int, force bool) ([]models.Song, error)
	// Method UpdateMetadata stores looked-up metadata fields of a song.
	UpdateMetadata(ctx context.Context, id int, meta models.SongMetadata) error
}

// BackfillArtistRepository is the interface that wraps the artist queries of the image backfill
type BackfillArtistRepository interface {
	// Method ListMissingImage retrieves up to "limit" artists with an ID above "afterID" in ID order, only imageless ones unless "force".
	ListMissingImage(ctx context.Context, limit, afterID int, force bool) ([]models.Artist, error)
	// Method UpdateImage stores an artist's image URL and MusicBrainz ID.
	UpdateImage(ctx context.Context, id int, imageURL, externalID string) error
}

type backfillService struct {
	songRepo   BackfillSongRepository
	artistRepo BackfillArtistRepository
	lookup     CandidateLookup
	images     ArtistImageLookup
	logger     *zap.Logger
}

// NewBackfillService creates a service filling missing covers and artist images from public metadata APIs
func NewBackfillService(songRepo BackfillSongRepository, artistRepo BackfillArtistRepository, lookup CandidateLookup, images ArtistImageLookup, logger *zap.Logger) *backfillService {
	return &backfillService{
		songRepo:   songRepo,
		artistRepo: artistRepo,
		lookup:     lookup,
		images:     images,
		logger:     logger,
	}
}

func (o BackfillOptions) batchSize() int {
	if o.BatchSize <= 0 {
		return DefaultBatchSize
	}
	return o.BatchSize
}

// remaining returns how many rows the next batch may read
func (o BackfillOptions) remaining(scanned int) int {
	size := o.batchSize()
	if o.Limit > 0 && o.Limit-scanned < size {
		return o.Limit - scanned
	}
	return size
}

func (o BackfillOptions) report(r models.BackfillReport) {
	if o.Progress != nil {
		o.Progress(r)
	}
}

func sleepCtx(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

// fillMetadata copies candidate fields onto the song's metadata, only into empty fields unless force
func fillMetadata(song *models.Song, c models.Candidate, force bool) models.SongMetadata {
	meta := models.SongMetadata{
		Album:    song.Album,
		Genre:    song.Genre,
		Year:     song.Year,
		CoverURL: song.CoverURL,
		Language: song.Language,
	}
	if c.CoverURL != "" && (force || meta.CoverURL == "") {
		meta.CoverURL = c.CoverURL
	}
	if c.Album != "" && (force || meta.Album == "") {
		meta.Album = c.Album
	}
	if c.Genre != "" && (force || meta.Genre == "") {
		meta.Genre = c.Genre
	}
	if c.Year > 0 && (force || meta.Year == 0) {
		meta.Year = c.Year
	}
	return meta
}

// BackfillCovers looks up covers for songs that have none, or for every song with Force
//
// Rows without a matching candidate are skipped, write failures are counted and the run goes on.
func (s *backfillService) BackfillCovers(ctx context.Context, opts BackfillOptions) (models.BackfillReport, error) {
	var report models.BackfillReport
	afterID := 0

	for {
		limit := opts.remaining(report.Scanned)
		if limit <= 0 {
			return report, nil
		}

		songs, err := s.songRepo.ListMissingCover(ctx, limit, afterID, opts.Force)
		if err != nil {
			return report, err
		}
		if len(songs) == 0 {
			return report, nil
		}

		for i := range songs {
			song := &songs[i]
			afterID = song.ID
			report.Scanned++

			candidate, ok := s.lookup.Best(ctx, song.Title, song.Artist)
			switch {
			case !ok || candidate.CoverURL == "":
				report.Skipped++
			case opts.DryRun:
				s.logger.Info("cover found (dry run)", zap.Int("songId", song.ID), zap.String("coverUrl", candidate.CoverURL))
				report.Updated++
			default:
				if err := s.songRepo.UpdateMetadata(ctx, song.ID, fillMetadata(song, candidate, opts.Force)); err != nil {
					s.logger.Warn("failed to store cover", zap.Int("songId", song.ID), zap.Error(err))
					report.Failed++
				} else {
					report.Updated++
				}
			}

			opts.report(report)
			if err := sleepCtx(ctx, opts.Delay); err != nil {
				return report, err
			}
		}
	}
}

// BackfillArtists resolves images for artists that have none, or for every artist with Force
func (s *backfillService) BackfillArtists(ctx context.Context, opts BackfillOptions) (models.BackfillReport, error) {
	var report models.BackfillReport
	afterID := 0

	for {
		limit := opts.remaining(report.Scanned)
		if limit <= 0 {
			return report, nil
		}

		artists, err := s.artistRepo.ListMissingImage(ctx, limit, afterID, opts.Force)
		if err != nil {
			return report, err
		}
		if len(artists) == 0 {
			return report, nil
		}

		for _, artist := range artists {
			afterID = artist.ID
			report.Scanned++

			image := s.images.Resolve(ctx, artist.Name)
			switch {
			case !image.Found:
				report.Skipped++
			case opts.DryRun:
				s.logger.Info("artist image found (dry run)", zap.Int("artistId", artist.ID), zap.String("imageUrl", image.ImageURL))
				report.Updated++
			default:
				if err := s.artistRepo.UpdateImage(ctx, artist.ID, image.ImageURL, image.ExternalID); err != nil {
					s.logger.Warn("failed to store artist image", zap.Int("artistId", artist.ID), zap.Error(err))
					report.Failed++
				} else {
					report.Updated++
				}
			}

			opts.report(report)
			if err := sleepCtx(ctx, opts.Delay); err != nil {
				return report, err
			}
		}
	}
}
