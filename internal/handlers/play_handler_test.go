package handlers

import (
	"net/http"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/karaokeos/backend/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

func TestPlayHandler_Play(t *testing.T) {
	tests := []struct {
		name           string
		target         string
		err            error
		expectedStatus int
		contains       string
	}{
		{"redirect", "/songs/4/play", nil, http.StatusOK, `"redirect_url":"https://drive.google.com/file/d/abc/view"`},
		{"not paid", "/songs/4/play", models.ErrNotPaid, http.StatusForbidden, "paid membership required"},
		{"not playable", "/songs/4/play", models.ErrNotPlayable, http.StatusBadRequest, "no playable link"},
		{"hidden song", "/songs/4/play", models.ErrNotFound, http.StatusNotFound, "not found"},
		{"invalid id", "/songs/x/play", nil, http.StatusBadRequest, "invalid id parameter"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := &mockPlayService{
				result: &models.PlayResult{RedirectURL: "https://drive.google.com/file/d/abc/view"},
				err:    tt.err,
			}
			h := NewPlayHandler(svc, zaptest.NewLogger(t))
			register := func(r chi.Router) { h.RegisterRoutes(r, withUser(9, models.RoleUser)) }

			w := serve(t, register, http.MethodPost, tt.target, "")

			assert.Equal(t, tt.expectedStatus, w.Code)
			assert.Contains(t, w.Body.String(), tt.contains)
			if tt.expectedStatus == http.StatusOK {
				assert.Equal(t, 4, svc.lastSongID)
				assert.Equal(t, 9, svc.lastUserID)
			}
		})
	}
}

func TestPlayHandler_History(t *testing.T) {
	svc := &mockPlayService{
		history: &models.PlayHistoryPage{
			Items: []models.PlayHistoryItem{{SongID: 4, Title: "Hello", PlayedAgo: "2 hours ago"}},
		},
	}
	h := NewPlayHandler(svc, zaptest.NewLogger(t))
	register := func(r chi.Router) { h.RegisterRoutes(r, withUser(9, models.RoleUser)) }

	w := serve(t, register, http.MethodGet, "/me/plays?page=2", "")

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, 9, svc.lastUserID)
	assert.Equal(t, 2, svc.lastPage)
	assert.Contains(t, w.Body.String(), `"played_ago":"2 hours ago"`)
}
