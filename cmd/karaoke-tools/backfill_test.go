package main

import (
	"testing"

	"github.com/karaokeos/backend/internal/models"
	"github.com/karaokeos/backend/internal/services"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBackfillCmd_Flags(t *testing.T) {
	cmd := newBackfillCmd()

	batch, err := cmd.PersistentFlags().GetInt("batch")
	require.NoError(t, err)
	assert.Equal(t, services.DefaultBatchSize, batch)

	for _, name := range []string{"limit", "dry-run", "force", "delay"} {
		assert.NotNil(t, cmd.PersistentFlags().Lookup(name), name)
	}

	var subcommands []string
	for _, sub := range cmd.Commands() {
		subcommands = append(subcommands, sub.Name())
	}
	assert.ElementsMatch(t, []string{"covers", "artists"}, subcommands)
}

func TestDescribeReport(t *testing.T) {
	report := models.BackfillReport{Scanned: 10, Updated: 6, Skipped: 3, Failed: 1}

	assert.Equal(t, "Covers | 10 scanned | 6 updated | 3 skipped | 1 failed", describeReport("Covers", report))
}
