package store

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abhisek/skilltrack/internal/progress"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func TestLoad_UnknownUser(t *testing.T) {
	s := openTestStore(t)
	p, found, err := s.Load(context.Background(), "nobody")
	require.NoError(t, err)
	assert.False(t, found)
	assert.Nil(t, p)
}

func TestSaveLoad_RoundTrip(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	now := time.Date(2025, 6, 1, 10, 0, 0, 0, time.UTC)
	want := &progress.UserProgress{
		UserID:          "alice",
		CompletedSkills: []string{"variables", "loops"},
		Skills: map[string]*progress.SkillProgress{
			"variables": {
				MasteryLevel: 0.85,
				Attempts:     4,
				Interval:     6,
				EaseFactor:   2.6,
				LastReviewAt: now,
				NextReviewAt: now.AddDate(0, 0, 6),
			},
		},
		TotalTimeSpent: 360,
		CreatedAt:      now.AddDate(0, -1, 0),
		LastUpdatedAt:  now,
	}

	require.NoError(t, s.Save(ctx, "alice", want))

	got, found, err := s.Load(ctx, "alice")
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, want.CompletedSkills, got.CompletedSkills)
	assert.Equal(t, want.TotalTimeSpent, got.TotalTimeSpent)
	require.Contains(t, got.Skills, "variables")
	assert.InDelta(t, 0.85, got.Skills["variables"].MasteryLevel, 1e-9)
	assert.Equal(t, 6, got.Skills["variables"].Interval)
	assert.True(t, got.Skills["variables"].NextReviewAt.Equal(now.AddDate(0, 0, 6)))
}

func TestSave_LastWriteWins(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	first := &progress.UserProgress{UserID: "alice", TotalTimeSpent: 10}
	second := &progress.UserProgress{UserID: "alice", TotalTimeSpent: 99}

	require.NoError(t, s.Save(ctx, "alice", first))
	require.NoError(t, s.Save(ctx, "alice", second))

	got, found, err := s.Load(ctx, "alice")
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, int64(99), got.TotalTimeSpent)
}

func TestSave_UsersIndependent(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	require.NoError(t, s.Save(ctx, "alice", &progress.UserProgress{UserID: "alice", TotalTimeSpent: 1}))
	require.NoError(t, s.Save(ctx, "bob", &progress.UserProgress{UserID: "bob", TotalTimeSpent: 2}))

	alice, _, err := s.Load(ctx, "alice")
	require.NoError(t, err)
	bob, _, err := s.Load(ctx, "bob")
	require.NoError(t, err)
	assert.Equal(t, int64(1), alice.TotalTimeSpent)
	assert.Equal(t, int64(2), bob.TotalTimeSpent)
}
