package filestore

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"interviewbuddy/domain/core"
	"interviewbuddy/domain/interview"
)

func sampleQuestions() []interview.Question {
	return []interview.Question{
		{Text: "What is a mutex?", Type: interview.QuestionShort, Category: "Concurrency"},
		{Text: "Pick one", Type: interview.QuestionMCQ, Category: "Go", Options: []string{"A. x", "B. y", "C. z", "D. w"}, CorrectAnswer: "C"},
	}
}

func TestQuestionMirrorRoundTrip(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	m, err := NewQuestionMirror(dir, zap.NewNop())
	require.NoError(t, err)

	id := core.InterviewID("u1_1700000000000_abcd1234")
	require.NoError(t, m.Save(ctx, id, sampleQuestions()))
	assert.FileExists(t, filepath.Join(dir, "questions_u1_1700000000000_abcd1234.json"))

	got, err := m.Load(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, sampleQuestions(), got)

	require.NoError(t, m.Remove(ctx, id))
	require.NoError(t, m.Remove(ctx, id))
	_, err = m.Load(ctx, id)
	assert.ErrorIs(t, err, core.ErrMirrorEntryNotFound)
}

func TestQuestionMirrorRejectsPathIDs(t *testing.T) {
	m, err := NewQuestionMirror(t.TempDir(), zap.NewNop())
	require.NoError(t, err)

	assert.Error(t, m.Save(context.Background(), "../escape", sampleQuestions()))
	_, err = m.Load(context.Background(), "../escape")
	assert.ErrorIs(t, err, core.ErrMirrorEntryNotFound)
}

func TestQuestionMirrorPrune(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	m, err := NewQuestionMirror(dir, zap.NewNop())
	require.NoError(t, err)

	require.NoError(t, m.Save(ctx, "old", sampleQuestions()))
	require.NoError(t, m.Save(ctx, "new", sampleQuestions()))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("keep"), 0o644))

	past := time.Now().Add(-48 * time.Hour)
	require.NoError(t, os.Chtimes(filepath.Join(dir, mirrorName("old")), past, past))
	require.NoError(t, os.Chtimes(filepath.Join(dir, "notes.txt"), past, past))

	n, err := m.Prune(ctx, time.Now().Add(-24*time.Hour))
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	_, err = m.Load(ctx, "new")
	assert.NoError(t, err)
	assert.FileExists(t, filepath.Join(dir, "notes.txt"))
}

func TestQuestionMirrorStateRoundTrip(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	m, err := NewQuestionMirror(dir, zap.NewNop())
	require.NoError(t, err)

	setup := interview.SetupDescriptor{JobRole: "Software Engineer", Domain: "Backend", InterviewType: interview.InterviewTechnical, QuestionCount: 5}
	state := &interview.UserState{UserID: "u1", Setup: &setup, InterviewID: "u1_1700000000000_abcd1234"}
	require.NoError(t, m.SaveState(ctx, state))
	assert.FileExists(t, filepath.Join(dir, "state_u1.json"))

	got, err := m.LoadState(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, state.InterviewID, got.InterviewID)
	assert.Equal(t, setup, *got.Setup)

	require.NoError(t, m.ClearState(ctx, "u1"))
	require.NoError(t, m.ClearState(ctx, "u1"))
	_, err = m.LoadState(ctx, "u1")
	assert.ErrorIs(t, err, core.ErrMirrorEntryNotFound)

	assert.Error(t, m.SaveState(ctx, &interview.UserState{UserID: "../escape"}))
}

func newReport(user core.UserID, score float64, created time.Time) *interview.Report {
	return &interview.Report{
		ID:        core.NewReportID(),
		UserID:    user,
		CreatedAt: created.UTC().Truncate(time.Second),
		Setup:     interview.SetupDescriptor{JobRole: "Data Scientist", Domain: "Data", InterviewType: interview.InterviewTechnical, QuestionCount: 2},
		Questions: sampleQuestions(),
		Answers:   interview.Answers{"0": "It guards shared state.", "1": "C"},
		Results: interview.Results{
			QuestionsResults:   []interview.QuestionResult{{Question: "What is a mutex?", Score: 7}, {Question: "Pick one", Score: 10}},
			OverallScore:       score,
			CategoryScores:     map[string]float64{"Concurrency": 7, "Go": 10},
			Strengths:          []string{"Strong in Go"},
			Weaknesses:         []string{},
			Recommendations:    []string{"Keep practicing"},
			SuggestedResources: []string{"Go Memory Model"},
		},
	}
}

func TestReportRepositoryRoundTrip(t *testing.T) {
	ctx := context.Background()
	repo, err := NewReportRepository(t.TempDir())
	require.NoError(t, err)

	report := newReport("user-1", 8.5, time.Now())
	require.NoError(t, repo.Save(ctx, report))

	got, err := repo.Get(ctx, "user-1", report.ID)
	require.NoError(t, err)
	assert.Equal(t, report, got)
}

func TestReportRepositoryOwnership(t *testing.T) {
	ctx := context.Background()
	repo, err := NewReportRepository(t.TempDir())
	require.NoError(t, err)

	mine := newReport("alice", 6, time.Now())
	require.NoError(t, repo.Save(ctx, mine))
	require.NoError(t, repo.Save(ctx, newReport("alice", 7, time.Now())))

	_, err = repo.Get(ctx, "bob", mine.ID)
	assert.ErrorIs(t, err, core.ErrReportNotFound)
	assert.ErrorIs(t, repo.Delete(ctx, "bob", mine.ID), core.ErrReportNotFound)

	list, err := repo.List(ctx, "alice")
	require.NoError(t, err)
	assert.Len(t, list, 2)

	require.NoError(t, repo.Delete(ctx, "alice", mine.ID))
	list, err = repo.List(ctx, "alice")
	require.NoError(t, err)
	assert.Len(t, list, 1)

	empty, err := repo.List(ctx, "carol")
	require.NoError(t, err)
	assert.Empty(t, empty)
	assert.NotNil(t, empty)
}

func TestReportRepositoryRejectsPathUser(t *testing.T) {
	repo, err := NewReportRepository(t.TempDir())
	require.NoError(t, err)

	err = repo.Save(context.Background(), newReport("../x", 1, time.Now()))
	assert.True(t, core.IsValidationError(err))
}
