package app

import (
	"context"
	"errors"
	"math/rand"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"interviewbuddy/adapters/filestore"
	"interviewbuddy/adapters/llm/heuristic"
	"interviewbuddy/domain/core"
	"interviewbuddy/domain/interview"
	apperrors "interviewbuddy/internal/errors"
)

type fixture struct {
	svc    *InterviewService
	store  *memoryStore
	mirror *memoryMirror
	repo   *filestore.ReportRepository
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	bank, err := heuristic.NewQuestionBank(rand.New(rand.NewSource(3)))
	require.NoError(t, err)
	repo, err := filestore.NewReportRepository(t.TempDir())
	require.NoError(t, err)

	store := newMemoryStore()
	mirror := newMemoryMirror()
	agg := NewReportAggregator(heuristic.NewEvaluator(), repo, 2, zap.NewNop())
	return &fixture{
		svc:    NewInterviewService(store, mirror, bank, agg, zap.NewNop()),
		store:  store,
		mirror: mirror,
		repo:   repo,
	}
}

func technicalSetup() interview.SetupDescriptor {
	return interview.SetupDescriptor{
		JobRole:       "Software Engineer",
		Domain:        "Backend",
		InterviewType: interview.InterviewTechnical,
		QuestionCount: 5,
		QuestionType:  interview.FormatAIChoice,
	}
}

const user = core.UserID("user-1")

func start(t *testing.T, f *fixture) *SessionView {
	t.Helper()
	ctx := context.Background()
	_, err := f.svc.SubmitSetup(ctx, user, technicalSetup())
	require.NoError(t, err)
	view, _, err := f.svc.GenerateQuestions(ctx, user)
	require.NoError(t, err)
	return view
}

func TestSubmitSetupRejectsInvalidWithoutSaving(t *testing.T) {
	f := newFixture(t)
	bad := technicalSetup()
	bad.QuestionCount = 50

	_, err := f.svc.SubmitSetup(context.Background(), user, bad)

	assert.True(t, core.IsValidationError(err))
	assert.Equal(t, apperrors.CodeValidationError, apperrors.Classify(err))
	assert.Empty(t, f.store.states)
}

func TestSubmitSetupMovesToLoading(t *testing.T) {
	f := newFixture(t)
	setup := technicalSetup()
	setup.InterviewType = interview.InterviewBehavioral

	state, err := f.svc.SubmitSetup(context.Background(), user, setup)
	require.NoError(t, err)

	assert.Equal(t, interview.PhaseLoading, state.Phase())
	assert.Equal(t, interview.FormatShortAnswer, state.Setup.QuestionType)
	assert.Equal(t, interview.DefaultDifficulty, state.Setup.Difficulty)
}

func TestGenerateQuestionsRequiresSetup(t *testing.T) {
	f := newFixture(t)
	_, _, err := f.svc.GenerateQuestions(context.Background(), user)
	assert.ErrorIs(t, err, core.ErrNoSetup)
}

func TestGenerateQuestionsStartsAtFirstQuestion(t *testing.T) {
	f := newFixture(t)
	view := start(t, f)

	assert.Equal(t, 5, view.Total)
	assert.Equal(t, 0, view.Current)
	assert.Empty(t, view.Answers)
	assert.Contains(t, f.mirror.entries, view.InterviewID)

	state, err := f.svc.State(context.Background(), user)
	require.NoError(t, err)
	assert.Equal(t, interview.PhaseInProgress, state.Phase())
	assert.Equal(t, view.InterviewID, state.InterviewID)
}

func TestRegenerateReplacesPriorInterview(t *testing.T) {
	f := newFixture(t)
	first := start(t, f)
	_, err := f.svc.SubmitAnswer(context.Background(), user, 0, "B")
	require.NoError(t, err)

	second, _, err := f.svc.GenerateQuestions(context.Background(), user)
	require.NoError(t, err)

	assert.NotEqual(t, first.InterviewID, second.InterviewID)
	assert.Empty(t, second.Answers)
	assert.NotContains(t, f.store.sessions, first.InterviewID)
	assert.NotContains(t, f.mirror.entries, first.InterviewID)
}

func TestNavigation(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	start(t, f)

	_, err := f.svc.Previous(ctx, user)
	assert.ErrorIs(t, err, core.ErrAlreadyAtFirst)

	for i := 1; i < 5; i++ {
		view, completed, err := f.svc.Next(ctx, user)
		require.NoError(t, err)
		assert.False(t, completed)
		assert.Equal(t, i, view.Current)
	}
	view, completed, err := f.svc.Next(ctx, user)
	require.NoError(t, err)
	assert.True(t, completed)
	assert.Equal(t, 4, view.Current)

	view, err = f.svc.Previous(ctx, user)
	require.NoError(t, err)
	assert.Equal(t, 3, view.Current)

	view, err = f.svc.Jump(ctx, user, 1)
	require.NoError(t, err)
	assert.Equal(t, 1, view.Current)

	_, err = f.svc.Jump(ctx, user, 5)
	assert.ErrorIs(t, err, core.ErrInvalidQuestionIndex)
	current, err := f.svc.Current(ctx, user)
	require.NoError(t, err)
	assert.Equal(t, 1, current.Current)
}

func TestSubmitAnswerKeepsCursorAndOverwrites(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	start(t, f)

	_, err := f.svc.SubmitAnswer(ctx, user, 3, "first try at this")
	require.NoError(t, err)
	view, err := f.svc.SubmitAnswer(ctx, user, 3, "second try at this")
	require.NoError(t, err)

	assert.Equal(t, 0, view.Current)
	assert.Equal(t, "second try at this", view.Answers.For(3))

	_, err = f.svc.SubmitAnswer(ctx, user, 0, "Z")
	assert.ErrorIs(t, err, core.ErrInvalidAnswer)
	_, err = f.svc.SubmitAnswer(ctx, user, 9, "x")
	assert.ErrorIs(t, err, core.ErrInvalidQuestionIndex)
}

func TestSubmitAnswerKeepsCodeVerbatim(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	view := start(t, f)
	require.False(t, view.Questions[1].IsMCQ())

	answer := "Use List<String> instead of raw List, and render items in <ul> with each one in <li>."
	current, err := f.svc.SubmitAnswer(ctx, user, 1, answer)
	require.NoError(t, err)
	assert.Equal(t, answer, current.Answers.For(1))

	report, err := f.svc.Complete(ctx, user)
	require.NoError(t, err)
	assert.Equal(t, answer, report.Answers.For(1))
	assert.Equal(t, answer, report.Results.QuestionsResults[1].UserAnswer)
}

func TestCompleteKeepsOnlyReportReference(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	view := start(t, f)

	_, err := f.svc.SubmitAnswer(ctx, user, 0, "B")
	require.NoError(t, err)
	_, err = f.svc.SubmitAnswer(ctx, user, 2, "b")
	require.NoError(t, err)

	report, err := f.svc.Complete(ctx, user)
	require.NoError(t, err)

	require.Len(t, report.Results.QuestionsResults, 5)
	assert.Equal(t, 10, report.Results.QuestionsResults[0].Score)
	assert.Equal(t, 0, report.Results.QuestionsResults[2].Score, "mcq matching is case-sensitive")
	assert.Equal(t, "No answer provided.", report.Results.QuestionsResults[1].Feedback)

	state, err := f.svc.State(ctx, user)
	require.NoError(t, err)
	assert.Equal(t, interview.PhaseCompleted, state.Phase())
	assert.Equal(t, report.ID, state.ReportID)
	assert.Nil(t, state.Setup)
	assert.NotContains(t, f.store.sessions, view.InterviewID)
	assert.NotContains(t, f.mirror.entries, view.InterviewID)

	saved, err := f.repo.Get(ctx, user, report.ID)
	require.NoError(t, err)
	assert.Equal(t, report.Results.OverallScore, saved.Results.OverallScore)

	_, err = f.svc.Current(ctx, user)
	assert.ErrorIs(t, err, core.ErrNoActiveInterview)
}

func TestCompleteFailureLeavesStateUnchanged(t *testing.T) {
	bank, err := heuristic.NewQuestionBank(rand.New(rand.NewSource(3)))
	require.NoError(t, err)
	repo := new(MockReportRepository)
	repo.On("Save", mock.Anything, mock.Anything).Return(errors.New("disk full"))

	store := newMemoryStore()
	svc := NewInterviewService(store, newMemoryMirror(), bank, NewReportAggregator(heuristic.NewEvaluator(), repo, 1, zap.NewNop()), zap.NewNop())
	ctx := context.Background()
	_, err = svc.SubmitSetup(ctx, user, technicalSetup())
	require.NoError(t, err)
	view, _, err := svc.GenerateQuestions(ctx, user)
	require.NoError(t, err)

	_, err = svc.Complete(ctx, user)
	assert.Equal(t, apperrors.CodeDatabaseError, apperrors.GetCode(err))

	current, err := svc.Current(ctx, user)
	require.NoError(t, err)
	assert.Equal(t, view.InterviewID, current.InterviewID)
	repo.AssertExpectations(t)
}

func TestStoreOutageFallsBackToMirror(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	_, err := f.svc.SubmitSetup(ctx, user, technicalSetup())
	require.NoError(t, err)

	f.store.down = errors.New("connection refused")
	view, _, err := f.svc.GenerateQuestions(ctx, user)
	require.NoError(t, err)
	assert.Contains(t, f.mirror.entries, view.InterviewID)
	assert.Equal(t, view.InterviewID, f.mirror.states[user].InterviewID)

	current, err := f.svc.Current(ctx, user)
	require.NoError(t, err)
	assert.True(t, current.Recovered)
	assert.Equal(t, view.Questions, current.Questions)
	assert.Empty(t, current.Answers)
}

func TestStoreOutageMidInterviewRecoversFromMirror(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	view := start(t, f)
	_, err := f.svc.SubmitAnswer(ctx, user, 0, "B")
	require.NoError(t, err)

	f.store.down = errors.New("connection refused")
	_, err = f.store.GetUserState(ctx, user)
	require.Error(t, err)

	current, err := f.svc.Current(ctx, user)
	require.NoError(t, err)
	assert.True(t, current.Recovered)
	assert.Equal(t, view.InterviewID, current.InterviewID)
	assert.Equal(t, view.Questions, current.Questions)
	assert.Empty(t, current.Answers)

	report, err := f.svc.Complete(ctx, user)
	require.NoError(t, err)
	assert.Equal(t, report.ID, f.mirror.states[user].ReportID)
	assert.Empty(t, f.mirror.states[user].InterviewID)
}

func TestOutageWithoutMirroredStateIsDatabaseError(t *testing.T) {
	f := newFixture(t)
	f.store.down = errors.New("connection refused")

	_, err := f.svc.Current(context.Background(), user)
	assert.Equal(t, apperrors.CodeDatabaseError, apperrors.Classify(err))
}

func TestMissingQuestionsMeansStartOver(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	view := start(t, f)
	delete(f.store.sessions, view.InterviewID)
	delete(f.mirror.entries, view.InterviewID)

	_, err := f.svc.Current(ctx, user)
	assert.ErrorIs(t, err, core.ErrQuestionsNotFound)
	assert.Equal(t, apperrors.CodeNotFound, apperrors.Classify(err))
}

func TestAbandonClearsEverything(t *testing.T) {
	f := newFixture(t)
	view := start(t, f)

	require.NoError(t, f.svc.Abandon(context.Background(), user))
	require.NoError(t, f.svc.Abandon(context.Background(), user))

	assert.Empty(t, f.store.states)
	assert.NotContains(t, f.store.sessions, view.InterviewID)
	assert.Empty(t, f.mirror.entries)
}

func TestCleanupExpired(t *testing.T) {
	f := newFixture(t)
	view := start(t, f)
	s := f.store.sessions[view.InterviewID]
	s.CreatedAt = time.Now().Add(-25 * time.Hour)
	f.store.sessions[view.InterviewID] = s
	f.mirror.saved[view.InterviewID] = time.Now().Add(-25 * time.Hour)

	sessions, mirrored, err := f.svc.CleanupExpired(context.Background(), 24*time.Hour)
	require.NoError(t, err)
	assert.Equal(t, 1, sessions)
	assert.Equal(t, 1, mirrored)

	sessions, mirrored, err = f.svc.CleanupExpired(context.Background(), 24*time.Hour)
	require.NoError(t, err)
	assert.Zero(t, sessions)
	assert.Zero(t, mirrored)
}
