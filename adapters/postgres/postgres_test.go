package postgres

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"interviewbuddy/domain/core"
	"interviewbuddy/domain/interview"
	"interviewbuddy/internal/migration"
	"interviewbuddy/models"
)

func newTestDB(t *testing.T) *sqlx.DB {
	t.Helper()
	url := os.Getenv("TEST_DATABASE_URL")
	if url == "" {
		t.Skip("TEST_DATABASE_URL not set")
	}
	db, err := sqlx.Connect("postgres", url)
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	require.NoError(t, migration.NewRunner().Run(context.Background(), db))
	return db
}

func TestUserRepository(t *testing.T) {
	db := newTestDB(t)
	repo := NewUserRepository(db)
	ctx := context.Background()

	email := "pg-" + core.NewID().String()[:8] + "@example.com"
	user, err := models.NewUser(email, "Pat Doe", "password123")
	require.NoError(t, err)
	require.NoError(t, repo.CreateUser(ctx, user))

	dup, err := models.NewUser(email, "Pat Doe", "password123")
	require.NoError(t, err)
	assert.ErrorIs(t, repo.CreateUser(ctx, dup), core.ErrEmailTaken)

	got, err := repo.GetUserByEmail(ctx, "  "+email)
	require.NoError(t, err)
	assert.True(t, got.CheckPassword("password123"))

	require.NoError(t, repo.TouchLogin(ctx, user.UserID()))
	got, err = repo.GetUserByID(ctx, user.UserID())
	require.NoError(t, err)
	assert.NotNil(t, got.LastLogin)

	_, err = repo.GetUserByID(ctx, "not-a-uuid")
	assert.ErrorIs(t, err, core.ErrUserNotFound)
}

func TestReportRepository(t *testing.T) {
	db := newTestDB(t)
	users := NewUserRepository(db)
	repo := NewReportRepository(db)
	ctx := context.Background()

	user, err := models.NewUser("rep-"+core.NewID().String()[:8]+"@example.com", "Rae Doe", "password123")
	require.NoError(t, err)
	require.NoError(t, users.CreateUser(ctx, user))

	report := &interview.Report{
		ID:        core.NewReportID(),
		UserID:    user.UserID(),
		CreatedAt: time.Now().UTC().Truncate(time.Millisecond),
		Setup:     interview.SetupDescriptor{JobRole: "Software Engineer", Domain: "Backend", InterviewType: interview.InterviewTechnical, QuestionCount: 1},
		Questions: []interview.Question{{Text: "q", Type: interview.QuestionShort, Category: "c"}},
		Answers:   interview.Answers{"0": "a"},
		Results:   interview.Results{OverallScore: 4.5, CategoryScores: map[string]float64{"c": 4.5}},
	}
	require.NoError(t, repo.Save(ctx, report))

	got, err := repo.Get(ctx, user.UserID(), report.ID)
	require.NoError(t, err)
	assert.Equal(t, report.Results, got.Results)
	assert.True(t, report.CreatedAt.Equal(got.CreatedAt))

	_, err = repo.Get(ctx, core.UserID(core.NewID()), report.ID)
	assert.ErrorIs(t, err, core.ErrReportNotFound)

	list, err := repo.List(ctx, user.UserID())
	require.NoError(t, err)
	assert.Len(t, list, 1)

	require.NoError(t, repo.Delete(ctx, user.UserID(), report.ID))
	assert.ErrorIs(t, repo.Delete(ctx, user.UserID(), report.ID), core.ErrReportNotFound)
}
