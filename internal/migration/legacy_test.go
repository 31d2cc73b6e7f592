package migration

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"interviewbuddy/adapters/filestore"
	"interviewbuddy/domain/core"
	"interviewbuddy/domain/interview"
	"interviewbuddy/models"
)

const legacyFile = `[
  {
    "id": "6f1c2a3e-8d4b-4c1a-9e2f-0a1b2c3d4e5f",
    "created_at": "2024-05-06T14:03:21.123456",
    "setup": {"job_role": "Data Scientist", "domain": "AI/ML", "interview_type": "Technical", "question_count": "5", "question_type": "MCQ"},
    "questions": [{"text": "What is overfitting?", "type": "short", "category": "Machine Learning"}],
    "answers": {"0": "When the model memorises noise"},
    "results": {"overall_score": 6.5, "questions_results": [{"question": "What is overfitting?", "score": 6, "category": "Machine Learning"}]}
  },
  {"id": "not-a-uuid", "created_at": "2024-05-06T14:03:21"},
  {"id": "1d2e3f40-5a6b-4c7d-8e9f-a0b1c2d3e4f5", "created_at": "yesterday"}
]`

func TestParseLegacyReports(t *testing.T) {
	reports, invalid := ParseLegacyReports([]byte(legacyFile), core.UserID("owner"))

	assert.Equal(t, 2, invalid)
	require.Len(t, reports, 1)
	r := reports[0]
	assert.Equal(t, core.UserID("owner"), r.UserID)
	assert.Equal(t, time.Date(2024, 5, 6, 14, 3, 21, 123456000, time.UTC), r.CreatedAt)
	assert.Equal(t, 5, r.Setup.QuestionCount)
	assert.Equal(t, interview.InterviewTechnical, r.Setup.InterviewType)
	assert.Equal(t, "When the model memorises noise", r.Answers.For(0))
	assert.Equal(t, 6.5, r.Results.OverallScore)
	require.Len(t, r.Questions, 1)
	assert.Equal(t, interview.QuestionShort, r.Questions[0].Type)
}

func TestParseLegacyReportsRejectsNonArray(t *testing.T) {
	reports, invalid := ParseLegacyReports([]byte(`{"id": 1}`), "owner")
	assert.Empty(t, reports)
	assert.Equal(t, 1, invalid)
}

func TestImportDirIsIdempotent(t *testing.T) {
	ctx := context.Background()
	src := t.TempDir()
	store := t.TempDir()

	users, err := filestore.NewUserRepository(store)
	require.NoError(t, err)
	reports, err := filestore.NewReportRepository(store)
	require.NoError(t, err)

	user, err := models.NewUser("ds@example.com", "Dana", "correct horse")
	require.NoError(t, err)
	require.NoError(t, users.CreateUser(ctx, user))

	owner := user.UserID().String()
	require.NoError(t, os.WriteFile(filepath.Join(src, owner+"_reports.json"), []byte(legacyFile), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(src, "ghost_reports.json"), []byte(legacyFile), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(src, "users.json"), []byte(`[]`), 0o644))

	importer := NewLegacyImporter(users, reports, zap.NewNop())

	first, err := importer.ImportDir(ctx, src)
	require.NoError(t, err)
	assert.Equal(t, ImportSummary{Files: 2, Imported: 1, Orphaned: 1, Invalid: 4}, first)

	second, err := importer.ImportDir(ctx, src)
	require.NoError(t, err)
	assert.Equal(t, 1, second.Duplicates)
	assert.Equal(t, 0, second.Imported)

	saved, err := reports.List(ctx, user.UserID())
	require.NoError(t, err)
	assert.Len(t, saved, 1)
}
