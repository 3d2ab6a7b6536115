package services

import (
	"context"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hireflow/hireflow/pkg/models"
)

func newMockDB(t *testing.T) (*JobQuestionService, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return NewJobQuestionService(db), mock
}

func jobQuestionRows() *sqlmock.Rows {
	return sqlmock.NewRows([]string{
		"id", "job_id", "question", "question_type", "is_required",
		"evaluation_criteria", "sort_order", "status", "created_at",
	})
}

func TestListByJob(t *testing.T) {
	svc, mock := newMockDB(t)
	now := time.Now()
	mock.ExpectQuery(`FROM job_questions`).
		WithArgs("job-1", "tenant-1").
		WillReturnRows(jobQuestionRows().
			AddRow("q-1", "job-1", "会Python吗", "assessment", true, "3年以上Python", 1, "normal", now).
			AddRow("q-2", "job-1", "期望薪资多少", "information", false, "", 2, "normal", now))

	questions, err := svc.ListByJob(context.Background(), "job-1", "tenant-1")
	require.NoError(t, err)
	require.Len(t, questions, 2)
	assert.Equal(t, "q-1", questions[0].ID)
	assert.Equal(t, models.QuestionTypeAssessment, questions[0].QuestionType)
	assert.True(t, questions[0].IsRequired)
	assert.Equal(t, "期望薪资多少", questions[1].Question)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestListByJobExcludesDeleted(t *testing.T) {
	svc, mock := newMockDB(t)
	mock.ExpectQuery(regexp.QuoteMeta(`status <> 'deleted'`)).
		WithArgs("job-1", "tenant-1").
		WillReturnRows(jobQuestionRows())

	questions, err := svc.ListByJob(context.Background(), "job-1", "tenant-1")
	require.NoError(t, err)
	assert.Empty(t, questions)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestListByJobValidation(t *testing.T) {
	svc, _ := newMockDB(t)

	_, err := svc.ListByJob(context.Background(), "", "tenant-1")
	assert.True(t, IsValidationError(err))

	_, err = svc.ListByJob(context.Background(), "job-1", "")
	assert.True(t, IsValidationError(err))
}

func TestGetByID(t *testing.T) {
	svc, mock := newMockDB(t)
	mock.ExpectQuery(`FROM job_questions`).
		WithArgs("q-1", "tenant-1").
		WillReturnRows(jobQuestionRows().
			AddRow("q-1", "job-1", "会Python吗", "assessment", true, "3年以上Python", 1, "normal", time.Now()))

	q, err := svc.GetByID(context.Background(), "q-1", "tenant-1")
	require.NoError(t, err)
	require.NotNil(t, q)
	assert.Equal(t, "会Python吗", q.Question)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGetByIDMissingReturnsNil(t *testing.T) {
	svc, mock := newMockDB(t)
	mock.ExpectQuery(`FROM job_questions`).
		WithArgs("ghost", "tenant-1").
		WillReturnRows(jobQuestionRows())

	q, err := svc.GetByID(context.Background(), "ghost", "tenant-1")
	require.NoError(t, err)
	assert.Nil(t, q)
}
