package services

import (
	"context"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hireflow/hireflow/pkg/models"
)

func newTrackingMock(t *testing.T) (*QuestionTrackingService, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return NewQuestionTrackingService(db), mock
}

func trackingRows() *sqlmock.Rows {
	return sqlmock.NewRows([]string{
		"id", "conversation_id", "question_id", "job_id", "resume_id",
		"question", "status", "is_satisfied", "created_at", "updated_at",
	})
}

func TestBulkCreate(t *testing.T) {
	svc, mock := newTrackingMock(t)
	questions := []models.JobQuestion{
		{ID: "q-1", Question: "会Python吗"},
		{ID: "q-2", Question: "期望薪资多少"},
	}

	mock.ExpectBegin()
	for _, q := range questions {
		mock.ExpectExec(`INSERT INTO question_trackings`).
			WithArgs(sqlmock.AnyArg(), "tenant-1", "user-1", "conv-1",
				q.ID, "job-1", "resume-1", q.Question, "pending").
			WillReturnResult(sqlmock.NewResult(0, 1))
	}
	mock.ExpectCommit()

	err := svc.BulkCreate(context.Background(), "conv-1", "job-1", "resume-1", "tenant-1", "user-1", questions)
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestBulkCreateEmptyIsNoop(t *testing.T) {
	svc, mock := newTrackingMock(t)

	require.NoError(t, svc.BulkCreate(context.Background(), "conv-1", "job-1", "resume-1", "tenant-1", "user-1", nil))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestBulkCreateRollsBackOnFailure(t *testing.T) {
	svc, mock := newTrackingMock(t)

	mock.ExpectBegin()
	mock.ExpectExec(`INSERT INTO question_trackings`).
		WillReturnError(errors.New("unique violation"))
	mock.ExpectRollback()

	err := svc.BulkCreate(context.Background(), "conv-1", "job-1", "resume-1", "tenant-1", "user-1",
		[]models.JobQuestion{{ID: "q-1", Question: "会Python吗"}})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "q-1")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestListByConversationStatusFilter(t *testing.T) {
	svc, mock := newTrackingMock(t)
	now := time.Now()
	mock.ExpectQuery(regexp.QuoteMeta(`AND status IN ($3)`)).
		WithArgs("conv-1", "tenant-1", "ongoing").
		WillReturnRows(trackingRows().
			AddRow("t-1", "conv-1", "q-1", "job-1", "resume-1", "会Python吗", "ongoing", nil, now, now))

	rows, err := svc.ListByConversation(context.Background(), "conv-1", "tenant-1", models.TrackingOngoing)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, models.TrackingOngoing, rows[0].Status)
	assert.Nil(t, rows[0].IsSatisfied)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestListByConversationRejectsUnknownStatus(t *testing.T) {
	svc, _ := newTrackingMock(t)

	_, err := svc.ListByConversation(context.Background(), "conv-1", "tenant-1", models.TrackingStatus("archived"))
	assert.True(t, IsValidationError(err))
}

func TestGetNextPendingPrefersOngoing(t *testing.T) {
	svc, mock := newTrackingMock(t)
	now := time.Now()
	mock.ExpectQuery(regexp.QuoteMeta(`ORDER BY CASE qt.status WHEN 'ongoing' THEN 0 ELSE 1 END`)).
		WithArgs("conv-1", "tenant-1").
		WillReturnRows(trackingRows().
			AddRow("t-1", "conv-1", "q-1", "job-1", "resume-1", "会Python吗", "ongoing", nil, now, now))

	row, err := svc.GetNextPending(context.Background(), "conv-1", "tenant-1")
	require.NoError(t, err)
	require.NotNil(t, row)
	assert.Equal(t, "t-1", row.ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGetNextPendingNoneLeft(t *testing.T) {
	svc, mock := newTrackingMock(t)
	mock.ExpectQuery(`FROM question_trackings`).
		WithArgs("conv-1", "tenant-1").
		WillReturnRows(trackingRows())

	row, err := svc.GetNextPending(context.Background(), "conv-1", "tenant-1")
	require.NoError(t, err)
	assert.Nil(t, row)
}

func TestUpdateStatus(t *testing.T) {
	svc, mock := newTrackingMock(t)
	now := time.Now()
	satisfied := true
	mock.ExpectQuery(`UPDATE question_trackings`).
		WithArgs("completed", true, "t-1", "tenant-1").
		WillReturnRows(trackingRows().
			AddRow("t-1", "conv-1", "q-1", "job-1", "resume-1", "会Python吗", "completed", true, now, now))

	row, err := svc.UpdateStatus(context.Background(), "t-1", "tenant-1", models.TrackingCompleted, &satisfied)
	require.NoError(t, err)
	assert.Equal(t, models.TrackingCompleted, row.Status)
	require.NotNil(t, row.IsSatisfied)
	assert.True(t, *row.IsSatisfied)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUpdateStatusMissingRow(t *testing.T) {
	svc, mock := newTrackingMock(t)
	mock.ExpectQuery(`UPDATE question_trackings`).
		WithArgs("skipped", nil, "ghost", "tenant-1").
		WillReturnRows(trackingRows())

	_, err := svc.UpdateStatus(context.Background(), "ghost", "tenant-1", models.TrackingSkipped, nil)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestUpdateStatusRejectsUnknownStatus(t *testing.T) {
	svc, _ := newTrackingMock(t)

	_, err := svc.UpdateStatus(context.Background(), "t-1", "tenant-1", models.TrackingStatus("archived"), nil)
	assert.True(t, IsValidationError(err))
}
