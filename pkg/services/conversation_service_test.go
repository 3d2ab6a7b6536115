package services

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hireflow/hireflow/pkg/flow"
)

func newConversationMock(t *testing.T) (*ConversationService, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return NewConversationService(db), mock
}

func TestConversationGet(t *testing.T) {
	svc, mock := newConversationMock(t)
	now := time.Now()
	mock.ExpectQuery(`FROM candidate_conversations`).
		WithArgs("conv-1", "tenant-1").
		WillReturnRows(sqlmock.NewRows([]string{
			"id", "tenant_id", "user_id", "job_id", "resume_id", "stage", "status", "created_at", "updated_at",
		}).AddRow("conv-1", "tenant-1", "user-1", "job-1", "resume-1", 2, "opened", now, now))

	conv, err := svc.Get(context.Background(), "conv-1", "tenant-1")
	require.NoError(t, err)
	require.NotNil(t, conv)
	assert.Equal(t, 2, conv.Stage)
	assert.Equal(t, "opened", conv.Status)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestConversationGetMissingReturnsNil(t *testing.T) {
	svc, mock := newConversationMock(t)
	mock.ExpectQuery(`FROM candidate_conversations`).
		WithArgs("ghost", "tenant-1").
		WillReturnRows(sqlmock.NewRows([]string{
			"id", "tenant_id", "user_id", "job_id", "resume_id", "stage", "status", "created_at", "updated_at",
		}))

	conv, err := svc.Get(context.Background(), "ghost", "tenant-1")
	require.NoError(t, err)
	assert.Nil(t, conv)
}

func TestUpdateStage(t *testing.T) {
	svc, mock := newConversationMock(t)
	mock.ExpectExec(`UPDATE candidate_conversations`).
		WithArgs(3, "conv-1", "tenant-1").
		WillReturnResult(sqlmock.NewResult(0, 1))

	err := svc.UpdateStage(context.Background(), "conv-1", "tenant-1", flow.StageIntention)
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUpdateStageMissingConversation(t *testing.T) {
	svc, mock := newConversationMock(t)
	mock.ExpectExec(`UPDATE candidate_conversations`).
		WithArgs(2, "ghost", "tenant-1").
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := svc.UpdateStage(context.Background(), "ghost", "tenant-1", flow.StageQuestioning)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestUpdateStageRejectsUnknownStage(t *testing.T) {
	svc, _ := newConversationMock(t)

	err := svc.UpdateStage(context.Background(), "conv-1", "tenant-1", flow.ConversationStage(9))
	assert.True(t, IsValidationError(err))
}
