package service

import (
	"context"
	"testing"

	"github.com/Freeeeeet/training_bot/internal/model"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

func TestRoutineService_UpsertReplacesContent(t *testing.T) {
	svc := NewRoutineService(newMemRoutineStore(), zaptest.NewLogger(t))
	ctx := context.Background()
	student := uuid.New()
	coach := admin()

	require.NoError(t, svc.UpsertEntry(ctx, coach, student, 3, "squats"))
	content, err := svc.GetEntry(ctx, student, 3)
	require.NoError(t, err)
	assert.Equal(t, "squats", content)

	require.NoError(t, svc.UpsertEntry(ctx, coach, student, 3, "deadlifts"))
	content, err = svc.GetEntry(ctx, student, 3)
	require.NoError(t, err)
	assert.Equal(t, "deadlifts", content)
}

func TestRoutineService_MissingEntryIsEmpty(t *testing.T) {
	svc := NewRoutineService(newMemRoutineStore(), zaptest.NewLogger(t))

	content, err := svc.GetEntry(context.Background(), uuid.New(), 1)

	require.NoError(t, err)
	assert.Empty(t, content)
}

func TestRoutineService_Rules(t *testing.T) {
	svc := NewRoutineService(newMemRoutineStore(), zaptest.NewLogger(t))
	ctx := context.Background()
	student := uuid.New()

	err := svc.UpsertEntry(ctx, regular(), student, 1, "plank")
	assert.ErrorIs(t, err, model.ErrForbidden)

	err = svc.UpsertEntry(ctx, admin(), student, 7, "rest")
	assert.ErrorIs(t, err, model.ErrValidation)

	_, err = svc.GetEntry(ctx, student, 0)
	assert.ErrorIs(t, err, model.ErrValidation)
}
