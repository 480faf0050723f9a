package usecase

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type failingStore struct {
	loadErr, saveErr error
}

func (s failingStore) Load(context.Context, string) ([]int, error) { return []int{1}, s.loadErr }
func (s failingStore) Save(context.Context, string, []int) error   { return s.saveErr }

func TestProgressUsecase_Toggle(t *testing.T) {
	ctx := context.Background()
	uc := NewProgressUsecase(NewMemoryProgressStore())

	got, err := uc.Get(ctx, "client-1")
	require.NoError(t, err)
	assert.Empty(t, got)

	got, err = uc.Toggle(ctx, "client-1", 3)
	require.NoError(t, err)
	assert.Equal(t, []int{3}, got)

	got, err = uc.Toggle(ctx, "client-1", 0)
	require.NoError(t, err)
	assert.Equal(t, []int{0, 3}, got)

	got, err = uc.Toggle(ctx, "client-1", 3)
	require.NoError(t, err)
	assert.Equal(t, []int{0}, got)

	got, err = uc.Get(ctx, "client-1")
	require.NoError(t, err)
	assert.Equal(t, []int{0}, got)

	other, err := uc.Get(ctx, "client-2")
	require.NoError(t, err)
	assert.Empty(t, other)
}

func TestProgressUsecase_Validation(t *testing.T) {
	uc := NewProgressUsecase(NewMemoryProgressStore())

	_, err := uc.Toggle(context.Background(), "client", -1)
	assert.ErrorIs(t, err, ErrInvalidProgress)

	_, err = uc.Toggle(context.Background(), " ", 1)
	assert.ErrorIs(t, err, ErrInvalidProgress)

	_, err = uc.Get(context.Background(), "")
	assert.ErrorIs(t, err, ErrInvalidProgress)
}

func TestProgressUsecase_StoreErrors(t *testing.T) {
	boom := errors.New("db down")

	_, err := NewProgressUsecase(failingStore{loadErr: boom}).Toggle(context.Background(), "c", 1)
	assert.ErrorIs(t, err, boom)

	_, err = NewProgressUsecase(failingStore{saveErr: boom}).Toggle(context.Background(), "c", 2)
	assert.ErrorIs(t, err, boom)
}

func TestNormalizeProgress(t *testing.T) {
	assert.Equal(t, []int{0, 2, 5}, normalizeProgress([]int{5, 2, -1, 2, 0}))
	assert.Equal(t, []int{}, normalizeProgress(nil))
}
