package usecase

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strings"
	"sync"
)

var ErrInvalidProgress = errors.New("invalid progress request")

// ProgressStore persists the completed challenge indices for one key.
type ProgressStore interface {
	Load(ctx context.Context, key string) ([]int, error)
	Save(ctx context.Context, key string, completed []int) error
}

type ProgressUsecase struct {
	store ProgressStore
	mu    sync.Mutex
}

func NewProgressUsecase(store ProgressStore) *ProgressUsecase {
	return &ProgressUsecase{store: store}
}

func (uc *ProgressUsecase) Get(ctx context.Context, key string) ([]int, error) {
	if strings.TrimSpace(key) == "" {
		return nil, fmt.Errorf("%w: client key is required", ErrInvalidProgress)
	}
	completed, err := uc.store.Load(ctx, key)
	if err != nil {
		return nil, fmt.Errorf("load progress: %w", err)
	}
	return normalizeProgress(completed), nil
}

// Toggle marks index completed, or clears it when it already is, and
// returns the resulting set.
func (uc *ProgressUsecase) Toggle(ctx context.Context, key string, index int) ([]int, error) {
	if strings.TrimSpace(key) == "" {
		return nil, fmt.Errorf("%w: client key is required", ErrInvalidProgress)
	}
	if index < 0 {
		return nil, fmt.Errorf("%w: index must not be negative", ErrInvalidProgress)
	}

	uc.mu.Lock()
	defer uc.mu.Unlock()

	completed, err := uc.store.Load(ctx, key)
	if err != nil {
		return nil, fmt.Errorf("load progress: %w", err)
	}
	completed = normalizeProgress(completed)

	if i, found := slices.BinarySearch(completed, index); found {
		completed = slices.Delete(completed, i, i+1)
	} else {
		completed = slices.Insert(completed, i, index)
	}

	if err := uc.store.Save(ctx, key, completed); err != nil {
		return nil, fmt.Errorf("save progress: %w", err)
	}
	return completed, nil
}

func normalizeProgress(in []int) []int {
	out := make([]int, 0, len(in))
	for _, v := range in {
		if v >= 0 {
			out = append(out, v)
		}
	}
	slices.Sort(out)
	return slices.Compact(out)
}

// MemoryProgressStore keeps progress in process memory. Used when no
// database is configured.
type MemoryProgressStore struct {
	mu   sync.RWMutex
	data map[string][]int
}

func NewMemoryProgressStore() *MemoryProgressStore {
	return &MemoryProgressStore{data: make(map[string][]int)}
}

func (s *MemoryProgressStore) Load(_ context.Context, key string) ([]int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return slices.Clone(s.data[key]), nil
}

func (s *MemoryProgressStore) Save(_ context.Context, key string, completed []int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.data[key] = slices.Clone(completed)
	return nil
}
