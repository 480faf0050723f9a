package usecase

import (
	"errors"
	"fmt"
	"sync"

	"github.com/fadilmartias/career-pulse/internal/config"
	"github.com/fadilmartias/career-pulse/internal/logger"
	"github.com/fadilmartias/career-pulse/internal/model"
	"github.com/fadilmartias/career-pulse/internal/service"
	"github.com/google/uuid"
)

var (
	ErrWorkspaceNotFound = errors.New("workspace not found")
	ErrWorkspaceLimit    = errors.New("workspace limit reached")
)

// WorkspaceUsecase keeps one Orchestrator per workspace id in memory.
type WorkspaceUsecase struct {
	core      CoreAnalyzer
	loaders   map[model.Section]SectionLoader
	opts      OrchestratorOptions
	max       int
	mu        sync.RWMutex
	workspace map[uuid.UUID]*Orchestrator
}

func NewWorkspaceUsecase(core CoreAnalyzer, loaders map[model.Section]SectionLoader, publisher service.EventPublisherInterface, cfg *config.OrchestratorConfig) *WorkspaceUsecase {
	return &WorkspaceUsecase{
		core:    core,
		loaders: loaders,
		opts: OrchestratorOptions{
			CoreTimeout:    cfg.CoreTimeout,
			SectionTimeout: cfg.SectionTimeout,
			Publisher:      publisher,
		},
		max:       cfg.MaxWorkspaces,
		workspace: make(map[uuid.UUID]*Orchestrator),
	}
}

func (uc *WorkspaceUsecase) Create() (*Orchestrator, error) {
	uc.mu.Lock()
	defer uc.mu.Unlock()

	if uc.max > 0 && len(uc.workspace) >= uc.max {
		return nil, fmt.Errorf("%w (%d)", ErrWorkspaceLimit, uc.max)
	}
	o := NewOrchestrator(uuid.New(), uc.core, uc.loaders, uc.opts)
	uc.workspace[o.ID()] = o
	logger.Log.WithField("workspace", o.ID()).Info("Workspace created")
	return o, nil
}

func (uc *WorkspaceUsecase) Get(id string) (*Orchestrator, error) {
	key, err := uuid.Parse(id)
	if err != nil {
		return nil, ErrWorkspaceNotFound
	}

	uc.mu.RLock()
	defer uc.mu.RUnlock()
	o, ok := uc.workspace[key]
	if !ok {
		return nil, ErrWorkspaceNotFound
	}
	return o, nil
}

func (uc *WorkspaceUsecase) Delete(id string) error {
	key, err := uuid.Parse(id)
	if err != nil {
		return ErrWorkspaceNotFound
	}

	uc.mu.Lock()
	o, ok := uc.workspace[key]
	delete(uc.workspace, key)
	uc.mu.Unlock()

	if !ok {
		return ErrWorkspaceNotFound
	}
	o.Close()
	logger.Log.WithField("workspace", key).Info("Workspace deleted")
	return nil
}

func (uc *WorkspaceUsecase) Count() int {
	uc.mu.RLock()
	defer uc.mu.RUnlock()
	return len(uc.workspace)
}
