package usecase

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/fadilmartias/career-pulse/internal/logger"
	"github.com/fadilmartias/career-pulse/internal/model"
	"github.com/fadilmartias/career-pulse/internal/service"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

var (
	ErrInvalidState     = errors.New("analysis already started")
	ErrNotReady         = errors.New("report is not ready")
	ErrStaleSession     = errors.New("session was reset")
	ErrCoreAnalysis     = errors.New("core analysis failed")
	ErrStudioSuperseded = errors.New("studio request superseded by a newer one")
	errSectionMismatch  = errors.New("loader returned a result for another section")
)

const publishTimeout = 5 * time.Second

type OrchestratorOptions struct {
	CoreTimeout    time.Duration
	SectionTimeout time.Duration
	Publisher      service.EventPublisherInterface
}

// Orchestrator owns one workspace: the profile, the report and the set of
// sections currently being fetched. All state changes go through its methods
// under mu; network calls run outside the lock.
type Orchestrator struct {
	id        uuid.UUID
	core      CoreAnalyzer
	loaders   map[model.Section]SectionLoader
	publisher service.EventPublisherInterface
	opts      OrchestratorOptions

	mu           sync.Mutex
	state        model.AppState
	errMsg       string
	profile      *model.ProfileData
	report       *model.AnalysisReport
	inFlight     map[model.Section]struct{}
	regenerating int
	studioSeq    uint64
	session      uuid.UUID
	sessionCtx   context.Context
	cancel       context.CancelFunc

	wg sync.WaitGroup
}

func NewOrchestrator(id uuid.UUID, core CoreAnalyzer, loaders map[model.Section]SectionLoader, opts OrchestratorOptions) *Orchestrator {
	if opts.Publisher == nil {
		opts.Publisher = service.NoopPublisher{}
	}
	o := &Orchestrator{
		id:        id,
		core:      core,
		loaders:   loaders,
		publisher: opts.Publisher,
		opts:      opts,
		state:     model.StateIdle,
		inFlight:  make(map[model.Section]struct{}),
	}
	o.newSession()
	return o
}

func (o *Orchestrator) ID() uuid.UUID {
	return o.id
}

// newSession must be called with mu held (or before o is shared).
func (o *Orchestrator) newSession() {
	o.session = uuid.New()
	o.sessionCtx, o.cancel = context.WithCancel(context.Background())
}

// RunCoreAnalysis performs the blocking core call. On success the report
// holds core fields only, the state becomes Ready and every background
// section is scheduled.
func (o *Orchestrator) RunCoreAnalysis(ctx context.Context, profile model.ProfileData) (*model.AnalysisReport, error) {
	if err := profile.Validate(); err != nil {
		return nil, err
	}

	o.mu.Lock()
	if o.state != model.StateIdle {
		state := o.state
		o.mu.Unlock()
		return nil, fmt.Errorf("%w: workspace is %s", ErrInvalidState, state)
	}
	o.state = model.StateAnalyzing
	p := profile.Clone()
	o.profile = &p
	session, sessionCtx := o.session, o.sessionCtx
	o.mu.Unlock()
	o.emit(model.WorkspaceEvent{SessionID: session, State: model.StateAnalyzing})

	callCtx, cancel := o.callContext(ctx, sessionCtx, o.opts.CoreTimeout)
	defer cancel()

	logger.Log.WithField("workspace", o.id).Info("Starting core analysis")
	report, err := o.core.AnalyzeCore(callCtx, profile.Clone())

	o.mu.Lock()
	if o.session != session {
		o.mu.Unlock()
		logger.Log.WithField("workspace", o.id).Info("Discarding core analysis from a reset session")
		return nil, ErrStaleSession
	}
	if err == nil && report == nil {
		err = errors.New("empty report")
	}
	if err != nil {
		o.state = model.StateError
		o.errMsg = err.Error()
		o.mu.Unlock()
		logger.Log.WithField("workspace", o.id).Errorf("Core analysis failed: %v", err)
		o.emit(model.WorkspaceEvent{SessionID: session, State: model.StateError, Message: err.Error()})
		return nil, fmt.Errorf("%w: %w", ErrCoreAnalysis, err)
	}
	report.ClearExtensions()
	report.NormalizeCore()
	o.report = report
	o.state = model.StateReady
	out := report.Clone()
	o.mu.Unlock()
	o.emit(model.WorkspaceEvent{SessionID: session, State: model.StateReady})

	for _, section := range model.BackgroundSections {
		o.ScheduleSection(section)
	}
	return out, nil
}

// ScheduleSection starts a background fetch for section and reports whether
// one was started. It is a no-op unless the report is ready, the section is
// absent and not already in flight. Studio also needs a target job and no
// pending regeneration.
func (o *Orchestrator) ScheduleSection(section model.Section) bool {
	o.mu.Lock()
	if !section.Valid() || o.state != model.StateReady || o.report.Has(section) {
		o.mu.Unlock()
		return false
	}
	if _, busy := o.inFlight[section]; busy {
		o.mu.Unlock()
		return false
	}
	if section == model.SectionStudio && (!o.profile.HasTargetJob() || o.regenerating > 0) {
		o.mu.Unlock()
		return false
	}
	loader, ok := o.loaders[section]
	if !ok {
		o.mu.Unlock()
		return false
	}

	o.inFlight[section] = struct{}{}
	var seq uint64
	if section == model.SectionStudio {
		o.studioSeq++
		seq = o.studioSeq
	}
	profile := o.profile.Clone()
	report := *o.report
	session, sessionCtx := o.session, o.sessionCtx
	o.wg.Add(1)
	o.mu.Unlock()

	o.emit(model.WorkspaceEvent{SessionID: session, Section: section, Status: model.StatusLoading})
	go o.runSection(sessionCtx, session, seq, section, loader, profile, report)
	return true
}

func (o *Orchestrator) runSection(sessionCtx context.Context, session uuid.UUID, seq uint64, section model.Section, loader SectionLoader, profile model.ProfileData, report model.AnalysisReport) {
	defer o.wg.Done()

	callCtx, cancel := o.callContext(context.Background(), sessionCtx, o.opts.SectionTimeout)
	defer cancel()

	res, err := loader.Load(callCtx, profile, report)
	if err == nil && (res == nil || res.Section() != section) {
		err = errSectionMismatch
	}

	log := logger.Log.WithFields(logrus.Fields{"workspace": o.id, "section": section})

	o.mu.Lock()
	if o.session != session {
		o.mu.Unlock()
		log.Debug("Discarding section result from a reset session")
		return
	}
	delete(o.inFlight, section)

	status := model.StatusIdle
	switch {
	case err != nil:
		log.Warnf("Section load failed: %v", err)
	case section == model.SectionStudio && seq != o.studioSeq:
		log.Debug("Discarding superseded studio result")
	default:
		res.MergeInto(o.report)
		status = model.StatusReady
	}
	o.mu.Unlock()

	o.emit(model.WorkspaceEvent{SessionID: session, Section: section, Status: status})
}

// UpdateStudioSection overwrites the studio materials directly. Any studio
// request still pending is superseded.
func (o *Orchestrator) UpdateStudioSection(materials model.ApplicationTailoring) error {
	o.mu.Lock()
	if o.state != model.StateReady {
		o.mu.Unlock()
		return ErrNotReady
	}
	o.studioSeq++
	model.StudioResult{Tailoring: materials}.MergeInto(o.report)
	session := o.session
	o.mu.Unlock()

	o.emit(model.WorkspaceEvent{SessionID: session, Section: model.SectionStudio, Status: model.StatusReady})
	return nil
}

// AttachTargetJob replaces the profile's target job and schedules studio
// generation if it is not already present or in flight.
func (o *Orchestrator) AttachTargetJob(job model.TargetJob) (bool, error) {
	if err := job.Validate(); err != nil {
		return false, err
	}

	o.mu.Lock()
	if o.state != model.StateReady {
		o.mu.Unlock()
		return false, ErrNotReady
	}
	p := o.profile.WithTargetJob(job)
	o.profile = &p
	o.mu.Unlock()

	return o.ScheduleSection(model.SectionStudio), nil
}

// RegenerateStudio generates studio materials for job and waits for the
// result. When several regenerations overlap only the latest is applied;
// earlier callers get ErrStudioSuperseded.
func (o *Orchestrator) RegenerateStudio(ctx context.Context, job model.TargetJob) (*model.ApplicationTailoring, error) {
	if err := job.Validate(); err != nil {
		return nil, err
	}

	o.mu.Lock()
	if o.state != model.StateReady {
		o.mu.Unlock()
		return nil, ErrNotReady
	}
	loader, ok := o.loaders[model.SectionStudio]
	if !ok {
		o.mu.Unlock()
		return nil, fmt.Errorf("no studio loader configured")
	}
	p := o.profile.WithTargetJob(job)
	o.profile = &p
	o.studioSeq++
	seq := o.studioSeq
	o.regenerating++
	profile := p.Clone()
	report := *o.report
	session, sessionCtx := o.session, o.sessionCtx
	o.mu.Unlock()
	o.emit(model.WorkspaceEvent{SessionID: session, Section: model.SectionStudio, Status: model.StatusLoading})

	callCtx, cancel := o.callContext(ctx, sessionCtx, o.opts.SectionTimeout)
	defer cancel()

	res, err := loader.Load(callCtx, profile, report)
	if err == nil && (res == nil || res.Section() != model.SectionStudio) {
		err = errSectionMismatch
	}

	o.mu.Lock()
	if o.session != session {
		o.mu.Unlock()
		return nil, ErrStaleSession
	}
	o.regenerating--
	if err != nil {
		o.mu.Unlock()
		logger.Log.WithField("workspace", o.id).Warnf("Studio regeneration failed: %v", err)
		o.emit(model.WorkspaceEvent{SessionID: session, Section: model.SectionStudio, Status: model.StatusIdle, Message: err.Error()})
		return nil, fmt.Errorf("studio regeneration: %w", err)
	}
	if seq != o.studioSeq {
		o.mu.Unlock()
		return nil, ErrStudioSuperseded
	}
	res.MergeInto(o.report)
	out := *o.report.ApplicationTailoring
	o.mu.Unlock()

	o.emit(model.WorkspaceEvent{SessionID: session, Section: model.SectionStudio, Status: model.StatusReady})
	return &out, nil
}

// Navigate schedules the tab's section when it is missing and returns the
// tab's view.
func (o *Orchestrator) Navigate(tab model.Tab) (TabView, error) {
	if section, ok := tab.Section(); ok {
		o.ScheduleSection(section)
	}
	return RouteTab(o.Snapshot(), tab)
}

func (o *Orchestrator) Snapshot() Snapshot {
	o.mu.Lock()
	defer o.mu.Unlock()

	snap := Snapshot{
		WorkspaceID: o.id,
		SessionID:   o.session,
		State:       o.state,
		Error:       o.errMsg,
		Report:      o.report.Clone(),
		InFlight:    make(map[model.Section]bool, len(o.inFlight)+1),
	}
	if o.profile != nil {
		p := o.profile.Clone()
		snap.Profile = &p
	}
	for s := range o.inFlight {
		snap.InFlight[s] = true
	}
	if o.regenerating > 0 {
		snap.InFlight[model.SectionStudio] = true
	}
	return snap
}

// Reset returns the workspace to Idle. Pending calls are cancelled and any
// result that still arrives is discarded.
func (o *Orchestrator) Reset() {
	o.mu.Lock()
	o.cancel()
	o.newSession()
	o.state = model.StateIdle
	o.errMsg = ""
	o.profile = nil
	o.report = nil
	o.inFlight = make(map[model.Section]struct{})
	o.regenerating = 0
	session := o.session
	o.mu.Unlock()

	logger.Log.WithField("workspace", o.id).Info("Workspace reset")
	o.emit(model.WorkspaceEvent{SessionID: session, State: model.StateIdle})
}

// Close cancels pending calls. The orchestrator must not be used afterwards.
func (o *Orchestrator) Close() {
	o.mu.Lock()
	o.cancel()
	o.mu.Unlock()
}

// Wait blocks until every background section call has returned.
func (o *Orchestrator) Wait() {
	o.wg.Wait()
}

// callContext derives a context from parent that is also cancelled when the
// session ends.
func (o *Orchestrator) callContext(parent, sessionCtx context.Context, timeout time.Duration) (context.Context, context.CancelFunc) {
	var (
		ctx    context.Context
		cancel context.CancelFunc
	)
	if timeout > 0 {
		ctx, cancel = context.WithTimeout(parent, timeout)
	} else {
		ctx, cancel = context.WithCancel(parent)
	}
	stop := context.AfterFunc(sessionCtx, cancel)
	return ctx, func() {
		stop()
		cancel()
	}
}

func (o *Orchestrator) emit(event model.WorkspaceEvent) {
	event.WorkspaceID = o.id
	event.Timestamp = time.Now()

	ctx, cancel := context.WithTimeout(context.Background(), publishTimeout)
	defer cancel()
	if err := o.publisher.Publish(ctx, event); err != nil {
		logger.Log.WithField("workspace", o.id).Warnf("Failed to publish workspace event: %v", err)
	}
}
