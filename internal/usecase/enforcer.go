package usecase

import (
	"context"
	"fmt"
	"sync"
	"time"

	"audioctl/internal/domain"
	"audioctl/internal/logging"
)

// EnforcerUseCase is the primary port for the volume enforcer.
type EnforcerUseCase interface {
	Start(ctx context.Context)
	GetSnapshot() domain.Snapshot
	ApplyNow(ctx context.Context, volume int) error
	UpdateConfig(ctx context.Context, config domain.EnforceConfig, applyNow bool) error
}

// EnforcerOption customizes the enforcer, mainly for tests.
type EnforcerOption func(*enforcerInteractor)

// WithClock replaces time.Now.
func WithClock(now func() time.Time) EnforcerOption {
	return func(e *enforcerInteractor) { e.now = now }
}

// WithTick sets how often the loop checks whether a run is due.
func WithTick(d time.Duration) EnforcerOption {
	return func(e *enforcerInteractor) { e.tick = d }
}

// enforcerInteractor keeps its state in memory only.
type enforcerInteractor struct {
	controller domain.Controller
	service    *domain.EnforcerService
	now        func() time.Time
	tick       time.Duration

	mu     sync.RWMutex
	config domain.EnforceConfig
	state  domain.ScheduleState
}

// NewEnforcerUseCase creates an enforcer for the given initial config.
func NewEnforcerUseCase(controller domain.Controller, config domain.EnforceConfig, opts ...EnforcerOption) (EnforcerUseCase, error) {
	service := domain.NewEnforcerService()
	config, err := service.ValidateAndNormalize(config)
	if err != nil {
		return nil, err
	}

	e := &enforcerInteractor{
		controller: controller,
		service:    service,
		now:        time.Now,
		tick:       time.Second,
		config:     config,
		state:      domain.ScheduleState{LastApplyStatus: domain.StatusNever},
	}
	for _, opt := range opts {
		opt(e)
	}
	return e, nil
}

// Start runs the enforcement loop until ctx is done.
func (e *enforcerInteractor) Start(ctx context.Context) {
	go e.loop(ctx)
}

func (e *enforcerInteractor) loop(ctx context.Context) {
	ticker := time.NewTicker(e.tick)
	defer ticker.Stop()

	e.runIfDue(ctx)
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			e.runIfDue(ctx)
		}
	}
}

func (e *enforcerInteractor) runIfDue(ctx context.Context) {
	if ctx.Err() != nil {
		return
	}
	e.mu.RLock()
	due := !e.state.IsRunning && e.service.ShouldApply(e.state, e.config, e.now())
	config := e.config
	e.mu.RUnlock()

	if due {
		_ = e.apply(ctx, config, config.TargetVolume)
	}
}

// apply runs one enforcement and records the outcome.
func (e *enforcerInteractor) apply(ctx context.Context, config domain.EnforceConfig, volume int) error {
	now := e.now()
	e.mu.Lock()
	e.state = e.service.StartRunning(e.state)
	e.mu.Unlock()

	err := e.enforce(ctx, config, volume)

	e.mu.Lock()
	defer e.mu.Unlock()
	if err != nil {
		logging.Warnf("enforce %s volume %d: %v", config.Device, volume, err)
		e.state = e.service.ApplyFailure(e.state, config, err, now)
	} else {
		logging.Infof("enforced %s volume %d", config.Device, volume)
		e.state = e.service.ApplySuccess(e.state, config, now)
	}
	return err
}

func (e *enforcerInteractor) enforce(ctx context.Context, config domain.EnforceConfig, volume int) error {
	ctl, err := e.controller.Device(config.Device)
	if err != nil {
		return err
	}
	if err := ctl.Set(ctx, float64(volume)); err != nil {
		return fmt.Errorf("set volume: %w", err)
	}
	if !config.KeepUnmuted {
		return nil
	}
	muted, err := ctl.IsMuted(ctx)
	if err != nil {
		return fmt.Errorf("read mute state: %w", err)
	}
	if muted {
		logging.Infof("%s was muted, unmuting", config.Device)
		if err := ctl.Unmute(ctx); err != nil {
			return fmt.Errorf("unmute: %w", err)
		}
	}
	return nil
}

// GetSnapshot returns the current config and schedule state.
func (e *enforcerInteractor) GetSnapshot() domain.Snapshot {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return domain.Snapshot{
		Config:        e.config,
		ScheduleState: e.state,
	}
}

// ApplyNow applies volume immediately. A negative volume means the
// configured target.
func (e *enforcerInteractor) ApplyNow(ctx context.Context, volume int) error {
	e.mu.RLock()
	config := e.config
	e.mu.RUnlock()

	if volume < 0 {
		volume = config.TargetVolume
	}
	if volume > int(domain.MaxVolume) {
		return domain.ErrInvalidVolume
	}
	return e.apply(ctx, config, volume)
}

// UpdateConfig replaces the config and optionally applies it at once.
func (e *enforcerInteractor) UpdateConfig(ctx context.Context, config domain.EnforceConfig, applyNow bool) error {
	config, err := e.service.ValidateAndNormalize(config)
	if err != nil {
		return err
	}

	e.mu.Lock()
	e.config = config
	e.state.NextRun = e.service.CalculateNextRun(e.now(), config.Interval)
	e.mu.Unlock()

	if applyNow {
		return e.ApplyNow(ctx, config.TargetVolume)
	}
	return nil
}
