package cli

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/aretw0/motionplan/internal/logging"
	"github.com/aretw0/motionplan/pkg/domain"
)

// SignalContext wraps a context and captures the signal that cancelled it.
type SignalContext struct {
	context.Context
	Cancel func()
	start  sync.Once
	stop   sync.Once
	sigCh  chan os.Signal
	sigVal os.Signal
	mu     sync.Mutex
}

// NewSignalContext creates a context that is cancelled on SIGINT or SIGTERM.
// It acts as a drop-in replacement for signal.NotifyContext but allows retrieving the signal.
func NewSignalContext(parent context.Context) *SignalContext {
	ctx, cancel := context.WithCancel(parent)
	sc := &SignalContext{
		Context: ctx,
		Cancel:  cancel,
		sigCh:   make(chan os.Signal, 1),
	}

	sc.start.Do(func() {
		signal.Notify(sc.sigCh, os.Interrupt, syscall.SIGTERM)
		go func() {
			select {
			case sig := <-sc.sigCh:
				sc.mu.Lock()
				sc.sigVal = sig
				sc.mu.Unlock()
				sc.Cancel()
			case <-sc.Context.Done():
			}
			sc.stop.Do(func() {
				signal.Stop(sc.sigCh)
			})
		}()
	})

	return sc
}

// Signal returns the signal that caused the context to be cancelled, or nil.
func (sc *SignalContext) Signal() os.Signal {
	sc.mu.Lock()
	defer sc.mu.Unlock()
	return sc.sigVal
}

// createLogger configures the application logger from --log-level.
func createLogger(level string) (*slog.Logger, slog.Level, error) {
	lvl, err := logging.ParseLevel(level)
	if err != nil {
		return nil, lvl, err
	}
	return logging.New(lvl), lvl, nil
}

func createDebugHooks(logger *slog.Logger) domain.LifecycleHooks {
	return domain.LifecycleHooks{
		OnTaskStart: func(ctx context.Context, e *domain.TaskEvent) {
			logger.Debug("Task Start", "scenario", e.ScenarioID, "planner", e.Planner)
		},
		OnTaskDone: func(ctx context.Context, e *domain.TaskEvent) {
			if e.Result == nil {
				return
			}
			logger.Debug("Task Done",
				"scenario", e.ScenarioID,
				"status", e.Result.Status,
				"nodes_expanded", e.Result.NodesExpanded,
			)
		},
		OnGoal: func(ctx context.Context, e *domain.ExpandEvent) {
			logger.Debug("Goal Reached", "depth", e.Depth, "time_step", e.TimeStep)
		},
	}
}
