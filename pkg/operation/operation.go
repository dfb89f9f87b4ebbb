// Package operation drives the scan, dedup, plan, and copy pipeline for a
// single run.
package operation

import (
	"context"

	"github.com/walteh/harvest/pkg/config"
	"github.com/walteh/harvest/pkg/log"
	"github.com/walteh/harvest/pkg/status"
	"gitlab.com/tozd/go/errors"
)

// 🚦 Phase is a state of the run state machine:
//
//	Scanning → AwaitingConfirmation → Copying → Done
//
// The confirmation state is entered only when the accepted match count
// exceeds the configured threshold.
type Phase int

const (
	PhaseScanning Phase = iota
	PhaseAwaitingConfirmation
	PhaseCopying
	PhaseDone
)

// String returns a string representation of Phase.
func (p Phase) String() string {
	switch p {
	case PhaseScanning:
		return "scanning"
	case PhaseAwaitingConfirmation:
		return "awaiting-confirmation"
	case PhaseCopying:
		return "copying"
	case PhaseDone:
		return "done"
	default:
		return "unknown"
	}
}

// 📈 ProgressSink receives callbacks from the run worker. Implementations
// must be safe for calls from a goroutine other than the caller's.
type ProgressSink interface {
	// OnPhase is called on every state machine transition.
	OnPhase(phase Phase)
	// OnProgress is called after every completed file during the copy phase.
	// total is the copy workload for the run — accepted matches after
	// duplicate skips and fingerprint failures — not the raw match count, so
	// the bar reaches total exactly when the last copy finishes.
	OnProgress(current, total int, fileName string)
}

// nopSink is used when no sink is configured.
type nopSink struct{}

func (nopSink) OnPhase(Phase)               {}
func (nopSink) OnProgress(int, int, string) {}

// ✋ ConfirmFunc decides whether a run whose accepted match count exceeds the
// confirmation threshold may proceed. Returning false ends the run as
// cancelled. A nil ConfirmFunc proceeds without gating.
type ConfirmFunc func(ctx context.Context, matchCount int) (bool, error)

// 🔧 Options contains configuration for the operator.
type Options struct {
	// Config is the validated run configuration. Required.
	Config *config.Config
	// StatusMgr tracks per-file outcomes and performs file operations. Required.
	StatusMgr *status.Manager
	// Logger is the console logger. Optional.
	Logger *log.Logger
	// Progress receives phase and per-file callbacks. Optional.
	Progress ProgressSink
	// Confirm gates large copies. Optional.
	Confirm ConfirmFunc
	// HashWorkers bounds parallel fingerprinting during collection. Values
	// below 1 fall back to the default.
	HashWorkers int
}

const defaultHashWorkers = 4

// 🎮 Operator runs the pipeline. Create one per run configuration; Run may
// be invoked again to start a fresh run (nothing is carried across runs).
type Operator struct {
	cfg         *config.Config
	statusMgr   *status.Manager
	logger      *log.Logger
	progress    ProgressSink
	confirm     ConfirmFunc
	hashWorkers int
}

// 🏭 New creates a new operator with the given options.
func New(opts Options) (*Operator, error) {
	if opts.Config == nil {
		return nil, errors.Errorf("config is required")
	}
	if opts.StatusMgr == nil {
		return nil, errors.Errorf("status manager is required")
	}
	if opts.Progress == nil {
		opts.Progress = nopSink{}
	}
	if opts.HashWorkers < 1 {
		opts.HashWorkers = defaultHashWorkers
	}
	return &Operator{
		cfg:         opts.Config,
		statusMgr:   opts.StatusMgr,
		logger:      opts.Logger,
		progress:    opts.Progress,
		confirm:     opts.Confirm,
		hashWorkers: opts.HashWorkers,
	}, nil
}
