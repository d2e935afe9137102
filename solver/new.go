package solver

import (
	"time"

	"github.com/cockroachdb/errors"
	"go.uber.org/zap"

	"github.com/qbflab/gopherqbf/cnf"
)

// Options selects and parameterizes a back-end at startup. The two
// back-ends are interchangeable behind the Solver interface; nothing
// downstream probes for one by name at call time.
type Options struct {
	// Backend is "depqbf", "bridge" or "auto" (prefer the solver
	// binary, fall back to the bridge).
	Backend string
	// SolverCommand is the QDIMACS solver invocation, shell-style.
	SolverCommand string
	// JavaCommand, BridgeJar and BridgeClassDir configure the bridge.
	JavaCommand    string
	BridgeJar      string
	BridgeClassDir string
	Timeout        time.Duration
	Mode           cnf.Mode
	Log            *zap.SugaredLogger
}

// New builds the configured back-end. With the "auto" backend the solver
// binary is preferred; when it cannot be resolved and a bridge is
// configured, the bridge takes over. Neither resolving is a setup-time
// error, not a per-query one.
func New(opts Options) (Solver, error) {
	log := opts.Log
	if log == nil {
		log = zap.NewNop().Sugar()
	}
	switch opts.Backend {
	case "depqbf":
		return NewDepQBF(opts.SolverCommand, opts.Timeout, opts.Mode, log)
	case "bridge":
		return NewTweetyBridge(opts.JavaCommand, opts.BridgeJar, opts.BridgeClassDir, opts.Timeout, log)
	case "", "auto":
		s, err := NewDepQBF(opts.SolverCommand, opts.Timeout, opts.Mode, log)
		if err == nil {
			return s, nil
		}
		log.Warnw("primary solver unavailable, trying bridge", "error", err)
		b, berr := NewTweetyBridge(opts.JavaCommand, opts.BridgeJar, opts.BridgeClassDir, opts.Timeout, log)
		if berr != nil {
			return nil, errors.CombineErrors(err, berr)
		}
		return b, nil
	default:
		return nil, errors.Newf("unknown solver backend %q", opts.Backend)
	}
}
