// Package solver runs external QBF decision procedures and interprets
// their verdicts. It does not decide satisfiability itself: the primary
// back-end speaks QDIMACS to a solver binary and reads its exit status,
// the alternate back-end passes an annotated formula to a Java bridge and
// scans its output for result markers.
package solver

import (
	"context"
	"fmt"
	"os/exec"
	"sync"
	"sync/atomic"
	"time"

	"github.com/cockroachdb/errors"

	"github.com/qbflab/gopherqbf/qbf"
)

// Result is the verdict of one evaluation.
type Result int

const (
	Satisfiable Result = iota
	Unsatisfiable
	Unknown
	Error
)

func (r Result) String() string {
	switch r {
	case Satisfiable:
		return "SATISFIABLE"
	case Unsatisfiable:
		return "UNSATISFIABLE"
	case Unknown:
		return "UNKNOWN"
	default:
		return "ERROR"
	}
}

// An Evaluation is the immutable outcome of one call: the problem, the
// verdict, the wall-clock duration, the raw solver output and an optional
// error message. Malformed input never escapes as a crash; it comes back
// here with Result Error.
type Evaluation struct {
	Problem  qbf.Problem
	Result   Result
	Duration time.Duration
	Output   string
	Err      string
}

// A Solver evaluates one problem synchronously. The only suspension point
// is the subprocess call, which is bounded by the back-end's timeout.
// Implementations must be safe for concurrent use: each call gets its own
// temporary file and variable map.
type Solver interface {
	Evaluate(ctx context.Context, p qbf.Problem) Evaluation
}

// ErrSolverTimeout marks an evaluation whose subprocess exceeded its time
// budget. The child process is terminated, never left to hang.
var ErrSolverTimeout = errors.New("solver timed out")

// ErrBridgeUnavailable marks the alternate back-end as missing or not
// runnable. It is a setup-time condition, not a per-query one.
var ErrBridgeUnavailable = errors.New("bridge back-end unavailable")

// SolverProcessError reports a subprocess that could not be run or exited
// in a way the protocol does not cover.
type SolverProcessError struct {
	Cmd    string
	Detail string
}

func (e *SolverProcessError) Error() string {
	return fmt.Sprintf("solver process %s failed: %s", e.Cmd, e.Detail)
}

// ResultFromExitCode maps the solver's process exit status to a verdict,
// per the DepQBF convention. The mapping is total: every status outside
// the three documented ones is an Error, never a silently mislabeled
// verdict.
func ResultFromExitCode(code int) Result {
	switch code {
	case 10:
		return Satisfiable
	case 20:
		return Unsatisfiable
	case 0:
		return Unknown
	default:
		return Error
	}
}

// errorEvaluation folds a pipeline error into a structured result.
func errorEvaluation(p qbf.Problem, start time.Time, output string, err error) Evaluation {
	return Evaluation{
		Problem:  p,
		Result:   Error,
		Duration: time.Since(start),
		Output:   output,
		Err:      err.Error(),
	}
}

// Binary locations are resolved once per process lifetime and are
// read-only afterwards.
var resolvedBinaries sync.Map // command name -> lookupResult

type lookupResult struct {
	path string
	err  error
}

func lookPathCached(name string) (string, error) {
	if v, ok := resolvedBinaries.Load(name); ok {
		res := v.(lookupResult)
		return res.path, res.err
	}
	path, err := exec.LookPath(name)
	v, _ := resolvedBinaries.LoadOrStore(name, lookupResult{path: path, err: err})
	res := v.(lookupResult)
	return res.path, res.err
}

// callID numbers evaluations for log correlation.
var callID atomic.Uint64

func nextCallID() uint64 { return callID.Add(1) }
