package solver

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"os/exec"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/kballard/go-shellquote"
	"go.uber.org/zap"

	"github.com/qbflab/gopherqbf/cnf"
	"github.com/qbflab/gopherqbf/qbf"
)

// DefaultTimeout bounds one solver run when no other budget is
// configured.
const DefaultTimeout = 60 * time.Second

// tempPattern names the transient QDIMACS files. Tests inspect the
// temporary directory for leftovers matching it.
const tempPattern = "gopherqbf-*.qdimacs"

// DepQBF invokes a QDIMACS-speaking solver binary as a subprocess and
// interprets its exit status: 10 satisfiable, 20 unsatisfiable, 0
// unknown, anything else an error.
type DepQBF struct {
	path    string
	args    []string
	timeout time.Duration
	mode    cnf.Mode
	log     *zap.SugaredLogger
}

// NewDepQBF resolves the solver command once and returns the back-end.
// command may carry extra arguments ("depqbf --no-dynamic-nenofex"); it
// is split shell-style. An empty command defaults to "depqbf" from PATH.
func NewDepQBF(command string, timeout time.Duration, mode cnf.Mode, log *zap.SugaredLogger) (*DepQBF, error) {
	if command == "" {
		command = "depqbf"
	}
	argv, err := shellquote.Split(command)
	if err != nil {
		return nil, errors.Wrapf(err, "invalid solver command %q", command)
	}
	if len(argv) == 0 {
		return nil, errors.Newf("empty solver command %q", command)
	}
	path, err := lookPathCached(argv[0])
	if err != nil {
		return nil, errors.Wrapf(err, "solver binary %q not found", argv[0])
	}
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	if log == nil {
		log = zap.NewNop().Sugar()
	}
	return &DepQBF{path: path, args: argv[1:], timeout: timeout, mode: mode, log: log}, nil
}

// Evaluate compiles the problem, writes it to a uniquely named temporary
// file, runs the solver on it and maps the exit status to a verdict. The
// temporary file is removed on every exit path.
func (s *DepQBF) Evaluate(ctx context.Context, p qbf.Problem) Evaluation {
	start := time.Now()
	log := s.log.With("call_id", nextCallID(), "formula", p.Formula)

	inst, err := p.Compile(s.mode)
	if err != nil {
		log.Warnw("compilation failed", "error", err)
		return errorEvaluation(p, start, "", err)
	}
	f, err := os.CreateTemp("", tempPattern)
	if err != nil {
		return errorEvaluation(p, start, "", errors.Wrap(err, "could not create solver input file"))
	}
	tmp := f.Name()
	defer os.Remove(tmp)
	_, werr := f.Write(inst.Bytes())
	if err := errors.CombineErrors(werr, f.Close()); err != nil {
		return errorEvaluation(p, start, "", errors.Wrap(err, "could not write solver input file"))
	}
	log.Debugw("encoded instance", "vars", inst.NumVars, "clauses", inst.NumClauses, "file", tmp)

	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()
	args := make([]string, 0, len(s.args)+1)
	args = append(args, s.args...)
	args = append(args, tmp)
	cmd := exec.CommandContext(ctx, s.path, args...)
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	// The deadline kill reaches only the direct child; a descendant it
	// spawned can keep the output pipes open long past the budget.
	// WaitDelay makes Run abandon the pipes shortly after cancellation.
	cmd.WaitDelay = time.Second
	runErr := cmd.Run()
	duration := time.Since(start)
	output := combinedOutput(stdout.String(), stderr.String())

	if errors.Is(ctx.Err(), context.DeadlineExceeded) {
		log.Warnw("solver timed out", "timeout", s.timeout)
		return Evaluation{
			Problem:  p,
			Result:   Unknown,
			Duration: duration,
			Output:   output,
			Err:      errors.Wrapf(ErrSolverTimeout, "no verdict within %s", s.timeout).Error(),
		}
	}
	code := 0
	if runErr != nil {
		var exitErr *exec.ExitError
		if !errors.As(runErr, &exitErr) {
			return errorEvaluation(p, start, output, &SolverProcessError{Cmd: s.path, Detail: runErr.Error()})
		}
		code = exitErr.ExitCode()
	}
	result := ResultFromExitCode(code)
	eval := Evaluation{Problem: p, Result: result, Duration: duration, Output: output}
	if result == Error {
		eval.Err = (&SolverProcessError{Cmd: s.path, Detail: fmt.Sprintf("unexpected exit status %d", code)}).Error()
	}
	log.Infow("solver verdict", "result", result.String(), "exit_code", code, "duration", duration)
	return eval
}

func combinedOutput(stdout, stderr string) string {
	return "STDOUT:\n" + stdout + "\nSTDERR:\n" + stderr
}
