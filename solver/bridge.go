package solver

import (
	"bytes"
	"context"
	"os"
	"os/exec"
	"strings"
	"time"

	"github.com/cockroachdb/errors"
	"go.uber.org/zap"

	"github.com/qbflab/gopherqbf/qbf"
)

// Output markers of the bridge protocol. Anything else on stdout is an
// error verdict.
const (
	markerSat   = "RESULT: SATISFIABLE"
	markerUnsat = "RESULT: UNSATISFIABLE"
)

// TweetyBridge is the alternate back-end. It does not consume the
// QDIMACS encoding at all: the problem is rendered as a nested
// quantifier-annotated formula string and handed to a Java bridge class
// as a process argument; the verdict is read from textual markers on its
// standard output.
type TweetyBridge struct {
	java    string
	jar     string
	dir     string
	class   string
	timeout time.Duration
	log     *zap.SugaredLogger
}

// NewTweetyBridge probes the bridge at setup time: the Java runtime must
// resolve and the reasoner jar must exist. A missing piece is reported as
// ErrBridgeUnavailable, once, instead of failing every query.
func NewTweetyBridge(javaCommand, jar, classDir string, timeout time.Duration, log *zap.SugaredLogger) (*TweetyBridge, error) {
	if jar == "" {
		return nil, errors.Wrap(ErrBridgeUnavailable, "no reasoner jar configured")
	}
	if _, err := os.Stat(jar); err != nil {
		return nil, errors.Wrapf(ErrBridgeUnavailable, "reasoner jar %q: %v", jar, err)
	}
	if javaCommand == "" {
		javaCommand = "java"
	}
	java, err := lookPathCached(javaCommand)
	if err != nil {
		return nil, errors.Wrapf(ErrBridgeUnavailable, "java runtime %q not found", javaCommand)
	}
	if classDir == "" {
		classDir = "tweety_bridge"
	}
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	if log == nil {
		log = zap.NewNop().Sugar()
	}
	return &TweetyBridge{
		java:    java,
		jar:     jar,
		dir:     classDir,
		class:   "TweetyQBFBridge",
		timeout: timeout,
		log:     log,
	}, nil
}

// Evaluate renders the problem as an annotated formula, runs the bridge
// and scans its output for the result markers.
func (b *TweetyBridge) Evaluate(ctx context.Context, p qbf.Problem) Evaluation {
	start := time.Now()
	log := b.log.With("call_id", nextCallID(), "formula", p.Formula)

	annotated, err := p.Annotated()
	if err != nil {
		log.Warnw("compilation failed", "error", err)
		return errorEvaluation(p, start, "", err)
	}
	log.Debugw("annotated formula", "annotated", annotated)

	ctx, cancel := context.WithTimeout(ctx, b.timeout)
	defer cancel()
	classpath := b.jar + string(os.PathListSeparator) + b.dir
	cmd := exec.CommandContext(ctx, b.java, "-cp", classpath, b.class, annotated)
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	// See DepQBF.Evaluate: abandon the pipes once the deadline has
	// killed the JVM, even if a descendant still holds them open.
	cmd.WaitDelay = time.Second
	runErr := cmd.Run()
	duration := time.Since(start)
	output := stdout.String()

	if errors.Is(ctx.Err(), context.DeadlineExceeded) {
		log.Warnw("bridge timed out", "timeout", b.timeout)
		return Evaluation{
			Problem:  p,
			Result:   Error,
			Duration: duration,
			Output:   output,
			Err:      errors.Wrapf(ErrSolverTimeout, "no verdict within %s", b.timeout).Error(),
		}
	}
	if runErr != nil {
		var exitErr *exec.ExitError
		if !errors.As(runErr, &exitErr) {
			return errorEvaluation(p, start, output, &SolverProcessError{Cmd: b.java, Detail: runErr.Error()})
		}
		// The bridge reports failures through its markers; a nonzero
		// exit with a readable verdict still counts.
	}
	result := resultFromMarkers(output)
	eval := Evaluation{Problem: p, Result: result, Duration: duration, Output: output}
	if result == Error {
		detail := strings.TrimSpace(stderr.String())
		if detail == "" {
			detail = "no result marker in bridge output"
		}
		eval.Err = detail
	}
	log.Infow("bridge verdict", "result", result.String(), "duration", duration)
	return eval
}

// resultFromMarkers interprets the bridge's textual protocol. Absence of
// either marker is an error, never a guessed verdict.
func resultFromMarkers(output string) Result {
	switch {
	case strings.Contains(output, markerUnsat):
		return Unsatisfiable
	case strings.Contains(output, markerSat):
		return Satisfiable
	default:
		return Error
	}
}
