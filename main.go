// Command gopherqbf answers satisfiability questions about quantified
// boolean formulas by compiling them to QDIMACS and asking an external
// decision procedure.
package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/qbflab/gopherqbf/cnf"
	"github.com/qbflab/gopherqbf/config"
	"github.com/qbflab/gopherqbf/logger"
	"github.com/qbflab/gopherqbf/nl"
	"github.com/qbflab/gopherqbf/qbf"
	"github.com/qbflab/gopherqbf/solver"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

type cliFlags struct {
	configPath  string
	vars        string
	quantifiers string
}

func newRootCmd() *cobra.Command {
	flags := &cliFlags{}
	root := &cobra.Command{
		Use:           "gopherqbf",
		Short:         "compile quantified boolean formulas and query an external QBF solver",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVar(&flags.configPath, "config", "", "path to a config file (default: ./gopherqbf.yaml if present)")

	eval := &cobra.Command{
		Use:   "eval <formula>",
		Short: "evaluate a formula and report the solver verdict",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runEval(cmd.OutOrStdout(), flags, args[0])
		},
	}
	addProblemFlags(eval, flags)

	encode := &cobra.Command{
		Use:   "encode <formula>",
		Short: "print the QDIMACS encoding without invoking a solver",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runEncode(cmd.OutOrStdout(), flags, args[0])
		},
	}
	addProblemFlags(encode, flags)

	parseResponse := &cobra.Command{
		Use:   "parse-response",
		Short: "parse an assistant reply from stdin into a problem record",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runParseResponse(cmd.OutOrStdout(), cmd.InOrStdin())
		},
	}

	root.AddCommand(eval, encode, parseResponse)
	return root
}

func addProblemFlags(cmd *cobra.Command, flags *cliFlags) {
	cmd.Flags().StringVar(&flags.vars, "vars", "", `declared variables, comma-separated ("x,y")`)
	cmd.Flags().StringVar(&flags.quantifiers, "quantifiers", "", `ordered prefix ("forall x, exists y")`)
	cmd.MarkFlagRequired("vars")
	cmd.MarkFlagRequired("quantifiers")
}

func buildProblem(flags *cliFlags, formulaStr string) qbf.Problem {
	var vars []string
	for _, v := range strings.Split(flags.vars, ",") {
		if v = strings.TrimSpace(v); v != "" {
			vars = append(vars, v)
		}
	}
	return qbf.Problem{
		Formula:     formulaStr,
		Variables:   vars,
		Quantifiers: nl.ParseQuantifierList(flags.quantifiers),
	}
}

func runEval(w io.Writer, flags *cliFlags, formulaStr string) error {
	cfg, err := config.Load(flags.configPath)
	if err != nil {
		return err
	}
	if err := logger.Initialize(cfg.LogFormat, cfg.Debug); err != nil {
		return err
	}
	defer logger.Cleanup()
	mode, err := cnf.ParseMode(cfg.CNFMode)
	if err != nil {
		return err
	}
	s, err := solver.New(solver.Options{
		Backend:        cfg.Backend,
		SolverCommand:  cfg.SolverCommand,
		JavaCommand:    cfg.JavaCommand,
		BridgeJar:      cfg.BridgeJar,
		BridgeClassDir: cfg.BridgeClassDir,
		Timeout:        cfg.Timeout(),
		Mode:           mode,
		Log:            logger.Log,
	})
	if err != nil {
		return err
	}
	eval := s.Evaluate(context.Background(), buildProblem(flags, formulaStr))
	fmt.Fprintf(w, "result: %s\n", eval.Result)
	fmt.Fprintf(w, "time: %s\n", eval.Duration)
	if eval.Err != "" {
		fmt.Fprintf(w, "error: %s\n", eval.Err)
	}
	if cfg.Debug && eval.Output != "" {
		fmt.Fprintln(w, eval.Output)
	}
	return nil
}

func runEncode(w io.Writer, flags *cliFlags, formulaStr string) error {
	cfg, err := config.Load(flags.configPath)
	if err != nil {
		return err
	}
	mode, err := cnf.ParseMode(cfg.CNFMode)
	if err != nil {
		return err
	}
	inst, err := buildProblem(flags, formulaStr).Compile(mode)
	if err != nil {
		return err
	}
	return inst.Write(w)
}

func runParseResponse(w io.Writer, r io.Reader) error {
	text, err := io.ReadAll(r)
	if err != nil {
		return err
	}
	p := nl.ParseResponse(string(text), "")
	fmt.Fprintf(w, "formula: %s\n", p.Formula)
	fmt.Fprintf(w, "variables: %s\n", strings.Join(p.Variables, ", "))
	for _, q := range p.Quantifiers {
		fmt.Fprintf(w, "quantifier: %s %s\n", q.Kind, q.Var)
	}
	return nil
}
