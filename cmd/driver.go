// Package cmd is the compiler's command-line driver: it resolves config +
// flags into a single set of run options, sequences the five pipeline
// phases (parse, analyze, generate IR, optimize, emit), and owns the
// process exit code.
package cmd

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/pterm/pterm"

	"rvcc/backend"
	"rvcc/irgen"
	"rvcc/lexer"
	"rvcc/optimize"
	"rvcc/parser"
	"rvcc/report"
	"rvcc/sem"
)

// runOptions is the fully resolved configuration for one compilation:
// config-file defaults folded under CLI flag overrides (flags always win).
type runOptions struct {
	alloc      backend.Strategy
	optimize   bool
	inline     bool
	dumpIR     bool
	verbose    bool
	sourcePath string
	hasPath    bool
}

// Execute runs the driver against argv (the full os.Args, program name
// included, as olive expects) and returns the process exit code: 0 on a
// clean compile, 1 on any parse error, usage error, semantic error, or
// internal error.
func Execute(argv []string) int {
	args, err := parseArgs(argv)
	if err != nil {
		fmt.Fprint(os.Stderr, pterm.FgRed.Sprintln(err.Error()))
		return 1
	}

	cfgPath := "./rvcc.toml"
	explicit := false
	if args.configSet {
		cfgPath, explicit = args.config, true
	}
	cfg, err := loadConfig(cfgPath, explicit)
	if err != nil {
		fmt.Fprint(os.Stderr, pterm.FgRed.Sprintf("reading config %s: %s\n", cfgPath, err.Error()))
		return 1
	}

	opts := resolveOptions(cfg, args)

	source, path, err := readSource(args)
	if err != nil {
		fmt.Fprint(os.Stderr, pterm.FgRed.Sprintln(err.Error()))
		return 1
	}

	logLevel := report.LogLevelVerbose
	if !opts.verbose {
		logLevel = report.LogLevelError
	}
	rep := report.NewReporter(logLevel)
	tracker := report.NewPhaseTracker(opts.verbose && isTerminal(os.Stderr))

	asm, ok := compile(source, opts, rep, tracker)

	rep.Print(os.Stderr, path, source)
	warnings, errors := countDiagnostics(rep)
	if opts.verbose {
		report.Finish(errors, warnings)
	}

	if !ok {
		return 1
	}
	io.WriteString(os.Stdout, asm)
	return 0
}

// resolveOptions folds cfg under args, with args winning field-by-field.
func resolveOptions(cfg Config, args cliArgs) runOptions {
	opts := runOptions{
		alloc:    strategyFromName(cfg.DefaultAlloc),
		optimize: cfg.OptByDefault,
		inline:   cfg.InlineByDefault,
		verbose:  cfg.LogLevel != "quiet",
	}
	if args.allocSet {
		opts.alloc = strategyFromName(args.alloc)
	}
	if args.opt {
		opts.optimize = true
	}
	if args.inline {
		opts.inline = true
	}
	if args.dumpIR {
		opts.dumpIR = true
	}
	if args.hasPath {
		opts.sourcePath, opts.hasPath = args.path, true
	}
	return opts
}

func strategyFromName(name string) backend.Strategy {
	switch name {
	case "linear":
		return backend.StrategyLinearScan
	case "graph":
		return backend.StrategyGraphColor
	default:
		return backend.StrategyNaive
	}
}

// readSource reads the primary-arg path, or stdin when none was given.
func readSource(args cliArgs) (source []byte, path string, err error) {
	if args.hasPath {
		buf, err := os.ReadFile(args.path)
		return buf, args.path, err
	}
	buf, err := io.ReadAll(os.Stdin)
	return buf, "<stdin>", err
}

// compile runs the five pipeline phases in order, stopping at the first
// one that fails. It never panics: a single deferred rep.CatchPhase guards
// the whole function, so an internal-invariant violation in any phase
// becomes a diagnostic instead of crashing the driver.
func compile(source []byte, opts runOptions, rep *report.Reporter, tracker *report.PhaseTracker) (asm string, ok bool) {
	defer rep.CatchPhase()

	tracker.Begin("Parsing")
	lex := lexer.New(strings.NewReader(string(source)))
	p := parser.New(lex, rep)
	prog := p.Parse()
	tracker.End(!rep.AnyErrors())
	if prog == nil || rep.AnyErrors() {
		return "", false
	}

	tracker.Begin("Analyzing")
	analyzed := sem.New(rep).Analyze(prog)
	tracker.End(analyzed)
	if !analyzed {
		return "", false
	}

	tracker.Begin("Generating IR")
	irProg := irgen.Generate(prog)
	tracker.End(true)

	if opts.optimize {
		tracker.Begin("Optimizing")
		irProg = optimize.Run(irProg, optimize.Options{InlineEnabled: opts.inline})
		tracker.End(true)
	}

	if opts.dumpIR {
		fmt.Fprint(os.Stderr, pterm.FgGray.Sprintln(irProg.Repr()))
	}

	tracker.Begin("Emitting assembly")
	asm = backend.Generate(irProg, backend.Options{Strategy: opts.alloc})
	tracker.End(true)

	return asm, true
}

func countDiagnostics(rep *report.Reporter) (warnings, errors int) {
	for _, d := range rep.Diagnostics() {
		if d.Severity == report.SevWarning {
			warnings++
		} else {
			errors++
		}
	}
	return
}
