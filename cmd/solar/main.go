package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"
	"strings"

	"github.com/google/uuid"
	"github.com/mattn/go-isatty"
	"github.com/solar-lang/solar-compiler/internal/backend"
	"github.com/solar-lang/solar-compiler/internal/console"
	"github.com/solar-lang/solar-compiler/internal/diagnostics"
	"github.com/solar-lang/solar-compiler/internal/mir"
	"github.com/solar-lang/solar-compiler/internal/pipeline"
	"github.com/solar-lang/solar-compiler/internal/prettyprinter"
	"github.com/solar-lang/solar-compiler/internal/report"
	"github.com/solar-lang/solar-compiler/internal/value"
)

// BackendType determines the execution backend.
// Can be set at build time using: -ldflags "-X main.BackendType=tree"
var BackendType = "mir"

type options struct {
	dir     string
	verbose bool
	dump    bool
	print   bool
	report  string
	backend string
}

func usage() {
	fmt.Fprintf(os.Stderr, "Usage: %s [-v] [-tree] [-print] [-dump] [-report <db>] [project-dir]\n", os.Args[0])
	fmt.Fprintln(os.Stderr, "  -v             log loading and compilation steps")
	fmt.Fprintln(os.Stderr, "  -tree          interpret the AST instead of compiling it")
	fmt.Fprintln(os.Stderr, "  -print         print the loaded modules as source and exit")
	fmt.Fprintln(os.Stderr, "  -dump          print every compiled function before running")
	fmt.Fprintln(os.Stderr, "  -report <db>   store compiled functions in an SQLite database")
}

func parseArgs(args []string) (options, error) {
	opts := options{dir: ".", backend: BackendType}
	dirSet := false
	for i := 0; i < len(args); i++ {
		switch arg := args[i]; arg {
		case "-v", "--verbose":
			opts.verbose = true
		case "-tree", "--tree":
			opts.backend = "tree"
		case "-print", "--print":
			opts.print = true
		case "-dump", "--dump":
			opts.dump = true
		case "-report", "--report":
			if i+1 >= len(args) {
				return opts, fmt.Errorf("%s needs a database path", arg)
			}
			i++
			opts.report = args[i]
		default:
			if strings.HasPrefix(arg, "-") {
				return opts, fmt.Errorf("unknown flag %s", arg)
			}
			if dirSet {
				return opts, fmt.Errorf("more than one project directory given")
			}
			opts.dir, dirSet = arg, true
		}
	}
	return opts, nil
}

func errorPrefix() string {
	fd := os.Stderr.Fd()
	if isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd) {
		return "\x1b[31merror:\x1b[0m "
	}
	return "error: "
}

func main() {
	if len(os.Args) > 1 && (os.Args[1] == "-help" || os.Args[1] == "--help" || os.Args[1] == "help") {
		usage()
		return
	}
	opts, err := parseArgs(os.Args[1:])
	if err != nil {
		fmt.Fprintf(os.Stderr, "%s%s\n", errorPrefix(), err)
		usage()
		os.Exit(1)
	}
	os.Exit(run(opts))
}

func run(opts options) (code int) {
	logger := log.New(io.Discard, "", 0)
	if opts.verbose {
		logger = log.New(os.Stderr, "[solar] ", log.Ltime)
	}

	con, closeConsole := console.Default()
	defer closeConsole()

	defer func() {
		if r := recover(); r != nil {
			var fe *diagnostics.FatalError
			if e, ok := r.(error); ok && errors.As(e, &fe) {
				fmt.Fprintf(os.Stderr, "%s%s\n", errorPrefix(), fe)
				code = 2
				return
			}
			panic(r)
		}
	}()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	var exec backend.Backend = backend.NewMIR()
	processors := []pipeline.Processor{pipeline.LoadProcessor{}}
	if opts.print {
		pctx := pipeline.NewPipelineContext(ctx, opts.dir, con)
		pctx.Logger = logger
		pctx = pipeline.New(append(processors, printProcessor{})...).Run(pctx)
		return printErrors(pctx.Errors)
	}
	processors = append(processors, pipeline.PrepareProcessor{})
	if opts.backend == "tree" {
		exec = backend.NewTreeWalk()
	} else {
		processors = append(processors, pipeline.CompileProcessor{})
	}
	if opts.dump || opts.report != "" {
		processors = append(processors, &inspectProcessor{opts: opts, runID: uuid.New()})
	}
	processors = append(processors, backend.NewExecutionProcessor(exec))

	pctx := pipeline.NewPipelineContext(ctx, opts.dir, con)
	pctx.Logger = logger
	pctx = pipeline.New(processors...).Run(pctx)

	if code := printErrors(pctx.Errors); code != 0 {
		return code
	}
	if pctx.Result != nil {
		if _, isVoid := pctx.Result.(value.Void); !isVoid {
			con.Print(pctx.Result.String(), "\n")
		}
	}
	return 0
}

func printErrors(errs []error) int {
	for _, err := range errs {
		fmt.Fprintf(os.Stderr, "%s%s\n", errorPrefix(), err)
	}
	if len(errs) > 0 {
		return 1
	}
	return 0
}

// printProcessor writes every loaded module back out as source text.
type printProcessor struct{}

func (printProcessor) Process(ctx *pipeline.PipelineContext) *pipeline.PipelineContext {
	if ctx.Failed() {
		return ctx
	}
	for _, m := range ctx.Registry.Modules() {
		for _, f := range m.Files {
			fmt.Printf("# %s (%s)\n", f.Filename, m.Path)
			fmt.Print(prettyprinter.Print(f.AST))
			fmt.Println()
		}
	}
	return ctx
}

// inspectProcessor dumps and/or records the function store after
// compilation.
type inspectProcessor struct {
	opts  options
	runID uuid.UUID
}

func (p *inspectProcessor) Process(ctx *pipeline.PipelineContext) *pipeline.PipelineContext {
	if ctx.Failed() || ctx.Compiler == nil {
		return ctx
	}
	if p.opts.dump {
		for _, e := range ctx.Compiler.Functions.Snapshot() {
			if e.Function != nil {
				fmt.Fprint(os.Stderr, mir.Dump(e.Function, e.ID, ctx.Compiler.Types))
			}
		}
	}
	if p.opts.report != "" {
		rows := report.Rows(ctx.Compiler)
		if err := report.Write(ctx.Context, p.opts.report, p.runID, ctx.Dir, rows); err != nil {
			ctx.Errors = append(ctx.Errors, err)
			return ctx
		}
		ctx.Logger.Printf("report run %s: %d function(s) written to %s", p.runID, len(rows), p.opts.report)
	}
	return ctx
}
