package main

import (
	"context"
	"flag"
	"io"
	"os"
	"time"

	"github.com/jcorbin/goforth/internal/fileinput"
	"github.com/jcorbin/goforth/internal/logio"
)

func main() {
	os.Exit(run(context.Background()))
}

func run(ctx context.Context) int {
	log := logio.NewLogger(os.Stderr)

	var (
		configPath string
		prompt     string
		history    string
		timeout    time.Duration
		trace      bool
		dump       bool
		depthLimit int
		cellLimit  uint
	)
	flag.StringVar(&configPath, "config", defaultConfigFile, "load settings from a TOML file")
	flag.StringVar(&prompt, "prompt", "", "specify the interactive prompt")
	flag.StringVar(&history, "history", "", "keep interactive line history in a file")
	flag.DurationVar(&timeout, "timeout", 0, "specify a time limit for each evaluation")
	flag.BoolVar(&trace, "trace", false, "enable trace logging")
	flag.BoolVar(&dump, "dump", false, "dump the session to stderr on exit")
	flag.IntVar(&depthLimit, "depth-limit", defaultDepthLimit, "limit evaluation nesting depth; 0 for no limit")
	flag.UintVar(&cellLimit, "cell-limit", 0, "limit variable and constant cells; 0 for no limit")
	flag.Parse()

	explicit := make(map[string]bool)
	flag.Visit(func(f *flag.Flag) { explicit[f.Name] = true })

	cfg, err := readConfig(configPath, explicit["config"])
	if err != nil {
		log.Errorf("%v", err)
		return log.ExitCode()
	}
	if explicit["prompt"] {
		cfg.REPL.Prompt = prompt
	}
	if explicit["history"] {
		cfg.REPL.History = history
	}
	if explicit["trace"] {
		cfg.VM.Trace = trace
	}
	if explicit["depth-limit"] {
		cfg.VM.DepthLimit = &depthLimit
	}
	if explicit["cell-limit"] {
		cfg.VM.CellLimit = cellLimit
	}

	out := &lineTracker{Writer: os.Stdout}
	opts := []VMOption{WithOutput(out)}
	opts = append(opts, cfg.options()...)
	if cfg.VM.Trace {
		opts = append(opts, WithLogf(log.Leveledf("TRACE")))
	}
	vm := New(opts...)
	defer func() {
		if dump {
			vmDumper{vm: vm, out: os.Stderr, constructs: true}.dump()
		}
		log.ErrorIf(vm.Close())
	}()

	r := repl{
		vm:      vm,
		out:     out,
		log:     log,
		prompt:  cfg.REPL.Prompt,
		timeout: timeout,
	}

	if files := append(cfg.Load.Files, flag.Args()...); len(files) > 0 {
		if err := r.load(ctx, files...); err != nil {
			log.Errorf("%v", err)
			return log.ExitCode()
		}
	}

	lines := openLines(cfg.REPL.History)
	defer func() { log.ErrorIf(lines.Close()) }()
	log.ErrorIf(r.run(ctx, lines))

	return log.ExitCode()
}

// load evaluates program files in order before any interactive input. Errors
// are logged with their location; loading continues with the next line.
func (r repl) load(ctx context.Context, names ...string) error {
	var in fileinput.Input
	defer in.Close()
	for _, name := range names {
		f, err := os.Open(name)
		if err != nil {
			return err
		}
		in.Queue = append(in.Queue, f)
	}
	for {
		line, err := in.ReadLine()
		if err == io.EOF {
			return nil
		} else if err != nil {
			return err
		}
		err = r.eval(ctx, line.Text)
		r.out.endLine()
		if err != nil {
			r.fail(line.Location.String(), err)
		}
	}
}
