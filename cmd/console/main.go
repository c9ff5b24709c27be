package main

import (
	"flag"
	"fmt"
	"io"
	"os"

	"gobf/pkg/config"
	"gobf/pkg/logging"
	"gobf/pkg/machine"
	"gobf/pkg/program"
	"gobf/pkg/utils"
)

func main() {
	os.Exit(run(os.Args[1:], os.Stdin, os.Stdout, os.Stderr))
}

// run is main without the process exit so tests can drive it.
func run(args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	fs := flag.NewFlagSet("console", flag.ContinueOnError)
	fs.SetOutput(stderr)
	configPath := fs.String("config", "", "config file (default: nearest "+config.FileName+" above the source file)")
	maxTape := fs.Int("max-tape", 0, "maximum tape cells, 0 for unbounded")
	slice := fs.Uint64("slice", 0, "run in slices of this many steps, logging progress between them")
	halted := fs.Bool("halted", false, "print \"Program halted!\" to stderr after a clean finish")
	verbosity := fs.Int("v", 0, "log verbosity: 0 notices, 1 info, 2 debug")
	fs.Usage = func() {
		fmt.Fprintln(stderr, "usage: console [flags] <source-file>")
		fs.PrintDefaults()
	}
	if err := fs.Parse(args); err != nil {
		return 2
	}
	if fs.NArg() != 1 {
		fs.Usage()
		return 2
	}

	source, baseDir, err := utils.ReadSource(fs.Arg(0))
	if err != nil {
		fmt.Fprintf(stderr, "error: %v\n", err)
		return 1
	}

	var cfg *config.Config
	if *configPath != "" {
		cfg, err = config.Load(*configPath)
	} else {
		cfg, err = config.FindAndLoad(baseDir)
	}
	if err != nil {
		fmt.Fprintf(stderr, "error: %v\n", err)
		return 1
	}

	// Flags given explicitly win over the file.
	fs.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "max-tape":
			cfg.Tape.MaxCells = *maxTape
		case "slice":
			cfg.Run.StepsPerSlice = *slice
		case "halted":
			cfg.Run.HaltMessage = *halted
		case "v":
			cfg.Log.Verbosity = *verbosity
		}
	})

	logging.Configure(cfg.Log.Verbosity, cfg.Log.File)
	log := logging.Get("console")
	if cfg.Path != "" {
		log.Debugf("using config %s", cfg.Path)
	}

	prog, err := program.Load(source)
	if err != nil {
		fmt.Fprintf(stderr, "error: %s: %v\n", fs.Arg(0), err)
		return 1
	}
	log.Infof("loaded %d instructions from %s", prog.Len(), fs.Arg(0))

	vm := machine.New(prog, stdin, stdout, machine.WithMaxTape(cfg.Tape.MaxCells))

	if cfg.Run.StepsPerSlice > 0 {
		for !vm.Halted() {
			n, err := vm.RunFor(cfg.Run.StepsPerSlice)
			if err != nil {
				break
			}
			log.Debugf("slice done: %d steps, ip=%d dp=%d", n, vm.IP(), vm.Tape().Pointer())
		}
		err = vm.Err()
	} else {
		err = vm.Run()
	}
	if err != nil {
		log.Errorf("run aborted after %d steps", vm.Steps())
		fmt.Fprintf(stderr, "error: %v\n", err)
		return 1
	}

	log.Infof("halted after %d steps, %d tape cells", vm.Steps(), vm.Tape().Len())
	if cfg.Run.HaltMessage {
		fmt.Fprintln(stderr, "Program halted!")
	}
	return 0
}
