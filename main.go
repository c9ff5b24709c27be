//go:build !js

package main

import (
	"flag"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"gobf/pkg/config"
	"gobf/pkg/logging"
	"gobf/pkg/machine"
	"gobf/pkg/program"
	"gobf/pkg/render"
	"gobf/pkg/utils"
)

func main() {
	os.Exit(run(os.Args[1:], os.Stdin, os.Stdout, os.Stderr))
}

func run(args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	fs := flag.NewFlagSet("gobf", flag.ContinueOnError)
	fs.SetOutput(stderr)
	inPath := fs.String("in", "", "input source file path")
	outPath := fs.String("out", "", "write the comment-free program here (default: input with .min.b extension)")
	strip := fs.Bool("strip", false, "write the program with all comments removed")
	jumps := fs.Bool("jumps", false, "print the bracket jump table")
	runProgram := fs.Bool("run", false, "run the program with stdin and stdout")
	pngPath := fs.String("png", "", "after -run, save a picture of the tape to this file")
	maxTape := fs.Int("max-tape", config.DefaultMaxCells, "maximum tape cells, 0 for unbounded")
	verbosity := fs.Int("v", 0, "log verbosity: 0 notices, 1 info, 2 debug")
	if err := fs.Parse(args); err != nil {
		return 2
	}

	if *inPath == "" {
		fmt.Fprintln(stderr, "nothing to do: provide -in <file> with -strip, -jumps or -run")
		fs.Usage()
		return 2
	}
	if *pngPath != "" && !*runProgram {
		fmt.Fprintln(stderr, "-png requires -run")
		return 2
	}

	logging.Configure(*verbosity, "")
	log := logging.Get("gobf")

	source, _, err := utils.ReadSource(*inPath)
	if err != nil {
		fmt.Fprintf(stderr, "error: %v\n", err)
		return 1
	}
	prog, err := program.Load(source)
	if err != nil {
		fmt.Fprintf(stderr, "load failed for %q: %v\n", *inPath, err)
		return 1
	}
	log.Infof("%s: %d instructions", *inPath, prog.Len())

	if *strip {
		output := *outPath
		if output == "" {
			output = defaultOutputPath(*inPath)
		}
		if err := os.WriteFile(output, []byte(prog.String()+"\n"), 0o644); err != nil {
			fmt.Fprintf(stderr, "failed to write %q: %v\n", output, err)
			return 1
		}
		fmt.Fprintf(stdout, "stripped %d bytes -> %d instructions -> %s\n", len(source), prog.Len(), output)
	}

	if *jumps {
		writeJumpTable(stdout, prog)
	}

	if !*runProgram {
		if !*strip && !*jumps {
			fmt.Fprintln(stderr, "nothing to do: add -strip, -jumps or -run")
			return 2
		}
		return 0
	}

	vm := machine.New(prog, stdin, stdout, machine.WithMaxTape(*maxTape))
	runErr := vm.Run()
	log.Infof("run finished after %d steps", vm.Steps())

	if *pngPath != "" {
		l := render.Layout{Cols: 16, Rows: 16, CellPx: 8}.Follow(vm.Tape().Pointer())
		if err := render.SaveScreenshot(*pngPath, vm.Tape(), l); err != nil {
			fmt.Fprintf(stderr, "failed to write %q: %v\n", *pngPath, err)
			return 1
		}
	}

	if runErr != nil {
		fmt.Fprintf(stderr, "run failed for %q: %v\n", *inPath, runErr)
		return 1
	}
	return 0
}

func defaultOutputPath(inPath string) string {
	ext := filepath.Ext(inPath)
	if ext == "" {
		return inPath + ".min.b"
	}
	return strings.TrimSuffix(inPath, ext) + ".min.b"
}

// writeJumpTable lists every LoopStart with its partner and source position.
func writeJumpTable(w io.Writer, prog *program.Program) {
	for i := 0; i < prog.Len(); i++ {
		if prog.At(i) != program.OpLoopStart {
			continue
		}
		end, _ := prog.Jump(i)
		fmt.Fprintf(w, "%6d [ %-7s <-> %6d ] %s\n", i, prog.Position(i), end, prog.Position(end))
	}
}
