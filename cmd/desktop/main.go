package main

import (
	"bytes"
	"flag"
	"fmt"
	"image/color"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/hajimehoshi/ebiten/v2/text/v2"
	"github.com/tliron/commonlog"
	"golang.org/x/image/font/basicfont"

	"gobf/pkg/config"
	"gobf/pkg/logging"
	"gobf/pkg/machine"
	"gobf/pkg/program"
	"gobf/pkg/render"
	"gobf/pkg/utils"
)

const (
	outputLines  = 10
	lineHeight   = 14
	statusHeight = 20
)

// keyBuffer queues typed characters for Input instructions. An empty
// buffer reads as end of input, so the program sees 0.
type keyBuffer struct {
	keys []byte
}

func (k *keyBuffer) Push(b byte) {
	k.keys = append(k.keys, b)
}

func (k *keyBuffer) Read(p []byte) (int, error) {
	if len(k.keys) == 0 {
		return 0, io.EOF
	}
	n := copy(p, k.keys)
	k.keys = k.keys[n:]
	return n, nil
}

type Game struct {
	vm            *machine.Machine
	keys          *keyBuffer
	output        bytes.Buffer
	layout        render.Layout
	stepsPerFrame uint64
	paused        bool
	reported      bool
	shotDir       string

	tapeImg *ebiten.Image // reused tape canvas
	face    text.Face
	log     commonlog.Logger
}

func newGame(prog *program.Program, cfg *config.Config, shotDir string) *Game {
	g := &Game{
		keys: &keyBuffer{},
		layout: render.Layout{
			Cols:   cfg.Desktop.Columns,
			Rows:   cfg.Desktop.Rows,
			CellPx: cfg.Desktop.Scale,
		},
		stepsPerFrame: cfg.Desktop.StepsPerFrame,
		shotDir:       shotDir,
		log:           logging.Get("desktop"),
	}
	g.vm = machine.New(prog, g.keys, &g.output, machine.WithMaxTape(cfg.Tape.MaxCells))
	return g
}

// advance runs one frame's worth of instructions unless paused.
func (g *Game) advance() {
	if !g.paused {
		_, _ = g.vm.RunFor(g.stepsPerFrame)
	}
	if g.vm.Halted() && !g.reported {
		g.reported = true
		if err := g.vm.Err(); err != nil {
			g.log.Errorf("run aborted after %d steps: %v", g.vm.Steps(), err)
		} else {
			g.log.Infof("halted after %d steps", g.vm.Steps())
		}
	}
}

func (g *Game) Update() error {
	for _, r := range ebiten.AppendInputChars(nil) {
		if r < 0x80 {
			g.keys.Push(byte(r))
		}
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyEnter) {
		g.keys.Push('\n')
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyF5) {
		g.paused = !g.paused
	}
	if g.paused && inpututil.IsKeyJustPressed(ebiten.KeyF6) {
		_ = g.vm.Step()
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyF12) {
		g.screenshot()
	}

	g.advance()
	return nil
}

func (g *Game) currentLayout() render.Layout {
	return g.layout.Follow(g.vm.Tape().Pointer())
}

func (g *Game) screenshot() {
	name := filepath.Join(g.shotDir, fmt.Sprintf("tape_%s.png", time.Now().Format("20060102_150405")))
	if err := render.SaveScreenshot(name, g.vm.Tape(), g.currentLayout()); err != nil {
		g.log.Errorf("screenshot failed: %v", err)
		return
	}
	g.log.Noticef("saved %s", name)
}

func (g *Game) drawTape(screen *ebiten.Image) {
	w, h := g.layout.Size()
	if g.tapeImg == nil {
		g.tapeImg = ebiten.NewImage(w, h)
	}
	g.tapeImg.WritePixels(render.TapeRGBA(g.vm.Tape(), g.currentLayout()))
	op := &ebiten.DrawImageOptions{}
	op.GeoM.Translate(0, statusHeight)
	screen.DrawImage(g.tapeImg, op)
}

func (g *Game) Draw(screen *ebiten.Image) {
	ebitenutil.DebugPrintAt(screen, g.status(), 4, 2)
	g.drawTape(screen)

	_, tapeH := g.layout.Size()
	op := &text.DrawOptions{}
	op.GeoM.Translate(4, float64(statusHeight+tapeH+4))
	op.LineSpacing = lineHeight
	op.ColorScale.ScaleWithColor(color.White)
	text.Draw(screen, strings.Join(tailLines(g.output.String(), outputLines), "\n"), g.face, op)
}

func (g *Game) status() string {
	state := "running"
	switch {
	case g.vm.Err() != nil:
		state = "error: " + g.vm.Err().Error()
	case g.vm.Halted():
		state = "halted"
	case g.paused:
		state = "paused (F6 step)"
	}
	return fmt.Sprintf("ip=%d dp=%d cell=%d steps=%d  %s",
		g.vm.IP(), g.vm.Tape().Pointer(), g.vm.Tape().Get(), g.vm.Steps(), state)
}

func (g *Game) Layout(outsideWidth, outsideHeight int) (int, int) {
	w, h := g.layout.Size()
	return w, statusHeight + h + outputLines*lineHeight + 8
}

// tailLines returns the last n lines of s with control characters other
// than newline shown as '.'.
func tailLines(s string, n int) []string {
	clean := strings.Map(func(r rune) rune {
		if r == '\n' || (r >= 0x20 && r < 0x7F) {
			return r
		}
		return '.'
	}, s)
	lines := strings.Split(clean, "\n")
	if len(lines) > n {
		lines = lines[len(lines)-n:]
	}
	return lines
}

func main() {
	configPath := flag.String("config", "", "config file (default: nearest "+config.FileName+" above the source file)")
	steps := flag.Uint64("steps", 0, "instructions per frame (default from config)")
	shotDir := flag.String("shots", ".", "directory for F12 tape screenshots")
	flag.Parse()
	if flag.NArg() != 1 {
		fmt.Fprintln(os.Stderr, "usage: desktop [flags] <source-file>")
		flag.PrintDefaults()
		os.Exit(2)
	}

	source, baseDir, err := utils.ReadSource(flag.Arg(0))
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}

	var cfg *config.Config
	if *configPath != "" {
		cfg, err = config.Load(*configPath)
	} else {
		cfg, err = config.FindAndLoad(baseDir)
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
	if *steps > 0 {
		cfg.Desktop.StepsPerFrame = *steps
	}
	logging.Configure(cfg.Log.Verbosity, cfg.Log.File)

	prog, err := program.Load(source)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %s: %v\n", flag.Arg(0), err)
		os.Exit(1)
	}

	game := newGame(prog, cfg, *shotDir)
	game.face = text.NewGoXFace(basicfont.Face7x13)

	w, h := game.Layout(0, 0)
	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)
	ebiten.SetWindowSize(w, h)
	ebiten.SetWindowTitle("gobf tape - " + filepath.Base(flag.Arg(0)))

	if err := ebiten.RunGame(game); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}
