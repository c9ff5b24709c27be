// Package render turns a machine's tape into pixels.
package render

import (
	"image"
	"image/png"
	"os"

	"gobf/pkg/grid"
	"gobf/pkg/machine"
)

// Colors used for non-value pixels, in RGB565.
const (
	ColorUnvisited uint16 = 0x194A // dark blue: cells the pointer never reached
	ColorPointer   uint16 = 0xF809 // red frame around the current cell
	ColorGridLine  uint16 = 0x0000
)

// rgb565ToRGBA converts an RGB565 color to four RGBA bytes using accurate bit-expansion.
func rgb565ToRGBA(val uint16) (r, g, b, a byte) {
	r5 := byte((val >> 11) & 0x1F)
	g6 := byte((val >> 5) & 0x3F)
	b5 := byte(val & 0x1F)
	r = (r5 << 3) | (r5 >> 2)
	g = (g6 << 2) | (g6 >> 4)
	b = (b5 << 3) | (b5 >> 2)
	a = 0xFF
	return
}

// Layout describes which part of the tape is drawn and how large.
type Layout struct {
	First  int // address of the top-left cell
	Cols   int
	Rows   int
	CellPx int // edge length of one cell in pixels, including a 1px grid line
}

// Size returns the framebuffer dimensions in pixels.
func (l Layout) Size() (w, h int) {
	return l.Cols * l.CellPx, l.Rows * l.CellPx
}

// Follow returns a copy of l scrolled so that addr is on screen.
func (l Layout) Follow(addr int) Layout {
	l.First = grid.Window(addr, l.Cols, l.Rows)
	return l
}

// TapeRGBA draws the cells of tape selected by l into an RGBA8888 byte
// slice of length w*h*4. Each cell is shaded by its value, unvisited
// cells are dark blue and the cell under the data pointer is framed.
func TapeRGBA(tape *machine.Tape, l Layout) []byte {
	w, h := l.Size()
	pixels := make([]byte, w*h*4)
	ptr := tape.Pointer()

	put := func(px, py int, r, g, b, a byte) {
		i := (py*w + px) * 4
		pixels[i+0] = r
		pixels[i+1] = g
		pixels[i+2] = b
		pixels[i+3] = a
	}

	for n := 0; n < l.Cols*l.Rows; n++ {
		addr := l.First + n
		cx, cy := grid.GetGridCoords(n, l.Cols)

		var fr, fg, fb, fa byte
		if addr < tape.Len() {
			v := tape.Cell(addr)
			fr, fg, fb, fa = v, v, v, 0xFF
		} else {
			fr, fg, fb, fa = rgb565ToRGBA(ColorUnvisited)
		}
		lr, lg, lb, la := rgb565ToRGBA(ColorGridLine)
		if addr == ptr {
			lr, lg, lb, la = rgb565ToRGBA(ColorPointer)
		}

		for dy := 0; dy < l.CellPx; dy++ {
			for dx := 0; dx < l.CellPx; dx++ {
				px, py := cx*l.CellPx+dx, cy*l.CellPx+dy
				edge := dx == 0 || dy == 0 || dx == l.CellPx-1 || dy == l.CellPx-1
				if edge {
					put(px, py, lr, lg, lb, la)
				} else {
					put(px, py, fr, fg, fb, fa)
				}
			}
		}
	}

	return pixels
}

// TapeImage returns the same picture as TapeRGBA as an *image.RGBA.
func TapeImage(tape *machine.Tape, l Layout) *image.RGBA {
	w, h := l.Size()
	return &image.RGBA{
		Pix:    TapeRGBA(tape, l),
		Stride: w * 4,
		Rect:   image.Rect(0, 0, w, h),
	}
}

// SaveScreenshot encodes the tape picture as a PNG and writes it to filename.
func SaveScreenshot(filename string, tape *machine.Tape, l Layout) error {
	img := TapeImage(tape, l)
	f, err := os.Create(filename)
	if err != nil {
		return err
	}
	defer f.Close()
	return png.Encode(f, img)
}
