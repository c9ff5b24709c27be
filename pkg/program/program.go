package program

import (
	"errors"
	"fmt"
	"strings"
)

// Op is one of the eight instructions of the tape language.
type Op uint8

const (
	OpMoveRight Op = iota
	OpMoveLeft
	OpIncrement
	OpDecrement
	OpOutput
	OpInput
	OpLoopStart
	OpLoopEnd
)

var opSymbols = [...]byte{
	OpMoveRight: '>',
	OpMoveLeft:  '<',
	OpIncrement: '+',
	OpDecrement: '-',
	OpOutput:    '.',
	OpInput:     ',',
	OpLoopStart: '[',
	OpLoopEnd:   ']',
}

var opNames = [...]string{
	OpMoveRight: "MoveRight",
	OpMoveLeft:  "MoveLeft",
	OpIncrement: "Increment",
	OpDecrement: "Decrement",
	OpOutput:    "Output",
	OpInput:     "Input",
	OpLoopStart: "LoopStart",
	OpLoopEnd:   "LoopEnd",
}

// OpFromByte maps a source byte to its instruction. ok is false for every
// byte that is not one of the eight instruction symbols.
func OpFromByte(c byte) (op Op, ok bool) {
	switch c {
	case '>':
		return OpMoveRight, true
	case '<':
		return OpMoveLeft, true
	case '+':
		return OpIncrement, true
	case '-':
		return OpDecrement, true
	case '.':
		return OpOutput, true
	case ',':
		return OpInput, true
	case '[':
		return OpLoopStart, true
	case ']':
		return OpLoopEnd, true
	}
	return 0, false
}

// Symbol returns the source character for op.
func (op Op) Symbol() byte {
	if int(op) < len(opSymbols) {
		return opSymbols[op]
	}
	return '?'
}

func (op Op) String() string {
	if int(op) < len(opNames) {
		return opNames[op]
	}
	return fmt.Sprintf("Op(%d)", uint8(op))
}

var (
	ErrUnmatchedLoopStart = errors.New("unmatched '['")
	ErrUnmatchedLoopEnd   = errors.New("unmatched ']'")
)

// Position locates an instruction in the source text.
// Line and Column are 1-based; Offset is the 0-based byte offset.
type Position struct {
	Offset int
	Line   int
	Column int
}

func (p Position) String() string {
	return fmt.Sprintf("%d:%d", p.Line, p.Column)
}

// LoadError reports a bracket that has no partner.
type LoadError struct {
	Err   error
	Index int // instruction index of the offending bracket
	Pos   Position
}

func (e *LoadError) Error() string {
	return fmt.Sprintf("%v at instruction %d (%s)", e.Err, e.Index, e.Pos)
}

func (e *LoadError) Unwrap() error { return e.Err }

// Program is a validated instruction sequence with its precomputed jump
// table. It is never modified after Load and may be shared between runs.
type Program struct {
	ops   []Op
	jumps []int // partner index for brackets, -1 otherwise
	pos   []Position
}

// Load filters source down to instructions and matches every bracket.
// All non-instruction bytes are comments.
func Load(source string) (*Program, error) {
	p := &Program{}
	line, col := 1, 1
	for i := 0; i < len(source); i++ {
		c := source[i]
		if op, ok := OpFromByte(c); ok {
			p.ops = append(p.ops, op)
			p.pos = append(p.pos, Position{Offset: i, Line: line, Column: col})
		}
		if c == '\n' {
			line++
			col = 1
		} else {
			col++
		}
	}

	p.jumps = make([]int, len(p.ops))
	var open []int
	for i, op := range p.ops {
		p.jumps[i] = -1
		switch op {
		case OpLoopStart:
			open = append(open, i)
		case OpLoopEnd:
			if len(open) == 0 {
				return nil, &LoadError{Err: ErrUnmatchedLoopEnd, Index: i, Pos: p.pos[i]}
			}
			start := open[len(open)-1]
			open = open[:len(open)-1]
			p.jumps[start] = i
			p.jumps[i] = start
		}
	}
	if len(open) > 0 {
		// Report the outermost unclosed loop; everything nested in it is
		// unclosed too.
		idx := open[0]
		return nil, &LoadError{Err: ErrUnmatchedLoopStart, Index: idx, Pos: p.pos[idx]}
	}
	return p, nil
}

// MustLoad is like Load but panics on error. Intended for tests and
// package-level program literals.
func MustLoad(source string) *Program {
	p, err := Load(source)
	if err != nil {
		panic(err)
	}
	return p
}

// Len returns the number of instructions.
func (p *Program) Len() int { return len(p.ops) }

// At returns the instruction at index i.
func (p *Program) At(i int) Op { return p.ops[i] }

// Jump returns the index of the bracket matching the one at i.
// ok is false when i is not a bracket.
func (p *Program) Jump(i int) (target int, ok bool) {
	if i < 0 || i >= len(p.jumps) || p.jumps[i] < 0 {
		return 0, false
	}
	return p.jumps[i], true
}

// Position returns where instruction i appeared in the source.
func (p *Program) Position(i int) Position { return p.pos[i] }

// Ops returns a copy of the instruction sequence.
func (p *Program) Ops() []Op {
	out := make([]Op, len(p.ops))
	copy(out, p.ops)
	return out
}

// String renders the program in canonical form, comments stripped.
func (p *Program) String() string {
	var sb strings.Builder
	sb.Grow(len(p.ops))
	for _, op := range p.ops {
		sb.WriteByte(op.Symbol())
	}
	return sb.String()
}
