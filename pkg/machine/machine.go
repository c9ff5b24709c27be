package machine

import (
	"io"
	"os"

	"gobf/pkg/program"
)

// Machine holds the state of a single run: the tape, the instruction
// pointer and the streams. Build a fresh Machine for every run; the
// Program it executes can be shared.
type Machine struct {
	prog *program.Program
	tape *Tape

	ip     int
	steps  uint64
	halted bool
	err    error

	// Input feeds Input instructions. A nil Input behaves like an empty
	// stream, so every read yields 0.
	Input io.Reader
	// Output receives the bytes of Output instructions.
	// If nil, os.Stdout is used.
	Output io.Writer

	inBuf  [1]byte
	outBuf [1]byte
}

// Option configures a Machine.
type Option func(*Machine)

// WithMaxTape caps the tape at n cells. Zero leaves it unbounded.
func WithMaxTape(n int) Option {
	return func(m *Machine) {
		m.tape.MaxCells = n
	}
}

// New creates a machine positioned at the first instruction of p.
func New(p *program.Program, in io.Reader, out io.Writer, opts ...Option) *Machine {
	m := &Machine{
		prog:   p,
		tape:   NewTape(),
		Input:  in,
		Output: out,
	}
	for _, opt := range opts {
		opt(m)
	}
	m.halted = p.Len() == 0
	return m
}

// Run executes p to completion against in and out.
func Run(p *program.Program, in io.Reader, out io.Writer, opts ...Option) error {
	return New(p, in, out, opts...).Run()
}

func (m *Machine) outputSink() io.Writer {
	if m.Output != nil {
		return m.Output
	}
	return os.Stdout
}

// Program returns the program being executed.
func (m *Machine) Program() *program.Program { return m.prog }

// Tape returns the machine's tape. Callers must not mutate it while the
// machine is running.
func (m *Machine) Tape() *Tape { return m.tape }

// IP returns the index of the next instruction to execute.
func (m *Machine) IP() int { return m.ip }

// Steps returns how many instructions have been executed.
func (m *Machine) Steps() uint64 { return m.steps }

// Halted reports whether the run is over, either by reaching the end of
// the program or by failing.
func (m *Machine) Halted() bool { return m.halted }

// Err returns the error that stopped the machine, if any.
func (m *Machine) Err() error { return m.err }

// Step executes one instruction. Once the machine has halted, Step
// returns the terminal error again (nil after a clean finish).
func (m *Machine) Step() error {
	if m.halted {
		return m.err
	}

	op := m.prog.At(m.ip)
	var err error

	switch op {
	case program.OpMoveRight:
		err = m.tape.Right()

	case program.OpMoveLeft:
		err = m.tape.Left()

	case program.OpIncrement:
		m.tape.Increment()

	case program.OpDecrement:
		m.tape.Decrement()

	case program.OpOutput:
		m.outBuf[0] = m.tape.Get()
		n, werr := m.outputSink().Write(m.outBuf[:])
		if werr == nil && n != 1 {
			werr = io.ErrShortWrite
		}
		if werr != nil {
			err = ioFailure(werr)
		}

	case program.OpInput:
		v, rerr := m.readByte()
		if rerr != nil {
			err = ioFailure(rerr)
		} else {
			m.tape.Set(v)
		}

	case program.OpLoopStart:
		if m.tape.Get() == 0 {
			m.ip, _ = m.prog.Jump(m.ip)
		}

	case program.OpLoopEnd:
		if m.tape.Get() != 0 {
			m.ip, _ = m.prog.Jump(m.ip)
		}
	}

	if err != nil {
		m.err = &RuntimeError{Op: op, IP: m.ip, DP: m.tape.Pointer(), Err: err}
		m.halted = true
		return m.err
	}

	// Jumps land on the partner bracket, so the shared increment moves
	// past the LoopEnd or into the loop body.
	m.ip++
	m.steps++
	if m.ip >= m.prog.Len() {
		m.halted = true
	}
	return nil
}

// readByte reads one input byte. End of input reads as 0.
func (m *Machine) readByte() (byte, error) {
	if m.Input == nil {
		return 0, nil
	}
	_, err := io.ReadFull(m.Input, m.inBuf[:])
	if err == io.EOF {
		return 0, nil
	}
	if err != nil {
		return 0, err
	}
	return m.inBuf[0], nil
}

// Run steps until the program ends or fails. There is no step limit.
func (m *Machine) Run() error {
	for !m.halted {
		if err := m.Step(); err != nil {
			return err
		}
	}
	return m.err
}

// RunFor executes at most n instructions and returns how many ran. The
// machine can be resumed with further calls.
func (m *Machine) RunFor(n uint64) (uint64, error) {
	var done uint64
	for done < n && !m.halted {
		if err := m.Step(); err != nil {
			return done, err
		}
		done++
	}
	return done, m.err
}
