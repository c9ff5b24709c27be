package program

import (
	"errors"
	"testing"
)

func TestOpFromByte(t *testing.T) {
	for _, c := range []byte("><+-.,[]") {
		op, ok := OpFromByte(c)
		if !ok {
			t.Fatalf("OpFromByte(%q): expected instruction", c)
		}
		if op.Symbol() != c {
			t.Errorf("Symbol round trip: expected %q, got %q", c, op.Symbol())
		}
	}
	for _, c := range []byte("ab #\n\t0{}") {
		if _, ok := OpFromByte(c); ok {
			t.Errorf("OpFromByte(%q): expected comment byte", c)
		}
	}
}

func TestLoadFiltersComments(t *testing.T) {
	p, err := Load("hello + world [ - ] .")
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if got := p.String(); got != "+[-]." {
		t.Errorf("String(): expected %q, got %q", "+[-].", got)
	}
	if p.Len() != 5 {
		t.Errorf("Len(): expected 5, got %d", p.Len())
	}
	if p.At(1) != OpLoopStart {
		t.Errorf("At(1): expected LoopStart, got %v", p.At(1))
	}
}

func TestCommentsDoNotAffectJumpTable(t *testing.T) {
	a := MustLoad("+[#]+")
	b := MustLoad("+[]+")
	if a.Len() != b.Len() {
		t.Fatalf("Len mismatch: %d vs %d", a.Len(), b.Len())
	}
	for i := 0; i < a.Len(); i++ {
		if a.At(i) != b.At(i) {
			t.Errorf("At(%d): %v vs %v", i, a.At(i), b.At(i))
		}
		ja, oka := a.Jump(i)
		jb, okb := b.Jump(i)
		if ja != jb || oka != okb {
			t.Errorf("Jump(%d): (%d,%v) vs (%d,%v)", i, ja, oka, jb, okb)
		}
	}
}

func TestJumpTableIsBijection(t *testing.T) {
	sources := []string{
		"[]",
		"[[]]",
		"[][]",
		"+[>[-]<[->+<]]",
		"[[[[[]]]][[]]]",
		"++++++++[>++++++++<-]>.",
	}
	for _, src := range sources {
		p, err := Load(src)
		if err != nil {
			t.Fatalf("Load(%q) failed: %v", src, err)
		}
		for i := 0; i < p.Len(); i++ {
			op := p.At(i)
			j, ok := p.Jump(i)
			isBracket := op == OpLoopStart || op == OpLoopEnd
			if ok != isBracket {
				t.Errorf("%q Jump(%d): bracket=%v, ok=%v", src, i, isBracket, ok)
				continue
			}
			if !ok {
				continue
			}
			back, ok := p.Jump(j)
			if !ok || back != i {
				t.Errorf("%q: jump[jump[%d]] expected %d, got %d", src, i, i, back)
			}
			if op == OpLoopStart && j <= i {
				t.Errorf("%q: LoopStart %d matched non-later index %d", src, i, j)
			}
		}
	}
}

func TestNestedMatching(t *testing.T) {
	p := MustLoad("[[][]]")
	want := map[int]int{0: 5, 1: 2, 3: 4, 5: 0, 2: 1, 4: 3}
	for i, w := range want {
		if got, _ := p.Jump(i); got != w {
			t.Errorf("Jump(%d): expected %d, got %d", i, w, got)
		}
	}
}

func TestLoadErrors(t *testing.T) {
	tests := []struct {
		src   string
		want  error
		index int
	}{
		{"]", ErrUnmatchedLoopEnd, 0},
		{"+]", ErrUnmatchedLoopEnd, 1},
		{"[]]", ErrUnmatchedLoopEnd, 2},
		{"[", ErrUnmatchedLoopStart, 0},
		{"[[]", ErrUnmatchedLoopStart, 0},
		{"+[]+[", ErrUnmatchedLoopStart, 4},
	}
	for _, tc := range tests {
		_, err := Load(tc.src)
		if !errors.Is(err, tc.want) {
			t.Errorf("Load(%q): expected %v, got %v", tc.src, tc.want, err)
			continue
		}
		var le *LoadError
		if !errors.As(err, &le) {
			t.Errorf("Load(%q): expected *LoadError, got %T", tc.src, err)
			continue
		}
		if le.Index != tc.index {
			t.Errorf("Load(%q): expected index %d, got %d", tc.src, tc.index, le.Index)
		}
	}
}

func TestLoadErrorPosition(t *testing.T) {
	_, err := Load("+++\n  comment ]")
	var le *LoadError
	if !errors.As(err, &le) {
		t.Fatalf("expected *LoadError, got %v", err)
	}
	if le.Pos.Line != 2 || le.Pos.Column != 11 {
		t.Errorf("Pos: expected 2:11, got %s", le.Pos)
	}
	if le.Pos.Offset != 14 {
		t.Errorf("Offset: expected 14, got %d", le.Pos.Offset)
	}
}

func TestEmptyProgram(t *testing.T) {
	for _, src := range []string{"", "just a comment\n"} {
		p, err := Load(src)
		if err != nil {
			t.Fatalf("Load(%q) failed: %v", src, err)
		}
		if p.Len() != 0 {
			t.Errorf("Load(%q): expected 0 instructions, got %d", src, p.Len())
		}
	}
}

func TestOpsReturnsCopy(t *testing.T) {
	p := MustLoad("+-")
	ops := p.Ops()
	ops[0] = OpLoopEnd
	if p.At(0) != OpIncrement {
		t.Errorf("Ops() aliased program storage")
	}
}
