package lower

import (
	"testing"

	"github.com/llir/llvm/ir"
	"github.com/llir/llvm/ir/types"

	"eva/parser"
)

// lowerSource parses and lowers src (wrapped in begin, mirroring the CLI
// driver), failing the test on the first diagnostic instead of exiting the
// process.
func lowerSource(t *testing.T, src string) *ir.Module {
	t.Helper()
	program, err := parser.Parse("(begin " + src + ")")
	if err != nil {
		t.Fatalf("Parse error: %v", err)
	}
	var diagErr error
	gen := NewGenerator(func(err error) {
		if diagErr == nil {
			diagErr = err
		}
	})
	m := gen.Lower(program)
	if diagErr != nil {
		t.Fatalf("lowering reported an error: %v", diagErr)
	}
	return m
}

func mainFunc(t *testing.T, m *ir.Module) *ir.Func {
	t.Helper()
	for _, fn := range m.Funcs {
		if fn.Name() == "main" {
			return fn
		}
	}
	t.Fatalf("module has no main function")
	return nil
}

func TestAllocasLiveInEntryBlock(t *testing.T) {
	m := lowerSource(t, `(var x 1) (var y 2)`)
	fn := mainFunc(t, m)
	entry := fn.Blocks[0]

	entryAllocas := 0
	for _, inst := range entry.Insts {
		if _, ok := inst.(*ir.InstAlloca); ok {
			entryAllocas++
		}
	}
	if entryAllocas != 2 {
		t.Fatalf("entry block has %d allocas; want 2", entryAllocas)
	}
	for _, block := range fn.Blocks[1:] {
		for _, inst := range block.Insts {
			if _, ok := inst.(*ir.InstAlloca); ok {
				t.Fatalf("found an alloca outside the entry block, in %q", block.Name())
			}
		}
	}
}

func TestIfProducesTwoIncomingPhi(t *testing.T) {
	m := lowerSource(t, `(var x 1) (if (> x 0) (set x 1) (set x 2))`)
	fn := mainFunc(t, m)

	var phis []*ir.InstPhi
	for _, block := range fn.Blocks {
		for _, inst := range block.Insts {
			if phi, ok := inst.(*ir.InstPhi); ok {
				phis = append(phis, phi)
			}
		}
	}
	if len(phis) != 1 {
		t.Fatalf("found %d phi instructions; want exactly 1", len(phis))
	}
	if got := len(phis[0].Incs); got != 2 {
		t.Fatalf("phi has %d incoming values; want 2", got)
	}
}

func TestNestedIfPredecessorCapture(t *testing.T) {
	// Mirrors scenario 3 of the specification's end-to-end scenarios: the
	// outer if's then-branch is itself an if, so the outer phi's
	// then-side predecessor must be the block ending the inner if, not the
	// originally-created outer "then" block.
	m := lowerSource(t, `(var x 39) (if (!= x 42) (if (> x 42) (set x 300) (set x 200)) (set x 100))`)
	fn := mainFunc(t, m)

	if err := verifyFunc(fn); err != nil {
		t.Fatalf("verifyFunc reported a structural defect: %v", err)
	}

	// Blocks are appended in emission order: entry, outer then, inner then,
	// inner else, inner ifend, outer else, outer ifend.
	if len(fn.Blocks) != 7 {
		t.Fatalf("main has %d blocks; want 7", len(fn.Blocks))
	}
	innerEnd, outerElse, outerEnd := fn.Blocks[4], fn.Blocks[5], fn.Blocks[6]
	if len(outerEnd.Insts) == 0 {
		t.Fatalf("outer join block has no instructions; want a phi")
	}
	phi, ok := outerEnd.Insts[0].(*ir.InstPhi)
	if !ok {
		t.Fatalf("outer join block does not start with a phi")
	}
	if phi.Incs[0].Pred != innerEnd {
		t.Fatalf("outer phi's then-side predecessor is not the inner if's join block")
	}
	if phi.Incs[1].Pred != outerElse {
		t.Fatalf("outer phi's else-side predecessor is not the outer else block")
	}
}

func TestWhileLowersToThreeBlocks(t *testing.T) {
	m := lowerSource(t, `(var x 10) (while (> x 0) (set x (- x 1)))`)
	fn := mainFunc(t, m)

	var names []string
	for _, block := range fn.Blocks {
		names = append(names, block.Name())
	}
	foundCond, foundBody, foundEnd := false, false, false
	for _, n := range names {
		switch n {
		case "cond":
			foundCond = true
		case "body":
			foundBody = true
		case "loopend":
			foundEnd = true
		}
	}
	if !foundCond || !foundBody || !foundEnd {
		t.Fatalf("while did not produce cond/body/loopend blocks, got %v", names)
	}
}

func TestDefCreatesCallableFunction(t *testing.T) {
	m := lowerSource(t, `(def square (x) (* x x)) (printf "%d" (square 2))`)

	found := false
	for _, fn := range m.Funcs {
		if fn.Name() == "square" {
			found = true
			if len(fn.Params) != 1 {
				t.Fatalf("square has %d params; want 1", len(fn.Params))
			}
			if err := verifyFunc(fn); err != nil {
				t.Fatalf("verifyFunc reported a structural defect: %v", err)
			}
		}
	}
	if !found {
		t.Fatalf("module has no square function")
	}
}

func TestShadowingInBegin(t *testing.T) {
	// (var VERSION 43) inside the top-level begin shadows the predeclared
	// global without mutating it, mirroring scenario 5 of the
	// specification's end-to-end scenarios.
	m := lowerSource(t, `(var VERSION 43) (printf "%d" VERSION)`)
	fn := mainFunc(t, m)

	entryAllocas := 0
	for _, inst := range fn.Blocks[0].Insts {
		if _, ok := inst.(*ir.InstAlloca); ok {
			entryAllocas++
		}
	}
	if entryAllocas != 1 {
		t.Fatalf("expected a single local slot shadowing VERSION, got %d allocas", entryAllocas)
	}

	foundGlobalVersion := false
	for _, g := range m.Globals {
		if g.Name() == "VERSION" {
			foundGlobalVersion = true
		}
	}
	if !foundGlobalVersion {
		t.Fatalf("predeclared global VERSION was removed rather than shadowed")
	}
}

func TestUnboundNameIsFatal(t *testing.T) {
	program, err := parser.Parse("(begin (printf \"%d\" nosuchname))")
	if err != nil {
		t.Fatalf("Parse error: %v", err)
	}
	var diagErr error
	gen := NewGenerator(func(err error) {
		if diagErr == nil {
			diagErr = err
		}
	})
	gen.Lower(program)
	if diagErr == nil {
		t.Fatalf("expected an UnboundName error, got none")
	}
	lowerErr, ok := diagErr.(*Error)
	if !ok || lowerErr.Kind != KindUnboundName {
		t.Fatalf("error = %#v; want a *Error with Kind == KindUnboundName", diagErr)
	}
}

func TestWrongArityIsMalformed(t *testing.T) {
	program, err := parser.Parse("(begin (if true))")
	if err != nil {
		t.Fatalf("Parse error: %v", err)
	}
	var diagErr error
	gen := NewGenerator(func(err error) {
		if diagErr == nil {
			diagErr = err
		}
	})
	gen.Lower(program)
	if diagErr == nil {
		t.Fatalf("expected a MalformedForm error, got none")
	}
	lowerErr, ok := diagErr.(*Error)
	if !ok || lowerErr.Kind != KindMalformedForm {
		t.Fatalf("error = %#v; want a *Error with Kind == KindMalformedForm", diagErr)
	}
}

func TestVerifyFuncCatchesMissingTerminator(t *testing.T) {
	fn := ir.NewFunc("broken", types.Void)
	fn.Blocks = []*ir.Block{ir.NewBlock("entry")}
	if err := verifyFunc(fn); err == nil {
		t.Fatalf("verifyFunc did not reject a block with no terminator")
	}
}
