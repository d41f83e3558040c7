package lower

import "github.com/llir/llvm/ir"

// verifyFunc runs the structural checks that stand in for the verifier
// llir/llvm does not ship: every basic block must end in exactly one
// terminator, and every phi's incoming-value count must match the number of
// predecessors feeding the block it lives in.
func verifyFunc(fn *ir.Func) error {
	preds := make(map[*ir.Block]int)
	for _, block := range fn.Blocks {
		if block.Term == nil {
			return verifierFailure("function %q: block %q has no terminator", fn.Name(), block.Name())
		}
		for _, succ := range block.Term.Succs() {
			preds[succ]++
		}
	}

	for _, block := range fn.Blocks {
		for _, inst := range block.Insts {
			phi, ok := inst.(*ir.InstPhi)
			if !ok {
				continue
			}
			if got, want := len(phi.Incs), preds[block]; got != want {
				return verifierFailure(
					"function %q: phi in block %q has %d incoming values but block has %d predecessors",
					fn.Name(), block.Name(), got, want,
				)
			}
		}
	}
	return nil
}
