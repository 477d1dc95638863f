package cfg

import (
	"reflect"

	"tlog.app/go/errors"
)

// Isomorphic reports whether a and b are the same graph up to block-id
// renaming.
func Isomorphic(a, b *CFG) error {
	if len(a.Blocks) != len(b.Blocks) {
		return errors.New("block count differs: %d vs %d", len(a.Blocks), len(b.Blocks))
	}

	aToB := make(map[*BasicBlock]*BasicBlock)
	bToA := make(map[*BasicBlock]*BasicBlock)

	var walk func(x, y *BasicBlock) error
	walk = func(x, y *BasicBlock) error {
		if mapped, ok := aToB[x]; ok {
			if mapped != y {
				return errors.New("block %d maps to both %d and %d", x.ID, mapped.ID, y.ID)
			}
			return nil
		}

		if claimedBy, ok := bToA[y]; ok {
			return errors.New("block %d in b is already matched to a's block %d, not %d", y.ID, claimedBy.ID, x.ID)
		}

		aToB[x] = y
		bToA[y] = x

		if err := sameBlockShape(x, y); err != nil {
			return errors.Wrap(err, "blocks %d/%d", x.ID, y.ID)
		}

		switch {
		case x.Exit == nil && y.Exit == nil:
			return nil
		case x.Exit == nil || y.Exit == nil:
			return errors.New("blocks %d/%d: exit presence differs", x.ID, y.ID)
		}

		if x.Exit.Cond != y.Exit.Cond {
			return errors.New("blocks %d/%d: exit condition local differs", x.ID, y.ID)
		}

		if err := walk(x.Exit.Then, y.Exit.Then); err != nil {
			return err
		}

		if x.Exit.Then == x.Exit.Else {
			if y.Exit.Then != y.Exit.Else {
				return errors.New("blocks %d/%d: then/else coincidence differs", x.ID, y.ID)
			}
			return nil
		}

		return walk(x.Exit.Else, y.Exit.Else)
	}

	if err := walk(a.Entry, b.Entry); err != nil {
		return err
	}
	if err := walk(a.DeadBlock, b.DeadBlock); err != nil {
		return err
	}

	if len(aToB) != len(a.Blocks) {
		return errors.New("only %d of %d blocks in a are reachable from Entry/DeadBlock", len(aToB), len(a.Blocks))
	}

	for x, y := range aToB {
		if len(x.BackEdges) != len(y.BackEdges) {
			return errors.New("blocks %d/%d: back-edge source count differs", x.ID, y.ID)
		}

		for src, n := range x.BackEdges {
			mappedSrc, ok := aToB[src]
			if !ok {
				return errors.New("block %d: back-edge source %d was never reached from Entry/DeadBlock", x.ID, src.ID)
			}

			if y.BackEdges[mappedSrc] != n {
				return errors.New("blocks %d/%d: back-edge multiplicity from %d/%d differs", x.ID, y.ID, src.ID, mappedSrc.ID)
			}
		}
	}

	return nil
}

func sameBlockShape(x, y *BasicBlock) error {
	if x.LoopDepth != y.LoopDepth {
		return errors.New("loop depth differs: %d vs %d", x.LoopDepth, y.LoopDepth)
	}

	if x.BlockScopeID != y.BlockScopeID {
		return errors.New("block scope id differs: %d vs %d", x.BlockScopeID, y.BlockScopeID)
	}

	if x.Flags != y.Flags {
		return errors.New("flags differ: %v vs %v", x.Flags, y.Flags)
	}

	if len(x.Instructions) != len(y.Instructions) {
		return errors.New("instruction count differs: %d vs %d", len(x.Instructions), len(y.Instructions))
	}

	for i := range x.Instructions {
		xi, yi := x.Instructions[i], y.Instructions[i]

		if xi.Target != yi.Target || xi.Synthetic != yi.Synthetic || xi.Loc != yi.Loc {
			return errors.New("instruction %d differs in target/synthetic/loc", i)
		}

		if !reflect.DeepEqual(xi.Op, yi.Op) {
			return errors.New("instruction %d op differs: %#v vs %#v", i, xi.Op, yi.Op)
		}
	}

	return nil
}
