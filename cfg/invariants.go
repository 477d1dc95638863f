package cfg

import "tlog.app/go/errors"

// CheckInvariants verifies well-formedness of a built CFG: exit-set-once,
// dead-block-no-exit, back-edge multiplicity, MinLoops targets,
// SolveConstraint dominance, and LoadSelf/LoadYieldParams block-entry
// placement.
func (c *CFG) CheckInvariants() error {
	for _, b := range c.Blocks {
		if b == c.DeadBlock {
			continue
		}

		if b.Exit == nil {
			return errors.New("block %d: exit unset", b.ID)
		}
	}

	if c.DeadBlock.Exit != nil {
		return errors.New("dead block has an outgoing edge")
	}

	backCount := make(map[[2]*BasicBlock]int)
	for _, b := range c.Blocks {
		if b.Exit == nil {
			continue
		}

		backCount[[2]*BasicBlock{b, b.Exit.Then}]++
		if b.Exit.Else != b.Exit.Then {
			backCount[[2]*BasicBlock{b, b.Exit.Else}]++
		}
	}

	for _, b := range c.Blocks {
		for pred, n := range b.BackEdges {
			want := backCount[[2]*BasicBlock{pred, b}]
			if want != n {
				return errors.New("block %d: back-edge from %d has multiplicity %d, outgoing count is %d", b.ID, pred.ID, n, want)
			}
		}
	}

	for local, depth := range c.MinLoops {
		if depth < 0 {
			return errors.New("min loop for %v is negative", local)
		}

		if !localIsTarget(c, local) {
			return errors.New("min loop pinned for %v but it is never a target", local)
		}
	}

	if err := c.checkSolveConstraintDominance(); err != nil {
		return err
	}

	if err := c.checkBlockEntryOnlyOps(); err != nil {
		return err
	}

	return nil
}

func localIsTarget(c *CFG, local LocalVariable) bool {
	for _, b := range c.Blocks {
		for _, i := range b.Instructions {
			if i.Target == local {
				return true
			}
		}
	}

	return false
}

func (c *CFG) checkSolveConstraintDominance() error {
	for _, b := range c.Blocks {
		for i, ins := range b.Instructions {
			sc, ok := ins.Op.(SolveConstraint)
			if !ok {
				continue
			}

			sendBlock, sendIdx, found := c.findSend(sc.Link)
			if !found {
				return errors.New("block %d: SolveConstraint at instruction %d has no matching Send", b.ID, i)
			}

			if sendBlock == b {
				if sendIdx >= i {
					return errors.New("block %d: SolveConstraint at instruction %d is not preceded by its Send", b.ID, i)
				}
				continue
			}

			if !c.dominates(sendBlock, b) {
				return errors.New("block %d: SolveConstraint at instruction %d is not dominated by its Send's block %d", b.ID, i, sendBlock.ID)
			}
		}
	}

	return nil
}

func (c *CFG) findSend(link *SendAndBlockLink) (block *BasicBlock, index int, found bool) {
	for _, b := range c.Blocks {
		for i, ins := range b.Instructions {
			if s, ok := ins.Op.(Send); ok && s.Link == link {
				return b, i, true
			}
		}
	}

	return nil, 0, false
}

// dominates walks forward from entry with dominator removed; if target
// is still reachable, dominator does not dominate it.
func (c *CFG) dominates(dominator, target *BasicBlock) bool {
	if dominator == target || dominator == c.Entry {
		return true
	}

	seen := map[*BasicBlock]bool{dominator: true}
	stack := []*BasicBlock{c.Entry}

	for len(stack) > 0 {
		b := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		if seen[b] {
			continue
		}
		seen[b] = true

		if b == target {
			return false
		}

		if b.Exit == nil {
			continue
		}

		for _, succ := range []*BasicBlock{b.Exit.Then, b.Exit.Else} {
			if succ != nil && !seen[succ] {
				stack = append(stack, succ)
			}
		}
	}

	return true
}

func (c *CFG) checkBlockEntryOnlyOps() error {
	for _, b := range c.Blocks {
		atEntry := true

		for i, ins := range b.Instructions {
			switch ins.Op.(type) {
			case LoadSelf, LoadYieldParams:
				if !atEntry {
					return errors.New("block %d: %T at instruction %d must be part of the block's entry sequence", b.ID, ins.Op, i)
				}
			default:
				atEntry = false
			}
		}
	}

	return nil
}
