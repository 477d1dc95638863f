package cfg

import "nikand.dev/go/heap"

// blockQueue is a priority queue over blocks ordered by loop depth, then
// allocation order.
type blockQueue struct {
	heap.Heap[*BasicBlock]
}

func newBlockQueue() blockQueue {
	return blockQueue{Heap: heap.Heap[*BasicBlock]{Less: func(d []*BasicBlock, i, j int) bool {
		a, b := d[i], d[j]

		if a.LoopDepth != b.LoopDepth {
			return a.LoopDepth < b.LoopDepth
		}

		return a.order < b.order
	}}}
}

// ReversePostorder visits every block reachable from the entry block in
// an order that groups shallow-loop-depth blocks first, breaking ties by
// allocation order. It is scaffolding for a downstream fixed-point
// dataflow pass; this package performs no dataflow analysis or
// optimization of its own.
func (c *CFG) ReversePostorder() []*BasicBlock {
	seen := make(map[*BasicBlock]bool, len(c.Blocks))
	q := newBlockQueue()
	q.Push(c.Entry)
	seen[c.Entry] = true

	var order []*BasicBlock

	for q.Len() != 0 {
		b := q.Pop()
		order = append(order, b)

		if b.Exit == nil {
			continue
		}

		for _, succ := range []*BasicBlock{b.Exit.Then, b.Exit.Else} {
			if succ == nil || seen[succ] {
				continue
			}

			seen[succ] = true
			q.Push(succ)
		}
	}

	return order
}
