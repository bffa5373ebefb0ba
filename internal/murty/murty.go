package murty

import "container/heap"

// Solution is one ranked assignment: Assignment[row] = column (or -1 if
// the row is left unassigned), with its total cost.
type Solution struct {
	Assignment []int
	Cost       float64
}

// fixedEdge records a row forced onto a column before the remaining
// submatrix is solved.
type fixedEdge struct {
	row, col int
}

// node is one entry of the Murty partition queue: a set of edges already
// fixed (from ancestor partitions), the rows/columns still free to be
// solved, and the columns excluded for the first free row.
type node struct {
	fixed        []fixedEdge
	freeRows     []int // original row indices, ascending
	freeCols     []int // original column indices, ascending
	excludeRow int // original row index excluded within the free submatrix, or -1
	excludeCol int
	excludedEarlier []int // further columns excluded for excludeRow, inherited from ancestors
	fixedCost  float64
	sub        solveResult // cached solve of the free submatrix under the exclusion
}

type nodeHeap []*node

func (h nodeHeap) Len() int { return len(h) }
func (h nodeHeap) Less(i, j int) bool {
	return h[i].fixedCost+h[i].sub.cost < h[j].fixedCost+h[j].sub.cost
}
func (h nodeHeap) Swap(i, j int)      { h[i], h[j] = h[j], h[i] }
func (h *nodeHeap) Push(x interface{}) { *h = append(*h, x.(*node)) }
func (h *nodeHeap) Pop() interface{} {
	old := *h
	n := len(old)
	item := old[n-1]
	*h = old[:n-1]
	return item
}

// buildSubmatrix extracts the cost submatrix over freeRows x freeCols from
// the original matrix, setting cost[excludeRow][excludeCol] to Inf when
// both indices are present in this submatrix.
func buildSubmatrix(cost [][]float64, freeRows, freeCols []int, excludeRow, excludeCol int) [][]float64 {
	sub := make([][]float64, len(freeRows))
	for i, r := range freeRows {
		sub[i] = make([]float64, len(freeCols))
		for j, c := range freeCols {
			if r == excludeRow && c == excludeCol {
				sub[i][j] = Inf
			} else {
				sub[i][j] = cost[r][c]
			}
		}
	}
	return sub
}

// toFullAssignment expands a solve over freeRows/freeCols plus the fixed
// edges into a full row-indexed assignment of the original M x N matrix.
func toFullAssignment(m int, fixed []fixedEdge, freeRows, freeCols []int, subAssignment []int) []int {
	full := make([]int, m)
	for i := range full {
		full[i] = -1
	}
	for _, e := range fixed {
		full[e.row] = e.col
	}
	for i, r := range freeRows {
		col := subAssignment[i]
		if col >= 0 {
			full[r] = freeCols[col]
		}
	}
	return full
}

// remove returns a copy of xs with value removed.
func remove(xs []int, value int) []int {
	out := make([]int, 0, len(xs)-1)
	for _, x := range xs {
		if x != value {
			out = append(out, x)
		}
	}
	return out
}

// RankedAssignments enumerates up to k assignments of an M x N cost
// matrix in nondecreasing total cost, using Murty's algorithm seeded by
// the Hungarian/LAP optimum. Inf entries are forbidden; a
// solution that can only touch an Inf entry is never returned. Returns
// fewer than k solutions when the partition queue empties first.
func RankedAssignments(cost [][]float64, k int) []Solution {
	if k <= 0 || len(cost) == 0 {
		return nil
	}
	m := len(cost)
	n := len(cost[0])

	allRows := make([]int, m)
	for i := range allRows {
		allRows[i] = i
	}
	allCols := make([]int, n)
	for j := range allCols {
		allCols[j] = j
	}

	root := &node{freeRows: allRows, freeCols: allCols, excludeRow: -1, excludeCol: -1}
	root.sub = solveLAP(buildSubmatrix(cost, root.freeRows, root.freeCols, root.excludeRow, root.excludeCol))

	h := &nodeHeap{}
	if root.sub.feasible {
		heap.Push(h, root)
	}

	var out []Solution
	for h.Len() > 0 && len(out) < k {
		best := heap.Pop(h).(*node)
		if !best.sub.feasible {
			continue
		}

		fullAssignment := toFullAssignment(m, best.fixed, best.freeRows, best.freeCols, best.sub.assignment)
		out = append(out, Solution{Assignment: fullAssignment, Cost: best.fixedCost + best.sub.cost})

		partition(cost, best, h)
	}
	return out
}

// partition generates Murty's child subproblems from the winning node
// just popped, by walking its free-submatrix solution row by row: for
// each free row r (in ascending original index), one child fixes every
// free row before r onto the winning solution's columns and excludes r's
// winning column, solving the remainder. The child for the first free row
// also keeps every column the parent already excluded for that row, so
// the children partition the parent's space without overlap.
func partition(cost [][]float64, parent *node, h *nodeHeap) {
	for idx, r := range parent.freeRows {
		col := parent.sub.assignment[idx]
		if col < 0 {
			continue
		}
		winningCol := parent.freeCols[col]

		childFixed := make([]fixedEdge, len(parent.fixed), len(parent.fixed)+idx)
		copy(childFixed, parent.fixed)
		childFixedCost := parent.fixedCost
		for _, r2 := range parent.freeRows[:idx] {
			c2 := parent.freeCols[parent.sub.assignment[indexOf(parent.freeRows, r2)]]
			childFixed = append(childFixed, fixedEdge{row: r2, col: c2})
			childFixedCost += cost[r2][c2]
		}

		childFreeRows := parent.freeRows[idx:]
		childFreeCols := make([]int, len(parent.freeCols))
		copy(childFreeCols, parent.freeCols)
		// remove the columns consumed by childFixed (those bound to rows
		// before r in this partition step).
		for _, e := range childFixed[len(parent.fixed):] {
			childFreeCols = remove(childFreeCols, e.col)
		}

		child := &node{
			fixed:      childFixed,
			freeRows:   childFreeRows,
			freeCols:   childFreeCols,
			excludeRow: r,
			excludeCol: winningCol,
			fixedCost:  childFixedCost,
		}
		sub := buildSubmatrix(cost, child.freeRows, child.freeCols, child.excludeRow, child.excludeCol)
		if idx == 0 && parent.excludeRow == r {
			child.excludedEarlier = append(append([]int(nil), parent.excludedEarlier...), parent.excludeCol)
			for j, c := range child.freeCols {
				if indexOf(child.excludedEarlier, c) >= 0 {
					sub[0][j] = Inf
				}
			}
		}
		child.sub = solveLAP(sub)
		if child.sub.feasible {
			heap.Push(h, child)
		}
	}
}

func indexOf(xs []int, v int) int {
	for i, x := range xs {
		if x == v {
			return i
		}
	}
	return -1
}
