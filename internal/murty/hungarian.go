package murty

import "math"

// Inf is the cost-matrix sentinel for a forbidden assignment: row m may
// never be assigned to a column holding this value.
var Inf = math.Inf(1)

// bigCost stands in for Inf inside the Jonker-Volgenant potential
// arithmetic, where a true +Inf would propagate to NaN once two forbidden
// entries are subtracted from one another. It must dominate every finite
// cost actually present in the matrix.
const bigCost = 1e15

// solveResult is the outcome of one Hungarian/LAP solve.
type solveResult struct {
	assignment []int // assignment[row] = column, or -1 if row unassigned
	cost       float64
	feasible   bool // false if some row could only be matched to a forbidden column
}

// solveLAP solves the rectangular linear assignment problem for an
// M x N cost matrix using the Kuhn-Munkres algorithm with potentials
// (Jonker-Volgenant variant). Entries
// equal to Inf are forbidden; a solution that can only touch a forbidden
// entry is reported infeasible rather than returned.
func solveLAP(cost [][]float64) solveResult {
	m := len(cost)
	if m == 0 {
		return solveResult{feasible: true}
	}
	n := len(cost[0])
	if n == 0 {
		assignment := make([]int, m)
		for i := range assignment {
			assignment[i] = -1
		}
		return solveResult{assignment: assignment, feasible: true}
	}

	dim := m
	if n > dim {
		dim = n
	}

	c := make([][]float64, dim)
	forbidden := make([][]bool, dim)
	for i := 0; i < dim; i++ {
		c[i] = make([]float64, dim)
		forbidden[i] = make([]bool, dim)
		for j := 0; j < dim; j++ {
			switch {
			case i < m && j < n && cost[i][j] >= Inf:
				c[i][j] = bigCost
				forbidden[i][j] = true
			case i < m && j < n:
				c[i][j] = cost[i][j]
			default:
				// padding row/column: free to match, never binds a real
				// row to a real column.
				c[i][j] = 0
			}
		}
	}

	const sentinel = math.MaxFloat64 / 2

	u := make([]float64, dim+1)
	v := make([]float64, dim+1)
	p := make([]int, dim+1)
	way := make([]int, dim+1)
	minv := make([]float64, dim+1)
	used := make([]bool, dim+1)

	for i := 1; i <= dim; i++ {
		p[0] = i
		j0 := 0

		for j := 1; j <= dim; j++ {
			minv[j] = sentinel
			used[j] = false
		}

		for {
			used[j0] = true
			i0 := p[j0]
			delta := sentinel
			j1 := -1

			for j := 1; j <= dim; j++ {
				if used[j] {
					continue
				}
				cur := c[i0-1][j-1] - u[i0] - v[j]
				if cur < minv[j] {
					minv[j] = cur
					way[j] = j0
				}
				if minv[j] < delta {
					delta = minv[j]
					j1 = j
				}
			}

			if j1 < 0 {
				break
			}

			for j := 0; j <= dim; j++ {
				if used[j] {
					u[p[j]] += delta
					v[j] -= delta
				} else {
					minv[j] -= delta
				}
			}

			j0 = j1
			if p[j0] == 0 {
				break
			}
		}

		for j0 != 0 {
			p[j0] = p[way[j0]]
			j0 = way[j0]
		}
	}

	rowAssign := make([]int, dim)
	for i := range rowAssign {
		rowAssign[i] = -1
	}
	for j := 1; j <= dim; j++ {
		if p[j] > 0 && p[j] <= dim {
			rowAssign[p[j]-1] = j - 1
		}
	}

	assignment := make([]int, m)
	total := 0.0
	feasible := true
	for i := 0; i < m; i++ {
		col := rowAssign[i]
		if col < 0 || col >= n || forbidden[i][col] {
			assignment[i] = -1
			feasible = false
			continue
		}
		assignment[i] = col
		total += cost[i][col]
	}

	return solveResult{assignment: assignment, cost: total, feasible: feasible}
}

// HungarianOptimal solves the single best (minimum-cost) assignment for an
// M x N cost matrix, exposed for callers that only need the optimum and
// not a ranked list.
func HungarianOptimal(cost [][]float64) (assignment []int, totalCost float64, feasible bool) {
	r := solveLAP(cost)
	return r.assignment, r.cost, r.feasible
}
