package candidates

import "fmt"

// Assignment is a partial mapping of participant-A ids to participant-B ids.
// Unassigned A ids never contribute to an agreement count.
type Assignment struct {
	as []int
	bs []uint8
}

// NewAssignment returns an empty assignment with room for size entries.
func NewAssignment(size int) Assignment {
	return Assignment{as: make([]int, 0, size), bs: make([]uint8, 0, size)}
}

// Single returns the one-pair assignment a -> b.
func Single(a, b int) Assignment {
	return Assignment{as: []int{a}, bs: []uint8{uint8(b)}}
}

// Assign adds a -> b. Callers keep A ids distinct.
func (x *Assignment) Assign(a, b int) {
	x.as = append(x.as, a)
	x.bs = append(x.bs, uint8(b))
}

// Len returns the number of assigned positions.
func (x Assignment) Len() int { return len(x.as) }

// Agreement counts the assigned positions on which row agrees.
func (x Assignment) Agreement(row []uint8) int {
	count := 0
	for i, a := range x.as {
		if row[a] == x.bs[i] {
			count++
		}
	}
	return count
}

func (x Assignment) String() string {
	s := "{"
	for i, a := range x.as {
		if i > 0 {
			s += " "
		}
		s += fmt.Sprintf("%d:%d", a, x.bs[i])
	}
	return s + "}"
}
