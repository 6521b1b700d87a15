package domain

// Cell represents a board cell state. X and O double as the two players.
type Cell uint8

const (
	Empty Cell = iota
	X
	O
)

func (c Cell) String() string {
	switch c {
	case X:
		return "X"
	case O:
		return "O"
	default:
		return ""
	}
}

// Board is a fixed 3x3 board stored row-major.
type Board [9]Cell

// Full reports whether no cell is Empty.
func (b Board) Full() bool {
	for _, c := range b {
		if c == Empty {
			return false
		}
	}
	return true
}

// Line is a set of three board indices forming a row, column or diagonal.
type Line [3]int

// Lines lists every winning line in evaluation order.
var Lines = [8]Line{
	// rows
	{0, 1, 2}, {3, 4, 5}, {6, 7, 8},
	// cols
	{0, 3, 6}, {1, 4, 7}, {2, 5, 8},
	// diags
	{0, 4, 8}, {2, 4, 6},
}

// Contains reports whether idx is one of the line's cells.
func (l Line) Contains(idx int) bool {
	return l[0] == idx || l[1] == idx || l[2] == idx
}

// Result classifies an Outcome.
type Result uint8

const (
	None Result = iota
	Win
	Draw
)

// Outcome is the derived result of a board. Winner and Line are only set
// when Result is Win.
type Outcome struct {
	Result Result
	Winner Cell
	Line   Line
}

// Over reports whether the game has ended in a win or a draw.
func (o Outcome) Over() bool { return o.Result != None }

// Highlighted reports whether idx belongs to the winning line.
func (o Outcome) Highlighted(idx int) bool {
	return o.Result == Win && o.Line.Contains(idx)
}

// Evaluate returns the outcome of b. The first complete line in Lines order
// wins; a full board without one is a draw.
func Evaluate(b Board) Outcome {
	for _, ln := range Lines {
		side := b[ln[0]]
		if side != Empty && b[ln[1]] == side && b[ln[2]] == side {
			return Outcome{Result: Win, Winner: side, Line: ln}
		}
	}
	if b.Full() {
		return Outcome{Result: Draw}
	}
	return Outcome{}
}
