package domain

// Snapshot is one board configuration together with the 1-based column and
// row of the move that produced it. The initial snapshot has Col and Row 0.
type Snapshot struct {
	Board Board
	Col   int
	Row   int
}

// Game is an immutable tic-tac-toe session: the history of snapshots, the
// step currently shown and the move-list sort order. Every intent returns a
// new Game and leaves the receiver untouched.
type Game struct {
	history    []Snapshot
	step       int
	descending bool
}

// New returns a game with an empty board, X to move and ascending move order.
func New() Game {
	return Game{history: []Snapshot{{}}}
}

func (g Game) snapshots() []Snapshot {
	if len(g.history) == 0 {
		return []Snapshot{{}}
	}
	return g.history
}

// History returns a copy of all snapshots, index 0 being the empty board.
func (g Game) History() []Snapshot {
	return append([]Snapshot(nil), g.snapshots()...)
}

// Len is the number of snapshots in the history.
func (g Game) Len() int { return len(g.snapshots()) }

// Step is the index of the snapshot currently shown.
func (g Game) Step() int { return g.step }

// Current returns the snapshot at Step.
func (g Game) Current() Snapshot { return g.snapshots()[g.step] }

// NextPlayer is X on even steps and O on odd ones.
func (g Game) NextPlayer() Cell {
	if g.step%2 == 0 {
		return X
	}
	return O
}

// Outcome evaluates the board at Step.
func (g Game) Outcome() Outcome { return Evaluate(g.Current().Board) }

// SortAscending reports the move-list order.
func (g Game) SortAscending() bool { return !g.descending }

// PlaceMark puts the next player's mark at idx. Snapshots after Step are
// discarded first. The receiver is returned unchanged when idx is off the
// board, the cell is taken or the current board is already decided.
func (g Game) PlaceMark(idx int) Game {
	if idx < 0 || idx >= len(Board{}) {
		return g
	}
	cur := g.Current()
	if cur.Board[idx] != Empty || Evaluate(cur.Board).Over() {
		return g
	}

	next := cur.Board
	next[idx] = g.NextPlayer()

	// fresh backing array so older Game values keep their own history
	history := make([]Snapshot, g.step+1, g.step+2)
	copy(history, g.snapshots()[:g.step+1])
	history = append(history, Snapshot{Board: next, Col: idx%3 + 1, Row: idx/3 + 1})

	return Game{history: history, step: len(history) - 1, descending: g.descending}
}

// JumpTo moves to an existing step without touching the history.
// Steps outside the history are ignored.
func (g Game) JumpTo(step int) Game {
	if step < 0 || step >= g.Len() {
		return g
	}
	g.history = g.snapshots()
	g.step = step
	return g
}

// ToggleSort flips the move-list order.
func (g Game) ToggleSort() Game {
	g.descending = !g.descending
	return g
}
