package domain

import "fmt"

// StartLabel names the move-list entry for the empty board.
const StartLabel = "game start"

// MoveEntry is one line of the move list.
type MoveEntry struct {
	Step    int
	Label   string
	Current bool
}

// ViewModel is everything a renderer needs to draw a Game.
type ViewModel struct {
	Board         Board
	Highlight     [9]bool
	Outcome       Outcome
	Moves         []MoveEntry
	Status        string
	Step          int
	NextPlayer    Cell
	SortAscending bool
}

// View derives the view model for the current step.
func (g Game) View() ViewModel {
	out := g.Outcome()
	vm := ViewModel{
		Board:         g.Current().Board,
		Outcome:       out,
		Status:        Status(out, g.NextPlayer()),
		Step:          g.step,
		NextPlayer:    g.NextPlayer(),
		SortAscending: g.SortAscending(),
	}
	for i := range vm.Highlight {
		vm.Highlight[i] = out.Highlighted(i)
	}

	history := g.snapshots()
	vm.Moves = make([]MoveEntry, len(history))
	for i, snap := range history {
		pos := i
		if g.descending {
			pos = len(history) - 1 - i
		}
		vm.Moves[pos] = MoveEntry{Step: i, Label: MoveLabel(i, snap), Current: i == g.step}
	}
	return vm
}

// MoveLabel is the move-list text for the snapshot at step.
func MoveLabel(step int, snap Snapshot) string {
	if step == 0 {
		return StartLabel
	}
	return fmt.Sprintf("Go to #%d(%d,%d)", step, snap.Col, snap.Row)
}

// Status is the one-line game status shown above the move list.
func Status(out Outcome, next Cell) string {
	switch out.Result {
	case Draw:
		return "Draw"
	case Win:
		return "Winner: " + out.Winner.String()
	default:
		return "Next player: " + next.String()
	}
}
