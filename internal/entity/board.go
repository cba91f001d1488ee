package entity

import (
	"fmt"
	"math/rand"

	"github.com/rocketscienceinc/battleship-backend/internal/apperror"
)

const (
	BoardSize = 10

	EmptyCell = 0
	// MissCell marks a missed shot on the defender's own board. Ship ids never reach it.
	MissCell = -10

	// MaxFleetCells keeps random placement cheap: at most half of the board is occupied.
	MaxFleetCells = BoardSize * BoardSize / 2
)

// DefaultFleet - one carrier, one battleship, two cruisers and a destroyer.
var DefaultFleet = []int{5, 4, 3, 3, 2}

// Rand is the randomness source used for ship placement. *rand.Rand satisfies it.
type Rand interface {
	Intn(n int) int
}

type globalRand struct{}

func (globalRand) Intn(n int) int {
	return rand.Intn(n) //nolint: gosec // placement does not need crypto randomness
}

// GlobalRand - goroutine-safe Rand backed by the math/rand package source.
var GlobalRand Rand = globalRand{}

type Cell struct {
	Row int `json:"row"`
	Col int `json:"col"`
}

type Ship struct {
	ID     int    `json:"id"`
	Cells  []Cell `json:"cells"`
	Length int    `json:"length"`
	Hits   int    `json:"hits"`
}

func (that *Ship) IsSunk() bool {
	return that.Hits == that.Length
}

type Board struct {
	Grid  [BoardSize][BoardSize]int
	Ships []*Ship
}

func NewBoard() *Board {
	return &Board{}
}

// InBounds - reports whether row and col address a cell of the board.
func InBounds(row, col int) bool {
	return row >= 0 && row < BoardSize && col >= 0 && col < BoardSize
}

// ValidateFleet - checks that every ship fits the board and the fleet leaves enough water.
func ValidateFleet(fleet []int) error {
	if len(fleet) == 0 {
		return fmt.Errorf("%w: fleet is empty", apperror.ErrInvalidFleet)
	}

	total := 0
	for i, length := range fleet {
		if length < 1 || length > BoardSize {
			return fmt.Errorf("%w: ship %d has length %d", apperror.ErrInvalidFleet, i+1, length)
		}
		total += length
	}

	if total > MaxFleetCells {
		return fmt.Errorf("%w: %d cells exceed the limit of %d", apperror.ErrInvalidFleet, total, MaxFleetCells)
	}

	return nil
}

// Place - randomly places the fleet, ship ids follow fleet order starting at 1.
// Every ship is retried until its run of cells is in bounds and all water.
func (that *Board) Place(rnd Rand, fleet []int) error {
	if err := ValidateFleet(fleet); err != nil {
		return err
	}

	for _, length := range fleet {
		id := len(that.Ships) + 1

		for {
			horizontal := rnd.Intn(2) == 0
			anchor := Cell{Row: rnd.Intn(BoardSize), Col: rnd.Intn(BoardSize)}

			if that.canPlace(anchor, horizontal, length) {
				that.paint(id, anchor, horizontal, length)
				break
			}
		}
	}

	return nil
}

// PlaceShip - places the next ship at a fixed position. The id must be the next free ship id.
func (that *Board) PlaceShip(id int, anchor Cell, horizontal bool, length int) error {
	if id != len(that.Ships)+1 {
		return fmt.Errorf("%w: expected ship id %d, got %d", apperror.ErrInvalidFleet, len(that.Ships)+1, id)
	}

	if length < 1 || length > BoardSize {
		return fmt.Errorf("%w: ship %d has length %d", apperror.ErrInvalidFleet, id, length)
	}

	if !that.canPlace(anchor, horizontal, length) {
		return fmt.Errorf("%w: ship %d at %d,%d", apperror.ErrCellOccupied, id, anchor.Row, anchor.Col)
	}

	that.paint(id, anchor, horizontal, length)

	return nil
}

func (that *Board) canPlace(anchor Cell, horizontal bool, length int) bool {
	for _, cell := range run(anchor, horizontal, length) {
		if !InBounds(cell.Row, cell.Col) {
			return false
		}

		if that.Grid[cell.Row][cell.Col] != EmptyCell {
			return false
		}
	}

	return true
}

func (that *Board) paint(id int, anchor Cell, horizontal bool, length int) {
	cells := run(anchor, horizontal, length)
	for _, cell := range cells {
		that.Grid[cell.Row][cell.Col] = id
	}

	that.Ships = append(that.Ships, &Ship{ID: id, Cells: cells, Length: length})
}

func run(anchor Cell, horizontal bool, length int) []Cell {
	cells := make([]Cell, 0, length)
	for i := 0; i < length; i++ {
		if horizontal {
			cells = append(cells, Cell{Row: anchor.Row, Col: anchor.Col + i})
		} else {
			cells = append(cells, Cell{Row: anchor.Row + i, Col: anchor.Col})
		}
	}

	return cells
}

// ShotAt - returns the raw cell value without changing the board.
func (that *Board) ShotAt(row, col int) int {
	return that.Grid[row][col]
}

// Ship - returns the ship with the given id or nil.
func (that *Board) Ship(id int) *Ship {
	if id < 1 || id > len(that.Ships) {
		return nil
	}

	return that.Ships[id-1]
}

// AllSunk - true when every ship on the board has been hit in all of its cells.
func (that *Board) AllSunk() bool {
	for _, ship := range that.Ships {
		if !ship.IsSunk() {
			return false
		}
	}

	return true
}

// Snapshot - copy of the grid in the wire encoding.
func (that *Board) Snapshot() [BoardSize][BoardSize]int {
	return that.Grid
}

// receiveShot applies a shot at an in-bounds cell and reports the ship it hit, if any.
func (that *Board) receiveShot(row, col int) *Ship {
	value := that.Grid[row][col]
	if value <= EmptyCell {
		if value == EmptyCell {
			that.Grid[row][col] = MissCell
		}
		return nil
	}

	ship := that.Ship(value)
	that.Grid[row][col] = -value
	ship.Hits++

	return ship
}
