package present

import (
	"sort"

	"github.com/periodicity/sim/internal/core/ecs"
)

// LinkTable maps a presentation entity to the game entity it shows. It keeps
// a reverse index so destroying either side drops the link.
type LinkTable struct {
	toGame map[ecs.EntityID]ecs.EntityID
	toPres map[ecs.EntityID]map[ecs.EntityID]struct{}
}

func NewLinkTable() *LinkTable {
	return &LinkTable{
		toGame: make(map[ecs.EntityID]ecs.EntityID, 16),
		toPres: make(map[ecs.EntityID]map[ecs.EntityID]struct{}, 16),
	}
}

// Link points pres at game, replacing any previous link of pres.
func (t *LinkTable) Link(pres, game ecs.EntityID) {
	t.Unlink(pres)
	t.toGame[pres] = game
	set, ok := t.toPres[game]
	if !ok {
		set = make(map[ecs.EntityID]struct{}, 4)
		t.toPres[game] = set
	}
	set[pres] = struct{}{}
}

func (t *LinkTable) Unlink(pres ecs.EntityID) {
	game, ok := t.toGame[pres]
	if !ok {
		return
	}
	delete(t.toGame, pres)
	if set := t.toPres[game]; set != nil {
		delete(set, pres)
		if len(set) == 0 {
			delete(t.toPres, game)
		}
	}
}

// Game returns the game entity pres visualizes.
func (t *LinkTable) Game(pres ecs.EntityID) (ecs.EntityID, bool) {
	g, ok := t.toGame[pres]
	return g, ok
}

// Presentations returns every presentation entity linked to game, ascending.
func (t *LinkTable) Presentations(game ecs.EntityID) []ecs.EntityID {
	set := t.toPres[game]
	out := make([]ecs.EntityID, 0, len(set))
	for id := range set {
		out = append(out, id)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

func (t *LinkTable) Len() int { return len(t.toGame) }

// Remove implements ecs.Removable. id may be either side of a link.
func (t *LinkTable) Remove(id ecs.EntityID) {
	t.Unlink(id)
	for pres := range t.toPres[id] {
		delete(t.toGame, pres)
	}
	delete(t.toPres, id)
}
