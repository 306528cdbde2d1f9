package ecs

// EntityID identifies an entity. IDs are handed out by a monotonic counter and
// are never reused, even after the entity is destroyed. Zero is never issued
// and means "no entity".
type EntityID uint32

func (id EntityID) IsZero() bool { return id == 0 }

// PropertyID identifies a component, action, buff or debuff instance.
// Allocated the same way as EntityID from an independent counter.
type PropertyID uint32

// EntityPool allocates entity IDs and tracks which ones are still alive.
type EntityPool struct {
	nextIndex EntityID
	destroyed map[EntityID]struct{}
}

func NewEntityPool() *EntityPool {
	return &EntityPool{
		nextIndex: 1,
		destroyed: make(map[EntityID]struct{}, 64),
	}
}

func (p *EntityPool) Create() EntityID {
	id := p.nextIndex
	p.nextIndex++
	return id
}

func (p *EntityPool) Alive(id EntityID) bool {
	if id.IsZero() || id >= p.nextIndex {
		return false
	}
	_, gone := p.destroyed[id]
	return !gone
}

// Destroy retires an ID. The counter is not rewound.
func (p *EntityPool) Destroy(id EntityID) {
	if !p.Alive(id) {
		return // already destroyed or never issued
	}
	p.destroyed[id] = struct{}{}
}

// Issued returns how many IDs have been handed out so far.
func (p *EntityPool) Issued() int {
	return int(p.nextIndex - 1)
}

// PropertyCounter hands out PropertyIDs starting at 1.
type PropertyCounter struct {
	next PropertyID
}

func (c *PropertyCounter) Next() PropertyID {
	c.next++
	return c.next
}
