package ecs

import "sort"

// Removable is implemented by all component stores so the Registry can
// bulk-remove an entity's data from every store on destroy.
type Removable interface {
	Remove(id EntityID)
}

// PtrComponentStore is a generic typed map store for ECS components.
// No reflect, no interface{}, pure generics.
type PtrComponentStore[T any] struct {
	data map[EntityID]*T
}

func NewPtrComponentStore[T any]() *PtrComponentStore[T] {
	return &PtrComponentStore[T]{
		data: make(map[EntityID]*T, 64),
	}
}

func (s *PtrComponentStore[T]) Set(id EntityID, c *T) {
	s.data[id] = c
}

func (s *PtrComponentStore[T]) Get(id EntityID) (*T, bool) {
	c, ok := s.data[id]
	return c, ok
}

func (s *PtrComponentStore[T]) Remove(id EntityID) {
	delete(s.data, id)
}

func (s *PtrComponentStore[T]) Has(id EntityID) bool {
	_, ok := s.data[id]
	return ok
}

func (s *PtrComponentStore[T]) Len() int {
	return len(s.data)
}

// Each visits components in ascending entity order so that a tick is
// reproducible regardless of map layout.
func (s *PtrComponentStore[T]) Each(fn func(EntityID, *T)) {
	for _, id := range s.IDs() {
		fn(id, s.data[id])
	}
}

// IDs returns the entity IDs holding a component, ascending.
func (s *PtrComponentStore[T]) IDs() []EntityID {
	ids := make([]EntityID, 0, len(s.data))
	for id := range s.data {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}

// MultiComponentStore holds zero or more components of one type per entity,
// in insertion order.
type MultiComponentStore[T any] struct {
	data map[EntityID][]*T
}

func NewMultiComponentStore[T any]() *MultiComponentStore[T] {
	return &MultiComponentStore[T]{
		data: make(map[EntityID][]*T, 64),
	}
}

func (s *MultiComponentStore[T]) Add(id EntityID, c *T) {
	s.data[id] = append(s.data[id], c)
}

func (s *MultiComponentStore[T]) Get(id EntityID) []*T {
	return s.data[id]
}

func (s *MultiComponentStore[T]) Remove(id EntityID) {
	delete(s.data, id)
}

func (s *MultiComponentStore[T]) Len() int {
	return len(s.data)
}
