package ecs

import (
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/milk9111/footsteps/ecs/component"
)

// System updates a world each fixed step.
type System interface {
	Update(w *World)
}

// DrawSystem is a System that also renders. Draw runs once per frame, which
// may be more or less often than Update.
type DrawSystem interface {
	Draw(w *World, screen *ebiten.Image)
}

// World owns entities, components, and system order.
type World struct {
	entities entityStore
	stores   map[component.ComponentID]*sparseSet
	systems  []System
	events   EventQueue
}

// NewWorld creates an empty ECS world.
func NewWorld() *World {
	return &World{stores: make(map[component.ComponentID]*sparseSet)}
}

// CreateEntity allocates a new entity.
func (w *World) CreateEntity() Entity {
	return w.entities.create()
}

// DestroyEntity removes an entity and all of its components. It reports
// whether the entity was alive.
func (w *World) DestroyEntity(e Entity) bool {
	if w == nil || !w.entities.destroy(e) {
		return false
	}
	for _, store := range w.stores {
		store.drop(e)
	}
	return true
}

// IsAlive reports whether an entity handle is valid.
func (w *World) IsAlive(e Entity) bool {
	if w == nil {
		return false
	}
	return w.entities.isAlive(e)
}

// AddSystem appends a system to the update order.
func (w *World) AddSystem(s System) {
	if s == nil {
		return
	}
	w.systems = append(w.systems, s)
}

// Update runs all systems once.
func (w *World) Update() {
	if w == nil {
		return
	}
	for _, s := range w.systems {
		if s != nil {
			s.Update(w)
		}
	}
	w.events.flush()
}

// Draw renders every DrawSystem in update order.
func (w *World) Draw(screen *ebiten.Image) {
	if w == nil || screen == nil {
		return
	}
	for _, s := range w.systems {
		if ds, ok := s.(DrawSystem); ok {
			ds.Draw(w, screen)
		}
	}
}

// Events returns the world event queue.
func (w *World) Events() *EventQueue {
	if w == nil {
		return nil
	}
	return &w.events
}

// Kind is satisfied by every component.ComponentKind regardless of its type
// parameter, which lets Query mix kinds.
type Kind interface {
	ID() component.ComponentID
}

// Query returns the entities that carry every listed kind.
func (w *World) Query(kinds ...Kind) []Entity {
	if w == nil || len(kinds) == 0 {
		return nil
	}
	sets := make([]*sparseSet, 0, len(kinds))
	for _, k := range kinds {
		s := w.stores[k.ID()]
		if s == nil || s.len() == 0 {
			return nil
		}
		sets = append(sets, s)
	}

	// iterate the smallest set
	smallest := sets[0]
	for _, s := range sets[1:] {
		if s.len() < smallest.len() {
			smallest = s
		}
	}

	out := make([]Entity, 0, smallest.len())
	for _, e := range smallest.dense {
		match := true
		for _, s := range sets {
			if s != smallest && !s.has(e) {
				match = false
				break
			}
		}
		if match {
			out = append(out, e)
		}
	}
	return out
}

func (w *World) store(id component.ComponentID, create bool) *sparseSet {
	if w.stores == nil {
		w.stores = make(map[component.ComponentID]*sparseSet)
	}
	s := w.stores[id]
	if s == nil && create {
		s = &sparseSet{}
		w.stores[id] = s
	}
	return s
}
