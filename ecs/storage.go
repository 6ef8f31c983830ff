package ecs

import "strconv"

// Entity is a handle to a slot in the world: the slot id sits in the low 32
// bits and the slot generation in the high 32 bits, so a handle to a
// destroyed entity never matches the slot's next occupant. The zero Entity
// is never handed out.
type Entity uint64

type (
	entityID   uint32
	generation uint32
)

const idBits = 32

func makeEntity(id entityID, gen generation) Entity {
	return Entity(uint64(gen)<<idBits | uint64(id))
}

func (e Entity) id() entityID { return entityID(uint32(e)) }
func (e Entity) generation() generation { return generation(uint32(uint64(e) >> idBits)) }
func (e Entity) Valid() bool { return e.id() > 0 }

// String renders the handle as id/gen, e.g. "3v1".
func (e Entity) String() string {
	return strconv.FormatUint(uint64(e.id()), 10) + "v" + strconv.FormatUint(uint64(e.generation()), 10)
}

// entityStore hands out entity ids and bumps a slot's generation when it is
// freed so stale handles stop resolving.
type entityStore struct {
	gens  []generation
	alive []bool
	free  []entityID
	count int
}

func (s *entityStore) create() Entity {
	var id entityID
	if n := len(s.free); n > 0 {
		id = s.free[n-1]
		s.free = s.free[:n-1]
	} else {
		s.gens = append(s.gens, 0)
		s.alive = append(s.alive, false)
		id = entityID(len(s.gens))
	}
	s.alive[id-1] = true
	s.count++
	return makeEntity(id, s.gens[id-1])
}

func (s *entityStore) destroy(e Entity) bool {
	if !s.isAlive(e) {
		return false
	}
	idx := e.id() - 1
	s.alive[idx] = false
	s.gens[idx]++
	s.free = append(s.free, e.id())
	s.count--
	return true
}

func (s *entityStore) isAlive(e Entity) bool {
	id := e.id()
	if id == 0 || int(id) > len(s.gens) {
		return false
	}
	return s.alive[id-1] && s.gens[id-1] == e.generation()
}

func (s *entityStore) all() []Entity {
	out := make([]Entity, 0, s.count)
	for i, alive := range s.alive {
		if alive {
			out = append(out, makeEntity(entityID(i+1), s.gens[i]))
		}
	}
	return out
}
