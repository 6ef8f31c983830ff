package ecs

import (
	"testing"

	"github.com/milk9111/footsteps/ecs/component"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWorldEntityLifecycle(t *testing.T) {
	cases := []struct {
		name         string
		create       int
		destroyIndex int // -1 = none
	}{
		{"single", 1, 0},
		{"three_create_destroy_middle", 3, 1},
		{"none_destroy", 2, -1},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			w := NewWorld()
			ents := make([]Entity, 0, c.create)
			for i := 0; i < c.create; i++ {
				ents = append(ents, CreateEntity(w))
			}
			require.Len(t, Entities(w), c.create)

			if c.destroyIndex >= 0 {
				require.True(t, DestroyEntity(w, ents[c.destroyIndex]))
				assert.False(t, IsAlive(w, ents[c.destroyIndex]))
				assert.False(t, DestroyEntity(w, ents[c.destroyIndex]))
				assert.Len(t, Entities(w), c.create-1)
			}
		})
	}
}

func TestWorldReusesSlotsWithNewGeneration(t *testing.T) {
	w := NewWorld()
	h := component.NewComponent[int]()

	old := CreateEntity(w)
	require.NoError(t, Add(w, old, h.Kind(), intPtr(1)))
	require.True(t, DestroyEntity(w, old))

	reused := CreateEntity(w)
	assert.Equal(t, old.id(), reused.id())
	assert.NotEqual(t, old, reused)
	assert.False(t, Has(w, reused, h.Kind()), "components must not survive slot reuse")

	_, ok := Get(w, old, h.Kind())
	assert.False(t, ok)
	assert.ErrorIs(t, Add(w, old, h.Kind(), intPtr(2)), component.ErrEntityNotAlive)
}

func TestWorldComponents(t *testing.T) {
	w := NewWorld()
	hInt := component.NewComponent[int]()
	hStr := component.NewComponent[string]()

	e1 := CreateEntity(w)
	e2 := CreateEntity(w)

	tests := []struct {
		name     string
		setup    func() error
		check    func(t *testing.T)
		teardown func() bool
	}{
		{
			name:  "add_int_to_e1",
			setup: func() error { return Add(w, e1, hInt.Kind(), intPtr(10)) },
			check: func(t *testing.T) {
				v, ok := Get(w, e1, hInt.Kind())
				require.True(t, ok)
				assert.Equal(t, 10, *v)
			},
			teardown: func() bool { return Remove(w, e1, hInt.Kind()) },
		},
		{
			name: "add_str_to_both",
			setup: func() error {
				if err := Add(w, e1, hStr.Kind(), stringPtr("a")); err != nil {
					return err
				}
				return Add(w, e2, hStr.Kind(), stringPtr("b"))
			},
			check: func(t *testing.T) {
				assert.True(t, Has(w, e1, hStr.Kind()))
				assert.True(t, Has(w, e2, hStr.Kind()))
			},
			teardown: func() bool { return Remove(w, e1, hStr.Kind()) },
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			require.NoError(t, tc.setup())
			tc.check(t)
			require.True(t, tc.teardown())
		})
	}

	assert.ErrorIs(t, Add[int](w, e1, hInt.Kind(), nil), component.ErrNilComponent)
	assert.ErrorIs(t, Add(w, e1, component.ComponentKind[int]{}, intPtr(1)), component.ErrInvalidComponentKind)
}

func TestForEachAndQuery(t *testing.T) {
	w := NewWorld()
	ka := component.NewComponentKind[int]()
	kb := component.NewComponentKind[string]()

	e1 := CreateEntity(w)
	e2 := CreateEntity(w)
	e3 := CreateEntity(w)

	require.NoError(t, Add(w, e1, ka, intPtr(1)))
	require.NoError(t, Add(w, e2, ka, intPtr(2)))
	require.NoError(t, Add(w, e2, kb, stringPtr("two")))
	require.NoError(t, Add(w, e3, kb, stringPtr("three")))

	var single []Entity
	ForEach(w, ka, func(e Entity, _ *int) { single = append(single, e) })
	assert.ElementsMatch(t, []Entity{e1, e2}, single)

	assert.Equal(t, []Entity{e2}, w.Query(ka, kb))

	var pairs []string
	ForEach2(w, ka, kb, func(_ Entity, n *int, s *string) {
		pairs = append(pairs, *s)
		assert.Equal(t, 2, *n)
	})
	assert.Equal(t, []string{"two"}, pairs)

	first, ok := First(w, kb)
	require.True(t, ok)
	assert.Equal(t, e2, first)
}

func TestForEachToleratesDestroy(t *testing.T) {
	w := NewWorld()
	k := component.NewComponentKind[int]()
	for i := 0; i < 4; i++ {
		require.NoError(t, Add(w, CreateEntity(w), k, intPtr(i)))
	}

	visited := 0
	ForEach(w, k, func(e Entity, _ *int) {
		visited++
		DestroyEntity(w, e)
	})
	assert.Equal(t, 4, visited)
	assert.Empty(t, Entities(w))
	_, ok := First(w, k)
	assert.False(t, ok)
}

type countingSystem struct {
	updates int
}

func (s *countingSystem) Update(w *World) {
	s.updates++
	w.Events().Push(Event{Type: "tick"})
}

func TestWorldUpdateFlushesEvents(t *testing.T) {
	w := NewWorld()
	sys := &countingSystem{}
	w.AddSystem(sys)
	w.AddSystem(nil)

	w.Update()
	w.Update()

	assert.Equal(t, 2, sys.updates)
	assert.Zero(t, w.Events().Len())

	w.Events().Push(Event{Type: "a"})
	w.Events().Push(Event{Type: "b"})
	assert.Len(t, w.Events().Peek("a"), 1)
	assert.Len(t, w.Events().Drain(), 2)
	assert.Nil(t, w.Events().Drain())
}

func intPtr(i int) *int {
	return &i
}

func stringPtr(s string) *string {
	return &s
}
