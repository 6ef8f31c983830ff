package entity

import (
	"fmt"

	"github.com/milk9111/footsteps/ecs"
	"github.com/milk9111/footsteps/ecs/component"
)

type componentBuildFn func(w *ecs.World, e ecs.Entity) error

// BuildEntity creates an entity and runs each builder against it. A failing
// builder destroys the half-built entity.
func BuildEntity(w *ecs.World, name string, builders ...componentBuildFn) (ecs.Entity, error) {
	if w == nil {
		return 0, fmt.Errorf("%s: nil world", name)
	}
	e := ecs.CreateEntity(w)
	for i, build := range builders {
		if build == nil {
			continue
		}
		if err := build(w, e); err != nil {
			ecs.DestroyEntity(w, e)
			return 0, fmt.Errorf("%s: component %d: %w", name, i, err)
		}
	}
	return e, nil
}

func SetEntityTransform(w *ecs.World, e ecs.Entity, x, y, rotation float64) error {
	t, ok := ecs.Get(w, e, component.TransformComponent.Kind())
	if !ok || t == nil {
		t = &component.Transform{}
	}
	t.X = x
	t.Y = y
	t.Rotation = rotation
	return ecs.Add(w, e, component.TransformComponent.Kind(), t)
}

func with[T any](kind component.ComponentKind[T], value *T) componentBuildFn {
	return func(w *ecs.World, e ecs.Entity) error {
		return ecs.Add(w, e, kind, value)
	}
}
