package component

// Transform is an entity's position in screen-space pixels (Y grows down).
type Transform struct {
	X        float64
	Y        float64
	Rotation float64
}

var TransformComponent = NewComponent[Transform]()
