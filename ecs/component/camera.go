package component

// CameraRig places the player's viewpoint relative to its transform.
// HeadOffset is how far above the transform the camera sits; Height is how
// far below the camera the ground is assumed to be.
type CameraRig struct {
	HeadOffset float64
	Height     float64
}

var CameraRigComponent = NewComponent[CameraRig]()
