package component

import "github.com/hajimehoshi/ebiten/v2/audio"

// SFXRequest asks the audio system to play one clip. Requests live on their
// own entities and are destroyed once consumed.
type SFXRequest struct {
	Clip   string
	X, Y   float64
	Pitch  float64
	Volume float64
}

var SFXRequestComponent = NewComponent[SFXRequest]()

// SFXBank keeps the voices that are still playing on a dedicated entity.
type SFXBank struct {
	Active    []*audio.Player
	MaxVoices int
	Muted     bool
}

var SFXBankComponent = NewComponent[SFXBank]()
