package domain

// Input is the snapshot of player input for a single frame.
//
// Up, Down and ConfirmJustPressed are edge signals: true only on the frame the button went down.
// ConfirmHeld is the level signal: true on every frame the button stays down.
type Input struct {
	Up                 bool `json:"up,omitempty"`
	Down               bool `json:"down,omitempty"`
	ConfirmJustPressed bool `json:"confirm_just_pressed,omitempty"`
	ConfirmHeld        bool `json:"confirm_held,omitempty"`
}

// Confirming reports whether the confirm button is down in any form this frame.
func (i Input) Confirming() bool {
	return i.ConfirmJustPressed || i.ConfirmHeld
}
