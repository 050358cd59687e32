package model

// NoteEvent is one emitted tone. Onset and Duration are in beats (quarter notes).
type NoteEvent struct {
	Track    int     `json:"track"`
	Bin      int     `json:"bin"`
	Onset    float64 `json:"onset"`
	Pitch    uint8   `json:"pitch"`
	Velocity uint8   `json:"velocity"`
	Duration float64 `json:"duration"`
}
