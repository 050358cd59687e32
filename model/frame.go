package model

import "time"

type Marker string

const (
	MarkerDiamond Marker = "d"
	MarkerStar    Marker = "*"
	MarkerCircle  Marker = "o"
	MarkerSquare  Marker = "s"
)

type Style struct {
	Color  string
	Marker Marker
}

var styles = map[Classification]Style{
	TypeIa:      {Color: "#ff000d", Marker: MarkerDiamond},
	TypeII:      {Color: "#fffd01", Marker: MarkerStar},
	TypeUnknown: {Color: "#0165fc", Marker: MarkerCircle},
	TypeOther:   {Color: "#01ff07", Marker: MarkerSquare},
}

func StyleFor(c Classification) Style {
	if s, ok := styles[c]; ok {
		return s
	}
	return styles[TypeOther]
}

// FadeRecord is derived once per event and read by every frame.
type FadeRecord struct {
	Frames int
	Size   float64
	Style  Style
}

type Sprite struct {
	Event  EventIndex `json:"event"`
	Lon    float64    `json:"lon"`
	Lat    float64    `json:"lat"`
	X      float64    `json:"x"`
	Y      float64    `json:"y"`
	Size   float64    `json:"size"`
	Color  string     `json:"color"`
	Marker Marker     `json:"marker"`
	Alpha  float64    `json:"alpha"`
}

type Frame struct {
	Index   int       `json:"index"`
	Bin     int       `json:"bin"`
	Center  time.Time `json:"center"`
	Label   string    `json:"label"`
	Count   int       `json:"count"`
	Sprites []Sprite  `json:"sprites"`
}
