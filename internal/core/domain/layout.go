package domain

// PageSize represents page dimensions
type PageSize struct {
	Width  float64 `json:"width"`  // in mm
	Height float64 `json:"height"` // in mm
	Name   string  `json:"name"`
}

// Predefined page sizes
var (
	A4     = PageSize{Width: 210, Height: 297, Name: "A4"}
	Letter = PageSize{Width: 216, Height: 279, Name: "Letter"}
	Legal  = PageSize{Width: 216, Height: 356, Name: "Legal"}
	A3     = PageSize{Width: 297, Height: 420, Name: "A3"}
	A5     = PageSize{Width: 148, Height: 210, Name: "A5"}
)

// Margins represents page margins
type Margins struct {
	Top    float64 `json:"top"`    // in mm
	Right  float64 `json:"right"`  // in mm
	Bottom float64 `json:"bottom"` // in mm
	Left   float64 `json:"left"`   // in mm
}

// Orientation represents page orientation
type Orientation string

const (
	OrientationPortrait  Orientation = "portrait"
	OrientationLandscape Orientation = "landscape"
)

// Box represents a layout box with position and dimensions
type Box struct {
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// BorderStyle represents border styling
type BorderStyle struct {
	Width float64    `json:"width"`
	Style BorderType `json:"style"`
	Color Color      `json:"color"`
}

// BorderType represents border line style
type BorderType string

const (
	BorderSolid  BorderType = "solid"
	BorderDashed BorderType = "dashed"
	BorderDotted BorderType = "dotted"
	BorderDouble BorderType = "double"
	BorderNone   BorderType = "none"
)

// Background represents background styling
type Background struct {
	Color  Color  `json:"color"`
	Image  string `json:"image"`
	Repeat string `json:"repeat"`
	Size   string `json:"size"`
}

// Color represents a color value
type Color struct {
	R uint8 `json:"r"`
	G uint8 `json:"g"`
	B uint8 `json:"b"`
	A uint8 `json:"a"`
}
