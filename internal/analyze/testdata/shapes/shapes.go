package shapes

import (
	"net/url"
	"time"
)

// Point is a named record.
//
//derive:Default,Add
type Point struct {
	X int //derive:default(value=1)
	// Y has a constant.
	//derive:default(value=2, constant)
	Y    float64
	A, B int8 //derive:default(value=3)
	When time.Duration
	Link *url.URL
}

//derive:Default
//derive:positional
type Pair struct {
	First  int
	Second string //derive:default(value="two")
}

// Shape is a sealed union.
//
//derive:Default,Sub
type Shape interface {
	isShape()
}

type ShapeCircle struct {
	Radius float64
}

//derive:positional
type ShapeRect struct {
	W, H int
}

//derive:default
type ShapeEmpty struct{}

func (ShapeCircle) isShape() {}
func (ShapeRect) isShape()   {}
func (ShapeEmpty) isShape()  {}

type notShape struct{}

//derive:Default,BitOr
type Color uint8

const (
	ColorRed   Color = iota
	ColorGreen       //derive:default(constant)
	ColorBlue
)

const unrelated = 4

type Celsius float64

//derive:Add
type Reading struct {
	Temp Celsius
}

//derive:Default
type Box[T any] struct {
	V T
	N []T
}

//derive:Default
type Option[T any] interface {
	isOption()
}

//derive:default
type OptionNone[T any] struct{}

type OptionSome[T any] struct {
	V T
}

func (OptionNone[T]) isOption() {}
func (OptionSome[T]) isOption() {}

//derive:Default
type Handler func()
