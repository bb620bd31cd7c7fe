package form2

import (
	"github.com/soypat/marble/form2/must2"
	"gonum.org/v1/gonum/spatial/r2"
)

type (
	Profile       = must2.Profile
	ProfileKind   = must2.ProfileKind
	ProfileParams = must2.ProfileParams
)

const (
	LShape                       = must2.LShape
	LShapeAdjustedHeight         = must2.LShapeAdjustedHeight
	LShapeMirrored               = must2.LShapeMirrored
	LShapeMirroredAdjustedHeight = must2.LShapeMirroredAdjustedHeight
	UShape                       = must2.UShape
	UShapeAdjustedHeight         = must2.UShapeAdjustedHeight
	VShape                       = must2.VShape
	OShape                       = must2.OShape
	SquareClosed                 = must2.SquareClosed
	SquareWithHole               = must2.SquareWithHole
)

var (
	ErrOpenProfile      = must2.ErrOpenProfile
	ErrSelfIntersecting = must2.ErrSelfIntersecting
	ErrBadDimension     = must2.ErrBadDimension
)

// ProfileKinds lists every profile of the catalogue.
func ProfileKinds() []ProfileKind { return must2.ProfileKinds() }

// DefaultProfileParams returns the dimensions of a 10mm node track:
// 10mm outer size (minus a hair so neighbouring pieces don't fuse),
// 1.2mm walls and walls lowered by 3.5mm on adjusted height profiles.
func DefaultProfileParams() ProfileParams {
	return ProfileParams{
		HeightWidth:   10 - 0.0001,
		Wall:          1.2,
		LowerDistance: 3.5,
		Factor:        1,
	}
}

// NewProfile builds the catalogue profile kind.
func NewProfile(kind ProfileKind, params ProfileParams) (p Profile, err error) {
	defer recoverShape(&err)
	return must2.NewProfile(kind, params), err
}

// PolygonProfile returns a profile from a closed outline, the last point
// equal to the first. Open or self-intersecting outlines are an error.
func PolygonProfile(outline []r2.Vec) (p Profile, err error) {
	defer recoverShape(&err)
	return must2.PolygonProfile(outline), err
}

// CheckOutline returns ErrOpenProfile if outline is not a closed loop
// and ErrSelfIntersecting if two of its edges cross.
func CheckOutline(outline []r2.Vec) error { return must2.CheckOutline(outline) }
