// Package matter compensates dimensions for the shrinkage of 3D printing materials.
package matter

import (
	"fmt"
	"strings"

	"github.com/soypat/marble"
)

var (
	// PLA (polylactic acid) is the most widely used plastic filament material in 3D printing.
	PLA = ViscousMaterial{name: "pla", shrink: 0.2e-2, pullShrink: .45} // 0.2% shrinkage
	// PETG shrinks more than PLA and strings into holes.
	PETG = ViscousMaterial{name: "petg", shrink: 0.4e-2, pullShrink: .5}
)

// ViscousMaterial is a filament that shrinks as it cools.
type ViscousMaterial struct {
	name string
	// shrink is the thermal contraction shrinkage of a material once the material
	// cools to room temperature after the heated bed is turned off.
	shrink float64
	// pullShrink takes into account viscoelastic shrinkage.
	pullShrink float64
}

// Lookup returns the material with the given name. The empty name is not a material.
func Lookup(name string) (ViscousMaterial, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case PLA.name:
		return PLA, nil
	case PETG.name:
		return PETG, nil
	}
	return ViscousMaterial{}, fmt.Errorf("unknown material %q", name)
}

func (m ViscousMaterial) String() string { return m.name }

// Scale enlarges s so that it has the designed size once the print has cooled.
func (m ViscousMaterial) Scale(s marble.SDF3) marble.SDF3 {
	return marble.ScaleUniform3D(s, 1/(1-m.shrink))
}

// InternalDimScale returns the dimension to model so that a hole or channel
// of size real remains after shrinkage.
func (m ViscousMaterial) InternalDimScale(real float64) float64 {
	if real <= 0 {
		panic("InternalDimScale only works for non-zero dimensions")
	}
	return real*(m.shrink+1) + m.pullShrink
}
