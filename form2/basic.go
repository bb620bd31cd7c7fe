// Package form2 provides 2D shapes and track profiles. Constructors return an
// error instead of panicking on bad input; see package must2 for the panicking versions.
package form2

import (
	"fmt"
	"runtime/debug"

	"github.com/soypat/marble"
	"github.com/soypat/marble/form2/must2"
	"gonum.org/v1/gonum/spatial/r2"
)

type shapeErr struct {
	panicObj interface{}
	stack    string
}

func (s *shapeErr) Error() string {
	return fmt.Sprintf("%s", s.panicObj)
}

// Unwrap returns the panic value if it was an error.
func (s *shapeErr) Unwrap() error {
	err, _ := s.panicObj.(error)
	return err
}

// Stack returns the stack trace of the recovered panic.
func (s *shapeErr) Stack() string { return s.stack }

func recoverShape(err *error) {
	if a := recover(); a != nil {
		*err = &shapeErr{
			panicObj: a,
			stack:    string(debug.Stack()),
		}
	}
}

// Circle returns the SDF2 for a 2d circle.
func Circle(radius float64) (s marble.SDF2, err error) {
	defer recoverShape(&err)
	return must2.Circle(radius), err
}

// Box returns a 2d box centered at the origin.
func Box(size r2.Vec) (s marble.SDF2, err error) {
	defer recoverShape(&err)
	return must2.Box(size), err
}
