// Package view renders previews of track pieces: shaded images of meshes
// and charts of paths and profiles. Previews are write only.
package view

import (
	"errors"
	"image"

	"github.com/fogleman/fauxgl"
	"github.com/nfnt/resize"
	"github.com/soypat/marble/render"
	"gonum.org/v1/gonum/spatial/r3"
)

// Camera configures a mesh preview. The mesh is fit into a bi-unit cube
// centered at the origin before rendering.
type Camera struct {
	// where the camera/eye is located at (point)
	Eye r3.Vec
	// what position (point) to look at
	LookAt r3.Vec
	// which way is up (direction)
	Up        r3.Vec
	Near, Far float64
	// vertical field of view in degrees
	FovY          float64
	Width, Height int
	// supersampling factor for antialiasing.
	Scale int
	// hex colors
	Color, Background string
}

// DefaultCamera looks at the model from the (3,3,3) corner with Z up.
func DefaultCamera() Camera {
	return Camera{
		Eye:        r3.Vec{X: 3, Y: 3, Z: 3},
		Up:         r3.Vec{Z: 1},
		Near:       1,
		Far:        10,
		FovY:       30,
		Width:      1024,
		Height:     768,
		Scale:      2,
		Color:      "#468966",
		Background: "#FFF8E3",
	}
}

var errEmptyModel = errors.New("no triangles to render")

// Image returns a Phong shaded render of model.
func Image(model []render.Triangle3, cam Camera) (image.Image, error) {
	if len(model) == 0 {
		return nil, errEmptyModel
	}
	if cam.Width <= 0 || cam.Height <= 0 {
		return nil, errors.New("image dimensions must be positive")
	}
	if cam.Scale < 1 {
		cam.Scale = 1
	}
	tris := make([]*fauxgl.Triangle, 0, len(model))
	for _, t := range model {
		tris = append(tris, fauxgl.NewTriangleForPoints(vec(t[0]), vec(t[1]), vec(t[2])))
	}
	mesh := fauxgl.NewTriangleMesh(tris)
	var (
		eye    = vec(cam.Eye)
		center = vec(cam.LookAt)
		up     = vec(cam.Up)
		light  = fauxgl.V(-0.75, 1, 0.25).Normalize() // light direction
	)
	// fit mesh in a bi-unit cube centered at the origin
	mesh.BiUnitCube()
	context := fauxgl.NewContext(cam.Width*cam.Scale, cam.Height*cam.Scale)
	context.ClearColorBufferWith(fauxgl.HexColor(cam.Background))
	aspect := float64(cam.Width) / float64(cam.Height)
	matrix := fauxgl.LookAt(eye, center, up).Perspective(cam.FovY, aspect, cam.Near, cam.Far)
	shader := fauxgl.NewPhongShader(matrix, light, eye)
	shader.ObjectColor = fauxgl.HexColor(cam.Color)
	context.Shader = shader
	context.DrawMesh(mesh)
	// downsample image for antialiasing
	img := context.Image()
	return resize.Resize(uint(cam.Width), uint(cam.Height), img, resize.Bilinear), nil
}

// SavePNG renders model to a PNG file at path.
func SavePNG(path string, model []render.Triangle3, cam Camera) error {
	img, err := Image(model, cam)
	if err != nil {
		return err
	}
	return fauxgl.SavePNG(path, img)
}

func vec(v r3.Vec) fauxgl.Vector { return fauxgl.V(v.X, v.Y, v.Z) }
