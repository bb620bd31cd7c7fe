package render

import (
	"io"

	"github.com/hpinc/go3mf"
)

// Create3MF writes the triangles of a Renderer to a 3MF file at path.
func Create3MF(path string, r Renderer) error {
	model, err := RenderAll(r)
	if err != nil {
		return err
	}
	if len(model) == 0 {
		return errEmptyModel
	}
	w, err := go3mf.CreateWriter(path)
	if err != nil {
		return err
	}
	if err := w.Encode(new3MFModel(model)); err != nil {
		w.Close()
		return err
	}
	return w.Close()
}

// Write3MF encodes the model as a 3MF package into w.
func Write3MF(w io.Writer, model []Triangle3) error {
	if len(model) == 0 {
		return errEmptyModel
	}
	return go3mf.NewEncoder(w).Encode(new3MFModel(model))
}

// new3MFModel builds a single object 3MF model in millimeters. Vertices
// shared between triangles are stored once.
func new3MFModel(model []Triangle3) *go3mf.Model {
	mesh := new(go3mf.Mesh)
	index := make(map[[3]float32]uint32, len(model)/2)
	vertex := func(v [3]float32) uint32 {
		if i, ok := index[v]; ok {
			return i
		}
		i := uint32(len(mesh.Vertices.Vertex))
		mesh.Vertices.Vertex = append(mesh.Vertices.Vertex, go3mf.Point3D(v))
		index[v] = i
		return i
	}
	for _, t := range model {
		v1 := vertex(to3F32(t[0]))
		v2 := vertex(to3F32(t[1]))
		v3 := vertex(to3F32(t[2]))
		if v1 == v2 || v2 == v3 || v3 == v1 {
			// Collapsed by float32 rounding.
			continue
		}
		mesh.Triangles.Triangle = append(mesh.Triangles.Triangle, go3mf.Triangle{V1: v1, V2: v2, V3: v3})
	}
	m := &go3mf.Model{Units: go3mf.UnitMillimeter}
	m.Resources.Objects = append(m.Resources.Objects, &go3mf.Object{ID: 1, Name: "marble", Mesh: mesh})
	m.Build.Items = append(m.Build.Items, &go3mf.Item{ObjectID: 1})
	return m
}
