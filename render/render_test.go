package render_test

import (
	"bytes"
	"errors"
	"io"
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/soypat/marble"
	"github.com/soypat/marble/render"
	"gonum.org/v1/gonum/spatial/r3"
)

type sphere struct {
	c r3.Vec
	r float64
}

func (s sphere) Evaluate(p r3.Vec) float64 { return r3.Norm(r3.Sub(p, s.c)) - s.r }

func (s sphere) Bounds() r3.Box {
	d := r3.Vec{X: s.r, Y: s.r, Z: s.r}
	return r3.Box{Min: r3.Sub(s.c, d), Max: r3.Add(s.c, d)}
}

func TestOctreeSphere(t *testing.T) {
	const quality = 20
	s := sphere{r: 1}
	r, err := render.NewOctreeRenderer(s, quality)
	if err != nil {
		t.Fatal(err)
	}
	model, err := render.RenderAll(r)
	if err != nil {
		t.Fatal(err)
	}
	if len(model) < 100 {
		t.Fatalf("expected a dense sphere mesh, got %d triangles", len(model))
	}
	cell := 2.02 / quality
	for i, tri := range model {
		for _, v := range tri {
			if d := math.Abs(s.Evaluate(v)); d > cell {
				t.Fatalf("triangle %d vertex %v is %g off surface", i, v, d)
			}
		}
	}
	want := 4. / 3. * math.Pi
	if v := render.MeshVolume(model); math.Abs(v-want) > 0.05*want {
		t.Errorf("sphere volume %g, want %g (outward facing triangles)", v, want)
	}
	if n := render.Components(model, 1e-9); n != 1 {
		t.Errorf("want single connected sphere, got %d components", n)
	}
}

func TestSmallReadBuffer(t *testing.T) {
	s := sphere{r: 1}
	want := renderAll(t, s, 10)
	r, _ := render.NewOctreeRenderer(s, 10)
	var got []render.Triangle3
	buf := make([]render.Triangle3, 5)
	for {
		n, err := r.ReadTriangles(buf)
		got = append(got, buf[:n]...)
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			t.Fatal(err)
		}
	}
	if len(got) != len(want) {
		t.Fatalf("small buffer read %d triangles, want %d", len(got), len(want))
	}
}

func TestTwoBodies(t *testing.T) {
	u := marble.Union3D(sphere{r: 1}, sphere{c: r3.Vec{X: 4}, r: 1})
	model := renderAll(t, u, 30)
	if n := render.Components(model, 1e-9); n != 2 {
		t.Errorf("want 2 components, got %d", n)
	}
}

func TestRendererErrors(t *testing.T) {
	if _, err := render.NewOctreeRenderer(sphere{r: 1}, 1); err == nil {
		t.Error("expected error for meshCells < 2")
	}
	if _, err := render.NewOctreeRenderer(sphere{r: math.NaN()}, 10); err == nil {
		t.Error("expected error for NaN bounds")
	}
	if _, err := render.NewSDFXRenderer(sphere{r: 1}, 0); err == nil {
		t.Error("expected error for meshCells < 2")
	}
}

func TestSTLCreateWriteRead(t *testing.T) {
	const quality = 20
	s := sphere{c: r3.Vec{X: 1, Y: 2, Z: 3}, r: 1.5}
	path := filepath.Join(t.TempDir(), "sphere.stl")
	r, _ := render.NewOctreeRenderer(s, quality)
	if err := render.CreateSTL(path, r); err != nil {
		t.Fatal(err)
	}
	bfile, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	model := renderAll(t, s, quality)
	var b bytes.Buffer
	if err := render.WriteSTL(&b, model); err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(b.Bytes(), bfile) {
		t.Fatal("WriteSTL and CreateSTL output mismatch")
	}
	if len(bfile) != 84+50*len(model) {
		t.Fatalf("unexpected STL size %d for %d triangles", len(bfile), len(model))
	}
	got, err := render.ReadSTL(bytes.NewReader(bfile))
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != len(model) {
		t.Fatalf("read %d triangles, wrote %d", len(got), len(model))
	}
	for i := range got {
		for j := range got[i] {
			if r3.Norm(r3.Sub(got[i][j], model[i][j])) > 1e-5 {
				t.Fatalf("triangle %d vertex %d: got %v want %v", i, j, got[i][j], model[i][j])
			}
		}
	}
}

func TestSTLErrors(t *testing.T) {
	if err := render.WriteSTL(io.Discard, nil); err == nil {
		t.Error("expected error writing empty model")
	}
	if _, err := render.ReadSTL(bytes.NewReader(make([]byte, 10))); err == nil {
		t.Error("expected error reading truncated header")
	}
	if _, err := render.ReadSTL(bytes.NewReader(make([]byte, 84))); err == nil {
		t.Error("expected error reading zero triangle STL")
	}
	empty := render.NewSliceRenderer(nil)
	if err := render.CreateSTL(filepath.Join(t.TempDir(), "empty.stl"), empty); err == nil {
		t.Error("expected error creating empty STL")
	}
}

func Test3MF(t *testing.T) {
	s := sphere{r: 1}
	path := filepath.Join(t.TempDir(), "sphere.3mf")
	r, _ := render.NewOctreeRenderer(s, 10)
	if err := render.Create3MF(path, r); err != nil {
		t.Fatal(err)
	}
	info, err := os.Stat(path)
	if err != nil {
		t.Fatal(err)
	}
	if info.Size() == 0 {
		t.Fatal("empty 3MF file")
	}
	var b bytes.Buffer
	if err := render.Write3MF(&b, renderAll(t, s, 10)); err != nil {
		t.Fatal(err)
	}
	// 3MF is a zip package.
	if !bytes.HasPrefix(b.Bytes(), []byte("PK")) {
		t.Error("Write3MF output is not a zip archive")
	}
}

func TestSDFXMatchesOctree(t *testing.T) {
	s := sphere{r: 2}
	r, err := render.NewSDFXRenderer(s, 30)
	if err != nil {
		t.Fatal(err)
	}
	ref, err := render.RenderAll(r)
	if err != nil {
		t.Fatal(err)
	}
	got := renderAll(t, s, 30)
	if len(ref) == 0 || len(got) == 0 {
		t.Fatal("no triangles rendered")
	}
	refBB, gotBB := render.MeshBounds(ref), render.MeshBounds(got)
	const tol = 0.2
	if r3.Norm(r3.Sub(refBB.Min, gotBB.Min)) > tol || r3.Norm(r3.Sub(refBB.Max, gotBB.Max)) > tol {
		t.Errorf("mesh bounds differ: sdfx %v octree %v", refBB, gotBB)
	}
}

func renderAll(t testing.TB, s marble.SDF3, cells int) []render.Triangle3 {
	t.Helper()
	r, err := render.NewOctreeRenderer(s, cells)
	if err != nil {
		t.Fatal(err)
	}
	model, err := render.RenderAll(r)
	if err != nil {
		t.Fatal(err)
	}
	return model
}
