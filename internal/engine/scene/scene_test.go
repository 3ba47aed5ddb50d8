package scene

import (
	"errors"
	"strings"
	"testing"

	"github.com/Faultbox/seascape/internal/engine/camera"
	"github.com/Faultbox/seascape/internal/engine/gpu"
	"github.com/Faultbox/seascape/internal/engine/surface"
	"github.com/Faultbox/seascape/internal/params"
)

// fakeBackend accepts any source containing "void main" and records calls.
type fakeBackend struct {
	uploads  int
	draws    []DrawCall
	released int
	drawErr  error
}

func (b *fakeBackend) CompileProgram(vs, fs string) (uint32, error) {
	if !strings.Contains(vs, "void main") {
		return 0, &gpu.CompileError{Stage: gpu.StageVertex, Log: "no main"}
	}
	if !strings.Contains(fs, "void main") {
		return 0, &gpu.CompileError{Stage: gpu.StageFragment, Log: "no main"}
	}
	return 7, nil
}

func (b *fakeBackend) UploadMesh(grid *surface.Grid) (uint32, error) {
	b.uploads++
	return 3, nil
}

func (b *fakeBackend) Draw(call DrawCall) error {
	b.draws = append(b.draws, call)
	return b.drawErr
}

func (b *fakeBackend) Release(program, mesh uint32) {
	b.released++
}

func newOptions(t *testing.T, src Sources) Options {
	t.Helper()
	grid, err := surface.NewGrid(8, 4)
	if err != nil {
		t.Fatal(err)
	}
	return Options{
		Sources: src,
		Grid:    grid,
		Camera:  camera.New(75, 1, 0.1, 100),
	}
}

func TestNewCompilesEmbeddedShaders(t *testing.T) {
	b := &fakeBackend{}
	g, err := New(b, newOptions(t, DefaultSources()))
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	if b.uploads != 1 {
		t.Errorf("expected 1 mesh upload, got %d", b.uploads)
	}
	if g.Grid().VertexCount() != 25 {
		t.Errorf("expected 25 vertices, got %d", g.Grid().VertexCount())
	}
}

func TestNewRejectsInvalidShader(t *testing.T) {
	b := &fakeBackend{}
	src := DefaultSources()
	src.Fragment = "this is not glsl"

	g, err := New(b, newOptions(t, src))
	if err == nil {
		t.Fatal("expected compile failure")
	}
	if g != nil {
		t.Error("expected nil graph on failure")
	}
	var ce *gpu.CompileError
	if !errors.As(err, &ce) || ce.Stage != gpu.StageFragment {
		t.Errorf("expected fragment CompileError, got %v", err)
	}
	if b.uploads != 0 {
		t.Errorf("scene must not reach the surface after a compile failure, got %d uploads", b.uploads)
	}
	if len(b.draws) != 0 {
		t.Error("no draws expected")
	}
}

func TestNewRequiresGridAndCamera(t *testing.T) {
	if _, err := New(&fakeBackend{}, Options{Sources: DefaultSources()}); err == nil {
		t.Error("expected error without grid and camera")
	}
	if _, err := New(nil, newOptions(t, DefaultSources())); err == nil {
		t.Error("expected error without backend")
	}
}

func TestDrawPassesCameraAndUniforms(t *testing.T) {
	b := &fakeBackend{}
	opts := newOptions(t, DefaultSources())
	opts.Background = 11
	g, err := New(b, opts)
	if err != nil {
		t.Fatal(err)
	}

	camera.DefaultIdlePath().Apply(g.Camera, 2)
	v := params.Defaults()
	v.Time = 2

	if err := g.Draw(v); err != nil {
		t.Fatal(err)
	}
	if len(b.draws) != 1 {
		t.Fatalf("expected 1 draw, got %d", len(b.draws))
	}
	call := b.draws[0]
	if call.Program != 7 || call.Mesh != 3 || call.Background != 11 {
		t.Errorf("unexpected handles: %+v", call)
	}
	if call.IndexCount != int32(4*4*6) {
		t.Errorf("IndexCount = %d, want %d", call.IndexCount, 4*4*6)
	}
	if call.View != g.Camera.View() || call.Projection != g.Camera.Projection() {
		t.Error("draw call must carry the current camera matrices")
	}
	if call.Uniforms != v {
		t.Error("draw call must carry the parameter snapshot")
	}
}

func TestDrawPropagatesBackendError(t *testing.T) {
	b := &fakeBackend{drawErr: gpu.ErrSurfaceLost}
	g, err := New(b, newOptions(t, DefaultSources()))
	if err != nil {
		t.Fatal(err)
	}
	if err := g.Draw(params.Defaults()); !gpu.IsFatal(err) {
		t.Errorf("expected surface loss to propagate, got %v", err)
	}
}

func TestCloseIsIdempotent(t *testing.T) {
	b := &fakeBackend{}
	g, err := New(b, newOptions(t, DefaultSources()))
	if err != nil {
		t.Fatal(err)
	}
	g.Close()
	g.Close()
	if b.released != 1 {
		t.Errorf("expected 1 release, got %d", b.released)
	}
	if err := g.Draw(params.Defaults()); err == nil {
		t.Error("expected error drawing a closed graph")
	}
}
