package seamcarving

import (
	"bytes"
	"context"
	"image"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"slices"
	"testing"
	"time"

	"github.com/esimov/seamcarving/utils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writePNG(t *testing.T, path string, img image.Image) {
	t.Helper()
	require.NoError(t, os.WriteFile(path, encodePNG(t, img).Bytes(), 0644))
}

func imageSize(t *testing.T, path string) image.Point {
	t.Helper()
	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()
	cfg, _, err := image.DecodeConfig(f)
	require.NoError(t, err)
	return image.Pt(cfg.Width, cfg.Height)
}

func TestExec_SingleFile(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "in.png")
	dst := filepath.Join(dir, "out.png")
	writePNG(t, src, randomImage(10, 20, 15))

	p := &Processor{NewWidth: 16, NewHeight: 12}
	err := p.Execute(context.Background(), &Ops{Src: src, Dst: dst, PipeName: "-"})
	require.NoError(t, err)
	assert.Equal(t, image.Pt(16, 12), imageSize(t, dst))
}

func TestExec_SingleFileWithSpinner(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "in.png")
	dst := filepath.Join(dir, "out.jpg")
	writePNG(t, src, randomImage(11, 20, 15))

	var out bytes.Buffer
	spinner := utils.NewSpinner("resizing", time.Millisecond, false)
	spinner.SetWriter(&out)

	var done int
	p := &Processor{NewWidth: 18, Progress: func(d, _ int) { done = d }}
	err := p.Execute(context.Background(), &Ops{Src: src, Dst: dst, PipeName: "-", Spinner: spinner})
	require.NoError(t, err)
	assert.Equal(t, 2, done)
	assert.Contains(t, out.String(), "resized successfully")
	assert.Equal(t, image.Pt(18, 15), imageSize(t, dst))
}

func TestExec_UnsupportedDestination(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "in.png")
	writePNG(t, src, randomImage(12, 8, 8))

	p := &Processor{NewWidth: 4}
	err := p.Execute(context.Background(), &Ops{Src: src, Dst: filepath.Join(dir, "out.xyz"), PipeName: "-"})
	assert.ErrorIs(t, err, ErrUnsupportedFormat)
}

func TestExec_WebPDestinationRejectedBeforeCarving(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "in.png")
	dst := filepath.Join(dir, "out.webp")
	writePNG(t, src, randomImage(13, 8, 8))

	var carved int
	p := &Processor{NewWidth: 4, Progress: func(int, int) { carved++ }}
	err := p.Execute(context.Background(), &Ops{Src: src, Dst: dst, PipeName: "-"})
	assert.ErrorIs(t, err, ErrUnsupportedFormat)
	assert.Zero(t, carved)
	assert.NoFileExists(t, dst)
}

func TestExec_MissingSource(t *testing.T) {
	p := &Processor{NewWidth: 4}
	err := p.Execute(context.Background(), &Ops{Src: filepath.Join(t.TempDir(), "nope.png"), Dst: "out.png", PipeName: "-"})
	assert.Error(t, err)
}

func TestExec_FailedResizeRemovesDestination(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "in.png")
	dst := filepath.Join(dir, "out.png")
	require.NoError(t, os.WriteFile(src, []byte("not an image"), 0644))

	p := &Processor{NewWidth: 4}
	err := p.Execute(context.Background(), &Ops{Src: src, Dst: dst, PipeName: "-"})
	assert.Error(t, err)
	assert.NoFileExists(t, dst)
}

func TestExec_Directory(t *testing.T) {
	src := t.TempDir()
	dst := filepath.Join(t.TempDir(), "out")
	require.NoError(t, os.Mkdir(filepath.Join(src, "nested"), 0755))

	names := []string{"a.png", "b.png", filepath.Join("nested", "c.png")}
	for i, name := range names {
		writePNG(t, filepath.Join(src, name), randomImage(int64(20+i), 12, 10))
	}
	require.NoError(t, os.WriteFile(filepath.Join(src, "notes.txt"), []byte("skip me"), 0644))

	p := &Processor{NewWidth: 9, NewHeight: 8}
	err := p.Execute(context.Background(), &Ops{Src: src, Dst: dst, PipeName: "-", Workers: 2})
	require.NoError(t, err)

	for _, name := range []string{"a.png", "b.png", "c.png"} {
		assert.Equal(t, image.Pt(9, 8), imageSize(t, filepath.Join(dst, name)), name)
	}
	assert.NoFileExists(t, filepath.Join(dst, "notes.txt"))
}

func TestExec_DirectoryCollectsErrors(t *testing.T) {
	src := t.TempDir()
	dst := t.TempDir()
	writePNG(t, filepath.Join(src, "good.png"), randomImage(30, 6, 6))
	require.NoError(t, os.WriteFile(filepath.Join(src, "bad.png"), []byte("garbage"), 0644))

	p := &Processor{NewWidth: 5}
	err := p.Execute(context.Background(), &Ops{Src: src, Dst: dst, PipeName: "-"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "bad.png")
	assert.FileExists(t, filepath.Join(dst, "good.png"))
	assert.NoFileExists(t, filepath.Join(dst, "bad.png"))
}

func TestExec_URL(t *testing.T) {
	data := encodePNG(t, randomImage(40, 10, 10)).Bytes()
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write(data)
	}))
	defer ts.Close()

	dst := filepath.Join(t.TempDir(), "out.png")
	p := &Processor{NewWidth: 7}
	err := p.Execute(context.Background(), &Ops{Src: ts.URL + "/img.png", Dst: dst, PipeName: "-"})
	require.NoError(t, err)
	assert.Equal(t, image.Pt(7, 10), imageSize(t, dst))
}

func TestExec_WalkDir(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"a.jpg", "b.PNG", "c.txt", "d"} {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), nil, 0644))
	}

	paths, errc := walkDir(context.Background(), dir, inputExtensions)
	var got []string
	for p := range paths {
		got = append(got, filepath.Base(p))
	}
	require.NoError(t, <-errc)
	slices.Sort(got)
	assert.Equal(t, []string{"a.jpg", "b.PNG"}, got)
}

func TestExec_WalkDirCancelled(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"a.png", "b.png"} {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), nil, 0644))
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	paths, errc := walkDir(ctx, dir, inputExtensions)
	// Nothing reads the paths yet, so the walk can only observe the cancellation.
	assert.Error(t, <-errc)
	for range paths {
	}
}

func TestExec_IsValidExtension(t *testing.T) {
	assert.True(t, isValidExtension(".png", inputExtensions))
	assert.True(t, isValidExtension(".webp", inputExtensions))
	assert.False(t, isValidExtension(".PNG", inputExtensions))
	assert.False(t, isValidExtension(".txt", inputExtensions))
	assert.False(t, isValidExtension("", inputExtensions))

	// WebP can only be decoded.
	assert.True(t, isValidExtension(".png", outputExtensions))
	assert.False(t, isValidExtension(".webp", outputExtensions))
}

func TestExec_OutputPath(t *testing.T) {
	dir := filepath.Join("out", "dir")
	assert.Equal(t, filepath.Join(dir, "a.jpg"), outputPath(dir, filepath.Join("src", "a.jpg")))
	assert.Equal(t, filepath.Join(dir, "b.TIFF"), outputPath(dir, "b.TIFF"))
	assert.Equal(t, filepath.Join(dir, "c.png"), outputPath(dir, filepath.Join("src", "c.webp")))
	assert.Equal(t, filepath.Join(dir, "d.png"), outputPath(dir, "d.WEBP"))
}
