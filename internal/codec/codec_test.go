package codec

import (
	"bytes"
	"context"
	"errors"
	"image"
	"image/color"
	"image/jpeg"
	"image/png"
	"os"
	"path/filepath"
	"reflect"
	"runtime"
	"strings"
	"testing"

	"github.com/gen2brain/avif"
	xwebp "golang.org/x/image/webp"

	"github.com/five82/imgqueue/internal/convert"
	"github.com/five82/imgqueue/internal/imagefile"
)

func writePNG(t *testing.T, path string, alpha uint8) {
	t.Helper()
	img := image.NewNRGBA(image.Rect(0, 0, 4, 4))
	for y := 0; y < 4; y++ {
		for x := 0; x < 4; x++ {
			img.Set(x, y, color.NRGBA{R: 200, G: 10, B: 10, A: alpha})
		}
	}
	f, err := os.Create(path)
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	defer f.Close()
	if err := png.Encode(f, img); err != nil {
		t.Fatalf("png.Encode: %v", err)
	}
}

func TestUniquePath(t *testing.T) {
	dir := t.TempDir()
	target := filepath.Join(dir, "cat.png")
	if got := UniquePath(target); got != target {
		t.Fatalf("UniquePath(free) = %q, want %q", got, target)
	}

	for _, name := range []string{"cat.png", "cat1.png"} {
		if err := os.WriteFile(filepath.Join(dir, name), nil, 0o644); err != nil {
			t.Fatalf("WriteFile: %v", err)
		}
	}
	want := filepath.Join(dir, "cat2.png")
	if got := UniquePath(target); got != want {
		t.Fatalf("UniquePath(taken) = %q, want %q", got, want)
	}
}

func TestUniquePath_KeepsBackslashSeparator(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("backslash is a separator on windows")
	}
	dir := t.TempDir()
	// imagefile.JoinPath builds "<folder>\<name>" for a backslash folder.
	target := imagefile.JoinPath(dir+`\out`, "cat.png")
	if err := os.WriteFile(target, nil, 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	want := dir + `\out\cat1.png`
	if got := UniquePath(target); got != want {
		t.Fatalf("UniquePath = %q, want %q", got, want)
	}
	if got := UniquePath(`cat.png`); got != "cat.png" {
		t.Fatalf("UniquePath(bare) = %q, want cat.png", got)
	}
}

func TestNative_PNGToJPEG(t *testing.T) {
	dir := t.TempDir()
	in := filepath.Join(dir, "in.png")
	writePNG(t, in, 128)

	n := NewNative(nil)
	out, err := n.Convert(context.Background(), convert.Request{
		InputPath:            in,
		OutputPath:           filepath.Join(dir, "in.jpg"),
		Format:               imagefile.JPG,
		Quality:              80,
		StripMetadata:        true,
		PreserveTransparency: true,
	})
	if err != nil {
		t.Fatalf("Convert returned error: %v", err)
	}
	f, err := os.Open(out)
	if err != nil {
		t.Fatalf("Open output: %v", err)
	}
	defer f.Close()
	if _, err := jpeg.Decode(f); err != nil {
		t.Fatalf("output is not a jpeg: %v", err)
	}
}

func TestNative_DoesNotOverwriteExistingOutput(t *testing.T) {
	dir := t.TempDir()
	in := filepath.Join(dir, "in.png")
	writePNG(t, in, 255)
	existing := filepath.Join(dir, "out.png")
	if err := os.WriteFile(existing, []byte("keep"), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	out, err := NewNative(nil).Convert(context.Background(), convert.Request{
		InputPath:            in,
		OutputPath:           existing,
		Format:               imagefile.PNG,
		Quality:              90,
		PreserveTransparency: true,
	})
	if err != nil {
		t.Fatalf("Convert returned error: %v", err)
	}
	if out != filepath.Join(dir, "out1.png") {
		t.Fatalf("output = %q, want out1.png", out)
	}
	data, _ := os.ReadFile(existing)
	if string(data) != "keep" {
		t.Fatalf("existing output was overwritten")
	}
}

func TestNative_FlattensWhenTransparencyDropped(t *testing.T) {
	dir := t.TempDir()
	in := filepath.Join(dir, "in.png")
	writePNG(t, in, 0)

	out, err := NewNative(nil).Convert(context.Background(), convert.Request{
		InputPath:            in,
		OutputPath:           filepath.Join(dir, "flat.png"),
		Format:               imagefile.PNG,
		PreserveTransparency: false,
	})
	if err != nil {
		t.Fatalf("Convert returned error: %v", err)
	}
	f, err := os.Open(out)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer f.Close()
	img, err := png.Decode(f)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	_, _, _, a := img.At(0, 0).RGBA()
	if a != 0xffff {
		t.Fatalf("alpha = %#x, want opaque", a)
	}
}

func TestNative_UnknownOutputFormat(t *testing.T) {
	dir := t.TempDir()
	in := filepath.Join(dir, "in.png")
	writePNG(t, in, 255)

	_, err := NewNative(nil).Convert(context.Background(), convert.Request{
		InputPath:  in,
		OutputPath: filepath.Join(dir, "x.gif"),
		Format:     imagefile.Format("gif"),
	})
	if !errors.Is(err, ErrUnsupported) {
		t.Fatalf("gif output err = %v, want ErrUnsupported", err)
	}
}

func TestNative_PNGToWebP(t *testing.T) {
	dir := t.TempDir()
	in := filepath.Join(dir, "in.png")
	writePNG(t, in, 128)

	backend, err := New(Options{})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	written, err := backend.Convert(context.Background(), convert.Request{
		InputPath:            in,
		OutputPath:           filepath.Join(dir, "in.webp"),
		Format:               imagefile.WebP,
		Quality:              80,
		StripMetadata:        true,
		PreserveTransparency: true,
	})
	if err != nil {
		t.Fatalf("Convert: %v", err)
	}

	data, err := os.ReadFile(written)
	if err != nil {
		t.Fatalf("ReadFile: %v", err)
	}
	if len(data) < 12 || string(data[:4]) != "RIFF" || string(data[8:12]) != "WEBP" {
		t.Fatalf("output is not a webp container: % x", data[:min(len(data), 12)])
	}
	img, err := xwebp.Decode(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("decode webp: %v", err)
	}
	if img.Bounds().Dx() != 4 || img.Bounds().Dy() != 4 {
		t.Fatalf("bounds = %v, want 4x4", img.Bounds())
	}
}

func TestNative_AVIFToPNG(t *testing.T) {
	dir := t.TempDir()
	in := filepath.Join(dir, "in.avif")
	src := image.NewNRGBA(image.Rect(0, 0, 8, 8))
	for y := 0; y < 8; y++ {
		for x := 0; x < 8; x++ {
			src.Set(x, y, color.NRGBA{R: 220, G: 20, B: 20, A: 255})
		}
	}
	f, err := os.Create(in)
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if err := avif.Encode(f, src, avif.Options{Quality: 90}); err != nil {
		_ = f.Close()
		t.Fatalf("avif.Encode: %v", err)
	}
	if err := f.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	written, err := NewNative(nil).Convert(context.Background(), convert.Request{
		InputPath:            in,
		OutputPath:           filepath.Join(dir, "in.png"),
		Format:               imagefile.PNG,
		StripMetadata:        true,
		PreserveTransparency: true,
	})
	if err != nil {
		t.Fatalf("Convert: %v", err)
	}

	out, err := os.Open(written)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer out.Close()
	img, err := png.Decode(out)
	if err != nil {
		t.Fatalf("png.Decode: %v", err)
	}
	if img.Bounds().Dx() != 8 || img.Bounds().Dy() != 8 {
		t.Fatalf("bounds = %v, want 8x8", img.Bounds())
	}
	r, g, _, _ := img.At(4, 4).RGBA()
	if r <= g {
		t.Fatalf("decoded pixel lost its color: r=%#x g=%#x", r, g)
	}
}

func TestNative_CorruptInputFails(t *testing.T) {
	dir := t.TempDir()
	in := filepath.Join(dir, "broken.png")
	if err := os.WriteFile(in, []byte("not an image"), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	_, err := NewNative(nil).Convert(context.Background(), convert.Request{
		InputPath:  in,
		OutputPath: filepath.Join(dir, "broken.jpg"),
		Format:     imagefile.JPG,
	})
	if err == nil || !strings.Contains(err.Error(), "broken.png") {
		t.Fatalf("err = %v, want decode error naming the file", err)
	}
	if _, statErr := os.Stat(filepath.Join(dir, "broken.jpg")); statErr == nil {
		t.Fatalf("failed conversion left an output file")
	}
}

func TestNewCommand_Validation(t *testing.T) {
	if _, err := NewCommand(Options{Command: []string{"magick", "{input}"}}); err == nil {
		t.Fatalf("NewCommand without {output} returned nil error")
	}
	if _, err := NewCommand(Options{Command: []string{" "}}); err == nil {
		t.Fatalf("NewCommand with blank program returned nil error")
	}
}

func TestCommand_Args(t *testing.T) {
	c, err := NewCommand(Options{
		Command:           []string{"magick", "{input}", "-quality", "{quality}", "{format}:{output}"},
		StripMetadataArgs: []string{"-strip"},
		FlattenArgs:       []string{"-background", "white", "-flatten"},
	})
	if err != nil {
		t.Fatalf("NewCommand: %v", err)
	}

	req := convert.Request{InputPath: "/in/a.png", Format: imagefile.WebP, Quality: 150, StripMetadata: true, PreserveTransparency: false}
	got := c.Args(req, "/out/a.webp")
	want := []string{"magick", "/in/a.png", "-quality", "100", "-strip", "-background", "white", "-flatten", "webp:/out/a.webp"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("Args = %q, want %q", got, want)
	}

	req.StripMetadata = false
	req.PreserveTransparency = true
	got = c.Args(req, "/out/a.webp")
	want = []string{"magick", "/in/a.png", "-quality", "100", "webp:/out/a.webp"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("Args = %q, want %q", got, want)
	}
}

func TestCommand_RunsProgram(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("uses cp")
	}
	dir := t.TempDir()
	in := filepath.Join(dir, "in.png")
	writePNG(t, in, 255)

	c, err := NewCommand(Options{Command: []string{"cp", "{input}", "{output}"}})
	if err != nil {
		t.Fatalf("NewCommand: %v", err)
	}
	out, err := c.Convert(context.Background(), convert.Request{InputPath: in, OutputPath: filepath.Join(dir, "copy.png"), Format: imagefile.PNG, PreserveTransparency: true})
	if err != nil {
		t.Fatalf("Convert returned error: %v", err)
	}
	if out != filepath.Join(dir, "copy.png") {
		t.Fatalf("output = %q", out)
	}
}

func TestCommand_SurfacesStderr(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("uses cp")
	}
	dir := t.TempDir()
	c, err := NewCommand(Options{Command: []string{"cp", "{input}", "{output}"}})
	if err != nil {
		t.Fatalf("NewCommand: %v", err)
	}
	_, err = c.Convert(context.Background(), convert.Request{InputPath: filepath.Join(dir, "missing.png"), OutputPath: filepath.Join(dir, "x.png"), Format: imagefile.PNG})
	if err == nil || !strings.Contains(err.Error(), "missing.png") {
		t.Fatalf("err = %v, want stderr mentioning missing.png", err)
	}
}

func TestNew_SelectsBackend(t *testing.T) {
	conv, err := New(Options{})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if _, ok := conv.(*Native); !ok {
		t.Fatalf("New(empty) = %T, want *Native", conv)
	}
	conv, err = New(Options{Command: []string{"magick", "{input}", "{output}"}})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if _, ok := conv.(*Command); !ok {
		t.Fatalf("New(command) = %T, want *Command", conv)
	}
}
