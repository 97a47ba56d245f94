package codec

import (
	"context"
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"image/jpeg"
	"image/png"
	"io"
	"log/slog"
	"os"

	"github.com/gen2brain/avif"
	"github.com/gen2brain/webp"
	xwebp "golang.org/x/image/webp"

	"github.com/five82/imgqueue/internal/convert"
	"github.com/five82/imgqueue/internal/imagefile"
)

// Native converts with pure Go codecs: jpeg, png, webp and avif decoding,
// jpeg, png and lossy webp encoding. None of the encoders write metadata, so
// StripMetadata is always honored and a request to keep metadata is logged.
type Native struct {
	logger *slog.Logger
}

var _ convert.Converter = (*Native)(nil)

// NewNative builds a Native converter.
func NewNative(logger *slog.Logger) *Native {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Native{logger: logger}
}

// Convert decodes req.InputPath and writes it in req.Format.
func (n *Native) Convert(ctx context.Context, req convert.Request) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	if !req.Format.Valid() {
		return "", fmt.Errorf("%w: output format %q", ErrUnsupported, req.Format)
	}

	img, err := decodeFile(req.InputPath)
	if err != nil {
		return "", err
	}

	if !req.StripMetadata {
		n.logger.Debug("native encoder cannot carry metadata", "input", req.InputPath)
	}

	flatten := req.Format == imagefile.JPG || !req.PreserveTransparency
	if flatten {
		img = flattenOnWhite(img)
	}

	target := UniquePath(req.OutputPath)
	if err := writeFile(target, func(w io.Writer) error {
		return encode(w, img, req.Format, req.Quality)
	}); err != nil {
		return "", err
	}
	return target, nil
}

func decodeFile(path string) (image.Image, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open input: %w", err)
	}
	defer file.Close()

	var img image.Image
	switch imagefile.Classify(path).FormatTag {
	case "webp":
		img, err = xwebp.Decode(file)
	case "avif":
		img, err = avif.Decode(file)
	default:
		img, _, err = image.Decode(file)
	}
	if err != nil {
		return nil, fmt.Errorf("decode %s: %w", imagefile.DisplayName(path), err)
	}
	return img, nil
}

func encode(w io.Writer, img image.Image, format imagefile.Format, quality int) error {
	switch format {
	case imagefile.PNG:
		return png.Encode(w, img)
	case imagefile.JPG:
		return jpeg.Encode(w, img, &jpeg.Options{Quality: clampQuality(quality)})
	case imagefile.WebP:
		return webp.Encode(w, img, webp.Options{Quality: clampQuality(quality)})
	}
	return fmt.Errorf("%w: output format %q", ErrUnsupported, format)
}

// writeFile writes through a temp file in the target directory so a failed
// encode never leaves a truncated image behind.
func writeFile(target string, fn func(io.Writer) error) error {
	tmp, err := os.CreateTemp(dirOf(target), ".imgqueue-*")
	if err != nil {
		return fmt.Errorf("create output: %w", err)
	}
	tmpName := tmp.Name()
	defer func() { _ = os.Remove(tmpName) }()

	if err := fn(tmp); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("encode output: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close output: %w", err)
	}
	if err := os.Rename(tmpName, target); err != nil {
		return fmt.Errorf("write output: %w", err)
	}
	return nil
}

func flattenOnWhite(src image.Image) image.Image {
	bounds := src.Bounds()
	dst := image.NewRGBA(bounds)
	draw.Draw(dst, bounds, image.NewUniform(color.White), image.Point{}, draw.Src)
	draw.Draw(dst, bounds, src, bounds.Min, draw.Over)
	return dst
}

func clampQuality(q int) int {
	if q < 1 {
		return 1
	}
	if q > 100 {
		return 100
	}
	return q
}
