package seamcarving

import (
	"errors"
	"fmt"
	"image"
	"image/gif"
	"image/jpeg"
	"image/png"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/disintegration/imaging"
	"golang.org/x/image/bmp"
	"golang.org/x/image/tiff"

	// Register the decoders of the formats accepted as input.
	_ "golang.org/x/image/webp"
)

// ErrUnsupportedFormat is returned when the destination extension has no encoder.
var ErrUnsupportedFormat = errors.New("unsupported image format")

// NRGBAGrid exposes an *image.NRGBA as a four channel grid without copying it.
type NRGBAGrid struct {
	img *image.NRGBA
}

var _ Grid[uint8] = NRGBAGrid{}

// NewNRGBAGrid wraps img. The image bounds may start anywhere.
func NewNRGBAGrid(img *image.NRGBA) NRGBAGrid {
	return NRGBAGrid{img: img}
}

func (g NRGBAGrid) Width() int    { return g.img.Rect.Dx() }
func (g NRGBAGrid) Height() int   { return g.img.Rect.Dy() }
func (g NRGBAGrid) Channels() int { return 4 }

func (g NRGBAGrid) Pixel(x, y int) []uint8 {
	i := g.img.PixOffset(g.img.Rect.Min.X+x, g.img.Rect.Min.Y+y)
	return g.img.Pix[i : i+4 : i+4]
}

// GrayGrid exposes an *image.Gray as a single channel grid without copying it.
type GrayGrid struct {
	img *image.Gray
}

var _ Grid[uint8] = GrayGrid{}

// NewGrayGrid wraps img. The image bounds may start anywhere.
func NewGrayGrid(img *image.Gray) GrayGrid {
	return GrayGrid{img: img}
}

func (g GrayGrid) Width() int    { return g.img.Rect.Dx() }
func (g GrayGrid) Height() int   { return g.img.Rect.Dy() }
func (g GrayGrid) Channels() int { return 1 }

func (g GrayGrid) Pixel(x, y int) []uint8 {
	i := g.img.PixOffset(g.img.Rect.Min.X+x, g.img.Rect.Min.Y+y)
	return g.img.Pix[i : i+1 : i+1]
}

// ImageToGrid returns a grid reading the pixels of img. Gray and NRGBA images
// are wrapped as they are, any other image is converted to NRGBA first.
func ImageToGrid(img image.Image) Grid[uint8] {
	switch src := img.(type) {
	case *image.Gray:
		return NewGrayGrid(src)
	case *image.NRGBA:
		return NewNRGBAGrid(src)
	}
	return NewNRGBAGrid(imgToNRGBA(img))
}

// BufferToImage converts a one channel buffer to *image.Gray
// and a four channel buffer to *image.NRGBA.
func BufferToImage(b *Buffer[uint8]) (image.Image, error) {
	rect := image.Rect(0, 0, b.W, b.H)
	switch b.N {
	case 1:
		return &image.Gray{Pix: b.Pix, Stride: b.W, Rect: rect}, nil
	case 4:
		return &image.NRGBA{Pix: b.Pix, Stride: b.W * 4, Rect: rect}, nil
	}
	return nil, fmt.Errorf("cannot convert a %d channel buffer to an image", b.N)
}

// decodeImg decodes the image read from r into an NRGBA image with min-point at (0, 0).
func decodeImg(r io.Reader) (*image.NRGBA, error) {
	src, _, err := image.Decode(r)
	if err != nil {
		return nil, fmt.Errorf("could not decode the source image: %w", err)
	}
	return imgToNRGBA(src), nil
}

// encodeImg encodes img into w. When w is a file the encoder is chosen by
// the file extension, otherwise the image is encoded as JPEG.
func encodeImg(w io.Writer, img image.Image) error {
	f, ok := w.(*os.File)
	if !ok {
		return jpeg.Encode(w, img, &jpeg.Options{Quality: 100})
	}
	switch ext := strings.ToLower(filepath.Ext(f.Name())); ext {
	case "", ".jpg", ".jpeg":
		return jpeg.Encode(w, img, &jpeg.Options{Quality: 100})
	case ".png":
		return png.Encode(w, img)
	case ".bmp":
		return bmp.Encode(w, img)
	case ".gif":
		return gif.Encode(w, img, nil)
	case ".tif", ".tiff":
		return tiff.Encode(w, img, &tiff.Options{Compression: tiff.Deflate})
	default:
		return fmt.Errorf("%w: %q", ErrUnsupportedFormat, ext)
	}
}

// imgToNRGBA converts any image type to *image.NRGBA with min-point at (0, 0).
// Such an NRGBA image is returned as is.
func imgToNRGBA(img image.Image) *image.NRGBA {
	if src, ok := img.(*image.NRGBA); ok && src.Rect.Min == (image.Point{}) {
		return src
	}
	return imaging.Clone(img)
}
