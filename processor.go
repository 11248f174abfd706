package seamcarving

import (
	"errors"
	"image"
	"io"
	"math"

	"github.com/disintegration/imaging"
	"github.com/esimov/seamcarving/utils"
)

var (
	// ErrPercentEnlarge is returned when a percentage above 100 is requested.
	ErrPercentEnlarge = errors.New("cannot use the percentage option for image enlargement")
	// ErrSquareSize is returned when the square option is used without both dimensions.
	ErrSquareSize = errors.New("please provide a new width and height when using the square option")
)

// Processor options
type Processor struct {
	// NewWidth and NewHeight are the requested dimensions. Zero keeps the
	// source dimension on that axis. Values above the source are capped.
	NewWidth  int
	NewHeight int
	// Percentage interprets NewWidth and NewHeight as percentages of the source size.
	Percentage bool
	// Square reduces the image to a square of side min(NewWidth, NewHeight).
	Square bool
	// Scale rescales the image proportionally with a Lanczos filter before
	// carving, so that seams are only removed along the axis that does not fit.
	Scale bool
	// Progress, when set, is called after every removed seam.
	Progress ProgressFunc
}

// Carve resizes img to the dimensions configured on the processor.
func (p *Processor) Carve(img *image.NRGBA) (image.Image, error) {
	w, h := img.Bounds().Dx(), img.Bounds().Dy()

	nw, nh, err := p.targetSize(w, h)
	if err != nil {
		return nil, err
	}
	if nw > w || nh > h {
		Logger().Warn("seamcarving: image enlargement is not supported, keeping the source size",
			"width", w, "height", h, "requested", Point{X: nw, Y: nh})
	}

	if p.Scale && nw < w && nh < h {
		img = p.prescale(img, nw, nh)
	}

	res := resize[uint8](NewNRGBAGrid(img), nw, nh, p.Progress)
	return BufferToImage(res)
}

// Process decodes the image read from r, resizes it and encodes the result into w.
// We are using the io package, since we can provide different input and output types,
// as long as they implement the io.Reader and io.Writer interface.
func (p *Processor) Process(r io.Reader, w io.Writer) error {
	img, err := decodeImg(r)
	if err != nil {
		return err
	}
	res, err := p.Carve(img)
	if err != nil {
		return err
	}
	return encodeImg(w, res)
}

// targetSize computes the dimensions the source of size w x h should be resized to.
func (p *Processor) targetSize(w, h int) (int, int, error) {
	nw, nh := p.NewWidth, p.NewHeight

	if p.Percentage {
		if nw > 100 || nh > 100 {
			return 0, 0, ErrPercentEnlarge
		}
		if nw != 0 {
			nw = int(math.Round(float64(w) * float64(nw) / 100))
		}
		if nh != 0 {
			nh = int(math.Round(float64(h) * float64(nh) / 100))
		}
	}
	if nw <= 0 {
		nw = w
	}
	if nh <= 0 {
		nh = h
	}

	if p.Square {
		if p.NewWidth == 0 || p.NewHeight == 0 {
			return 0, 0, ErrSquareSize
		}
		side := utils.Min(utils.Min(nw, nh), utils.Min(w, h))
		nw, nh = side, side
	}
	return nw, nh, nil
}

// prescale downsizes img while preserving its aspect ratio, up until one of the
// axes reaches its target size. The other axis is left for the carver.
func (p *Processor) prescale(img *image.NRGBA, nw, nh int) *image.NRGBA {
	w, h := float64(img.Bounds().Dx()), float64(img.Bounds().Dy())
	ratio := math.Max(float64(nw)/w, float64(nh)/h)

	sw := utils.Max(int(math.Round(w*ratio)), nw)
	sh := utils.Max(int(math.Round(h*ratio)), nh)

	Logger().Debug("seamcarving: proportional prescale", "width", sw, "height", sh)
	return imaging.Resize(img, sw, sh, imaging.Lanczos)
}
