package imaging

import (
	"errors"
	"fmt"
	"image"
	"log/slog"
	"os"

	"github.com/disintegration/imaging"
	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"
)

// ErrNoPageImage is returned when page 1 of a PDF carries no raster image.
var ErrNoPageImage = errors.New("no raster image on page 1")

// decodePDF extracts the images embedded on page 1 and returns the largest
// one. Scanned drawings store the sheet as a single full-page raster; vector
// PDFs are not rendered.
func decodePDF(path string) (image.Image, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open PDF: %w", err)
	}
	defer f.Close()

	conf := model.NewDefaultConfiguration()
	conf.ValidationMode = model.ValidationRelaxed

	if pages, err := api.PageCount(f, conf); err == nil && pages > 1 {
		slog.Warn("PDF has multiple pages; only page 1 is used", "path", path, "pages", pages)
	}
	if _, err := f.Seek(0, 0); err != nil {
		return nil, fmt.Errorf("failed to rewind PDF: %w", err)
	}

	var (
		best      image.Image
		bestArea  int
		decodeErr error
	)
	digest := func(img model.Image, _ bool, _ int) error {
		decoded, _, err := image.Decode(img)
		if err != nil {
			decodeErr = fmt.Errorf("failed to decode embedded %s image %q: %w", img.FileType, img.Name, err)
			slog.Debug("Skipping undecodable PDF image", "path", path, "name", img.Name, "type", img.FileType, "error", err)
			return nil
		}
		b := decoded.Bounds()
		if area := b.Dx() * b.Dy(); area > bestArea {
			best, bestArea = decoded, area
		}
		return nil
	}

	if err := api.ExtractImages(f, []string{"1"}, digest, conf); err != nil {
		return nil, fmt.Errorf("failed to extract PDF images: %w", err)
	}
	if best == nil {
		if decodeErr != nil {
			return nil, decodeErr
		}
		return nil, fmt.Errorf("%s: %w", path, ErrNoPageImage)
	}

	// Embedded images may use exotic colour models; normalise to NRGBA with
	// a zero origin.
	return imaging.Clone(best), nil
}
