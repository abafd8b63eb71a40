package imaging

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"image"
	"image/png"
	"math"

	"github.com/disintegration/imaging"

	"github.com/ironsheep/ga-vector-mcp/internal/geometry"
)

// CropBox returns the part of img covered by box. The box is rounded outward
// to whole pixels and clipped to the image. The result has its origin at
// (0, 0), so contours traced from it are in view-local coordinates.
func CropBox(img image.Image, box geometry.BoundingBox) (*image.NRGBA, error) {
	bounds := img.Bounds()

	x1 := bounds.Min.X + int(math.Floor(box.X))
	y1 := bounds.Min.Y + int(math.Floor(box.Y))
	x2 := bounds.Min.X + int(math.Ceil(box.X+box.W))
	y2 := bounds.Min.Y + int(math.Ceil(box.Y+box.H))

	r := image.Rect(x1, y1, x2, y2).Intersect(bounds)
	if r.Empty() {
		return nil, fmt.Errorf("crop region (%d,%d)-(%d,%d) outside image bounds (%d,%d)-(%d,%d)",
			x1, y1, x2, y2, bounds.Min.X, bounds.Min.Y, bounds.Max.X, bounds.Max.Y)
	}

	return imaging.Crop(img, r), nil
}

// EncodedImage is a PNG returned inline to the client.
type EncodedImage struct {
	Width       int    `json:"width"`
	Height      int    `json:"height"`
	ImageBase64 string `json:"image_base64"`
	MimeType    string `json:"mime_type"`
}

// EncodePNG encodes img as a base64 PNG, downscaling first so that neither
// side exceeds maxSide (0 keeps the original size).
func EncodePNG(img image.Image, maxSide int) (*EncodedImage, error) {
	b := img.Bounds()
	if maxSide > 0 && (b.Dx() > maxSide || b.Dy() > maxSide) {
		img = imaging.Fit(img, maxSide, maxSide, imaging.Lanczos)
		b = img.Bounds()
	}

	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, fmt.Errorf("failed to encode image: %w", err)
	}

	return &EncodedImage{
		Width:       b.Dx(),
		Height:      b.Dy(),
		ImageBase64: base64.StdEncoding.EncodeToString(buf.Bytes()),
		MimeType:    "image/png",
	}, nil
}
