package ocr

import (
	"fmt"
	"image"
	"image/png"
	"os"

	"github.com/otiai10/gosseract/v2"

	"github.com/ironsheep/ga-vector-mcp/internal/geometry"
	"github.com/ironsheep/ga-vector-mcp/internal/regions"
)

// Token is one recognized word with its location and confidence.
type Token struct {
	// Text is the word as Tesseract read it.
	Text string `json:"text"`

	// Confidence is the OCR confidence score (0.0 to 1.0).
	Confidence float64 `json:"confidence"`

	// Box is the word's bounding box in image pixels.
	Box geometry.BoundingBox `json:"box"`
}

// Label converts the token for the caption heuristic.
func (t Token) Label() regions.Label {
	return regions.Label{Text: t.Text, Box: t.Box}
}

// Labels converts tokens at or above minConfidence.
func Labels(tokens []Token, minConfidence float64) []regions.Label {
	out := make([]regions.Label, 0, len(tokens))
	for _, t := range tokens {
		if t.Confidence < minConfidence {
			continue
		}
		out = append(out, t.Label())
	}
	return out
}

// ExtractWords runs Tesseract on an image file and returns every non-empty
// word in reading order.
//
// language is a Tesseract code such as "eng"; tessdataPrefix may be empty to
// use the system default.
func ExtractWords(imagePath, language, tessdataPrefix string) ([]Token, error) {
	client := gosseract.NewClient()
	defer client.Close()

	if tessdataPrefix != "" {
		if err := client.SetTessdataPrefix(tessdataPrefix); err != nil {
			return nil, fmt.Errorf("failed to set tessdata prefix: %w", err)
		}
	}

	if err := client.SetLanguage(language); err != nil {
		return nil, fmt.Errorf("failed to set language: %w", err)
	}

	if err := client.SetImage(imagePath); err != nil {
		return nil, fmt.Errorf("failed to set image: %w", err)
	}

	boxes, err := client.GetBoundingBoxes(gosseract.RIL_WORD)
	if err != nil {
		return nil, fmt.Errorf("OCR failed: %w", err)
	}

	tokens := make([]Token, 0, len(boxes))
	for _, box := range boxes {
		if box.Word == "" {
			continue
		}
		tokens = append(tokens, Token{
			Text:       box.Word,
			Confidence: float64(box.Confidence) / 100.0,
			Box: geometry.BoundingBox{
				X: float64(box.Box.Min.X),
				Y: float64(box.Box.Min.Y),
				W: float64(box.Box.Dx()),
				H: float64(box.Box.Dy()),
			},
		})
	}
	return tokens, nil
}

// ExtractWordsFromImage runs ExtractWords on an in-memory image, such as the
// raster taken from a PDF. The image goes through a temporary PNG that is
// removed afterwards. Boxes are relative to the image's origin.
func ExtractWordsFromImage(img image.Image, language, tessdataPrefix string) ([]Token, error) {
	tmpFile, err := os.CreateTemp("", "ga-ocr-*.png")
	if err != nil {
		return nil, fmt.Errorf("failed to create temp file: %w", err)
	}
	tmpPath := tmpFile.Name()
	defer os.Remove(tmpPath)

	if err := png.Encode(tmpFile, img); err != nil {
		tmpFile.Close()
		return nil, fmt.Errorf("failed to encode temp image: %w", err)
	}
	if err := tmpFile.Close(); err != nil {
		return nil, fmt.Errorf("failed to write temp image: %w", err)
	}

	tokens, err := ExtractWords(tmpPath, language, tessdataPrefix)
	if err != nil {
		return nil, err
	}

	// Tesseract reports boxes from (0, 0) of the encoded file.
	origin := img.Bounds().Min
	for i := range tokens {
		tokens[i].Box.X += float64(origin.X)
		tokens[i].Box.Y += float64(origin.Y)
	}
	return tokens, nil
}
