package detection

import (
	"image"
	"math"

	"github.com/anthonynsimon/bild/blur"
	"github.com/anthonynsimon/bild/effect"
	"github.com/anthonynsimon/bild/segment"
)

// gaussianRadius approximates OpenCV's 5x5 kernel (sigma about 1.1).
const gaussianRadius = 1.1

// EdgeMap performs Canny edge detection and returns a binary image where
// edge pixels are 255 and everything else is 0.
//
// Thresholds are on a 0-255 scale. The output has the same bounds as img,
// shifted to start at (0, 0).
//
// # Algorithm
//
//  1. Grayscale conversion and 5x5 Gaussian blur (bild)
//  2. Sobel gradients, magnitude and direction
//  3. Non-maximum suppression along the gradient direction
//  4. Hysteresis: strong pixels seed edges which then grow through
//     8-connected weak pixels
func EdgeMap(img image.Image, thresholdLow, thresholdHigh float64) *image.Gray {
	bounds := img.Bounds()
	width := bounds.Dx()
	height := bounds.Dy()
	result := image.NewGray(image.Rect(0, 0, width, height))
	if width < 3 || height < 3 {
		return result
	}

	gray := effect.Grayscale(img)
	blurred := blur.Gaussian(gray, gaussianRadius)

	lum := make([]float64, width*height)
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			off := blurred.PixOffset(blurred.Rect.Min.X+x, blurred.Rect.Min.Y+y)
			lum[y*width+x] = float64(blurred.Pix[off]) / 255.0
		}
	}

	// Sobel
	magnitude := make([]float64, width*height)
	direction := make([]float64, width*height)
	at := func(x, y int) float64 {
		return lum[clamp(y, 0, height-1)*width+clamp(x, 0, width-1)]
	}
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			gx := -at(x-1, y-1) + at(x+1, y-1) -
				2*at(x-1, y) + 2*at(x+1, y) -
				at(x-1, y+1) + at(x+1, y+1)
			gy := -at(x-1, y-1) - 2*at(x, y-1) - at(x+1, y-1) +
				at(x-1, y+1) + 2*at(x, y+1) + at(x+1, y+1)
			magnitude[y*width+x] = math.Sqrt(gx*gx + gy*gy)
			direction[y*width+x] = math.Atan2(gy, gx)
		}
	}

	// Non-maximum suppression
	suppressed := make([]float64, width*height)
	for y := 1; y < height-1; y++ {
		for x := 1; x < width-1; x++ {
			i := y*width + x
			angle := direction[i]
			mag := magnitude[i]

			var n1, n2 float64
			switch {
			case (angle >= -math.Pi/8 && angle < math.Pi/8) || angle >= 7*math.Pi/8 || angle < -7*math.Pi/8:
				n1, n2 = magnitude[i-1], magnitude[i+1]
			case (angle >= math.Pi/8 && angle < 3*math.Pi/8) || (angle >= -7*math.Pi/8 && angle < -5*math.Pi/8):
				n1, n2 = magnitude[i-width+1], magnitude[i+width-1]
			case (angle >= 3*math.Pi/8 && angle < 5*math.Pi/8) || (angle >= -5*math.Pi/8 && angle < -3*math.Pi/8):
				n1, n2 = magnitude[i-width], magnitude[i+width]
			default:
				n1, n2 = magnitude[i-width-1], magnitude[i+width+1]
			}

			if mag >= n1 && mag >= n2 {
				suppressed[i] = mag
			}
		}
	}

	// Hysteresis
	low := thresholdLow / 255.0
	high := thresholdHigh / 255.0
	stack := make([]int, 0, 256)
	for i, v := range suppressed {
		if v >= high && v > 0 {
			result.Pix[i] = 255
			stack = append(stack, i)
		}
	}
	for len(stack) > 0 {
		i := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		x, y := i%width, i/width
		for dy := -1; dy <= 1; dy++ {
			for dx := -1; dx <= 1; dx++ {
				nx, ny := x+dx, y+dy
				if nx < 0 || nx >= width || ny < 0 || ny >= height {
					continue
				}
				j := ny*width + nx
				if result.Pix[j] == 0 && suppressed[j] >= low && suppressed[j] > 0 {
					result.Pix[j] = 255
					stack = append(stack, j)
				}
			}
		}
	}

	return result
}

// Binarize returns an ink mask: pixels darker than level are 255, paper is 0.
func Binarize(img image.Image, level uint8) *image.Gray {
	paper := segment.Threshold(img, level)
	ink := make([]uint8, len(paper.Pix))
	for i, v := range paper.Pix {
		ink[i] = 255 - v
	}
	return &image.Gray{Pix: ink, Stride: paper.Stride, Rect: paper.Rect}
}

// clamp constrains an integer value to the range [lo, hi].
func clamp(val, lo, hi int) int {
	if val < lo {
		return lo
	}
	if val > hi {
		return hi
	}
	return val
}
