package pipeline

import (
	"context"
	"fmt"
	"image"
	"log/slog"
	"runtime"

	"golang.org/x/sync/errgroup"

	"github.com/ironsheep/ga-vector-mcp/internal/classify"
	"github.com/ironsheep/ga-vector-mcp/internal/config"
	"github.com/ironsheep/ga-vector-mcp/internal/detection"
	"github.com/ironsheep/ga-vector-mcp/internal/geometry"
	"github.com/ironsheep/ga-vector-mcp/internal/imaging"
	"github.com/ironsheep/ga-vector-mcp/internal/regions"
	"github.com/ironsheep/ga-vector-mcp/internal/simplify"
	"github.com/ironsheep/ga-vector-mcp/internal/view"
)

// Options configures one run.
type Options struct {
	// Tolerance is the simplification tolerance in pixels.
	Tolerance float64
	// Workers bounds the goroutines used per view; < 1 means GOMAXPROCS.
	Workers int
	// Rules are the contour role thresholds.
	Rules classify.Rules
	// Thresholds drive region assignment.
	Thresholds regions.Thresholds
	// Keywords map caption words to views.
	Keywords regions.KeywordTable
}

// DefaultOptions returns the built-in settings.
func DefaultOptions() Options {
	return Options{
		Tolerance:  simplify.DefaultTolerance,
		Workers:    runtime.GOMAXPROCS(0),
		Rules:      classify.DefaultRules(),
		Thresholds: regions.DefaultThresholds(),
		Keywords:   regions.DefaultKeywords(),
	}
}

// NewOptions derives run options from the process configuration.
func NewOptions(c config.Config) Options {
	o := DefaultOptions()
	o.Tolerance = c.Tolerance
	o.Workers = c.Workers
	o.Thresholds.MinAreaFraction = c.MinAreaFraction
	o.Thresholds.MinSideFraction = c.MinSideFraction
	return o
}

func (o Options) normalized() Options {
	d := DefaultOptions()
	if o.Workers < 1 {
		o.Workers = d.Workers
	}
	if o.Rules == (classify.Rules{}) {
		o.Rules = d.Rules
	}
	if o.Thresholds == (regions.Thresholds{}) {
		o.Thresholds = d.Thresholds
	}
	if o.Keywords == nil {
		o.Keywords = d.Keywords
	}
	return o
}

// ViewResult holds everything produced for one drawing view.
type ViewResult struct {
	View       view.View             `json:"view"`
	Width      int                   `json:"width"`
	Height     int                   `json:"height"`
	Contours   []geometry.Contour    `json:"-"`
	Classified []classify.Classified `json:"classified"`
	Polylines  []geometry.Polyline   `json:"polylines"`
}

// Summary counts contours per role.
func (r *ViewResult) Summary() map[classify.Role]int {
	return classify.Summary(r.Classified)
}

// Result is the outcome of page-mode processing.
type Result struct {
	Width      int                       `json:"width"`
	Height     int                       `json:"height"`
	Candidates []geometry.Candidate      `json:"candidates"`
	Assignment regions.ViewAssignment    `json:"assignment"`
	Views      map[view.View]*ViewResult `json:"views"`
	Labels     regions.LabelAssignment   `json:"labels,omitempty"`
}

// ProcessView classifies and simplifies the contours of one view traced from
// a width x height canvas.
//
// Classified has one entry per contour in input order. Polylines keeps input
// order but omits contours that simplify to fewer than two points. The only
// error is cancellation of ctx.
func ProcessView(ctx context.Context, v view.View, contours []geometry.Contour, width, height int, opts Options) (*ViewResult, error) {
	opts = opts.normalized()
	logCtx := slog.With("view", v.String(), "contours", len(contours))
	if v == view.Unknown && len(contours) > 0 {
		logCtx.Warn("Unrecognized view; contours left unassigned.")
	}

	classified := make([]classify.Classified, len(contours))
	polylines := make([]geometry.Polyline, len(contours))
	kept := make([]bool, len(contours))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(opts.Workers)

	for i, c := range contours {
		i, c := i, c
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			cc := classify.One(v, c, float64(width), float64(height), opts.Rules)
			classified[i] = cc

			pl, ok := simplify.Polyline(c, opts.Tolerance)
			if !ok {
				return nil
			}
			pl.Layer = cc.Layer
			pl.Color = cc.Color
			polylines[i] = pl
			kept[i] = true
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("processing %s view: %w", v, err)
	}

	out := make([]geometry.Polyline, 0, len(polylines))
	for i, pl := range polylines {
		if kept[i] {
			out = append(out, pl)
		}
	}

	logCtx.Debug("Processed view", "polylines", len(out), "tolerance", opts.Tolerance)
	return &ViewResult{
		View:       v,
		Width:      width,
		Height:     height,
		Contours:   contours,
		Classified: classified,
		Polylines:  out,
	}, nil
}

// ProcessImage traces img as a single view and processes the contours.
func ProcessImage(ctx context.Context, tracer detection.Tracer, img image.Image, v view.View, opts Options) (*ViewResult, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	b := img.Bounds()
	contours := tracer.Contours(img, v.String())
	return ProcessView(ctx, v, contours, b.Dx(), b.Dy(), opts)
}

// ProcessPage splits a full sheet into views and processes each one.
//
// When labels are supplied, caption words pick the region of every view they
// name and the shape rules only fill the rest. Without labels the shape rules
// decide alone.
func ProcessPage(ctx context.Context, tracer detection.Tracer, img image.Image, labels []regions.Label, opts Options) (*Result, error) {
	opts = opts.normalized()
	b := img.Bounds()

	cands := tracer.Candidates(img)
	res := &Result{
		Width:      b.Dx(),
		Height:     b.Dy(),
		Candidates: cands,
		Views:      make(map[view.View]*ViewResult),
	}

	if len(labels) > 0 {
		res.Labels = regions.AssignByLabels(labels, opts.Keywords)
		res.Assignment = regions.AnchorLabels(res.Labels, cands, opts.Thresholds)
	} else {
		res.Assignment = regions.Assign(cands, opts.Thresholds)
	}

	slog.Info("Assigned page regions", "candidates", len(cands),
		"views", len(res.Assignment), "captions", len(res.Labels))

	for _, v := range res.Assignment.Views() {
		cand, _ := res.Assignment.Get(v)
		crop, err := imaging.CropBox(img, cand.Box)
		if err != nil {
			return nil, fmt.Errorf("cropping %s view: %w", v, err)
		}
		vr, err := ProcessImage(ctx, tracer, crop, v, opts)
		if err != nil {
			return nil, err
		}
		res.Views[v] = vr
	}
	return res, nil
}
