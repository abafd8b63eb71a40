package pipeline

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/ironsheep/ga-vector-mcp/internal/dxf"
	"github.com/ironsheep/ga-vector-mcp/internal/view"
)

// Document builds the DXF document of the view. The canvas height always
// comes from the view itself.
func (r *ViewResult) Document(opts dxf.Options) *dxf.Document {
	opts.CanvasHeight = float64(r.Height)
	return dxf.NewDocument(r.Polylines, opts)
}

// DXF serializes the view's polylines.
func (r *ViewResult) DXF(opts dxf.Options) []byte {
	return r.Document(opts).Bytes()
}

// DXFPath returns the output path of one view: dir/<base>_<view>.dxf.
func DXFPath(dir, base string, v view.View) string {
	return filepath.Join(dir, fmt.Sprintf("%s_%s.dxf", base, v))
}

// WriteDXF writes one DXF file per processed view and returns the paths in
// view order.
func (r *Result) WriteDXF(dir, base string, opts dxf.Options) ([]string, error) {
	paths := make([]string, 0, len(r.Views))
	for _, v := range view.All {
		vr, ok := r.Views[v]
		if !ok {
			continue
		}
		path := DXFPath(dir, base, v)
		if err := WriteFile(path, vr.DXF(opts)); err != nil {
			return paths, err
		}
		paths = append(paths, path)
	}
	return paths, nil
}

// WriteFile writes data next to path and renames it into place so readers
// never see a partial file.
func WriteFile(path string, data []byte) error {
	tmp, err := os.CreateTemp(filepath.Dir(path), "."+filepath.Base(path)+".*")
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", path, err)
	}
	tmpPath := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpPath)
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	if err := os.Chmod(tmpPath, 0o644); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	if err := os.Rename(tmpPath, path); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	return nil
}
