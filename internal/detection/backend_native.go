//go:build !opencv

package detection

// Backend names the tracer New builds.
const Backend = "native"

// New returns the tracer compiled into this binary. Build with -tags opencv
// to trace with OpenCV instead.
func New(opts Options) Tracer {
	return NewNativeTracer(opts)
}
