//go:build opencv

package detection

// Backend names the tracer New builds.
const Backend = "opencv"

// New returns the tracer compiled into this binary.
func New(opts Options) Tracer {
	return NewOpenCVTracer(opts)
}
