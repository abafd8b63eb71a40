package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/ironsheep/ga-vector-mcp/internal/config"
	"github.com/ironsheep/ga-vector-mcp/internal/detection"
	"github.com/ironsheep/ga-vector-mcp/internal/dxf"
	"github.com/ironsheep/ga-vector-mcp/internal/pipeline"
	"github.com/ironsheep/ga-vector-mcp/internal/server"
	"github.com/ironsheep/ga-vector-mcp/internal/watch"
)

// Version information - set by ldflags during build
var (
	Version   = "dev"
	BuildTime = "unknown"
	GitCommit = "unknown"
)

func main() {
	// Handle --version and -v flags
	if len(os.Args) > 1 {
		switch os.Args[1] {
		case "--version", "-v", "version":
			fmt.Printf("ga-vector-mcp %s\n", Version)
			fmt.Printf("  Build time: %s\n", BuildTime)
			fmt.Printf("  Git commit: %s\n", GitCommit)
			fmt.Printf("  Tracer:     %s\n", detection.Backend)
			return
		case "--help", "-h", "help":
			printHelp()
			return
		}
	}

	cfg := config.Load()

	// Configure logging to stderr (stdout is for MCP protocol)
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: cfg.LogLevel})))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if len(os.Args) > 1 && os.Args[1] == "watch" {
		if len(os.Args) != 3 {
			fmt.Fprintln(os.Stderr, "usage: ga-vector-mcp watch <dir>")
			os.Exit(2)
		}
		if err := runWatch(ctx, cfg, os.Args[2]); err != nil {
			slog.Error("Watch failed", "error", err)
			os.Exit(1)
		}
		return
	}

	slog.Debug("GA vector MCP server", "version", Version, "built", BuildTime,
		"commit", GitCommit, "tracer", detection.Backend)

	server.Version = Version
	srv := server.New(cfg)
	if err := srv.Run(ctx); err != nil && ctx.Err() == nil {
		slog.Error("Server error", "error", err)
		os.Exit(1)
	}
}

func runWatch(ctx context.Context, cfg config.Config, dir string) error {
	tracer := detection.New(server.TracerOptions(cfg))
	process := watch.PageProcessor(tracer, pipeline.NewOptions(cfg), dxf.Options{
		Scale:          cfg.Scale,
		CloseTolerance: cfg.CloseTolerance,
		EmitLayers:     true,
	})

	w, err := watch.New(dir, watch.Options{Process: process})
	if err != nil {
		return err
	}
	return w.Run(ctx)
}

func printHelp() {
	fmt.Println("ga-vector-mcp - vectorize General Arrangement drawings to DXF")
	fmt.Println()
	fmt.Println("Usage:")
	fmt.Println("  ga-vector-mcp               Serve MCP over stdin/stdout")
	fmt.Println("  ga-vector-mcp watch <dir>   Write DXF files for drawings dropped into <dir>")
	fmt.Println()
	fmt.Println("Options:")
	fmt.Println("  --version, -v    Print version information")
	fmt.Println("  --help, -h       Print this help message")
	fmt.Println()
	fmt.Println("Environment variables:")
	fmt.Println("  GA_MCP_LOG_LEVEL=debug           debug, info, warn or error")
	fmt.Println("  GA_MCP_TOLERANCE=2.0             Simplification tolerance in pixels")
	fmt.Println("  GA_MCP_SCALE=1.0                 Drawing units per pixel")
	fmt.Println("  GA_MCP_CLOSE_TOLERANCE=1.5       Closure distance in drawing units")
	fmt.Println("  GA_MCP_WORKERS=<cpus>            Contours processed in parallel")
	fmt.Println("  GA_MCP_MIN_AREA_FRACTION=0.0005  Smallest view region, share of page")
	fmt.Println("  GA_MCP_MIN_SIDE_FRACTION=0.05    Narrowest view region, share of page side")
	fmt.Println("  GA_MCP_CANNY_LOW=50              Edge detection low threshold")
	fmt.Println("  GA_MCP_CANNY_HIGH=150            Edge detection high threshold")
	fmt.Println("  GA_MCP_OCR_LANGUAGE=eng          Tesseract language for view captions")
	fmt.Println("  GA_MCP_TESSDATA_PREFIX=<path>    Tesseract data directory")
	fmt.Println()
	fmt.Println("In server mode, configure it in your MCP client (e.g., Claude Desktop).")
}
