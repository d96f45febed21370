package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"math/rand/v2"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/ironsheep/textart-gen/internal/charset"
	"github.com/ironsheep/textart-gen/internal/imaging"
	"github.com/ironsheep/textart-gen/internal/server"
	"github.com/ironsheep/textart-gen/internal/synth"
	"github.com/ironsheep/textart-gen/internal/typeset"
)

// Version information - set by ldflags during build
var (
	Version   = "dev"
	BuildTime = "unknown"
	GitCommit = "unknown"
)

const logLevelEnv = "TEXTART_LOG_LEVEL"

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	os.Exit(run(ctx, os.Args[1:], os.Stdin, os.Stdout, os.Stderr))
}

// run executes one command line and returns the process exit code.
func run(ctx context.Context, args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	logger := newLogger(stderr, os.Getenv(logLevelEnv))

	if len(args) > 0 {
		switch args[0] {
		case "--version", "-version", "version":
			fmt.Fprintf(stdout, "textart-gen %s\n", Version)
			fmt.Fprintf(stdout, "  Build time: %s\n", BuildTime)
			fmt.Fprintf(stdout, "  Git commit: %s\n", GitCommit)
			return 0
		case "serve":
			// stdout carries the protocol; logs stay on stderr
			logger.Info("starting tool server", "version", Version)
			srv := server.New(server.WithLogger(logger), server.WithVersion(Version))
			if err := srv.Serve(ctx, stdin, stdout); err != nil && !errors.Is(err, context.Canceled) {
				logger.Error("server error", "error", err)
				return 1
			}
			return 0
		}
	}

	cfg, err := parseFlags(args, stderr)
	if errors.Is(err, flag.ErrHelp) {
		return 0
	}
	if err != nil {
		fmt.Fprintf(stderr, "textart-gen: %v\n", err)
		return 2
	}

	g := synth.NewFromOptions(cfg.charset, cfg.rng(), synth.WithLogger(logger))
	report, err := g.Generate(ctx, cfg.req)
	if report != nil {
		printReport(stdout, report, cfg.asJSON)
	}
	if err != nil {
		logger.Error("generation failed", "error", err)
		return 1
	}
	return 0
}

// newLogger builds the stderr logger. level is one of debug, info, warn or
// error; anything else means info.
func newLogger(w io.Writer, level string) *slog.Logger {
	var l slog.Level
	if err := l.UnmarshalText([]byte(strings.TrimSpace(level))); err != nil {
		l = slog.LevelInfo
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: l}))
}

type config struct {
	req     synth.Request
	charset charset.Options
	seed    uint64
	seeded  bool
	asJSON  bool
}

func (c config) rng() *rand.Rand {
	if !c.seeded {
		return nil
	}
	return rand.New(rand.NewPCG(c.seed, c.seed))
}

// colorFlag is an optional color; nil until set.
type colorFlag struct{ c *imaging.Color }

func (f *colorFlag) String() string {
	if f.c == nil {
		return ""
	}
	return f.c.Hex()
}

func (f *colorFlag) Set(s string) error {
	c, err := imaging.ParseColor(s)
	if err != nil {
		return err
	}
	f.c = &c
	return nil
}

func parseFlags(args []string, stderr io.Writer) (config, error) {
	cfg := config{req: synth.DefaultRequest()}
	req := &cfg.req

	fs := flag.NewFlagSet("textart-gen", flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.Usage = func() {
		fmt.Fprintln(stderr, "textart-gen - generate random text images for OCR training")
		fmt.Fprintln(stderr)
		fmt.Fprintln(stderr, "Usage:")
		fmt.Fprintln(stderr, "  textart-gen -width W -height H [options]   write one batch")
		fmt.Fprintln(stderr, "  textart-gen serve                          MCP tool server on stdin/stdout")
		fmt.Fprintln(stderr, "  textart-gen --version")
		fmt.Fprintln(stderr)
		fmt.Fprintln(stderr, "Options:")
		fs.PrintDefaults()
		fmt.Fprintln(stderr)
		fmt.Fprintln(stderr, "Environment variables:")
		fmt.Fprintf(stderr, "  %s=debug|info|warn|error    Log level (default info)\n", logLevelEnv)
	}

	var (
		charsets     string
		mode         string
		filenameMode string
		fg, bg       colorFlag
	)
	fs.IntVar(&req.Width, "width", 0, "image width in pixels (required)")
	fs.IntVar(&req.Height, "height", 0, "image height in pixels (required)")
	fs.StringVar(&req.FontPath, "font", typeset.BuiltinPrefix+"goregular", "font file (path[#index]) or builtin:goregular, builtin:gomono")
	fs.IntVar(&req.Count, "count", req.Count, "number of images")
	fs.IntVar(&req.TextLength, "length", req.TextLength, "characters per image")
	fs.StringVar(&mode, "mode", string(req.Mode), "color mode: rgb or gray")
	fs.Var(&fg, "font-color", "text color as #RRGGBB, r,g,b or gray level (default random in rgb, black in gray)")
	fs.Var(&bg, "background", "background color (default white)")
	fs.StringVar(&req.OutputDir, "output", req.OutputDir, "output directory")
	fs.StringVar(&filenameMode, "filename-mode", string(req.FilenameMode), "numbered or text")
	fs.StringVar(&req.Format, "format", req.Format, "image format: jpg, png, gif, bmp, tiff")
	fs.StringVar(&req.LabelsFile, "labels", "", "write a labels manifest with this name (relative to -output)")
	fs.Float64Var(&req.BlurRadius, "blur", 0, "gaussian blur radius")
	fs.BoolVar(&req.ContinueOnWriteError, "continue-on-error", false, "record failed writes and keep going")
	fs.StringVar(&charsets, "charset", "", "character sets: "+strings.Join(charset.SetNames(), ",")+" (default alphabet)")
	fs.Uint64Var(&cfg.seed, "seed", 0, "random seed (default: random)")
	fs.BoolVar(&cfg.asJSON, "json", false, "print the batch report as JSON")

	if err := fs.Parse(args); err != nil {
		return cfg, err
	}
	if fs.NArg() > 0 {
		return cfg, fmt.Errorf("unexpected argument %q", fs.Arg(0))
	}
	charsetSet := false
	fs.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "seed":
			cfg.seeded = true
		case "charset":
			charsetSet = true
		}
	})

	cfg.charset = charset.DefaultOptions()
	if charsetSet {
		opts, err := charset.ParseOptions(charsets)
		if err != nil {
			return cfg, err
		}
		cfg.charset = opts
	}

	req.Mode = imaging.ColorMode(mode)
	req.FilenameMode = synth.FilenameMode(filenameMode)
	req.FontColor, req.Background = fg.c, bg.c
	return cfg, nil
}

func printReport(w io.Writer, r *synth.Report, asJSON bool) {
	if asJSON {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		_ = enc.Encode(r)
		return
	}
	fmt.Fprintf(w, "wrote %d images to %s\n", len(r.Written), r.OutputDir)
	if r.LabelsPath != "" {
		fmt.Fprintf(w, "labels: %s\n", r.LabelsPath)
	}
	for _, f := range r.Failures {
		fmt.Fprintf(w, "skipped #%d %q: %s\n", f.Index, f.Text, f.Message)
	}
}
