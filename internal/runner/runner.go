// Package runner drives generation over the schema files matched by a glob
// and writes the generated modules under an output directory.
package runner

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/rs/zerolog"

	"github.com/reoring/schemats"
	"github.com/reoring/schemats/internal/config"
	"github.com/reoring/schemats/internal/naming"
	"github.com/reoring/schemats/jsonschema"
)

// Runner processes schema files according to a configuration.
type Runner struct {
	cfg     *config.Config
	stdout  io.Writer
	stderr  io.Writer
	logger  zerolog.Logger
	metrics *Metrics
}

// New returns a runner. Progress goes to stdout, diagnostics to stderr.
func New(cfg *config.Config, stdout, stderr io.Writer, logger zerolog.Logger) *Runner {
	return &Runner{
		cfg:     cfg,
		stdout:  stdout,
		stderr:  stderr,
		logger:  logger,
		metrics: NewMetrics(),
	}
}

// Metrics returns the metrics collected so far.
func (r *Runner) Metrics() *Metrics { return r.metrics }

// Result describes one processed file.
type Result struct {
	InputFile   string
	DocumentURI string
	OutputFile  string
	Written     bool
	Issues      schemats.Issues
}

// Files returns the input files matching the configured glob, sorted.
func (r *Runner) Files() ([]string, error) {
	files, err := doublestar.FilepathGlob(r.cfg.InputFile)
	if err != nil {
		return nil, fmt.Errorf("glob %q: %w", r.cfg.InputFile, err)
	}
	slices.Sort(files)
	return files, nil
}

// Run processes every matching file in order. The first failure stops the
// run unless ContinueOnError is set, in which case all failures are joined.
func (r *Runner) Run(ctx context.Context) error {
	files, err := r.Files()
	if err != nil {
		return err
	}
	fmt.Fprintf(r.stdout, "Converting %d schema files from %s.\n", len(files), r.cfg.InputFile)

	var errs []error
	for _, f := range files {
		if err := ctx.Err(); err != nil {
			errs = append(errs, err)
			break
		}
		if _, err := r.ProcessFile(f); err != nil {
			abs, _ := filepath.Abs(f)
			fmt.Fprintf(r.stderr, "schemats crash while processing %s\n", abs)
			errs = append(errs, fmt.Errorf("%s: %w", f, err))
			if !r.cfg.ContinueOnError {
				break
			}
		}
	}
	r.metrics.LastRun.SetToCurrentTime()
	if r.cfg.MetricsTextfile != "" {
		if err := r.metrics.WriteTextfile(r.cfg.MetricsTextfile); err != nil {
			errs = append(errs, fmt.Errorf("write metrics: %w", err))
		}
	}
	return errors.Join(errs...)
}

// ProcessFile generates the module of one schema file and, when emitting,
// writes it below the output directory.
func (r *Runner) ProcessFile(inputFile string) (Result, error) {
	start := time.Now()
	res, err := r.process(inputFile)
	r.metrics.Duration.Observe(time.Since(start).Seconds())
	if err != nil {
		r.metrics.Files.WithLabelValues("failed").Inc()
		r.logger.Error().Err(err).Str("file", inputFile).Msg("generation failed")
		return res, err
	}
	r.metrics.Files.WithLabelValues("ok").Inc()
	for _, sev := range []string{schemats.SeverityInfo, schemats.SeverityWarning, schemats.SeverityError} {
		if n := res.Issues.Count(sev); n > 0 {
			r.metrics.Diagnostics.WithLabelValues(sev).Add(float64(n))
		}
	}
	r.logger.Info().Str("file", inputFile).Str("output", res.OutputFile).Bool("written", res.Written).Msg("generated")
	return res, nil
}

func (r *Runner) process(inputFile string) (Result, error) {
	res := Result{InputFile: inputFile}
	schema, err := jsonschema.Load(inputFile)
	if err != nil {
		return res, err
	}
	uri, err := DocumentURI(schema, inputFile)
	if err != nil {
		return res, err
	}
	res.DocumentURI = uri
	if !strings.HasPrefix(uri, r.cfg.Base) {
		fmt.Fprintf(r.stderr, "Document URI %s is outside of output base.\n", uri)
	}
	res.OutputFile = OutputPath(r.cfg.OutputDir, r.cfg.Base, uri)

	m, err := schemats.Generate(schema, schemats.Options{
		Import:              r.cfg.Import,
		DocumentURI:         uri,
		InputFile:           inputFile,
		Base:                r.cfg.Base,
		ImportHashLength:    r.cfg.ImportHashLength,
		ImportHashAlgorithm: r.cfg.ImportHashAlgorithm,
		Strict:              r.cfg.Strict,
		MaskNull:            r.cfg.MaskNull,
		Logger:              r.logger,
	}, r.stderr)
	if err != nil {
		return res, err
	}
	res.Issues = m.Issues()
	if r.cfg.ShouldEmit() {
		if err := write(res.OutputFile, m); err != nil {
			return res, err
		}
		res.Written = true
	}
	fmt.Fprint(r.stdout, r.cfg.QED)
	return res, nil
}

// DocumentURI is the schema's $id without fragment, or the file URI of
// inputFile when there is none.
func DocumentURI(schema *jsonschema.Value, inputFile string) (string, error) {
	uri, ok := schema.StringAt("$id")
	if !ok {
		abs, err := filepath.Abs(inputFile)
		if err != nil {
			return "", err
		}
		uri = "file://" + filepath.ToSlash(abs)
	}
	uri, _, _ = strings.Cut(uri, "#")
	return uri, nil
}

// OutputPath maps a document URI to its .ts file below outputDir. URIs under
// base keep their path relative to it; others keep everything after the
// scheme.
func OutputPath(outputDir, base, documentURI string) string {
	rel, ok := strings.CutPrefix(documentURI, base)
	if !ok {
		if _, after, found := strings.Cut(documentURI, "://"); found {
			rel = after
		}
	}
	return filepath.Join(outputDir, filepath.FromSlash(naming.TrimSchemaSuffix(rel))+".ts")
}

func write(path string, m *schemats.Module) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create output dir: %w", err)
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create output: %w", err)
	}
	if _, err := m.WriteTo(f); err != nil {
		f.Close()
		return fmt.Errorf("write output: %w", err)
	}
	return f.Close()
}
