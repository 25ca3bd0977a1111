package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"time"

	"salesclean/internal/cleaner"
	"salesclean/internal/config"
	"salesclean/internal/metrics"
	"salesclean/internal/metrics/datadog"
	"salesclean/internal/metrics/prompush"

	// register all backends with the storage factory.
	_ "salesclean/internal/storage/all"
)

// errInvalidConfig is returned after the config issues have been printed.
var errInvalidConfig = errors.New("configuration is invalid")

// main cleans one sales CSV: it builds the pipeline from -config or from
// -in/-out, validates it, optionally sets up metrics, and runs it.
func main() {
	if err := run(context.Background(), os.Args[1:], os.Stderr); err != nil {
		fatalf("salesclean: %v", err)
	}
}

func run(ctx context.Context, args []string, stderr io.Writer) error {
	fs := flag.NewFlagSet("salesclean", flag.ContinueOnError)
	fs.SetOutput(stderr)
	var (
		cfgPath        = fs.String("config", "", "pipeline config path (.json, .yaml or .yml)")
		in             = fs.String("in", "", "input CSV path (overrides source.file.path)")
		out            = fs.String("out", "", "cleaned CSV path (overrides output.path)")
		rejects        = fs.String("rejects", "", "rejected rows CSV path (overrides output.rejects_path)")
		validate       = fs.Bool("validate", false, "validate the configuration and exit")
		verbose        = fs.Bool("v", false, "enable verbose logs")
		metricsBackend = fs.String("metrics-backend", "", "metrics backend: none, pushgateway or datadog (default env METRICS_BACKEND)")
		pushURL        = fs.String("pushgateway-url", "", "Pushgateway base URL (default env PUSHGATEWAY_URL)")
		statsdAddr     = fs.String("statsd-addr", "", "DogStatsD address (default env STATSD_ADDR)")
	)
	if err := fs.Parse(args); err != nil {
		return err
	}

	p, err := buildPipeline(*cfgPath, *in, *out, *rejects)
	if err != nil {
		return err
	}

	issues := config.ValidatePipeline(p)
	for _, iss := range issues {
		fmt.Fprintf(stderr, "%s: %s: %s\n", iss.Severity, iss.Path, iss.Message)
	}
	if config.HasErrors(issues) {
		return errInvalidConfig
	}
	if *validate {
		log.Printf("configuration is valid: %s -> %s", p.Source.File.Path, p.Output.Path)
		return nil
	}

	flush, err := setupMetrics(firstNonEmpty(*metricsBackend, os.Getenv("METRICS_BACKEND")),
		p.Job,
		firstNonEmpty(*pushURL, os.Getenv("PUSHGATEWAY_URL"), "http://localhost:9091"),
		firstNonEmpty(*statsdAddr, os.Getenv("STATSD_ADDR"), "127.0.0.1:8125"),
		*verbose)
	if err != nil {
		return err
	}
	defer flush()

	start := time.Now()
	if *verbose {
		log.Printf("pipeline: job=%s source=%s parser=%s storage=%s table=%s",
			p.Job, p.Source.Kind, p.Parser.Kind, p.Storage.Kind, p.Storage.DB.Table)
	}
	if _, err := cleaner.Run(ctx, p); err != nil {
		return err
	}
	if *verbose {
		log.Printf("completed in %s", time.Since(start).Truncate(time.Millisecond))
	}
	return nil
}

// buildPipeline loads cfgPath, or builds a default pipeline when it is
// empty, then applies the path flags.
func buildPipeline(cfgPath, in, out, rejects string) (config.Pipeline, error) {
	var p config.Pipeline
	if cfgPath == "" {
		if in == "" || out == "" {
			return p, errors.New("either -config or both -in and -out are required")
		}
		p = config.Default(in, out)
	} else {
		var err error
		if p, err = config.Load(cfgPath); err != nil {
			return p, err
		}
	}
	if in != "" {
		p.Source.File.Path = in
	}
	if out != "" {
		p.Output.Path = out
	}
	if rejects != "" {
		p.Output.RejectsPath = rejects
	}
	return p, nil
}

// setupMetrics installs the named backend and returns the function that
// flushes it at exit.
func setupMetrics(name, job, pushURL, statsdAddr string, verbose bool) (func(), error) {
	flush := func() {
		if err := metrics.Flush(); err != nil {
			log.Printf("metrics: flush error: %v", err)
		}
	}
	switch name {
	case "pushgateway":
		b, err := prompush.NewBackend(job, pushURL)
		if err != nil {
			return nil, fmt.Errorf("metrics: init pushgateway backend: %w", err)
		}
		log.Printf("metrics: url=%v, backend=%v, job_name=%v", pushURL, name, job)
		metrics.SetBackend(b)
		return flush, nil

	case "datadog":
		b, err := datadog.NewBackend(datadog.Config{Addr: statsdAddr, Tags: []string{"job:" + job}})
		if err != nil {
			return nil, fmt.Errorf("metrics: init datadog backend: %w", err)
		}
		log.Printf("metrics: addr=%v, backend=%v, job_name=%v", statsdAddr, name, job)
		metrics.SetBackend(b)
		return func() {
			flush()
			_ = b.Close()
		}, nil

	case "", "none":
		if verbose {
			log.Printf("metrics: disabled (backend=%q)", name)
		}
		return func() {}, nil

	default:
		return nil, fmt.Errorf("unknown metrics backend %q", name)
	}
}

func firstNonEmpty(vals ...string) string {
	for _, v := range vals {
		if v != "" {
			return v
		}
	}
	return ""
}

func fatalf(format string, a ...any) {
	fmt.Fprintf(os.Stderr, format+"\n", a...)
	os.Exit(1)
}
