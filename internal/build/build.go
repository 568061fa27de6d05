package build

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/bezos-os/bzbuild/internal/paths"
	"github.com/bezos-os/bzbuild/internal/project"
	"github.com/bezos-os/bzbuild/internal/toolchain"
)

// Controls one invocation.
type Options struct {
	Project  project.Project    // Build description.
	Catalog  *Catalog           // Targets. Defaults to DefaultCatalog(Project).
	Tokens   []string           // Command line tokens.
	Executor toolchain.Executor // Runs external tools.
	Client   *http.Client       // Used by firmware targets. Defaults to http.DefaultClient.
	Stdout   io.Writer          // Receives the help listing.
}

// Outcome of one target.
type Result struct {
	Target   string              // Target name.
	Dir      string              // Target build directory.
	Artifact string              // Final artifact, empty if the target failed.
	Outcomes []toolchain.Outcome // Every tool invocation, in order.
	Duration time.Duration       // Wall time of the pipeline.
	Halt     bool                // The target ended the invocation.
}

// Outcome of one invocation.
type Report struct {
	Help    bool     // The catalog was listed; nothing was built.
	Release bool     // Optimization flags were applied.
	Results []Result // One per target that started, in run order.
	Halted  bool     // A firmware target ended the invocation early.
}

// Holds shared state for running the requested targets.
type runner struct {
	project project.Project
	cfg     toolchain.Config
	exec    toolchain.Executor
	client  *http.Client
}

// Runs the targets requested by opts.Tokens.
//
// A help request lists the catalog to opts.Stdout and touches nothing on
// disk. Otherwise the requested targets run in catalog order. The first
// failure stops the invocation and is returned with the report of
// everything that ran, including the failed target.
func Run(ctx context.Context, opts Options) (*Report, error) {
	catalog := opts.Catalog
	if catalog == nil {
		c, err := DefaultCatalog(opts.Project)
		if err != nil {
			return nil, err
		}
		catalog = c
	}

	req, err := ParseRequest(catalog, opts.Tokens)
	if err != nil {
		return nil, err
	}

	if req.Help {
		out := opts.Stdout
		if out == nil {
			out = io.Discard
		}
		return &Report{Help: true}, catalog.Describe(out)
	}

	r := &runner{
		project: opts.Project,
		cfg:     configFor(opts.Project, req.Release),
		exec:    opts.Executor,
		client:  opts.Client,
	}

	report := &Report{Release: req.Release}

	if req.Len() == 0 {
		slog.Warn("no targets requested")
		return report, nil
	}

	slog.Info("starting build",
		"targets", req.Len(),
		"release", req.Release,
		"build-dir", opts.Project.BuildDir,
	)

	for _, t := range catalog.Targets() {
		if !req.Wants(t.Name) {
			continue
		}

		res, err := r.runTarget(ctx, t)
		report.Results = append(report.Results, res)
		if err != nil {
			return report, fmt.Errorf("%w: target %s: %w", ErrBuild, t.Name, err)
		}

		if res.Halt {
			report.Halted = true
			break
		}
	}

	return report, nil
}

// Builds the immutable toolchain configuration for one invocation.
func configFor(p project.Project, release bool) toolchain.Config {
	return toolchain.Config{
		Tools:       p.Tools,
		IncludeDirs: p.IncludeDirs,
		Env:         p.Env,
		Release:     release,
		Timeout:     p.Timeout,
	}
}

// Prepares the target directory and runs the target's pipeline with a
// fresh driver, so that each result carries only its own outcomes.
func (r *runner) runTarget(ctx context.Context, t Target) (Result, error) {
	res := Result{Target: t.Name}
	start := time.Now()

	dir, err := paths.EnsureTarget(r.project.BuildDir, t.Name)
	if err != nil {
		return res, err
	}
	res.Dir = dir

	p := r.pipelineFor(t.Kind)
	if p == nil {
		return res, fmt.Errorf("%w: target %q has %v", ErrCatalog, t.Name, t.Kind)
	}

	slog.Info(fmt.Sprintf("building target %s", t.Name), "kind", t.Kind, "dir", dir, "sources", len(t.Sources))

	drv := toolchain.NewDriver(r.cfg, r.exec)
	artifact, halt, err := p.run(ctx, drv, t, dir)

	res.Outcomes = drv.Outcomes()
	res.Duration = time.Since(start)
	if err != nil {
		return res, err
	}

	res.Artifact = artifact
	res.Halt = halt

	slog.Info(fmt.Sprintf("target %s finished", t.Name), "artifact", artifact, "duration", res.Duration.Truncate(time.Millisecond))
	return res, nil
}
