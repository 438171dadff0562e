package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/alitto/pond"
	"github.com/fatih/color"
	"github.com/iancoleman/strcase"
	"github.com/klothoplatform/archdiagram/pkg/export"
	"github.com/klothoplatform/archdiagram/pkg/generator"
	archio "github.com/klothoplatform/archdiagram/pkg/io"
	"github.com/klothoplatform/archdiagram/pkg/logging"
	"github.com/klothoplatform/archdiagram/pkg/set"
	"github.com/pkg/errors"
	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"
	"go.uber.org/atomic"
	"go.uber.org/zap"
)

type (
	generateOptions struct {
		prompt  string
		outDir  string
		formats []string
		workers int
	}

	// generateJob is one description to turn into a diagram. name is used as the output sub-directory when
	// several descriptions are generated together.
	generateJob struct {
		name        string
		description string

		result *generator.Result
		err    error
	}
)

func newGenerateCmd() *cobra.Command {
	var opts generateOptions
	cmd := &cobra.Command{
		Use:   "generate [description files...]",
		Short: "Generate diagrams for one or more architecture descriptions",
		Example: `  archdiagram generate --prompt "A React SPA on S3 behind CloudFront calling an API Gateway backed by Lambda"
  archdiagram generate -o out --format mermaid --format svg web-app.txt data-lake.txt`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runGenerate(cmd, opts, args)
		},
	}
	flags := cmd.Flags()
	flags.StringVarP(&opts.prompt, "prompt", "p", "", "Architecture description text")
	flags.StringVarP(&opts.outDir, "output", "o", ".", "Directory to write results to")
	flags.StringSliceVarP(&opts.formats, "format", "f", []string{string(export.Mermaid)},
		fmt.Sprintf("Export formats (%s)", strings.Join(export.Names(), ", ")))
	flags.IntVar(&opts.workers, "workers", 4, "Number of descriptions to generate concurrently")
	return cmd
}

func runGenerate(cmd *cobra.Command, opts generateOptions, args []string) error {
	formats := make([]export.Format, len(opts.formats))
	for i, f := range opts.formats {
		format, err := export.ParseFormat(f)
		if err != nil {
			return err
		}
		formats[i] = format
	}

	jobs, err := readJobs(opts.prompt, args)
	if err != nil {
		return err
	}

	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	ctx := cmd.Context()
	gen, err := newGenerator(ctx, cfg)
	if err != nil {
		return err
	}

	runJobs(ctx, gen, jobs, opts.workers)

	files, err := jobFiles(ctx, jobs, formats)
	if err != nil {
		return err
	}
	if err := archio.OutputTo(files, opts.outDir); err != nil {
		return err
	}
	for _, f := range files {
		zap.L().Debug("Wrote result", logging.FileField(f))
	}

	return summarize(cmd.ErrOrStderr(), jobs, opts.outDir)
}

// readJobs loads each description. Job names are unique: a repeated name gets a numeric suffix so that files with
// the same base name in different directories do not overwrite each other's results.
func readJobs(prompt string, paths []string) ([]*generateJob, error) {
	var jobs []*generateJob
	names := make(set.Set[string])
	if prompt != "" {
		names.Add("prompt")
		jobs = append(jobs, &generateJob{name: "prompt", description: prompt})
	}
	for _, p := range paths {
		ref := &archio.FileRef{FPath: filepath.Base(p), RootDir: filepath.Dir(p)}
		var sb strings.Builder
		if _, err := ref.WriteTo(&sb); err != nil {
			return nil, errors.Wrapf(err, "could not read description %s", p)
		}
		base := strings.TrimSuffix(ref.Path(), filepath.Ext(ref.Path()))
		jobs = append(jobs, &generateJob{name: uniqueName(names, strcase.ToKebab(base)), description: sb.String()})
	}
	if len(jobs) == 0 {
		return nil, errors.New("provide a description with --prompt or at least one description file")
	}
	return jobs, nil
}

func uniqueName(names set.Set[string], name string) string {
	candidate := name
	for i := 2; !names.AddNew(candidate); i++ {
		candidate = fmt.Sprintf("%s-%d", name, i)
	}
	return candidate
}

// runJobs generates every job on a bounded worker pool, recording each outcome on the job.
func runJobs(ctx context.Context, gen *generator.Generator, jobs []*generateJob, workers int) {
	if workers < 1 {
		workers = 1
	}
	bar := progressbar.NewOptions(len(jobs),
		progressbar.OptionSetWriter(os.Stderr),
		progressbar.OptionSetDescription("Generating diagrams"),
		progressbar.OptionShowCount(),
		progressbar.OptionClearOnFinish(),
	)
	var failed atomic.Int32

	pool := pond.New(workers, len(jobs))
	for _, job := range jobs {
		job := job
		pool.Submit(func() {
			log := zap.L().With(zap.String("job", job.name))
			job.result, job.err = gen.Generate(logging.WithLogger(ctx, log), job.description)
			if job.err != nil {
				failed.Inc()
				log.Debug("Generation failed", zap.Error(job.err))
			}
			_ = bar.Add(1)
		})
	}
	pool.StopAndWait()
	_ = bar.Finish()

	zap.L().Debug("Finished generating", zap.Int("jobs", len(jobs)), zap.Int32("failed", failed.Load()))
}

func jobFiles(ctx context.Context, jobs []*generateJob, formats []export.Format) ([]archio.File, error) {
	nested := len(jobs) > 1
	var files []archio.File
	for _, job := range jobs {
		if job.err != nil {
			continue
		}
		for _, f := range formats {
			file, err := export.Export(ctx, job.result, f)
			if err != nil {
				return nil, errors.Wrapf(err, "could not export %s as %s", job.name, f)
			}
			if nested {
				file = archio.InDir(job.name, file)
			}
			files = append(files, file)
		}
	}
	return files, nil
}

func summarize(w io.Writer, jobs []*generateJob, outDir string) error {
	ok := color.New(color.FgGreen)
	bad := color.New(color.FgRed)
	failed := 0
	for _, job := range jobs {
		if job.err != nil {
			failed++
			bad.Fprintf(w, "✗ %s: %s\n", job.name, generator.FailureMessage(job.err))
			continue
		}
		ok.Fprintf(w, "✓ %s: %d services, %d relationships\n",
			job.name, len(job.result.Architecture.Services), len(job.result.Architecture.Relationships))
	}
	if failed > 0 {
		return errors.Errorf("%d of %d descriptions failed", failed, len(jobs))
	}
	fmt.Fprintf(w, "Results written to %s\n", outDir)
	return nil
}
