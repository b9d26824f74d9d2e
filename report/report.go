// Package report drives the whole pipeline: load the merge and bugfix csv
// tables, join them, collect diff statistics from the project working
// copies and write the html pages.
package report

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/ward/three-way-merge-finder/report/config"
	"github.com/ward/three-way-merge-finder/report/gitstat"
	"github.com/ward/three-way-merge-finder/report/htmlgen"
	"github.com/ward/three-way-merge-finder/report/overlap"
	"github.com/ward/three-way-merge-finder/report/pkg/logger"
	"github.com/ward/three-way-merge-finder/report/records"
)

// Opts is configuration for one report run.
type Opts struct {
	// DataDir is the directory holding the overview csv and the bugfixes
	// and merges subdirectories.
	DataDir string

	// Config carries file locations and run knobs, see the config package.
	Config config.Config

	// Logger object for info and debug.
	Logger logger.Logger
}

// ProjectResult is emitted after a project has been fully processed.
type ProjectResult struct {
	Project string
	// Merges is the number of merges with an immediate fix, which is also
	// the number of merge pages written.
	Merges int
	// Dropped is the number of merges without an immediate fix.
	Dropped int
	Elapsed time.Duration
}

// Generator runs the pipeline for one data dir.
type Generator struct {
	opts      Opts
	collector *gitstat.Collector
	renderer  *htmlgen.Renderer
}

func New(opts Opts) *Generator {
	if opts.Logger == nil {
		opts.Logger = logger.NewDefaultLogger(os.Stdout, false)
	}
	s := &Generator{}
	s.opts = opts
	c := gitstat.New(opts.Config.ReposDir)
	c.GitCommand = opts.Config.GitCommand
	c.CacheDir = opts.Config.CacheDir
	s.collector = c
	s.renderer = &htmlgen.Renderer{OutDir: opts.Config.OutDir}
	return s
}

// Run processes every project listed in the overview table and sends one
// ProjectResult per project. It closes res when done. The first error
// aborts the whole run.
//
// Projects are processed in parallel, bounded by Config.Concurrency, but a
// single project is always handled by one worker so git never runs twice
// concurrently against the same working copy.
func (s *Generator) Run(ctx context.Context, res chan<- ProjectResult) error {
	defer close(res)

	cfg := s.opts.Config
	if err := cfg.Validate(); err != nil {
		return err
	}

	projects, err := s.loadOverview()
	if err != nil {
		return err
	}

	if err := os.MkdirAll(cfg.OutDir, 0777); err != nil {
		return fmt.Errorf("could not create output dir %v: %v", cfg.OutDir, err)
	}

	if err := s.renderer.WriteIndex(projects); err != nil {
		return err
	}
	s.opts.Logger.Info("wrote index", "projects", len(projects))

	eg, egCtx := errgroup.WithContext(ctx)
	eg.SetLimit(cfg.Concurrency)
	for _, p := range projects {
		p := p
		eg.Go(func() error {
			start := time.Now()
			r, err := s.runProject(egCtx, p.Name)
			if err != nil {
				return fmt.Errorf("project %v: %v", p.Name, err)
			}
			r.Elapsed = time.Since(start)
			select {
			case res <- r:
			case <-egCtx.Done():
				return egCtx.Err()
			}
			return nil
		})
	}
	return eg.Wait()
}

// RunSlice is Run collecting the results into a slice.
func (s *Generator) RunSlice(ctx context.Context) (res []ProjectResult, _ error) {
	resChan := make(chan ProjectResult)
	done := make(chan bool)
	go func() {
		for r := range resChan {
			res = append(res, r)
		}
		done <- true
	}()
	err := s.Run(ctx, resChan)
	<-done
	return res, err
}

func (s *Generator) loadOverview() ([]records.Project, error) {
	loc := filepath.Join(s.opts.DataDir, s.opts.Config.OverviewFile)
	f, err := os.Open(loc)
	if err != nil {
		return nil, fmt.Errorf("could not open overview file %v: %v", loc, err)
	}
	defer f.Close()
	return records.LoadOverview(f)
}

func (s *Generator) runProject(ctx context.Context, project string) (res ProjectResult, _ error) {
	res.Project = project

	merges, err := s.loadMerges(project)
	if err != nil {
		return res, err
	}
	fixes, err := s.loadBugfixes(project)
	if err != nil {
		return res, err
	}

	joined := records.Join(merges, fixes)
	res.Merges = len(joined)
	res.Dropped = len(merges) - len(joined)
	s.opts.Logger.Debug("joined merges", "project", project, "kept", res.Merges, "dropped", res.Dropped)

	if err := s.renderer.WriteProject(project, joined); err != nil {
		return res, err
	}

	if len(joined) == 0 {
		return res, nil
	}

	if err := s.collector.Validate(project); err != nil {
		return res, err
	}

	for _, m := range joined {
		if err := s.runMerge(ctx, project, m); err != nil {
			return res, fmt.Errorf("merge %v: %v", m.M, err)
		}
	}
	return res, nil
}

func (s *Generator) runMerge(ctx context.Context, project string, m records.JoinedMerge) error {
	type pair struct {
		title    string
		from, to string
	}
	pairs := []pair{
		{"O to A", m.O, m.A},
		{"O to B", m.O, m.B},
		{"M to Fix", m.M, m.Fix},
	}

	var sections []htmlgen.Section
	var changes [][]overlap.FileChange
	for _, p := range pairs {
		raw, err := s.collector.Numstat(ctx, project, p.from, p.to)
		if err != nil {
			return err
		}
		parsed, err := overlap.ParseNumstat(raw)
		if err != nil {
			return fmt.Errorf("diff %v..%v: %v", p.from, p.to, err)
		}
		sections = append(sections, htmlgen.Section{
			Title:   p.title,
			From:    p.from,
			To:      p.to,
			Changes: parsed,
		})
		changes = append(changes, parsed)
	}

	fixMessage, err := s.collector.CommitMessage(ctx, project, m.Fix)
	if err != nil {
		return err
	}

	return s.renderer.WriteMerge(htmlgen.MergePage{
		Project:    project,
		Merge:      m,
		Sections:   sections,
		FixMessage: fixMessage,
		Overlap:    overlap.Overlap(changes[0], changes[1], changes[2]),
	})
}

func (s *Generator) loadMerges(project string) ([]records.MergeRecord, error) {
	loc := filepath.Join(s.opts.DataDir, s.opts.Config.MergesDir, project+".csv")
	f, err := os.Open(loc)
	if err != nil {
		return nil, fmt.Errorf("could not open merges file %v: %v", loc, err)
	}
	defer f.Close()
	return records.LoadMerges(f)
}

func (s *Generator) loadBugfixes(project string) ([]records.BugfixRecord, error) {
	loc := filepath.Join(s.opts.DataDir, s.opts.Config.BugfixesDir, project+".csv")
	f, err := os.Open(loc)
	if err != nil {
		return nil, fmt.Errorf("could not open bugfixes file %v: %v", loc, err)
	}
	defer f.Close()
	return records.LoadBugfixes(f)
}
