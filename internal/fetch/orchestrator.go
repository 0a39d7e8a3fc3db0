// Package fetch orchestrates resumable batch mining of a repository's closed
// pull requests: paging the listing, filtering, dispatching enrichment
// fetches to a bounded worker pool, and persisting checkpointed CSV batches.
package fetch

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/pterm/pterm"
	"golang.org/x/sync/errgroup"

	"github.com/andreea312/Pull-Requests-Acceptance-Prediction/internal/batch"
	"github.com/andreea312/Pull-Requests-Acceptance-Prediction/internal/checkpoint"
	"github.com/andreea312/Pull-Requests-Acceptance-Prediction/internal/gh"
	"github.com/andreea312/Pull-Requests-Acceptance-Prediction/internal/record"
)

// Host is the hosting-service surface the orchestrator drives. Implemented
// by *gh.Client; tests substitute a fake.
type Host interface {
	ListPullRequests(ctx context.Context, repo string, page int) ([]gh.PRSummary, error)
	FetchPullRequest(ctx context.Context, repo string, number int) (*record.PullRequest, error)
}

// Options tunes one orchestrator. Zero values select the defaults used by
// the original collection runs.
type Options struct {
	// Target is the number of pull requests containing at least one Python
	// file to collect per repository.
	Target int
	// FetchBatchSize caps how many listing candidates one pass collects.
	FetchBatchSize int
	// SaveEvery is the pending-batch size that triggers persistence.
	SaveEvery int
	// Workers bounds the concurrent enrichment fetches.
	Workers int
	// ShowProgress enables the terminal progress bar.
	ShowProgress bool
}

func (o Options) withDefaults() Options {
	if o.Target == 0 {
		o.Target = 2500
	}
	if o.FetchBatchSize == 0 {
		o.FetchBatchSize = 200
	}
	if o.SaveEvery == 0 {
		o.SaveEvery = 25
	}
	if o.Workers == 0 {
		o.Workers = 10
	}
	return o
}

// Orchestrator mines repositories one at a time.
type Orchestrator struct {
	host      Host
	assembler *record.Assembler
	writer    *batch.Writer
	opts      Options
}

// New builds an Orchestrator.
func New(host Host, assembler *record.Assembler, writer *batch.Writer, opts Options) *Orchestrator {
	return &Orchestrator{
		host:      host,
		assembler: assembler,
		writer:    writer,
		opts:      opts.withDefaults(),
	}
}

// Run processes every configured repository in order. A repository-level
// failure is logged and the loop continues; only context cancellation stops
// the whole run. An empty repository list is an error.
func (o *Orchestrator) Run(ctx context.Context, repos []string, outDir string) error {
	if len(repos) == 0 {
		return errors.New("no repositories configured")
	}
	for _, repo := range repos {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := o.ProcessRepository(ctx, repo, outDir); err != nil {
			if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
				return err
			}
			slog.Error("orchestrator.repo_failed", "repo", repo, "err", err)
		}
	}
	return nil
}

// ProcessRepository mines one repository to its target or exhaustion,
// resuming from its checkpoint.
func (o *Orchestrator) ProcessRepository(ctx context.Context, repo, outDir string) error {
	dir := filepath.Join(outDir, sanitizeRepo(repo))
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create repo dir: %w", err)
	}
	metadataPath := filepath.Join(dir, "metadata.json")

	st := checkpoint.Load(metadataPath)
	slog.Info("orchestrator.start", "repo", repo,
		"progress", st.ProcessedWithPython, "target", o.opts.Target,
		"batches", st.CSVFileCounter)
	if st.ProcessedWithPython >= o.opts.Target {
		slog.Info("orchestrator.target_already_met", "repo", repo)
		return nil
	}

	// scanBelow is the in-pass listing cursor: it starts at the durable
	// resumption cursor and moves down as passes complete, but only the
	// durable cursor in the checkpoint survives a restart.
	var scanBelow *int
	if c, ok := st.Cursor(); ok {
		scanBelow = &c
	}

	var pending []*record.PullRequest
	emptyPasses := 0

	for st.ProcessedWithPython < o.opts.Target {
		if err := ctx.Err(); err != nil {
			return err
		}

		summaries, err := o.listCandidates(ctx, repo, scanBelow)
		if err != nil {
			return fmt.Errorf("list pull requests: %w", err)
		}

		fresh := make([]gh.PRSummary, 0, len(summaries))
		for _, s := range summaries {
			if !st.IsProcessed(s.Number) {
				fresh = append(fresh, s)
			}
		}
		slog.Info("orchestrator.pass", "repo", repo,
			"listed", len(summaries), "new", len(fresh))

		if len(fresh) == 0 {
			emptyPasses++
			if emptyPasses >= 2 {
				slog.Info("orchestrator.exhausted", "repo", repo)
				break
			}
			// Everything listed was already processed: scan further back.
			if len(summaries) > 0 {
				low := summaries[0].Number
				for _, s := range summaries {
					if s.Number < low {
						low = s.Number
					}
				}
				scanBelow = lowerOf(scanBelow, low)
			}
			continue
		}
		results := o.dispatch(ctx, repo, fresh)

		completed := 0
		for _, pr := range results {
			if pr != nil {
				completed++
			}
		}
		if completed == 0 {
			// Every enrichment failed; counting this as an unproductive
			// pass keeps a dead upstream from spinning the loop forever.
			emptyPasses++
			if emptyPasses >= 2 {
				slog.Warn("orchestrator.giving_up", "repo", repo, "dropped", len(fresh))
				break
			}
			continue
		}
		emptyPasses = 0

		for i, s := range fresh {
			pr := results[i]
			if pr == nil {
				continue // enrichment failed: retried on a later run
			}
			if !pr.HasPythonFile() {
				// Never re-fetch it, but it satisfies nothing.
				st.MarkProcessed(s.Number)
				continue
			}
			st.MarkProcessed(s.Number)
			st.ProcessedWithPython++
			pending = append(pending, pr)

			if len(pending) >= o.opts.SaveEvery {
				pending = o.persistBatch(repo, dir, metadataPath, st, pending)
			}
			if st.ProcessedWithPython >= o.opts.Target {
				break
			}
		}

		// A finished pass (or a met target) flushes the remainder.
		if len(pending) > 0 {
			pending = o.persistBatch(repo, dir, metadataPath, st, pending)
		}
		if c, ok := st.Cursor(); ok {
			scanBelow = lowerOf(scanBelow, c)
		}
	}

	slog.Info("orchestrator.done", "repo", repo,
		"with_python", st.ProcessedWithPython, "batches", st.CSVFileCounter,
		"processed", st.ProcessedCount())
	return nil
}

// listCandidates pages through the closed-PR listing in descending creation
// order, skipping identifiers at or above the cursor and merged pull
// requests, until it has a pass worth of candidates or the source is
// exhausted.
func (o *Orchestrator) listCandidates(ctx context.Context, repo string, below *int) ([]gh.PRSummary, error) {
	var out []gh.PRSummary
	for page := 1; len(out) < o.opts.FetchBatchSize; page++ {
		items, err := o.host.ListPullRequests(ctx, repo, page)
		if err != nil {
			return nil, err
		}
		if len(items) == 0 {
			break
		}
		for _, it := range items {
			if below != nil && it.Number >= *below {
				continue
			}
			if it.MergedAt != "" {
				continue
			}
			out = append(out, it)
			if len(out) >= o.opts.FetchBatchSize {
				break
			}
		}
	}
	return out, nil
}

// dispatch runs the per-item enrichment fetches on a bounded pool and
// assembles each result. The returned slice is index-aligned with fresh;
// nil entries mark failed items. Completion order is unspecified, results
// are not.
func (o *Orchestrator) dispatch(ctx context.Context, repo string, fresh []gh.PRSummary) []*record.PullRequest {
	results := make([]*record.PullRequest, len(fresh))

	var bar *pterm.ProgressbarPrinter
	if o.opts.ShowProgress {
		bar, _ = pterm.DefaultProgressbar.
			WithTotal(len(fresh)).
			WithTitle("Processing " + repo).
			Start()
	}

	g := new(errgroup.Group)
	g.SetLimit(o.opts.Workers)
	for i, s := range fresh {
		g.Go(func() error {
			pr, err := o.host.FetchPullRequest(ctx, repo, s.Number)
			if err != nil {
				slog.Warn("orchestrator.item_failed", "repo", repo, "pr", s.Number, "err", err)
			} else {
				o.assembler.Assemble(pr)
				results[i] = pr
			}
			if bar != nil {
				bar.Increment()
			}
			return nil
		})
	}
	_ = g.Wait()

	if bar != nil {
		_, _ = bar.Stop()
	}
	return results
}

// persistBatch writes the pending rows as the next CSV batch and advances
// the checkpoint. On a write failure the buffer is returned unchanged so the
// rows are retried with a later batch; nothing is advanced. A checkpoint
// write failure after a successful batch write is logged and tolerated: it
// only risks redundant reprocessing after a restart.
func (o *Orchestrator) persistBatch(repo, dir, metadataPath string, st *checkpoint.State, pending []*record.PullRequest) []*record.PullRequest {
	counter := st.CSVFileCounter + 1
	name := fmt.Sprintf("%s_initial_%d.csv", sanitizeRepo(repo), counter)
	path := filepath.Join(dir, name)

	rows := make([]map[string]any, 0, len(pending))
	low := pending[0].Number
	for _, pr := range pending {
		rows = append(rows, pr.Row())
		if pr.Number < low {
			low = pr.Number
		}
	}

	n, err := o.writer.WriteBatch(path, rows)
	if err != nil {
		slog.Error("orchestrator.batch_save_failed", "repo", repo, "file", name, "err", err)
		return pending
	}

	st.CSVFileCounter = counter
	st.LowerCursor(low)
	if err := st.Save(metadataPath); err != nil {
		slog.Error("orchestrator.checkpoint_save_failed", "repo", repo, "err", err)
	}
	slog.Info("orchestrator.batch_saved", "repo", repo, "file", name,
		"rows", n, "progress", st.ProcessedWithPython, "target", o.opts.Target)
	return nil
}

func sanitizeRepo(repo string) string {
	return strings.ReplaceAll(repo, "/", "_")
}

func lowerOf(current *int, candidate int) *int {
	if current == nil || candidate < *current {
		return &candidate
	}
	return current
}
