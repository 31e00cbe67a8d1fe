package cli

import (
	"context"
	"fmt"
	"io"
	"sort"
	"sync"

	"github.com/custodia-labs/trove/internal/core/domain"
	"github.com/custodia-labs/trove/internal/core/ports/driven"
)

// maxUnresolvedShown caps the unresolved references listed in the summary.
const maxUnresolvedShown = 20

// Ensure the headless adapters implement the interfaces.
var (
	_ driven.DisplayConsumer = (*summaryDisplay)(nil)
	_ driven.ProgressSurface = (*lineProgress)(nil)
)

// summaryDisplay is the headless display consumer. Building it only keeps
// the collection, so it is ready immediately; revealing prints a summary.
type summaryDisplay struct {
	out    io.Writer
	source string

	collection  *domain.Collection
	helpURL     string
	feedbackURL string

	ready     chan struct{}
	readyOnce sync.Once
}

func newSummaryDisplay(out io.Writer, source string) *summaryDisplay {
	return &summaryDisplay{
		out:    out,
		source: source,
		ready:  make(chan struct{}),
	}
}

func (d *summaryDisplay) Ready() <-chan struct{} {
	return d.ready
}

func (d *summaryDisplay) Build(_ context.Context, collection *domain.Collection, opts driven.BuildOptions) error {
	if collection == nil {
		return fmt.Errorf("%w: no collection", domain.ErrInvalidInput)
	}
	d.collection = collection
	d.helpURL = opts.HelpURL
	d.feedbackURL = opts.FeedbackURL
	if opts.Progress != nil {
		opts.Progress(fmt.Sprintf("Summarising %d entities", collection.Len()))
	}
	d.readyOnce.Do(func() { close(d.ready) })
	return nil
}

func (d *summaryDisplay) Reveal() {
	if d.collection == nil {
		return
	}
	writeSummary(d.out, d.source, d.collection)
	if d.helpURL != "" {
		fmt.Fprintf(d.out, "\nHelp:     %s\n", d.helpURL)
	}
	if d.feedbackURL != "" {
		fmt.Fprintf(d.out, "Feedback: %s\n", d.feedbackURL)
	}
}

// writeSummary prints entity counts per kind and the relation totals,
// listing unresolved references up to maxUnresolvedShown.
func writeSummary(out io.Writer, source string, c *domain.Collection) {
	fmt.Fprintf(out, "Imported %d entities from %s\n", c.Len(), source)

	counts := c.CountByKind()
	kinds := make([]string, 0, len(counts))
	width := 0
	for kind := range counts {
		kinds = append(kinds, kind)
		width = max(width, len(displayKind(kind)))
	}
	sort.Strings(kinds)
	for _, kind := range kinds {
		fmt.Fprintf(out, "  %-*s %d\n", width, displayKind(kind), counts[kind])
	}

	var (
		relations  int
		unresolved []domain.UnresolvedRef
	)
	c.Each(func(e *domain.Entity) bool {
		for _, r := range e.Relations {
			relations++
			if !r.Ref.Resolved() {
				unresolved = append(unresolved, domain.UnresolvedRef{From: e.GUID, Relation: r.Name, GUID: r.Ref.GUID})
			}
		}
		return true
	})

	fmt.Fprintf(out, "\nRelations: %d total, %d resolved, %d unresolved\n",
		relations, relations-len(unresolved), len(unresolved))
	if len(unresolved) == 0 {
		return
	}

	fmt.Fprintln(out, "\nUnresolved references:")
	for i, ref := range unresolved {
		if i == maxUnresolvedShown {
			fmt.Fprintf(out, "  ... and %d more\n", len(unresolved)-maxUnresolvedShown)
			break
		}
		fmt.Fprintf(out, "  %s %s → %s\n", ref.From, ref.Relation, ref.GUID)
	}
}

func displayKind(kind string) string {
	if kind == "" {
		return "(none)"
	}
	return kind
}

// lineProgress is the headless progress surface: one line per status.
type lineProgress struct {
	mu     sync.Mutex
	out    io.Writer
	last   string
	hidden bool
}

func newLineProgress(out io.Writer) *lineProgress {
	return &lineProgress{out: out}
}

func (p *lineProgress) SetStatus(status string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.hidden || status == p.last {
		return
	}
	p.last = status
	fmt.Fprintln(p.out, status)
}

func (p *lineProgress) Hide() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.hidden = true
}
