package progress

import (
	"fmt"
	"io"
	"os"
	"sync"

	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/lipgloss"
	"golang.org/x/term"

	"github.com/custodia-labs/issuesync/internal/core/domain"
	"github.com/custodia-labs/issuesync/internal/core/ports/driven"
)

// Ensure Reporter implements the interface.
var _ driven.ProgressReporter = (*Reporter)(nil)

const (
	barWidth     = 40
	messageWidth = 60
)

// Palette.
var (
	colourPrimary   = lipgloss.Color("#7C3AED") // Purple
	colourSecondary = lipgloss.Color("#06B6D4") // Cyan
	colourMuted     = lipgloss.Color("#6C7086") // Medium gray
)

// Reporter draws progress for one sync run.
type Reporter struct {
	mu          sync.Mutex
	out         io.Writer
	interactive bool
	bar         progress.Model
	counter     lipgloss.Style
	message     lipgloss.Style

	estimate int
	done     int
}

// NewReporter creates a reporter writing to w. The animated bar is used only
// when w is a terminal.
func NewReporter(w io.Writer) *Reporter {
	return newReporter(w, isTerminal(w))
}

func newReporter(w io.Writer, interactive bool) *Reporter {
	return &Reporter{
		out:         w,
		interactive: interactive,
		bar: progress.New(
			progress.WithGradient(string(colourPrimary), string(colourSecondary)),
			progress.WithWidth(barWidth),
			progress.WithoutPercentage(),
		),
		counter: lipgloss.NewStyle().Bold(true).Foreground(colourPrimary),
		message: lipgloss.NewStyle().Foreground(colourMuted).MaxWidth(messageWidth),
	}
}

// Start records the estimated item count.
func (r *Reporter) Start(estimate int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.estimate = estimate
	r.done = 0
	if !r.interactive {
		fmt.Fprintf(r.out, "Syncing up to %d issues\n", estimate)
	}
}

// Advance reports that item is being processed.
func (r *Reporter) Advance(item domain.ItemSummary) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.done++

	msg := Message(item)
	if !r.interactive {
		fmt.Fprintf(r.out, "[%d/%d] %s\n", r.done, r.estimate, msg)
		return
	}

	fmt.Fprintf(r.out, "\r\033[K%s %s %s",
		r.bar.ViewAs(r.fraction()),
		r.counter.Render(fmt.Sprintf("%d/%d", r.done, r.estimate)),
		r.message.Render(msg),
	)
}

// Finish completes the bar.
func (r *Reporter) Finish() {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.interactive {
		fmt.Fprintf(r.out, "\r\033[K%s %s\n",
			r.bar.ViewAs(1),
			r.counter.Render(fmt.Sprintf("%d issues", r.done)))
		return
	}
	fmt.Fprintf(r.out, "Processed %d issues\n", r.done)
}

// Done returns how many items were reported.
func (r *Reporter) Done() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.done
}

// fraction returns the completed share, capped at 1 because the estimate
// is an upper bound computed from full pages.
func (r *Reporter) fraction() float64 {
	if r.estimate <= 0 {
		return 0
	}
	f := float64(r.done) / float64(r.estimate)
	if f > 1 {
		return 1
	}
	return f
}

// Message formats the progress line for an issue.
func Message(item domain.ItemSummary) string {
	return fmt.Sprintf("Issue #%d: %s", item.Number, item.Title)
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd())) //nolint:gosec // fd fits in int
}
