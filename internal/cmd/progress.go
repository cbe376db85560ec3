package cmd

import (
	"fmt"
	"io"
	"os"

	"github.com/dendrascience/brushsetmaker/brushset"
	"github.com/taigrr/colorhash"
	"golang.org/x/term"
)

// progress prints one line per finished bulk unit.
type progress struct {
	w     io.Writer
	color bool
}

func newProgress(w io.Writer) *progress {
	p := &progress{w: w}
	if f, ok := w.(*os.File); ok {
		p.color = term.IsTerminal(int(f.Fd()))
	}
	return p
}

func (p *progress) OnUnitDone(index, total int, name string, res brushset.UnitResult) {
	label := name
	if p.color {
		label = tint(name)
	}
	switch res.Status {
	case brushset.StatusPackaged:
		fmt.Fprintf(p.w, "[%d/%d] %s: packaged %d files\n", index, total, label, res.Entries)
	case brushset.StatusEmpty:
		fmt.Fprintf(p.w, "[%d/%d] %s: empty, skipped\n", index, total, label)
	default:
		fmt.Fprintf(p.w, "[%d/%d] %s: failed: %s\n", index, total, label, res.Error)
	}
}

// tint wraps s in one of the 216 xterm cube colours, picked from its hash so
// a folder keeps its colour from run to run.
func tint(s string) string {
	n := colorhash.HashString(s) % 216
	if n < 0 {
		n = -n
	}
	return fmt.Sprintf("\x1b[38;5;%dm%s\x1b[0m", 16+n, s)
}
