package brushset

import (
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/dendrascience/brushsetmaker/internal/fsx"
	"github.com/olekukonko/tablewriter"
)

// ReportFile is the default name of a bulk report written next to the archives.
const ReportFile = "brushsetmaker-report.json"

// Report aggregates a PackageAll run.
type Report struct {
	Root       string    `json:"root"`
	StartedAt  time.Time `json:"started_at"`
	FinishedAt time.Time `json:"finished_at"`

	Total        int  `json:"total"`
	Succeeded    int  `json:"succeeded"`
	SkippedEmpty int  `json:"skipped_empty"`
	Failed       int  `json:"failed"`
	Filtered     int  `json:"filtered"`
	Stopped      bool `json:"stopped"`

	// Errors holds the first MaxErrors failure messages; ErrorOverflow counts
	// the ones that did not fit.
	Errors        []string `json:"errors"`
	ErrorOverflow int      `json:"error_overflow"`

	Units []UnitResult `json:"units"`

	maxErrors int
}

func newReport(root string, maxErrors int, now time.Time) Report {
	if maxErrors <= 0 {
		maxErrors = DefaultMaxErrors
	}
	return Report{
		Root:      root,
		StartedAt: now,
		Errors:    []string{},
		Units:     []UnitResult{},
		maxErrors: maxErrors,
	}
}

func (r *Report) add(res UnitResult) {
	r.Units = append(r.Units, res)
	switch res.Status {
	case StatusPackaged:
		r.Succeeded++
	case StatusEmpty:
		r.SkippedEmpty++
	case StatusFailed:
		r.Failed++
		if len(r.Errors) < r.maxErrors {
			r.Errors = append(r.Errors, res.Name+": "+res.Error)
		} else {
			r.ErrorOverflow++
		}
	}
}

// Processed is the number of units that were attempted.
func (r Report) Processed() int {
	return r.Succeeded + r.SkippedEmpty + r.Failed
}

// Summary is the short human readable outcome of the run.
func (r Report) Summary() string {
	var b strings.Builder
	if r.Failed == 0 && r.SkippedEmpty == 0 {
		fmt.Fprintf(&b, "Successfully processed all %d brushsets!\n", r.Succeeded)
	} else {
		fmt.Fprintf(&b, "Successfully processed: %d\n", r.Succeeded)
		fmt.Fprintf(&b, "Skipped (empty): %d\n", r.SkippedEmpty)
		fmt.Fprintf(&b, "Errors: %d\n", r.Failed)
	}
	if r.Stopped {
		fmt.Fprintf(&b, "Stopped after the first failure; %d of %d folders not processed\n", r.Total-r.Processed(), r.Total)
	}
	if len(r.Errors) > 0 {
		b.WriteString("\nErrors:\n")
		for _, e := range r.Errors {
			b.WriteString(e)
			b.WriteByte('\n')
		}
		if r.ErrorOverflow > 0 {
			fmt.Fprintf(&b, "... and %d more errors\n", r.ErrorOverflow)
		}
	}
	return b.String()
}

// Render writes one table row per unit followed by the totals.
func (r Report) Render(w io.Writer) {
	table := tablewriter.NewWriter(w)
	table.SetHeader([]string{"Folder", "Status", "Entries", "Archive"})
	table.SetBorder(false)
	table.SetCenterSeparator("")
	table.SetAutoWrapText(false)
	table.SetColumnAlignment([]int{
		tablewriter.ALIGN_LEFT,
		tablewriter.ALIGN_LEFT,
		tablewriter.ALIGN_RIGHT,
		tablewriter.ALIGN_LEFT,
	})

	for _, u := range r.Units {
		entries := ""
		if u.Status == StatusPackaged {
			entries = strconv.Itoa(u.Entries)
		}
		table.Append([]string{u.Name, string(u.Status), entries, u.Archive})
	}

	table.SetFooter([]string{
		fmt.Sprintf("Total %d", r.Total),
		fmt.Sprintf("%d ok", r.Succeeded),
		fmt.Sprintf("%d empty", r.SkippedEmpty),
		fmt.Sprintf("%d failed", r.Failed),
	})
	table.Render()
}

// WriteJSON saves the report to path, replacing any previous report.
func (r Report) WriteJSON(path string) error {
	out := r
	out.StartedAt = out.StartedAt.UTC()
	out.FinishedAt = out.FinishedAt.UTC()
	data, err := json.MarshalIndent(out, "", "  ")
	if err != nil {
		return err
	}
	if err := fsx.WriteFileAtomic(path, append(data, '\n'), 0o644); err != nil {
		return ioError("write", path, err)
	}
	return nil
}
