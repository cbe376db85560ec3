package brushset

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
)

// Status is the outcome of one unit in a bulk run.
type Status string

const (
	StatusPackaged Status = "packaged"
	StatusEmpty    Status = "empty"
	StatusFailed   Status = "failed"
)

// UnitResult is the outcome of packaging one sub-directory.
type UnitResult struct {
	Name    string `json:"name"`
	Status  Status `json:"status"`
	Archive string `json:"archive,omitempty"`
	Entries int    `json:"entries"`
	Error   string `json:"error,omitempty"`
}

// Observer is told about every unit once it has been processed. It only
// observes; nothing it does changes the run.
type Observer interface {
	OnUnitDone(index, total int, name string, res UnitResult)
}

// ObserverFunc adapts a function to Observer.
type ObserverFunc func(index, total int, name string, res UnitResult)

func (f ObserverFunc) OnUnitDone(index, total int, name string, res UnitResult) {
	f(index, total, name, res)
}

// isSkippedUnit reports whether a unit folder name is hidden ('.') or
// private ('_').
func isSkippedUnit(name string) bool {
	return strings.HasPrefix(name, ".") || strings.HasPrefix(name, "_")
}

// ListUnits returns the names of the immediate sub-directories of rootDir
// that PackageAll would process, and how many were filtered out.
func (p *Packager) ListUnits(rootDir string) (units []string, filtered int, err error) {
	rootDir = filepath.Clean(rootDir)
	if err := checkSourceDir(rootDir); err != nil {
		return nil, 0, err
	}
	entries, err := os.ReadDir(rootDir)
	if err != nil {
		return nil, 0, ioError("read", rootDir, err)
	}
	for _, e := range entries {
		if !e.IsDir() {
			continue
		}
		if p.opts.SkipHidden && isSkippedUnit(e.Name()) {
			filtered++
			continue
		}
		units = append(units, e.Name())
	}
	return units, filtered, nil
}

// PackageAll packages every immediate sub-directory of rootDir into
// rootDir/<name>.brushset, one after the other.
//
// A unit that fails never stops the batch unless StopOnError is set. The
// context is checked between units only; a unit that has started is always
// finished. On cancellation the partial report is returned with ctx.Err().
func (p *Packager) PackageAll(ctx context.Context, rootDir string, obs Observer) (Report, error) {
	rootDir = filepath.Clean(rootDir)
	rep := newReport(rootDir, p.opts.MaxErrors, p.now())

	units, filtered, err := p.ListUnits(rootDir)
	if err != nil {
		return rep, err
	}
	rep.Total = len(units)
	rep.Filtered = filtered

	unitCtx := context.WithoutCancel(ctx)
	for i, name := range units {
		if err := ctx.Err(); err != nil {
			rep.FinishedAt = p.now()
			return rep, err
		}

		res := p.packageUnit(unitCtx, rootDir, name)
		rep.add(res)
		if obs != nil {
			obs.OnUnitDone(i+1, len(units), name, res)
		}

		if res.Status == StatusFailed && p.opts.StopOnError {
			rep.Stopped = true
			break
		}
	}

	rep.FinishedAt = p.now()
	return rep, nil
}

func (p *Packager) packageUnit(ctx context.Context, rootDir, name string) UnitResult {
	res := UnitResult{Name: name}
	out, err := p.Package(ctx, filepath.Join(rootDir, name), rootDir)
	switch {
	case err == nil:
		res.Status = StatusPackaged
		res.Archive = out.ArchivePath
		res.Entries = out.Entries
	case errors.Is(err, ErrEmpty):
		res.Status = StatusEmpty
		if p.opts.WarnEmpty {
			p.log.Warn("folder is empty, skipped", "folder", name)
		} else {
			p.log.Debug("folder is empty, skipped", "folder", name)
		}
	default:
		res.Status = StatusFailed
		res.Error = err.Error()
		p.log.Error("packaging failed", "folder", name, "err", err)
	}
	return res
}
