package pipeline

import (
	"errors"
	"fmt"
	"path"
	"sync"
	"time"

	"github.com/tmfelwu/obsidian-file-rename/internal/config"
	"github.com/tmfelwu/obsidian-file-rename/internal/datefmt"
	"github.com/tmfelwu/obsidian-file-rename/internal/log"
	"github.com/tmfelwu/obsidian-file-rename/internal/metadata"
	"github.com/tmfelwu/obsidian-file-rename/internal/planner"
	"github.com/tmfelwu/obsidian-file-rename/internal/policy"
	"github.com/tmfelwu/obsidian-file-rename/internal/state"
	"github.com/tmfelwu/obsidian-file-rename/pkg/types"
)

// Host is the file store the command renames in.
type Host interface {
	ActiveFile() (types.FileDescriptor, bool, error)
	PathExists(path string) bool
	Rename(desc types.FileDescriptor, newPath string) error
}

// SettingsSource hands out the settings snapshot for one invocation.
type SettingsSource interface {
	Snapshot() config.Settings
}

// Pipeline runs the "rename current file by applying date" command. Only one
// invocation runs at a time.
type Pipeline struct {
	mu               sync.Mutex
	host             Host
	settings         SettingsSource
	journal          *state.Journal
	logger           *log.Logger
	now              func() time.Time
	progressCallback ProgressCallback
}

// New wires a pipeline. journal may be nil.
func New(host Host, settings SettingsSource, journal *state.Journal, logger *log.Logger) *Pipeline {
	return &Pipeline{
		host:     host,
		settings: settings,
		journal:  journal,
		logger:   logger,
		now:      time.Now,
	}
}

func (p *Pipeline) SetClock(now func() time.Time) {
	p.now = now
}

func (p *Pipeline) SetProgressCallback(cb ProgressCallback) {
	p.progressCallback = cb
}

// Settings returns the settings the next invocation would use.
func (p *Pipeline) Settings() config.Settings {
	return p.settings.Snapshot()
}

// Available reports whether the command can be offered, i.e. a file is active.
func (p *Pipeline) Available() bool {
	_, ok, err := p.host.ActiveFile()
	return err == nil && ok
}

// RenameActive renames the active file.
func (p *Pipeline) RenameActive() (types.RenameResult, error) {
	return p.runActive(false)
}

// PreviewActive computes the name RenameActive would produce without renaming.
func (p *Pipeline) PreviewActive() (types.RenameResult, error) {
	return p.runActive(true)
}

// Rename renames desc directly, bypassing the active-file lookup.
func (p *Pipeline) Rename(desc types.FileDescriptor, dryRun bool) (types.RenameResult, error) {
	if !p.mu.TryLock() {
		return types.RenameResult{Source: desc.Path, Action: types.RenameActionFailed, Reason: ErrBusy.Error()}, ErrBusy
	}
	defer p.mu.Unlock()

	return p.run(desc, dryRun)
}

func (p *Pipeline) runActive(dryRun bool) (types.RenameResult, error) {
	if !p.mu.TryLock() {
		return types.RenameResult{Action: types.RenameActionFailed, Reason: ErrBusy.Error()}, ErrBusy
	}
	defer p.mu.Unlock()

	desc, ok, err := p.host.ActiveFile()
	if err != nil {
		return p.fail(types.RenameResult{}, time.Now(), fmt.Errorf("failed to read active file: %w", err))
	}
	if !ok {
		result := types.RenameResult{
			Action:  types.RenameActionFailed,
			Reason:  ErrNoActiveTarget.Error(),
			Message: "No active file to rename.",
		}
		p.report(result, 0)
		return result, ErrNoActiveTarget
	}
	return p.run(desc, dryRun)
}

func (p *Pipeline) run(desc types.FileDescriptor, dryRun bool) (types.RenameResult, error) {
	start := time.Now()
	cfg := p.settings.Snapshot()
	result := types.RenameResult{Source: desc.Path}

	if cfg.MarkdownOnly && desc.Extension != "md" {
		return p.skip(result, start, ErrFilteredOut, "Rename skipped: only Markdown files are enabled in settings.")
	}

	when := metadata.ResolveDate(desc, cfg.DateSource, p.now)
	result.FormattedDate = datefmt.Format(when, cfg.DateFormat)

	plan := planner.New(cfg.Separator, cfg.Position, cfg.AvoidDuplicateDate).Plan(desc, result.FormattedDate)
	if plan.Skipped {
		msg := "Date already present at start of name."
		if cfg.Position == types.PositionAppend {
			msg = "Date already present at end of name."
		}
		return p.skip(result, start, ErrAlreadyDated, msg)
	}

	resolver := policy.NewConflictResolver(cfg.ConflictStrategy)
	res, err := resolver.Resolve(desc.Dir, desc.Extension, plan.BaseName, p.host.PathExists)
	if err != nil {
		return p.fail(result, start, err)
	}
	if res.Skip {
		return p.skip(result, start, ErrConflictSkip, "Rename skipped: target already exists.")
	}

	result.Dest = res.Path
	result.FinalName = path.Base(res.Path)
	result.Counter = res.Counter

	if dryRun {
		result.Action = types.RenameActionPreview
		result.Message = "Would rename to: " + result.FinalName
		p.report(result, time.Since(start))
		return result, nil
	}

	if err := p.host.Rename(desc, res.Path); err != nil {
		result.Dest = ""
		return p.fail(result, start, &RenameIOError{Path: res.Path, Err: err})
	}

	result.Action = res.Action
	result.Message = "Renamed to: " + result.FinalName
	p.report(result, time.Since(start))

	if p.journal != nil {
		if err := p.journal.Record(result.Source, result.Dest, result.Action); err != nil && p.logger != nil {
			p.logger.Error("Failed to save rename history", err)
		}
	}
	return result, nil
}

func (p *Pipeline) skip(result types.RenameResult, start time.Time, reason error, msg string) (types.RenameResult, error) {
	result.Action = types.RenameActionSkipped
	result.Reason = reason.Error()
	result.Message = msg
	p.report(result, time.Since(start))
	return result, reason
}

func (p *Pipeline) fail(result types.RenameResult, start time.Time, err error) (types.RenameResult, error) {
	result.Action = types.RenameActionFailed
	result.Reason = err.Error()
	result.Message = "Failed to rename file: " + failureText(err)
	if p.logger != nil {
		p.logger.Error("Failed to rename file", err)
	}
	p.report(result, time.Since(start))
	return result, err
}

func failureText(err error) string {
	var ioErr *RenameIOError
	if errors.As(err, &ioErr) {
		return ioErr.Err.Error()
	}
	return err.Error()
}

func (p *Pipeline) report(result types.RenameResult, duration time.Duration) {
	if p.logger != nil {
		p.logger.LogRename(result, duration)
		p.logger.Notice(result.Message)
	}
	if p.progressCallback != nil {
		r := result
		update := ProgressUpdate{Type: "notice", Message: result.Message, Result: &r}
		if result.Action == types.RenameActionFailed {
			update.Type = "error"
			update.Error = result.Reason
		}
		p.progressCallback(update)
	}
}
