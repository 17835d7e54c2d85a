// Package app implements the application layer for flock.
package app

import (
	"context"
	"fmt"
	"io"
	"maps"
	"reflect"
	"slices"
	"strings"

	"go.trai.ch/flock/internal/core/domain"
	"go.trai.ch/flock/internal/core/ports"
	"go.trai.ch/flock/internal/engine/flock"
	"go.trai.ch/flock/internal/mythica"
	"go.trai.ch/zerr"
	"golang.org/x/sync/errgroup"
)

// SampleName is shown in place of a file name when the built-in sample sheet is used.
const SampleName = "sample"

// App evaluates character sheets.
type App struct {
	sheets  ports.SheetStore
	tables  ports.TableSource
	store   ports.SnapshotStore
	watcher ports.Watcher
	tracer  ports.Tracer
	logger  ports.Logger
}

// New creates a new App instance.
func New(
	sheets ports.SheetStore,
	tables ports.TableSource,
	store ports.SnapshotStore,
	watcher ports.Watcher,
	tracer ports.Tracer,
	logger ports.Logger,
) *App {
	return &App{
		sheets:  sheets,
		tables:  tables,
		store:   store,
		watcher: watcher,
		tracer:  tracer,
		logger:  logger,
	}
}

func displayName(path string) string {
	if path == "" {
		return SampleName
	}
	return path
}

// load returns the raw values of the sheet at path, or the sample sheet for "".
func (a *App) load(path string) (map[string]any, error) {
	if path == "" {
		return mythica.SampleSheet(), nil
	}
	return a.sheets.Load(path)
}

// Build loads the sheet at path and installs the rules on it.
func (a *App) Build(ctx context.Context, path string) (*flock.Dict, error) {
	raw, err := a.load(path)
	if err != nil {
		return nil, err
	}
	return a.build(ctx, path, raw)
}

func (a *App) build(ctx context.Context, path string, raw map[string]any) (char *flock.Dict, err error) {
	_, span := a.tracer.Start(ctx, "sheet.build")
	defer func() {
		if err != nil {
			span.RecordError(err)
		}
		span.End()
	}()
	span.SetAttribute("sheet", displayName(path))

	table, err := a.tables.Table()
	if err != nil {
		return nil, err
	}

	char = flock.FromMap(raw)
	if err := mythica.ApplyRules(char, table); err != nil {
		return nil, zerr.With(zerr.Wrap(err, "failed to apply rules"), "sheet", displayName(path))
	}
	span.SetAttribute("keys", char.Len())
	return char, nil
}

// flatten snapshots char. With recordErrors set, failing rules become error values.
func (a *App) flatten(ctx context.Context, char *flock.Dict, recordErrors bool) (snap *domain.Snapshot, err error) {
	_, span := a.tracer.Start(ctx, "sheet.flatten")
	defer func() {
		if err != nil {
			span.RecordError(err)
		}
		span.End()
	}()
	span.SetAttribute("record_errors", recordErrors)

	return char.Snapshot(recordErrors)
}

// problems lists the structural problems of char and the rule failures recorded in snap.
func problems(char *flock.Dict, snap *domain.Snapshot) []domain.Problem {
	out := char.Check(nil).Problems()
	return append(out, recorded(snap, nil)...)
}

func recorded(v any, path []any) []domain.Problem {
	var out []domain.Problem
	switch x := v.(type) {
	case *domain.Snapshot:
		for k, val := range x.All() {
			out = append(out, recorded(val, domain.ExtendPath(path, k))...)
		}
	case []any:
		for i, val := range x {
			out = append(out, recorded(val, domain.ExtendPath(path, i))...)
		}
	case error:
		out = append(out, domain.Problem{Path: path, Source: domain.NoSource, Err: x})
	}
	return out
}

func (a *App) warn(path string, found []domain.Problem) {
	for _, p := range found {
		a.logger.Warn(displayName(path) + ": " + p.Error())
	}
}

// render evaluates char, logs its problems and returns it in sheet format.
func (a *App) render(ctx context.Context, path string, char *flock.Dict) ([]byte, error) {
	snap, err := a.flatten(ctx, char, true)
	if err != nil {
		return nil, err
	}
	a.warn(path, problems(char, snap))
	return a.sheets.Marshal(snap)
}

// Show evaluates every sheet in paths, or the sample sheet when paths is empty, and writes
// them to out in argument order. Sheets are evaluated concurrently.
func (a *App) Show(ctx context.Context, out io.Writer, paths []string) error {
	if len(paths) == 0 {
		paths = []string{""}
	}

	results := make([][]byte, len(paths))
	g, ctx := errgroup.WithContext(ctx)
	for i, path := range paths {
		g.Go(func() error {
			char, err := a.Build(ctx, path)
			if err != nil {
				return err
			}
			results[i], err = a.render(ctx, path, char)
			return err
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}

	for i, data := range results {
		if len(paths) > 1 {
			if i > 0 {
				if _, err := io.WriteString(out, "---\n"); err != nil {
					return err
				}
			}
			if _, err := fmt.Fprintf(out, "# %s\n", displayName(paths[i])); err != nil {
				return err
			}
		}
		if _, err := out.Write(data); err != nil {
			return err
		}
	}
	return nil
}

// Check evaluates the sheet at path and fails with ErrCheckFailed when it has problems.
// Each problem is logged as a warning.
func (a *App) Check(ctx context.Context, path string) error {
	char, err := a.Build(ctx, path)
	if err != nil {
		return err
	}
	snap, err := a.flatten(ctx, char, true)
	if err != nil {
		return err
	}

	found := problems(char, snap)
	if len(found) == 0 {
		a.logger.Info(displayName(path) + ": no problems")
		return nil
	}
	a.warn(path, found)
	return zerr.With(zerr.Wrap(domain.ErrCheckFailed, displayName(path)), "problems", len(found))
}

// Save evaluates the sheet at in and writes the result to out. Any failing rule aborts.
func (a *App) Save(ctx context.Context, in, out string) error {
	char, err := a.Build(ctx, in)
	if err != nil {
		return err
	}
	snap, err := a.flatten(ctx, char, false)
	if err != nil {
		return err
	}
	if err := a.sheets.Save(out, snap); err != nil {
		return err
	}
	a.logger.Info("saved " + displayName(in) + " to " + out)
	return nil
}

// Snapshot evaluates the sheet at in, stores it and returns its digest.
func (a *App) Snapshot(ctx context.Context, in string) (string, error) {
	char, err := a.Build(ctx, in)
	if err != nil {
		return "", err
	}
	snap, err := a.flatten(ctx, char, false)
	if err != nil {
		return "", err
	}
	return a.store.Put(snap)
}

// Fetch returns the stored snapshot with the given digest.
func (a *App) Fetch(_ context.Context, digest string) ([]byte, error) {
	data, err := a.store.Get(digest)
	if err != nil {
		return nil, err
	}
	if data == nil {
		return nil, zerr.With(zerr.Wrap(domain.ErrSnapshotNotFound, "fetch"), "digest", digest)
	}
	return data, nil
}

// Watch prints the sheet at path and prints it again after every change to the file.
// Changed top-level keys are set on the live sheet, so the rules installed at start keep
// running on the new values. Watch returns when ctx is canceled.
func (a *App) Watch(ctx context.Context, path string, out io.Writer) error {
	if path == "" {
		return zerr.Wrap(domain.ErrWatchFailed, "a sheet file is required")
	}

	raw, err := a.sheets.Load(path)
	if err != nil {
		return err
	}
	char, err := a.build(ctx, path, raw)
	if err != nil {
		return err
	}
	if err := a.print(ctx, out, path, char); err != nil {
		return err
	}

	if err := a.watcher.Start(ctx, path); err != nil {
		return err
	}
	defer func() { _ = a.watcher.Stop() }()
	a.logger.Info("watching " + path)

	for range a.watcher.Events() {
		next, err := a.sheets.Load(path)
		if err != nil {
			a.logger.Error(err)
			continue
		}

		changed, err := applyChanges(char, raw, next)
		raw = next
		if err != nil {
			a.logger.Error(err)
			continue
		}
		if len(changed) == 0 {
			continue
		}

		a.logger.Info(fmt.Sprintf("%s: changed %s", path, strings.Join(changed, ", ")))
		if err := a.print(ctx, out, path, char); err != nil {
			a.logger.Error(err)
		}
	}
	return nil
}

func (a *App) print(ctx context.Context, out io.Writer, path string, char *flock.Dict) error {
	data, err := a.render(ctx, path, char)
	if err != nil {
		return err
	}
	_, err = out.Write(data)
	return err
}

// applyChanges sets every top-level key of next that differs from prev and deletes the keys
// next no longer has. It returns the affected keys in order.
func applyChanges(char *flock.Dict, prev, next map[string]any) ([]string, error) {
	var changed []string
	for _, k := range slices.Sorted(maps.Keys(next)) {
		if old, ok := prev[k]; ok && reflect.DeepEqual(old, next[k]) {
			continue
		}
		if err := char.Set(k, next[k]); err != nil {
			return changed, err
		}
		changed = append(changed, k)
	}
	for _, k := range slices.Sorted(maps.Keys(prev)) {
		if _, ok := next[k]; ok || !char.Contains(k) {
			continue
		}
		if err := char.Delete(k); err != nil {
			return changed, err
		}
		changed = append(changed, k)
	}
	return changed, nil
}
