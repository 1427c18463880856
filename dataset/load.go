package dataset

import (
	"context"
	"fmt"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/zalepa/campuscrime/logger"
)

// CombineAll is the pseudo file name that loads every configured source.
const CombineAll = "Combine All Files"

// Loader resolves, parses and normalizes dataset files.
type Loader struct {
	Resolver Resolver
	// Files lists the sources merged by a CombineAll load, per kind.
	Files       map[Kind][]string
	Concurrency int
	Log         *logger.Logger
	// Now stamps snapshots; defaults to time.Now.
	Now func() time.Time
}

func (l *Loader) log() *logger.Logger {
	if l.Log == nil {
		return logger.Discard()
	}
	return l.Log
}

func (l *Loader) now() time.Time {
	if l.Now == nil {
		return time.Now()
	}
	return l.Now()
}

// Load reads one source, or every configured source when name is CombineAll.
// A single-source failure is returned as an error. In combined mode failing
// sources are logged and skipped, and only a total failure is an error.
func (l *Loader) Load(ctx context.Context, kind Kind, name string) (*Snapshot, error) {
	if kind != Daily && kind != Yearly {
		return nil, fmt.Errorf("%w: %q", ErrUnknownKind, kind)
	}
	if name == CombineAll {
		return l.loadCombined(ctx, kind)
	}

	part, err := l.loadSource(ctx, kind, name)
	if err != nil {
		return nil, err
	}
	snap := &Snapshot{
		Name:      name,
		Kind:      kind,
		Incidents: part.incidents,
		Offenses:  part.offenses,
		Sources:   []string{name},
		LoadedAt:  l.now(),
	}
	l.log().WithField("file", name).WithField("records", snap.Len()).Info("dataset loaded")
	return snap, nil
}

type part struct {
	incidents []Incident
	offenses  []Offense
	err       error
}

func (p part) len() int {
	return len(p.incidents) + len(p.offenses)
}

func (l *Loader) loadCombined(ctx context.Context, kind Kind) (*Snapshot, error) {
	files := l.Files[kind]
	parts := make([]part, len(files))

	g := new(errgroup.Group)
	if l.Concurrency > 0 {
		g.SetLimit(l.Concurrency)
	}
	for i, name := range files {
		i, name := i, name
		g.Go(func() error {
			p, err := l.loadSource(ctx, kind, name)
			if err != nil {
				l.log().WithError(err).WithField("file", name).Warn("skipping source")
				p.err = err
			}
			parts[i] = p
			// Per-source failures never cancel the others.
			return nil
		})
	}
	_ = g.Wait()

	snap := &Snapshot{Name: CombineAll, Kind: kind, LoadedAt: l.now()}
	for i, p := range parts {
		if p.err != nil {
			snap.Failed = append(snap.Failed, files[i])
			continue
		}
		snap.Incidents = append(snap.Incidents, p.incidents...)
		snap.Offenses = append(snap.Offenses, p.offenses...)
		snap.Sources = append(snap.Sources, files[i])
	}
	if snap.Len() == 0 {
		return nil, fmt.Errorf("%w (%d sources tried); check the data directory structure", ErrAllSourcesFailed, len(files))
	}
	l.log().WithField("sources", len(snap.Sources)).
		WithField("failed", len(snap.Failed)).
		WithField("records", snap.Len()).
		Info("combined dataset loaded")
	return snap, nil
}

func (l *Loader) loadSource(ctx context.Context, kind Kind, name string) (part, error) {
	log := l.log().WithField("file", name)

	data, err := l.Resolver.Resolve(ctx, kind, name)
	if err != nil {
		return part{}, err
	}
	rows, warnings, err := ParseRows(name, data)
	if err != nil {
		return part{}, fmt.Errorf("parse %s: %w", name, err)
	}
	for _, w := range warnings {
		log.WithField("line", w.Line).Warn(w.Message)
	}

	var p part
	switch kind {
	case Daily:
		p.incidents = NormalizeDaily(rows, name)
	case Yearly:
		p.offenses = NormalizeYearly(rows, name)
	}
	if p.len() == 0 {
		return part{}, fmt.Errorf("file %s: %w", name, ErrNoValidRecords)
	}
	log.WithField("records", p.len()).Debug("parsed source")
	return p, nil
}
