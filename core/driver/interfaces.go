package driver

import (
	"context"
	"fmt"

	"github.com/emenda-labs/surfacediff/core/surface"
)

// SurfaceLoader is the interface each input kind must implement to feed
// the differ with a surface snapshot.
type SurfaceLoader interface {
	// Name identifies the loader in logs and errors.
	Name() string

	// Accepts reports whether the loader understands the source string
	// (a directory, a module@version, a snapshot file, ...).
	Accepts(source string) bool

	// Load builds the snapshot for source. Loaders never return a partial
	// snapshot: any unreadable input is an error.
	Load(ctx context.Context, source string) (*surface.Snapshot, error)
}

// Resolve returns the first loader that accepts source.
func Resolve(source string, loaders ...SurfaceLoader) (SurfaceLoader, error) {
	for _, l := range loaders {
		if l.Accepts(source) {
			return l, nil
		}
	}
	return nil, fmt.Errorf("no loader accepts source %q", source)
}

// Load resolves a loader for source and runs it.
func Load(ctx context.Context, source string, loaders ...SurfaceLoader) (*surface.Snapshot, error) {
	l, err := Resolve(source, loaders...)
	if err != nil {
		return nil, err
	}
	snap, err := l.Load(ctx, source)
	if err != nil {
		return nil, fmt.Errorf("%s loader: %w", l.Name(), err)
	}
	return snap, nil
}
