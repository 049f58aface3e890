package browser

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"
)

// Options carries driver-independent session settings.
type Options struct {
	Headless    bool
	PageTimeout time.Duration
	ArtifactDir string // where SaveDiagnostic writes its dumps
}

// OpenFunc opens a fresh session with a concrete driver.
type OpenFunc func(ctx context.Context, opts Options) (Session, error)

var (
	driversMu sync.RWMutex
	drivers   = make(map[string]OpenFunc)
)

// Register makes a driver available under the given name, typically from an
// init function in the driver's package. Registering the same name twice
// panics.
func Register(name string, open OpenFunc) {
	driversMu.Lock()
	defer driversMu.Unlock()
	if _, dup := drivers[name]; dup {
		panic(fmt.Sprintf("browser: driver %q registered twice", name))
	}
	drivers[name] = open
}

// Open starts a session with the named registered driver.
func Open(ctx context.Context, name string, opts Options) (Session, error) {
	driversMu.RLock()
	open, ok := drivers[name]
	driversMu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("browser: unknown driver %q (registered: %v)", name, Drivers())
	}
	return open(ctx, opts)
}

// Drivers lists the registered driver names, sorted.
func Drivers() []string {
	driversMu.RLock()
	defer driversMu.RUnlock()
	names := make([]string, 0, len(drivers))
	for name := range drivers {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
