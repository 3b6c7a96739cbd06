package asset

import (
	"strings"
	"sync"
	"sync/atomic"

	"github.com/google/uuid"
)

// Flag is a bit set of asset data conditions.
type Flag uint32

const (
	// FlagMissing marks an asset whose file could not be found.
	FlagMissing Flag = 1 << iota
	// FlagInvalid marks an asset that failed to deserialize or has no serializer.
	FlagInvalid
	// FlagQueued marks an asset whose background load has not finished.
	FlagQueued
)

func (f Flag) String() string {
	if f == 0 {
		return "none"
	}
	var parts []string
	if f&FlagMissing != 0 {
		parts = append(parts, "missing")
	}
	if f&FlagInvalid != 0 {
		parts = append(parts, "invalid")
	}
	if f&FlagQueued != 0 {
		parts = append(parts, "queued")
	}
	return strings.Join(parts, "|")
}

// ChangedState describes what happened to an asset that others depend on.
type ChangedState uint8

const (
	// ChangedRemoved is reported when an asset is removed.
	ChangedRemoved ChangedState = iota
	// ChangedUpdated is reported when an asset is (re)loaded or saved.
	ChangedUpdated
)

func (s ChangedState) String() string {
	switch s {
	case ChangedRemoved:
		return "removed"
	case ChangedUpdated:
		return "updated"
	default:
		return "unknown"
	}
}

// Asset is a loaded (or loading) asset instance.
type Asset interface {
	Handle() Handle
	SetHandle(h Handle)
	Name() string
	SetName(name string)

	Flags() Flag
	HasFlag(f Flag) bool
	SetFlag(f Flag, on bool)
	// IsValid reports whether no flag is set.
	IsValid() bool

	// TypeGUID identifies the concrete kind.
	TypeGUID() uuid.UUID
	// Version is the newest file format version this kind can read.
	Version() uint32
	// OnDependencyChanged is invoked when an asset this one depends on changes.
	OnDependencyChanged(dependency Handle, state ChangedState)
}

// Base implements the bookkeeping part of Asset. Concrete kinds embed it and
// add TypeGUID, plus Version and OnDependencyChanged when they need to.
type Base struct {
	handle atomic.Uint64
	flags  atomic.Uint32

	mu   sync.RWMutex
	name string
}

func (b *Base) Handle() Handle {
	return Handle(b.handle.Load())
}

func (b *Base) SetHandle(h Handle) {
	b.handle.Store(uint64(h))
}

func (b *Base) Name() string {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.name
}

func (b *Base) SetName(name string) {
	b.mu.Lock()
	b.name = name
	b.mu.Unlock()
}

func (b *Base) Flags() Flag {
	return Flag(b.flags.Load())
}

func (b *Base) HasFlag(f Flag) bool {
	return b.Flags()&f != 0
}

func (b *Base) SetFlag(f Flag, on bool) {
	for {
		old := b.flags.Load()
		next := old &^ uint32(f)
		if on {
			next = old | uint32(f)
		}
		if b.flags.CompareAndSwap(old, next) {
			return
		}
	}
}

func (b *Base) IsValid() bool {
	return b.Flags() == 0
}

// Version defaults to 1.
func (b *Base) Version() uint32 {
	return 1
}

// OnDependencyChanged does nothing by default.
func (b *Base) OnDependencyChanged(Handle, ChangedState) {}
