package assets

import (
	"asset-core/core/asset"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// ChangeEvent is a deferred notification about one asset.
type ChangeEvent struct {
	Handle asset.Handle       `json:"handle"`
	Type   uuid.UUID          `json:"type"`
	State  asset.ChangedState `json:"state"`
}

// ChangedCallback receives change events for one asset type.
type ChangedCallback func(h asset.Handle, state asset.ChangedState)

type callbackEntry struct {
	id uuid.UUID
	fn ChangedCallback
}

// QueueAssetChanged appends an event that is dispatched on the next Update.
func (m *Manager) QueueAssetChanged(h asset.Handle, typ uuid.UUID, state asset.ChangedState) {
	m.changedMu.Lock()
	m.changed = append(m.changed, ChangeEvent{Handle: h, Type: typ, State: state})
	m.changedMu.Unlock()
}

// PendingChanges returns the number of events waiting for Update.
func (m *Manager) PendingChanges() int {
	m.changedMu.Lock()
	defer m.changedMu.Unlock()
	return len(m.changed)
}

// RegisterChangedCallback subscribes fn to events of typ and returns an id
// for UnregisterChangedCallback.
func (m *Manager) RegisterChangedCallback(typ uuid.UUID, fn ChangedCallback) uuid.UUID {
	id := uuid.New()

	m.callbacksMu.Lock()
	m.callbacks[typ] = append(m.callbacks[typ], callbackEntry{id: id, fn: fn})
	m.callbacksMu.Unlock()
	return id
}

// UnregisterChangedCallback removes a subscription.
func (m *Manager) UnregisterChangedCallback(typ uuid.UUID, id uuid.UUID) bool {
	m.callbacksMu.Lock()
	defer m.callbacksMu.Unlock()

	entries := m.callbacks[typ]
	for i, e := range entries {
		if e.id != id {
			continue
		}
		// copy so snapshots held by a running Update stay intact
		next := make([]callbackEntry, 0, len(entries)-1)
		next = append(next, entries[:i]...)
		next = append(next, entries[i+1:]...)
		if len(next) == 0 {
			delete(m.callbacks, typ)
		} else {
			m.callbacks[typ] = next
		}
		return true
	}
	return false
}

// Update drains the change queue and dispatches every event in order. Events
// queued by callbacks are delivered on the next call. It returns the number
// of events drained.
func (m *Manager) Update() int {
	m.changedMu.Lock()
	events := m.changed
	m.changed = nil
	m.changedMu.Unlock()

	if len(events) == 0 {
		return 0
	}

	m.callbacksMu.RLock()
	subscribers := make(map[uuid.UUID][]callbackEntry, len(m.callbacks))
	for typ, entries := range m.callbacks {
		subscribers[typ] = entries
	}
	m.callbacksMu.RUnlock()

	for _, ev := range events {
		for _, e := range subscribers[ev.Type] {
			e.fn(ev.Handle, ev.State)
		}
	}

	m.logger.Debug("Dispatched asset changes", zap.Int("events", len(events)))
	return len(events)
}
