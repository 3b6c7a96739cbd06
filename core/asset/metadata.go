package asset

import "github.com/google/uuid"

// Metadata is the registry record of an asset.
type Metadata struct {
	Handle        Handle    `json:"handle"`
	Type          uuid.UUID `json:"type"`
	FilePath      string    `json:"path"`
	IsLoaded      bool      `json:"loaded"`
	IsQueued      bool      `json:"queued"`
	IsMemoryAsset bool      `json:"memory"`
}

// NullMetadata is returned for unknown handles and paths.
var NullMetadata = Metadata{}

// IsValid reports whether m describes a registered asset.
func (m Metadata) IsValid() bool {
	return m.Handle != NullHandle
}
