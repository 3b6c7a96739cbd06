package vfs

const (
	ModeLocal  = "local"
	ModeObject = "object"
)

// Config holds configuration for the recycle bin.
type Config struct {
	// Mode selects the recycle bin (local, object).
	Mode string `mapstructure:"mode" default:"local"`
	// Dir is the local recycle directory, relative to the project directory when not absolute.
	Dir string `mapstructure:"dir" default:".recycle"`
	// Prefix is the object key prefix used by the object storage bin.
	Prefix string `mapstructure:"prefix" default:"recycle/"`
}

// IsValidMode checks if the configured mode is known.
func (c Config) IsValidMode() bool {
	switch c.Mode {
	case ModeLocal, ModeObject:
		return true
	default:
		return false
	}
}
