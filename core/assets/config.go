package assets

import "asset-core/core/binstream"

// Config holds configuration for the asset manager.
type Config struct {
	// ProjectDir is the root directory of the game project.
	ProjectDir string `mapstructure:"project_dir" default:"."`
	// AssetsDir is the project asset folder, relative to ProjectDir.
	AssetsDir string `mapstructure:"assets_dir" default:"Assets"`
	// EngineDir holds the Engine and Editor asset folders. Empty disables them.
	EngineDir string `mapstructure:"engine_dir" default:""`
	// Extension is the file extension of asset containers.
	Extension string `mapstructure:"extension" default:".asset"`
	// Compression is the codec for newly written files (none, zlib, snappy).
	Compression string `mapstructure:"compression" default:"zlib"`
}

// CompressionMode parses Compression.
func (c Config) CompressionMode() (binstream.Compression, error) {
	return binstream.ParseCompression(c.Compression)
}
