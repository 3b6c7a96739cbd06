package cmd

import (
	"fmt"

	"asset-core/core/asset"
	"asset-core/core/binstream"
	"asset-core/core/serializer"
	"asset-core/feature/blob"

	"github.com/spf13/afero"
	"github.com/spf13/cobra"
)

type fileInfo struct {
	Path             string `json:"path"`
	Compression      string `json:"compression"`
	CompressedOffset uint64 `json:"compressed_offset"`
	BodySize         int    `json:"body_size"`
	Handle           string `json:"handle"`
	Type             string `json:"type"`
	TypeName         string `json:"type_name,omitempty"`
	Version          uint32 `json:"version"`
}

var inspectCmd = &cobra.Command{
	Use:   "inspect <file>",
	Short: "Print the container prefix and asset header of a file",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		r := binstream.NewReader(afero.NewOsFs(), args[0])
		if !r.IsStreamValid() {
			return r.Err()
		}
		header, err := serializer.ReadHeader(r)
		if err != nil {
			return fmt.Errorf("%s: %w", args[0], err)
		}

		info := fileInfo{
			Path:             args[0],
			Compression:      r.Compression().String(),
			CompressedOffset: r.CompressedOffset(),
			BodySize:         len(r.Bytes()),
			Handle:           header.Handle.String(),
			Type:             header.Type.String(),
			Version:          header.Version,
		}
		types := asset.NewTypeRegistry()
		if err := types.Register(blob.Type()); err != nil {
			return err
		}
		if t, ok := types.Lookup(header.Type); ok {
			info.TypeName = t.Name
		}
		return printJSON(info)
	},
}

func init() {
	RootCmd.AddCommand(inspectCmd)
}
