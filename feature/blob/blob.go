package blob

import (
	"errors"
	"fmt"
	"mime"
	"path/filepath"

	"asset-core/core/asset"
	"asset-core/core/binstream"
	"asset-core/core/depgraph"
	"asset-core/core/serializer"

	"github.com/google/uuid"
)

// TypeGUID identifies Blob assets on disk.
var TypeGUID = uuid.MustParse("5d1f0c2e-7b3a-4e8f-a6d9-0c4b2e1f3a5d")

// Extension is the file extension of Blob containers.
const Extension = ".blob"

// Blob is an opaque asset payload.
type Blob struct {
	asset.Base
	Data        []byte
	ContentType string
	Tags        map[string]string
	References  []asset.Handle
}

// New returns an empty Blob.
func New() asset.Asset {
	return &Blob{}
}

func (b *Blob) TypeGUID() uuid.UUID {
	return TypeGUID
}

// FromFile wraps raw file contents, guessing the content type from the name.
func FromFile(name string, data []byte) *Blob {
	ct := mime.TypeByExtension(filepath.Ext(name))
	if ct == "" {
		ct = "application/octet-stream"
	}
	return &Blob{Data: data, ContentType: ct}
}

// Type is the descriptor to register with an asset.TypeRegistry.
func Type() *asset.Type {
	return &asset.Type{
		GUID:       TypeGUID,
		Name:       "Blob",
		Extensions: []string{Extension},
		New:        New,
	}
}

// Register adds the Blob type and its serializer.
func Register(types *asset.TypeRegistry, serializers *serializer.Registry) error {
	if err := types.Register(Type()); err != nil {
		return err
	}
	return serializers.RegisterSerializer(TypeGUID, Serializer{})
}

// Serializer reads and writes Blob containers.
type Serializer struct{}

func (Serializer) Serialize(host serializer.Host, meta asset.Metadata, a asset.Asset) error {
	b, ok := a.(*Blob)
	if !ok {
		return fmt.Errorf("blob: unexpected asset %T", a)
	}
	return serializer.WriteAssetFile(host, meta, b.Version(), func(w *binstream.Writer) error {
		if err := w.Write(b.ContentType); err != nil {
			return err
		}
		if err := binstream.WriteMap(w, b.Tags); err != nil {
			return err
		}
		if err := binstream.WriteSlice(w, b.References); err != nil {
			return err
		}
		return w.Write(b.Data)
	})
}

func (Serializer) Deserialize(host serializer.Host, meta asset.Metadata, a asset.Asset) error {
	b, ok := a.(*Blob)
	if !ok {
		return fmt.Errorf("blob: unexpected asset %T", a)
	}
	r, _, err := serializer.OpenAssetFile(host, meta, a)
	if err != nil {
		return err
	}

	if err := r.Read(&b.ContentType); err != nil {
		return err
	}
	if b.Tags, err = binstream.ReadMap[string, string](r); err != nil {
		return err
	}
	if b.References, err = binstream.ReadSlice[asset.Handle](r); err != nil {
		return err
	}
	if err := r.Read(&b.Data); err != nil {
		return err
	}

	for _, ref := range b.References {
		// unregistered references stay in the payload but get no edge
		if err := host.AddDependencyToAsset(meta.Handle, ref); err != nil && !errors.Is(err, depgraph.ErrNodeNotFound) {
			return err
		}
	}
	return nil
}
