package catalog

import "time"

// TableName is the catalog table.
const TableName = "asset_records"

// AssetRecord is one catalogued asset.
type AssetRecord struct {
	Handle    string    `gorm:"column:handle;primaryKey;size:20" json:"handle"`
	Type      string    `gorm:"column:type;size:36;index" json:"type"`
	Path      string    `gorm:"column:path;size:512;index" json:"path"`
	UpdatedAt time.Time `gorm:"column:updated_at" json:"updated_at"`
}

func (AssetRecord) TableName() string {
	return TableName
}

// Columns lists the columns the catalog reads and writes.
var Columns = []string{"handle", "type", "path", "updated_at"}
