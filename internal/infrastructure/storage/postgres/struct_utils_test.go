package postgres

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/Lahiru-2000/inventory-management-system/internal/core/entity"
	"github.com/Lahiru-2000/inventory-management-system/internal/core/id"
)

type testCatalog struct {
	entity.Catalog
	SKU string `db:"sku" json:"sku"`
}

func TestExtractDBColumns_EmbeddedStructs(t *testing.T) {
	cols := ExtractDBColumns[testCatalog]()

	expectedCols := []string{
		"id", "deletion_mark", "version", "created_at", "updated_at", "name", "active", "sku",
	}

	for _, expected := range expectedCols {
		assert.Contains(t, cols, expected)
	}
}

func TestStructToMap_EmbeddedStructs(t *testing.T) {
	cat := testCatalog{
		Catalog: entity.Catalog{
			BaseCatalog: entity.BaseCatalog{
				BaseEntity: entity.BaseEntity{
					ID:      id.New(),
					Version: 5,
				},
			},
			Name:   "Widget",
			Active: true,
		},
		SKU: "WID-1",
	}

	m := StructToMap(cat)

	assert.Equal(t, cat.ID, m["id"])
	assert.Equal(t, 5, m["version"])
	assert.Equal(t, "Widget", m["name"])
	assert.Equal(t, true, m["active"])
	assert.Equal(t, "WID-1", m["sku"])
}
