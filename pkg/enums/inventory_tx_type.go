package enums

import "fmt"

// InventoryTxType maps to the inventory_tx_type enum in Postgres.
type InventoryTxType string

const (
	InventoryTxTypeRestock    InventoryTxType = "restock"
	InventoryTxTypeExport     InventoryTxType = "export"
	InventoryTxTypeImport     InventoryTxType = "import"
	InventoryTxTypeAdjustment InventoryTxType = "adjustment"
)

var validInventoryTxTypes = []InventoryTxType{
	InventoryTxTypeRestock,
	InventoryTxTypeExport,
	InventoryTxTypeImport,
	InventoryTxTypeAdjustment,
}

// IsValid reports whether the value matches the canonical enum.
func (t InventoryTxType) IsValid() bool {
	for _, candidate := range validInventoryTxTypes {
		if candidate == t {
			return true
		}
	}
	return false
}

// ParseInventoryTxType converts raw input into InventoryTxType.
func ParseInventoryTxType(value string) (InventoryTxType, error) {
	for _, candidate := range validInventoryTxTypes {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid inventory transaction type %q", value)
}
