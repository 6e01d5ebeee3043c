package models

// All returns every model in dependency order, for AutoMigrate.
func All() []any {
	return []any{
		&User{},
		&Product{},
		&Variant{},
		&InventoryTx{},
		&Cart{},
		&CartItem{},
		&Order{},
		&OrderItem{},
		&StaffNote{},
	}
}
