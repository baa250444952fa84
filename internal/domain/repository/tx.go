package repository

// Tx agrupa los repositorios atados a una misma transacción.
// Todo lo escrito a través de ellos se confirma o descarta como una unidad.
type Tx struct {
	Inventory InventoryRepository
	Movements InventoryMovementRepository
	Sales     SaleRepository
	Cart      CartRepository
	Products  ProductRepository
}
