package repository

// TxRepos agrupa los repositorios atados a una misma transacción. Todo lo que
// se escriba a través de ellos se confirma o se descarta junto.
type TxRepos struct {
	Products  ProductRepository
	Inventory InventoryRepository
	Movements StockMovementRepository
	Sales     SaleRepository
	Returns   SaleReturnRepository
	Purchases PurchaseRepository
	Debts     CustomerDebtRepository
}
