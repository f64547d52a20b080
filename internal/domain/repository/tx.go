package repository

import "context"

// TxRepos repositorios atados a una misma transacción.
type TxRepos struct {
	Documents  DocumentRepository
	Movements  StockMovementRepository
	Stock      StockRepository
	Products   ProductRepository
	Warehouses WarehouseRepository
	Locations  LocationRepository
}

// TxRunner ejecuta una función dentro de una transacción, pasando repositorios atados a esa tx.
// Si fn devuelve error se hace rollback completo; si no, commit.
type TxRunner interface {
	Run(ctx context.Context, fn func(repos TxRepos) error) error
}
