// Package memory implementa el Ledger Store en memoria (tests y STORE_DRIVER=memory).
//
// Cada escritura trabaja sobre una copia del estado confirmado y la publica al final;
// si la función falla, la copia se descarta. Las transacciones se serializan con
// writeMu y los lectores solo ven estados ya publicados.
package memory

import (
	"context"
	"sync"

	"github.com/jhoicas/stocktrace-api/internal/domain/entity"
	"github.com/jhoicas/stocktrace-api/internal/domain/repository"
)

var _ repository.TxRunner = (*Store)(nil)

type state struct {
	products   map[string]entity.Product
	warehouses map[string]entity.Warehouse
	locations  map[string]entity.Location
	users      map[string]entity.User
	documents  map[string]entity.Document // cabeceras, sin líneas
	lines      map[string][]entity.DocumentLine
	movements  []entity.StockMovement
	stock      map[entity.StockKey]entity.CurrentStock
	seq        int64
}

func newState() *state {
	return &state{
		products:   make(map[string]entity.Product),
		warehouses: make(map[string]entity.Warehouse),
		locations:  make(map[string]entity.Location),
		users:      make(map[string]entity.User),
		documents:  make(map[string]entity.Document),
		lines:      make(map[string][]entity.DocumentLine),
		stock:      make(map[entity.StockKey]entity.CurrentStock),
	}
}

func (s *state) clone() *state {
	c := newState()
	for k, v := range s.products {
		c.products[k] = v
	}
	for k, v := range s.warehouses {
		c.warehouses[k] = v
	}
	for k, v := range s.locations {
		c.locations[k] = v
	}
	for k, v := range s.users {
		c.users[k] = v
	}
	for k, v := range s.documents {
		c.documents[k] = v
	}
	for k, v := range s.lines {
		c.lines[k] = append([]entity.DocumentLine(nil), v...)
	}
	c.movements = append([]entity.StockMovement(nil), s.movements...)
	for k, v := range s.stock {
		c.stock[k] = v
	}
	c.seq = s.seq
	return c
}

// Store estado en memoria con soporte de transacciones.
type Store struct {
	mu        sync.RWMutex // protege committed
	writeMu   sync.Mutex   // serializa escrituras y transacciones
	committed *state
}

// NewStore construye un store vacío.
func NewStore() *Store {
	return &Store{committed: newState()}
}

// handle abstrae si un repositorio opera sobre el estado publicado o sobre una transacción.
type handle interface {
	read(fn func(st *state) error) error
	write(fn func(st *state) error) error
}

// storeHandle autocommit: cada escritura es su propia transacción.
type storeHandle struct{ s *Store }

func (h storeHandle) read(fn func(st *state) error) error {
	h.s.mu.RLock()
	defer h.s.mu.RUnlock()
	return fn(h.s.committed)
}

func (h storeHandle) write(fn func(st *state) error) error {
	h.s.writeMu.Lock()
	defer h.s.writeMu.Unlock()
	return h.s.apply(fn)
}

// apply ejecuta fn sobre una copia y la publica si no hay error. Requiere writeMu.
func (s *Store) apply(fn func(st *state) error) error {
	s.mu.RLock()
	working := s.committed.clone()
	s.mu.RUnlock()

	if err := fn(working); err != nil {
		return err
	}
	s.mu.Lock()
	s.committed = working
	s.mu.Unlock()
	return nil
}

// txHandle opera sobre la copia de trabajo de una transacción en curso.
type txHandle struct{ st *state }

func (h txHandle) read(fn func(st *state) error) error  { return fn(h.st) }
func (h txHandle) write(fn func(st *state) error) error { return fn(h.st) }

// Run ejecuta fn con repositorios atados a una copia de trabajo. Commit publica la copia;
// cualquier error la descarta sin dejar rastro.
func (s *Store) Run(ctx context.Context, fn func(repos repository.TxRepos) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.writeMu.Lock()
	defer s.writeMu.Unlock()
	return s.apply(func(st *state) error {
		return fn(reposFor(txHandle{st: st}))
	})
}

func reposFor(h handle) repository.TxRepos {
	return repository.TxRepos{
		Documents:  &DocumentRepo{h: h},
		Movements:  &MovementRepo{h: h},
		Stock:      &StockRepo{h: h},
		Products:   &ProductRepo{h: h},
		Warehouses: &WarehouseRepo{h: h},
		Locations:  &LocationRepo{h: h},
	}
}

// Repos devuelve los repositorios en modo autocommit.
func (s *Store) Repos() repository.TxRepos {
	return reposFor(storeHandle{s: s})
}

// Users devuelve el repositorio de usuarios en modo autocommit.
func (s *Store) Users() *UserRepo {
	return &UserRepo{h: storeHandle{s: s}}
}
