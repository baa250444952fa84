// Package memory implementa los puertos de persistencia en memoria con la misma
// semántica transaccional que el adaptador PostgreSQL: escrituras diferidas por
// transacción, Commit/Rollback atómicos y bloqueo exclusivo por clave de inventario
// (equivalente a SELECT ... FOR UPDATE) retenido hasta el fin de la transacción.
package memory

import (
	"context"
	"fmt"
	"sync"

	"github.com/jhoicas/retail-api/internal/domain/entity"
	"github.com/jhoicas/retail-api/internal/domain/repository"
)

// Store guarda todas las tablas en mapas protegidos por un único mutex.
type Store struct {
	mu sync.RWMutex

	companies     map[string]*entity.Company
	branches      map[string]*entity.Branch
	products      map[string]*entity.Product
	suppliers     map[string]*entity.Supplier
	users         map[string]*entity.User
	plans         map[string]*entity.Plan
	features      map[string]*entity.PlanFeature  // por código
	assignments   map[string][]string             // planID -> códigos
	subscriptions map[string]*entity.Subscription // por companyID
	inventory     map[entity.InventoryKey]*entity.Inventory
	movements     []*entity.InventoryMovement
	sales         map[string]*entity.Sale
	saleOrder     []string
	cart          map[string]*entity.CartItem

	lockMu sync.Mutex
	locks  map[entity.InventoryKey]chan struct{}
}

// NewStore construye un almacén vacío.
func NewStore() *Store {
	return &Store{
		companies:     make(map[string]*entity.Company),
		branches:      make(map[string]*entity.Branch),
		products:      make(map[string]*entity.Product),
		suppliers:     make(map[string]*entity.Supplier),
		users:         make(map[string]*entity.User),
		plans:         make(map[string]*entity.Plan),
		features:      make(map[string]*entity.PlanFeature),
		assignments:   make(map[string][]string),
		subscriptions: make(map[string]*entity.Subscription),
		inventory:     make(map[entity.InventoryKey]*entity.Inventory),
		sales:         make(map[string]*entity.Sale),
		cart:          make(map[string]*entity.CartItem),
		locks:         make(map[entity.InventoryKey]chan struct{}),
	}
}

// Repositorios fuera de transacción (autocommit).

func (s *Store) Companies() repository.CompanyRepository           { return &companyRepo{s: s} }
func (s *Store) Branches() repository.BranchRepository             { return &branchRepo{s: s} }
func (s *Store) Products() repository.ProductRepository            { return &productRepo{s: s} }
func (s *Store) Suppliers() repository.SupplierRepository          { return &supplierRepo{s: s} }
func (s *Store) Users() repository.UserRepository                  { return &userRepo{s: s} }
func (s *Store) Plans() repository.PlanRepository                  { return &planRepo{s: s} }
func (s *Store) Subscriptions() repository.SubscriptionRepository  { return &subscriptionRepo{s: s} }
func (s *Store) Inventory() repository.InventoryRepository         { return &inventoryRepo{s: s} }
func (s *Store) Movements() repository.InventoryMovementRepository { return &movementRepo{s: s} }
func (s *Store) Sales() repository.SaleRepository                  { return &saleRepo{s: s} }
func (s *Store) Cart() repository.CartRepository                   { return &cartRepo{s: s} }

// TxRunner devuelve el runner transaccional del almacén.
func (s *Store) TxRunner() *TxRunner { return &TxRunner{s: s} }

// TxRunner ejecuta callbacks dentro de una transacción en memoria.
type TxRunner struct {
	s *Store
}

// Run inicia una transacción, ejecuta fn con repos atados a la tx y hace Commit o Rollback.
// Los bloqueos por clave tomados durante fn se liberan siempre al terminar.
func (r *TxRunner) Run(ctx context.Context, fn func(tx repository.Tx) error) error {
	t := newTxState()
	defer r.s.releaseAll(t)

	repos := repository.Tx{
		Inventory: &inventoryRepo{s: r.s, tx: t},
		Movements: &movementRepo{s: r.s, tx: t},
		Sales:     &saleRepo{s: r.s, tx: t},
		Cart:      &cartRepo{s: r.s, tx: t},
		Products:  &productRepo{s: r.s, tx: t},
	}
	if err := fn(repos); err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return r.s.commit(t)
}

// txState acumula las escrituras de una transacción hasta el Commit.
type txState struct {
	held         map[entity.InventoryKey]bool
	inventory    map[entity.InventoryKey]*entity.Inventory
	movements    []*entity.InventoryMovement
	sales        map[string]*entity.Sale
	saleOrder    []string
	cartPut      map[string]*entity.CartItem
	cartDeleted  map[string]bool
	cartConsumed map[string]int64
	costs        map[string]*entity.Product
}

func newTxState() *txState {
	return &txState{
		held:         make(map[entity.InventoryKey]bool),
		inventory:    make(map[entity.InventoryKey]*entity.Inventory),
		sales:        make(map[string]*entity.Sale),
		cartPut:      make(map[string]*entity.CartItem),
		cartDeleted:  make(map[string]bool),
		cartConsumed: make(map[string]int64),
		costs:        make(map[string]*entity.Product),
	}
}

// lock toma el bloqueo exclusivo de la clave para la transacción. Es reentrante:
// la misma tx puede pedir la misma clave varias veces (p. ej. dos líneas del mismo producto).
// Bloquea hasta que el dueño actual termine o ctx se cancele.
func (s *Store) lock(ctx context.Context, t *txState, key entity.InventoryKey) error {
	if t.held[key] {
		return nil
	}
	s.lockMu.Lock()
	ch, ok := s.locks[key]
	if !ok {
		ch = make(chan struct{}, 1)
		s.locks[key] = ch
	}
	s.lockMu.Unlock()

	select {
	case ch <- struct{}{}:
		t.held[key] = true
		return nil
	case <-ctx.Done():
		return fmt.Errorf("lock inventory: %w", ctx.Err())
	}
}

// consumeCartItem resta qty a la línea y la borra si queda en cero. Requiere s.mu tomado.
func (s *Store) consumeCartItem(id string, qty int64) {
	cur, ok := s.cart[id]
	if !ok {
		return
	}
	next := *cur
	next.Quantity -= qty
	if next.Quantity <= 0 {
		delete(s.cart, id)
		return
	}
	s.cart[id] = &next
}

func (s *Store) releaseAll(t *txState) {
	s.lockMu.Lock()
	defer s.lockMu.Unlock()
	for key := range t.held {
		<-s.locks[key]
	}
	t.held = nil
}

// commit aplica las escrituras diferidas bajo el mutex global; antes de liberar
// los bloqueos por clave, así el siguiente dueño lee el valor confirmado.
func (s *Store) commit(t *txState) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for key, inv := range t.inventory {
		if cur, ok := s.inventory[key]; ok && cur.ID != inv.ID {
			return fmt.Errorf("commit transaction: inventario duplicado %v", key)
		}
	}
	for key, inv := range t.inventory {
		s.inventory[key] = inv
	}
	s.movements = append(s.movements, t.movements...)
	for _, id := range t.saleOrder {
		s.sales[id] = t.sales[id]
		s.saleOrder = append(s.saleOrder, id)
	}
	for id := range t.cartDeleted {
		delete(s.cart, id)
	}
	for id, item := range t.cartPut {
		s.cart[id] = item
	}
	for id, qty := range t.cartConsumed {
		s.consumeCartItem(id, qty)
	}
	for id, p := range t.costs {
		if cur, ok := s.products[id]; ok {
			cur.Cost = p.Cost
			cur.UpdatedAt = p.UpdatedAt
		}
	}
	return nil
}
