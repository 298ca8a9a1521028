package inventory_test

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/Kardex-api/internal/application/inventory"
	"github.com/jhoicas/Kardex-api/internal/domain"
	"github.com/jhoicas/Kardex-api/internal/domain/entity"
	"github.com/jhoicas/Kardex-api/internal/domain/repository"
	"github.com/jhoicas/Kardex-api/internal/domain/stock"
)

// ──────────────────────────────────────────────────────────────────────────────
// Fakes en memoria. Replican el contrato de los repositorios PostgreSQL sobre
// slices y mapas, incluida la atomicidad del TxRunner: si la función de la tx
// devuelve error, el estado vuelve al snapshot previo (rollback simulado).
// ──────────────────────────────────────────────────────────────────────────────

type memStore struct {
	seq       int64
	movements []*entity.Movement
	items     map[string]*entity.Item
	sites     map[string]*entity.Site
	suppliers map[string]*entity.Supplier
	orders    map[string]*entity.PurchaseOrder
	alerts    []*entity.LowStockAlert
	proposals []*entity.ReplenishmentProposal
	locked    []string // scopes bloqueados, en orden de adquisición
}

func newMemStore() *memStore {
	return &memStore{
		items:     map[string]*entity.Item{},
		sites:     map[string]*entity.Site{},
		suppliers: map[string]*entity.Supplier{},
		orders:    map[string]*entity.PurchaseOrder{},
	}
}

func (s *memStore) addSite(id string) {
	s.sites[id] = &entity.Site{ID: id, Code: id, Name: id, Kind: entity.SiteKindPharmacy}
}

func (s *memStore) addItem(item *entity.Item) {
	if item.UOM == "" {
		item.UOM = "UND"
	}
	s.items[item.ID] = item
}

// seed agrega una entrada directa al libro, sin pasar por los casos de uso.
func (s *memStore) seed(siteID, itemID string, qty int64, at time.Time) *entity.Movement {
	s.seq++
	m := &entity.Movement{
		ID:        fmt.Sprintf("seed-%d", s.seq),
		Seq:       s.seq,
		SiteID:    siteID,
		ItemID:    itemID,
		Direction: entity.DirectionIN,
		Quantity:  decimal.NewFromInt(qty),
		UOM:       "UND",
		Reason:    entity.ReasonPurchase,
		CreatedAt: at,
	}
	s.movements = append(s.movements, m)
	return m
}

// seedBatch como seed pero con lote y vencimiento.
func (s *memStore) seedBatch(siteID, itemID, batch string, expiry time.Time, qty int64, at time.Time) *entity.Movement {
	m := s.seed(siteID, itemID, qty, at)
	m.Batch = batch
	m.Expiry = &expiry
	return m
}

// ─── MovementRepository ───────────────────────────────────────────────────────

type memMovements struct{ s *memStore }

func (r *memMovements) Create(_ context.Context, m *entity.Movement) error {
	r.s.seq++
	m.Seq = r.s.seq
	r.s.movements = append(r.s.movements, m)
	return nil
}

func (r *memMovements) CreateBatch(ctx context.Context, movements []*entity.Movement) error {
	for _, m := range movements {
		if err := r.Create(ctx, m); err != nil {
			return err
		}
	}
	return nil
}

func (r *memMovements) ListByScope(_ context.Context, scope stock.Scope) ([]*entity.Movement, error) {
	var out []*entity.Movement
	for _, m := range r.s.movements {
		if scope.Matches(m) {
			out = append(out, m)
		}
	}
	return out, nil
}

func (r *memMovements) ListByOrderRef(_ context.Context, orderID string) ([]*entity.Movement, error) {
	var out []*entity.Movement
	for _, m := range r.s.movements {
		if m.Direction == entity.DirectionIN &&
			m.Ref.Kind == entity.RefKindPurchaseOrder && m.Ref.ID == orderID {
			out = append(out, m)
		}
	}
	return out, nil
}

func (r *memMovements) ListExpiryScopes(_ context.Context, siteID string, cutoff time.Time, itemID string) ([]stock.Scope, error) {
	seen := map[string]bool{}
	var out []stock.Scope
	for _, m := range r.s.movements {
		if m.SiteID != siteID || m.Expiry == nil || m.Expiry.After(cutoff) {
			continue
		}
		if itemID != "" && m.ItemID != itemID {
			continue
		}
		key := m.ItemID + "|" + m.Batch + "|" + m.Expiry.Format(time.RFC3339)
		if seen[key] {
			continue
		}
		seen[key] = true
		exp := *m.Expiry
		out = append(out, stock.Scope{SiteID: siteID, ItemID: m.ItemID, Batch: m.Batch, Expiry: &exp})
	}
	return out, nil
}

func (r *memMovements) ForEachInRange(_ context.Context, scope stock.Scope, from, to *time.Time, fn func(*entity.Movement) error) error {
	var rows []*entity.Movement
	for _, m := range r.s.movements {
		if !scope.Matches(m) {
			continue
		}
		if from != nil && m.CreatedAt.Before(*from) {
			continue
		}
		if to != nil && m.CreatedAt.After(*to) {
			continue
		}
		rows = append(rows, m)
	}
	sort.SliceStable(rows, func(i, j int) bool {
		if !rows[i].CreatedAt.Equal(rows[j].CreatedAt) {
			return rows[i].CreatedAt.Before(rows[j].CreatedAt)
		}
		return rows[i].Seq < rows[j].Seq
	})
	for _, m := range rows {
		if err := fn(m); err != nil {
			return err
		}
	}
	return nil
}

// ─── ItemRepository / SiteRepository / SupplierRepository ─────────────────────

type memItems struct{ s *memStore }

func (r *memItems) GetByID(_ context.Context, id string) (*entity.Item, error) {
	return r.s.items[id], nil
}

func (r *memItems) UpdatePolicy(_ context.Context, itemID string, policy entity.ItemPolicy) error {
	item, ok := r.s.items[itemID]
	if !ok {
		return domain.ErrNotFound
	}
	item.Policy = policy
	return nil
}

type memSites struct{ s *memStore }

func (r *memSites) GetByID(_ context.Context, id string) (*entity.Site, error) {
	return r.s.sites[id], nil
}

type memSuppliers struct{ s *memStore }

func (r *memSuppliers) GetByID(_ context.Context, id string) (*entity.Supplier, error) {
	return r.s.suppliers[id], nil
}

// ─── PurchaseOrderRepository ──────────────────────────────────────────────────

type memOrders struct{ s *memStore }

func (r *memOrders) Create(_ context.Context, order *entity.PurchaseOrder) error {
	r.s.orders[order.ID] = order
	return nil
}

func (r *memOrders) GetByID(_ context.Context, id string) (*entity.PurchaseOrder, error) {
	return r.s.orders[id], nil
}

func (r *memOrders) GetForUpdate(ctx context.Context, id string) (*entity.PurchaseOrder, error) {
	return r.GetByID(ctx, id)
}

func (r *memOrders) UpdateStatus(_ context.Context, id, status string, receivedAt *time.Time) error {
	order, ok := r.s.orders[id]
	if !ok {
		return domain.ErrNotFound
	}
	order.Status = status
	if receivedAt != nil {
		order.ReceivedAt = receivedAt
	}
	return nil
}

// ─── AlertRepository ──────────────────────────────────────────────────────────

type memAlerts struct{ s *memStore }

func (r *memAlerts) CreateLowStock(_ context.Context, alert *entity.LowStockAlert) error {
	r.s.alerts = append(r.s.alerts, alert)
	return nil
}

func (r *memAlerts) CreateProposal(_ context.Context, proposal *entity.ReplenishmentProposal) error {
	r.s.proposals = append(r.s.proposals, proposal)
	return nil
}

// ─── LowStockRepository ───────────────────────────────────────────────────────

type memLowStock struct{ s *memStore }

func (r *memLowStock) ListBelowReorder(_ context.Context, siteID string, limit, offset int) ([]repository.LowStockItem, error) {
	stocks := map[string]decimal.Decimal{}
	for _, m := range r.s.movements {
		if m.SiteID == siteID {
			stocks[m.ItemID] = stocks[m.ItemID].Add(m.SignedQuantity())
		}
	}
	var out []repository.LowStockItem
	for id, st := range stocks {
		item, ok := r.s.items[id]
		if !ok {
			continue
		}
		if st.LessThanOrEqual(item.Policy.ReorderPoint) {
			out = append(out, repository.LowStockItem{Item: *item, Stock: st})
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Item.Code < out[j].Item.Code })
	if offset >= len(out) {
		return nil, nil
	}
	out = out[offset:]
	if limit < len(out) {
		out = out[:limit]
	}
	return out, nil
}

// ─── TxRunner + ScopeLocker ───────────────────────────────────────────────────

type memTx struct{ s *memStore }

func (t *memTx) LockScope(_ context.Context, siteID, itemID string) error {
	t.s.locked = append(t.s.locked, siteID+"/"+itemID)
	return nil
}

type txSnapshot struct {
	movements  []*entity.Movement
	alerts     []*entity.LowStockAlert
	proposals  []*entity.ReplenishmentProposal
	status     map[string]string
	receivedAt map[string]*time.Time
}

func (t *memTx) snapshot() txSnapshot {
	snap := txSnapshot{
		movements:  append([]*entity.Movement(nil), t.s.movements...),
		alerts:     append([]*entity.LowStockAlert(nil), t.s.alerts...),
		proposals:  append([]*entity.ReplenishmentProposal(nil), t.s.proposals...),
		status:     map[string]string{},
		receivedAt: map[string]*time.Time{},
	}
	for id, o := range t.s.orders {
		snap.status[id] = o.Status
		snap.receivedAt[id] = o.ReceivedAt
	}
	return snap
}

func (t *memTx) restore(snap txSnapshot) {
	t.s.movements = snap.movements
	t.s.alerts = snap.alerts
	t.s.proposals = snap.proposals
	for id, o := range t.s.orders {
		o.Status = snap.status[id]
		o.ReceivedAt = snap.receivedAt[id]
	}
}

func (t *memTx) Run(_ context.Context, fn func(
	movRepo repository.MovementRepository,
	itemRepo repository.ItemRepository,
	orderRepo repository.PurchaseOrderRepository,
	alertRepo repository.AlertRepository,
	locks inventory.ScopeLocker,
) error) error {
	snap := t.snapshot()
	err := fn(&memMovements{t.s}, &memItems{t.s}, &memOrders{t.s}, &memAlerts{t.s}, t)
	if err != nil {
		t.restore(snap)
	}
	return err
}

// conflictTx simula un conflicto de serialización detectado al confirmar:
// el closure corre completo, la tx se revierte igual y Run devuelve el
// conflicto. Tras fails fallos delega en la transacción normal.
type conflictTx struct {
	inner *memTx
	fails int
}

func (t *conflictTx) Run(ctx context.Context, fn func(
	movRepo repository.MovementRepository,
	itemRepo repository.ItemRepository,
	orderRepo repository.PurchaseOrderRepository,
	alertRepo repository.AlertRepository,
	locks inventory.ScopeLocker,
) error) error {
	if t.fails == 0 {
		return t.inner.Run(ctx, fn)
	}
	t.fails--
	snap := t.inner.snapshot()
	s := t.inner.s
	if err := fn(&memMovements{s}, &memItems{s}, &memOrders{s}, &memAlerts{s}, t.inner); err != nil {
		t.inner.restore(snap)
		return err
	}
	t.inner.restore(snap)
	return domain.ErrConcurrencyConflict
}
