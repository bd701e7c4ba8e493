package inventory_test

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/drb-alger/gestion-magasin/internal/application/dto"
	"github.com/drb-alger/gestion-magasin/internal/application/inventory"
	"github.com/drb-alger/gestion-magasin/internal/domain"
	"github.com/drb-alger/gestion-magasin/internal/domain/entity"
	ledger "github.com/drb-alger/gestion-magasin/internal/domain/inventory"
	"github.com/drb-alger/gestion-magasin/internal/infrastructure/sqlite"
	"github.com/drb-alger/gestion-magasin/pkg/logger"
)

// recorder captura eventos y métricas emitidos tras el commit.
type recorder struct {
	mu        sync.Mutex
	recorded  []*entity.Movement
	lowStock  []int64
	committed int
	rejected  []string
	failPub   bool
}

func (r *recorder) MovementRecorded(_ context.Context, m *entity.Movement, _ *entity.Product) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.recorded = append(r.recorded, m)
	if r.failPub {
		return errors.New("broker caído")
	}
	return nil
}

func (r *recorder) LowStockReached(_ context.Context, p *entity.Product) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.lowStock = append(r.lowStock, p.ID)
	return nil
}

func (r *recorder) MovementCommitted(string, int64) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.committed++
}

func (r *recorder) MovementRejected(_ string, reason string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.rejected = append(r.rejected, reason)
}

func (r *recorder) LowStockObserved(int) {}

type fixture struct {
	products  *inventory.ProductUseCase
	movements *inventory.MovementUseCase
	history   *inventory.HistoryUseCase
	rec       *recorder
}

func setup(t *testing.T) *fixture {
	t.Helper()
	db, err := sqlite.OpenDB(context.Background(), ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	log := logger.Nop()
	tx := sqlite.NewTxRunner(db)
	catalog := entity.NewCatalog(nil, nil)
	rec := &recorder{}
	return &fixture{
		products:  inventory.NewProductUseCase(sqlite.NewProductRepository(db), tx, rec, catalog, log),
		movements: inventory.NewMovementUseCase(tx, rec, rec, catalog, log),
		history:   inventory.NewHistoryUseCase(sqlite.NewHistoryRepository(db), 0, 0, log),
		rec:       rec,
	}
}

func (f *fixture) create(t *testing.T, name string, qty, min int64) *dto.ProductResponse {
	t.Helper()
	p, err := f.products.Create(context.Background(), dto.CreateProductRequest{
		Name: name, Quantity: qty, MinThreshold: min, Price: decimal.NewFromInt(100), DateAdded: "2025-01-15",
	})
	require.NoError(t, err)
	return p
}

func TestClavierScenario(t *testing.T) {
	ctx := context.Background()
	f := setup(t)
	clavier := f.create(t, "Clavier", 10, 5)

	res, err := f.movements.Allocate(ctx, dto.AllocateRequest{ProductID: clavier.ID, Quantity: 3, Recipient: "Bureau Informatique"})
	require.NoError(t, err)
	assert.Equal(t, int64(7), res.NewQuantity)
	assert.False(t, res.LowStock)
	n, err := f.products.CountLowStock(ctx)
	require.NoError(t, err)
	assert.Equal(t, 0, n)

	res, err = f.movements.Allocate(ctx, dto.AllocateRequest{ProductID: clavier.ID, Quantity: 5, Recipient: "Bureau Suivi"})
	require.NoError(t, err)
	assert.Equal(t, int64(2), res.NewQuantity)
	assert.True(t, res.LowStock)
	assert.Equal(t, entity.MovementTypeSortie, res.Movement.Type)
	assert.Equal(t, int64(2), res.Movement.StockAfter)
	n, err = f.products.CountLowStock(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	// Evento de stock bajo solo al cruzar el umbral
	assert.Equal(t, []int64{clavier.ID}, f.rec.lowStock)
	assert.Equal(t, 2, f.rec.committed)
}

func TestAllocate_StockInsuficienteNoCambiaNada(t *testing.T) {
	ctx := context.Background()
	f := setup(t)
	p := f.create(t, "Toner", 2, 0)

	_, err := f.movements.Allocate(ctx, dto.AllocateRequest{ProductID: p.ID, Quantity: 3})
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrInsufficientStock)
	var ise *domain.InsufficientStockError
	require.ErrorAs(t, err, &ise)
	assert.Equal(t, int64(2), ise.Available)
	assert.Equal(t, int64(3), ise.Requested)

	got, err := f.products.GetByID(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(2), got.Quantity)

	hist, err := f.history.Query(ctx, dto.HistoryQuery{})
	require.NoError(t, err)
	assert.Empty(t, hist.Items)
	assert.Empty(t, f.rec.recorded)
	assert.Equal(t, []string{"insufficient_stock"}, f.rec.rejected)
}

func TestAllocate_Validaciones(t *testing.T) {
	ctx := context.Background()
	f := setup(t)
	p := f.create(t, "Toner", 2, 0)

	_, err := f.movements.Allocate(ctx, dto.AllocateRequest{ProductID: p.ID, Quantity: 0})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = f.movements.Allocate(ctx, dto.AllocateRequest{ProductID: 999, Quantity: 1})
	assert.ErrorIs(t, err, domain.ErrNotFound)

	_, err = f.movements.Restock(ctx, dto.RestockRequest{ProductID: p.ID, Type: "AJUSTE", Quantity: 1})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = f.movements.Restock(ctx, dto.RestockRequest{ProductID: p.ID, Type: entity.MovementTypeEntree, Quantity: 1, Date: "15/01/2025"})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestMovimientos_UnaFilaPorCommitYReplay(t *testing.T) {
	ctx := context.Background()
	f := setup(t)
	a := f.create(t, "Ramette A4", 5, 0)
	b := f.create(t, "Stylo", 50, 0)

	steps := []dto.RestockRequest{
		{ProductID: a.ID, Type: entity.MovementTypeEntree, Quantity: 20, Date: "2025-02-01"},
		{ProductID: a.ID, Type: entity.MovementTypeSortie, Quantity: 7, Recipient: "CBW Blida", Date: "2025-02-02 10:30:00"},
		{ProductID: a.ID, Type: entity.MovementTypeSortie, Quantity: 100, Date: "2025-02-03"}, // rechazado
		{ProductID: a.ID, Type: entity.MovementTypeEntree, Quantity: 2, Date: "2025-02-04"},
	}
	for i, s := range steps {
		_, err := f.movements.Restock(ctx, s)
		if i == 2 {
			require.ErrorIs(t, err, domain.ErrInsufficientStock)
			continue
		}
		require.NoError(t, err)
	}

	id := a.ID
	hist, filter, err := f.history.Rows(ctx, dto.HistoryQuery{ProductID: &id})
	require.NoError(t, err)
	require.Len(t, hist, 3)
	assert.Equal(t, inventory.DefaultHistoryLimit, filter.Limit)

	movs := make([]*entity.Movement, 0, len(hist))
	for _, h := range hist {
		movs = append(movs, &entity.Movement{Type: h.Type, Quantity: h.Quantity})
	}
	current, err := f.products.GetByID(ctx, a.ID)
	require.NoError(t, err)
	assert.Equal(t, current.Quantity, ledger.Replay(5, movs))
	assert.Equal(t, int64(20), current.Quantity)

	// El diario del producto reproduce el mismo stock
	journal, err := f.products.Movements(ctx, a.ID)
	require.NoError(t, err)
	assert.Equal(t, 3, journal.Count)
	assert.Equal(t, int64(5), journal.InitialQuantity)
	assert.True(t, journal.Consistent)
	assert.Equal(t, "2025-02-04 00:00:00", journal.Items[0].Timestamp)
	assert.Equal(t, int64(20), journal.Items[0].StockAfter)

	// El otro producto no cambia
	other, err := f.products.GetByID(ctx, b.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(50), other.Quantity)

	// Fecha solo día se guarda a medianoche
	assert.Equal(t, "2025-02-01 00:00:00", hist[2].Date.Format(entity.TimestampLayout))
}

func TestHistory_LimitDevuelveLosMasRecientes(t *testing.T) {
	ctx := context.Background()
	f := setup(t)
	p := f.create(t, "Agrafeuse", 0, 0)
	for i, d := range []string{"2025-01-01", "2025-01-02", "2025-01-03", "2025-01-04", "2025-01-05"} {
		_, err := f.movements.Restock(ctx, dto.RestockRequest{
			ProductID: p.ID, Type: entity.MovementTypeEntree, Quantity: int64(i + 1), Date: d,
		})
		require.NoError(t, err)
	}

	out, err := f.history.Query(ctx, dto.HistoryQuery{Limit: 2})
	require.NoError(t, err)
	require.Len(t, out.Items, 2)
	assert.Equal(t, "2025-01-05 00:00:00", out.Items[0].Date)
	assert.Equal(t, "2025-01-04 00:00:00", out.Items[1].Date)
	// ResultingStock es el stock actual; StockAtMovement la foto
	assert.Equal(t, int64(15), out.Items[1].ResultingStock)
	assert.Equal(t, int64(10), out.Items[1].StockAtMovement)

	all, err := f.history.Query(ctx, dto.HistoryQuery{Type: "Tous"})
	require.NoError(t, err)
	assert.Len(t, all.Items, 5)
	assert.Equal(t, inventory.DefaultHistoryLimit, all.Limit)

	_, err = f.history.Query(ctx, dto.HistoryQuery{Type: "AUTRE"})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestHistory_LimiteMaximo(t *testing.T) {
	f := setup(t)
	filter, err := f.history.Filter(dto.HistoryQuery{Limit: 100000, Type: "sortie"})
	require.NoError(t, err)
	assert.Equal(t, inventory.MaxHistoryLimit, filter.Limit)
	assert.Equal(t, entity.MovementTypeSortie, filter.Type)
}

func TestDelete_ConMovimientosProhibido(t *testing.T) {
	ctx := context.Background()
	f := setup(t)
	p := f.create(t, "Chaise", 4, 0)
	_, err := f.movements.Allocate(ctx, dto.AllocateRequest{ProductID: p.ID, Quantity: 1, Recipient: "secretariat"})
	require.NoError(t, err)

	err = f.products.Delete(ctx, p.ID)
	assert.ErrorIs(t, err, domain.ErrHasMovements)
	assert.ErrorIs(t, err, domain.ErrConflict)

	got, err := f.products.GetByID(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(3), got.Quantity)

	fresh := f.create(t, "Bureau", 1, 0)
	require.NoError(t, f.products.Delete(ctx, fresh.ID))
	_, err = f.products.GetByID(ctx, fresh.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)
	assert.ErrorIs(t, f.products.Delete(ctx, fresh.ID), domain.ErrNotFound)
}

func TestCountLowStock_Limite(t *testing.T) {
	ctx := context.Background()
	f := setup(t)
	f.create(t, "Exacto", 5, 5)
	f.create(t, "Bajo", 4, 5)
	f.create(t, "SinUmbral", 0, 0)

	n, err := f.products.CountLowStock(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, n)
}

func TestProduct_CreateValidacionesYDefaults(t *testing.T) {
	ctx := context.Background()
	f := setup(t)

	_, err := f.products.Create(ctx, dto.CreateProductRequest{Name: "   "})
	var ve *domain.ValidationError
	require.ErrorAs(t, err, &ve)
	assert.Equal(t, "name", ve.Field)

	_, err = f.products.Create(ctx, dto.CreateProductRequest{Name: "X", Quantity: -1})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = f.products.Create(ctx, dto.CreateProductRequest{Name: "X", DateAdded: "2025/01/01"})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	// Categoría fuera del catálogo: aceptada
	p, err := f.products.Create(ctx, dto.CreateProductRequest{
		Name: "  Eau minérale ", Category: "BOISSONS", Quantity: 12, Price: decimal.RequireFromString("0.5"),
	})
	require.NoError(t, err)
	assert.Equal(t, "Eau minérale", p.Name)
	assert.Len(t, p.DateAdded, len(entity.DateLayout))
	assert.True(t, decimal.NewFromInt(6).Equal(p.Value))
}

func TestProduct_UpdateYAjusteDirectoSinMovimientos(t *testing.T) {
	ctx := context.Background()
	f := setup(t)
	p := f.create(t, "Classeur", 10, 3)

	up, err := f.products.Update(ctx, p.ID, dto.UpdateProductRequest{
		Name: "Classeur A4", Quantity: 2, MinThreshold: 3, DateAdded: p.DateAdded, Price: p.Price,
	})
	require.NoError(t, err)
	assert.Equal(t, int64(2), up.Quantity)
	assert.True(t, up.LowStock)

	adj, err := f.products.AdjustQuantityDirect(ctx, p.ID, 40)
	require.NoError(t, err)
	assert.Equal(t, int64(40), adj.Quantity)
	assert.Equal(t, "Classeur A4", adj.Name)

	_, err = f.products.AdjustQuantityDirect(ctx, p.ID, -1)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
	_, err = f.products.AdjustQuantityDirect(ctx, 999, 1)
	assert.ErrorIs(t, err, domain.ErrNotFound)
	_, err = f.products.Update(ctx, 999, dto.UpdateProductRequest{Name: "x", DateAdded: "2025-01-01"})
	assert.ErrorIs(t, err, domain.ErrNotFound)

	hist, err := f.history.Query(ctx, dto.HistoryQuery{})
	require.NoError(t, err)
	assert.Empty(t, hist.Items)
}

func TestProduct_MovementsDiario(t *testing.T) {
	ctx := context.Background()
	f := setup(t)
	p := f.create(t, "Agrafeuse", 10, 0)

	// Entrada con fecha anterior registrada después de una salida
	_, err := f.movements.Restock(ctx, dto.RestockRequest{ProductID: p.ID, Type: entity.MovementTypeSortie, Quantity: 4, Date: "2025-03-10"})
	require.NoError(t, err)
	_, err = f.movements.Restock(ctx, dto.RestockRequest{ProductID: p.ID, Type: entity.MovementTypeEntree, Quantity: 3, Date: "2025-03-01"})
	require.NoError(t, err)

	journal, err := f.products.Movements(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, journal.Count)
	assert.Equal(t, int64(9), journal.Quantity)
	assert.Equal(t, int64(10), journal.InitialQuantity)
	assert.True(t, journal.Consistent)
	assert.Equal(t, entity.MovementTypeSortie, journal.Items[0].Type)

	// El ajuste directo rompe la cadena stock_after
	_, err = f.products.AdjustQuantityDirect(ctx, p.ID, 30)
	require.NoError(t, err)
	journal, err = f.products.Movements(ctx, p.ID)
	require.NoError(t, err)
	assert.False(t, journal.Consistent)
	assert.Equal(t, int64(31), journal.InitialQuantity)

	empty := f.create(t, "Scotch", 4, 0)
	journal, err = f.products.Movements(ctx, empty.ID)
	require.NoError(t, err)
	assert.Zero(t, journal.Count)
	assert.NotNil(t, journal.Items)
	assert.True(t, journal.Consistent)
	assert.Equal(t, int64(4), journal.InitialQuantity)

	_, err = f.products.Movements(ctx, 999)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestProduct_ListFiltros(t *testing.T) {
	ctx := context.Background()
	f := setup(t)
	f.create(t, "Écran", 1, 0)
	f.create(t, "Clavier", 1, 0)

	out, err := f.products.List(ctx, entity.ProductFilter{NameContains: "ÉCR"})
	require.NoError(t, err)
	require.Equal(t, 1, out.Count)
	assert.Equal(t, "Écran", out.Items[0].Name)
}

func TestPublicacionFallidaNoDeshaceElCommit(t *testing.T) {
	ctx := context.Background()
	f := setup(t)
	f.rec.failPub = true
	p := f.create(t, "Cartouche", 3, 0)

	res, err := f.movements.Allocate(ctx, dto.AllocateRequest{ProductID: p.ID, Quantity: 1})
	require.NoError(t, err)
	assert.Equal(t, int64(2), res.NewQuantity)
	assert.Len(t, f.rec.recorded, 1)
}

func TestAllocate_Concurrente(t *testing.T) {
	ctx := context.Background()
	f := setup(t)
	p := f.create(t, "Gobelets", 10, 0)

	var wg sync.WaitGroup
	errs := make(chan error, 15)
	for i := 0; i < 15; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := f.movements.Allocate(ctx, dto.AllocateRequest{ProductID: p.ID, Quantity: 1})
			errs <- err
		}()
	}
	wg.Wait()
	close(errs)

	var ok, insufficient int
	for err := range errs {
		switch {
		case err == nil:
			ok++
		case errors.Is(err, domain.ErrInsufficientStock):
			insufficient++
		default:
			t.Fatalf("error inesperado: %v", err)
		}
	}
	assert.Equal(t, 10, ok)
	assert.Equal(t, 5, insufficient)

	got, err := f.products.GetByID(ctx, p.ID)
	require.NoError(t, err)
	assert.Zero(t, got.Quantity)
}
