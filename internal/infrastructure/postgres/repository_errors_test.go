package postgres_test

import (
	"context"
	"errors"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/retail-api/internal/domain"
	"github.com/jhoicas/retail-api/internal/domain/entity"
	"github.com/jhoicas/retail-api/internal/infrastructure/postgres"
)

// stubQuerier responde a todas las consultas con el mismo error y registra el SQL.
type stubQuerier struct {
	err  error
	tag  pgconn.CommandTag
	sqls []string
	args [][]any
}

func (q *stubQuerier) Exec(_ context.Context, sql string, args ...any) (pgconn.CommandTag, error) {
	q.sqls = append(q.sqls, sql)
	q.args = append(q.args, args)
	return q.tag, q.err
}

func (q *stubQuerier) Query(_ context.Context, sql string, args ...any) (pgx.Rows, error) {
	q.sqls = append(q.sqls, sql)
	q.args = append(q.args, args)
	return nil, q.err
}

func (q *stubQuerier) QueryRow(_ context.Context, sql string, args ...any) pgx.Row {
	q.sqls = append(q.sqls, sql)
	q.args = append(q.args, args)
	return errRow{err: q.err}
}

type errRow struct{ err error }

func (r errRow) Scan(...any) error { return r.err }

var key = entity.InventoryKey{CompanyID: "c1", BranchID: "b1", ProductID: "p1"}

// ─── Inventario ────────────────────────────────────────────────────────────────

func TestGetForUpdate_BloqueaLaFila(t *testing.T) {
	q := &stubQuerier{err: pgx.ErrNoRows}

	inv, err := postgres.NewInventoryRepository(q).GetForUpdate(context.Background(), key)

	require.NoError(t, err)
	assert.Nil(t, inv, "sin fila: (nil, nil)")
	require.Len(t, q.sqls, 1)
	assert.Contains(t, q.sqls[0], "FOR UPDATE")
	assert.Equal(t, []any{"c1", "b1", "p1"}, q.args[0])
}

func TestGetForUpdate_LockTimeoutEsConflicto(t *testing.T) {
	q := &stubQuerier{err: &pgconn.PgError{Code: "55P03", Message: "canceling statement due to lock timeout"}}

	_, err := postgres.NewInventoryRepository(q).GetForUpdate(context.Background(), key)

	assert.ErrorIs(t, err, domain.ErrConflict)
}

func TestGetForUpdate_IDInvalidoEsNoEncontrado(t *testing.T) {
	q := &stubQuerier{err: &pgconn.PgError{Code: "22P02"}}

	inv, err := postgres.NewInventoryRepository(q).GetForUpdate(context.Background(), key)

	require.NoError(t, err)
	assert.Nil(t, inv)
}

func TestUpdateStock_CheckNegativoEsStockInsuficiente(t *testing.T) {
	q := &stubQuerier{err: &pgconn.PgError{Code: "23514", ConstraintName: "inventory_stock_check"}}

	err := postgres.NewInventoryRepository(q).UpdateStock(context.Background(), &entity.Inventory{
		CompanyID: "c1", BranchID: "b1", ProductID: "p1", Stock: -1,
	})

	var verr *domain.ValidationError
	require.True(t, errors.As(err, &verr))
	assert.ErrorIs(t, err, domain.ErrInsufficientStock)
	assert.Equal(t, domain.MsgInsufficientStock, verr.Message)
}

func TestUpdateStock_OtroErrorSeEnvuelve(t *testing.T) {
	pgErr := &pgconn.PgError{Code: "08006"}
	q := &stubQuerier{err: pgErr}

	err := postgres.NewInventoryRepository(q).UpdateStock(context.Background(), &entity.Inventory{})

	assert.NotErrorIs(t, err, domain.ErrInsufficientStock)
	var got *pgconn.PgError
	require.True(t, errors.As(err, &got))
	assert.Equal(t, "08006", got.Code)
}

func TestUpdateStock_SinFilaEsNoEncontrado(t *testing.T) {
	q := &stubQuerier{tag: pgconn.NewCommandTag("UPDATE 0")}

	err := postgres.NewInventoryRepository(q).UpdateStock(context.Background(), &entity.Inventory{})

	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestCreateInventory_UnicoDuplicado(t *testing.T) {
	q := &stubQuerier{err: &pgconn.PgError{Code: "23505"}}

	err := postgres.NewInventoryRepository(q).Create(context.Background(), &entity.Inventory{})

	assert.ErrorIs(t, err, domain.ErrDuplicate)
}

// ─── Carrito ───────────────────────────────────────────────────────────────────

func TestConsumeItems_DescuentaYBorraSoloLoQuedaEnCero(t *testing.T) {
	q := &stubQuerier{tag: pgconn.NewCommandTag("UPDATE 1")}

	err := postgres.NewCartRepository(q).ConsumeItems(context.Background(), "u1", []*entity.CartItem{
		{ID: "i1", UserID: "u1", Quantity: 2},
		{ID: "i2", UserID: "u1", Quantity: 1},
	})
	require.NoError(t, err)

	require.Len(t, q.sqls, 3)
	assert.Contains(t, q.sqls[0], "quantity = quantity - $3")
	assert.Equal(t, []any{"i1", "u1", int64(2)}, q.args[0])
	assert.Equal(t, []any{"i2", "u1", int64(1)}, q.args[1])
	assert.Contains(t, q.sqls[2], "quantity <= 0")
	assert.Equal(t, []any{"u1", []string{"i1", "i2"}}, q.args[2])
}

func TestDeleteCartItem_IDInvalidoEsNoEncontrado(t *testing.T) {
	q := &stubQuerier{err: &pgconn.PgError{Code: "22P02"}}

	err := postgres.NewCartRepository(q).Delete(context.Background(), "u1", "no-es-uuid")

	assert.ErrorIs(t, err, domain.ErrNotFound)
}
