package events_test

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/segmentio/kafka-go"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/retail-api/internal/domain/entity"
	"github.com/jhoicas/retail-api/internal/infrastructure/events"
)

// fakeWriter registra los mensajes; block retiene WriteMessages hasta que se cierre.
type fakeWriter struct {
	mu       sync.Mutex
	messages []kafka.Message
	err      error
	block    chan struct{}
	closed   bool
}

func (w *fakeWriter) WriteMessages(_ context.Context, msgs ...kafka.Message) error {
	if w.block != nil {
		<-w.block
	}
	w.mu.Lock()
	defer w.mu.Unlock()
	w.messages = append(w.messages, msgs...)
	return w.err
}

func (w *fakeWriter) Close() error {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.closed = true
	return nil
}

func (w *fakeWriter) count() int {
	w.mu.Lock()
	defer w.mu.Unlock()
	return len(w.messages)
}

func sampleSale(id string) *entity.Sale {
	return &entity.Sale{
		ID:            id,
		CompanyID:     "company-a",
		BranchID:      "branch-a",
		SellerID:      "seller-a",
		PaymentMethod: entity.PaymentCash,
		Total:         decimal.NewFromInt(3000),
		CreatedAt:     time.Date(2026, 6, 15, 10, 0, 0, 0, time.UTC),
		Items: []entity.SaleItem{
			{ID: "i1", SaleID: id, Line: 1, ProductID: "product-a", Quantity: 3, UnitPrice: decimal.NewFromInt(1000)},
		},
	}
}

func TestSalePublisher_PublicaConClaveDeEmpresa(t *testing.T) {
	w := &fakeWriter{}
	p := events.NewSalePublisher(w, "sales.committed", 10, zerolog.Nop())

	p.PublishSaleCommitted(context.Background(), sampleSale("sale-1"))
	require.NoError(t, p.Close())

	require.Equal(t, 1, w.count())
	msg := w.messages[0]
	assert.Equal(t, "company-a", string(msg.Key))

	var ev events.SaleCommittedEvent
	require.NoError(t, json.Unmarshal(msg.Value, &ev))
	assert.Equal(t, events.EventSaleCommitted, ev.Type)
	assert.Equal(t, "sale-1", ev.SaleID)
	assert.True(t, decimal.NewFromInt(3000).Equal(ev.Total))
	require.Len(t, ev.Items, 1)
	assert.Equal(t, int64(3), ev.Items[0].Quantity)
	assert.True(t, w.closed)
}

func TestSalePublisher_DescartaConColaLlenaSinBloquear(t *testing.T) {
	w := &fakeWriter{block: make(chan struct{})}
	p := events.NewSalePublisher(w, "sales.committed", 1, zerolog.Nop())

	done := make(chan struct{})
	go func() {
		// El loop toma el primero y queda bloqueado; el segundo llena la cola; el resto se descarta.
		for i := 0; i < 5; i++ {
			p.PublishSaleCommitted(context.Background(), sampleSale("sale"))
		}
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("PublishSaleCommitted bloqueó al caller")
	}

	close(w.block)
	require.NoError(t, p.Close())
	assert.LessOrEqual(t, w.count(), 2)
	assert.GreaterOrEqual(t, w.count(), 1)
}

func TestSalePublisher_ErrorDelWriterNoPropaga(t *testing.T) {
	w := &fakeWriter{err: errors.New("broker caído")}
	p := events.NewSalePublisher(w, "sales.committed", 10, zerolog.Nop())

	p.PublishSaleCommitted(context.Background(), sampleSale("sale-1"))
	require.NoError(t, p.Close())
	assert.Equal(t, 1, w.count())
}

func TestSalePublisher_DespuesDeCloseNoEntraEnPanico(t *testing.T) {
	w := &fakeWriter{}
	p := events.NewSalePublisher(w, "sales.committed", 10, zerolog.Nop())
	require.NoError(t, p.Close())
	require.NoError(t, p.Close(), "Close es idempotente")

	assert.NotPanics(t, func() {
		p.PublishSaleCommitted(context.Background(), sampleSale("tarde"))
	})
	assert.Zero(t, w.count())
}
