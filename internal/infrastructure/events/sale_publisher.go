// Package events publica en Kafka las ventas confirmadas.
package events

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"github.com/segmentio/kafka-go"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/retail-api/internal/application/sales"
	"github.com/jhoicas/retail-api/internal/domain/entity"
	"github.com/jhoicas/retail-api/internal/observability/metrics"
)

var _ sales.SalePublisher = (*SalePublisher)(nil)

// EventSaleCommitted tipo del evento publicado tras el commit de una venta.
const EventSaleCommitted = "sale.committed"

const defaultBuffer = 1000

// KafkaWriter abstrae *kafka.Writer para poder reemplazarlo en tests.
type KafkaWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// SaleCommittedEvent es el payload JSON del mensaje. La clave del mensaje es el company_id,
// así las ventas de una empresa quedan en la misma partición y en orden.
type SaleCommittedEvent struct {
	Type          string          `json:"type"`
	SaleID        string          `json:"sale_id"`
	CompanyID     string          `json:"company_id"`
	BranchID      string          `json:"branch_id"`
	SellerID      string          `json:"seller_id"`
	PaymentMethod string          `json:"payment_method"`
	Total         decimal.Decimal `json:"total"`
	Items         []EventItem     `json:"items"`
	OccurredAt    time.Time       `json:"occurred_at"`
}

// EventItem línea de la venta en el evento.
type EventItem struct {
	Line      int             `json:"line"`
	ProductID string          `json:"product_id"`
	Quantity  int64           `json:"quantity"`
	UnitPrice decimal.Decimal `json:"unit_price"`
}

// SalePublisher encola eventos en un canal con buffer y los escribe en Kafka desde una goroutine.
// Si la cola está llena el evento se descarta: la venta ya está confirmada y no se bloquea al caller.
type SalePublisher struct {
	writer KafkaWriter
	topic  string
	events chan SaleCommittedEvent
	log    zerolog.Logger

	mu     sync.RWMutex
	closed bool
	wg     sync.WaitGroup
}

// NewKafkaSalePublisher conecta con los brokers indicados.
func NewKafkaSalePublisher(brokers []string, topic string, log zerolog.Logger) *SalePublisher {
	writer := &kafka.Writer{
		Addr:                   kafka.TCP(brokers...),
		Topic:                  topic,
		Balancer:               &kafka.Hash{},
		RequiredAcks:           kafka.RequireOne,
		AllowAutoTopicCreation: true,
		BatchTimeout:           50 * time.Millisecond,
	}
	return NewSalePublisher(writer, topic, defaultBuffer, log)
}

// NewSalePublisher construye el publicador sobre un writer cualquiera y arranca el loop de envío.
func NewSalePublisher(writer KafkaWriter, topic string, buffer int, log zerolog.Logger) *SalePublisher {
	if buffer <= 0 {
		buffer = defaultBuffer
	}
	p := &SalePublisher{
		writer: writer,
		topic:  topic,
		events: make(chan SaleCommittedEvent, buffer),
		log:    log.With().Str("topic", topic).Logger(),
	}
	p.wg.Add(1)
	go p.loop()
	return p
}

// PublishSaleCommitted encola el evento sin bloquear.
func (p *SalePublisher) PublishSaleCommitted(_ context.Context, sale *entity.Sale) {
	if sale == nil {
		return
	}
	event := toEvent(sale)

	p.mu.RLock()
	defer p.mu.RUnlock()
	if p.closed {
		p.drop(event, "publicador cerrado")
		return
	}
	select {
	case p.events <- event:
	default:
		p.drop(event, "cola llena")
	}
}

func (p *SalePublisher) drop(event SaleCommittedEvent, reason string) {
	metrics.ObserveEventDropped(p.topic)
	p.log.Warn().
		Str("sale_id", event.SaleID).
		Str("company_id", event.CompanyID).
		Str("reason", reason).
		Msg("evento de venta descartado")
}

func (p *SalePublisher) loop() {
	defer p.wg.Done()
	for event := range p.events {
		p.send(context.Background(), event)
	}
}

func (p *SalePublisher) send(ctx context.Context, event SaleCommittedEvent) {
	value, err := json.Marshal(event)
	if err != nil {
		p.log.Error().Err(err).Str("sale_id", event.SaleID).Msg("no se pudo serializar el evento")
		return
	}
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	err = p.writer.WriteMessages(ctx, kafka.Message{
		Key:   []byte(event.CompanyID),
		Value: value,
		Headers: []kafka.Header{
			{Key: "type", Value: []byte(event.Type)},
		},
	})
	if err != nil {
		p.log.Error().Err(err).
			Str("sale_id", event.SaleID).
			Str("company_id", event.CompanyID).
			Msg("no se pudo publicar el evento")
	}
}

// Close deja de aceptar eventos, drena la cola y cierra el writer.
func (p *SalePublisher) Close() error {
	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		return nil
	}
	p.closed = true
	close(p.events)
	p.mu.Unlock()

	p.wg.Wait()
	return p.writer.Close()
}

func toEvent(sale *entity.Sale) SaleCommittedEvent {
	items := make([]EventItem, 0, len(sale.Items))
	for _, it := range sale.Items {
		items = append(items, EventItem{
			Line:      it.Line,
			ProductID: it.ProductID,
			Quantity:  it.Quantity,
			UnitPrice: it.UnitPrice,
		})
	}
	return SaleCommittedEvent{
		Type:          EventSaleCommitted,
		SaleID:        sale.ID,
		CompanyID:     sale.CompanyID,
		BranchID:      sale.BranchID,
		SellerID:      sale.SellerID,
		PaymentMethod: sale.PaymentMethod,
		Total:         sale.Total,
		Items:         items,
		OccurredAt:    sale.CreatedAt,
	}
}
