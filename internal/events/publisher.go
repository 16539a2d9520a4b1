package events

import (
	"encoding/json"
	"fmt"
	"log"
	"time"

	"github.com/nats-io/nats.go"
)

// Konular: istemciler menüyü periyodik çekmek yerine bu konulara abone olur.
// NATS yapılandırılmamışsa Noop kullanılır; istemciler sınırlı aralıklı
// polling'e düşer (bayatlık sınırı = polling aralığı).
const (
	SubjectStockUpdated = "pos.stock.updated"
	SubjectOrderSettled = "pos.order.settled"
)

type StockUpdatedEvent struct {
	MenuItemID    uint   `json:"menu_item_id"`
	Name          string `json:"name"`
	StockQuantity *int   `json:"stock_quantity"`
}

type OrderSettledEvent struct {
	OrderUID      string  `json:"order_uid"`
	WaiterID      uint    `json:"waiter_id"`
	PaymentMethod string  `json:"payment_method"`
	Total         float64 `json:"total"`
}

type Publisher interface {
	Publish(subject string, payload any) error
	Close()
}

type natsPublisher struct {
	nc *nats.Conn
}

// Connect: NATS bağlantısı açar. Sunucu kapanırken Close çağrılmalı.
func Connect(url string) (Publisher, error) {
	nc, err := nats.Connect(url,
		nats.Name("barpos-backend"),
		nats.MaxReconnects(-1),
		nats.ReconnectWait(2*time.Second),
	)
	if err != nil {
		return nil, fmt.Errorf("NATS bağlantısı kurulamadı: %w", err)
	}
	return &natsPublisher{nc: nc}, nil
}

func (p *natsPublisher) Publish(subject string, payload any) error {
	data, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("event encode edilemedi: %w", err)
	}
	if err := p.nc.Publish(subject, data); err != nil {
		return fmt.Errorf("event yayınlanamadı (%s): %w", subject, err)
	}
	return nil
}

func (p *natsPublisher) Close() {
	if err := p.nc.Drain(); err != nil {
		log.Printf("NATS drain hatası: %v", err)
	}
}

// Noop: NATS_URL tanımlı değilken kullanılan boş publisher.
type Noop struct{}

func (Noop) Publish(subject string, payload any) error { return nil }
func (Noop) Close()                                    {}
