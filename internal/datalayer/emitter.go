package datalayer

import (
	"LinkBio-Backend/internal/identity"
	"LinkBio-Backend/internal/metrics"
	"LinkBio-Backend/internal/report"
	"errors"
	"fmt"

	"go.uber.org/zap"
)

// DefaultNamespace prefixes every event name, e.g. "gwf.linkbio.click_social".
const DefaultNamespace = "gwf.linkbio"

// Event types. Store-bound types are suffixed with the store id.
const (
	EventReset          = "reset_datalayer"
	EventContextReady   = "context_ready"
	EventClickEcommerce = "click_ecommerce"
	EventClickSocial    = "click_social"
	EventClickShelf     = "click_shelf"

	EventClickWhatsappPrefix = "click_whatsapp_"
	EventClickLocationPrefix = "click_location_"
)

// Keys used inside records.
const (
	KeyEvent = "event"
	KeyType  = "gwf_event"
	KeyData  = "gwf_data"
)

var (
	ErrMissingParameter = errors.New("missing required parameter")
	ErrUnknownEvent     = errors.New("unknown event type")
	ErrUnknownStore     = errors.New("unknown store")
)

// Store is a physical location.
type Store struct {
	ID   string
	Name string
}

// ShelfItem describes a clicked product. Price is optional.
type ShelfItem struct {
	ID       string
	Name     string
	Price    *float64
	Position int
}

// Emitter pushes data layer records to a sink.
type Emitter struct {
	sink      Sink
	ids       identity.Source
	reporter  report.Reporter
	metrics   *metrics.Metrics
	log       *zap.Logger
	namespace string
	stores    map[string]Store
}

// EmitterOption configures an Emitter.
type EmitterOption func(*Emitter)

// WithNamespace overrides DefaultNamespace.
func WithNamespace(ns string) EmitterOption {
	return func(e *Emitter) {
		if ns != "" {
			e.namespace = ns
		}
	}
}

// WithStores sets the known physical locations.
func WithStores(stores []Store) EmitterOption {
	return func(e *Emitter) {
		e.stores = make(map[string]Store, len(stores))
		for _, s := range stores {
			e.stores[s.ID] = s
		}
	}
}

// WithMetrics counts emitted and dropped events.
func WithMetrics(m *metrics.Metrics) EmitterOption {
	return func(e *Emitter) { e.metrics = m }
}

// WithLogger sets the logger.
func WithLogger(log *zap.Logger) EmitterOption {
	return func(e *Emitter) { e.log = log }
}

// NewEmitter creates an emitter over sink.
func NewEmitter(sink Sink, ids identity.Source, reporter report.Reporter, opts ...EmitterOption) *Emitter {
	if reporter == nil {
		reporter = report.Nop{}
	}
	e := &Emitter{
		sink:      sink,
		ids:       ids,
		reporter:  reporter,
		log:       zap.NewNop(),
		namespace: DefaultNamespace,
		stores:    map[string]Store{},
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Name returns the namespaced event name for an event type.
func (e *Emitter) Name(eventType string) string {
	return e.namespace + "." + eventType
}

// Stores returns the configured stores.
func (e *Emitter) Stores() map[string]Store {
	return e.stores
}

// Reset clears the payload fields a previous event left in the data layer.
func (e *Emitter) Reset() {
	e.sink.Push(Record{
		KeyEvent: e.Name(EventReset),
		KeyType:  nil,
		KeyData:  nil,
	})
}

// ContextReady signals that attribution and session state are persisted.
func (e *Emitter) ContextReady() {
	e.sink.Push(Record{KeyEvent: e.Name(EventContextReady)})
}

// ClickWhatsapp tracks a click on a store's WhatsApp button.
func (e *Emitter) ClickWhatsapp(storeID, ctaLocation string) error {
	eventType := EventClickWhatsappPrefix + storeID
	if _, ok := e.stores[storeID]; !ok {
		return e.drop(eventType, fmt.Errorf("%w: %q", ErrUnknownStore, storeID))
	}
	if ctaLocation == "" {
		return e.missing(eventType, "cta_location")
	}
	return e.emit(eventType, map[string]any{
		"cta_location": ctaLocation,
	})
}

// ClickEcommerce tracks a click towards the online store.
func (e *Emitter) ClickEcommerce(ctaLocation string) error {
	if ctaLocation == "" {
		return e.missing(EventClickEcommerce, "cta_location")
	}
	return e.emit(EventClickEcommerce, map[string]any{
		"cta_location": ctaLocation,
	})
}

// ClickLocation tracks a Maps or Waze click for a store.
func (e *Emitter) ClickLocation(storeID, navApp string) error {
	eventType := EventClickLocationPrefix + storeID
	st, ok := e.stores[storeID]
	if !ok {
		return e.drop(eventType, fmt.Errorf("%w: %q", ErrUnknownStore, storeID))
	}
	if navApp == "" {
		return e.missing(eventType, "nav_app")
	}
	return e.emit(eventType, map[string]any{
		"store_id":   st.ID,
		"store_name": st.Name,
		"nav_app":    navApp,
	})
}

// ClickSocial tracks a social network icon click.
func (e *Emitter) ClickSocial(network string) error {
	if network == "" {
		return e.missing(EventClickSocial, "social_network")
	}
	return e.emit(EventClickSocial, map[string]any{
		"social_network": network,
	})
}

// ClickShelf tracks a click on a carousel product.
func (e *Emitter) ClickShelf(item ShelfItem) error {
	switch {
	case item.ID == "":
		return e.missing(EventClickShelf, "item_id")
	case item.Name == "":
		return e.missing(EventClickShelf, "item_name")
	// only an absent or zero position is missing, negative values pass through
	case item.Position == 0:
		return e.missing(EventClickShelf, "item_position")
	}

	var price any
	if item.Price != nil && *item.Price != 0 {
		price = *item.Price
	}
	return e.emit(EventClickShelf, map[string]any{
		"item_id":       item.ID,
		"item_name":     item.Name,
		"item_price":    price,
		"item_position": item.Position,
	})
}

// emit pushes a reset marker followed by the event record.
func (e *Emitter) emit(eventType string, data map[string]any) error {
	data["event_id"] = e.ids.NewID()

	e.Reset()
	e.sink.Push(Record{
		KeyEvent: e.Name(eventType),
		KeyType:  eventType,
		KeyData:  data,
	})

	e.metrics.EventEmitted(eventType)
	e.log.Debug("data layer event pushed", zap.String("event", eventType))
	return nil
}

func (e *Emitter) missing(eventType, param string) error {
	err := fmt.Errorf("%s: %w: %s", eventType, ErrMissingParameter, param)
	e.reporter.Report(report.MissingParameter, "datalayer."+eventType, err)
	e.metrics.EventDropped(string(report.MissingParameter))
	return err
}

func (e *Emitter) drop(eventType string, err error) error {
	err = fmt.Errorf("%s: %w", eventType, err)
	e.reporter.Report(report.UnknownEvent, "datalayer."+eventType, err)
	e.metrics.EventDropped(string(report.UnknownEvent))
	return err
}
