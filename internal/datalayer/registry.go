package datalayer

import (
	"LinkBio-Backend/internal/report"
	"fmt"
	"sort"
	"strconv"
	"strings"
)

// Attributes are a tracked element's data-gwf-* attributes without the
// prefix, e.g. "cta-location" for data-gwf-cta-location.
type Attributes map[string]string

func (a Attributes) get(name string) string {
	return strings.TrimSpace(a[name])
}

func (a Attributes) getOr(name, def string) string {
	if v := a.get(name); v != "" {
		return v
	}
	return def
}

// Handler turns an element's attributes into an emitted event.
type Handler func(Attributes) error

// Registry maps event types to handlers.
type Registry struct {
	handlers map[string]Handler
	reporter report.Reporter
}

// NewRegistry creates an empty registry.
func NewRegistry(reporter report.Reporter) *Registry {
	if reporter == nil {
		reporter = report.Nop{}
	}
	return &Registry{
		handlers: make(map[string]Handler),
		reporter: reporter,
	}
}

// Register binds eventType to h, replacing any previous handler.
func (r *Registry) Register(eventType string, h Handler) {
	r.handlers[eventType] = h
}

// Dispatch runs the handler for eventType.
func (r *Registry) Dispatch(eventType string, attrs Attributes) error {
	h, ok := r.handlers[eventType]
	if !ok {
		err := fmt.Errorf("%w: %q", ErrUnknownEvent, eventType)
		r.reporter.Report(report.UnknownEvent, "datalayer.dispatch", err)
		return err
	}
	return h(attrs)
}

// Types returns the registered event types, sorted.
func (r *Registry) Types() []string {
	out := make([]string, 0, len(r.handlers))
	for t := range r.handlers {
		out = append(out, t)
	}
	sort.Strings(out)
	return out
}

const unknown = "unknown"

// DefaultRegistry wires the landing page catalog to e. Descriptive attributes
// left off the element become "unknown"; shelf attributes are parsed and a
// missing mandatory one drops the event.
func DefaultRegistry(e *Emitter, reporter report.Reporter) *Registry {
	r := NewRegistry(reporter)

	r.Register(EventClickEcommerce, func(a Attributes) error {
		return e.ClickEcommerce(a.getOr("cta-location", unknown))
	})

	r.Register(EventClickSocial, func(a Attributes) error {
		return e.ClickSocial(a.getOr("social-network", unknown))
	})

	r.Register(EventClickShelf, func(a Attributes) error {
		return e.ClickShelf(ShelfItem{
			ID:       a.get("item-id"),
			Name:     a.get("item-name"),
			Price:    parsePrice(a.get("item-price")),
			Position: parsePosition(a.get("item-position")),
		})
	})

	for id := range e.Stores() {
		storeID := id
		r.Register(EventClickWhatsappPrefix+storeID, func(a Attributes) error {
			return e.ClickWhatsapp(storeID, a.getOr("cta-location", unknown))
		})
		r.Register(EventClickLocationPrefix+storeID, func(a Attributes) error {
			return e.ClickLocation(storeID, a.getOr("nav-app", unknown))
		})
	}

	return r
}

func parsePrice(s string) *float64 {
	if s == "" {
		return nil
	}
	v, err := strconv.ParseFloat(strings.ReplaceAll(s, ",", "."), 64)
	if err != nil || v == 0 {
		return nil
	}
	return &v
}

func parsePosition(s string) int {
	v, err := strconv.Atoi(s)
	if err != nil {
		return 0
	}
	return v
}
