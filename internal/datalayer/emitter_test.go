package datalayer

import (
	"LinkBio-Backend/internal/identity"
	"LinkBio-Backend/internal/report"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sequentialIDs() identity.Source {
	n := 0
	return identity.Func(func() string {
		n++
		return fmt.Sprintf("evt-%d", n)
	})
}

func setupEmitter(opts ...EmitterOption) (*Emitter, *MemorySink, *report.Recorder) {
	sink := &MemorySink{}
	rec := &report.Recorder{}
	opts = append([]EmitterOption{WithStores([]Store{
		{ID: "store1", Name: "Loja Centro"},
		{ID: "store2", Name: "Loja Shopping"},
	})}, opts...)
	return NewEmitter(sink, sequentialIDs(), rec, opts...), sink, rec
}

func TestEmitter_ContextReady(t *testing.T) {
	e, sink, _ := setupEmitter()

	e.ContextReady()

	require.Equal(t, 1, sink.Len())
	assert.Equal(t, Record{KeyEvent: "gwf.linkbio.context_ready"}, sink.Records()[0])
}

func TestEmitter_Reset(t *testing.T) {
	e, sink, _ := setupEmitter(WithNamespace("acme.bio"))

	e.Reset()

	rec := sink.Records()[0]
	assert.Equal(t, "acme.bio.reset_datalayer", rec.Event())
	assert.Contains(t, rec, KeyType)
	assert.Contains(t, rec, KeyData)
	assert.Nil(t, rec[KeyType])
	assert.Nil(t, rec[KeyData])
}

func TestEmitter_Events(t *testing.T) {
	price := 129.9

	tests := []struct {
		name      string
		emit      func(e *Emitter) error
		eventType string
		data      map[string]any
	}{
		{
			name:      "whatsapp",
			emit:      func(e *Emitter) error { return e.ClickWhatsapp("store1", "header") },
			eventType: "click_whatsapp_store1",
			data:      map[string]any{"cta_location": "header"},
		},
		{
			name:      "ecommerce",
			emit:      func(e *Emitter) error { return e.ClickEcommerce("hero") },
			eventType: "click_ecommerce",
			data:      map[string]any{"cta_location": "hero"},
		},
		{
			name:      "location",
			emit:      func(e *Emitter) error { return e.ClickLocation("store2", "waze") },
			eventType: "click_location_store2",
			data:      map[string]any{"store_id": "store2", "store_name": "Loja Shopping", "nav_app": "waze"},
		},
		{
			name:      "social",
			emit:      func(e *Emitter) error { return e.ClickSocial("instagram") },
			eventType: "click_social",
			data:      map[string]any{"social_network": "instagram"},
		},
		{
			name: "shelf",
			emit: func(e *Emitter) error {
				return e.ClickShelf(ShelfItem{ID: "sku-1", Name: "Tenis", Price: &price, Position: 2})
			},
			eventType: "click_shelf",
			data:      map[string]any{"item_id": "sku-1", "item_name": "Tenis", "item_price": 129.9, "item_position": 2},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e, sink, rec := setupEmitter()

			require.NoError(t, tt.emit(e))

			records := sink.Records()
			require.Len(t, records, 2)
			assert.Equal(t, "gwf.linkbio.reset_datalayer", records[0].Event())

			want := map[string]any{"event_id": "evt-1"}
			for k, v := range tt.data {
				want[k] = v
			}
			assert.Equal(t, Record{
				KeyEvent: "gwf.linkbio." + tt.eventType,
				KeyType:  tt.eventType,
				KeyData:  want,
			}, records[1])
			assert.Empty(t, rec.Entries())
		})
	}
}

func TestEmitter_ResetPrecedesEveryEvent(t *testing.T) {
	e, sink, _ := setupEmitter()

	e.ContextReady()
	require.NoError(t, e.ClickSocial("instagram"))
	require.NoError(t, e.ClickEcommerce("footer"))

	assert.Equal(t, []string{
		"gwf.linkbio.context_ready",
		"gwf.linkbio.reset_datalayer",
		"gwf.linkbio.click_social",
		"gwf.linkbio.reset_datalayer",
		"gwf.linkbio.click_ecommerce",
	}, sink.Events())

	data1 := sink.Records()[2][KeyData].(map[string]any)
	data2 := sink.Records()[4][KeyData].(map[string]any)
	assert.NotEqual(t, data1["event_id"], data2["event_id"])
}

func TestEmitter_Dropped(t *testing.T) {
	tests := []struct {
		name string
		emit func(e *Emitter) error
		err  error
		kind report.Kind
	}{
		{"whatsapp_no_cta", func(e *Emitter) error { return e.ClickWhatsapp("store1", "") }, ErrMissingParameter, report.MissingParameter},
		{"whatsapp_unknown_store", func(e *Emitter) error { return e.ClickWhatsapp("store9", "header") }, ErrUnknownStore, report.UnknownEvent},
		{"ecommerce_no_cta", func(e *Emitter) error { return e.ClickEcommerce("") }, ErrMissingParameter, report.MissingParameter},
		{"location_no_app", func(e *Emitter) error { return e.ClickLocation("store1", "") }, ErrMissingParameter, report.MissingParameter},
		{"location_unknown_store", func(e *Emitter) error { return e.ClickLocation("nope", "maps") }, ErrUnknownStore, report.UnknownEvent},
		{"social_no_network", func(e *Emitter) error { return e.ClickSocial("") }, ErrMissingParameter, report.MissingParameter},
		{"shelf_no_id", func(e *Emitter) error { return e.ClickShelf(ShelfItem{Name: "x", Position: 1}) }, ErrMissingParameter, report.MissingParameter},
		{"shelf_no_name", func(e *Emitter) error { return e.ClickShelf(ShelfItem{ID: "x", Position: 1}) }, ErrMissingParameter, report.MissingParameter},
		{"shelf_no_position", func(e *Emitter) error { return e.ClickShelf(ShelfItem{ID: "x", Name: "x"}) }, ErrMissingParameter, report.MissingParameter},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e, sink, rec := setupEmitter()

			err := tt.emit(e)

			assert.ErrorIs(t, err, tt.err)
			assert.Equal(t, 0, sink.Len())
			assert.Equal(t, 1, rec.Count(tt.kind))
		})
	}
}

func TestEmitter_ShelfPrice(t *testing.T) {
	zero := 0.0

	tests := []struct {
		name  string
		price *float64
	}{
		{"nil", nil},
		{"zero", &zero},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e, sink, _ := setupEmitter()

			require.NoError(t, e.ClickShelf(ShelfItem{ID: "sku", Name: "Bolsa", Price: tt.price, Position: 1}))

			data := sink.Records()[1][KeyData].(map[string]any)
			assert.Contains(t, data, "item_price")
			assert.Nil(t, data["item_price"])
		})
	}
}

func TestEmitter_ShelfPosition(t *testing.T) {
	tests := []struct {
		name     string
		position int
		emitted  bool
	}{
		{"zero_dropped", 0, false},
		{"first", 1, true},
		{"negative_kept", -2, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e, sink, rec := setupEmitter()

			err := e.ClickShelf(ShelfItem{ID: "sku", Name: "Bolsa", Position: tt.position})

			if !tt.emitted {
				assert.ErrorIs(t, err, ErrMissingParameter)
				assert.Equal(t, 0, sink.Len())
				assert.Equal(t, 1, rec.Count(report.MissingParameter))
				return
			}
			require.NoError(t, err)
			data := sink.Records()[1][KeyData].(map[string]any)
			assert.Equal(t, tt.position, data["item_position"])
		})
	}
}

func TestMultiSink(t *testing.T) {
	a, b := &MemorySink{}, &MemorySink{}
	var calls []string
	m := MultiSink{a, nil, SinkFunc(func(r Record) { calls = append(calls, r.Event()) }), b}

	m.Push(Record{KeyEvent: "x"})

	assert.Equal(t, []string{"x"}, a.Events())
	assert.Equal(t, []string{"x"}, b.Events())
	assert.Equal(t, []string{"x"}, calls)
}
