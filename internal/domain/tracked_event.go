package domain

import (
	"time"

	"github.com/oklog/ulid/v2"
)

// TrackedEvent запись журнала событий data layer (context_ready и клики)
type TrackedEvent struct {
	ID         string    `gorm:"primaryKey;column:id;size:26" json:"id" bson:"_id"`
	Event      string    `gorm:"column:event;size:150;not null;index" json:"event" bson:"event"`
	EventType  *string   `gorm:"column:event_type;size:100;index" json:"event_type,omitempty" bson:"event_type,omitempty"`
	EventID    *string   `gorm:"column:event_id;size:36" json:"event_id,omitempty" bson:"event_id,omitempty"`
	Payload    *string   `gorm:"column:payload;type:text" json:"payload,omitempty" bson:"payload,omitempty"`
	SessionID  *string   `gorm:"column:session_id;size:64;index" json:"session_id,omitempty" bson:"session_id,omitempty"`
	PageViews  *int      `gorm:"column:page_views" json:"page_views,omitempty" bson:"page_views,omitempty"`
	PageURL    *string   `gorm:"column:page_url;type:text" json:"page_url,omitempty" bson:"page_url,omitempty"`
	Referer    *string   `gorm:"column:referer;size:500" json:"referer,omitempty" bson:"referer,omitempty"`
	IPAddress  *string   `gorm:"column:ip_address;size:45" json:"ip_address,omitempty" bson:"ip_address,omitempty"`
	UserAgent  *string   `gorm:"column:user_agent;type:text" json:"user_agent,omitempty" bson:"user_agent,omitempty"`
	DeviceType *string   `gorm:"column:device_type;size:10" json:"device_type,omitempty" bson:"device_type,omitempty"` // 'desktop', 'mobile', 'tablet', 'bot'
	Browser    *string   `gorm:"column:browser;size:50" json:"browser,omitempty" bson:"browser,omitempty"`
	OS         *string   `gorm:"column:os;size:50" json:"os,omitempty" bson:"os,omitempty"`
	OccurredAt time.Time `gorm:"column:occurred_at;not null;index" json:"occurred_at" bson:"occurred_at"`
	CreatedAt  time.Time `gorm:"column:created_at;autoCreateTime" json:"created_at" bson:"created_at"`

	// Снимок атрибуции на момент события
	SourceFirst   *string `gorm:"column:source_first;size:255" json:"source_first,omitempty" bson:"source_first,omitempty"`
	MediumFirst   *string `gorm:"column:medium_first;size:255" json:"medium_first,omitempty" bson:"medium_first,omitempty"`
	CampaignFirst *string `gorm:"column:campaign_first;size:255" json:"campaign_first,omitempty" bson:"campaign_first,omitempty"`
	SourceLast    *string `gorm:"column:source_last;size:255;index" json:"source_last,omitempty" bson:"source_last,omitempty"`
	MediumLast    *string `gorm:"column:medium_last;size:255" json:"medium_last,omitempty" bson:"medium_last,omitempty"`
	CampaignLast  *string `gorm:"column:campaign_last;size:255" json:"campaign_last,omitempty" bson:"campaign_last,omitempty"`
	ClickIDAds    *string `gorm:"column:gclid;size:255" json:"gclid,omitempty" bson:"gclid,omitempty"`
	ClickIDSocial *string `gorm:"column:fbclid;size:255" json:"fbclid,omitempty" bson:"fbclid,omitempty"`
	AdsAccountID  *string `gorm:"column:gads_account;size:64" json:"gads_account,omitempty" bson:"gads_account,omitempty"`
}

// TableName возвращает название таблицы для GORM
func (TrackedEvent) TableName() string {
	return "tracked_events"
}

// NewTrackedEvent создает запись с ULID, упорядоченным по времени события
func NewTrackedEvent(event string, occurredAt time.Time) *TrackedEvent {
	return &TrackedEvent{
		ID:         ulid.MustNew(ulid.Timestamp(occurredAt), ulid.DefaultEntropy()).String(),
		Event:      event,
		OccurredAt: occurredAt,
	}
}

// ApplyAttribution копирует снимок атрибуции в запись
func (e *TrackedEvent) ApplyAttribution(a *AttributionRecord) {
	if a == nil {
		return
	}
	e.SourceFirst = a.SourceFirst
	e.MediumFirst = a.MediumFirst
	e.CampaignFirst = a.CampaignFirst
	e.SourceLast = a.SourceLast
	e.MediumLast = a.MediumLast
	e.CampaignLast = a.CampaignLast
	e.ClickIDAds = a.ClickIDAds
	e.ClickIDSocial = a.ClickIDSocial
	e.AdsAccountID = a.AdsAccountID
}

// GetDeviceType возвращает тип устройства
func (e *TrackedEvent) GetDeviceType() string {
	if e.DeviceType != nil {
		return *e.DeviceType
	}
	return "unknown"
}
