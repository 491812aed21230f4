package domain

// SessionRecord представляет сессию посетителя, живет пока живет сессия браузера.
// JSON имена совпадают с тем, что читают переменные тег-менеджера.
type SessionRecord struct {
	ID               string  `json:"id"`
	StartedAt        int64   `json:"timestamp"` // unix ms
	PageViewCount    int     `json:"page_count"`
	ElapsedSeconds   int64   `json:"time_elapsed"`
	ForeignClientID  *string `json:"ga_client_id"`
	ForeignSessionID *string `json:"ga_session_id"`
	CurrentURL       string  `json:"page_location"`
	ReferrerURL      *string `json:"page_referrer"`
}

// IsValid проверяет, что у сессии есть идентификатор
func (s *SessionRecord) IsValid() bool {
	return s != nil && s.ID != ""
}
