package domain

// AttributionRecord хранится в cookie (gwf_utm) и переживает сессии в течение
// окна удержания. Поля *_first не перезаписываются после первого внешнего касания.
// nil означает "не задано", пустая строка - параметр был в URL без значения.
type AttributionRecord struct {
	SourceFirst   *string `json:"source_first"`
	MediumFirst   *string `json:"medium_first"`
	CampaignFirst *string `json:"campaign_first"`
	ContentFirst  *string `json:"content_first"`
	TermFirst     *string `json:"term_first"`

	SourceLast   *string `json:"source_last"`
	MediumLast   *string `json:"medium_last"`
	CampaignLast *string `json:"campaign_last"`
	ContentLast  *string `json:"content_last"`
	TermLast     *string `json:"term_last"`

	AdsAccountID  *string `json:"gads_account"`
	ClickIDAds    *string `json:"gclid"`
	ClickIDSocial *string `json:"fbclid"`
}

// Touch набор UTM дескрипторов одного касания
type Touch struct {
	Source   *string
	Medium   *string
	Campaign *string
	Content  *string
	Term     *string
}

// FirstTouch возвращает first-touch дескрипторы
func (a *AttributionRecord) FirstTouch() Touch {
	return Touch{
		Source:   a.SourceFirst,
		Medium:   a.MediumFirst,
		Campaign: a.CampaignFirst,
		Content:  a.ContentFirst,
		Term:     a.TermFirst,
	}
}

// LastTouch возвращает last-touch дескрипторы
func (a *AttributionRecord) LastTouch() Touch {
	return Touch{
		Source:   a.SourceLast,
		Medium:   a.MediumLast,
		Campaign: a.CampaignLast,
		Content:  a.ContentLast,
		Term:     a.TermLast,
	}
}

// SetFirstTouch записывает first-touch дескрипторы
func (a *AttributionRecord) SetFirstTouch(t Touch) {
	a.SourceFirst = t.Source
	a.MediumFirst = t.Medium
	a.CampaignFirst = t.Campaign
	a.ContentFirst = t.Content
	a.TermFirst = t.Term
}

// SetLastTouch записывает last-touch дескрипторы
func (a *AttributionRecord) SetLastTouch(t Touch) {
	a.SourceLast = t.Source
	a.MediumLast = t.Medium
	a.CampaignLast = t.Campaign
	a.ContentLast = t.Content
	a.TermLast = t.Term
}

// HasFirstTouch сообщает, было ли уже зафиксировано первое касание.
// Решает только source_first: пустая строка тоже считается заданной.
func (a *AttributionRecord) HasFirstTouch() bool {
	return a.SourceFirst != nil
}

// IsEmpty проверяет, что ни одно поле не задано
func (a *AttributionRecord) IsEmpty() bool {
	return *a == AttributionRecord{}
}
