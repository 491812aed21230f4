package domain

import "net/url"

// Navigation контекст текущей навигации: адрес страницы и реферер
type Navigation struct {
	URL      *url.URL
	Referrer string
}

// Location возвращает полный адрес страницы
func (n Navigation) Location() string {
	if n.URL == nil {
		return ""
	}
	return n.URL.String()
}

// Query возвращает разобранную query-строку страницы
func (n Navigation) Query() url.Values {
	if n.URL == nil {
		return url.Values{}
	}
	return n.URL.Query()
}
