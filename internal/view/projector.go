package view

import (
	"strings"

	"LicenseKeyAdmin/internal/client"
	"LicenseKeyAdmin/internal/state"
)

// PageSize - фиксированный размер страницы списка лицензий
const PageSize = 10

// Cursor определяет текущее положение оператора в списке лицензий
type Cursor struct {
	Search   string
	Page     int
	PageSize int
}

// NewCursor создает курсор на заданной странице
func NewCursor(search string, page int) Cursor {
	if page < 1 {
		page = 1
	}
	return Cursor{
		Search:   search,
		Page:     page,
		PageSize: PageSize,
	}
}

// WithSearch возвращает курсор с новым поисковым запросом.
// Смена запроса всегда сбрасывает курсор на первую страницу.
func (c Cursor) WithSearch(search string) Cursor {
	if search == c.Search {
		return c
	}
	return NewCursor(search, 1)
}

// Page - производный срез лицензий, показываемый оператору
type Page struct {
	Rows       []client.License
	Page       int
	TotalPages int
	Total      int
	HasPrev    bool
	HasNext    bool
}

// Project выводит отображаемый срез из синхронизированного состояния
// и курсора. Функция чистая: никакого собственного кэша, вид всегда
// пересчитывается из текущего состояния.
func Project(st *state.State, cursor Cursor) Page {
	var licenses []client.License
	if st != nil {
		licenses = st.Licenses
	}

	filtered := filter(licenses, cursor.Search)

	pageSize := cursor.PageSize
	if pageSize <= 0 {
		pageSize = PageSize
	}

	// Минимум одна страница, даже когда список пуст
	totalPages := (len(filtered) + pageSize - 1) / pageSize
	if totalPages < 1 {
		totalPages = 1
	}

	page := cursor.Page
	if page < 1 {
		page = 1
	}

	// Вырезаем строки текущей страницы, сохраняя порядок бэкенда
	start := (page - 1) * pageSize
	end := start + pageSize
	var rows []client.License
	if start < len(filtered) {
		if end > len(filtered) {
			end = len(filtered)
		}
		rows = filtered[start:end]
	}

	return Page{
		Rows:       rows,
		Page:       page,
		TotalPages: totalPages,
		Total:      len(filtered),
		HasPrev:    page > 1,
		HasNext:    page < totalPages,
	}
}

// filter отбирает лицензии, у которых поисковый запрос содержится
// в ключе или в имени привязанной системы (без учета регистра).
// Лицензия без системы участвует только в поиске по ключу.
func filter(licenses []client.License, search string) []client.License {
	if search == "" {
		return licenses
	}

	searchLower := strings.ToLower(search)
	var filtered []client.License
	for _, lic := range licenses {
		if strings.Contains(strings.ToLower(lic.LicenseKey), searchLower) {
			filtered = append(filtered, lic)
			continue
		}
		if lic.ActiveSystem != nil && strings.Contains(strings.ToLower(*lic.ActiveSystem), searchLower) {
			filtered = append(filtered, lic)
		}
	}

	return filtered
}
