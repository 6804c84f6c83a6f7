package view

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"LicenseKeyAdmin/internal/client"
	"LicenseKeyAdmin/internal/state"
)

func strPtr(s string) *string { return &s }

// makeLicenses выпускает n лицензий вида KEY-001..KEY-n на одну систему
func makeLicenses(n int, system string) []client.License {
	licenses := make([]client.License, 0, n)
	for i := 1; i <= n; i++ {
		licenses = append(licenses, client.License{
			LicenseKey:   fmt.Sprintf("KEY-%03d", i),
			ActiveSystem: strPtr(system),
		})
	}
	return licenses
}

func TestNewCursor(t *testing.T) {
	c := NewCursor("abc", 3)
	assert.Equal(t, "abc", c.Search)
	assert.Equal(t, 3, c.Page)
	assert.Equal(t, PageSize, c.PageSize)

	// Страница меньше первой нормализуется к первой
	assert.Equal(t, 1, NewCursor("", 0).Page)
	assert.Equal(t, 1, NewCursor("", -5).Page)
}

func TestCursor_WithSearch_ResetsPage(t *testing.T) {
	c := NewCursor("alpha", 3)

	// Новый запрос сбрасывает на первую страницу
	next := c.WithSearch("beta")
	assert.Equal(t, "beta", next.Search)
	assert.Equal(t, 1, next.Page)

	// Тот же запрос оставляет курсор на месте
	same := c.WithSearch("alpha")
	assert.Equal(t, 3, same.Page)
}

func TestProject_Pagination(t *testing.T) {
	st := &state.State{Licenses: makeLicenses(25, "Inventory")}

	// 25 лицензий по 10 на страницу — 3 страницы
	first := Project(st, NewCursor("", 1))
	assert.Equal(t, 3, first.TotalPages)
	assert.Equal(t, 25, first.Total)
	assert.Len(t, first.Rows, 10)
	assert.False(t, first.HasPrev)
	assert.True(t, first.HasNext)
	// Порядок бэкенда сохраняется
	assert.Equal(t, "KEY-001", first.Rows[0].LicenseKey)
	assert.Equal(t, "KEY-010", first.Rows[9].LicenseKey)

	second := Project(st, NewCursor("", 2))
	assert.Len(t, second.Rows, 10)
	assert.True(t, second.HasPrev)
	assert.True(t, second.HasNext)
	assert.Equal(t, "KEY-011", second.Rows[0].LicenseKey)

	// Последняя страница неполная
	last := Project(st, NewCursor("", 3))
	assert.Len(t, last.Rows, 5)
	assert.True(t, last.HasPrev)
	assert.False(t, last.HasNext)
	assert.Equal(t, "KEY-025", last.Rows[4].LicenseKey)
}

func TestProject_PageOutOfRange(t *testing.T) {
	st := &state.State{Licenses: makeLicenses(5, "Inventory")}

	page := Project(st, NewCursor("", 7))
	assert.Empty(t, page.Rows)
	assert.Equal(t, 7, page.Page)
	assert.Equal(t, 1, page.TotalPages)
}

func TestProject_EmptyState(t *testing.T) {
	// Пустой список дает одну пустую страницу
	page := Project(&state.State{}, NewCursor("", 1))
	assert.Empty(t, page.Rows)
	assert.Equal(t, 1, page.TotalPages)
	assert.Equal(t, 0, page.Total)
	assert.False(t, page.HasPrev)
	assert.False(t, page.HasNext)

	// Состояние до первой синхронизации тоже
	nilPage := Project(nil, NewCursor("", 1))
	assert.Empty(t, nilPage.Rows)
	assert.Equal(t, 1, nilPage.TotalPages)
}

func TestProject_FilterByKey(t *testing.T) {
	st := &state.State{Licenses: []client.License{
		{LicenseKey: "ALPHA-1", ActiveSystem: strPtr("Inventory")},
		{LicenseKey: "BETA-2", ActiveSystem: strPtr("Billing")},
		{LicenseKey: "alpha-3", ActiveSystem: strPtr("Billing")},
	}}

	// Поиск без учета регистра по подстроке ключа
	page := Project(st, NewCursor("alpha", 1))
	require.Len(t, page.Rows, 2)
	assert.Equal(t, "ALPHA-1", page.Rows[0].LicenseKey)
	assert.Equal(t, "alpha-3", page.Rows[1].LicenseKey)
	assert.Equal(t, 2, page.Total)
}

func TestProject_FilterBySystemName(t *testing.T) {
	st := &state.State{Licenses: []client.License{
		{LicenseKey: "KEY-1", ActiveSystem: strPtr("Inventory")},
		{LicenseKey: "KEY-2", ActiveSystem: strPtr("Billing")},
		{LicenseKey: "KEY-3", ActiveSystem: strPtr("inventory-v2")},
	}}

	page := Project(st, NewCursor("INVENT", 1))
	require.Len(t, page.Rows, 2)
	assert.Equal(t, "KEY-1", page.Rows[0].LicenseKey)
	assert.Equal(t, "KEY-3", page.Rows[1].LicenseKey)
}

func TestProject_FilterNoMatches(t *testing.T) {
	st := &state.State{Licenses: makeLicenses(5, "Inventory")}

	page := Project(st, NewCursor("xyz", 1))
	assert.Empty(t, page.Rows)
	assert.Equal(t, 0, page.Total)
	assert.Equal(t, 1, page.TotalPages)
}

func TestProject_LicenseWithoutSystem(t *testing.T) {
	st := &state.State{Licenses: []client.License{
		{LicenseKey: "ORPHAN-1", ActiveSystem: nil},
		{LicenseKey: "KEY-2", ActiveSystem: strPtr("Inventory")},
	}}

	// Лицензия без системы находится по ключу
	byKey := Project(st, NewCursor("orphan", 1))
	require.Len(t, byKey.Rows, 1)
	assert.Equal(t, "ORPHAN-1", byKey.Rows[0].LicenseKey)

	// Но не участвует в поиске по имени системы
	bySystem := Project(st, NewCursor("inventory", 1))
	require.Len(t, bySystem.Rows, 1)
	assert.Equal(t, "KEY-2", bySystem.Rows[0].LicenseKey)
}

func TestProject_FilterThenPaginate(t *testing.T) {
	licenses := makeLicenses(25, "Inventory")
	licenses = append(licenses, makeLicenses(3, "Billing")...)
	// Ключи у Billing-лицензий совпадают с Inventory, различаем по системе
	st := &state.State{Licenses: licenses}

	// Пагинация считается по отфильтрованному списку
	page := Project(st, NewCursor("billing", 1))
	assert.Equal(t, 3, page.Total)
	assert.Equal(t, 1, page.TotalPages)
	assert.Len(t, page.Rows, 3)
}
