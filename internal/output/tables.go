package output

import (
	"strconv"

	"LicenseKeyAdmin/internal/client"
	"LicenseKeyAdmin/internal/view"
)

// Отображаемое значение для лицензии без ограничения IP
const unlimitedLabel = "не ограничен"

// SystemsTable строит таблицу зарегистрированных систем
func SystemsTable(systems []client.ActiveSystem) *TableData {
	data := &TableData{
		Headers: []string{"ID", "Система"},
	}

	for _, sys := range systems {
		data.Rows = append(data.Rows, TableRow{
			Cells: []string{strconv.Itoa(sys.ID), sys.SystemName},
		})
	}

	return data
}

// LicensesTable строит таблицу лицензий для страницы вида
func LicensesTable(page view.Page) *TableData {
	data := &TableData{
		Headers: []string{"Ключ", "Система", "Создан", "Лимит IP"},
	}

	for _, lic := range page.Rows {
		system := lic.SystemName()
		if system == "" {
			system = "-"
		}

		ipLimit := unlimitedLabel
		if lic.IPLimit != nil {
			ipLimit = strconv.Itoa(*lic.IPLimit)
		}

		data.Rows = append(data.Rows, TableRow{
			Cells: []string{lic.LicenseKey, system, lic.CreateAt, ipLimit},
		})
	}

	return data
}
