package output

import (
	"encoding/json"
	"fmt"
	"strings"

	"gopkg.in/yaml.v2"
)

// FormatType представляет тип форматирования вывода
type FormatType string

const (
	FormatTable FormatType = "table"
	FormatJSON  FormatType = "json"
	FormatYAML  FormatType = "yaml"
)

// TableData представляет данные таблицы
type TableData struct {
	Headers []string
	Rows    []TableRow
}

// TableRow представляет строку таблицы
type TableRow struct {
	Cells []string
}

// Formatter интерфейс для форматирования вывода
type Formatter interface {
	Format(data interface{}) (string, error)
}

// TableFormatter форматирует данные в виде таблицы
type TableFormatter struct{}

func NewTableFormatter() *TableFormatter {
	return &TableFormatter{}
}

func (f *TableFormatter) Format(data interface{}) (string, error) {
	switch v := data.(type) {
	case *TableData:
		return f.formatTable(v), nil
	case *TableRow:
		return strings.Join(v.Cells, "\t"), nil
	default:
		return fmt.Sprintf("%v", v), nil
	}
}

func (f *TableFormatter) formatTable(data *TableData) string {
	if len(data.Rows) == 0 {
		return "Данные не найдены"
	}

	var builder strings.Builder

	// Формируем заголовок
	builder.WriteString(strings.Join(data.Headers, "\t") + "\n")

	// Формируем разделитель
	separators := make([]string, len(data.Headers))
	for i := range separators {
		separators[i] = strings.Repeat("-", len(data.Headers[i]))
	}
	builder.WriteString(strings.Join(separators, "\t") + "\n")

	// Формируем строки данных
	for _, row := range data.Rows {
		builder.WriteString(strings.Join(row.Cells, "\t") + "\n")
	}

	return builder.String()
}

// JSONFormatter форматирует данные в JSON
type JSONFormatter struct {
	Pretty bool
}

func NewJSONFormatter(pretty bool) *JSONFormatter {
	return &JSONFormatter{Pretty: pretty}
}

func (f *JSONFormatter) Format(data interface{}) (string, error) {
	var output []byte
	var err error

	if f.Pretty {
		output, err = json.MarshalIndent(data, "", "  ")
	} else {
		output, err = json.Marshal(data)
	}

	if err != nil {
		return "", fmt.Errorf("ошибка сериализации JSON: %w", err)
	}

	return string(output), nil
}

// YAMLFormatter форматирует данные в YAML
type YAMLFormatter struct{}

func NewYAMLFormatter() *YAMLFormatter {
	return &YAMLFormatter{}
}

func (f *YAMLFormatter) Format(data interface{}) (string, error) {
	output, err := yaml.Marshal(data)
	if err != nil {
		return "", fmt.Errorf("ошибка сериализации YAML: %w", err)
	}

	return string(output), nil
}

// ColorFormatter добавляет цветовое форматирование
type ColorFormatter struct {
	Formatter Formatter
	UseColors bool
}

func NewColorFormatter(formatter Formatter, useColors bool) *ColorFormatter {
	return &ColorFormatter{
		Formatter: formatter,
		UseColors: useColors,
	}
}

func (f *ColorFormatter) Format(data interface{}) (string, error) {
	output, err := f.Formatter.Format(data)
	if err != nil {
		return "", err
	}

	if !f.UseColors {
		return output, nil
	}

	return f.applyColors(output), nil
}

func (f *ColorFormatter) applyColors(output string) string {
	lines := strings.Split(output, "\n")
	result := make([]string, 0, len(lines))

	for i, line := range lines {
		switch {
		case i == 0:
			// Заголовок - синий цвет
			result = append(result, fmt.Sprintf("\033[1;34m%s\033[0m", line))
		case strings.Contains(line, "---"):
			// Разделитель - серый цвет
			result = append(result, fmt.Sprintf("\033[1;90m%s\033[0m", line))
		default:
			result = append(result, line)
		}
	}

	return strings.Join(result, "\n")
}

// GetFormatter возвращает подходящий форматировщик
func GetFormatter(format FormatType, pretty bool, useColors bool) Formatter {
	var baseFormatter Formatter

	switch format {
	case FormatJSON:
		baseFormatter = NewJSONFormatter(pretty)
	case FormatYAML:
		baseFormatter = NewYAMLFormatter()
	default:
		baseFormatter = NewTableFormatter()
	}

	if useColors && format == FormatTable {
		return NewColorFormatter(baseFormatter, useColors)
	}

	return baseFormatter
}
