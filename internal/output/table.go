package output

import (
	"fmt"
	"strings"
	"text/tabwriter"
)

// TableData представляет данные для табличного вывода
type TableData struct {
	Headers []string
	Rows    [][]string
}

// NewTableData создает новые табличные данные
func NewTableData(headers ...string) *TableData {
	return &TableData{
		Headers: headers,
		Rows:    make([][]string, 0),
	}
}

// AddRow добавляет строку
func (td *TableData) AddRow(cells ...string) {
	td.Rows = append(td.Rows, cells)
}

// Records возвращает строки таблицы как список словарей.
// Используется JSON и YAML форматтерами.
func (td *TableData) Records() []map[string]string {
	records := make([]map[string]string, 0, len(td.Rows))
	for _, row := range td.Rows {
		record := make(map[string]string, len(td.Headers))
		for i, header := range td.Headers {
			if i < len(row) {
				record[strings.ToLower(header)] = row[i]
			}
		}
		records = append(records, record)
	}
	return records
}

// String возвращает строковое представление таблицы
func (td *TableData) String() string {
	if len(td.Rows) == 0 {
		return "No data found"
	}

	var builder strings.Builder
	w := tabwriter.NewWriter(&builder, 0, 0, 2, ' ', 0)

	// Заголовок и разделитель
	if len(td.Headers) > 0 {
		fmt.Fprintln(w, strings.Join(td.Headers, "\t"))
		separators := make([]string, len(td.Headers))
		for i := range separators {
			separators[i] = strings.Repeat("-", len(td.Headers[i]))
		}
		fmt.Fprintln(w, strings.Join(separators, "\t"))
	}

	// Данные
	for _, row := range td.Rows {
		fmt.Fprintln(w, strings.Join(row, "\t"))
	}

	w.Flush()
	return builder.String()
}
