package output

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleTable() *TableData {
	table := NewTableData("ID", "NAME", "PRICE")
	table.AddRow("1", "Wireless Earbuds", "$49.99")
	table.AddRow("2", "Phone Case", "$9.99")
	return table
}

func TestNewFormatter(t *testing.T) {
	for _, format := range []string{"table", "json", "yaml"} {
		formatter, err := NewFormatter(format)
		require.NoError(t, err, format)
		assert.NotNil(t, formatter)
	}

	_, err := NewFormatter("xml")
	assert.Error(t, err)
}

func TestTableFormatter(t *testing.T) {
	t.Run("renders headers and rows", func(t *testing.T) {
		out, err := (&TableFormatter{}).Format(sampleTable())
		require.NoError(t, err)

		assert.Contains(t, out, "ID")
		assert.Contains(t, out, "Wireless Earbuds")
		assert.Contains(t, out, "$9.99")
	})

	t.Run("empty table", func(t *testing.T) {
		out, err := (&TableFormatter{}).Format(NewTableData("ID"))
		require.NoError(t, err)
		assert.Equal(t, "No data found", out)
	})
}

func TestJSONFormatter(t *testing.T) {
	out, err := (&JSONFormatter{Pretty: true}).Format(sampleTable())
	require.NoError(t, err)

	var records []map[string]string
	require.NoError(t, json.Unmarshal([]byte(out), &records))
	require.Len(t, records, 2)
	assert.Equal(t, "Wireless Earbuds", records[0]["name"])
	assert.Equal(t, "$9.99", records[1]["price"])
}

func TestYAMLFormatter(t *testing.T) {
	out, err := (&YAMLFormatter{}).Format(sampleTable())
	require.NoError(t, err)

	assert.Contains(t, out, "name: Wireless Earbuds")
	assert.Contains(t, out, "price: $9.99")
}

func TestRecords(t *testing.T) {
	records := sampleTable().Records()

	require.Len(t, records, 2)
	assert.Equal(t, map[string]string{
		"id": "1", "name": "Wireless Earbuds", "price": "$49.99",
	}, records[0])
}
