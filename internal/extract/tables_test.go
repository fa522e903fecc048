package extract

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseTableRows_AlignedTable(t *testing.T) {
	body := "| Target | Relation | Cardinality |\n|---|---|---|\n| [[Customer]] | owns | 1:N |\n| [[Product]] | contains | 1:1 |"
	rows := parseTableRows(body)
	require.Len(t, rows, 2)
	assert.Equal(t, "owns", rows[0]["relation"])
	assert.Equal(t, "1:N", rows[0]["cardinality"])
	assert.Equal(t, "contains", rows[1]["relation"])
}

func TestParseTableRows_StripsBackticks(t *testing.T) {
	body := "| Field | Type |\n|---|---|\n| `amount` | `money` |"
	rows := parseTableRows(body)
	require.Len(t, rows, 1)
	assert.Equal(t, "amount", rows[0]["field"])
	assert.Equal(t, "money", rows[0]["type"])
}

func TestParseTableRows_DropsShortRows(t *testing.T) {
	body := "| A | B | C |\n|---|---|---|\n| one | two |"
	rows := parseTableRows(body)
	assert.Empty(t, rows)
}

func TestParseTableRows_NoTableReturnsEmpty(t *testing.T) {
	assert.Empty(t, parseTableRows("just plain text, no pipes here"))
}

func TestParseListItems_DashAndAsteriskMarkers(t *testing.T) {
	body := "- first item\n* second item\nnot a list line\n-  trimmed  "
	items := parseListItems(body)
	require.Len(t, items, 3)
	assert.Equal(t, "first item", items[0])
	assert.Equal(t, "second item", items[1])
	assert.Equal(t, "trimmed", items[2])
}
