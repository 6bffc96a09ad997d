package export

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func TestToWorkbook(t *testing.T) {
	data, err := ToWorkbook(sampleRows(), sampleTotals())
	require.NoError(t, err)
	require.NotEmpty(t, data)

	f, err := excelize.OpenReader(bytes.NewReader(data))
	require.NoError(t, err)
	defer f.Close()

	const sheet = "Pricing Estimate"
	assert.Equal(t, []string{sheet}, f.GetSheetList())

	cellRows, err := f.GetRows(sheet)
	require.NoError(t, err)
	require.GreaterOrEqual(t, len(cellRows), 7)

	assert.Equal(t, "Filename", cellRows[0][0])
	assert.Equal(t, "Documents", cellRows[0][7])
	assert.Equal(t, "birth-cert.pdf", cellRows[1][0])
	assert.Equal(t, "medium", cellRows[1][4])
	assert.Equal(t, `scan "final" v2.pdf`, cellRows[2][0])

	// Separator row, then the three summary lines.
	assert.Empty(t, cellRows[3])
	assert.Equal(t, "Translation Subtotal", cellRows[4][0])
	assert.Equal(t, "Estimated Total", cellRows[6][0])
}
