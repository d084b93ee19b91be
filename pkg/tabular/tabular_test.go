package tabular

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func TestReadCSV(t *testing.T) {
	input := "\xEF\xBB\xBFname_ar, barcodes ,available_quantity\n" +
		"Acme - Widget,111,5\n" +
		"\n" +
		"Beta - Gadget,222\n"

	tbl, err := ReadCSV(strings.NewReader(input))
	require.NoError(t, err)

	assert.Equal(t, []string{"name_ar", "barcodes", "available_quantity"}, tbl.Columns)
	require.Equal(t, 2, tbl.Len())
	assert.Equal(t, []string{"Acme - Widget", "111", "5"}, tbl.Rows[0])
	assert.Equal(t, []string{"Beta - Gadget", "222", ""}, tbl.Rows[1], "short records are padded")
	assert.Equal(t, 1, tbl.Index("barcodes"))
	assert.Equal(t, -1, tbl.Index("branch_name"))
	assert.Equal(t, "", tbl.Cell(0, 7))
}

func TestReadXLSX(t *testing.T) {
	f := excelize.NewFile()
	defer f.Close()
	require.NoError(t, f.SetSheetRow("Sheet1", "A1", &[]interface{}{"Branch", "Date", "Brand"}))
	require.NoError(t, f.SetSheetRow("Sheet1", "A2", &[]interface{}{"Main", "2026-10-15", "Acme"}))
	require.NoError(t, f.SetSheetRow("Sheet1", "A3", &[]interface{}{"North", 46310, "Beta"}))

	var buf bytes.Buffer
	_, err := f.WriteTo(&buf)
	require.NoError(t, err)

	tbl, err := Read("schedule.xlsx", &buf)
	require.NoError(t, err)

	assert.Equal(t, []string{"Branch", "Date", "Brand"}, tbl.Columns)
	require.Equal(t, 2, tbl.Len())
	assert.Equal(t, []string{"Main", "2026-10-15", "Acme"}, tbl.Rows[0])
	assert.Equal(t, "46310", tbl.Rows[1][1])
}

func TestReadUnsupportedFormat(t *testing.T) {
	_, err := Read("legacy.xls", strings.NewReader(""))
	assert.ErrorIs(t, err, ErrUnsupportedFormat)
}
