package simpleexcelv3

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func sampleWorkbook() *Workbook {
	unlocked := false
	return &Workbook{
		Sheets: []*Sheet{
			{
				Name:     "Acme",
				Position: 1,
				Columns: []Column{
					{Header: "Available", Width: 12},
					{Header: "Actual", Width: 9, Locked: &unlocked},
					{Header: "Difference"},
				},
				Rows: [][]Cell{
					{Value(10), Value(nil), Formula("B2-A2")},
				},
			},
			{
				Name:     "Summary",
				Position: 0,
				Columns:  []Column{{Header: "Difference"}},
				Rows:     [][]Cell{{Formula("SUM('Acme'!C2:C2)")}},
			},
		},
	}
}

func TestWorkbook_OrderFollowsPosition(t *testing.T) {
	f, err := sampleWorkbook().BuildExcel()
	require.NoError(t, err)
	defer f.Close()

	assert.Equal(t, []string{"Summary", "Acme"}, f.GetSheetList())
	assert.Equal(t, 0, f.GetActiveSheetIndex())
}

func TestWorkbook_FormulasAndWidths(t *testing.T) {
	f, err := sampleWorkbook().BuildExcel()
	require.NoError(t, err)
	defer f.Close()

	header, err := f.GetCellValue("Acme", "C1")
	require.NoError(t, err)
	assert.Equal(t, "Difference", header)

	formula, err := f.GetCellFormula("Acme", "C2")
	require.NoError(t, err)
	assert.Equal(t, "B2-A2", formula)

	width, err := f.GetColWidth("Acme", "A")
	require.NoError(t, err)
	assert.Equal(t, 12.0, width)

	actual, err := f.GetCellValue("Acme", "B2")
	require.NoError(t, err)
	assert.Empty(t, actual)

	require.NoError(t, f.SetCellValue("Acme", "B2", 7))
	got, err := f.CalcCellValue("Acme", "C2")
	require.NoError(t, err)
	assert.Equal(t, "-3", got)
}

func TestWorkbook_RejectsDuplicateNames(t *testing.T) {
	wb := &Workbook{Sheets: []*Sheet{{Name: "Acme"}, {Name: "ACME", Position: 1}}}
	_, err := wb.BuildExcel()
	assert.Error(t, err)

	_, err = (&Workbook{}).BuildExcel()
	assert.Error(t, err)
}

func TestWorkbook_ProtectedSheet(t *testing.T) {
	wb := sampleWorkbook()
	wb.Sheet("Acme").Protected = true
	wb.Sheet("Acme").FreezeHeader = true
	wb.Sheet("Acme").AutoFilter = true

	f, err := wb.BuildExcel()
	require.NoError(t, err)
	defer f.Close()

	lockedID, err := f.GetCellStyle("Acme", "A2")
	require.NoError(t, err)
	unlockedID, err := f.GetCellStyle("Acme", "B2")
	require.NoError(t, err)
	assert.NotEqual(t, lockedID, unlockedID)
}

func TestWorkbook_ToBytesRoundTrip(t *testing.T) {
	data, err := sampleWorkbook().ToBytes()
	require.NoError(t, err)

	f, err := excelize.OpenReader(bytes.NewReader(data))
	require.NoError(t, err)
	defer f.Close()

	formula, err := f.GetCellFormula("Summary", "A2")
	require.NoError(t, err)
	assert.Equal(t, "SUM('Acme'!C2:C2)", formula)
}

func TestResolveStyle(t *testing.T) {
	locked := true
	s := resolveStyle(&StyleTemplate{Font: &FontTemplate{Color: "#FF0000"}}, DefaultHeaderStyle(), &locked)
	assert.Equal(t, "#FF0000", s.Font.Color)
	require.NotNil(t, s.Fill)
	assert.Equal(t, DefaultLockedColor, s.Fill.Color)

	s = resolveStyle(nil, DefaultHeaderStyle(), nil)
	assert.True(t, s.Font.Bold)
	assert.Nil(t, s.Locked)
}
