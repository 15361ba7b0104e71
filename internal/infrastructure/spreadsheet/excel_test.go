package spreadsheet_test

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/jhoicas/conversion-pro/internal/domain/entity"
	"github.com/jhoicas/conversion-pro/internal/domain/stats"
	"github.com/jhoicas/conversion-pro/internal/infrastructure/spreadsheet"
)

func TestReadRows_PrimeraHoja(t *testing.T) {
	f := excelize.NewFile()
	sheet := f.GetSheetName(0)
	require.NoError(t, f.SetSheetRow(sheet, "A1", &[]any{"Customer Name", "Mobile No", "Status"}))
	require.NoError(t, f.SetSheetRow(sheet, "A2", &[]any{"Jane", "9876543210", "WIP"}))
	buf, err := f.WriteToBuffer()
	require.NoError(t, err)

	rows, err := spreadsheet.New().ReadRows(buf.Bytes())

	require.NoError(t, err)
	assert.Equal(t, [][]string{
		{"Customer Name", "Mobile No", "Status"},
		{"Jane", "9876543210", "WIP"},
	}, rows)
}

func TestReadRows_DescartaFilasVacias(t *testing.T) {
	f := excelize.NewFile()
	sheet := f.GetSheetName(0)
	require.NoError(t, f.SetSheetRow(sheet, "A1", &[]any{"Customer Name", "Mobile No"}))
	require.NoError(t, f.SetSheetRow(sheet, "A2", &[]any{"  ", ""}))
	require.NoError(t, f.SetSheetRow(sheet, "A4", &[]any{"Jane", "9876543210"}))
	buf, err := f.WriteToBuffer()
	require.NoError(t, err)

	rows, err := spreadsheet.New().ReadRows(buf.Bytes())

	require.NoError(t, err)
	assert.Equal(t, [][]string{
		{"Customer Name", "Mobile No"},
		{"Jane", "9876543210"},
	}, rows)
}

func TestReadRows_ContenidoInvalido(t *testing.T) {
	_, err := spreadsheet.New().ReadRows([]byte("not a workbook"))
	assert.Error(t, err)
}

func TestWriteLeads_HojasLeadsYSummary(t *testing.T) {
	leads := []entity.Lead{
		{Date: "2024-03-09", EmployeeName: "Ravi", CustomerName: "Jane, Doe", MobileNumber: "9876543210",
			Group: entity.GroupApple, Description: "iPhone", Status: entity.StatusClosed, BillNumber: "INV-1"},
		{Date: "2024-03-09", EmployeeName: "Ravi", CustomerName: "John", MobileNumber: "9876543211",
			Group: entity.GroupApple, Status: entity.StatusOpen},
	}

	out, err := spreadsheet.New().WriteLeads(leads, stats.Summarize(leads))
	require.NoError(t, err)

	f, err := excelize.OpenReader(bytes.NewReader(out))
	require.NoError(t, err)
	defer f.Close()

	assert.Equal(t, []string{spreadsheet.SheetLeads, spreadsheet.SheetSummary}, f.GetSheetList())

	rows, err := f.GetRows(spreadsheet.SheetLeads)
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, "Bill Number", rows[0][7])
	assert.Equal(t, "Jane  Doe", rows[1][2])
	assert.Equal(t, "N/A", rows[2][7])

	rate, err := f.GetCellValue(spreadsheet.SheetSummary, "B7")
	require.NoError(t, err)
	assert.Equal(t, "50.0", rate)
}
