package export_test

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/conversion-pro/internal/domain/entity"
	"github.com/jhoicas/conversion-pro/internal/domain/export"
)

var now = time.Date(2026, 10, 17, 9, 30, 0, 0, time.UTC)

func TestCSV_ColeccionVaciaNoGeneraArchivo(t *testing.T) {
	_, ok := export.CSV(nil, now)
	assert.False(t, ok)
}

func TestCSV_NMasUnaLineas(t *testing.T) {
	leads := []entity.Lead{
		{Date: "2026-10-01", EmployeeName: "Asha", CustomerName: "Jane, Doe", MobileNumber: "9876543210",
			Group: entity.GroupApple, Description: "wants 256GB,\nblue", Status: entity.StatusClosed, BillNumber: "B-1"},
		{Date: "2026-10-02", EmployeeName: "Ravi", CustomerName: "John", MobileNumber: "9876543211",
			Group: entity.GroupComputers, Status: entity.StatusOpen},
	}

	rep, ok := export.CSV(leads, now)

	require.True(t, ok)
	assert.Equal(t, "sales_report_2026-10-17.csv", rep.Filename)
	lines := strings.Split(string(rep.Content), "\n")
	require.Len(t, lines, 3)
	assert.Equal(t, "Date,Employee,Customer,Mobile,Group,Description,Status,Bill Number", lines[0])
	assert.Equal(t, "2026-10-01,Asha,Jane  Doe,9876543210,Apple Devices,wants 256GB  blue,Closed,B-1", lines[1])
	assert.Equal(t, "2026-10-02,Ravi,John,9876543211,Computers,,Open,N/A", lines[2])
	for _, line := range lines {
		assert.Len(t, strings.Split(line, ","), len(export.Columns))
	}
}
