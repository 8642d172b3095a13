package export

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"example.com/ferramentas/internal/models"
)

func sampleSnapshot() *Snapshot {
	date := "2024-03-15"
	notes := "obra do galpão"
	return &Snapshot{
		Movements: []models.MovementRow{
			{
				Movement: models.Movement{
					Type:         models.TypeCheckout,
					CheckoutDate: &date,
					HasReturn:    true,
					Notes:        &notes,
					Status:       models.StatusActive,
				},
				RequesterName: "Paulo",
				ToolName:      "Furadeira",
			},
		},
		Tools: []models.Tool{
			{Name: "Furadeira", TotalQuantity: 2, AvailableQuantity: 1},
		},
		Requesters: []models.Requester{
			{Name: "Paulo"},
		},
	}
}

func TestWriteExcel(t *testing.T) {
	path := filepath.Join(t.TempDir(), "relatorio.xlsx")

	require.NoError(t, WriteExcel(sampleSnapshot(), path))

	f, err := excelize.OpenFile(path)
	require.NoError(t, err)
	defer f.Close()

	sheets := f.GetSheetList()
	require.Contains(t, sheets, "Retiradas")
	require.Contains(t, sheets, "Estoque")
	require.NotContains(t, sheets, "Sheet1")

	header, err := f.GetCellValue("Retiradas", "A1")
	require.NoError(t, err)
	require.Equal(t, "Data", header)

	toolName, err := f.GetCellValue("Retiradas", "B2")
	require.NoError(t, err)
	require.Equal(t, "Furadeira", toolName)

	hasReturn, err := f.GetCellValue("Retiradas", "G2")
	require.NoError(t, err)
	require.Equal(t, "Sim", hasReturn)

	kind, err := f.GetCellValue("Estoque", "A2")
	require.NoError(t, err)
	require.Equal(t, "Ferramenta", kind)

	available, err := f.GetCellValue("Estoque", "D2")
	require.NoError(t, err)
	require.Equal(t, "1", available)

	requesterRow, err := f.GetCellValue("Estoque", "B3")
	require.NoError(t, err)
	require.Equal(t, "Paulo", requesterRow)
}

func TestWriteExcelEmptySnapshot(t *testing.T) {
	path := filepath.Join(t.TempDir(), "vazio.xlsx")

	require.NoError(t, WriteExcel(&Snapshot{}, path))

	f, err := excelize.OpenFile(path)
	require.NoError(t, err)
	defer f.Close()

	header, err := f.GetCellValue("Estoque", "A1")
	require.NoError(t, err)
	require.Equal(t, "Tipo", header)
}

func TestExcelFileName(t *testing.T) {
	require.Equal(t, "relatorio_2024-03-15.xlsx", ExcelFileName("relatorio", "2024-03-15"))
}
