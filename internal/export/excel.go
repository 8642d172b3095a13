package export

import (
	"fmt"

	"example.com/ferramentas/internal/models"

	"github.com/pkg/errors"
	"github.com/xuri/excelize/v2"
)

// Snapshot is a read-only copy of the ledger tables taken for export
type Snapshot struct {
	Movements  []models.MovementRow
	Tools      []models.Tool
	Requesters []models.Requester
}

var retiradasHeaders = []string{
	"Data", "Ferramenta", "Solicitante", "Tipo",
	"Data Devolução", "Hora Devolução", "Tem Retorno", "Status", "Observações",
}

var estoqueHeaders = []string{"Tipo", "Nome", "Quantidade Total", "Disponível"}

// WriteExcel renders the snapshot into the legacy two-sheet workbook
// ("Retiradas" and "Estoque") and saves it at path.
func WriteExcel(snapshot *Snapshot, path string) error {
	f := excelize.NewFile()
	defer f.Close()

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true, Color: "FFFFFF"},
		Fill: excelize.Fill{Type: "pattern", Color: []string{"4F81BD"}, Pattern: 1},
	})
	if err != nil {
		return errors.Wrap(err, "failed to create header style")
	}

	if err := writeRetiradas(f, snapshot.Movements, headerStyle); err != nil {
		return err
	}
	if err := writeEstoque(f, snapshot, headerStyle); err != nil {
		return err
	}

	// Drop the default sheet created by excelize
	if err := f.DeleteSheet("Sheet1"); err != nil {
		return errors.Wrap(err, "failed to delete default sheet")
	}

	if err := f.SaveAs(path); err != nil {
		return errors.Wrap(err, "failed to save workbook")
	}
	return nil
}

func writeRetiradas(f *excelize.File, movements []models.MovementRow, headerStyle int) error {
	const sheet = "Retiradas"
	if _, err := f.NewSheet(sheet); err != nil {
		return errors.Wrap(err, "failed to create sheet")
	}

	if err := writeHeaders(f, sheet, retiradasHeaders, headerStyle); err != nil {
		return err
	}

	for i, mov := range movements {
		row := i + 2
		values := []interface{}{
			deref(mov.CheckoutDate),
			mov.ToolName,
			mov.RequesterName,
			string(mov.Type),
			deref(mov.ExpectedReturnDate),
			deref(mov.ReturnTime),
			models.FormatHasReturn(mov.HasReturn),
			string(mov.Status),
			deref(mov.Notes),
		}
		for col, value := range values {
			cell, err := excelize.CoordinatesToCellName(col+1, row)
			if err != nil {
				return errors.Wrap(err, "failed to build cell name")
			}
			if err := f.SetCellValue(sheet, cell, value); err != nil {
				return errors.Wrap(err, "failed to write cell")
			}
		}
	}

	return setColumnWidths(f, sheet, len(retiradasHeaders))
}

func writeEstoque(f *excelize.File, snapshot *Snapshot, headerStyle int) error {
	const sheet = "Estoque"
	if _, err := f.NewSheet(sheet); err != nil {
		return errors.Wrap(err, "failed to create sheet")
	}

	if err := writeHeaders(f, sheet, estoqueHeaders, headerStyle); err != nil {
		return err
	}

	row := 2
	for _, tool := range snapshot.Tools {
		values := []interface{}{"Ferramenta", tool.Name, tool.TotalQuantity, tool.AvailableQuantity}
		for col, value := range values {
			cell, err := excelize.CoordinatesToCellName(col+1, row)
			if err != nil {
				return errors.Wrap(err, "failed to build cell name")
			}
			if err := f.SetCellValue(sheet, cell, value); err != nil {
				return errors.Wrap(err, "failed to write cell")
			}
		}
		row++
	}
	for _, requester := range snapshot.Requesters {
		values := []interface{}{"Solicitante", requester.Name, "", ""}
		for col, value := range values {
			cell, err := excelize.CoordinatesToCellName(col+1, row)
			if err != nil {
				return errors.Wrap(err, "failed to build cell name")
			}
			if err := f.SetCellValue(sheet, cell, value); err != nil {
				return errors.Wrap(err, "failed to write cell")
			}
		}
		row++
	}

	return setColumnWidths(f, sheet, len(estoqueHeaders))
}

func writeHeaders(f *excelize.File, sheet string, headers []string, style int) error {
	for col, header := range headers {
		cell, err := excelize.CoordinatesToCellName(col+1, 1)
		if err != nil {
			return errors.Wrap(err, "failed to build cell name")
		}
		if err := f.SetCellValue(sheet, cell, header); err != nil {
			return errors.Wrap(err, "failed to write header")
		}
		if err := f.SetCellStyle(sheet, cell, cell, style); err != nil {
			return errors.Wrap(err, "failed to style header")
		}
	}
	return nil
}

func setColumnWidths(f *excelize.File, sheet string, columns int) error {
	last, err := excelize.ColumnNumberToName(columns)
	if err != nil {
		return errors.Wrap(err, "failed to resolve column name")
	}
	if err := f.SetColWidth(sheet, "A", last, 15); err != nil {
		return errors.Wrap(err, "failed to set column widths")
	}
	return nil
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

// ExcelFileName builds a timestamped workbook name
func ExcelFileName(prefix, timestamp string) string {
	return fmt.Sprintf("%s_%s.xlsx", prefix, timestamp)
}
