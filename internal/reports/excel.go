package reports

import (
	"bytes"
	"fmt"

	"github.com/xuri/excelize/v2"

	"github.com/aminrz/farm_bot/internal/models"
	"github.com/aminrz/farm_bot/pkg/utils"
)

// MilkReport builds an xlsx workbook from a range of milk records,
// one row per record plus a total row.
func MilkReport(records []models.MilkRecord, animalNames map[uint]string) (*bytes.Buffer, error) {
	f := excelize.NewFile()
	defer f.Close()

	sheet := "Milk"
	f.SetSheetName("Sheet1", sheet)

	headers := []string{"Date", "Animal", "Quantity (L)"}
	for i, h := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		f.SetCellValue(sheet, cell, h)
	}

	total := 0.0
	for i, r := range records {
		row := i + 2
		name := animalNames[r.AnimalID]
		if name == "" {
			name = fmt.Sprintf("#%d", r.AnimalID)
		}
		f.SetCellValue(sheet, fmt.Sprintf("A%d", row), r.RecordDate.Format(utils.DateLayout))
		f.SetCellValue(sheet, fmt.Sprintf("B%d", row), name)
		f.SetCellValue(sheet, fmt.Sprintf("C%d", row), r.Quantity)
		total += r.Quantity
	}

	totalRow := len(records) + 2
	f.SetCellValue(sheet, fmt.Sprintf("B%d", totalRow), "Total")
	f.SetCellValue(sheet, fmt.Sprintf("C%d", totalRow), total)

	return f.WriteToBuffer()
}

// FinanceReport builds an xlsx workbook from finance records with a
// closing balance row (income minus expenses).
func FinanceReport(records []models.FinanceRecord) (*bytes.Buffer, error) {
	f := excelize.NewFile()
	defer f.Close()

	sheet := "Finance"
	f.SetSheetName("Sheet1", sheet)

	headers := []string{"Date", "Kind", "Amount", "Note"}
	for i, h := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		f.SetCellValue(sheet, cell, h)
	}

	balance := 0.0
	for i, r := range records {
		row := i + 2
		f.SetCellValue(sheet, fmt.Sprintf("A%d", row), r.RecordDate.Format(utils.DateLayout))
		f.SetCellValue(sheet, fmt.Sprintf("B%d", row), r.Kind)
		f.SetCellValue(sheet, fmt.Sprintf("C%d", row), r.Amount)
		f.SetCellValue(sheet, fmt.Sprintf("D%d", row), r.Note)
		if r.Kind == models.FinanceIncome {
			balance += r.Amount
		} else {
			balance -= r.Amount
		}
	}

	balanceRow := len(records) + 2
	f.SetCellValue(sheet, fmt.Sprintf("B%d", balanceRow), "Balance")
	f.SetCellValue(sheet, fmt.Sprintf("C%d", balanceRow), balance)

	return f.WriteToBuffer()
}
