// Package xlsx writes transaction lists as Excel workbooks.
package xlsx

import (
	"fmt"
	"io"

	"spendwiser/internal/core/domain"

	"github.com/xuri/excelize/v2"
)

const SheetName = "Transactions"

var headers = []string{"Date", "Description", "Category", "Type", "Amount", "Currency", "Wallet", "Merchant"}

// Exporter implements ports.TransactionExporter.
type Exporter struct{}

func NewExporter() *Exporter {
	return &Exporter{}
}

func (e *Exporter) ContentType() string {
	return "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
}

func (e *Exporter) FileExtension() string {
	return "xlsx"
}

// Export writes one row per transaction below a header row. Expenses are
// written as negative amounts.
func (e *Exporter) Export(w io.Writer, txns []domain.Transaction) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", SheetName); err != nil {
		return fmt.Errorf("rename sheet: %w", err)
	}

	for i, h := range headers {
		cell, err := excelize.CoordinatesToCellName(i+1, 1)
		if err != nil {
			return err
		}
		if err := f.SetCellValue(SheetName, cell, h); err != nil {
			return fmt.Errorf("write header: %w", err)
		}
	}

	for i, t := range txns {
		row := i + 2
		values := []any{
			t.Date,
			t.Description,
			t.Category,
			string(t.Type),
			t.SignedAmount().InexactFloat64(),
			t.Currency,
			t.WalletID,
			t.ReceiptMerchant,
		}
		for col, v := range values {
			cell, err := excelize.CoordinatesToCellName(col+1, row)
			if err != nil {
				return err
			}
			if err := f.SetCellValue(SheetName, cell, v); err != nil {
				return fmt.Errorf("write row %d: %w", row, err)
			}
		}
	}

	if err := f.SetColWidth(SheetName, "A", "A", 12); err != nil {
		return err
	}
	if err := f.SetColWidth(SheetName, "B", "B", 32); err != nil {
		return err
	}

	if err := f.Write(w); err != nil {
		return fmt.Errorf("write workbook: %w", err)
	}
	return nil
}
