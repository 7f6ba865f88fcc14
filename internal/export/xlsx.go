package export

import (
	"bytes"
	"fmt"
	"strings"

	"chalet-booking/internal/catalog"
	"chalet-booking/internal/models"
	"chalet-booking/internal/schedule"

	"github.com/xuri/excelize/v2"
)

const sheetName = "Séjours"

var columnWidths = []float64{
	12, // Arrivée
	12, // Départ
	8,  // Nuits
	16, // Famille
	11, // Personnes
	30, // Chambres
	45, // Configuration
	40, // Notes
}

// XLSX builds a workbook with one row per booking. The family cell is
// filled with the member's color.
func XLSX(bookings []models.Booking, cat *catalog.Catalog) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	index, err := f.NewSheet(sheetName)
	if err != nil {
		return nil, fmt.Errorf("failed to create sheet: %w", err)
	}
	if err := f.DeleteSheet("Sheet1"); err != nil {
		return nil, fmt.Errorf("failed to delete default sheet: %w", err)
	}
	f.SetActiveSheet(index)

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
		Fill: excelize.Fill{
			Type:    "pattern",
			Color:   []string{"#F5EFE6"},
			Pattern: 1,
		},
		Border: []excelize.Border{
			{Type: "bottom", Color: "000000", Style: 1},
		},
		Alignment: &excelize.Alignment{
			Horizontal: "center",
			Vertical:   "center",
		},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create header style: %w", err)
	}

	for col, header := range Header {
		cell, err := excelize.CoordinatesToCellName(col+1, 1)
		if err != nil {
			return nil, fmt.Errorf("failed to convert coordinates: %w", err)
		}
		if err := f.SetCellValue(sheetName, cell, header); err != nil {
			return nil, fmt.Errorf("failed to set header cell %s: %w", cell, err)
		}
		if err := f.SetCellStyle(sheetName, cell, cell, headerStyle); err != nil {
			return nil, fmt.Errorf("failed to set header style: %w", err)
		}

		name, err := excelize.ColumnNumberToName(col + 1)
		if err != nil {
			return nil, fmt.Errorf("failed to convert column number: %w", err)
		}
		if err := f.SetColWidth(sheetName, name, name, columnWidths[col]); err != nil {
			return nil, fmt.Errorf("failed to set column width: %w", err)
		}
	}

	memberStyles := map[string]int{}
	for i, b := range bookings {
		r := i + 2
		values := row(b)
		for col, v := range values {
			cell, err := excelize.CoordinatesToCellName(col+1, r)
			if err != nil {
				return nil, fmt.Errorf("failed to convert coordinates: %w", err)
			}
			var value any = v
			// Nuits and Personnes stay numeric
			if col == 2 || col == 4 {
				value = numeric(b, col)
			}
			if err := f.SetCellValue(sheetName, cell, value); err != nil {
				return nil, fmt.Errorf("failed to set cell %s: %w", cell, err)
			}
		}

		style, ok := memberStyles[b.FamilyMember]
		if !ok {
			style, err = memberStyle(f, cat.MemberColor(b.FamilyMember))
			if err != nil {
				return nil, err
			}
			memberStyles[b.FamilyMember] = style
		}
		cell, _ := excelize.CoordinatesToCellName(4, r)
		if err := f.SetCellStyle(sheetName, cell, cell, style); err != nil {
			return nil, fmt.Errorf("failed to set member style: %w", err)
		}
	}

	if err := f.SetPanes(sheetName, &excelize.Panes{
		Freeze:      true,
		YSplit:      1,
		TopLeftCell: "A2",
		ActivePane:  "bottomLeft",
	}); err != nil {
		return nil, fmt.Errorf("failed to freeze header: %w", err)
	}

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return nil, fmt.Errorf("failed to write workbook: %w", err)
	}
	return buf.Bytes(), nil
}

func numeric(b models.Booking, col int) int {
	if col == 2 {
		return schedule.Nights(b)
	}
	return b.GuestCount
}

func memberStyle(f *excelize.File, color string) (int, error) {
	style, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true, Color: "#FFFFFF"},
		Fill: excelize.Fill{
			Type:    "pattern",
			Color:   []string{strings.ToUpper(color)},
			Pattern: 1,
		},
	})
	if err != nil {
		return 0, fmt.Errorf("failed to create member style: %w", err)
	}
	return style, nil
}
