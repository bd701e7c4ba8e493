// Package spreadsheet genera los exports en formato hoja de cálculo (.xlsx) con excelize.
package spreadsheet

import (
	"context"
	"fmt"
	"unicode/utf8"

	"github.com/xuri/excelize/v2"

	"github.com/drb-alger/gestion-magasin/internal/application/report"
)

// Nombres de hoja.
const (
	InventorySheet = "Inventaire"
	HistorySheet   = "Historique"
)

// Límites de ancho de columna (caracteres).
const (
	minColWidth = 12
	maxColWidth = 50
)

// ExcelRenderer implementa report.Renderer para XLSX.
type ExcelRenderer struct{}

var _ report.Renderer = (*ExcelRenderer)(nil)

// NewExcelRenderer construye el renderer.
func NewExcelRenderer() *ExcelRenderer { return &ExcelRenderer{} }

// Format devuelve report.FormatXLSX.
func (r *ExcelRenderer) Format() report.Format { return report.FormatXLSX }

// RenderInventory una fila por producto; la columna valor es numérica.
func (r *ExcelRenderer) RenderInventory(_ context.Context, _ string, rows []report.InventoryRow) ([]byte, error) {
	data := make([][]any, 0, len(rows))
	for _, p := range rows {
		price, _ := p.Price.Float64()
		value, _ := p.Value.Float64()
		data = append(data, []any{
			p.Article, p.Category, p.Quantity, price, p.MinThreshold, p.DateAdded, p.Observation, value,
		})
	}
	return build(InventorySheet, report.InventoryHeaders, data)
}

// RenderHistory una fila por movimiento (salidas en negativo).
func (r *ExcelRenderer) RenderHistory(_ context.Context, _ string, rows []report.HistoryReportRow) ([]byte, error) {
	data := make([][]any, 0, len(rows))
	for _, h := range rows {
		data = append(data, []any{
			h.Date, h.Type, h.Article, h.Quantity, h.Recipient, h.Observation, h.StockAfter,
		})
	}
	return build(HistorySheet, report.HistoryHeaders, data)
}

func build(sheet string, headers []string, rows [][]any) ([]byte, error) {
	f := excelize.NewFile()
	defer func() { _ = f.Close() }()

	// La hoja por defecto se renombra
	if err := f.SetSheetName(f.GetSheetName(0), sheet); err != nil {
		return nil, fmt.Errorf("xlsx: hoja: %w", err)
	}

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Color: "FFFFFF"},
		Fill:      excelize.Fill{Type: "pattern", Pattern: 1, Color: []string{"1976D2"}},
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center"},
		Border:    borders("CCCCCC"),
	})
	if err != nil {
		return nil, fmt.Errorf("xlsx: estilo: %w", err)
	}

	widths := make([]int, len(headers))
	header := make([]any, len(headers))
	for i, h := range headers {
		header[i] = h
		widths[i] = utf8.RuneCountInString(h)
	}
	if err := f.SetSheetRow(sheet, "A1", &header); err != nil {
		return nil, fmt.Errorf("xlsx: cabecera: %w", err)
	}
	last, err := excelize.CoordinatesToCellName(len(headers), 1)
	if err != nil {
		return nil, err
	}
	if err := f.SetCellStyle(sheet, "A1", last, headerStyle); err != nil {
		return nil, fmt.Errorf("xlsx: estilo cabecera: %w", err)
	}

	for i, values := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return nil, err
		}
		if err := f.SetSheetRow(sheet, cell, &values); err != nil {
			return nil, fmt.Errorf("xlsx: fila %d: %w", i+2, err)
		}
		for j, v := range values {
			if n := utf8.RuneCountInString(fmt.Sprint(v)); n > widths[j] {
				widths[j] = n
			}
		}
	}

	for i, w := range widths {
		name, err := excelize.ColumnNumberToName(i + 1)
		if err != nil {
			return nil, err
		}
		if err := f.SetColWidth(sheet, name, name, clampWidth(w+2)); err != nil {
			return nil, fmt.Errorf("xlsx: ancho columna: %w", err)
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("xlsx: escribir: %w", err)
	}
	return buf.Bytes(), nil
}

func clampWidth(w int) float64 {
	switch {
	case w < minColWidth:
		return minColWidth
	case w > maxColWidth:
		return maxColWidth
	}
	return float64(w)
}

func borders(color string) []excelize.Border {
	out := make([]excelize.Border, 0, 4)
	for _, side := range []string{"left", "top", "right", "bottom"} {
		out = append(out, excelize.Border{Type: side, Color: color, Style: 1})
	}
	return out
}
