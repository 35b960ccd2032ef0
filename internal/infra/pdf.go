package infra

// pdf.go — Weighbridge ticket generation using go-pdf/fpdf.
// A7-size thermal-printer-style ticket with:
//   - Business name header
//   - Ticket id and timestamp
//   - Operation type, product and cancha
//   - Bruto / tara / neto weight table (bold neto)
//   - Client, driver and plate footer
//
// The output file is saved to storagePath/ticket_{id}.pdf.

import (
	"fmt"
	"os"
	"path/filepath"

	"opmina/internal/model"

	"github.com/go-pdf/fpdf"
)

// GenerateTicketPesajePDF writes the printable ticket for a pesaje.
// storagePath is created if needed. Returns the absolute path of the file.
func GenerateTicketPesajePDF(pesaje *model.Pesaje, empresa, storagePath string) (string, error) {
	if err := os.MkdirAll(storagePath, 0755); err != nil {
		return "", fmt.Errorf("pdf: create storage dir: %w", err)
	}

	fileName := fmt.Sprintf("ticket_%s.pdf", pesaje.ID)
	filePath := filepath.Join(storagePath, fileName)

	// A7 ≈ 74mm × 105mm — close to thermal receipt paper
	pdf := fpdf.NewCustom(&fpdf.InitType{
		OrientationStr: "P",
		UnitStr:        "mm",
		Size:           fpdf.SizeType{Wd: 74, Ht: 105},
	})
	pdf.SetMargins(4, 4, 4)
	pdf.AddPage()

	pageW, _ := pdf.GetPageSize()
	contentW := pageW - 8 // total margins = 8mm

	// ── Header ───────────────────────────────────────────────────────────────
	pdf.SetFont("Helvetica", "B", 13)
	pdf.CellFormat(contentW, 7, empresa, "", 1, "C", false, 0, "")

	pdf.SetFont("Helvetica", "", 8)
	pdf.CellFormat(contentW, 5, "Ticket de Balanza", "", 1, "C", false, 0, "")
	pdf.Ln(2)

	// ── Ticket info ───────────────────────────────────────────────────────────
	pdf.SetFont("Helvetica", "B", 8)
	pdf.CellFormat(contentW, 5, fmt.Sprintf("Operación: %s", pesaje.TipoOperacion), "", 1, "L", false, 0, "")
	pdf.SetFont("Helvetica", "", 7)
	pdf.CellFormat(contentW, 4, pesaje.CreatedAt.Format("02/01/2006  15:04"), "", 1, "L", false, 0, "")
	if pesaje.Producto != "" {
		pdf.CellFormat(contentW, 4, "Producto: "+pesaje.Producto, "", 1, "L", false, 0, "")
	}
	if pesaje.CanchaNombre != "" {
		pdf.CellFormat(contentW, 4, "Cancha: "+pesaje.CanchaNombre, "", 1, "L", false, 0, "")
	}
	pdf.Ln(2)

	// ── Separator ────────────────────────────────────────────────────────────
	pdf.Line(4, pdf.GetY(), pageW-4, pdf.GetY())
	pdf.Ln(2)

	// ── Weights ──────────────────────────────────────────────────────────────
	col1 := contentW * 0.55
	col2 := contentW * 0.45

	pdf.SetFont("Helvetica", "", 8)
	pdf.CellFormat(col1, 5, "Peso bruto:", "", 0, "L", false, 0, "")
	pdf.CellFormat(col2, 5, pesaje.PesoBruto.StringFixed(3)+" t", "", 1, "R", false, 0, "")
	pdf.CellFormat(col1, 5, "Tara:", "", 0, "L", false, 0, "")
	pdf.CellFormat(col2, 5, pesaje.PesoTara.StringFixed(3)+" t", "", 1, "R", false, 0, "")

	pdf.SetFont("Helvetica", "B", 10)
	pdf.CellFormat(col1, 7, "PESO NETO:", "", 0, "L", false, 0, "")
	pdf.CellFormat(col2, 7, pesaje.PesoNeto.StringFixed(3)+" t", "", 1, "R", false, 0, "")

	pdf.Ln(2)
	pdf.Line(4, pdf.GetY(), pageW-4, pdf.GetY())
	pdf.Ln(2)

	// ── Transport ────────────────────────────────────────────────────────────
	pdf.SetFont("Helvetica", "", 7)
	if pesaje.Cliente != "" {
		pdf.CellFormat(contentW, 4, "Cliente: "+pesaje.Cliente, "", 1, "L", false, 0, "")
	}
	if pesaje.Chofer != "" {
		pdf.CellFormat(contentW, 4, "Chofer: "+pesaje.Chofer, "", 1, "L", false, 0, "")
	}
	if pesaje.Placa != "" {
		pdf.CellFormat(contentW, 4, "Placa: "+pesaje.Placa, "", 1, "L", false, 0, "")
	}

	// ── Footer ────────────────────────────────────────────────────────────────
	pdf.Ln(3)
	pdf.SetFont("Helvetica", "I", 6)
	pdf.CellFormat(contentW, 4, pesaje.ID.String(), "", 1, "C", false, 0, "")

	if err := pdf.OutputFileAndClose(filePath); err != nil {
		return "", fmt.Errorf("pdf: write file: %w", err)
	}

	return filePath, nil
}
