package infra

// pdf.go renders order receipts with go-pdf/fpdf on receipt-sized paper
// (74mm wide): restaurant header, order reference and time, item lines,
// bold total and payment state.

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/go-pdf/fpdf"
	"github.com/shopspring/decimal"
)

// ReceiptLine is one printed order line.
type ReceiptLine struct {
	Name     string
	Note     string
	Qty      int
	Subtotal int64
}

// Receipt is everything printed on an order receipt. Amounts are in the
// smallest currency unit.
type Receipt struct {
	Restaurant string
	Address    string
	OrderID    string
	Table      string // "Table 4" or "À emporter"
	Waiter     string
	CreatedAt  time.Time
	Lines      []ReceiptLine
	Total      int64
	Paid       bool
	Currency   string
}

// FormatMoney renders an amount as "12 500 FCFA".
func FormatMoney(amount int64, currency string) string {
	s := decimal.NewFromInt(amount).Abs().StringFixed(0)
	var b strings.Builder
	if amount < 0 {
		b.WriteByte('-')
	}
	for i, r := range s {
		if i > 0 && (len(s)-i)%3 == 0 {
			b.WriteByte(' ')
		}
		b.WriteRune(r)
	}
	if currency != "" {
		b.WriteByte(' ')
		b.WriteString(currency)
	}
	return b.String()
}

// RenderReceipt writes the receipt PDF to w.
func RenderReceipt(w io.Writer, r Receipt) error {
	lines := len(r.Lines)
	for _, l := range r.Lines {
		if l.Note != "" {
			lines++
		}
	}
	height := 70 + float64(lines)*5

	pdf := fpdf.NewCustom(&fpdf.InitType{
		OrientationStr: "P",
		UnitStr:        "mm",
		Size:           fpdf.SizeType{Wd: 74, Ht: height},
	})
	pdf.SetMargins(4, 4, 4)
	pdf.SetAutoPageBreak(false, 4)
	pdf.AddPage()
	// core fonts are cp1252; accents need translating
	tr := pdf.UnicodeTranslatorFromDescriptor("")

	pageW, _ := pdf.GetPageSize()
	contentW := pageW - 8

	// ── Header ───────────────────────────────────────────────────────────────
	pdf.SetFont("Helvetica", "B", 13)
	pdf.CellFormat(contentW, 7, tr(r.Restaurant), "", 1, "C", false, 0, "")
	if r.Address != "" {
		pdf.SetFont("Helvetica", "", 7)
		pdf.CellFormat(contentW, 4, tr(r.Address), "", 1, "C", false, 0, "")
	}
	pdf.Ln(2)

	// ── Order info ───────────────────────────────────────────────────────────
	pdf.SetFont("Helvetica", "B", 8)
	pdf.CellFormat(contentW, 5, tr(fmt.Sprintf("Commande %s  ·  %s", r.OrderID, r.Table)), "", 1, "L", false, 0, "")
	pdf.SetFont("Helvetica", "", 7)
	pdf.CellFormat(contentW, 4, r.CreatedAt.Format("02/01/2006  15:04"), "", 1, "L", false, 0, "")
	if r.Waiter != "" {
		pdf.CellFormat(contentW, 4, tr("Serveur : "+r.Waiter), "", 1, "L", false, 0, "")
	}
	pdf.Ln(2)
	pdf.Line(4, pdf.GetY(), pageW-4, pdf.GetY())
	pdf.Ln(2)

	// ── Items ────────────────────────────────────────────────────────────────
	col1 := contentW * 0.52
	col2 := contentW * 0.14
	col3 := contentW * 0.34

	pdf.SetFont("Helvetica", "B", 7)
	pdf.CellFormat(col1, 5, tr("Article"), "B", 0, "L", false, 0, "")
	pdf.CellFormat(col2, 5, tr("Qté"), "B", 0, "C", false, 0, "")
	pdf.CellFormat(col3, 5, tr("Montant"), "B", 1, "R", false, 0, "")

	pdf.SetFont("Helvetica", "", 7)
	for _, l := range r.Lines {
		name := []rune(l.Name)
		if len(name) > 24 {
			name = append(name[:23], '.')
		}
		pdf.CellFormat(col1, 5, tr(string(name)), "", 0, "L", false, 0, "")
		pdf.CellFormat(col2, 5, fmt.Sprintf("x%d", l.Qty), "", 0, "C", false, 0, "")
		pdf.CellFormat(col3, 5, FormatMoney(l.Subtotal, r.Currency), "", 1, "R", false, 0, "")
		if l.Note != "" {
			pdf.SetFont("Helvetica", "I", 6)
			pdf.CellFormat(contentW, 4, tr("  > "+l.Note), "", 1, "L", false, 0, "")
			pdf.SetFont("Helvetica", "", 7)
		}
	}

	pdf.Ln(2)
	pdf.Line(4, pdf.GetY(), pageW-4, pdf.GetY())
	pdf.Ln(2)

	// ── Total ────────────────────────────────────────────────────────────────
	pdf.SetFont("Helvetica", "B", 9)
	pdf.CellFormat(col1+col2, 6, "TOTAL :", "", 0, "L", false, 0, "")
	pdf.CellFormat(col3, 6, FormatMoney(r.Total, r.Currency), "", 1, "R", false, 0, "")

	pdf.SetFont("Helvetica", "", 7)
	state := "En attente de paiement"
	if r.Paid {
		state = "Payé"
	}
	pdf.CellFormat(contentW, 4, tr(state), "", 1, "L", false, 0, "")

	pdf.Ln(3)
	pdf.SetFont("Helvetica", "I", 7)
	pdf.CellFormat(contentW, 4, tr("Merci de votre visite !"), "", 1, "C", false, 0, "")

	if err := pdf.Output(w); err != nil {
		return fmt.Errorf("pdf: render receipt: %w", err)
	}
	return nil
}

// WriteReceiptFile renders the receipt to dir/recu_<order>.pdf and returns
// the file path.
func WriteReceiptFile(dir string, r Receipt) (string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("pdf: create storage dir: %w", err)
	}
	path := filepath.Join(dir, fmt.Sprintf("recu_%s.pdf", r.OrderID))
	f, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("pdf: create file: %w", err)
	}
	if err := RenderReceipt(f, r); err != nil {
		f.Close()
		return "", err
	}
	if err := f.Close(); err != nil {
		return "", fmt.Errorf("pdf: close file: %w", err)
	}
	return path, nil
}
