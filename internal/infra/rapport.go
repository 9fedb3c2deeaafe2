package infra

// rapport.go generates the end-of-session sales report as an A4 PDF:
// session header, per-commande table, then the drawer summary
// (entrees, sorties, montant en caisse, total BP).
// The output file is saved to storagePath/rapport_{session}.pdf.

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/arliBukasa/pos-caisse/internal/model"

	"github.com/go-pdf/fpdf"
	"github.com/shopspring/decimal"
)

// GenerateRapportPDF renders the sales report for one session.
// storagePath is the directory where the PDF is written (created if needed).
// Returns the absolute path to the generated file.
func GenerateRapportPDF(session *model.Session, commandes []model.Commande, storagePath string) (string, error) {
	if err := os.MkdirAll(storagePath, 0755); err != nil {
		return "", fmt.Errorf("rapport: create storage dir: %w", err)
	}

	fileName := fmt.Sprintf("rapport_%s.pdf", session.ID)
	filePath := filepath.Join(storagePath, fileName)

	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.SetMargins(15, 15, 15)
	pdf.AddPage()

	pageW, _ := pdf.GetPageSize()
	contentW := pageW - 30

	// Header
	pdf.SetFont("Helvetica", "B", 16)
	pdf.CellFormat(contentW, 9, "Rapport de session", "", 1, "C", false, 0, "")

	pdf.SetFont("Helvetica", "", 10)
	pdf.CellFormat(contentW, 6, session.Name, "", 1, "C", false, 0, "")
	pdf.CellFormat(contentW, 6, "Ouverte le "+session.Date.Format("02/01/2006 15:04"), "", 1, "C", false, 0, "")
	if session.DateCloture != nil {
		pdf.CellFormat(contentW, 6, "Fermee le "+session.DateCloture.Format("02/01/2006 15:04"), "", 1, "C", false, 0, "")
	}
	pdf.Ln(4)

	// Commande table
	colNum := contentW * 0.16
	colClient := contentW * 0.34
	colPaiement := contentW * 0.14
	colEtat := contentW * 0.18
	colTotal := contentW * 0.18

	pdf.SetFont("Helvetica", "B", 9)
	pdf.CellFormat(colNum, 6, "Commande", "B", 0, "L", false, 0, "")
	pdf.CellFormat(colClient, 6, "Client", "B", 0, "L", false, 0, "")
	pdf.CellFormat(colPaiement, 6, "Paiement", "B", 0, "C", false, 0, "")
	pdf.CellFormat(colEtat, 6, "Etat", "B", 0, "C", false, 0, "")
	pdf.CellFormat(colTotal, 6, "Total", "B", 1, "R", false, 0, "")

	pdf.SetFont("Helvetica", "", 9)
	totalVentes, totalBP := decimal.Zero, decimal.Zero
	for _, c := range commandes {
		client := ""
		if c.ClientName != nil {
			client = *c.ClientName
		} else if c.ClientCard != nil {
			client = *c.ClientCard
		}
		if len(client) > 28 {
			client = client[:27] + "..."
		}
		pdf.CellFormat(colNum, 5, c.Name, "", 0, "L", false, 0, "")
		pdf.CellFormat(colClient, 5, client, "", 0, "L", false, 0, "")
		pdf.CellFormat(colPaiement, 5, c.TypePaiement, "", 0, "C", false, 0, "")
		pdf.CellFormat(colEtat, 5, c.State, "", 0, "C", false, 0, "")
		pdf.CellFormat(colTotal, 5, c.Total.StringFixed(2), "", 1, "R", false, 0, "")

		if c.State != model.CommandeAnnulee {
			totalVentes = totalVentes.Add(c.Total)
			if c.TypePaiement == model.PaiementBP {
				totalBP = totalBP.Add(c.Total)
			}
		}
	}

	pdf.Ln(2)
	pdf.Line(15, pdf.GetY(), pageW-15, pdf.GetY())
	pdf.Ln(3)

	// Drawer summary
	entrees, sorties := decimal.Zero, decimal.Zero
	for _, m := range session.Mouvements {
		switch m.Type {
		case model.MouvementEntree:
			entrees = entrees.Add(m.Montant)
		case model.MouvementSortie:
			sorties = sorties.Add(m.Montant)
		}
	}

	rows := []struct {
		label string
		value decimal.Decimal
	}{
		{"Total ventes:", totalVentes},
		{"Total BP:", totalBP},
		{"Entrees de caisse:", entrees},
		{"Sorties de caisse:", sorties},
	}
	pdf.SetFont("Helvetica", "", 10)
	for _, row := range rows {
		pdf.CellFormat(contentW*0.6, 6, row.label, "", 0, "L", false, 0, "")
		pdf.CellFormat(contentW*0.4, 6, row.value.StringFixed(2), "", 1, "R", false, 0, "")
	}

	pdf.SetFont("Helvetica", "B", 11)
	pdf.CellFormat(contentW*0.6, 7, "MONTANT EN CAISSE:", "", 0, "L", false, 0, "")
	pdf.CellFormat(contentW*0.4, 7, entrees.Sub(sorties).StringFixed(2), "", 1, "R", false, 0, "")

	if err := pdf.OutputFileAndClose(filePath); err != nil {
		return "", fmt.Errorf("rapport: write file: %w", err)
	}

	return filePath, nil
}
