package services

import (
	"bytes"
	"fmt"
	"time"

	"github.com/eliaselmokadem/guide2umrahfrontend/internal/models"
	"github.com/eliaselmokadem/guide2umrahfrontend/pkg/whatsapp"
	"github.com/jung-kurt/gofpdf"
	"github.com/sirupsen/logrus"
)

const roomUnavailable = "niet beschikbaar"

// BrochureService renders printable package brochures
type BrochureService struct {
	whatsAppNumber string
	logger         *logrus.Logger
	now            func() time.Time
}

// NewBrochureService creates a new brochure service
func NewBrochureService(whatsAppNumber string, logger *logrus.Logger) *BrochureService {
	return &BrochureService{
		whatsAppNumber: whatsAppNumber,
		logger:         logger,
		now:            time.Now,
	}
}

// WhatsAppLink is the chat link printed on a package brochure
func (s *BrochureService) WhatsAppLink(pkg models.Package) string {
	return whatsapp.Link(s.whatsAppNumber, whatsapp.PackageMessage(pkg.Name))
}

// RoomLine is one row of a brochure room table
type RoomLine struct {
	Label string
	Price string
}

// RoomLines lists the five room kinds of a destination. Unavailable rooms
// are printed as such instead of with a price, and rooms of a free package
// as free.
func RoomLines(rooms models.RoomTypes, isFree bool) []RoomLine {
	lines := make([]RoomLine, 0, len(models.RoomKinds))
	for _, slot := range rooms.Slots() {
		label := slot.Kind.Label()
		if slot.Kind == models.CustomRoom && slot.Capacity > 0 {
			label = fmt.Sprintf("%s (%d personen)", label, slot.Capacity)
		}
		price := roomUnavailable
		switch {
		case !slot.Offer.Available:
		case isFree:
			price = models.PriceLabelFree
		default:
			price = models.FormatPrice(slot.Offer.Price)
		}
		lines = append(lines, RoomLine{Label: label, Price: price})
	}
	return lines
}

// PackageBrochure renders an A4 PDF with the package, its destinations and
// room prices, and a WhatsApp QR code.
func (s *BrochureService) PackageBrochure(pkg models.Package) ([]byte, error) {
	qrPNG, err := whatsapp.QRCode(s.WhatsAppLink(pkg), whatsapp.DefaultQRSize)
	if err != nil {
		return nil, err
	}

	pdf := gofpdf.New("P", "mm", "A4", "")
	tr := pdf.UnicodeTranslatorFromDescriptor("")
	pdf.SetMargins(20, 20, 20)
	pdf.SetTitle(tr(pkg.Name), false)
	pdf.SetCreator("Guide2Umrah", false)
	pdf.AddPage()

	// Header bar
	pdf.SetFillColor(20, 54, 45)
	pdf.Rect(0, 0, 210, 28, "F")
	pdf.SetTextColor(255, 255, 255)
	pdf.SetFont("Helvetica", "B", 18)
	pdf.SetXY(20, 8)
	pdf.CellFormat(120, 10, "Guide2Umrah", "", 0, "L", false, 0, "")
	pdf.SetFont("Helvetica", "", 10)
	pdf.SetTextColor(212, 175, 55)
	pdf.SetXY(20, 18)
	pdf.CellFormat(170, 6, tr("Umrah-pakket"), "", 1, "L", false, 0, "")

	pdf.SetY(36)
	pdf.SetTextColor(0, 0, 0)
	pdf.SetFont("Helvetica", "B", 16)
	pdf.MultiCell(125, 8, tr(pkg.Name), "", "L", false)
	pdf.SetFont("Helvetica", "", 11)
	pdf.SetTextColor(20, 54, 45)
	pdf.CellFormat(125, 7, tr(pkg.PriceLabel()), "", 1, "L", false, 0, "")
	pdf.SetTextColor(0, 0, 0)

	if pkg.Description != "" {
		pdf.Ln(2)
		pdf.SetFont("Helvetica", "", 10)
		pdf.MultiCell(125, 5, tr(pkg.Description), "", "L", false)
	}

	opts := gofpdf.ImageOptions{ImageType: "PNG"}
	pdf.RegisterImageOptionsReader("whatsapp-qr", opts, bytes.NewReader(qrPNG))
	pdf.ImageOptions("whatsapp-qr", 150, 34, 40, 40, false, opts, 0, "")
	pdf.SetFont("Helvetica", "", 8)
	pdf.SetXY(150, 75)
	pdf.CellFormat(40, 4, tr("Scan voor WhatsApp"), "", 0, "C", false, 0, "")

	if pdf.GetY() < 84 {
		pdf.SetY(84)
	}

	section := func(title string) {
		pdf.Ln(4)
		pdf.SetFillColor(20, 54, 45)
		pdf.SetTextColor(255, 255, 255)
		pdf.SetFont("Helvetica", "B", 11)
		pdf.CellFormat(170, 8, "  "+tr(title), "", 1, "L", true, 0, "")
		pdf.SetTextColor(0, 0, 0)
		pdf.Ln(2)
	}

	row := func(label, value string) {
		pdf.SetFont("Helvetica", "", 10)
		pdf.SetTextColor(100, 100, 100)
		pdf.CellFormat(80, 7, tr(label), "", 0, "L", false, 0, "")
		pdf.SetTextColor(20, 20, 20)
		pdf.SetFont("Helvetica", "B", 10)
		pdf.CellFormat(90, 7, tr(value), "", 1, "L", false, 0, "")
	}

	for i, dest := range pkg.Destinations {
		section(fmt.Sprintf("Bestemming %d: %s", i+1, dest.Location))
		row("Periode", fmt.Sprintf("%s - %s", dest.StartDate.Display(), dest.EndDate.Display()))
		for _, line := range RoomLines(dest.RoomTypes, pkg.IsFree) {
			row(line.Label, line.Price)
		}
	}

	pdf.Ln(6)
	pdf.SetFont("Helvetica", "I", 8)
	pdf.SetTextColor(120, 120, 120)
	pdf.MultiCell(170, 4, tr(fmt.Sprintf(
		"Aangemaakt op %s. Prijzen onder voorbehoud; neem contact op voor een definitieve offerte.",
		s.now().Format("02/01/2006"))), "", "L", false)

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		s.logger.WithError(err).WithField("package_id", pkg.ID).Error("Failed to render brochure")
		return nil, fmt.Errorf("failed to render brochure: %w", err)
	}
	return buf.Bytes(), nil
}
