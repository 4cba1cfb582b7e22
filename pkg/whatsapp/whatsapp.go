package whatsapp

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/skip2/go-qrcode"
)

// DefaultQRSize is the edge length of generated QR images in pixels
const DefaultQRSize = 256

// Link builds a wa.me chat link for number with a prefilled message.
// Everything but digits is stripped from number.
func Link(number, text string) string {
	var digits strings.Builder
	for _, r := range number {
		if r >= '0' && r <= '9' {
			digits.WriteRune(r)
		}
	}

	link := "https://wa.me/" + digits.String()
	if text == "" {
		return link
	}
	return link + "?text=" + strings.ReplaceAll(url.QueryEscape(text), "+", "%20")
}

// PackageMessage is the prefilled message of the package detail page
func PackageMessage(packageName string) string {
	return fmt.Sprintf("Ik ben geïnteresseerd in het Umrah-pakket %s en wil meer informatie ontvangen.", packageName)
}

// ServiceMessage is the prefilled message of the service detail page
func ServiceMessage(serviceName string) string {
	return fmt.Sprintf("Ik ben geïnteresseerd in de service %s en wil meer informatie ontvangen.", serviceName)
}

// QRCode renders link as a PNG QR code. size <= 0 uses DefaultQRSize.
func QRCode(link string, size int) ([]byte, error) {
	if size <= 0 {
		size = DefaultQRSize
	}
	png, err := qrcode.Encode(link, qrcode.Medium, size)
	if err != nil {
		return nil, fmt.Errorf("failed to encode QR code: %w", err)
	}
	return png, nil
}
