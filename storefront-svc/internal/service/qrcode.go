package service

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/skip2/go-qrcode"
)

type DefaultQRGenerator struct {
	BaseURL string
}

// Generate encodes the order tracking page link as a PNG.
func (g DefaultQRGenerator) Generate(orderID string) ([]byte, error) {
	qrData := fmt.Sprintf("%s/orders/%s/track", strings.TrimRight(g.BaseURL, "/"), url.PathEscape(orderID))
	return qrcode.Encode(qrData, qrcode.Medium, 256)
}
