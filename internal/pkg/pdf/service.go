// internal/pkg/pdf/service.go
package pdf

import (
	"bytes"
	"fmt"
	"html/template"
	"time"

	"github.com/SebastiaanKlippert/go-wkhtmltopdf"
	"github.com/your-org/storefront-backend/internal/config"
	"github.com/your-org/storefront-backend/internal/domain/order"
)

// Service handles PDF generation
type Service struct {
	config *config.Config
}

// NewService creates a new PDF service
func NewService(cfg *config.Config) *Service {
	return &Service{
		config: cfg,
	}
}

// GenerateReceipt generates a PDF receipt for an order
func (s *Service) GenerateReceipt(o *order.Order) (*bytes.Buffer, error) {
	data := receiptData{
		Order:     o,
		IssuedAt:  time.Now().Format("January 2, 2006"),
		StoreName: s.config.Store.Name,
		StoreAddr: s.config.Store.Address,
		StoreMail: s.config.Store.Email,
		Total:     formatCents(o.TotalPrice),
		Lines:     make([]receiptLine, 0, len(o.Items)),
	}

	for _, item := range o.Items {
		data.Lines = append(data.Lines, receiptLine{
			Name:     item.ProductName,
			Quantity: item.Quantity,
			Price:    formatCents(item.Price),
			Total:    formatCents(item.LineTotal()),
		})
	}

	htmlContent, err := s.renderHTML(data)
	if err != nil {
		return nil, fmt.Errorf("failed to render receipt HTML: %w", err)
	}

	pdfg, err := wkhtmltopdf.NewPDFGenerator()
	if err != nil {
		return nil, fmt.Errorf("failed to create PDF generator: %w", err)
	}

	pdfg.Dpi.Set(300)
	pdfg.Orientation.Set(wkhtmltopdf.OrientationPortrait)

	page := wkhtmltopdf.NewPageReader(bytes.NewReader([]byte(htmlContent)))
	page.FooterRight.Set("[page]")
	page.FooterFontSize.Set(9)

	pdfg.AddPage(page)

	if err := pdfg.Create(); err != nil {
		return nil, fmt.Errorf("failed to create PDF: %w", err)
	}

	return bytes.NewBuffer(pdfg.Bytes()), nil
}

func (s *Service) renderHTML(data receiptData) (string, error) {
	tmpl := template.Must(template.New("receipt").Parse(receiptTemplate))

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("failed to execute template: %w", err)
	}

	return buf.String(), nil
}

func formatCents(cents int64) string {
	return fmt.Sprintf("%.2f", float64(cents)/100)
}

type receiptData struct {
	Order     *order.Order
	IssuedAt  string
	StoreName string
	StoreAddr string
	StoreMail string
	Total     string
	Lines     []receiptLine
}

type receiptLine struct {
	Name     string
	Quantity int
	Price    string
	Total    string
}

const receiptTemplate = `
<!DOCTYPE html>
<html>
<head>
    <meta charset="UTF-8">
    <title>Receipt {{.Order.OrderCode}}</title>
    <style>
        body { font-family: Arial, sans-serif; margin: 0; padding: 20px; color: #333; }
        .header { border-bottom: 2px solid #eee; padding-bottom: 20px; margin-bottom: 30px; }
        .meta { margin-bottom: 20px; }
        table { width: 100%; border-collapse: collapse; }
        th, td { text-align: left; padding: 8px; border-bottom: 1px solid #eee; }
        .total { font-weight: bold; font-size: 1.1em; }
        .status { text-transform: uppercase; color: #666; }
    </style>
</head>
<body>
    <div class="header">
        <h1>{{.StoreName}}</h1>
        <p>{{.StoreAddr}}<br>{{.StoreMail}}</p>
    </div>
    <div class="meta">
        <p><strong>Order</strong> {{.Order.OrderCode}}</p>
        <p><strong>Date</strong> {{.IssuedAt}}</p>
        <p class="status">Status: {{.Order.Status}}</p>
    </div>
    <table>
        <tr><th>Item</th><th>Qty</th><th>Unit price</th><th>Line total</th></tr>
        {{range .Lines}}
        <tr><td>{{.Name}}</td><td>{{.Quantity}}</td><td>{{.Price}}</td><td>{{.Total}}</td></tr>
        {{end}}
        <tr class="total"><td colspan="3">Total</td><td>{{.Total}}</td></tr>
    </table>
</body>
</html>
`
