package receipts

import (
	"fmt"
	"html/template"
	"strings"

	"barpos-backend/internal/models"
)

// Fişin yazdırılabilir hali. Orijinal termal fiş düzeni: başlık, fiş no,
// tarih, kalemler, toplam, alt mesaj.
var receiptTmpl = template.Must(template.New("receipt").Parse(`<!DOCTYPE html>
<html>
<head>
<title>Fiş - {{.Code}}</title>
<style>
body { font-family: 'Courier New', monospace; max-width: 300px; margin: 0 auto; padding: 20px; background: white; color: black; }
.header { text-align: center; border-bottom: 2px solid #000; padding-bottom: 10px; margin-bottom: 15px; }
.restaurant-name { font-size: 18px; font-weight: bold; }
.info, .item { font-size: 12px; margin-bottom: 3px; }
.item { display: flex; justify-content: space-between; }
.totals { border-top: 1px solid #000; padding-top: 10px; margin-top: 15px; font-weight: bold; font-size: 14px; display: flex; justify-content: space-between; }
.footer { text-align: center; margin-top: 20px; padding-top: 15px; border-top: 1px solid #000; font-size: 11px; }
</style>
</head>
<body>
<div class="header">
<div class="restaurant-name">{{.RestaurantName}}</div>
<div class="info">{{.RestaurantAddress}}</div>
</div>
<div class="info"><strong>Receipt ID:</strong> {{.Code}}</div>
<div class="info"><strong>Date:</strong> {{.IssuedAt}}</div>
<div class="info"><strong>Payment Method:</strong> {{.PaymentMethod}}</div>
<div style="margin-top:15px">
{{range .Items}}<div class="item"><span>{{.Name}}</span><span>{{.Quantity}}x</span><span>{{.Total}}</span></div>
{{end}}</div>
<div class="totals"><span>TOTAL:</span><span>{{.Total}}</span></div>
<div class="footer">Thanks for your patronage. We hope to see you again.</div>
</body>
</html>
`))

type RenderOptions struct {
	RestaurantName    string
	RestaurantAddress string
	CurrencySymbol    string
}

type renderItem struct {
	Name     string
	Quantity int
	Total    string
}

type renderData struct {
	RestaurantName    string
	RestaurantAddress string
	Code              string
	IssuedAt          string
	PaymentMethod     string
	Items             []renderItem
	Total             string
}

// Render: Fişin HTML halini üretir. Salt okunur, istenildiği kadar tekrarlanabilir.
func Render(r *models.Receipt, opts RenderOptions) (string, error) {
	data := renderData{
		RestaurantName:    opts.RestaurantName,
		RestaurantAddress: opts.RestaurantAddress,
		Code:              r.Code,
		IssuedAt:          r.IssuedAt.Format("2006-01-02 15:04:05"),
		PaymentMethod:     strings.ToUpper(string(r.PaymentMethod)),
		Total:             fmt.Sprintf("%s%.2f", opts.CurrencySymbol, r.Total),
	}
	for _, it := range r.Order.Items {
		data.Items = append(data.Items, renderItem{
			Name:     it.Name,
			Quantity: it.Quantity,
			Total:    fmt.Sprintf("%s%.2f", opts.CurrencySymbol, it.TotalPrice),
		})
	}

	var sb strings.Builder
	if err := receiptTmpl.Execute(&sb, data); err != nil {
		return "", fmt.Errorf("fiş render edilemedi: %w", err)
	}
	return sb.String(), nil
}
