package report

import (
	"bytes"
	"fmt"
	"html/template"

	"capitol-monitor/internal/types"
)

const emailHTMLTemplate = `<!DOCTYPE html>
<html>
<head>
  <meta charset="UTF-8" />
  <style>
    body { font-family: -apple-system, BlinkMacSystemFont, "Segoe UI", Roboto, sans-serif; color: #111827; }
    table { border-collapse: collapse; width: 100%; }
    th, td { border: 1px solid #e5e7eb; padding: 6px 10px; text-align: left; font-size: 14px; }
    th { background: #f3f4f6; }
    .note { color: #6b7280; font-size: 13px; margin-top: 2px; }
  </style>
</head>
<body>
  <h2>{{.Heading}}</h2>
  {{if .Records}}
  <table>
    <tr>
      <th>Politician</th><th>Stock</th><th>Ticker</th><th>Type</th>
      <th>Shares</th><th>Price</th><th>Total Amount</th>{{if .WithDate}}<th>Trade Date</th>{{end}}
    </tr>
    {{range .Records}}
    <tr>
      <td>{{.Politician}}</td><td>{{.Stock}}</td><td>{{.Ticker}}</td><td>{{.Direction}}</td>
      <td>{{.Shares}}</td><td>{{.Price}}</td><td>{{.Total}}</td>{{if $.WithDate}}<td>{{.TradeDate}}</td>{{end}}
    </tr>
    {{if or .MarketContext .TrendNote}}
    <tr>
      <td colspan="{{$.Span}}">
        {{if .MarketContext}}<div class="note">{{.MarketContext}}</div>{{end}}
        {{if .TrendNote}}<div class="note">Trend Analysis: {{.TrendNote}}</div>{{end}}
      </td>
    </tr>
    {{end}}
    {{end}}
  </table>
  {{else}}
  <p>No transactions reported today.</p>
  {{end}}
</body>
</html>`

var emailTmpl = template.Must(template.New("email").Parse(emailHTMLTemplate))

type emailData struct {
	Heading  string
	Records  types.Snapshot
	WithDate bool
	Span     int
}

// RenderHTML produces the HTML table body for the email channel. The email
// channel always gets the whole report as one message; chunking is a
// chat-channel concern.
func RenderHTML(records types.Snapshot, heading string) (string, error) {
	data := emailData{Heading: heading, Records: records, Span: 7}
	for _, r := range records {
		if r.TradeDate != "" {
			data.WithDate = true
			data.Span = 8
			break
		}
	}

	var buf bytes.Buffer
	if err := emailTmpl.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("failed to render HTML report: %w", err)
	}
	return buf.String(), nil
}
