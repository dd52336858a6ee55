// Package invoice renders a bill as a print-ready HTML page.
package invoice

import (
	"html/template"
	"io"
)

// PrintDelayMillis gives the browser time to lay out the page before the print dialog opens
const PrintDelayMillis = 500

// Footer note printed under every bill
const DefaultNote = "*Goods once sold cannot be exchanged or returned. Prices are subject to market rate changes.*"

// Shop is the header block
type Shop struct {
	Tagline  string
	Name     string
	Details  string
	Currency string
}

// Line is one row of the items table. Price is before discount, Final after.
type Line struct {
	SNo        int
	Name       string
	WeightG    float64
	RatePer10g float64
	Making     float64
	Price      float64
	Discount   float64
	Final      float64
}

// PaymentLine is one row of the payments table
type PaymentLine struct {
	Amount    float64
	Date      string
	Mode      string
	Reference string
}

// View is everything the template needs. Paid is total minus due.
type View struct {
	Shop            Shop
	BillID          string
	Date            string
	CustomerName    string
	CustomerPhone   string
	CustomerAddress string
	Lines           []Line
	Payments        []PaymentLine
	Total           float64
	Paid            float64
	Due             float64
	InWords         string
	Note            string
	ShowRate        bool
	ShowDiscount    bool
	AutoPrint       bool
	Copies          int
}

var funcs = template.FuncMap{
	"inr":   FormatINR,
	"fixed": Fixed,
	"copies": func(n int) []int {
		if n < 1 {
			n = 1
		}
		out := make([]int, n)
		for i := range out {
			out[i] = i + 1
		}
		return out
	},
}

var page = template.Must(template.New("invoice").Funcs(funcs).Parse(pageTemplate))

// Render writes the invoice page for v
func Render(w io.Writer, v *View) error {
	if v.Note == "" {
		v.Note = DefaultNote
	}
	return page.Execute(w, struct {
		*View
		PrintDelay int
	}{v, PrintDelayMillis})
}

const pageTemplate = `<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
<title>Bill {{.BillID}}</title>
<style>
@page { size: A4 portrait; margin: 5mm; }
body { font-family: 'Times New Roman', Times, serif; margin: 0; padding: 0; color: #000; }
.bill-container { min-height: 48vh; border: 1px solid #222; border-radius: 6px; padding: 8px 12px; margin-bottom: 6px; page-break-inside: avoid; }
.header { text-align: center; border-bottom: 2px solid #000; padding-bottom: 4px; }
.mantra { font-size: 12px; }
.shop-name { font-size: 24px; font-weight: bold; letter-spacing: 2px; }
.shop-details { font-size: 11px; }
.bill-info { display: flex; justify-content: space-between; font-size: 12px; border-bottom: 1px solid #000; }
.bill-info p { margin: 2px 0; }
h3 { font-size: 13px; margin: 6px 0 2px; }
table { width: 100%; border-collapse: collapse; font-size: 11px; }
th, td { border: 1px solid #444; padding: 2px 4px; text-align: right; }
th:nth-child(2), td:nth-child(2) { text-align: left; }
.summary { display: flex; justify-content: space-between; margin-top: 6px; }
.summary-item { flex: 1; text-align: center; border: 1px solid #444; padding: 4px; }
.summary-label { font-size: 11px; }
.summary-value { font-size: 14px; font-weight: bold; }
.text-success { color: #166534; }
.text-danger { color: #b91c1c; }
.in-words { font-size: 11px; margin-top: 4px; }
.note { font-size: 10px; text-align: center; margin-top: 6px; }
.screen-only { display: block; }
@media print {
  .screen-only { display: none; }
}
</style>
</head>
<body>
{{- $v := . }}
{{- range copies .Copies}}
<div class="bill-container">
  <div class="header">
    {{- if $v.Shop.Tagline}}<div class="mantra">{{$v.Shop.Tagline}}</div>{{end}}
    <div class="shop-name">{{$v.Shop.Name}}</div>
    {{- if $v.Shop.Details}}<div class="shop-details">{{$v.Shop.Details}}</div>{{end}}
  </div>
  <div class="bill-info">
    <div>
      <p><strong>Name:</strong> {{$v.CustomerName}}</p>
      <p><strong>Phone:</strong> {{if $v.CustomerPhone}}{{$v.CustomerPhone}}{{else}}N/A{{end}}</p>
      <p><strong>Address:</strong> {{if $v.CustomerAddress}}{{$v.CustomerAddress}}{{else}}N/A{{end}}</p>
    </div>
    <div>
      <p><strong>Bill ID:</strong> {{$v.BillID}}</p>
      <p><strong>Date:</strong> {{$v.Date}}</p>
    </div>
  </div>
  <h3>Item Details</h3>
  <table>
    <thead>
      <tr>
        <th>S.No</th><th>Item</th><th>Wt (g)</th>
        {{- if $v.ShowRate}}<th>Rate</th>{{end}}
        <th>Making</th><th>Price</th>
        {{- if $v.ShowDiscount}}<th>Disc</th>{{end}}
        <th>Final</th>
      </tr>
    </thead>
    <tbody>
      {{- range $v.Lines}}
      <tr>
        <td>{{.SNo}}</td><td>{{.Name}}</td><td>{{fixed .WeightG 3}}</td>
        {{- if $v.ShowRate}}<td>{{$v.Shop.Currency}}{{inr .RatePer10g}}</td>{{end}}
        <td>{{$v.Shop.Currency}}{{inr .Making}}</td>
        <td>{{$v.Shop.Currency}}{{fixed .Price 2}}</td>
        {{- if $v.ShowDiscount}}<td>{{$v.Shop.Currency}}{{inr .Discount}}</td>{{end}}
        <td><b>{{$v.Shop.Currency}}{{inr .Final}}</b></td>
      </tr>
      {{- end}}
    </tbody>
  </table>
  {{- if $v.Payments}}
  <h3>Payments</h3>
  <table>
    <thead><tr><th>Amount</th><th>Date</th><th>Mode</th></tr></thead>
    <tbody>
      {{- range $v.Payments}}
      <tr><td>{{$v.Shop.Currency}}{{fixed .Amount 2}}</td><td>{{.Date}}</td><td>{{.Mode}}{{if .Reference}} ({{.Reference}}){{end}}</td></tr>
      {{- end}}
    </tbody>
  </table>
  {{- end}}
  <div class="summary">
    <div class="summary-item"><div class="summary-label">Total Price</div><div class="summary-value">{{$v.Shop.Currency}}{{inr $v.Total}}</div></div>
    <div class="summary-item"><div class="summary-label">Paid</div><div class="summary-value text-success">{{$v.Shop.Currency}}{{inr $v.Paid}}</div></div>
    <div class="summary-item"><div class="summary-label">Due</div><div class="summary-value text-danger">{{$v.Shop.Currency}}{{inr $v.Due}}</div></div>
  </div>
  <div class="in-words"><strong>In Words:</strong> {{$v.InWords}}</div>
  <div class="note">{{$v.Note}}</div>
</div>
{{- end}}
{{- if .AutoPrint}}
<script>window.addEventListener('load', function () { setTimeout(function () { window.print(); }, {{.PrintDelay}}); });</script>
{{- end}}
</body>
</html>
`
