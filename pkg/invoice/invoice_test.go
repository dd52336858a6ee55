package invoice

import (
	"bytes"
	"strings"
	"testing"
)

func TestFormatINR(t *testing.T) {
	tests := []struct {
		in   float64
		want string
	}{
		{0, "0"},
		{999, "999"},
		{5100, "5,100"},
		{123456.5, "1,23,456.5"},
		{1234567.25, "12,34,567.25"},
		{-3100, "-3,100"},
		{0.1, "0.1"},
	}

	for _, tt := range tests {
		if got := FormatINR(tt.in); got != tt.want {
			t.Errorf("FormatINR(%v) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestFixed(t *testing.T) {
	tests := []struct {
		in   float64
		n    int
		want string
	}{
		{0.125, 2, "0.13"},
		{-0.125, 2, "-0.13"},
		{2000, 2, "2000.00"},
		{10, 3, "10.000"},
		{5200.004, 2, "5200.00"},
	}

	for _, tt := range tests {
		if got := Fixed(tt.in, tt.n); got != tt.want {
			t.Errorf("Fixed(%v, %d) = %q, want %q", tt.in, tt.n, got, tt.want)
		}
	}
}

func TestAmountInWords(t *testing.T) {
	got := AmountInWords(5100)
	if !strings.HasPrefix(got, "Rupees five thousand one hundred") || !strings.HasSuffix(got, " only") {
		t.Fatalf("got %q", got)
	}
	if strings.Contains(got, "paise") {
		t.Fatalf("whole amount should not mention paise: %q", got)
	}

	withPaise := AmountInWords(10.5)
	if !strings.Contains(withPaise, "and fifty paise") {
		t.Fatalf("got %q", withPaise)
	}
}

func sampleView() *View {
	return &View{
		Shop: Shop{
			Tagline:  "ॐ नमः शिवाय",
			Name:     "KHATRI ALANKAR",
			Details:  "Raja Bagicha, Rafiganj - 824125 | +91 9934799534 | info@khatrialankar.com",
			Currency: "₹",
		},
		BillID:       "KA-7F3XYZ",
		Date:         "10/01/2024",
		CustomerName: "Asha <Devi>",
		Lines: []Line{
			{SNo: 1, Name: "Ring", WeightG: 10, RatePer10g: 5000, Making: 200, Price: 5200, Discount: 100, Final: 5100},
		},
		Payments: []PaymentLine{{Amount: 2000, Date: "10/01/2024", Mode: "CASH"}},
		Total:    5100,
		Paid:     2000,
		Due:      3100,
		InWords:  AmountInWords(5100),
		Copies:   1,
	}
}

func TestRenderHidesOptionalColumns(t *testing.T) {
	var buf bytes.Buffer
	if err := Render(&buf, sampleView()); err != nil {
		t.Fatal(err)
	}
	out := buf.String()

	for _, want := range []string{"KHATRI ALANKAR", "KA-7F3XYZ", "10.000", "₹5,100", "₹3,100", "Rupees five thousand one hundred", DefaultNote} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q", want)
		}
	}
	if strings.Contains(out, "<th>Rate</th>") || strings.Contains(out, "<th>Disc</th>") {
		t.Error("rate and discount columns should be hidden by default")
	}
	if strings.Contains(out, "window.print") {
		t.Error("print script should only be added when asked")
	}
	if strings.Contains(out, "Asha <Devi>") {
		t.Error("customer name must be escaped")
	}
	if !strings.Contains(out, "N/A") {
		t.Error("missing phone should read N/A")
	}
}

func TestRenderOptionalColumnsAndCopies(t *testing.T) {
	v := sampleView()
	v.ShowRate = true
	v.ShowDiscount = true
	v.AutoPrint = true
	v.Copies = 2

	var buf bytes.Buffer
	if err := Render(&buf, v); err != nil {
		t.Fatal(err)
	}
	out := buf.String()

	if !strings.Contains(out, "<th>Rate</th>") || !strings.Contains(out, "<th>Disc</th>") {
		t.Error("rate and discount columns should be shown")
	}
	if !strings.Contains(out, "window.print") || !strings.Contains(out, "500") {
		t.Error("print script with delay expected")
	}
	if n := strings.Count(out, `class="bill-container"`); n != 2 {
		t.Errorf("got %d copies, want 2", n)
	}
}
