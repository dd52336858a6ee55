package service

import (
	"context"
	"testing"
)

func TestSettingsDefaultsAndUpdate(t *testing.T) {
	f := newFixture(t, date(2024, 1, 1))
	ctx := context.Background()

	shop, err := f.settings.GetSettings(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if shop.Name != "KHATRI ALANKAR" || shop.Currency != "₹" {
		t.Fatalf("defaults not applied: %+v", shop)
	}
	if got := shop.ContactLine(); got != "Raja Bagicha, Rafiganj - 824125 | +91 9934799534 | info@khatrialankar.com" {
		t.Errorf("got contact line %q", got)
	}

	phone := " +91 9000000000 "
	updated, err := f.settings.UpdateSettings(ctx, &UpdateSettingsInput{Phone: &phone})
	if err != nil {
		t.Fatal(err)
	}
	if updated.Phone != "+91 9000000000" || updated.Name != "KHATRI ALANKAR" || updated.ID != shop.ID {
		t.Errorf("unexpected settings %+v", updated)
	}

	blank := " "
	if _, err := f.settings.UpdateSettings(ctx, &UpdateSettingsInput{Name: &blank}); err == nil {
		t.Error("blank shop name should be rejected")
	}
}
