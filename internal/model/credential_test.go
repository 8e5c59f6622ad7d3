package model

import "testing"

func TestDefaultBrandingShortensLongTenantID(t *testing.T) {
	b := DefaultBranding("tenant-with-a-very-long-identifier")
	if b.Name != "Tenant tenant-w" {
		t.Fatalf("got name %q", b.Name)
	}
}

func TestDefaultBrandingKeepsShortTenantID(t *testing.T) {
	b := DefaultBranding("t1")
	if b.Name != "Tenant t1" {
		t.Fatalf("got name %q", b.Name)
	}
}

func TestDefaultBrandingSetsTenantID(t *testing.T) {
	b := DefaultBranding("acme")
	if b.TenantID != "acme" {
		t.Fatalf("got tenant id %q", b.TenantID)
	}
}
