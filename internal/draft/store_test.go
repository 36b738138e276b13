package draft

import (
	"testing"

	"github.com/callumw/snagshare/internal/domain"
)

func strPtr(s string) *string { return &s }

func TestStore_ReadEmpty(t *testing.T) {
	store := NewStore()

	got := store.Read("user-1")
	if got != (domain.ShareData{}) {
		t.Fatalf("expected empty draft, got %+v", got)
	}
}

func TestStore_UpdateMergesPartial(t *testing.T) {
	store := NewStore()

	store.Update("user-1", domain.ShareDataPatch{
		FullName: strPtr("Jane Doe"),
		Address:  strPtr("4 Orchard Close"),
	})

	// A later step touching only the builder fields must not discard the
	// name and address captured earlier.
	builderType := domain.BuilderOther
	got := store.Update("user-1", domain.ShareDataPatch{
		BuilderType: &builderType,
		BuilderName: strPtr("Acme Homes"),
	})

	if got.FullName != "Jane Doe" {
		t.Errorf("fullName lost in merge: %+v", got)
	}
	if got.Address != "4 Orchard Close" {
		t.Errorf("address lost in merge: %+v", got)
	}
	if got.BuilderType != domain.BuilderOther || got.BuilderName != "Acme Homes" {
		t.Errorf("builder fields not applied: %+v", got)
	}

	if stored := store.Read("user-1"); stored != got {
		t.Errorf("Read returned %+v, want %+v", stored, got)
	}
}

func TestStore_UpdateAddressDetails(t *testing.T) {
	store := NewStore()

	details := domain.AddressDetails{
		Line1:    "4 Orchard Close",
		Town:     "Guildford",
		Postcode: "GU1 1AA",
	}
	got := store.Update("user-1", domain.ShareDataPatch{AddressDetails: &details})
	if got.AddressDetails != details {
		t.Fatalf("expected address details %+v, got %+v", details, got.AddressDetails)
	}
}

func TestStore_Reset(t *testing.T) {
	store := NewStore()
	store.Update("user-1", domain.ShareDataPatch{FullName: strPtr("Jane Doe")})
	store.Update("user-2", domain.ShareDataPatch{FullName: strPtr("John Smith")})

	got := store.Reset("user-1")
	if got != (domain.ShareData{}) {
		t.Fatalf("expected default draft after reset, got %+v", got)
	}
	if store.Read("user-1") != (domain.ShareData{}) {
		t.Fatalf("draft survived reset")
	}

	// Other users' drafts are untouched.
	if store.Read("user-2").FullName != "John Smith" {
		t.Fatalf("reset leaked into another user's draft")
	}
}
