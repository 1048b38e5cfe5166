package models

import (
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
)

func TestRegionValid(t *testing.T) {
	for _, region := range Regions {
		if !region.Valid() {
			t.Errorf("Region %q should be valid", region)
		}
	}
	if Region("Atlantis").Valid() {
		t.Error("unknown region should not be valid")
	}
	if Region("").Valid() {
		t.Error("empty region should not be valid")
	}
}

func TestListingYear(t *testing.T) {
	rec := ListingRecord{ListingDate: time.Date(2023, 9, 14, 0, 0, 0, 0, time.UTC)}
	if got := rec.ListingYear(); got != 2023 {
		t.Errorf("ListingYear = %d, want 2023", got)
	}

	var unlisted ListingRecord
	if got := unlisted.ListingYear(); got != 0 {
		t.Errorf("ListingYear = %d, want 0 for unknown date", got)
	}
}

func TestRefreshLog_Complete(t *testing.T) {
	entry := NewRefreshLog("listings")
	if entry.ID == uuid.Nil {
		t.Error("ID should be generated")
	}
	if entry.Kind != "listings" {
		t.Errorf("Kind = %v, want listings", entry.Kind)
	}
	if entry.StartedAt.IsZero() {
		t.Error("StartedAt should be set")
	}

	entry.Complete(RefreshStatusSuccess, 42)
	if entry.Status != RefreshStatusSuccess {
		t.Errorf("Status = %v, want SUCCESS", entry.Status)
	}
	if entry.RecordsProcessed != 42 {
		t.Errorf("RecordsProcessed = %v, want 42", entry.RecordsProcessed)
	}
	if entry.CompletedAt.IsZero() {
		t.Error("CompletedAt should be set")
	}
	if entry.ErrorMessage != nil {
		t.Error("ErrorMessage should be nil on success")
	}
}

func TestRefreshLog_Fail(t *testing.T) {
	entry := NewRefreshLog("listings")
	entry.Fail(errors.New("upstream down"), 7)

	if entry.Status != RefreshStatusError {
		t.Errorf("Status = %v, want ERROR", entry.Status)
	}
	if entry.RecordsProcessed != 7 {
		t.Errorf("RecordsProcessed = %v, want 7 (partial count kept)", entry.RecordsProcessed)
	}
	if entry.ErrorMessage == nil || *entry.ErrorMessage != "upstream down" {
		t.Errorf("ErrorMessage = %v, want 'upstream down'", entry.ErrorMessage)
	}
}
