package services

import (
	"testing"
)

func TestCreateSongRequest(t *testing.T) {
	svc := NewRequestService(testDB(t))

	request, created, err := svc.Create("Dancing Queen", "ABBA", "birthday party", "dancing")
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	if !created {
		t.Fatal("first request should be created")
	}
	if request.Title != "Dancing Queen" || request.Artist != "ABBA" {
		t.Errorf("request = %+v", request)
	}
}

func TestCreateSongRequestDeduplicates(t *testing.T) {
	svc := NewRequestService(testDB(t))

	first, _, err := svc.Create("Dancing Queen", "ABBA", "", "")
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	// Same pair with different casing is a duplicate.
	second, created, err := svc.Create("dancing queen", "abba", "again", "")
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	if created {
		t.Error("duplicate (title, artist) pair should not create a new request")
	}
	if second.ID != first.ID {
		t.Errorf("duplicate returned ID %d, want existing ID %d", second.ID, first.ID)
	}

	requests, err := svc.List()
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(requests) != 1 {
		t.Errorf("got %d requests, want 1", len(requests))
	}
}

func TestCreateSongRequestRequiresTitle(t *testing.T) {
	svc := NewRequestService(testDB(t))

	if _, _, err := svc.Create("  ", "ABBA", "", ""); err == nil {
		t.Error("Create should reject empty titles")
	}
}
