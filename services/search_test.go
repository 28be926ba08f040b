package services

import (
	"fmt"
	"testing"

	"karabox/models"
)

func testCatalog(t *testing.T) *Catalog {
	t.Helper()
	loader := NewCatalogLoader("videos", "covers")
	return loader.Build([]models.VideoDescriptor{
		{Filename: "X"},
		{Filename: "y-file", Artist: "B", Title: "Y"},
		{Filename: "dancing", Artist: "ABBA", Title: "Dancing Queen", Genre: models.GenreList{"Pop", "Disco"}},
		{Filename: "rhapsody", Artist: "Queen", Title: "Bohemian Rhapsody", Genre: models.GenreList{"Rock"}},
	})
}

func TestSearchSingleToken(t *testing.T) {
	engine := NewSearchEngine(testCatalog(t), 40, 160)

	page := engine.Search("y", true)
	// "y" matches y-file (filename), B - Y, Dancing Queen and Bohemian
	// Rhapsody (substring in title) but not X.
	for _, item := range page.Items {
		if item.Filename == "X" {
			t.Errorf("record X should not match query \"y\"")
		}
	}
	if page.Mode != ModeSearch {
		t.Errorf("Mode = %q, want %q", page.Mode, ModeSearch)
	}
}

func TestSearchAllTokensMustMatch(t *testing.T) {
	engine := NewSearchEngine(testCatalog(t), 40, 160)

	tests := []struct {
		query string
		want  []string
	}{
		{"dancing queen", []string{"dancing"}},
		{"queen dancing", []string{"dancing"}}, // order independent
		{"queen", []string{"dancing", "rhapsody"}},
		{"bohemian abba", nil}, // tokens match different records only
	}

	for _, tt := range tests {
		t.Run(tt.query, func(t *testing.T) {
			page := engine.Search(tt.query, true)
			if len(page.Items) != len(tt.want) {
				t.Fatalf("got %d results, want %d: %v", len(page.Items), len(tt.want), page.Items)
			}
			for i, want := range tt.want {
				if page.Items[i].Filename != want {
					t.Errorf("result[%d] = %q, want %q", i, page.Items[i].Filename, want)
				}
			}
		})
	}
}

func TestEmptyQueryRevertsToBrowse(t *testing.T) {
	catalog := testCatalog(t)
	engine := NewSearchEngine(catalog, 40, 160)

	page := engine.Search("", true)
	if page.Mode != ModeBrowse {
		t.Fatalf("Mode = %q, want %q", page.Mode, ModeBrowse)
	}
	if len(page.Items) != catalog.Len() {
		t.Fatalf("got %d items, want full catalog of %d", len(page.Items), catalog.Len())
	}

	// Order may be shuffled but the set must equal the full catalog.
	seen := make(map[string]bool)
	for _, item := range page.Items {
		seen[item.Filename] = true
	}
	for _, rec := range catalog.Records() {
		if !seen[rec.Filename] {
			t.Errorf("browse page is missing record %q", rec.Filename)
		}
	}
}

func TestGenreFilter(t *testing.T) {
	engine := NewSearchEngine(testCatalog(t), 40, 160)

	page := engine.SetGenre("Disco")
	if len(page.Items) != 1 || page.Items[0].Filename != "dancing" {
		t.Fatalf("Disco filter = %v, want only dancing", page.Items)
	}

	// Genre filter combines with the query.
	page = engine.Search("queen", true)
	if len(page.Items) != 1 || page.Items[0].Filename != "dancing" {
		t.Fatalf("Disco+queen = %v, want only dancing", page.Items)
	}

	// Clearing the filter with an empty query reverts to browse.
	page = engine.SetGenre("")
	if page.Mode != ModeSearch {
		t.Errorf("Mode with active query = %q, want %q", page.Mode, ModeSearch)
	}
	page = engine.Search("", true)
	if page.Mode != ModeBrowse {
		t.Errorf("Mode = %q, want %q", page.Mode, ModeBrowse)
	}
}

func TestPagination(t *testing.T) {
	loader := NewCatalogLoader("", "")
	var descriptors []models.VideoDescriptor
	for i := 0; i < 95; i++ {
		descriptors = append(descriptors, models.VideoDescriptor{
			Filename: fmt.Sprintf("video-%03d", i),
			Title:    fmt.Sprintf("Song %03d", i),
		})
	}
	engine := NewSearchEngine(loader.Build(descriptors), 40, 160)

	page := engine.Search("song", true)
	if len(page.Items) != 40 {
		t.Fatalf("first page has %d items, want 40", len(page.Items))
	}
	if !page.HasMore {
		t.Fatal("first page should report more results")
	}
	if page.Total != 95 {
		t.Fatalf("Total = %d, want 95", page.Total)
	}

	page = engine.Search("song", false)
	if len(page.Items) != 40 {
		t.Fatalf("second page has %d items, want 40", len(page.Items))
	}
	if page.Offset != 40 {
		t.Fatalf("second page offset = %d, want 40", page.Offset)
	}

	// Last page is the minimum of batch size and remaining items.
	page = engine.NextPage()
	if len(page.Items) != 15 {
		t.Fatalf("last page has %d items, want 15", len(page.Items))
	}
	if page.HasMore {
		t.Fatal("last page should not report more results")
	}

	// Further requests return an empty batch.
	page = engine.NextPage()
	if len(page.Items) != 0 {
		t.Fatalf("exhausted view returned %d items, want 0", len(page.Items))
	}
}

func TestSearchResultsKeepCatalogOrder(t *testing.T) {
	engine := NewSearchEngine(testCatalog(t), 40, 160)

	page := engine.Search("queen", true)
	if len(page.Items) != 2 {
		t.Fatalf("got %d results, want 2", len(page.Items))
	}
	if page.Items[0].Filename != "dancing" || page.Items[1].Filename != "rhapsody" {
		t.Errorf("results out of catalog order: %q, %q", page.Items[0].Filename, page.Items[1].Filename)
	}
}

func TestEmptyResultCarriesQuery(t *testing.T) {
	engine := NewSearchEngine(testCatalog(t), 40, 160)

	page := engine.Search("does not exist", true)
	if len(page.Items) != 0 {
		t.Fatalf("got %d results, want none", len(page.Items))
	}
	if page.Query != "does not exist" {
		t.Errorf("Query = %q, want the original query for the suggestion flow", page.Query)
	}
}
