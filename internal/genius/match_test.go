package genius

import "testing"

func TestBestHit(t *testing.T) {
	hits := []Hit{
		{ID: 1, Title: "Creep (Live)", Artist: "Radiohead"},
		{ID: 2, Title: "Creep", Artist: "Radiohead"},
		{ID: 3, Title: "Creep", Artist: "Radiohead"},
	}

	got, ok := bestHit(hits, "Radiohead", "Creep")
	if !ok || got.ID != 2 {
		t.Errorf("bestHit() = %+v, %v; want first exact match", got, ok)
	}

	if _, ok := bestHit(hits, "Adele", "Hello"); ok {
		t.Error("bestHit() matched an unrelated song")
	}
	if _, ok := bestHit(nil, "Adele", "Hello"); ok {
		t.Error("bestHit(nil) reported a match")
	}
}
