package lexical

import "testing"

func testCorpus() *Index {
	return New([]string{
		"CSCI0150 Intro Programming – Computer Science. Learn object oriented programming.",
		"APMA2070 Deep Learning – Applied Mathematics. Neural networks and machine learning.",
		"CSCI2470 Advanced AI – Computer Science. Deep learning and machine intelligence.",
	})
}

func TestSearchRanksTermOverlap(t *testing.T) {
	ix := testCorpus()

	candidates := ix.Search("machine learning", 10)
	if len(candidates) == 0 {
		t.Fatal("no candidates for overlapping query")
	}

	// Ordinal 1 contains both query terms; it must rank first.
	if candidates[0].Ordinal != 1 {
		t.Errorf("top ordinal = %d, want 1", candidates[0].Ordinal)
	}
	for _, c := range candidates {
		if c.Score <= 0 {
			t.Errorf("ordinal %d has non-positive score %v", c.Ordinal, c.Score)
		}
		if c.Ordinal == 0 {
			t.Errorf("ordinal 0 has no query terms but was returned")
		}
	}
}

func TestSearchCourseCodeMatchesAcrossVariants(t *testing.T) {
	ix := testCorpus()

	for _, query := range []string{"CSCI-0150", "CSCI0150", "CSCI 0150", "csci0150"} {
		candidates := ix.Search(query, 10)
		if len(candidates) == 0 {
			t.Fatalf("query %q returned no candidates", query)
		}
		if candidates[0].Ordinal != 0 {
			t.Errorf("query %q: top ordinal = %d, want 0", query, candidates[0].Ordinal)
		}
	}
}

func TestSearchNoOverlapReturnsEmpty(t *testing.T) {
	ix := testCorpus()

	if candidates := ix.Search("zzzquark", 10); len(candidates) != 0 {
		t.Errorf("candidates = %+v, want empty", candidates)
	}
}

func TestSearchTruncatesToPoolSize(t *testing.T) {
	ix := testCorpus()

	candidates := ix.Search("learning", 1)
	if len(candidates) != 1 {
		t.Errorf("candidates = %d, want 1", len(candidates))
	}
}

func TestSearchEmptyCorpus(t *testing.T) {
	ix := New(nil)

	if candidates := ix.Search("anything", 10); len(candidates) != 0 {
		t.Errorf("candidates = %+v, want empty", candidates)
	}
}

func TestSearchDescendingScoreAscendingOrdinalOrder(t *testing.T) {
	ix := testCorpus()

	candidates := ix.Search("learning deep machine", 10)
	for i := 1; i < len(candidates); i++ {
		prev, cur := candidates[i-1], candidates[i]
		if cur.Score > prev.Score {
			t.Errorf("scores not descending at %d: %v then %v", i, prev.Score, cur.Score)
		}
		if cur.Score == prev.Score && cur.Ordinal < prev.Ordinal {
			t.Errorf("tie not broken by ascending ordinal at %d", i)
		}
	}
}
