package analyze

import "testing"

func TestBothEntitiesMakeLikelyCorrespondence(t *testing.T) {
	a := Score("A letter from Colonel Fairfax to Mr. Winston Churchill.")

	if !a.MentionsChurchill || !a.MentionsFairfax {
		t.Fatalf("expected both entities detected: %+v", a)
	}
	if a.RelevanceScore < 20 {
		t.Errorf("expected score >= 20, got %d", a.RelevanceScore)
	}
	if !a.LikelyCorrespondence {
		t.Error("expected likely_correspondence to be true")
	}
}

func TestEntityBonusNotCumulativeAcrossPatterns(t *testing.T) {
	// Three Churchill patterns match; the bonus still applies once.
	a := Score("Winston Churchill, the Prime Minister.")
	if a.RelevanceScore != 10 {
		t.Errorf("expected single +10 entity bonus, got %d", a.RelevanceScore)
	}
	if a.LikelyCorrespondence {
		t.Error("one entity alone must not be likely correspondence")
	}
}

func TestMentionDetectionIsCaseInsensitive(t *testing.T) {
	a := Score("CHURCHILL wrote back to bryan.")
	if !a.MentionsChurchill || !a.MentionsFairfax {
		t.Errorf("expected case-insensitive matches: %+v", a)
	}
}

func TestDateInWindowAddsBonus(t *testing.T) {
	a := Score("Chartwell, 15 November 1946")
	if a.DateFound != "15 November 1946" {
		t.Errorf("expected date recorded, got %q", a.DateFound)
	}
	if a.RelevanceScore != 30 {
		t.Errorf("expected +30 date bonus, got %d", a.RelevanceScore)
	}
}

func TestDateOutsideWindowNoBonus(t *testing.T) {
	for _, text := range []string{
		"Written on 15 November 1945.",
		"Written on 15 March 1946.",
	} {
		a := Score(text)
		if a.RelevanceScore != 0 {
			t.Errorf("%q: expected no bonus, got %d", text, a.RelevanceScore)
		}
		if a.DateFound == "" {
			t.Errorf("%q: date should still be recorded", text)
		}
	}
}

func TestOnlyFirstDateCounts(t *testing.T) {
	a := Score("Drafted 2 March 1946, posted 15 November 1946.")
	if a.DateFound != "2 March 1946" {
		t.Errorf("expected first date used, got %q", a.DateFound)
	}
	if a.RelevanceScore != 0 {
		t.Errorf("first date is outside the window; expected no bonus, got %d", a.RelevanceScore)
	}
}

func TestScoreKeepsThresholdWithDateBonus(t *testing.T) {
	a := Score("Dear Winston, your colonel writes from Toronto on 3 December 1946.")
	if a.RelevanceScore != 50 {
		t.Errorf("expected 10+10+30=50, got %d", a.RelevanceScore)
	}
	if !a.LikelyCorrespondence {
		t.Error("expected likely correspondence")
	}
}

func TestHighScoreWithoutFairfaxNotCorrespondence(t *testing.T) {
	// Churchill plus an in-window date clears the score threshold, but
	// without a Fairfax mention the text is never correspondence.
	a := Score("Mr. Churchill addressed Parliament on 15 November 1946.")
	if a.MentionsFairfax {
		t.Fatalf("no Fairfax mention expected: %+v", a)
	}
	if a.RelevanceScore != 40 {
		t.Errorf("expected 10+30=40, got %d", a.RelevanceScore)
	}
	if a.LikelyCorrespondence {
		t.Error("score alone must not make likely correspondence")
	}
}

func TestScoreIsDeterministic(t *testing.T) {
	text := "Colonel Bryan Fairfax to Winston Churchill, 12 October 1946."
	first := Score(text)
	for i := 0; i < 3; i++ {
		if Score(text) != first {
			t.Fatal("Score must be a pure function of the input text")
		}
	}
}

func TestEmptyText(t *testing.T) {
	a := Score("")
	if a.RelevanceScore != 0 || a.LikelyCorrespondence || a.DateFound != "" {
		t.Errorf("expected zero analysis for empty text: %+v", a)
	}
}
