package news

import (
	"context"
	"math"
	"testing"
)

func TestScoreHeadlinesEmpty(t *testing.T) {
	label, conf := ScoreHeadlines(nil)
	if label != "Neutral" || conf != 0 {
		t.Fatalf("empty input: %q %v", label, conf)
	}
}

func TestScoreHeadlinesPositive(t *testing.T) {
	label, conf := ScoreHeadlines([]string{
		"Shares surge after earnings",
		"Strong quarter lifts outlook",
		"Analysts unsure about guidance",
	})
	if label != "Positive" {
		t.Fatalf("label = %q, want Positive", label)
	}
	if math.Abs(conf-2.0/3.0) > 1e-9 {
		t.Fatalf("confidence = %v, want 2/3", conf)
	}
}

func TestScoreHeadlinesNegative(t *testing.T) {
	label, _ := ScoreHeadlines([]string{
		"Stock continues its decline",
		"Quarterly loss widens",
		"Revenue gain surprises",
	})
	if label != "Negative" {
		t.Fatalf("label = %q, want Negative", label)
	}
}

func TestScoreHeadlinesTieIsNeutral(t *testing.T) {
	label, _ := ScoreHeadlines([]string{
		"Shares rise on open",
		"Shares fall at close",
	})
	if label != "Neutral" {
		t.Fatalf("label = %q, want Neutral on tie", label)
	}
}

func TestScoreHeadlinesPunctuation(t *testing.T) {
	label, _ := ScoreHeadlines([]string{"Markets crash."})
	if label != "Negative" {
		t.Fatalf("punctuation broke lexicon match: %q", label)
	}
}

func TestMockProviderDeterministic(t *testing.T) {
	p := NewMockProvider()
	first, err := p.Sentiment(context.Background(), "MSFT")
	if err != nil {
		t.Fatalf("sentiment: %v", err)
	}
	for i := 0; i < 10; i++ {
		got, err := p.Sentiment(context.Background(), "MSFT")
		if err != nil {
			t.Fatalf("sentiment: %v", err)
		}
		if got.Label != first.Label || got.Confidence != first.Confidence {
			t.Fatalf("mock sentiment diverged on run %d", i)
		}
	}
	if first.Confidence < 0.4 || first.Confidence >= 1.0 {
		t.Fatalf("confidence = %v outside [0.4, 1)", first.Confidence)
	}
	if len(first.Headlines) != 3 {
		t.Fatalf("headlines = %d, want 3", len(first.Headlines))
	}
}
