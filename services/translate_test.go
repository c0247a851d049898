package services

import (
	"testing"
)

func TestTranslateSubstitutesCivicTerms(t *testing.T) {
	tr := NewPhraseTranslator()

	got, err := tr.Translate("bada bache near school", "hi")
	if err != nil {
		t.Fatalf("translate failed: %v", err)
	}
	if got != "bada pothole near school" {
		t.Errorf("unexpected translation: %q", got)
	}
}

func TestTranslateStripsPunctuationWhenMatching(t *testing.T) {
	tr := NewPhraseTranslator()

	got, err := tr.Translate("mucha basura!", "es")
	if err != nil {
		t.Fatalf("translate failed: %v", err)
	}
	if got != "mucha garbage" {
		t.Errorf("unexpected translation: %q", got)
	}
}

func TestTranslatePassesThroughUnknownText(t *testing.T) {
	tr := NewPhraseTranslator()

	got, err := tr.Translate("nothing to map here", "en")
	if err != nil {
		t.Fatalf("translate failed: %v", err)
	}
	if got != "nothing to map here" {
		t.Errorf("expected identity translation, got %q", got)
	}
}

func TestTranslateRejectsInvalidLanguageTag(t *testing.T) {
	tr := NewPhraseTranslator()

	if _, err := tr.Translate("hello", "not a lang tag!!"); err == nil {
		t.Error("expected error for invalid language tag")
	}
}

func TestTranslateEmptyLangAllowed(t *testing.T) {
	tr := NewPhraseTranslator()

	if _, err := tr.Translate("kachra everywhere", ""); err != nil {
		t.Errorf("empty source language must be accepted: %v", err)
	}
}
