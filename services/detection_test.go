package services

import (
	"testing"
)

func TestDetectProblemKeywordMatch(t *testing.T) {
	d := NewKeywordDetector()

	cases := map[string]string{
		"pothole-main-st.jpg":   "Road Issues",
		"broken_lamp_night.png": "Street Lighting",
		"garbage-pile.jpeg":     "Waste Management",
		"flooded-drain.jpg":     "Water & Drainage",
		"hazard_sign.png":       "Public Safety",
		"park-bench-broken.jpg": "Parks & Recreation",
	}
	for filename, want := range cases {
		got := d.DetectProblem(filename)
		if got.Category != want {
			t.Errorf("%s: expected %q, got %q", filename, want, got.Category)
		}
		if got.Description == "" {
			t.Errorf("%s: empty description", filename)
		}
	}
}

func TestDetectProblemDeterministicFallback(t *testing.T) {
	d := NewKeywordDetector()

	first := d.DetectProblem("img_20240101_0001.jpg")
	second := d.DetectProblem("img_20240101_0001.jpg")
	if first != second {
		t.Errorf("detection must be stable for the same filename: %+v vs %+v", first, second)
	}
	if first.Category == "" {
		t.Error("fallback must still pick a category")
	}
}

func TestDetectProblemConfidenceRange(t *testing.T) {
	d := NewKeywordDetector()

	for _, name := range []string{"pothole.jpg", "whatever.png", "dark-alley.jpg", "zzz.bmp"} {
		got := d.DetectProblem(name)
		if got.Confidence < 0.7 || got.Confidence >= 1.0 {
			t.Errorf("%s: confidence %f out of [0.7, 1.0)", name, got.Confidence)
		}
	}
}
