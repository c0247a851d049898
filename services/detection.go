package services

import (
	"hash/fnv"
	"strings"
)

// DetectionResult is the contract an image-analysis backend must fill:
// image -> {category, confidence, description}.
type DetectionResult struct {
	Category    string  `json:"category"`
	Confidence  float64 `json:"confidence"`
	Description string  `json:"description"`
}

// ProblemDetector suggests a civic issue category for a captured image.
type ProblemDetector interface {
	DetectProblem(filename string) DetectionResult
}

type problemProfile struct {
	category    string
	keywords    []string
	description string
}

var problemProfiles = []problemProfile{
	{"Road Issues", []string{"pothole", "crack", "road", "street"}, "Road damage detected"},
	{"Street Lighting", []string{"light", "lamp", "dark"}, "Street lighting issue identified"},
	{"Waste Management", []string{"trash", "garbage", "waste"}, "Waste management problem found"},
	{"Water & Drainage", []string{"water", "drain", "flood"}, "Water or drainage issue detected"},
	{"Public Safety", []string{"danger", "safety", "hazard"}, "Public safety concern identified"},
	{"Parks & Recreation", []string{"park", "tree", "bench"}, "Parks and recreation issue found"},
}

// KeywordDetector is the stand-in implementation: it matches capture
// filenames against per-category keyword lists, falling back to a stable
// filename-hash pick so repeat calls agree. A real image-analysis service
// plugs in behind the same interface.
type KeywordDetector struct{}

func NewKeywordDetector() *KeywordDetector {
	return &KeywordDetector{}
}

func (d *KeywordDetector) DetectProblem(filename string) DetectionResult {
	name := strings.ToLower(filename)

	for _, p := range problemProfiles {
		for _, keyword := range p.keywords {
			if strings.Contains(name, keyword) {
				return DetectionResult{
					Category:    p.category,
					Confidence:  confidenceFor(name),
					Description: p.description,
				}
			}
		}
	}

	p := problemProfiles[int(hashOf(name))%len(problemProfiles)]
	return DetectionResult{
		Category:    p.category,
		Confidence:  confidenceFor(name),
		Description: p.description,
	}
}

// confidenceFor maps a filename to a stable value in [0.70, 1.00).
func confidenceFor(name string) float64 {
	return 0.7 + float64(hashOf(name)%30)/100.0
}

func hashOf(name string) uint32 {
	h := fnv.New32a()
	_, _ = h.Write([]byte(name))
	return h.Sum32()
}
