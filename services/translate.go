package services

import (
	"fmt"
	"strings"

	"golang.org/x/text/language"
)

// Translator implements the (text, sourceLang) -> text contract. The phrase
// table below is the stand-in used while no real translation backend is
// wired; a real one plugs in behind the same interface.
type Translator interface {
	Translate(text, sourceLang string) (string, error)
}

// civic terms the capture UI commonly dictates, mapped to the report store's
// English category vocabulary
var phraseTable = map[string]string{
	"bache":        "pothole",
	"gadda":        "pothole",
	"kachra":       "garbage",
	"basura":       "garbage",
	"pani":         "water",
	"agua":         "water",
	"sadak":        "road",
	"calle":        "road",
	"batti":        "street light",
	"luz":          "street light",
	"naala":        "drain",
	"alcantarilla": "drain",
}

// PhraseTranslator validates the source language tag and substitutes known
// civic terms, passing everything else through unchanged.
type PhraseTranslator struct{}

func NewPhraseTranslator() *PhraseTranslator {
	return &PhraseTranslator{}
}

func (t *PhraseTranslator) Translate(text, sourceLang string) (string, error) {
	if sourceLang != "" {
		if _, err := language.Parse(sourceLang); err != nil {
			return "", fmt.Errorf("invalid source language %q: %w", sourceLang, err)
		}
	}

	words := strings.Fields(text)
	for i, word := range words {
		key := strings.ToLower(strings.Trim(word, ".,!?"))
		if replacement, ok := phraseTable[key]; ok {
			words[i] = replacement
		}
	}
	return strings.Join(words, " "), nil
}
