// Package detector guards informal statement input. The fallback theorem
// tables and diagnostic keyword matchers are English-keyed, so a statement
// in another language would silently fall through to the trivial
// placeholder; the prove command warns instead.
package detector

import (
	lingua "github.com/pemistahl/lingua-go"
)

// guardLanguages restricts the detector to languages a claim is
// realistically submitted in; the full 75-language model set is slow to
// load and adds nothing for this guard.
var guardLanguages = []lingua.Language{
	lingua.English,
	lingua.French,
	lingua.German,
	lingua.Spanish,
	lingua.Ukrainian,
	lingua.Russian,
	lingua.Chinese,
}

type Detector struct {
	detector lingua.LanguageDetector
}

func New() *Detector {
	detector := lingua.NewLanguageDetectorBuilder().
		FromLanguages(guardLanguages...).
		Build()

	return &Detector{detector: detector}
}

func (d *Detector) Detect(text string) (lingua.Language, bool) {
	if text == "" {
		return lingua.Unknown, false
	}
	return d.detector.DetectLanguageOf(text)
}

// IsEnglish reports whether text is detected as English. Undetectable text
// (too short, or mostly mathematical notation) passes the guard: formulas
// alone should not trigger a warning.
func (d *Detector) IsEnglish(text string) bool {
	lang, ok := d.Detect(text)
	if !ok {
		return true
	}
	return lang == lingua.English
}
