// Package postprocess removes common LLM artifacts from generated Lean code.
//
// It is applied to the raw text returned by any generator backend (OpenAI,
// Ollama, Gemini) before the result is used downstream.
package postprocess

import (
	"regexp"
	"strings"
)

// Clean removes LLM artifacts from text in three phases and returns the
// trimmed result:
//  1. Thinking / reasoning block removal
//  2. Markdown code fence removal
//  3. Instruction echo removal (prompt leakage)
func Clean(text string) string {
	text = removeThinkingBlocks(text)
	text = StripFences(text)
	text = removeInstructionEchoes(text)
	return strings.TrimSpace(text)
}

// --- Phase 1: thinking blocks ---

// thinkingBlockRe matches complete <thinking>…</thinking> style blocks.
// Each tag variant is listed explicitly because Go's RE2 engine does not
// support backreferences.
var thinkingBlockRe = regexp.MustCompile(
	`(?is)<thinking>.*?</thinking>|<think>.*?</think>|<reasoning>.*?</reasoning>`,
)

// truncatedThinkingRe matches an opened thinking tag whose closing tag is
// missing (the model was cut off mid-thought).
var truncatedThinkingRe = regexp.MustCompile(
	`(?is)(?:<thinking>|<think>|<reasoning>).*$`,
)

func removeThinkingBlocks(text string) string {
	text = thinkingBlockRe.ReplaceAllString(text, "")
	text = truncatedThinkingRe.ReplaceAllString(text, "")
	return strings.TrimSpace(text)
}

// --- Phase 2: code fences ---

var fenceRe = regexp.MustCompile("```(?:lean4?|lean)?\n?|```\n?")

// StripFences removes markdown code fences, keeping their contents. Models
// wrap Lean output in ```lean blocks even when told not to.
func StripFences(text string) string {
	return strings.TrimSpace(fenceRe.ReplaceAllString(text, ""))
}

// --- Phase 3: instruction echoes ---

// echoPatterns match introductory phrases that LLMs sometimes prepend even
// when instructed not to. Each pattern is anchored to the start of the
// string and requires a colon to reduce false positives.
var echoPatterns = []*regexp.Regexp{
	// "Here is / Here's [the|your] [Lean|formal] [theorem|proof|code]:"
	regexp.MustCompile(`(?i)^here(?:'s| is)(?: the| your)? (?:lean 4 |lean |formal )?(?:theorem|proof|code|statement)\s*:`),
	// "[The|Your] [Lean] [theorem|proof]:"
	regexp.MustCompile(`(?i)^(?:the |your )?(?:lean 4 |lean |formal )?(?:theorem|proof|statement)\s*:`),
	// "Certainly / Sure / Of course[,] here is the proof:"
	regexp.MustCompile(`(?i)^(?:certainly|sure|of course)[,.]? here(?:'s| is)(?: the| your)? (?:lean 4 |lean |formal )?(?:theorem|proof|code|statement)\s*:`),
}

func removeInstructionEchoes(text string) string {
	for _, re := range echoPatterns {
		if loc := re.FindStringIndex(text); loc != nil && loc[0] == 0 {
			text = strings.TrimSpace(text[loc[1]:])
		}
	}
	return text
}
