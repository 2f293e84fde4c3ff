package prover

import (
	"strings"

	"github.com/valpere/dovid/internal/sanitizer"
)

// artifactMarker separates the import block from the theorem in generated
// source files, so diagnostics referencing line numbers are easy to read.
const artifactMarker = "-- dovid generated verification artifact"

// BuildArtifact assembles the Lean source checked by the prover: import
// lines, a marker comment, and the statement combined with the proof. When
// the statement carries a placeholder sentinel (the usual ":= by sorry"
// declaration form), the proof is substituted for it; otherwise the proof
// follows the statement.
func BuildArtifact(statement, proof string, imports []string) string {
	var b strings.Builder
	for _, line := range imports {
		b.WriteString(line)
		b.WriteString("\n")
	}
	b.WriteString("\n")
	b.WriteString(artifactMarker)
	b.WriteString("\n")
	b.WriteString(combine(statement, proof))
	b.WriteString("\n")
	return b.String()
}

// combine merges statement and proof into one declaration.
func combine(statement, proof string) string {
	statement = strings.TrimSpace(statement)
	proof = strings.TrimSpace(proof)

	if proof == "" {
		return statement
	}

	// ":= by sorry" is the common declaration tail; the proof (which itself
	// starts with "by") replaces the whole tactic block.
	if idx := strings.LastIndex(statement, "by "+sanitizer.Sentinel); idx >= 0 && strings.HasPrefix(proof, "by") {
		return statement[:idx] + proof + statement[idx+len("by "+sanitizer.Sentinel):]
	}
	if idx := strings.LastIndex(statement, sanitizer.Sentinel); idx >= 0 && sanitizer.ContainsSentinel(statement) {
		return statement[:idx] + proof + statement[idx+len(sanitizer.Sentinel):]
	}
	if strings.HasSuffix(statement, ":=") {
		return statement + " " + proof
	}
	// Statement already carries its own proof body.
	if strings.Contains(statement, ":= by") {
		return statement
	}
	return statement + " :=\n" + proof
}
