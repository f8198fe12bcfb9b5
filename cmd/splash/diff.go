package main

import (
	"fmt"
	"strings"

	"github.com/sergi/go-diff/diffmatchpatch"
)

// diffContext is the number of unchanged lines shown around each change.
const diffContext = 2

type diffLine struct {
	op   diffmatchpatch.Operation
	text string
}

// unifiedDiff renders a line diff of before and after in unified format.
// Returns "" when both are equal.
func unifiedDiff(name, before, after string) string {
	if before == after {
		return ""
	}

	dmp := diffmatchpatch.New()
	oldChars, newChars, lines := dmp.DiffLinesToChars(before, after)
	diffs := dmp.DiffCharsToLines(dmp.DiffMain(oldChars, newChars, false), lines)

	var all []diffLine
	for _, d := range diffs {
		for _, line := range splitLines(d.Text) {
			all = append(all, diffLine{op: d.Type, text: line})
		}
	}

	var out strings.Builder
	fmt.Fprintf(&out, "--- a/%s\n+++ b/%s\n", name, name)
	for _, h := range hunks(all) {
		writeHunk(&out, all, h)
	}
	return out.String()
}

// hunk is a half-open range of diff lines plus the 1-based start lines.
type hunk struct {
	from, to           int
	oldStart, newStart int
}

// hunks groups changed lines with diffContext lines of context, merging
// groups whose context overlaps.
func hunks(all []diffLine) []hunk {
	var out []hunk
	oldLine, newLine := 1, 1
	oldAt := make([]int, len(all))
	newAt := make([]int, len(all))
	for i, l := range all {
		oldAt[i], newAt[i] = oldLine, newLine
		switch l.op {
		case diffmatchpatch.DiffEqual:
			oldLine++
			newLine++
		case diffmatchpatch.DiffDelete:
			oldLine++
		case diffmatchpatch.DiffInsert:
			newLine++
		}
	}

	for i := 0; i < len(all); i++ {
		if all[i].op == diffmatchpatch.DiffEqual {
			continue
		}
		from := max(i-diffContext, 0)
		to := i
		for to < len(all) {
			if all[to].op != diffmatchpatch.DiffEqual {
				to++
				continue
			}
			// Extend through equal lines only if another change follows
			// within twice the context.
			next := to
			for next < len(all) && all[next].op == diffmatchpatch.DiffEqual && next-to < 2*diffContext+1 {
				next++
			}
			if next < len(all) && all[next].op != diffmatchpatch.DiffEqual {
				to = next
				continue
			}
			break
		}
		end := min(to+diffContext, len(all))
		if n := len(out); n > 0 && from <= out[n-1].to {
			out[n-1].to = end
		} else {
			out = append(out, hunk{from: from, to: end, oldStart: oldAt[from], newStart: newAt[from]})
		}
		i = end - 1
	}
	return out
}

func writeHunk(b *strings.Builder, all []diffLine, h hunk) {
	var oldCount, newCount int
	for _, l := range all[h.from:h.to] {
		if l.op != diffmatchpatch.DiffInsert {
			oldCount++
		}
		if l.op != diffmatchpatch.DiffDelete {
			newCount++
		}
	}
	fmt.Fprintf(b, "@@ -%d,%d +%d,%d @@\n", h.oldStart, oldCount, h.newStart, newCount)
	for _, l := range all[h.from:h.to] {
		switch l.op {
		case diffmatchpatch.DiffInsert:
			b.WriteByte('+')
		case diffmatchpatch.DiffDelete:
			b.WriteByte('-')
		default:
			b.WriteByte(' ')
		}
		b.WriteString(l.text)
		b.WriteByte('\n')
	}
}

// splitLines splits s into lines without their terminators.
func splitLines(s string) []string {
	if s == "" {
		return nil
	}
	return strings.Split(strings.TrimSuffix(s, "\n"), "\n")
}
