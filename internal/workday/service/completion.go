package service

import (
	"strings"
	"time"

	countdomain "github.com/cocinamqb/stockdiario/internal/count/domain"
	"github.com/cocinamqb/stockdiario/internal/workday/domain"
)

func foldName(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}

// CompleteFinalCount returns the final count extended with one synthesized
// entry for every initial product the operator never re-counted, carrying
// the initial quantity and the retained marker. Existing final entries pass
// through untouched and the inputs are never mutated. Entries are matched
// by product code when both sides carry one, otherwise by name.
func CompleteFinalCount(initial, final []countdomain.Response, now time.Time) []countdomain.Response {
	completed := make([]countdomain.Response, 0, len(initial)+len(final))
	completed = append(completed, final...)

	byCode := make(map[string]struct{}, len(final))
	byName := make(map[string]struct{}, len(final))
	for _, entry := range final {
		if entry.Code != "" {
			byCode[entry.Code] = struct{}{}
		}
		byName[foldName(entry.Name)] = struct{}{}
	}

	for _, entry := range initial {
		if entry.Code != "" {
			if _, ok := byCode[entry.Code]; ok {
				continue
			}
		}
		if _, ok := byName[foldName(entry.Name)]; ok {
			continue
		}
		synthesized := entry
		synthesized.Phase = countdomain.PhaseFinal
		synthesized.Note = domain.NoteRetainedFromInitial
		synthesized.CreatedAt = now
		synthesized.UpdatedAt = now
		completed = append(completed, synthesized)
	}

	return completed
}
