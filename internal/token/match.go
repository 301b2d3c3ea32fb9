package token

import (
	"lorekeeper/internal/repo"
	"lorekeeper/internal/scan"
)

// MatchPart is one atomic unit of a match: the captured input span, the
// matched token's marker, and at most one of a literal term, a repository
// record, or a nested child list (for marked grouping tokens).
type MatchPart struct {
	Substr   scan.Substr
	Marker   Marker
	Term     string
	Record   *repo.Record
	Children MatchList
}

// MatchList is the ordered parts describing one full token match.
type MatchList []MatchPart

// FuzzyKind classifies the three outcomes of matching a token against the
// head of the input.
type FuzzyKind int

const (
	// MatchExact consumed the input cleanly to its end.
	MatchExact FuzzyKind = iota
	// MatchOverflow matched with input left over for the next token.
	MatchOverflow
	// MatchIncomplete is an autocomplete-only result: the user has not
	// typed enough to finish the token.
	MatchIncomplete
)

// FuzzyMatch is a MatchList plus its classification. Leftover is only
// meaningful for MatchOverflow and always carries unconsumed input.
type FuzzyMatch struct {
	List     MatchList
	Kind     FuzzyKind
	Leftover scan.Substr
}

// NewExact builds an exact match from parts.
func NewExact(parts ...MatchPart) FuzzyMatch {
	return FuzzyMatch{List: parts, Kind: MatchExact}
}

// NewOverflow builds an overflowing match carrying the unconsumed input.
func NewOverflow(list MatchList, leftover scan.Substr) FuzzyMatch {
	return FuzzyMatch{List: list, Kind: MatchOverflow, Leftover: leftover}
}

// NewIncomplete builds an autocomplete-only match.
func NewIncomplete(parts ...MatchPart) FuzzyMatch {
	return FuzzyMatch{List: parts, Kind: MatchIncomplete}
}

// Prepend returns the match with parts inserted at the front, preserving
// the classification. Sequencing combinators use it to accumulate earlier
// tokens' parts.
func (fm FuzzyMatch) Prepend(parts MatchList) FuzzyMatch {
	if len(parts) == 0 {
		return fm
	}
	combined := make(MatchList, 0, len(parts)+len(fm.List))
	combined = append(combined, parts...)
	combined = append(combined, fm.List...)
	fm.List = combined
	return fm
}

// wrap nests the match's parts under a single marked part, so a marked
// grouping token is retrievable as a unit. Empty lists stay empty.
func (fm FuzzyMatch) wrap(marker Marker, input scan.Substr) FuzzyMatch {
	if len(fm.List) == 0 {
		return fm
	}
	fm.List = MatchList{{
		Substr:   spanOf(fm.List, input),
		Marker:   marker,
		Children: fm.List,
	}}
	return fm
}

// spanOf computes the substr covering every part in the list.
func spanOf(list MatchList, input scan.Substr) scan.Substr {
	if len(list) == 0 {
		return input
	}
	first, _ := list[0].Substr.Range()
	_, last := list[len(list)-1].Substr.Range()
	if last < first {
		last = first
	}
	return scan.NewSubstrSpan(list[0].Substr.OriginalStr(), first, last, first, last)
}

// AutocompleteTerm returns the literal term the first part would complete
// to, which is what alias suggestions display.
func (fm FuzzyMatch) AutocompleteTerm() (string, bool) {
	if len(fm.List) == 0 || fm.List[0].Term == "" {
		return "", false
	}
	return fm.List[0].Term, true
}

// FindMarker returns the first part (depth-first, shallowest first) whose
// token carried the marker.
func (ml MatchList) FindMarker(marker Marker) (*MatchPart, bool) {
	results := ml.FindMarkers(marker)
	if len(results) == 0 {
		return nil, false
	}
	return results[0], true
}

// FindMarkers returns every part carrying any of the markers, in
// depth-first order.
func (ml MatchList) FindMarkers(markers ...Marker) []*MatchPart {
	var found []*MatchPart
	ml.walk(func(part *MatchPart) bool {
		for _, marker := range markers {
			if part.Marker != nil && part.Marker == marker {
				found = append(found, part)
				break
			}
		}
		return true
	})
	return found
}

// ContainsMarker reports whether any part carries the marker.
func (ml MatchList) ContainsMarker(marker Marker) bool {
	_, ok := ml.FindMarker(marker)
	return ok
}

func (ml MatchList) walk(visit func(*MatchPart) bool) bool {
	for i := range ml {
		if !visit(&ml[i]) {
			return false
		}
		if len(ml[i].Children) > 0 {
			if !ml[i].Children.walk(visit) {
				return false
			}
		}
	}
	return true
}
