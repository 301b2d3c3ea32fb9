package token

import (
	"strings"

	"lorekeeper/internal/logging"
	"lorekeeper/internal/repo"
	"lorekeeper/internal/scan"
)

// nameTerm is the placeholder shown when the user has not started typing a
// name yet.
const nameTerm = "[name]"

func (t *Token) matchName(input scan.Substr, mc *Context) Stream {
	return func(yield func(FuzzyMatch) bool) {
		phrases := scan.PhraseList(input)
		if len(phrases) == 0 {
			yield(NewIncomplete(MatchPart{Substr: input.After(), Marker: t.marker, Term: nameTerm}))
			return
		}

		first := phrases[0]
		full := phrases[len(phrases)-1]

		var records []repo.Record
		if first.IsQuoted() {
			// A quoted first word could be the complete name ("Medium")
			// or the literal start of a longer one ("Medium" Dave), so
			// query both readings.
			prefixMatches, err := mc.Names.GetByNameStart(mc.Ctx, first.OuterStr())
			if err != nil {
				logging.Get(logging.CategoryToken).Debugf("name prefix lookup failed: %v", err)
			}
			records = prefixMatches
			if exact, err := mc.Names.GetByName(mc.Ctx, first.Str()); err == nil {
				records = append(records, exact)
			}
		} else {
			var err error
			records, err = mc.Names.GetByNameStart(mc.Ctx, first.Str())
			if err != nil {
				logging.Get(logging.CategoryToken).Debugf("name prefix lookup failed: %v", err)
			}
		}

		for i := range records {
			record := records[i]
			name := record.Thing.Name().MustValue()

			if strings.EqualFold(name, full.Str()) {
				if !yield(NewExact(MatchPart{Substr: full, Marker: t.marker, Record: &record})) {
					return
				}
				continue
			}
			if full.CanComplete() && scan.HasPrefixFold(name, full.Str()) {
				if !yield(NewIncomplete(MatchPart{Substr: full, Marker: t.marker, Record: &record})) {
					return
				}
				continue
			}
			for _, phrase := range phrases[:len(phrases)-1] {
				if strings.EqualFold(name, phrase.Str()) {
					if !yield(NewOverflow(
						MatchList{{Substr: phrase, Marker: t.marker, Record: &record}},
						phrase.After(),
					)) {
						return
					}
					break
				}
			}
		}
	}
}
