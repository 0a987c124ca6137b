package toolchain

import "fmt"

// Selection is the winning tool for one category on this host. Chosen is nil
// when nothing usable was found, which is a valid outcome (the platform
// default applies), not an error.
type Selection struct {
	Category Category
	Chosen   *Candidate
	// Path and Version are carried over from the winning probe result.
	Path    string
	Version string
}

// Select picks the present candidate with the lowest rank for a category.
//
// An empty field of present candidates returns an empty Selection. Two
// present candidates sharing a rank means the static table broke its
// uniqueness invariant; that is surfaced loudly rather than resolved by
// ordering luck.
func Select(results []Result, category Category) (Selection, error) {
	sel := Selection{Category: category}

	var best *Result
	for i := range results {
		r := &results[i]
		if r.Candidate.Category != category || !r.Present {
			continue
		}
		switch {
		case best == nil:
			best = r
		case r.Candidate.Rank == best.Candidate.Rank:
			return Selection{}, fmt.Errorf(
				"candidate table invariant violated: %q and %q share rank %d in category %s",
				best.Candidate.Name, r.Candidate.Name, r.Candidate.Rank, category)
		case r.Candidate.Rank < best.Candidate.Rank:
			best = r
		}
	}

	if best != nil {
		chosen := best.Candidate
		sel.Chosen = &chosen
		sel.Path = best.Path
		sel.Version = best.Version
	}
	return sel, nil
}
