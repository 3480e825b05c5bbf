package activity

// OptionCount is one option's vote count within a tally.
type OptionCount struct {
	Option string `json:"option"`
	Count  int    `json:"count"`
}

// Tally counts votes per option while preserving the order options
// first appeared in the vote stream. That order decides ties: with
// equal counts the option whose first vote was recorded earliest wins.
// There is no business rule behind this tie-break; it is deterministic
// and documented, nothing more.
type Tally struct {
	counts []OptionCount
	index  map[string]int
}

// BuildTally aggregates votes, which must be ordered by the time each
// voter's first vote was recorded.
func BuildTally(votes []*Vote) *Tally {
	t := &Tally{index: make(map[string]int)}
	for _, v := range votes {
		if i, ok := t.index[v.Option]; ok {
			t.counts[i].Count++
			continue
		}
		t.index[v.Option] = len(t.counts)
		t.counts = append(t.counts, OptionCount{Option: v.Option, Count: 1})
	}
	return t
}

// Counts returns the per-option counts in first-seen order.
func (t *Tally) Counts() []OptionCount {
	return t.counts
}

// CountFor returns the count for a single option, zero if absent.
func (t *Tally) CountFor(option string) int {
	if i, ok := t.index[option]; ok {
		return t.counts[i].Count
	}
	return 0
}

// Winner returns the plurality option, or ok=false for an empty tally.
// Ties go to the first-seen option.
func (t *Tally) Winner() (string, bool) {
	if len(t.counts) == 0 {
		return "", false
	}
	winner := t.counts[0]
	for _, oc := range t.counts[1:] {
		if oc.Count > winner.Count {
			winner = oc
		}
	}
	return winner.Option, true
}

func (t *Tally) TotalVotes() int {
	var total int
	for _, oc := range t.counts {
		total += oc.Count
	}
	return total
}
