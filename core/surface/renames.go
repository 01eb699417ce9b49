package surface

import "sort"

const (
	// MinNameSimilarity is the minimum normalized Levenshtein similarity for a rename hint.
	MinNameSimilarity = 0.7

	// MinTypeOverlap is the minimum Jaccard overlap of parameter and return
	// types for a method rename hint.
	MinTypeOverlap = 0.8

	// ShortNameLength is the threshold below which stricter name similarity is required.
	ShortNameLength = 4

	// ShortNameMinSimilarity is the stricter threshold for names shorter than ShortNameLength.
	ShortNameMinSimilarity = 0.85
)

type scoredPair struct {
	from  int
	to    int
	score float64
	name  string // for tie-breaking
}

// suggestRenames pairs missing members with extra members of the same kind
// greedily by descending score. Each member is used at most once.
func suggestRenames(missing, extra []member) []RenameHint {
	if len(missing) == 0 || len(extra) == 0 {
		return nil
	}

	var candidates []scoredPair
	for i, m := range missing {
		for j, e := range extra {
			if m.name == e.name {
				// Same name with a changed signature, not a rename.
				continue
			}

			sim := nameSimilarity(m.name, e.name)
			threshold := MinNameSimilarity
			if max(len(m.name), len(e.name)) < ShortNameLength {
				threshold = ShortNameMinSimilarity
			}
			if sim < threshold {
				continue
			}

			score := sim
			if m.kind == MemberMethod {
				overlap := typeOverlap(m.types, e.types)
				if overlap < MinTypeOverlap {
					continue
				}
				score *= overlap
			}
			candidates = append(candidates, scoredPair{from: i, to: j, score: score, name: m.name})
		}
	}

	sort.Slice(candidates, func(i, j int) bool {
		if candidates[i].score != candidates[j].score {
			return candidates[i].score > candidates[j].score
		}
		if candidates[i].name != candidates[j].name {
			return candidates[i].name < candidates[j].name
		}
		return candidates[i].to < candidates[j].to
	})

	usedFrom := make(map[int]bool)
	usedTo := make(map[int]bool)
	var hints []RenameHint
	for _, pair := range candidates {
		if usedFrom[pair.from] || usedTo[pair.to] {
			continue
		}
		usedFrom[pair.from] = true
		usedTo[pair.to] = true
		hints = append(hints, RenameHint{
			Kind:  missing[pair.from].kind,
			From:  missing[pair.from].sig,
			To:    extra[pair.to].sig,
			Score: pair.score,
		})
	}

	sort.SliceStable(hints, func(i, j int) bool {
		return hints[i].From < hints[j].From
	})
	return hints
}

// levenshteinDistance computes the edit distance between two strings.
func levenshteinDistance(a, b string) int {
	la, lb := len(a), len(b)
	if la == 0 {
		return lb
	}
	if lb == 0 {
		return la
	}

	// Two rows instead of the full matrix.
	prev := make([]int, lb+1)
	curr := make([]int, lb+1)
	for j := 0; j <= lb; j++ {
		prev[j] = j
	}

	for i := 1; i <= la; i++ {
		curr[0] = i
		for j := 1; j <= lb; j++ {
			cost := 1
			if a[i-1] == b[j-1] {
				cost = 0
			}
			curr[j] = min(prev[j]+1, curr[j-1]+1, prev[j-1]+cost)
		}
		prev, curr = curr, prev
	}

	return prev[lb]
}

// nameSimilarity returns 1 - distance/maxLen, in [0.0, 1.0].
func nameSimilarity(a, b string) float64 {
	if len(a) == 0 && len(b) == 0 {
		return 1.0
	}
	maxLen := max(len(a), len(b))
	return 1.0 - float64(levenshteinDistance(a, b))/float64(maxLen)
}

// typeOverlap computes the Jaccard similarity of two type multisets.
// Two empty sets overlap fully.
func typeOverlap(a, b []string) float64 {
	if len(a) == 0 && len(b) == 0 {
		return 1.0
	}

	aCount := make(map[string]int)
	for _, t := range a {
		aCount[t]++
	}
	bCount := make(map[string]int)
	for _, t := range b {
		bCount[t]++
	}

	var intersection, union int
	for k, ac := range aCount {
		bc := bCount[k]
		intersection += min(ac, bc)
		union += max(ac, bc)
	}
	for k, bc := range bCount {
		if _, seen := aCount[k]; !seen {
			union += bc
		}
	}

	if union == 0 {
		return 1.0
	}
	return float64(intersection) / float64(union)
}
