package pipeline

import (
	"sort"
	"strings"

	"github.com/murzak74-ops/text-recognition-ocr-app1/internal"
)

const topCodesLimit = 5

// Summarize derives the export statistics from a record set: totals per
// field, unique code count and the top-5 most frequent codes.
func Summarize(records []internal.RecordRow) internal.Summary {
	summary := internal.Summary{Total: len(records), TopCodes: []internal.CodeCount{}}

	freq := map[string]int{}
	for _, rec := range records {
		if strings.TrimSpace(rec.Code) != "" {
			summary.WithCode++
			freq[rec.Code]++
		}
		if strings.TrimSpace(rec.Name) != "" {
			summary.WithName++
		}
		if strings.TrimSpace(rec.Quantity) != "" {
			summary.WithQuantity++
		}
	}
	summary.UniqueCodes = len(freq)

	top := make([]internal.CodeCount, 0, len(freq))
	for code, count := range freq {
		top = append(top, internal.CodeCount{Code: code, Count: count})
	}
	sort.Slice(top, func(i, j int) bool {
		if top[i].Count != top[j].Count {
			return top[i].Count > top[j].Count
		}
		return top[i].Code < top[j].Code
	})
	if len(top) > topCodesLimit {
		top = top[:topCodesLimit]
	}
	summary.TopCodes = top

	return summary
}
