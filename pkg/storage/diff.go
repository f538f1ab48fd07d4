package storage

import (
	"github.com/amosWeiskopf/seotrend/internal/models"
	"github.com/amosWeiskopf/seotrend/pkg/utils"
)

// Stats are the aggregate figures of one snapshot
type Stats struct {
	Pages         int   `json:"pages" yaml:"pages"`
	Words         int   `json:"words" yaml:"words"`
	Issues        int   `json:"issues" yaml:"issues"`
	AvgResponseMs int64 `json:"avg_response_ms" yaml:"avg_response_ms"`
	MinResponseMs int64 `json:"min_response_ms" yaml:"min_response_ms"`
	MaxResponseMs int64 `json:"max_response_ms" yaml:"max_response_ms"`
}

// Delta compares the latest snapshot of a site with the one before it.
// Every difference is latest minus previous.
type Delta struct {
	Previous      Stats `json:"previous" yaml:"previous"`
	Latest        Stats `json:"latest" yaml:"latest"`
	Pages         int   `json:"pages" yaml:"pages"`
	Words         int   `json:"words" yaml:"words"`
	Issues        int   `json:"issues" yaml:"issues"`
	AvgResponseMs int64 `json:"avg_response_ms" yaml:"avg_response_ms"`
}

// Totals aggregates a snapshot. Response times are 0 for an empty snapshot.
func Totals(snap models.Snapshot) Stats {
	var st Stats
	var total int64
	for i, p := range snap.Pages {
		st.Words += utils.WordCount(p.Content)
		st.Issues += len(p.Issues)
		total += p.ResponseTimeMs
		if i == 0 || p.ResponseTimeMs < st.MinResponseMs {
			st.MinResponseMs = p.ResponseTimeMs
		}
		if p.ResponseTimeMs > st.MaxResponseMs {
			st.MaxResponseMs = p.ResponseTimeMs
		}
	}
	st.Pages = len(snap.Pages)
	if st.Pages > 0 {
		st.AvgResponseMs = total / int64(st.Pages)
	}
	return st
}

// Diff compares the two most recent snapshots of history
func Diff(history models.SiteHistory) (Delta, error) {
	n := len(history.Snapshots)
	if n < 2 {
		return Delta{}, ErrNotEnoughSnapshots
	}

	prev := Totals(history.Snapshots[n-2])
	latest := Totals(history.Snapshots[n-1])
	return Delta{
		Previous:      prev,
		Latest:        latest,
		Pages:         latest.Pages - prev.Pages,
		Words:         latest.Words - prev.Words,
		Issues:        latest.Issues - prev.Issues,
		AvgResponseMs: latest.AvgResponseMs - prev.AvgResponseMs,
	}, nil
}

// FormatSigned renders a difference with an explicit plus sign when positive
func FormatSigned(n int64) string {
	return utils.FormatSigned(n)
}
