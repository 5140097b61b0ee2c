// Package derivation computes read-only values from persisted KPI history and
// project timelines. Nothing here touches storage or mutates its inputs, so the
// same functions back API responses and live previews of unsaved updates.
package derivation

import (
	"bytes"
	"sort"
	"time"

	"projectmonitor/models"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// KPIStatus is a KPI together with the values derived from its update history.
type KPIStatus struct {
	models.KPI
	Current       float64    `json:"current"`
	Completion    float64    `json:"completion"`
	UpdateCount   int        `json:"update_count"`
	LastUpdatedAt *time.Time `json:"last_updated_at,omitempty"`
}

// SeriesPoint is one chart sample of a KPI's value over time.
type SeriesPoint struct {
	DateTime time.Time `json:"DateTime"`
	Value    float64   `json:"Value"`
}

// later reports whether a was recorded after b. Equal timestamps are ordered by
// ObjectID, which follows insertion order.
func later(a, b models.KPIUpdate) bool {
	if !a.UpdatedAt.Equal(b.UpdatedAt) {
		return a.UpdatedAt.After(b.UpdatedAt)
	}
	return bytes.Compare(a.ID[:], b.ID[:]) > 0
}

// Latest returns the most recent update by UpdatedAt, independent of slice order.
func Latest(updates []models.KPIUpdate) (models.KPIUpdate, bool) {
	if len(updates) == 0 {
		return models.KPIUpdate{}, false
	}
	latest := updates[0]
	for _, u := range updates[1:] {
		if later(u, latest) {
			latest = u
		}
	}
	return latest, true
}

// CurrentValue is the final value of the latest update referencing the KPI, or
// the baseline when there is none. Updates for other KPIs are ignored.
func CurrentValue(kpi models.KPI, updates []models.KPIUpdate) float64 {
	latest, ok := Latest(forKPI(kpi.ID, updates))
	if !ok {
		return kpi.Baseline
	}
	return latest.Final
}

// Completion is the share of the baseline-to-target distance covered by current,
// as a percentage clamped to [0, 100]. A KPI whose target equals its baseline is
// complete once current reaches the target.
func Completion(kpi models.KPI, current float64) float64 {
	span := kpi.Target - kpi.Baseline
	if span == 0 {
		if current == kpi.Target {
			return 100
		}
		return 0
	}
	return clamp(100*(current-kpi.Baseline)/span, 0, 100)
}

// Summarize derives the status of one KPI from the full update set.
func Summarize(kpi models.KPI, updates []models.KPIUpdate) KPIStatus {
	own := forKPI(kpi.ID, updates)
	status := KPIStatus{
		KPI:         kpi,
		Current:     kpi.Baseline,
		UpdateCount: len(own),
	}
	if latest, ok := Latest(own); ok {
		status.Current = latest.Final
		at := latest.UpdatedAt
		status.LastUpdatedAt = &at
	}
	status.Completion = Completion(kpi, status.Current)
	return status
}

// SummarizeAll derives the status of every KPI from a project's update set.
func SummarizeAll(kpis []models.KPI, updates []models.KPIUpdate) []KPIStatus {
	byKPI := make(map[primitive.ObjectID][]models.KPIUpdate, len(kpis))
	for _, u := range updates {
		byKPI[u.KPIID] = append(byKPI[u.KPIID], u)
	}
	out := make([]KPIStatus, 0, len(kpis))
	for _, k := range kpis {
		out = append(out, Summarize(k, byKPI[k.ID]))
	}
	return out
}

// Preview derives the status a KPI would have if pending were persisted.
func Preview(kpi models.KPI, updates []models.KPIUpdate, pending models.KPIUpdate) KPIStatus {
	pending.KPIID = kpi.ID
	if pending.ID.IsZero() {
		// a fresh id ranks after stored updates sharing the timestamp
		pending.ID = primitive.NewObjectID()
	}
	withPending := make([]models.KPIUpdate, 0, len(updates)+1)
	withPending = append(withPending, forKPI(kpi.ID, updates)...)
	withPending = append(withPending, pending)
	return Summarize(kpi, withPending)
}

// History returns a copy of updates ordered oldest first.
func History(updates []models.KPIUpdate) []models.KPIUpdate {
	out := make([]models.KPIUpdate, len(updates))
	copy(out, updates)
	sort.SliceStable(out, func(i, j int) bool {
		return later(out[j], out[i])
	})
	return out
}

// Series converts an update history into chart points in time order.
func Series(updates []models.KPIUpdate) []SeriesPoint {
	ordered := History(updates)
	points := make([]SeriesPoint, 0, len(ordered))
	for _, u := range ordered {
		points = append(points, SeriesPoint{DateTime: u.UpdatedAt, Value: u.Final})
	}
	return points
}

// MeanCompletion averages completion across KPIs. ok is false when there are none.
func MeanCompletion(statuses []KPIStatus) (mean float64, ok bool) {
	if len(statuses) == 0 {
		return 0, false
	}
	var sum float64
	for _, s := range statuses {
		sum += s.Completion
	}
	return sum / float64(len(statuses)), true
}

func forKPI(id primitive.ObjectID, updates []models.KPIUpdate) []models.KPIUpdate {
	out := make([]models.KPIUpdate, 0, len(updates))
	for _, u := range updates {
		if u.KPIID == id {
			out = append(out, u)
		}
	}
	return out
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
