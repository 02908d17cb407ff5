package models

import (
	"time"

	"gonum.org/v1/gonum/stat"
)

// DevelopmentPhase is a contiguous, chronologically bounded slice of the
// sorted commit sequence. Phases never overlap; a trailing chunk smaller
// than the segmenter's minimum is dropped, so the set is a best-effort
// cover of the full range rather than a strict partition.
type DevelopmentPhase struct {
	Start            time.Time        `json:"start"`
	End              time.Time        `json:"end"`
	DurationDays     int              `json:"duration_days"`
	Commits          int              `json:"commits"`
	Authors          int              `json:"authors"`
	DominantActivity Category         `json:"dominant_activity"`
	Activities       map[Category]int `json:"activities"`
	// Velocity is commits per day, or the commit count when the phase
	// spans less than a day.
	Velocity float64 `json:"velocity"`
}

// PhaseStats summarizes velocity across phases.
type PhaseStats struct {
	MeanVelocity   float64 `json:"mean_velocity"`
	StdDevVelocity float64 `json:"stddev_velocity"`
}

// CalculatePhaseStats computes velocity statistics over a phase list.
func CalculatePhaseStats(phases []DevelopmentPhase) PhaseStats {
	if len(phases) == 0 {
		return PhaseStats{}
	}
	velocities := make([]float64, len(phases))
	for i, p := range phases {
		velocities[i] = p.Velocity
	}
	mean, std := stat.MeanStdDev(velocities, nil)
	if len(phases) < 2 {
		std = 0
	}
	return PhaseStats{MeanVelocity: mean, StdDevVelocity: std}
}
