// Package calc implements the estimate totals calculation: dev/QA/PM hour
// roll-ups, per-role cost, the bottleneck-specialist timeline, and the
// optional global discount.
//
// The calculation is a pure function. It is recomputed on every read instead
// of cached, so it must stay deterministic: identical inputs always produce
// identical outputs.
package calc

import (
	"math"

	"dealflow/internal/domain/entities"
)

// Input carries everything the calculation reads. No hidden state: callers
// pass the section tree, the rate table, and the overhead/discount settings
// explicitly.
type Input struct {
	Sections        []entities.Section
	Roles           []entities.Role
	QAPercent       float64
	PMPercent       float64
	QARate          float64
	PMRate          float64
	DiscountPercent float64
}

// RoleStat is the per-role hour and cost breakdown across all tasks.
type RoleStat struct {
	HoursMin float64 `json:"hours_min"`
	HoursMax float64 `json:"hours_max"`
	CostMin  float64 `json:"cost_min"`
	CostMax  float64 `json:"cost_max"`
}

// TaskTotals is the per-task breakdown the report renderer displays next to
// each task. QA/PM hours here are already rounded; the aggregate sums these
// rounded values so per-task and aggregate views always agree.
type TaskTotals struct {
	SectionID string  `json:"section_id"`
	TaskID    string  `json:"task_id"`
	DevMin    float64 `json:"dev_min"`
	DevMax    float64 `json:"dev_max"`
	QAMin     float64 `json:"qa_min"`
	QAMax     float64 `json:"qa_max"`
	PMMin     float64 `json:"pm_min"`
	PMMax     float64 `json:"pm_max"`
}

// Totals is the aggregate output consumed by the report renderer and the
// estimate API responses.
type Totals struct {
	DevOpt         float64             `json:"dev_opt"`
	DevPess        float64             `json:"dev_pess"`
	QAOpt          float64             `json:"qa_opt"`
	QAPess         float64             `json:"qa_pess"`
	PMOpt          float64             `json:"pm_opt"`
	PMPess         float64             `json:"pm_pess"`
	TotalOptHours  float64             `json:"total_opt_hours"`
	TotalPessHours float64             `json:"total_pess_hours"`
	TotalCostOpt   float64             `json:"total_cost_opt"`
	TotalCostPess  float64             `json:"total_cost_pess"`
	AvgCost        float64             `json:"avg_cost"`
	DiscountedCost float64             `json:"discounted_cost"`
	MaxWeeks       float64             `json:"max_weeks"`
	RoleStats      map[string]RoleStat `json:"role_stats"`
	Tasks          []TaskTotals        `json:"tasks"`
}

// Compute derives all totals from the section tree and rate table.
//
// Rounding is intentionally task-level: QA and PM hours round to the nearest
// integer per task before summing, so the per-task display matches the
// aggregate exactly, at the cost of small rounding drift versus a single
// global rounding. QA/PM *cost* is the opposite: aggregate rounded hours
// times a flat global rate. Both behaviors are load-bearing for output
// compatibility with existing reports; do not "fix" either.
func Compute(in Input) Totals {
	out := Totals{
		RoleStats: make(map[string]RoleStat, len(in.Roles)),
		Tasks:     []TaskTotals{},
	}

	for _, section := range in.Sections {
		for _, task := range section.Tasks {
			var taskDevMin, taskDevMax float64

			for _, role := range in.Roles {
				hours := task.Estimates[role.ID] // zero value means no work for this role
				taskDevMin += hours.Min
				taskDevMax += hours.Max

				stat := out.RoleStats[role.ID]
				stat.HoursMin += hours.Min
				stat.HoursMax += hours.Max
				stat.CostMin += hours.Min * role.HourlyRate
				stat.CostMax += hours.Max * role.HourlyRate
				out.RoleStats[role.ID] = stat

				out.TotalCostOpt += hours.Min * role.HourlyRate
				out.TotalCostPess += hours.Max * role.HourlyRate
			}

			out.DevOpt += taskDevMin
			out.DevPess += taskDevMax

			taskTotals := TaskTotals{
				SectionID: section.ID,
				TaskID:    task.ID,
				DevMin:    taskDevMin,
				DevMax:    taskDevMax,
			}

			if task.IncludeQA {
				taskTotals.QAMin = math.Round(taskDevMin * in.QAPercent / 100)
				taskTotals.QAMax = math.Round(taskDevMax * in.QAPercent / 100)
				out.QAOpt += taskTotals.QAMin
				out.QAPess += taskTotals.QAMax
			}
			if task.IncludePM {
				// PM overhead covers dev + QA of this task only, never PM of
				// other tasks.
				taskTotals.PMMin = math.Round((taskDevMin + taskTotals.QAMin) * in.PMPercent / 100)
				taskTotals.PMMax = math.Round((taskDevMax + taskTotals.QAMax) * in.PMPercent / 100)
				out.PMOpt += taskTotals.PMMin
				out.PMPess += taskTotals.PMMax
			}

			out.Tasks = append(out.Tasks, taskTotals)
		}
	}

	out.TotalCostOpt += out.QAOpt*in.QARate + out.PMOpt*in.PMRate
	out.TotalCostPess += out.QAPess*in.QARate + out.PMPess*in.PMRate

	out.TotalOptHours = out.DevOpt + out.QAOpt + out.PMOpt
	out.TotalPessHours = out.DevPess + out.QAPess + out.PMPess

	// Bottleneck-specialist timeline: full parallelism across roles, bounded
	// by the busiest one. A role with no daily capacity contributes nothing
	// rather than an infinite duration.
	for _, role := range in.Roles {
		if role.HoursPerDay <= 0 {
			continue
		}
		weeks := out.RoleStats[role.ID].HoursMax / (role.HoursPerDay * 5)
		if weeks > out.MaxWeeks {
			out.MaxWeeks = weeks
		}
	}

	out.AvgCost = (out.TotalCostOpt + out.TotalCostPess) / 2
	if in.DiscountPercent > 0 {
		// Zero means "no discount applied", not "free".
		out.DiscountedCost = out.AvgCost * (1 - in.DiscountPercent/100)
	}

	return out
}
