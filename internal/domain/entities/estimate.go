package entities

import (
	"fmt"
	"time"

	"dealflow/pkg"
)

// Role is one row of an estimate's rate table: a named specialist with an
// hourly rate and a daily capacity. IDs are unique within one estimate.
type Role struct {
	ID          string  `json:"id"`
	Label       string  `json:"label"`
	HourlyRate  float64 `json:"hourly_rate"`
	HoursPerDay float64 `json:"hours_per_day"`
}

// HourRange is an optimistic/pessimistic hour estimate for one role on one
// task. A missing role entry is treated as {0,0}.
type HourRange struct {
	Min float64 `json:"min"`
	Max float64 `json:"max"`
}

// Task carries per-role hour ranges plus opt-in QA/PM overhead flags.
// Both flags default to true at construction; an explicit false excludes the
// task from that overhead.
type Task struct {
	ID          string               `json:"id"`
	Name        string               `json:"name"`
	Description string               `json:"description"`
	Estimates   map[string]HourRange `json:"estimates"`
	IncludeQA   bool                 `json:"include_qa"`
	IncludePM   bool                 `json:"include_pm"`
}

func NewTask(id, name string) Task {
	return Task{
		ID:        id,
		Name:      name,
		Estimates: map[string]HourRange{},
		IncludeQA: true,
		IncludePM: true,
	}
}

// Section is an ordered group of tasks. Order is reporting order and is
// preserved as inserted.
type Section struct {
	ID    string `json:"id"`
	Title string `json:"title"`
	Tasks []Task `json:"tasks"`
}

// Estimate is the priced hours/cost breakdown for a lead or request.
//
// Storage model (DynamoDB):
//   - PK: id
//   - GSI1 (share_uuid-index): share_uuid
//
// Totals are never stored: they are recomputed from sections + roles on every
// read (the calculation is pure and cheap).
type Estimate struct {
	ID              string    `json:"id"`
	Name            string    `json:"name"`
	ClientName      string    `json:"client_name"`
	Sections        []Section `json:"sections"`
	Roles           []Role    `json:"roles"`
	QAPercent       float64   `json:"qa_percent"`
	PMPercent       float64   `json:"pm_percent"`
	QARate          float64   `json:"qa_rate"`
	PMRate          float64   `json:"pm_rate"`
	DiscountPercent float64   `json:"discount_percent"`
	OwnerID         string    `json:"owner_id"`
	ShareUUID       string    `json:"share_uuid,omitempty"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}

// Validate rejects malformed estimate content before any mutation is
// persisted. All violations wrap pkg.ErrValidation.
func (e Estimate) Validate() error {
	if e.QAPercent < 0 || e.PMPercent < 0 {
		return fmt.Errorf("%w: overhead percent must not be negative", pkg.ErrValidation)
	}
	if e.QARate < 0 || e.PMRate < 0 {
		return fmt.Errorf("%w: overhead rate must not be negative", pkg.ErrValidation)
	}
	if e.DiscountPercent < 0 || e.DiscountPercent > 100 {
		return fmt.Errorf("%w: discount percent must be within [0,100]", pkg.ErrValidation)
	}

	seenRoles := map[string]bool{}
	for _, role := range e.Roles {
		if role.ID == "" {
			return fmt.Errorf("%w: role id must not be empty", pkg.ErrValidation)
		}
		if seenRoles[role.ID] {
			return fmt.Errorf("%w: duplicate role id %q", pkg.ErrValidation, role.ID)
		}
		seenRoles[role.ID] = true
		if role.HourlyRate < 0 {
			return fmt.Errorf("%w: role %q hourly rate must not be negative", pkg.ErrValidation, role.ID)
		}
		if role.HoursPerDay < 0 {
			return fmt.Errorf("%w: role %q hours per day must not be negative", pkg.ErrValidation, role.ID)
		}
	}

	for _, section := range e.Sections {
		if section.ID == "" {
			return fmt.Errorf("%w: section id must not be empty", pkg.ErrValidation)
		}
		seenTasks := map[string]bool{}
		for _, task := range section.Tasks {
			if task.ID == "" {
				return fmt.Errorf("%w: task id must not be empty in section %q", pkg.ErrValidation, section.ID)
			}
			if seenTasks[task.ID] {
				return fmt.Errorf("%w: duplicate task id %q in section %q", pkg.ErrValidation, task.ID, section.ID)
			}
			seenTasks[task.ID] = true
			for roleID, hours := range task.Estimates {
				if hours.Min < 0 {
					return fmt.Errorf("%w: task %q role %q min hours must not be negative", pkg.ErrValidation, task.ID, roleID)
				}
				if hours.Max < hours.Min {
					return fmt.Errorf("%w: task %q role %q max hours below min", pkg.ErrValidation, task.ID, roleID)
				}
			}
		}
	}
	return nil
}
