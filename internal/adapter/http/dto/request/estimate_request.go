package request

import (
	"dealflow/internal/domain/entities"
	"dealflow/internal/usecase"
)

type RoleRequest struct {
	ID          string  `json:"id" binding:"required"`
	Label       string  `json:"label"`
	HourlyRate  float64 `json:"hourly_rate"`
	HoursPerDay float64 `json:"hours_per_day"`
}

func (r RoleRequest) ToEntity() entities.Role {
	return entities.Role{
		ID:          r.ID,
		Label:       r.Label,
		HourlyRate:  r.HourlyRate,
		HoursPerDay: r.HoursPerDay,
	}
}

type HourRangeRequest struct {
	Min float64 `json:"min"`
	Max float64 `json:"max"`
}

// TaskRequest uses pointer booleans for the QA/PM flags so "absent" and
// "explicitly false" are distinguishable; absent means included, the
// documented default.
type TaskRequest struct {
	ID          string                      `json:"id" binding:"required"`
	Name        string                      `json:"name"`
	Description string                      `json:"description"`
	Estimates   map[string]HourRangeRequest `json:"estimates"`
	IncludeQA   *bool                       `json:"include_qa"`
	IncludePM   *bool                       `json:"include_pm"`
}

func (t TaskRequest) ToEntity() entities.Task {
	task := entities.NewTask(t.ID, t.Name)
	task.Description = t.Description
	for roleID, hours := range t.Estimates {
		task.Estimates[roleID] = entities.HourRange{Min: hours.Min, Max: hours.Max}
	}
	if t.IncludeQA != nil {
		task.IncludeQA = *t.IncludeQA
	}
	if t.IncludePM != nil {
		task.IncludePM = *t.IncludePM
	}
	return task
}

type SectionRequest struct {
	ID    string        `json:"id" binding:"required"`
	Title string        `json:"title"`
	Tasks []TaskRequest `json:"tasks"`
}

func (s SectionRequest) ToEntity() entities.Section {
	tasks := make([]entities.Task, 0, len(s.Tasks))
	for _, t := range s.Tasks {
		tasks = append(tasks, t.ToEntity())
	}
	return entities.Section{ID: s.ID, Title: s.Title, Tasks: tasks}
}

type CreateEstimateRequest struct {
	Name            string           `json:"name" binding:"required"`
	ClientName      string           `json:"client_name" binding:"required"`
	Sections        []SectionRequest `json:"sections"`
	Roles           []RoleRequest    `json:"roles"`
	QAPercent       float64          `json:"qa_percent"`
	PMPercent       float64          `json:"pm_percent"`
	QARate          float64          `json:"qa_rate"`
	PMRate          float64          `json:"pm_rate"`
	DiscountPercent float64          `json:"discount_percent"`
}

func (r CreateEstimateRequest) ToCommand() usecase.CreateEstimateCommand {
	return usecase.CreateEstimateCommand{
		Name:            r.Name,
		ClientName:      r.ClientName,
		Sections:        sectionsToEntities(r.Sections),
		Roles:           rolesToEntities(r.Roles),
		QAPercent:       r.QAPercent,
		PMPercent:       r.PMPercent,
		QARate:          r.QARate,
		PMRate:          r.PMRate,
		DiscountPercent: r.DiscountPercent,
	}
}

type UpdateEstimateRequest struct {
	Name            string           `json:"name" binding:"required"`
	ClientName      string           `json:"client_name" binding:"required"`
	Sections        []SectionRequest `json:"sections"`
	QAPercent       float64          `json:"qa_percent"`
	PMPercent       float64          `json:"pm_percent"`
	QARate          float64          `json:"qa_rate"`
	PMRate          float64          `json:"pm_rate"`
	DiscountPercent float64          `json:"discount_percent"`
}

func (r UpdateEstimateRequest) ToCommand() usecase.UpdateEstimateCommand {
	return usecase.UpdateEstimateCommand{
		Name:            r.Name,
		ClientName:      r.ClientName,
		Sections:        sectionsToEntities(r.Sections),
		QAPercent:       r.QAPercent,
		PMPercent:       r.PMPercent,
		QARate:          r.QARate,
		PMRate:          r.PMRate,
		DiscountPercent: r.DiscountPercent,
	}
}

func sectionsToEntities(in []SectionRequest) []entities.Section {
	out := make([]entities.Section, 0, len(in))
	for _, s := range in {
		out = append(out, s.ToEntity())
	}
	return out
}

func rolesToEntities(in []RoleRequest) []entities.Role {
	out := make([]entities.Role, 0, len(in))
	for _, r := range in {
		out = append(out, r.ToEntity())
	}
	return out
}
