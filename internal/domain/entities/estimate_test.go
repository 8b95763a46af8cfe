package entities

import (
	"testing"

	"dealflow/pkg"

	"github.com/stretchr/testify/require"
)

func validEstimate() Estimate {
	task := NewTask("t1", "API")
	task.Estimates["backend"] = HourRange{Min: 8, Max: 16}
	return Estimate{
		ID:         "e1",
		Name:       "MVP",
		ClientName: "Acme",
		Sections:   []Section{{ID: "s1", Title: "Core", Tasks: []Task{task}}},
		Roles:      []Role{{ID: "backend", Label: "Backend", HourlyRate: 45, HoursPerDay: 8}},
		QAPercent:  20,
		PMPercent:  15,
		QARate:     40,
		PMRate:     50,
	}
}

func TestNewTask_OverheadFlagsDefaultOn(t *testing.T) {
	task := NewTask("t1", "API")
	require.True(t, task.IncludeQA)
	require.True(t, task.IncludePM)
	require.NotNil(t, task.Estimates)
}

func TestEstimateValidate(t *testing.T) {
	require.NoError(t, validEstimate().Validate())

	cases := []struct {
		name   string
		mutate func(*Estimate)
	}{
		{"negative qa percent", func(e *Estimate) { e.QAPercent = -1 }},
		{"negative pm rate", func(e *Estimate) { e.PMRate = -0.5 }},
		{"discount above 100", func(e *Estimate) { e.DiscountPercent = 101 }},
		{"negative discount", func(e *Estimate) { e.DiscountPercent = -1 }},
		{"empty role id", func(e *Estimate) { e.Roles[0].ID = "" }},
		{"duplicate role id", func(e *Estimate) { e.Roles = append(e.Roles, Role{ID: "backend"}) }},
		{"negative hourly rate", func(e *Estimate) { e.Roles[0].HourlyRate = -45 }},
		{"empty section id", func(e *Estimate) { e.Sections[0].ID = "" }},
		{"empty task id", func(e *Estimate) { e.Sections[0].Tasks[0].ID = "" }},
		{"duplicate task id", func(e *Estimate) {
			e.Sections[0].Tasks = append(e.Sections[0].Tasks, NewTask("t1", "dup"))
		}},
		{"negative min hours", func(e *Estimate) {
			e.Sections[0].Tasks[0].Estimates["backend"] = HourRange{Min: -1, Max: 4}
		}},
		{"max below min", func(e *Estimate) {
			e.Sections[0].Tasks[0].Estimates["backend"] = HourRange{Min: 8, Max: 4}
		}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			e := validEstimate()
			tc.mutate(&e)
			require.ErrorIs(t, e.Validate(), pkg.ErrValidation)
		})
	}
}

func TestEstimateValidate_DiscountBounds(t *testing.T) {
	e := validEstimate()
	e.DiscountPercent = 0
	require.NoError(t, e.Validate())
	e.DiscountPercent = 100
	require.NoError(t, e.Validate())
}

func TestParseActorRole(t *testing.T) {
	for _, valid := range []string{"sale", "presale", "techlead", "pm", "admin"} {
		role, err := ParseActorRole(valid)
		require.NoError(t, err)
		require.Equal(t, valid, string(role))
	}

	_, err := ParseActorRole("intern")
	require.Error(t, err)
}

func TestRequestIsEstimateRequest(t *testing.T) {
	require.False(t, Request{LeadID: "l1"}.IsEstimateRequest())
	require.True(t, Request{ProjectID: "p1"}.IsEstimateRequest())
}
