package service

import (
	"testing"

	"irrigation_panel/internal/models"
)

func TestRecurrenceLabel(t *testing.T) {
	cases := map[string]struct {
		rec  string
		days int
		want string
	}{
		"empty":       {"", 0, "Not set"},
		"daily":       {RecurrenceDaily, 0, "Every day"},
		"alternating": {RecurrenceAlternating, 0, "Every other day"},
		"custom":      {RecurrenceCustom, 3, "Every 3 days"},
		"custom one":  {RecurrenceCustom, 1, "Every 1 day"},
		"unknown":     {"weekly", 0, "weekly"},
	}
	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			if got := RecurrenceLabel(tc.rec, tc.days); got != tc.want {
				t.Fatalf("got %q, want %q", got, tc.want)
			}
		})
	}
}

func TestRenderCards(t *testing.T) {
	programs := map[string]models.Program{
		"10": {Name: "Late", Months: []string{"Dicembre"}},
		"2": {
			Name:           "Garden",
			ActivationTime: "06:30",
			Recurrence:     RecurrenceDaily,
			LastRunDate:    "2024-05-01",
			Months:         []string{"Gennaio", "Luglio"},
			Steps:          []models.ProgramStep{{ZoneID: 0, Duration: 5}, {ZoneID: 3, Duration: 2}},
		},
		"1": {},
	}
	names := map[int]string{0: "Lawn"}

	t.Run("idle", func(t *testing.T) {
		cards := RenderCards(programs, names, models.ProgramState{}, Pending{})
		if len(cards) != 3 || cards[0].ID != "1" || cards[1].ID != "2" || cards[2].ID != "10" {
			t.Fatalf("order = %v", cards)
		}
		empty := cards[0]
		if empty.Name != "Unnamed program" || empty.LastRun != "Never run" || empty.Recurrence != "Not set" {
			t.Fatalf("fallbacks = %+v", empty)
		}
		if !empty.Automatic {
			t.Fatal("missing automatic flag should mean enabled")
		}

		garden := cards[1]
		if len(garden.Months) != 12 || !garden.Months[0].Active || !garden.Months[6].Active || garden.Months[1].Active {
			t.Fatalf("months = %+v", garden.Months)
		}
		if garden.Months[6].Short != "Jul" {
			t.Fatalf("short = %q", garden.Months[6].Short)
		}
		if garden.Zones[0].Name != "Lawn" || garden.Zones[1].Name != "Zone 4" {
			t.Fatalf("zones = %+v", garden.Zones)
		}
		for _, c := range cards {
			if !c.StartEnabled || c.StopEnabled || c.Running != nil {
				t.Fatalf("idle buttons = %+v", c)
			}
		}
	})

	t.Run("running", func(t *testing.T) {
		state := models.ProgramState{
			ProgramRunning:   true,
			CurrentProgramID: "2",
			ActiveZone:       &models.ActiveZone{ID: 0, RemainingTime: 150},
		}
		cards := RenderCards(programs, names, state, Pending{})
		running := cards[1]
		if !running.Active || running.StartEnabled || !running.StopEnabled {
			t.Fatalf("running buttons = %+v", running)
		}
		if running.Running == nil || running.Running.ZoneName != "Lawn" ||
			running.Running.Remaining != "2:30" || running.Running.Progress != 50 {
			t.Fatalf("running status = %+v", running.Running)
		}
		other := cards[0]
		if other.StartEnabled || other.StopEnabled || other.Active {
			t.Fatalf("other program buttons = %+v", other)
		}
	})

	t.Run("start pending", func(t *testing.T) {
		cards := RenderCards(programs, names, models.ProgramState{}, Pending{Action: PendingStart, ProgramID: "2"})
		if cards[1].StartEnabled {
			t.Fatalf("starting card still startable: %+v", cards[1])
		}
		if !cards[0].StartEnabled || !cards[2].StartEnabled {
			t.Fatalf("other cards lost start: %+v %+v", cards[0], cards[2])
		}
	})

	t.Run("stop pending", func(t *testing.T) {
		state := models.ProgramState{ProgramRunning: true, CurrentProgramID: "2"}
		cards := RenderCards(programs, names, state, Pending{Action: PendingStop})
		for _, c := range cards {
			if c.StopEnabled {
				t.Fatalf("stop enabled during stop: %+v", c)
			}
		}
		if !cards[1].Active {
			t.Fatal("running card lost its active flag")
		}
	})
}
