package service

import (
	"fmt"
	"sort"
	"strconv"

	"irrigation_panel/internal/models"

	"github.com/samber/lo"
)

// Recurrence keys as stored by the device.
const (
	RecurrenceDaily       = "giornaliero"
	RecurrenceAlternating = "giorni_alterni"
	RecurrenceCustom      = "personalizzata"
)

// monthKeys are the month names programs are stored with, January first.
var monthKeys = []string{
	"Gennaio", "Febbraio", "Marzo", "Aprile", "Maggio", "Giugno",
	"Luglio", "Agosto", "Settembre", "Ottobre", "Novembre", "Dicembre",
}

var monthShort = []string{
	"Jan", "Feb", "Mar", "Apr", "May", "Jun",
	"Jul", "Aug", "Sep", "Oct", "Nov", "Dec",
}

// PendingAction is a program start or stop waiting on the device.
type PendingAction int

const (
	PendingNone PendingAction = iota
	PendingStart
	PendingStop
)

// Pending names the action in flight. ProgramID is set for starts only.
type Pending struct {
	Action    PendingAction
	ProgramID string
}

// RenderCards builds the program list view. Cards are ordered by id, numeric
// ids numerically. A pending start disables that card's start button; a
// pending stop disables every stop button.
func RenderCards(programs map[string]models.Program, zoneNames map[int]string, state models.ProgramState, pending Pending) []models.ProgramCard {
	ids := lo.Keys(programs)
	sort.Slice(ids, func(i, j int) bool { return lessID(ids[i], ids[j]) })

	cards := make([]models.ProgramCard, 0, len(ids))
	for _, id := range ids {
		cards = append(cards, renderCard(id, programs[id], zoneNames, state, pending))
	}
	return cards
}

func renderCard(id string, p models.Program, zoneNames map[int]string, state models.ProgramState, pending Pending) models.ProgramCard {
	name := p.Name
	if name == "" {
		name = "Unnamed program"
	}
	lastRun := p.LastRunDate
	if lastRun == "" {
		lastRun = "Never run"
	}

	card := models.ProgramCard{
		ID:             id,
		Name:           name,
		ActivationTime: p.ActivationTime,
		Recurrence:     RecurrenceLabel(p.Recurrence, p.IntervalDays),
		LastRun:        lastRun,
		Months:         monthTags(p.Months),
		Zones: lo.Map(p.Steps, func(st models.ProgramStep, _ int) models.ZoneTag {
			return models.ZoneTag{ZoneID: st.ZoneID, Name: zoneName(st.ZoneID, zoneNames[st.ZoneID]), Duration: st.Duration}
		}),
		Automatic: p.Automatic(),
	}

	switch {
	case state.IsRunning(id):
		card.Active = true
		card.StopEnabled = true
		card.Running = runningStatus(p, zoneNames, state.ActiveZone)
	case state.ProgramRunning:
		// another program owns the valves
	default:
		card.StartEnabled = true
	}

	switch pending.Action {
	case PendingStart:
		if pending.ProgramID == id {
			card.StartEnabled = false
		}
	case PendingStop:
		card.StopEnabled = false
	}
	return card
}

func runningStatus(p models.Program, zoneNames map[int]string, az *models.ActiveZone) *models.RunningStatus {
	if az == nil {
		return nil
	}
	name := az.Name
	if name == "" {
		name = zoneName(az.ID, zoneNames[az.ID])
	}
	step, _ := p.StepFor(az.ID)
	return &models.RunningStatus{
		ZoneName:  name,
		Remaining: FormatShortCountdown(az.RemainingTime),
		Progress:  StepProgress(step.Duration, az.RemainingTime),
	}
}

// RecurrenceLabel turns a stored recurrence key into display text. Unknown
// keys are shown verbatim.
func RecurrenceLabel(recurrence string, intervalDays int) string {
	switch recurrence {
	case "":
		return "Not set"
	case RecurrenceDaily:
		return "Every day"
	case RecurrenceAlternating:
		return "Every other day"
	case RecurrenceCustom:
		if intervalDays <= 1 {
			return "Every 1 day"
		}
		return fmt.Sprintf("Every %d days", intervalDays)
	default:
		return recurrence
	}
}

func monthTags(selected []string) []models.MonthTag {
	tags := make([]models.MonthTag, len(monthKeys))
	for i, m := range monthKeys {
		tags[i] = models.MonthTag{Name: m, Short: monthShort[i], Active: lo.Contains(selected, m)}
	}
	return tags
}

func lessID(a, b string) bool {
	ai, aerr := strconv.Atoi(a)
	bi, berr := strconv.Atoi(b)
	if aerr == nil && berr == nil {
		return ai < bi
	}
	if (aerr == nil) != (berr == nil) {
		return aerr == nil
	}
	return a < b
}
