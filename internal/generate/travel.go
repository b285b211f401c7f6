package generate

import (
	"strings"

	"github.com/hearthloom/soloquest/internal/campaign"
	"github.com/hearthloom/soloquest/internal/dice"
)

// Travel table ids.
const (
	TableTravelEvent    = "travel-event"
	TableWeather        = "weather"
	TableOmens          = "omens"
	fallbackTravelEvent = "An uneventful stretch of travel"
)

// Environment categorizes where the party is traveling.
type Environment int

const (
	EnvRoad Environment = iota
	EnvWilderness
	EnvUrban
	EnvUnderground
)

func (e Environment) String() string {
	switch e {
	case EnvWilderness:
		return "wilderness"
	case EnvUrban:
		return "urban"
	case EnvUnderground:
		return "underground"
	default:
		return "road"
	}
}

// TimeOfDay coarsely buckets the travel clock.
type TimeOfDay int

const (
	TimeDay TimeOfDay = iota
	TimeDusk
	TimeNight
)

// Weather coarsely buckets travel conditions.
type Weather int

const (
	WeatherClear Weather = iota
	WeatherRain
	WeatherFog
	WeatherStorm
)

// Frequency describes how often encounter checks happen in an environment
// and what range of the check die triggers one.
type Frequency struct {
	Die           int
	IntervalHours int
	TriggerMax    int
}

// FrequencyFor derives the encounter frequency for an environment,
// tightened by darkness and bad weather. The trigger range never swallows
// the whole die.
func FrequencyFor(env Environment, timeOfDay TimeOfDay, weather Weather) Frequency {
	var freq Frequency
	switch env {
	case EnvWilderness:
		freq = Frequency{Die: 10, IntervalHours: 6, TriggerMax: 2}
	case EnvUrban:
		freq = Frequency{Die: 8, IntervalHours: 4, TriggerMax: 2}
	case EnvUnderground:
		freq = Frequency{Die: 6, IntervalHours: 2, TriggerMax: 2}
	default:
		freq = Frequency{Die: 12, IntervalHours: 8, TriggerMax: 1}
	}

	if timeOfDay == TimeNight {
		freq.TriggerMax++
	}
	if weather == WeatherFog || weather == WeatherStorm {
		freq.TriggerMax++
	}
	if freq.TriggerMax >= freq.Die {
		freq.TriggerMax = freq.Die - 1
	}
	return freq
}

// combatKeywords trigger an intensity roll when they appear in the event.
var combatKeywords = []string{"ambush", "attack", "raider", "bandit", "beast", "danger"}

// followUpTables maps keywords in the primary event text to the extra
// table rolled when the keyword appears. Ordered so the stream draws
// happen in the same sequence on every replay.
var followUpTables = []struct {
	keyword string
	tableID string
}{
	{"weather", TableWeather},
	{"omen", TableOmens},
}

// TravelOutcome is the structured result of one travel leg.
type TravelOutcome struct {
	Frequency       Frequency
	CheckRoll       int
	Triggered       bool
	Event           string
	FollowUps       map[string]string
	CombatIntensity int
}

// ResolveTravel makes one encounter check for a travel leg. Only a
// triggering check rolls the primary event table; keyword matches in the
// event text cascade into follow-up tables, and combat-flavored events
// get an intensity roll scaled by the danger modifier.
func (g *Generator) ResolveTravel(camp *campaign.Campaign, env Environment, timeOfDay TimeOfDay, weather Weather, danger int) TravelOutcome {
	freq := FrequencyFor(env, timeOfDay, weather)

	stream := camp.Stream()
	check := dice.RollSpec(stream, dice.Spec{Count: 1, Sides: freq.Die})
	camp.AdvanceSequence(check.Sequence)
	camp.LogRoll(campaign.RollEntry{
		TableID:  TableTravelEvent,
		Spec:     check.Spec.String(),
		Faces:    check.Faces,
		Total:    check.Total,
		Sequence: check.Sequence,
	})

	outcome := TravelOutcome{Frequency: freq, CheckRoll: check.Total}
	if check.Total > freq.TriggerMax {
		return outcome
	}

	outcome.Triggered = true
	outcome.Event = g.rollText(camp, TableTravelEvent, fallbackTravelEvent, env.String())

	lowered := strings.ToLower(outcome.Event)
	for _, followUp := range followUpTables {
		if !strings.Contains(lowered, followUp.keyword) {
			continue
		}
		if outcome.FollowUps == nil {
			outcome.FollowUps = make(map[string]string)
		}
		outcome.FollowUps[followUp.keyword] = g.rollText(camp, followUp.tableID, "")
	}

	for _, keyword := range combatKeywords {
		if strings.Contains(lowered, keyword) {
			intensity := dice.RollSpec(camp.Stream(), dice.Spec{Count: 1, Sides: 6, Modifier: danger})
			camp.AdvanceSequence(intensity.Sequence)
			camp.LogRoll(campaign.RollEntry{
				TableID:  TableTravelEvent,
				Spec:     intensity.Spec.String(),
				Faces:    intensity.Faces,
				Total:    intensity.Total,
				Sequence: intensity.Sequence,
			})
			outcome.CombatIntensity = intensity.Total
			break
		}
	}

	camp.LogEvent("travel: "+outcome.Event, camp.ActiveLocationID)
	return outcome
}
