package level

import (
	"math/rand"
	"time"
)

// Switch delay bounds, in gameplay seconds.
const (
	minSwitchDelay = 2.0
	maxSwitchDelay = 5.0
)

// SwitchEvent says which player holds the trigger from a point in game time.
type SwitchEvent struct {
	PlayerID  int32
	Timestamp float32
}

// SwitchManager lazily generates the switch schedule for one level. The
// schedule is append-only: a query at or past the newest event extends it,
// a query before the newest event replays that event, so observers polling
// at slightly different ticks converge on the same schedule.
type SwitchManager struct {
	players   []int32
	history   []SwitchEvent
	rng       *rand.Rand
	LastDeath float32
}

func newSwitchManager() *SwitchManager {
	return &SwitchManager{rng: rand.New(rand.NewSource(time.Now().UnixNano()))}
}

// Reset clears the event history, restarting the schedule from timestamp 0.
func (s *SwitchManager) Reset() {
	s.history = s.history[:0]
}

// RecordDeath stores the death timestamp consumed by gameplay cadence and
// resets the schedule.
func (s *SwitchManager) RecordDeath(timestamp float32) {
	s.LastDeath = timestamp
	s.Reset()
}

// SetPlayers replaces the eligible player set. The owner refreshes this from
// live level membership before each query.
func (s *SwitchManager) SetPlayers(players []int32) {
	s.players = s.players[:0]
	s.players = append(s.players, players...)
}

// NextSwitch returns the switch event in effect for the given timestamp,
// generating a new one only when the timestamp has reached the newest event.
// With no eligible players it returns the zero event without recording it.
func (s *SwitchManager) NextSwitch(timestamp float32) SwitchEvent {
	if len(s.players) == 0 {
		return SwitchEvent{}
	}

	var startTS float32
	var lastPlayer int32
	if n := len(s.history); n > 0 {
		last := s.history[n-1]
		if timestamp < last.Timestamp {
			return last
		}
		startTS = last.Timestamp
		lastPlayer = last.PlayerID
	}

	ev := SwitchEvent{
		PlayerID:  s.pickPlayer(lastPlayer),
		Timestamp: startTS + minSwitchDelay + s.rng.Float32()*(maxSwitchDelay-minSwitchDelay),
	}
	s.history = append(s.history, ev)
	return ev
}

// pickPlayer chooses uniformly among eligible players, excluding the previous
// holder whenever there is anyone else to choose from.
func (s *SwitchManager) pickPlayer(lastPlayer int32) int32 {
	if len(s.players) == 1 {
		return s.players[0]
	}

	candidates := 0
	for _, id := range s.players {
		if id != lastPlayer {
			candidates++
		}
	}
	if candidates == 0 {
		// Everyone eligible is the previous holder; repetition is unavoidable.
		return lastPlayer
	}

	k := s.rng.Intn(candidates)
	for _, id := range s.players {
		if id == lastPlayer {
			continue
		}
		if k == 0 {
			return id
		}
		k--
	}
	return s.players[0]
}
