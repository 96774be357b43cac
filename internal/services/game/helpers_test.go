package game

import (
	"sync"
	"time"

	"github.com/mcoot/spellfight/internal/model"
	"github.com/mcoot/spellfight/internal/protocol"
)

var testStart = time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)

func testConfig() Config {
	cfg := DefaultConfig()
	cfg.MaxPlayers = 2
	cfg.TurnDuration = 30 * time.Second
	cfg.RollDiceDuration = 10 * time.Second
	cfg.PreparationDuration = 5 * time.Second
	cfg.RackSize = 7
	cfg.InboxSize = 64
	return cfg
}

// fakeParticipant records everything the room sends it
type fakeParticipant struct {
	player model.Player

	mu     sync.Mutex
	events []protocol.Event
	checks []WordCheck
}

func newFakeParticipant(id string) *fakeParticipant {
	return &fakeParticipant{player: model.Player{ID: model.PlayerID(id), DisplayName: id, Provider: model.ProviderGuest}}
}

func (f *fakeParticipant) Player() model.Player { return f.player }

func (f *fakeParticipant) Notify(ev protocol.Event) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.events = append(f.events, ev)
}

func (f *fakeParticipant) CheckWord(check WordCheck) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.checks = append(f.checks, check)
}

func (f *fakeParticipant) Events() []protocol.Event {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]protocol.Event, len(f.events))
	copy(out, f.events)
	return out
}

func (f *fakeParticipant) Checks() []WordCheck {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]WordCheck, len(f.checks))
	copy(out, f.checks)
	return out
}

// Last returns the most recent event, or a zero Event
func (f *fakeParticipant) Last() protocol.Event {
	events := f.Events()
	if len(events) == 0 {
		return protocol.Event{}
	}
	return events[len(events)-1]
}

// OfType returns the recorded events of one type
func (f *fakeParticipant) OfType(t protocol.EventType) []protocol.Event {
	var out []protocol.Event
	for _, ev := range f.Events() {
		if ev.Type == t {
			out = append(out, ev)
		}
	}
	return out
}

func (f *fakeParticipant) Reset() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.events = nil
	f.checks = nil
}

// routerCall is one recorded call on fakeRouter
type routerCall struct {
	method string
	seat   int
	damage int
	word   string
}

// fakeRouter records what a session asks of the manager
type fakeRouter struct {
	mu    sync.Mutex
	calls []routerCall
}

func (r *fakeRouter) record(c routerCall) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls = append(r.calls, c)
}

func (r *fakeRouter) Join(p Participant) { r.record(routerCall{method: "Join"}) }

func (r *fakeRouter) CreateWord(p Participant, word string) {
	r.record(routerCall{method: "CreateWord", word: word})
}

func (r *fakeRouter) NextTurn(p Participant) { r.record(routerCall{method: "NextTurn"}) }

func (r *fakeRouter) DamagePlayer(p Participant, seat, damage int) {
	r.record(routerCall{method: "DamagePlayer", seat: seat, damage: damage})
}

func (r *fakeRouter) PlayerEliminated(p Participant) {
	r.record(routerCall{method: "PlayerEliminated"})
}

func (r *fakeRouter) Leave(p Participant) { r.record(routerCall{method: "Leave"}) }

func (r *fakeRouter) Calls() []routerCall {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]routerCall, len(r.calls))
	copy(out, r.calls)
	return out
}

func (r *fakeRouter) Methods() []string {
	var out []string
	for _, c := range r.Calls() {
		out = append(out, c.method)
	}
	return out
}
