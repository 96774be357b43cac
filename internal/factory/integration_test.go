package factory

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/suite"

	"github.com/mcoot/spellfight/internal/model"
	"github.com/mcoot/spellfight/internal/protocol"
	"github.com/mcoot/spellfight/internal/services/auth"
	"github.com/mcoot/spellfight/internal/services/game"
	"github.com/mcoot/spellfight/internal/services/letters"
)

const waitFor = 2 * time.Second

type IntegrationSuite struct {
	suite.Suite
	app    *TestApp
	ctx    context.Context
	cancel context.CancelFunc
}

func TestIntegrationSuite(t *testing.T) {
	suite.Run(t, new(IntegrationSuite))
}

func (s *IntegrationSuite) SetupTest() {
	s.app = NewTestApp()
	s.ctx, s.cancel = context.WithCancel(context.Background())
	s.Require().NoError(s.app.LoadTestDictionary())
	go s.app.Manager.Run(s.ctx)
}

func (s *IntegrationSuite) TearDownTest() {
	s.cancel()
}

func (s *IntegrationSuite) connect(name string) *game.Session {
	session, err := s.app.AuthService.Guest(s.ctx, auth.Profile{Name: name})
	s.Require().NoError(err)

	player, err := s.app.Resolver.Resolve(s.ctx, session.Token)
	s.Require().NoError(err)

	gs := s.app.Sessions.Create(player)
	go gs.Run(s.ctx)
	return gs
}

func (s *IntegrationSuite) expect(session *game.Session, t protocol.EventType) protocol.Event {
	select {
	case ev, ok := <-session.Events():
		s.Require().True(ok, "session closed while waiting for %s", t)
		s.Require().Equal(t, ev.Type)
		return ev
	case <-time.After(waitFor):
		s.FailNow("timed out waiting for " + string(t))
		return protocol.Event{}
	}
}

func (s *IntegrationSuite) waitSeated(total int) {
	s.Require().Eventually(func() bool {
		rooms, err := s.app.Manager.Rooms(s.ctx)
		if err != nil {
			return false
		}
		n := 0
		for _, r := range rooms {
			n += len(r.Players)
		}
		return n == total
	}, waitFor, 5*time.Millisecond)
}

// Test: two guests play a turn from join to damage
func (s *IntegrationSuite) TestCompleteTurnFlow() {
	cfg := game.DefaultConfig()

	alice := s.connect("Alice")
	bob := s.connect("Bob")

	alice.Submit(protocol.Join())
	s.waitSeated(1)
	bob.Submit(protocol.Join())

	// Unseeded draws come out in alphabet order
	for _, p := range []*game.Session{alice, bob} {
		ev := s.expect(p, protocol.EventStartPreparationTime)
		content := ev.Content.(protocol.StartPreparationTime)
		s.Equal("ABCDEFG", content.InitialLetters.String())
	}

	s.app.MockClock.Advance(cfg.PreparationDuration)
	s.Equal(protocol.NewNextTurn(0, 30), s.expect(alice, protocol.EventNextTurn))
	s.Equal(protocol.NewNextTurn(0, 30), s.expect(bob, protocol.EventNextTurn))

	alice.Submit(protocol.CreateWord("FACED"))
	s.expect(alice, protocol.EventWordCreated)
	s.expect(bob, protocol.EventWordCreated)
	s.expect(alice, protocol.EventCanRollDice)

	alice.Submit(protocol.RollDice())
	rolled := s.expect(alice, protocol.EventDiceRolled).Content.(protocol.DiceRolled)
	s.Equal(1, rolled.TargetSeat)
	s.Len(rolled.NewLetters, cfg.RackSize)

	damage := letters.Score("faced")
	s.Equal(protocol.NewTakeDamage(damage), s.expect(bob, protocol.EventTakeDamage))
	s.Equal(protocol.NewDamagePlayer(1, damage), s.expect(bob, protocol.EventDamagePlayer))
	s.Equal(protocol.NewNextTurn(1, 30), s.expect(bob, protocol.EventNextTurn))
}

// Test: a word missing from the dictionary passes the turn
func (s *IntegrationSuite) TestUnknownWordPassesTurn() {
	cfg := game.DefaultConfig()

	alice := s.connect("Alice")
	bob := s.connect("Bob")
	alice.Submit(protocol.Join())
	s.waitSeated(1)
	bob.Submit(protocol.Join())
	s.expect(alice, protocol.EventStartPreparationTime)
	s.expect(bob, protocol.EventStartPreparationTime)

	s.app.MockClock.Advance(cfg.PreparationDuration)
	s.expect(alice, protocol.EventNextTurn)
	s.expect(bob, protocol.EventNextTurn)

	alice.Submit(protocol.CreateWord("gabde"))
	s.expect(alice, protocol.EventWordCreated)
	s.Equal(protocol.NewNextTurn(1, 30), s.expect(alice, protocol.EventNextTurn))
}

// Test: the websocket handler resolves a guest token and stores the player
func (s *IntegrationSuite) TestSocketRemembersGuest() {
	server := httptest.NewServer(s.app.Socket)
	defer server.Close()

	session, err := s.app.AuthService.Guest(s.ctx, auth.Profile{Name: "Carol", Avatar: "https://img.example.com/carol.png"})
	s.Require().NoError(err)

	url := "ws" + strings.TrimPrefix(server.URL, "http") + "?token=" + session.Token
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	s.Require().NoError(err)
	defer conn.Close()

	join, err := json.Marshal(protocol.Join())
	s.Require().NoError(err)
	s.Require().NoError(conn.WriteMessage(websocket.TextMessage, join))
	s.waitSeated(1)

	s.app.Users.Wait()
	stored, err := s.app.Users.Get(s.ctx, session.Player.ID)
	s.Require().NoError(err)
	s.Equal("Carol", stored.DisplayName)
	s.Equal("https://img.example.com/carol.png", stored.Avatar)
}

// Test: a connection without a token is refused before the upgrade
func (s *IntegrationSuite) TestSocketRejectsMissingToken() {
	server := httptest.NewServer(s.app.Socket)
	defer server.Close()

	url := "ws" + strings.TrimPrefix(server.URL, "http")
	_, resp, err := websocket.DefaultDialer.Dial(url, nil)
	s.Require().Error(err)
	s.Require().NotNil(resp)
	s.Equal(http.StatusUnauthorized, resp.StatusCode)
}

// Test: registered players resolve with the local provider and their profile
func (s *IntegrationSuite) TestRegisteredPlayerResolves() {
	session, err := s.app.AuthService.Register(s.ctx,
		auth.Credentials{Username: "dave", Password: "secret123"},
		auth.Profile{Name: "Dave", Email: "dave@example.com", Avatar: "https://img.example.com/dave.png"},
	)
	s.Require().NoError(err)

	player, err := s.app.Resolver.Resolve(s.ctx, session.Token)
	s.Require().NoError(err)
	s.Equal(model.ProviderLocal, player.Provider)
	s.False(player.IsGuest())
	s.Equal("dave@example.com", player.Email)
	s.Equal("https://img.example.com/dave.png", player.Avatar)

	// the login path finds the same stored identity
	again, err := s.app.AuthService.Login(s.ctx, auth.Credentials{Username: "dave", Password: "secret123"})
	s.Require().NoError(err)
	s.Equal(player, again.Player)
}
