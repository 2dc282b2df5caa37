package factory

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/suite"

	"github.com/mcoot/geochain/internal/api"
	"github.com/mcoot/geochain/internal/api/response"
	"github.com/mcoot/geochain/internal/model"
	"github.com/mcoot/geochain/internal/services/room"
	"github.com/mcoot/geochain/internal/session"
	"github.com/mcoot/geochain/internal/testutil"
)

type frame struct {
	Type    model.EventType `json:"type"`
	Payload json.RawMessage `json:"payload"`
}

type IntegrationSuite struct {
	suite.Suite
	app    *TestApp
	server *httptest.Server
}

func TestIntegrationSuite(t *testing.T) {
	suite.Run(t, new(IntegrationSuite))
}

func (s *IntegrationSuite) SetupTest() {
	s.setup(room.DefaultConfig())
}

func (s *IntegrationSuite) setup(cfg room.Config) {
	if s.server != nil {
		s.server.Close()
	}
	s.app = NewTestAppWithRoomConfig(cfg)
	s.app.LoadTestPlaces()
	s.app.MockRandom.QueueString("ROOM01", "ROOM02")

	s.server = httptest.NewServer(api.NewRouter(api.RouterConfig{
		Logger:   testutil.NopLogger(),
		Registry: s.app.Registry,
		Archive:  s.app.Archive,
		Places:   s.app.Places,
		Realtime: s.app.Realtime,
		Metrics:  s.app.Metrics.Handler(),
		Requests: s.app.Metrics,
	}))
}

func (s *IntegrationSuite) TearDownTest() {
	s.server.Close()
	s.server = nil
}

func (s *IntegrationSuite) dial() *websocket.Conn {
	url := "ws" + strings.TrimPrefix(s.server.URL, "http") + "/ws"
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	s.Require().NoError(err)
	s.T().Cleanup(func() { _ = conn.Close() })
	return conn
}

func (s *IntegrationSuite) send(conn *websocket.Conn, eventType model.EventType, payload any) {
	msg := map[string]any{"type": eventType}
	if payload != nil {
		msg["payload"] = payload
	}
	s.Require().NoError(conn.WriteJSON(msg))
}

func (s *IntegrationSuite) await(conn *websocket.Conn, eventType model.EventType) frame {
	s.Require().NoError(conn.SetReadDeadline(time.Now().Add(2 * time.Second)))
	for {
		var f frame
		s.Require().NoError(conn.ReadJSON(&f))
		if f.Type == eventType {
			return f
		}
	}
}

func (s *IntegrationSuite) getJSON(path string, out any) int {
	resp, err := http.Get(s.server.URL + path)
	s.Require().NoError(err)
	defer resp.Body.Close()
	if out != nil {
		s.Require().NoError(json.NewDecoder(resp.Body).Decode(out))
	}
	return resp.StatusCode
}

// createAndJoin opens a room for alice and seats bob in it
func (s *IntegrationSuite) createAndJoin() (*websocket.Conn, *websocket.Conn) {
	alice, bob := s.dial(), s.dial()

	s.send(alice, model.EventCreateRoom, "alice")
	var created session.CreateRoomAck
	s.Require().NoError(json.Unmarshal(s.await(alice, model.EventAck).Payload, &created))
	s.Require().True(created.Success)
	s.Require().Equal(model.RoomID("ROOM01"), created.RoomID)

	s.send(bob, model.EventJoinRoom, map[string]string{"roomId": "room01", "username": "bob"})
	var joined session.JoinRoomAck
	s.Require().NoError(json.Unmarshal(s.await(bob, model.EventAck).Payload, &joined))
	s.Require().True(joined.Success)
	s.await(alice, model.EventUpdateRoom)

	return alice, bob
}

// Test: a full game played over websockets is visible through the HTTP API
// while live and archived once every player has gone
func (s *IntegrationSuite) TestCompleteGameFlow() {
	alice, bob := s.createAndJoin()

	var stats response.Stats
	s.Equal(http.StatusOK, s.getJSON("/api/v1/stats", &stats))
	s.Equal(1, stats.ActiveRooms)
	s.Equal(2, stats.ActivePlayers)

	s.send(alice, model.EventStartGame, nil)
	s.await(alice, model.EventGameStarted)
	s.await(bob, model.EventGameStarted)

	for _, play := range []struct {
		conn  *websocket.Conn
		place string
	}{
		{alice, "Argentina"},
		{bob, "Albania"},
		{alice, "Algeria"},
	} {
		s.send(play.conn, model.EventSubmitPlace, play.place)
		s.await(alice, model.EventUpdateGame)
		s.await(bob, model.EventUpdateGame)
	}

	var live response.Room
	s.Equal(http.StatusOK, s.getJSON("/api/v1/rooms/ROOM01", &live))
	s.True(live.Started)
	s.Len(live.History, 3)
	s.Equal("A", live.LetterInPlay)
	s.Require().NotNil(live.CurrentPlayer)
	s.Equal("bob", *live.CurrentPlayer)

	s.app.MockClock.Advance(5 * time.Minute)
	s.Require().NoError(bob.Close())
	s.await(alice, model.EventPlayerLeft)
	s.Require().NoError(alice.Close())

	s.Eventually(func() bool { return s.app.Registry.Count() == 0 }, 2*time.Second, 10*time.Millisecond)

	s.Equal(http.StatusNotFound, s.getJSON("/api/v1/rooms/ROOM01", nil))

	var recent response.RecentGames
	s.Require().Eventually(func() bool {
		recent = response.RecentGames{}
		return s.getJSON("/api/v1/games/recent", &recent) == http.StatusOK && len(recent.Games) == 1
	}, 2*time.Second, 10*time.Millisecond)

	game := recent.Games[0]
	s.Equal("ROOM01", game.Code)
	s.Equal([]string{"Argentina", "Albania", "Algeria"}, game.Chain)
	s.Equal(3, game.Plays)
	s.Require().NotNil(game.Winner)
	s.Equal("alice", *game.Winner)
	s.True(s.app.MockClock.Now().Equal(game.EndedAt))
}

// Test: the host leaving hands the start over to the next player
func (s *IntegrationSuite) TestHostOnlyStartTransfersOnLeave() {
	s.setup(room.Config{MaxPlayers: 4, HostOnlyStart: true})
	alice, bob := s.createAndJoin()

	s.send(bob, model.EventStartGame, nil)
	var rejected session.ErrorPayload
	s.Require().NoError(json.Unmarshal(s.await(bob, model.EventError).Payload, &rejected))
	s.Equal(session.CodeNotHost, rejected.Code)

	s.Require().NoError(alice.Close())
	s.await(bob, model.EventPlayerLeft)

	s.send(bob, model.EventStartGame, nil)
	started := s.await(bob, model.EventGameStarted)

	var snap model.Snapshot
	s.Require().NoError(json.Unmarshal(started.Payload, &snap))
	s.True(snap.Started)
	s.Len(snap.Players, 1)
}

// Test: a room that is destroyed frees its code and nobody can join it
func (s *IntegrationSuite) TestAbandonedRoomCannotBeJoined() {
	alice := s.dial()
	s.send(alice, model.EventCreateRoom, "alice")
	s.await(alice, model.EventAck)
	s.send(alice, model.EventLeaveRoom, nil)
	s.await(alice, model.EventAck)

	s.Eventually(func() bool { return s.app.Registry.Count() == 0 }, 2*time.Second, 10*time.Millisecond)

	bob := s.dial()
	s.send(bob, model.EventJoinRoom, map[string]string{"roomId": "ROOM01", "username": "bob"})
	var ack session.JoinRoomAck
	s.Require().NoError(json.Unmarshal(s.await(bob, model.EventAck).Payload, &ack))
	s.False(ack.Success)
	s.Equal(session.CodeRoomNotFound, ack.Code)

	var recent response.RecentGames
	s.Equal(http.StatusOK, s.getJSON("/api/v1/games/recent", &recent))
	s.Empty(recent.Games)
}

// Test: websocket traffic shows up on the metrics endpoint
func (s *IntegrationSuite) TestMetricsReflectTraffic() {
	alice := s.dial()
	s.send(alice, model.EventCreateRoom, "alice")
	s.await(alice, model.EventAck)

	resp, err := http.Get(s.server.URL + "/metrics")
	s.Require().NoError(err)
	defer resp.Body.Close()

	var body strings.Builder
	_, err = io.Copy(&body, resp.Body)
	s.Require().NoError(err)
	s.Contains(body.String(), "geochain_active_rooms 1")
	s.Contains(body.String(), `geochain_events_received_total{type="createRoom"} 1`)
}
