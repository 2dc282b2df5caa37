package cli

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mcoot/geochain/internal/api"
	"github.com/mcoot/geochain/internal/factory"
	"github.com/mcoot/geochain/internal/model"
	"github.com/mcoot/geochain/internal/testutil"
)

func newGameServer(t *testing.T) (*httptest.Server, *factory.TestApp) {
	t.Helper()
	app := factory.NewTestApp()
	app.LoadTestPlaces()
	app.MockRandom.QueueString("ROOM01")

	srv := httptest.NewServer(api.NewRouter(api.RouterConfig{
		Logger:   testutil.NopLogger(),
		Registry: app.Registry,
		Archive:  app.Archive,
		Places:   app.Places,
		Realtime: app.Realtime,
	}))
	t.Cleanup(srv.Close)
	return srv, app
}

func TestConfig_WebsocketURL(t *testing.T) {
	tests := []struct {
		server  string
		want    string
		wantErr bool
	}{
		{"http://localhost:8080", "ws://localhost:8080/ws", false},
		{"https://geo.example.com/", "wss://geo.example.com/ws", false},
		{"http://localhost:8080/game", "ws://localhost:8080/game/ws", false},
		{"ws://localhost:8080", "ws://localhost:8080/ws", false},
		{"ftp://localhost", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.server, func(t *testing.T) {
			c := &Config{ServerURL: tt.server}
			got, err := c.WebsocketURL()
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestClient_DecodesAPIError(t *testing.T) {
	srv, _ := newGameServer(t)
	c := NewClient(srv.URL + "/")

	var room Room
	err := c.Get("/api/v1/rooms/NOPE99", nil, &room)
	require.Error(t, err)
	assert.Equal(t, "Room not found (ROOM_NOT_FOUND)", err.Error())
}

func TestClient_NonJSONError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "bad gateway", http.StatusBadGateway)
	}))
	defer srv.Close()

	err := NewClient(srv.URL).Get("/api/v1/health", nil, nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "HTTP 502")
}

func TestOutput_Text(t *testing.T) {
	alice := "alice"
	tests := []struct {
		name string
		data any
		want []string
	}{
		{
			name: "health",
			data: HealthResult{Status: "ok"},
			want: []string{"Status: ok"},
		},
		{
			name: "stats without places",
			data: Stats{ActiveRooms: 2, ActivePlayers: 5},
			want: []string{"Active Rooms: 2", "Active Players: 5", "Places: not loaded"},
		},
		{
			name: "room in play",
			data: Room{
				Code:          "ROOM01",
				Started:       true,
				Players:       []Player{{Username: "alice", Score: 1}, {Username: "bob"}},
				History:       []Play{{Player: "bob", Place: "Oslo"}, {Player: "alice", Place: "Oman"}},
				CurrentPlayer: &alice,
				LetterInPlay:  "N",
			},
			want: []string{"Room: ROOM01", "State: in play", "Letter: N", "alice: 1 [to play]", "Chain: Oslo -> Oman"},
		},
		{
			name: "tied game",
			data: RecentGames{Games: []GameSummary{{Code: "ROOM01", Plays: 2, Chain: []string{"Oslo", "Oman"}}}},
			want: []string{"Game ROOM01", "Winner: none (tie)", "Chain: Oslo -> Oman"},
		},
		{
			name: "no games",
			data: RecentGames{},
			want: []string{"No finished games"},
		},
		{
			name: "unknown place",
			data: PlaceCheck{Name: "Atlantis"},
			want: []string{"Atlantis is not a known place"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			NewOutputTo("text", &buf, &buf).Print(tt.data)
			for _, w := range tt.want {
				assert.Contains(t, buf.String(), w)
			}
		})
	}
}

func TestOutput_JSONError(t *testing.T) {
	var stdout, stderr bytes.Buffer
	NewOutputTo("json", &stdout, &stderr).PrintError(errors.New("boom"))

	assert.Empty(t, stdout.String())
	assert.JSONEq(t, `{"error":{"message":"boom"}}`, stderr.String())
}

func TestDescribeFrame(t *testing.T) {
	snap := `{"roomId":"ROOM01","players":[{"id":"c1","username":"alice","score":1},{"id":"c2","username":"bob","score":0}],` +
		`"history":[{"player":"alice","place":"Oslo"}],"currentPlayerIndex":1,"letterInPlay":"O","started":true}`

	tests := []struct {
		name  string
		frame Frame
		want  string
	}{
		{"created", Frame{Type: model.EventAck, Payload: json.RawMessage(`{"roomId":"ROOM01","success":true}`)}, "Created room ROOM01"},
		{"join failed", Frame{Type: model.EventAck, Payload: json.RawMessage(`{"success":false,"message":"Room not found","code":"ROOM_NOT_FOUND"}`)}, "Failed: Room not found (ROOM_NOT_FOUND)"},
		{"left", Frame{Type: model.EventAck, Payload: json.RawMessage(`{"success":true}`)}, "Left room"},
		{"error", Frame{Type: model.EventError, Payload: json.RawMessage(`{"message":"Not your turn","code":"NOT_YOUR_TURN"}`)}, "Error: Not your turn (NOT_YOUR_TURN)"},
		{"room update", Frame{Type: model.EventUpdateRoom, Payload: json.RawMessage(snap)}, "Room ROOM01: alice (1), bob (0)"},
		{"play", Frame{Type: model.EventUpdateGame, Payload: json.RawMessage(snap)}, "alice played Oslo. bob to play a place starting with O"},
		{"unknown", Frame{Type: "mystery", Payload: json.RawMessage(`1`)}, "mystery 1"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, describeFrame(tt.frame))
		})
	}
}

func TestRunPlay_SinglePlayerGame(t *testing.T) {
	srv, app := newGameServer(t)
	wsURL := "ws" + strings.TrimPrefix(srv.URL, "http") + "/ws"

	input := strings.NewReader("/start\nArgentina\n\nAlbania\nAtlantis\n/dance\n/quit\n")
	var stdout, stderr bytes.Buffer
	out := NewOutputTo("json", &stdout, &stderr)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	require.NoError(t, runPlay(ctx, wsURL, "alice", "", input, out))

	var frames []Frame
	scanner := bufio.NewScanner(&stdout)
	for scanner.Scan() {
		var f Frame
		require.NoError(t, json.Unmarshal(scanner.Bytes(), &f))
		frames = append(frames, f)
	}

	// Replies arrive in request order; broadcasts may be cut short by the quit
	require.NotEmpty(t, frames)
	assert.Equal(t, model.EventAck, frames[0].Type)

	var rejected frameError
	for _, f := range frames {
		if f.Type == model.EventError {
			require.NoError(t, json.Unmarshal(f.Payload, &rejected))
		}
	}
	assert.Equal(t, "INVALID_PLACE", rejected.Code)
	assert.Contains(t, stderr.String(), "unknown command /dance")

	// Quitting left the room, which closed it and archived the game
	assert.Equal(t, 0, app.Registry.Count())
	games, err := app.Archive.Recent(ctx, 0)
	require.NoError(t, err)
	require.Len(t, games, 1)
	assert.Equal(t, []string{"Argentina", "Albania"}, games[0].Chain)
}

func TestRunPlay_JoinUnknownRoom(t *testing.T) {
	srv, _ := newGameServer(t)
	wsURL := "ws" + strings.TrimPrefix(srv.URL, "http") + "/ws"

	var stdout, stderr bytes.Buffer
	out := NewOutputTo("text", &stdout, &stderr)

	require.NoError(t, runPlay(context.Background(), wsURL, "bob", "nope99", strings.NewReader(""), out))
	assert.Contains(t, stdout.String(), "Failed: ")
	assert.Contains(t, stdout.String(), "(ROOM_NOT_FOUND)")
}
