package cli

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"sync"
	"syscall"
	"time"

	"github.com/gorilla/websocket"
	"github.com/spf13/cobra"

	"github.com/mcoot/geochain/internal/model"
)

const (
	quitRequestID = "quit"
	quitTimeout   = 5 * time.Second
	dialTimeout   = 10 * time.Second
)

func newPlayCmd() *cobra.Command {
	var name, roomCode string

	cmd := &cobra.Command{
		Use:   "play",
		Short: "Play a game over the websocket",
		Long: `Create a room (or join one with --room) and play from the terminal.

Each line read from stdin is submitted as a place name. Lines starting
with a slash are commands:
  /start  start the game
  /leave  leave the room
  /quit   leave the room and disconnect

Room and game events are printed as they arrive; with --output json each
event is printed as one JSON line. Press Ctrl+C to disconnect.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if strings.TrimSpace(name) == "" {
				return errors.New("--name is required")
			}

			wsURL, err := cfg.WebsocketURL()
			if err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			out := NewOutputTo(cfg.Output, cmd.OutOrStdout(), cmd.ErrOrStderr())
			if cfg.Verbose {
				fmt.Fprintf(cmd.ErrOrStderr(), "Connecting to %s\n", wsURL)
			}
			return runPlay(ctx, wsURL, name, roomCode, cmd.InOrStdin(), out)
		},
	}

	cmd.Flags().StringVar(&name, "name", "", "Username to play as")
	cmd.Flags().StringVar(&roomCode, "room", "", "Join this room instead of creating one")

	return cmd
}

// Frame is a server event as received over the websocket
type Frame struct {
	Type      model.EventType `json:"type"`
	ID        string          `json:"id,omitempty"`
	Payload   json.RawMessage `json:"payload,omitempty"`
	Timestamp time.Time       `json:"timestamp"`
}

type clientFrame struct {
	Type    model.EventType `json:"type"`
	ID      string          `json:"id,omitempty"`
	Payload any             `json:"payload,omitempty"`
}

// playSession owns one websocket connection for the play command
type playSession struct {
	conn *websocket.Conn
	out  *Output

	writeMu sync.Mutex
	nextID  int

	quitOnce  sync.Once
	quitAcked chan struct{}
	readDone  chan struct{}
}

func runPlay(ctx context.Context, wsURL, name, roomCode string, in io.Reader, out *Output) error {
	dialCtx, cancel := context.WithTimeout(ctx, dialTimeout)
	defer cancel()

	conn, _, err := websocket.DefaultDialer.DialContext(dialCtx, wsURL, nil)
	if err != nil {
		return fmt.Errorf("connection failed: %w", err)
	}

	s := &playSession{
		conn:      conn,
		out:       out,
		quitAcked: make(chan struct{}),
		readDone:  make(chan struct{}),
	}
	go s.readLoop()
	defer func() {
		_ = conn.Close()
		<-s.readDone
	}()

	if roomCode != "" {
		err = s.send(model.EventJoinRoom, map[string]string{
			"roomId":   strings.ToUpper(roomCode),
			"username": name,
		})
	} else {
		err = s.send(model.EventCreateRoom, map[string]string{"username": name})
	}
	if err != nil {
		return err
	}

	lines := make(chan string)
	go func() {
		defer close(lines)
		scanner := bufio.NewScanner(in)
		for scanner.Scan() {
			lines <- scanner.Text()
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return s.quit()
		case <-s.readDone:
			return errors.New("connection closed by server")
		case line, ok := <-lines:
			if !ok {
				return s.quit()
			}
			done, err := s.handleLine(line)
			if err != nil {
				return err
			}
			if done {
				return s.quit()
			}
		}
	}
}

// handleLine sends the frame for one input line and reports whether the user asked to quit
func (s *playSession) handleLine(line string) (bool, error) {
	line = strings.TrimSpace(line)
	if line == "" {
		return false, nil
	}

	switch line {
	case "/quit":
		return true, nil
	case "/start":
		return false, s.send(model.EventStartGame, nil)
	case "/leave":
		return false, s.send(model.EventLeaveRoom, nil)
	}

	if strings.HasPrefix(line, "/") {
		s.out.PrintError(fmt.Errorf("unknown command %s", line))
		return false, nil
	}
	return false, s.send(model.EventSubmitPlace, map[string]string{"placeName": line})
}

func (s *playSession) send(eventType model.EventType, payload any) error {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	s.nextID++
	return s.write(clientFrame{Type: eventType, ID: strconv.Itoa(s.nextID), Payload: payload})
}

func (s *playSession) write(f clientFrame) error {
	if err := s.conn.WriteJSON(f); err != nil {
		return fmt.Errorf("send %s: %w", f.Type, err)
	}
	return nil
}

// quit leaves the room and waits for the server to answer before disconnecting,
// so every event caused by earlier input is printed
func (s *playSession) quit() error {
	s.writeMu.Lock()
	err := s.write(clientFrame{Type: model.EventLeaveRoom, ID: quitRequestID})
	s.writeMu.Unlock()
	if err != nil {
		return nil
	}

	select {
	case <-s.quitAcked:
	case <-s.readDone:
	case <-time.After(quitTimeout):
	}

	s.writeMu.Lock()
	defer s.writeMu.Unlock()
	_ = s.conn.WriteControl(websocket.CloseMessage,
		websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""),
		time.Now().Add(time.Second))
	return nil
}

func (s *playSession) readLoop() {
	defer close(s.readDone)

	for {
		_, data, err := s.conn.ReadMessage()
		if err != nil {
			return
		}

		var f Frame
		if err := json.Unmarshal(data, &f); err != nil {
			s.out.PrintError(fmt.Errorf("malformed event: %w", err))
			continue
		}

		if f.ID == quitRequestID {
			s.quitOnce.Do(func() { close(s.quitAcked) })
			continue
		}
		s.out.PrintFrame(f)
	}
}

// PrintFrame outputs a websocket event
func (o *Output) PrintFrame(f Frame) {
	if o.format == "json" {
		data, _ := json.Marshal(f)
		fmt.Fprintln(o.w, string(data))
		return
	}

	ts := f.Timestamp
	if ts.IsZero() {
		ts = time.Now()
	}
	fmt.Fprintf(o.w, "[%s] %s\n", ts.Local().Format("15:04:05"), describeFrame(f))
}

// frameAck covers the fields of every ack payload
type frameAck struct {
	RoomID   model.RoomID    `json:"roomId"`
	Success  bool            `json:"success"`
	RoomData *model.Snapshot `json:"roomData"`
	Message  string          `json:"message"`
	Code     string          `json:"code"`
}

type frameError struct {
	Message string `json:"message"`
	Code    string `json:"code"`
}

func describeFrame(f Frame) string {
	switch f.Type {
	case model.EventAck:
		var ack frameAck
		if err := json.Unmarshal(f.Payload, &ack); err != nil {
			break
		}
		switch {
		case !ack.Success:
			return fmt.Sprintf("Failed: %s (%s)", ack.Message, ack.Code)
		case ack.RoomID != "":
			return fmt.Sprintf("Created room %s", ack.RoomID)
		case ack.RoomData != nil:
			return fmt.Sprintf("Joined room %s", ack.RoomData.RoomID)
		default:
			return "Left room"
		}

	case model.EventError:
		var e frameError
		if err := json.Unmarshal(f.Payload, &e); err != nil {
			break
		}
		return fmt.Sprintf("Error: %s (%s)", e.Message, e.Code)

	case model.EventUpdateRoom, model.EventPlayerLeft:
		var snap model.Snapshot
		if err := json.Unmarshal(f.Payload, &snap); err != nil {
			break
		}
		prefix := "Room " + string(snap.RoomID)
		if f.Type == model.EventPlayerLeft {
			prefix = "A player left " + string(snap.RoomID)
		}
		return fmt.Sprintf("%s: %s", prefix, playerList(snap))

	case model.EventGameStarted:
		var snap model.Snapshot
		if err := json.Unmarshal(f.Payload, &snap); err != nil {
			break
		}
		return fmt.Sprintf("Game started! %s", turnLine(snap))

	case model.EventUpdateGame:
		var snap model.Snapshot
		if err := json.Unmarshal(f.Payload, &snap); err != nil {
			break
		}
		if n := len(snap.History); n > 0 {
			last := snap.History[n-1]
			return fmt.Sprintf("%s played %s. %s", last.Player, last.Place, turnLine(snap))
		}
		return turnLine(snap)

	case model.EventPong:
		return "pong"
	}

	return fmt.Sprintf("%s %s", f.Type, string(f.Payload))
}

func playerList(snap model.Snapshot) string {
	parts := make([]string, len(snap.Players))
	for i, p := range snap.Players {
		parts[i] = fmt.Sprintf("%s (%d)", p.Username, p.Score)
	}
	return strings.Join(parts, ", ")
}

func turnLine(snap model.Snapshot) string {
	current, ok := snap.CurrentPlayer()
	if !ok {
		return "Nobody to play"
	}
	if snap.LetterInPlay == "" {
		return fmt.Sprintf("%s to play any place", current.Username)
	}
	return fmt.Sprintf("%s to play a place starting with %s", current.Username, snap.LetterInPlay)
}
