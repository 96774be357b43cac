package cli

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/gorilla/websocket"
	"github.com/spf13/cobra"

	"github.com/mcoot/spellfight/internal/protocol"
)

func newPlayCmd() *cobra.Command {
	var join bool
	var until string

	cmd := &cobra.Command{
		Use:   "play",
		Short: "Connect to the game server and play",
		Long: `Open a websocket connection and play from the terminal.

Commands read from stdin:
  join         Join the next open room
  word <word>  Submit a word on your turn
  roll         Roll the dice after a word is accepted
  quit         Disconnect

Press Ctrl+C to disconnect.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			opts := playOptions{
				URL:   client.WebsocketURL(),
				Token: client.Token(),
				Join:  join,
				Until: protocol.EventType(until),
			}
			return play(ctx, opts, cmd.InOrStdin(), NewOutput(cfg.Output))
		},
	}

	cmd.Flags().BoolVar(&join, "join", false, "Join a room as soon as connected")
	cmd.Flags().StringVar(&until, "until", "", "Disconnect after receiving an event of this type")

	return cmd
}

type playOptions struct {
	URL   string
	Token string
	Join  bool
	// Until ends the session after the first event of this type; stdin EOF
	// is then ignored
	Until protocol.EventType
}

var errQuit = errors.New("quit")

func play(ctx context.Context, opts playOptions, in io.Reader, out *Output) error {
	header := http.Header{}
	if opts.Token != "" {
		header.Set("Authorization", "Bearer "+opts.Token)
	}

	conn, resp, err := websocket.DefaultDialer.DialContext(ctx, opts.URL, header)
	if err != nil {
		if resp != nil && resp.StatusCode == http.StatusUnauthorized {
			return errors.New("unauthorized: create a player with 'spellfight player guest' first")
		}
		return fmt.Errorf("connection failed: %w", err)
	}
	defer func() { _ = conn.Close() }()

	done := make(chan struct{})
	defer close(done)

	events := make(chan protocol.Event)
	readErr := make(chan error, 1)
	go func() {
		defer close(events)
		for {
			_, data, err := conn.ReadMessage()
			if err != nil {
				readErr <- err
				return
			}
			ev, err := protocol.DecodeEvent(data)
			if err != nil {
				continue
			}
			select {
			case events <- ev:
			case <-done:
				return
			}
		}
	}()

	lines := make(chan string)
	go func() {
		defer close(lines)
		scanner := bufio.NewScanner(in)
		for scanner.Scan() {
			select {
			case lines <- scanner.Text():
			case <-done:
				return
			}
		}
	}()

	send := func(intent protocol.Intent) error {
		data, err := json.Marshal(intent)
		if err != nil {
			return err
		}
		return conn.WriteMessage(websocket.TextMessage, data)
	}
	hangUp := func() {
		_ = conn.WriteControl(websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""),
			time.Now().Add(time.Second))
	}

	if opts.Join {
		if err := send(protocol.Join()); err != nil {
			return fmt.Errorf("send failed: %w", err)
		}
	}

	for {
		select {
		case <-ctx.Done():
			hangUp()
			return nil

		case ev, ok := <-events:
			if !ok {
				err := <-readErr
				if websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
					out.PrintMessage("Disconnected")
					return nil
				}
				return fmt.Errorf("connection lost: %w", err)
			}
			out.PrintEvent(ev)
			if opts.Until != "" && ev.Type == opts.Until {
				hangUp()
				return nil
			}

		case line, ok := <-lines:
			if !ok {
				lines = nil
				if opts.Until == "" {
					hangUp()
					return nil
				}
				continue
			}
			intent, ok, err := parseCommand(line)
			if errors.Is(err, errQuit) {
				hangUp()
				return nil
			}
			if err != nil {
				out.PrintMessage(err.Error())
				continue
			}
			if !ok {
				continue
			}
			if err := send(intent); err != nil {
				return fmt.Errorf("send failed: %w", err)
			}
		}
	}
}

// parseCommand turns a typed line into an intent. Blank lines report ok=false.
func parseCommand(line string) (protocol.Intent, bool, error) {
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return protocol.Intent{}, false, nil
	}

	switch strings.ToLower(fields[0]) {
	case "join":
		return protocol.Join(), true, nil
	case "word", "w":
		if len(fields) != 2 {
			return protocol.Intent{}, false, errors.New("usage: word <word>")
		}
		return protocol.CreateWord(fields[1]), true, nil
	case "roll", "r":
		return protocol.RollDice(), true, nil
	case "quit", "exit":
		return protocol.Intent{}, false, errQuit
	default:
		return protocol.Intent{}, false, fmt.Errorf("unknown command %q (try join, word <word>, roll, quit)", fields[0])
	}
}
