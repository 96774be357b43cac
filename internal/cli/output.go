package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/mcoot/spellfight/internal/protocol"
)

// Output handles formatting output based on the configured format
type Output struct {
	format string
	w      io.Writer
}

// NewOutput creates a new Output formatter
func NewOutput(format string) *Output {
	return &Output{format: format, w: os.Stdout}
}

// Print outputs data in the configured format
func (o *Output) Print(data any) {
	if o.format == "json" {
		o.printJSON(data)
	} else {
		o.printText(data)
	}
}

// PrintError outputs an error
func (o *Output) PrintError(err error) {
	if o.format == "json" {
		errData := map[string]any{
			"error": map[string]string{
				"message": err.Error(),
			},
		}
		data, _ := json.Marshal(errData)
		fmt.Fprintln(os.Stderr, string(data))
	} else {
		fmt.Fprintf(os.Stderr, "Error: %s\n", err)
	}
}

// PrintMessage outputs a simple message
func (o *Output) PrintMessage(msg string) {
	if o.format == "json" {
		data, _ := json.Marshal(map[string]string{"message": msg})
		fmt.Fprintln(o.w, string(data))
	} else {
		fmt.Fprintln(o.w, msg)
	}
}

// PrintEvent outputs one game event. JSON output is one object per line.
func (o *Output) PrintEvent(ev protocol.Event) {
	if o.format == "json" {
		data, _ := json.Marshal(ev)
		fmt.Fprintln(o.w, string(data))
		return
	}
	timestamp := time.Now().Format("15:04:05")
	fmt.Fprintf(o.w, "[%s] %s\n", timestamp, describeEvent(ev))
}

func (o *Output) printJSON(data any) {
	enc := json.NewEncoder(o.w)
	enc.SetIndent("", "  ")
	_ = enc.Encode(data)
}

func (o *Output) printText(data any) {
	switch v := data.(type) {
	case Player:
		o.printPlayer(v)
	case AuthResult:
		o.printAuthResult(v)
	case User:
		o.printUser(v)
	case RoomList:
		o.printRooms(v)
	case Health:
		o.printHealth(v)
	default:
		// Fallback to JSON for unknown types
		o.printJSON(data)
	}
}

// Player response type (matches API)
type Player struct {
	ID          string `json:"id"`
	DisplayName string `json:"display_name"`
	IsGuest     bool   `json:"is_guest"`
	Provider    string `json:"provider"`
	Email       string `json:"email,omitempty"`
	Avatar      string `json:"avatar,omitempty"`
}

// AuthResult combines player and token
type AuthResult struct {
	Player       Player `json:"player"`
	SessionToken string `json:"session_token"`
}

// User response type
type User struct {
	Player
	CreatedAt time.Time `json:"created_at"`
}

// Room response type
type Room struct {
	ID       string   `json:"id"`
	Players  []Player `json:"players"`
	Capacity int      `json:"capacity"`
	Started  bool     `json:"started"`
	Stage    string   `json:"stage"`
	TurnSeat *int     `json:"turn_seat"`
}

// RoomList response type
type RoomList struct {
	Rooms []Room `json:"rooms"`
}

// Health response type
type Health struct {
	Status          string `json:"status"`
	Rooms           int    `json:"rooms"`
	Players         int    `json:"players"`
	DictionaryWords int    `json:"dictionary_words"`
}

func (o *Output) printPlayer(p Player) {
	guestStr := "no"
	if p.IsGuest {
		guestStr = "yes"
	}
	fmt.Fprintf(o.w, "Player: %s (%s)\n", p.DisplayName, p.ID)
	fmt.Fprintf(o.w, "Guest: %s\n", guestStr)
	fmt.Fprintf(o.w, "Provider: %s\n", p.Provider)
	if p.Email != "" {
		fmt.Fprintf(o.w, "Email: %s\n", p.Email)
	}
	if p.Avatar != "" {
		fmt.Fprintf(o.w, "Avatar: %s\n", p.Avatar)
	}
}

func (o *Output) printAuthResult(a AuthResult) {
	o.printPlayer(a.Player)
	fmt.Fprintf(o.w, "Token: %s\n", a.SessionToken)
}

func (o *Output) printUser(u User) {
	o.printPlayer(u.Player)
	fmt.Fprintf(o.w, "Since: %s\n", u.CreatedAt.Format(time.RFC3339))
}

func (o *Output) printRooms(l RoomList) {
	if len(l.Rooms) == 0 {
		fmt.Fprintln(o.w, "No rooms")
		return
	}
	for _, r := range l.Rooms {
		names := make([]string, len(r.Players))
		for i, p := range r.Players {
			names[i] = p.DisplayName
		}
		fmt.Fprintf(o.w, "Room %s [%s] %d/%d: %s", r.ID, r.Stage, len(r.Players), r.Capacity, strings.Join(names, ", "))
		if r.TurnSeat != nil {
			fmt.Fprintf(o.w, " (seat %d to play)", *r.TurnSeat)
		}
		fmt.Fprintln(o.w)
	}
}

func (o *Output) printHealth(h Health) {
	fmt.Fprintf(o.w, "Status: %s\n", h.Status)
	fmt.Fprintf(o.w, "Rooms: %d (%d players)\n", h.Rooms, h.Players)
	fmt.Fprintf(o.w, "Dictionary words: %d\n", h.DictionaryWords)
}

// describeEvent renders an event as a line of text for a player
func describeEvent(ev protocol.Event) string {
	switch c := ev.Content.(type) {
	case protocol.StartPreparationTime:
		names := make([]string, len(c.Players))
		for i, p := range c.Players {
			names[i] = fmt.Sprintf("%d:%s", i, p.DisplayName)
		}
		return fmt.Sprintf("Game starts in %ds. Seats: %s. Your letters: %s",
			c.Seconds, strings.Join(names, " "), c.InitialLetters)
	case protocol.NextTurn:
		return fmt.Sprintf("Seat %d to play (%ds)", c.SeatIndex, c.Seconds)
	case protocol.WordCreated:
		return fmt.Sprintf("Seat %d played %q", c.SeatIndex, c.Word)
	case protocol.CanRollDice:
		return fmt.Sprintf("Word accepted. Type 'roll' within %ds", c.Seconds)
	case protocol.DiceRolled:
		return fmt.Sprintf("Dice picked seat %d. Your letters: %s", c.TargetSeat, c.NewLetters)
	case protocol.DamagePlayer:
		return fmt.Sprintf("Seat %d took %d damage", c.SeatIndex, c.Damage)
	case protocol.TakeDamage:
		return fmt.Sprintf("You took %d damage", c.Damage)
	case protocol.PlayerEliminated:
		return fmt.Sprintf("Seat %d eliminated", c.SeatIndex)
	default:
		return string(ev.Type)
	}
}
