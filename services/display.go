package services

import (
	"sync"

	models "github.com/alvsuut-buddy/Smart-Charity/models"
)

// MaxDisplayLine is the width of one row on the 16x2 LCD.
const MaxDisplayLine = 16

// DefaultDisplayMessage is shown until someone sets a message.
var DefaultDisplayMessage = models.DisplayMessage{Line1: "Sedekah membawa", Line2: "berkah"}

// DisplayBoard holds the current LCD text. Last write wins.
type DisplayBoard struct {
	mu  sync.RWMutex
	msg models.DisplayMessage
}

func NewDisplayBoard(seed models.DisplayMessage) *DisplayBoard {
	b := &DisplayBoard{}
	b.Set(seed.Line1, seed.Line2)
	return b
}

func (b *DisplayBoard) Get() models.DisplayMessage {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.msg
}

// Set stores both lines, each cut to MaxDisplayLine characters, and
// returns what was stored.
func (b *DisplayBoard) Set(line1, line2 string) models.DisplayMessage {
	msg := models.DisplayMessage{Line1: truncate(line1, MaxDisplayLine), Line2: truncate(line2, MaxDisplayLine)}
	b.mu.Lock()
	b.msg = msg
	b.mu.Unlock()
	return msg
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n])
}
