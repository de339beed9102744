package app

import (
	"fmt"
	"log"
	"time"

	"image-cropper/pkg/geometry"
)

// MaxStatusMessages caps the status log.
const MaxStatusMessages = 50

// Level is the severity of a status message.
type Level int

const (
	LevelInfo Level = iota
	LevelSuccess
	LevelError
)

func (l Level) String() string {
	switch l {
	case LevelSuccess:
		return "success"
	case LevelError:
		return "error"
	default:
		return "info"
	}
}

// StatusMessage is one entry in the status log.
type StatusMessage struct {
	Time  time.Time
	Level Level
	Text  string
}

func (m StatusMessage) String() string {
	return m.Time.Format("15:04:05") + " " + m.Text
}

// AddStatus prepends a message to the status log, dropping the oldest
// beyond MaxStatusMessages.
func (s *State) AddStatus(level Level, text string) {
	msg := StatusMessage{Time: time.Now(), Level: level, Text: text}
	log.Printf("[%s] %s", level, text)

	s.mu.Lock()
	s.messages = append([]StatusMessage{msg}, s.messages...)
	if len(s.messages) > MaxStatusMessages {
		s.messages = s.messages[:MaxStatusMessages]
	}
	s.mu.Unlock()

	s.Emit(EventStatus, msg)
}

// Messages returns the status log, newest first.
func (s *State) Messages() []StatusMessage {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]StatusMessage(nil), s.messages...)
}

func formatRect(prefix string, r geometry.Rect) string {
	return fmt.Sprintf("%s: (%g, %g) %g×%g", prefix, r.X, r.Y, r.Width, r.Height)
}
