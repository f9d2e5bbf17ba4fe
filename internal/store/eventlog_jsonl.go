package store

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"sectiongrid/internal/model"

	"github.com/google/uuid"
)

type SessionOp string

const (
	OpBegin SessionOp = "begin"
	OpMove  SessionOp = "move"
	OpEnd   SessionOp = "end"
)

// DiffEvent is one line of the diff log: a single diff emitted during a drag session.
type DiffEvent struct {
	SessionID string         `json:"sessionId" yaml:"sessionId"`
	Seq       int            `json:"seq" yaml:"seq"`
	Op        SessionOp      `json:"op" yaml:"op"`
	Kind      model.DiffKind `json:"kind" yaml:"kind"`
	Section   int            `json:"section" yaml:"section"`
	Item      int            `json:"item" yaml:"item"`
	IssuedAt  time.Time      `json:"issuedAt" yaml:"issuedAt"`
}

type EventLine struct {
	Path  string    `json:"path" yaml:"path"`
	Line  int       `json:"line" yaml:"line"`
	Event DiffEvent `json:"event" yaml:"event"`
}

// Session collects the diffs of one begin/move*/end sequence before they are appended.
type Session struct {
	ID     string
	events []DiffEvent
}

func NewSession() *Session {
	return &Session{ID: uuid.NewString()}
}

func (s *Session) Record(op SessionOp, diffs []model.Diff) {
	now := time.Now().UTC()
	for _, d := range diffs {
		s.events = append(s.events, DiffEvent{
			SessionID: s.ID,
			Seq:       len(s.events),
			Op:        op,
			Kind:      d.Kind,
			Section:   d.At.Section,
			Item:      d.At.Item,
			IssuedAt:  now,
		})
	}
}

func (s *Session) Events() []DiffEvent {
	return append([]DiffEvent(nil), s.events...)
}

// AppendSession appends every recorded diff of sess to the log, one JSON object per line.
func (s Store) AppendSession(ctx context.Context, sess *Session) error {
	if sess == nil || len(sess.events) == 0 {
		return nil
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := os.MkdirAll(s.eventsDir(), 0o755); err != nil {
		return err
	}

	var buf bytes.Buffer
	for _, ev := range sess.events {
		line, err := json.Marshal(ev)
		if err != nil {
			return err
		}
		buf.Write(line)
		buf.WriteByte('\n')
	}

	f, err := os.OpenFile(s.eventsPath(), os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return err
	}
	defer f.Close()
	if _, err := f.Write(buf.Bytes()); err != nil {
		return err
	}
	return f.Close()
}

// ReadEvents returns every logged diff in append order. A missing log is empty.
func (s Store) ReadEvents() ([]EventLine, error) {
	path := s.eventsPath()
	f, err := os.Open(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return []EventLine{}, nil
		}
		return nil, err
	}
	defer f.Close()

	sc := bufio.NewScanner(f)
	sc.Buffer(make([]byte, 0, 64*1024), 10*1024*1024)

	out := []EventLine{}
	lineNo := 0
	for sc.Scan() {
		lineNo++
		b := bytes.TrimSpace(sc.Bytes())
		if len(b) == 0 {
			continue
		}
		var ev DiffEvent
		if err := json.Unmarshal(b, &ev); err != nil {
			return nil, fmt.Errorf("%s:%d: invalid diff event: %w", path, lineNo, err)
		}
		if strings.TrimSpace(ev.SessionID) == "" {
			return nil, fmt.Errorf("%s:%d: invalid diff event: missing sessionId", path, lineNo)
		}
		out = append(out, EventLine{Path: path, Line: lineNo, Event: ev})
	}
	if err := sc.Err(); err != nil {
		return nil, err
	}
	return out, nil
}
