package server

import (
	"fmt"
	"strings"
	"sync/atomic"
	"time"

	"github.com/golang/glog"
)

// ConsoleLine is one render log line forwarded to the browser
type ConsoleLine struct {
	RenderID string    `json:"renderId"`
	Text     string    `json:"text"`
	Time     time.Time `json:"time"`
	Dropped  int64     `json:"dropped,omitempty"` // Lines lost since the previous delivered line
}

// ConsoleLogger writes render progress to glog and, without blocking the
// render, to a per-request console channel.
type ConsoleLogger struct {
	renderID string
	lines    chan<- ConsoleLine
	dropped  atomic.Int64
}

func NewConsoleLogger(renderID string, lines chan<- ConsoleLine) *ConsoleLogger {
	return &ConsoleLogger{renderID: renderID, lines: lines}
}

func (cl *ConsoleLogger) Printf(format string, args ...interface{}) {
	text := strings.TrimSuffix(fmt.Sprintf(format, args...), "\n")
	glog.InfoDepth(1, fmt.Sprintf("[%s] %s", cl.renderID, text))

	if cl.lines == nil {
		return
	}

	line := ConsoleLine{
		RenderID: cl.renderID,
		Text:     text,
		Time:     time.Now(),
		Dropped:  cl.dropped.Load(),
	}
	select {
	case cl.lines <- line:
		cl.dropped.Add(-line.Dropped)
	default:
		cl.dropped.Add(1)
	}
}
