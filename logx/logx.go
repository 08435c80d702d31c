// Package logx is a small leveled wrapper over stdlib *log.Logger.
//
// A nil *Log is valid and discards everything, so components can take an
// optional logger without checks. NewTest routes output into t.Logf which
// keeps parallel tests readable.
package logx

import (
	"fmt"
	"io"
	"log"
	"os"
	"sync/atomic"
	"testing"
)

const (
	Lmicroseconds     int = log.Lmicroseconds
	Lshortfile        int = log.Lshortfile
	LInteractiveFlags int = log.Ltime | Lshortfile | Lmicroseconds
	LServiceFlags     int = Lshortfile
	LTestFlags        int = Lshortfile | Lmicroseconds
)

type Level int32

const (
	LError Level = iota
	LInfo
	LDebug
)

type Log struct {
	l      *log.Logger
	level  Level
	w      io.Writer
	fatalf Func
}

func NewStderr(level Level) *Log { return NewWriter(os.Stderr, level) }

func NewWriter(w io.Writer, level Level) *Log {
	if w == io.Discard {
		return nil
	}
	return &Log{
		l:     log.New(w, "", LServiceFlags),
		level: level,
		w:     w,
	}
}

type Func func(format string, args ...interface{})
type FuncWriter struct{ Func }

func (fw FuncWriter) Write(b []byte) (int, error) {
	fw.Func("%s", string(b))
	return len(b), nil
}

func NewFunc(f Func, level Level) *Log { return NewWriter(FuncWriter{f}, level) }

func NewTest(t testing.TB, level Level) *Log {
	lg := NewFunc(t.Logf, level)
	lg.SetFlags(LTestFlags)
	lg.fatalf = t.Fatalf
	return lg
}

func (lg *Log) SetLevel(l Level) {
	if lg == nil {
		return
	}
	atomic.StoreInt32((*int32)(&lg.level), int32(l))
}

func (lg *Log) SetFlags(f int) {
	if lg == nil {
		return
	}
	lg.l.SetFlags(f)
}

func (lg *Log) Enabled(level Level) bool {
	if lg == nil {
		return false
	}
	return atomic.LoadInt32((*int32)(&lg.level)) >= int32(level)
}

// output reports the caller of the exported method, calldepth counts
// output itself and that method.
func (lg *Log) output(level Level, format string, args ...interface{}) {
	if lg.Enabled(level) {
		_ = lg.l.Output(3, fmt.Sprintf(format, args...))
	}
}

func (lg *Log) Logf(level Level, format string, args ...interface{}) {
	lg.output(level, format, args...)
}

func (lg *Log) Errorf(format string, args ...interface{}) {
	lg.output(LError, "error: "+format, args...)
}

func (lg *Log) Infof(format string, args ...interface{}) {
	lg.output(LInfo, format, args...)
}

func (lg *Log) Debugf(format string, args ...interface{}) {
	lg.output(LDebug, "debug: "+format, args...)
}

// Fatalf logs unconditionally and exits, or fails the test for NewTest loggers.
func (lg *Log) Fatalf(format string, args ...interface{}) {
	if lg == nil {
		log.Fatalf(format, args...)
	}
	if lg.fatalf != nil {
		lg.fatalf(format, args...)
		return
	}
	_ = lg.l.Output(2, fmt.Sprintf("fatal: "+format, args...))
	os.Exit(1)
}
