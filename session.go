package main

import (
	"io"
	"os"
	"path/filepath"
	"sync"

	"github.com/juju/errors"

	"github.com/andresousadotpt/keylog/input"
	"github.com/andresousadotpt/keylog/logx"
)

// Sink appends key text to the log file and optionally echoes it.
// Tokens are written verbatim without separators. Safe for use by
// several sessions.
type Sink struct {
	mu    sync.Mutex
	w     io.Writer
	f     *os.File
	echo  io.Writer
	fsync bool
}

// NewSink writes to w and echoes to echo when it is not nil.
func NewSink(w io.Writer, echo io.Writer) *Sink {
	return &Sink{w: w, echo: echo}
}

// OpenSink opens path for appending, creating parent directories.
// The file is private to the owner since it holds typed text.
func OpenSink(path string, echo io.Writer, fsync bool) (*Sink, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0700); err != nil {
			return nil, errors.Annotate(err, "create log dir")
		}
	}
	f, err := os.OpenFile(path, os.O_WRONLY|os.O_APPEND|os.O_CREATE, 0600)
	if err != nil {
		return nil, errors.Annotate(err, "open log file")
	}
	return &Sink{w: f, f: f, echo: echo, fsync: fsync}, nil
}

// Write appends one key text.
func (s *Sink) Write(text string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, err := io.WriteString(s.w, text); err != nil {
		return errors.Trace(err)
	}
	if s.fsync && s.f != nil {
		if err := s.f.Sync(); err != nil {
			return errors.Trace(err)
		}
	}
	if s.echo != nil {
		_, _ = io.WriteString(s.echo, text)
	}
	return nil
}

func (s *Sink) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.f == nil {
		return nil
	}
	err := s.f.Close()
	s.f = nil
	return err
}

// Session reads one device stream and feeds it through its own Decoder.
type Session struct {
	Name    string
	Decoder *input.Decoder
	Log     *logx.Log

	src  io.Reader
	sink *Sink
}

// NewSession reads records from src with a fresh Decoder and writes text to sink.
func NewSession(name string, src io.Reader, sink *Sink, log *logx.Log) *Session {
	return &Session{
		Name:    name,
		Decoder: input.NewDecoder(log),
		Log:     log,
		src:     src,
		sink:    sink,
	}
}

// Run blocks reading records until the stream ends or fails.
// End of stream returns nil; a short read or device error is returned
// and the stream must not be read again.
func (s *Session) Run() error {
	for {
		rec, err := input.ReadRecord(s.src)
		if err == io.EOF {
			s.Log.Infof("%s: end of stream", s.Name)
			return nil
		}
		if err != nil {
			return errors.Annotatef(err, "device %s", s.Name)
		}
		text, ok := s.Decoder.Step(rec)
		if !ok {
			continue
		}
		if err := s.sink.Write(text); err != nil {
			return errors.Annotate(err, "write log")
		}
	}
}
