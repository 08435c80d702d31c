// Package input decodes Linux input_event records and turns key presses
// into text.
//
// A record mirrors struct input_event from linux/input.h: a struct timeval
// (two native words) followed by type, code and value. Its size therefore
// depends on the platform word: 24 bytes on 64-bit, 16 bytes on 32-bit.
package input

import (
	"encoding/binary"
	"fmt"
	"io"
	"strconv"
	"time"

	evdev "github.com/holoplot/go-evdev"
	"github.com/juju/errors"
)

const wordSize = strconv.IntSize / 8

// Size of one input_event record in bytes.
const Size = 2*wordSize + 8

// Field offsets within a record.
const (
	offSec   = 0
	offUsec  = wordSize
	offType  = 2 * wordSize
	offCode  = offType + 2
	offValue = offCode + 2
)

// EV_KEY event values.
const (
	KeyRelease int32 = 0
	KeyPress   int32 = 1
	KeyRepeat  int32 = 2
)

// EvKey is the event class of key press/release records.
const EvKey = uint16(evdev.EV_KEY)

// Record is one decoded input_event.
type Record struct {
	Sec   int64
	Usec  int64
	Type  uint16
	Code  uint16
	Value int32
}

// IsKey reports whether r is an EV_KEY event.
func (r Record) IsKey() bool { return r.Type == EvKey }

// Time returns the kernel timestamp of the event.
func (r Record) Time() time.Time {
	return time.Unix(r.Sec, r.Usec*int64(time.Microsecond))
}

func (r Record) String() string {
	return fmt.Sprintf("time=%d.%06d type=%d code=%d value=%d", r.Sec, r.Usec, r.Type, r.Code, r.Value)
}

// ShortReadError means the buffer did not hold exactly one record.
// The stream is desynchronized after it and must not be read further.
type ShortReadError struct {
	Got  int
	Want int
}

func (e *ShortReadError) Error() string {
	return fmt.Sprintf("input event short read n=%d expected=%d", e.Got, e.Want)
}

// IsShortRead reports whether err, possibly annotated, is a *ShortReadError.
func IsShortRead(err error) bool {
	_, ok := errors.Cause(err).(*ShortReadError)
	return ok
}

var order = binary.NativeEndian

// Decode parses one record from buf, which must be exactly Size bytes long.
func Decode(buf []byte) (Record, error) {
	if len(buf) != Size {
		return Record{}, &ShortReadError{Got: len(buf), Want: Size}
	}
	return Record{
		Sec:   getWord(buf[offSec:]),
		Usec:  getWord(buf[offUsec:]),
		Type:  order.Uint16(buf[offType:]),
		Code:  order.Uint16(buf[offCode:]),
		Value: int32(order.Uint32(buf[offValue:])),
	}, nil
}

// Encode is the inverse of Decode. On 32-bit platforms the timestamp
// fields are truncated to 32 bits as the kernel would store them.
func Encode(r Record) []byte {
	buf := make([]byte, Size)
	putWord(buf[offSec:], r.Sec)
	putWord(buf[offUsec:], r.Usec)
	order.PutUint16(buf[offType:], r.Type)
	order.PutUint16(buf[offCode:], r.Code)
	order.PutUint32(buf[offValue:], uint32(r.Value))
	return buf
}

// ReadRecord reads exactly one record from r.
// A clean end of stream before the first byte is returned as io.EOF.
func ReadRecord(r io.Reader) (Record, error) {
	var buf [Size]byte
	n, err := io.ReadFull(r, buf[:])
	switch {
	case err == io.EOF:
		return Record{}, io.EOF
	case err == io.ErrUnexpectedEOF:
		return Record{}, errors.Trace(&ShortReadError{Got: n, Want: Size})
	case err != nil:
		return Record{}, errors.Annotate(err, "read input event")
	}
	return Decode(buf[:])
}

func getWord(b []byte) int64 {
	if wordSize == 8 {
		return int64(order.Uint64(b))
	}
	return int64(int32(order.Uint32(b)))
}

func putWord(b []byte, v int64) {
	if wordSize == 8 {
		order.PutUint64(b, uint64(v))
		return
	}
	order.PutUint32(b, uint32(int32(v)))
}
