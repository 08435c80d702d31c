package input

import (
	"testing"

	evdev "github.com/holoplot/go-evdev"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/andresousadotpt/keylog/logx"
)

const (
	lshift = uint16(evdev.KEY_LEFTSHIFT)
	rshift = uint16(evdev.KEY_RIGHTSHIFT)
)

func press(code uint16) Record   { return Record{Type: EvKey, Code: code, Value: KeyPress} }
func release(code uint16) Record { return Record{Type: EvKey, Code: code, Value: KeyRelease} }

// feed steps all records and collects emitted text.
func feed(d *Decoder, recs ...Record) []string {
	out := []string{}
	for _, r := range recs {
		if s, ok := d.Step(r); ok {
			out = append(out, s)
		}
	}
	return out
}

func TestDecoderScenarios(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name   string
		input  []Record
		expect []string
		shift  uint
	}{
		{"plain", []Record{press(16)}, []string{"q"}, 0},
		{"left-shift", []Record{press(lshift), press(16)}, []string{"Q"}, 1},
		{"both-shift-one-released", []Record{press(lshift), press(rshift), release(lshift), press(uint16(evdev.KEY_2))}, []string{"@"}, 1},
		{"shift-released", []Record{press(lshift), press(2), release(lshift), press(2)}, []string{"!", "1"}, 0},
		{"non-shift-release", []Record{press(30), release(30)}, []string{"a"}, 0},
		{"autorepeat", []Record{press(30), {Type: EvKey, Code: 30, Value: KeyRepeat}}, []string{"a"}, 0},
		{"unknown-code", []Record{press(84), press(300)}, []string{Unknown, Unknown}, 0},
		{"non-key", []Record{{Type: 0, Code: 0, Value: 0}, {Type: 2, Code: 0, Value: 5}, {Type: 4, Code: 4, Value: 30}}, []string{}, 0},
		{"unmatched-release", []Record{release(rshift), release(lshift), press(16)}, []string{"q"}, 0},
		{"repeat-shift", []Record{press(lshift), {Type: EvKey, Code: lshift, Value: KeyRepeat}, release(lshift), press(16)}, []string{"q"}, 0},
		{"space-enter", []Record{press(57), press(lshift), press(57), press(28)}, []string{" ", " ", "<Enter>"}, 1},
	}
	for _, c := range cases {
		c := c
		t.Run(c.name, func(t *testing.T) {
			t.Parallel()
			d := NewDecoder(logx.NewTest(t, logx.LDebug))
			assert.Equal(t, c.expect, feed(d, c.input...))
			assert.Equal(t, c.shift, d.ShiftCount())
		})
	}
}

func TestDecoderShiftPressNoOutput(t *testing.T) {
	t.Parallel()

	d := NewDecoder(nil)
	for _, code := range []uint16{lshift, rshift} {
		s, ok := d.Step(press(code))
		assert.False(t, ok)
		assert.Equal(t, "", s)
	}
	assert.Equal(t, uint(2), d.ShiftCount())
	d.Step(release(rshift))
	assert.True(t, d.Shifted())
	d.Step(release(lshift))
	assert.False(t, d.Shifted())
}

func TestDecoderNonKeyIdempotent(t *testing.T) {
	t.Parallel()

	d := NewDecoder(nil)
	d.Step(press(lshift))
	for typ := uint16(0); typ < 0x20; typ++ {
		if typ == EvKey {
			continue
		}
		for _, value := range []int32{KeyRelease, KeyPress, KeyRepeat, -1} {
			for _, code := range []uint16{0, lshift, rshift, 16, 200} {
				s, ok := d.Step(Record{Type: typ, Code: code, Value: value})
				require.False(t, ok)
				require.Equal(t, "", s)
				require.Equal(t, uint(1), d.ShiftCount())
			}
		}
	}
}

func TestDecoderRepeatIgnored(t *testing.T) {
	t.Parallel()

	d := NewDecoder(nil)
	for code := uint16(0); code < MaxKeys; code++ {
		_, ok := d.Step(Record{Type: EvKey, Code: code, Value: KeyRepeat})
		assert.False(t, ok)
	}
	assert.Equal(t, uint(0), d.ShiftCount())
}

func TestDecoderIndependentSessions(t *testing.T) {
	t.Parallel()

	a, b := NewDecoder(nil), NewDecoder(nil)
	a.Step(press(lshift))
	sa, _ := a.Step(press(16))
	sb, _ := b.Step(press(16))
	assert.Equal(t, "Q", sa)
	assert.Equal(t, "q", sb)

	a.Reset()
	assert.False(t, a.Shifted())
}

func TestDecoderFeed(t *testing.T) {
	t.Parallel()

	d := NewDecoder(nil)
	_, ok, err := d.Feed(Encode(press(lshift)))
	require.NoError(t, err)
	assert.False(t, ok)

	s, ok, err := d.Feed(Encode(press(16)))
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "Q", s)

	_, _, err = d.Feed(Encode(press(16))[:Size-1])
	assert.True(t, IsShortRead(err))
	assert.Equal(t, uint(1), d.ShiftCount())
}
