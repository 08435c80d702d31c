package input

import "github.com/andresousadotpt/keylog/logx"

// Decoder tracks shift state for one input stream and converts key
// presses to text. Each stream must own its Decoder; it is not safe
// for concurrent use.
type Decoder struct {
	Log *logx.Log

	// number of shift keys currently held, both shifts may be down at once
	shift uint
}

// NewDecoder returns a Decoder with no shift keys held. log may be nil.
func NewDecoder(log *logx.Log) *Decoder {
	return &Decoder{Log: log}
}

func (d *Decoder) Shifted() bool    { return d.shift != 0 }
func (d *Decoder) ShiftCount() uint { return d.shift }
func (d *Decoder) Reset()           { d.shift = 0 }

// Step applies one record. It returns the text of a non-shift key press
// and ok=true; every other record yields "", false.
func (d *Decoder) Step(rec Record) (string, bool) {
	if !rec.IsKey() {
		return "", false
	}
	switch rec.Value {
	case KeyPress:
		if IsShift(rec.Code) {
			d.shift++
			return "", false
		}
		text, known := Lookup(rec.Code, d.Shifted())
		if !known {
			d.Log.Debugf("unknown key code=%d", rec.Code)
		}
		return text, true

	case KeyRelease:
		if IsShift(rec.Code) {
			if d.shift == 0 {
				d.Log.Debugf("shift release without press code=%d", rec.Code)
				return "", false
			}
			d.shift--
		}
	}
	return "", false
}

// Feed decodes buf and applies it with Step.
func (d *Decoder) Feed(buf []byte) (string, bool, error) {
	rec, err := Decode(buf)
	if err != nil {
		return "", false, err
	}
	text, ok := d.Step(rec)
	return text, ok, nil
}
