package main

import (
	"fmt"
	"os"
	"strings"

	evdev "github.com/holoplot/go-evdev"
	"github.com/juju/errors"
	"golang.org/x/sys/unix"
)

// Keyboard is an input device that looks like a physical keyboard.
type Keyboard struct {
	Path string
	Name string
}

func (k Keyboard) String() string { return fmt.Sprintf("%s (%s)", k.Path, k.Name) }

// FindKeyboards enumerates /dev/input/ devices and returns those that
// have both KEY_A and KEY_ENTER capabilities.
func FindKeyboards() ([]Keyboard, error) {
	paths, err := evdev.ListDevicePaths()
	if err != nil {
		return nil, errors.Annotate(err, "list input devices")
	}

	var kbds []Keyboard
	for _, p := range paths {
		dev, err := evdev.Open(p.Path)
		if err != nil {
			continue
		}
		if isKeyboard(dev.CapableEvents(evdev.EV_KEY)) {
			kbds = append(kbds, Keyboard{Path: p.Path, Name: p.Name})
		}
		dev.Close()
	}
	return kbds, nil
}

func isKeyboard(codes []evdev.EvCode) bool {
	hasA, hasEnter := false, false
	for _, c := range codes {
		switch c {
		case evdev.KEY_A:
			hasA = true
		case evdev.KEY_ENTER:
			hasEnter = true
		}
	}
	return hasA && hasEnter
}

// DefaultDevice returns the path of the only keyboard on the system.
func DefaultDevice() (string, error) {
	kbds, err := FindKeyboards()
	if err != nil {
		return "", err
	}
	return chooseDevice(kbds)
}

func chooseDevice(kbds []Keyboard) (string, error) {
	switch len(kbds) {
	case 0:
		return "", errors.New("no keyboard devices found\n" +
			"Make sure you can read /dev/input: run as root or join the 'input' group:\n" +
			"  sudo usermod -aG input $USER")
	case 1:
		return kbds[0].Path, nil
	}
	names := make([]string, len(kbds))
	for i, k := range kbds {
		names[i] = k.String()
	}
	return "", errors.Errorf("several keyboard devices detected: %s\nselect one or more with -d",
		strings.Join(names, ", "))
}

// CheckReadable fails early with a hint when the device cannot be opened.
func CheckReadable(path string) error {
	err := unix.Access(path, unix.R_OK)
	switch err {
	case nil:
		return nil
	case unix.EACCES, unix.EPERM:
		return errors.Errorf("%s: permission denied, run as root or join the 'input' group", path)
	case unix.ENOENT:
		return errors.NotFoundf("device %s", path)
	}
	return errors.Annotatef(err, "access %s", path)
}

// openDevices opens every path for reading. On error the already opened
// files are closed.
func openDevices(paths []string) ([]*os.File, error) {
	files := make([]*os.File, 0, len(paths))
	for _, p := range paths {
		if err := CheckReadable(p); err != nil {
			closeFiles(files)
			return nil, err
		}
		f, err := os.Open(p)
		if err != nil {
			closeFiles(files)
			return nil, errors.Trace(err)
		}
		files = append(files, f)
	}
	return files, nil
}

func closeFiles(files []*os.File) {
	for _, f := range files {
		f.Close()
	}
}
