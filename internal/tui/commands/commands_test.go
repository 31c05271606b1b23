package commands

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func TestCopyAgenda(t *testing.T) {
	orig := writeClipboard
	t.Cleanup(func() { writeClipboard = orig })

	var copied string
	writeClipboard = func(s string) error {
		copied = s
		return nil
	}

	msg := CopyAgenda("agenda text")()
	if _, ok := msg.(StatusMsg); !ok {
		t.Fatalf("expected StatusMsg, got %T", msg)
	}
	if copied != "agenda text" {
		t.Errorf("clipboard = %q", copied)
	}
}

func TestCopyAgenda_Error(t *testing.T) {
	orig := writeClipboard
	t.Cleanup(func() { writeClipboard = orig })
	writeClipboard = func(string) error { return errors.New("no clipboard") }

	msg := CopyAgenda("x")()
	errMsg, ok := msg.(ErrMsg)
	if !ok {
		t.Fatalf("expected ErrMsg, got %T", msg)
	}
	if errMsg.Err == nil {
		t.Error("expected wrapped error")
	}
}

func TestWriteExport(t *testing.T) {
	path := filepath.Join(t.TempDir(), "day.ics")

	msg := WriteExport(path, []byte("BEGIN:VCALENDAR"))()
	if _, ok := msg.(StatusMsg); !ok {
		t.Fatalf("expected StatusMsg, got %T", msg)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if string(data) != "BEGIN:VCALENDAR" {
		t.Errorf("file = %q", data)
	}
}

func TestWriteExport_Error(t *testing.T) {
	msg := WriteExport(filepath.Join(t.TempDir(), "missing", "day.ics"), nil)()
	if _, ok := msg.(ErrMsg); !ok {
		t.Fatalf("expected ErrMsg, got %T", msg)
	}
}

func TestStatus(t *testing.T) {
	if msg, ok := Status("hi")().(StatusMsg); !ok || msg.Msg != "hi" {
		t.Errorf("Status() = %#v", msg)
	}
}
