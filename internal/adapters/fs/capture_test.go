package fs

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/bft-labs/vtcheck/internal/ports"
	"github.com/bft-labs/vtcheck/internal/testutil"
)

func TestCaptureDialer_RecordsStream(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "runs", "scroll.bin")
	rec := &testutil.Recorder{}
	d := NewCaptureDialer(&testutil.Dialer{Transport: rec}, path)

	tr, err := d.Dial(ports.DefaultLineConfig("/dev/ttyUSB0", 115200))
	if err != nil {
		t.Fatalf("Dial returned error: %v", err)
	}

	for _, chunk := range []string{"\x1b[2J", "\x1b[H", "scroll line 00\r\n"} {
		if _, err := tr.Write([]byte(chunk)); err != nil {
			t.Fatalf("Write returned error: %v", err)
		}
		if err := tr.Flush(); err != nil {
			t.Fatalf("Flush returned error: %v", err)
		}
	}

	if _, err := os.Stat(path); !os.IsNotExist(err) {
		t.Fatalf("capture visible before close: %v", err)
	}

	if err := tr.Close(); err != nil {
		t.Fatalf("Close returned error: %v", err)
	}
	if !rec.Closed {
		t.Error("underlying transport not closed")
	}
	if rec.Flushes != 3 {
		t.Errorf("flushes = %d, want 3", rec.Flushes)
	}

	got, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read capture: %v", err)
	}
	want := "\x1b[2J\x1b[Hscroll line 00\r\n"
	if string(got) != want {
		t.Errorf("capture = %q, want %q", got, want)
	}
	if string(rec.Bytes()) != want {
		t.Errorf("device stream = %q, want %q", rec.Bytes(), want)
	}
	if _, err := os.Stat(path + ".tmp"); !os.IsNotExist(err) {
		t.Errorf("temp file left behind: %v", err)
	}
}

func TestCaptureDialer_SkipsFailedWrites(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.bin")
	rec := &testutil.Recorder{FailAfter: 2}
	d := NewCaptureDialer(&testutil.Dialer{Transport: rec}, path)

	tr, err := d.Dial(ports.DefaultLineConfig("/dev/ttyUSB0", 115200))
	if err != nil {
		t.Fatalf("Dial returned error: %v", err)
	}
	if _, err := tr.Write([]byte("ok")); err != nil {
		t.Fatalf("first write: %v", err)
	}
	if _, err := tr.Write([]byte("lost")); err == nil {
		t.Fatal("second write should fail")
	}
	if err := tr.Close(); err != nil {
		t.Fatalf("Close returned error: %v", err)
	}

	got, _ := os.ReadFile(path)
	if string(got) != "ok" {
		t.Errorf("capture = %q, want %q", got, "ok")
	}
}

func TestCaptureDialer_DialErrorRemovesTemp(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.bin")
	cause := errors.New("no device")
	d := NewCaptureDialer(&testutil.Dialer{Err: cause}, path)

	_, err := d.Dial(ports.DefaultLineConfig("/dev/ttyUSB0", 115200))
	if !errors.Is(err, cause) {
		t.Fatalf("Dial error = %v, want %v", err, cause)
	}
	if _, err := os.Stat(path + ".tmp"); !os.IsNotExist(err) {
		t.Errorf("temp file left behind: %v", err)
	}
	if d.Path() != path {
		t.Errorf("Path() = %q, want %q", d.Path(), path)
	}
}
