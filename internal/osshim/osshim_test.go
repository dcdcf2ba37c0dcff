package osshim

import (
	"os"
	"path/filepath"
	"testing"
)

func TestOpenWriteThenOpenRead(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "hello.txt")

	w, res := OpenWrite(path, true)
	if res.Status != Success {
		t.Fatalf("OpenWrite status = %v, err = %v", res.Status, res.Err)
	}

	if res := w.WriteAll([]byte("hello world")); res.Status != Success {
		t.Fatalf("WriteAll status = %v, err = %v", res.Status, res.Err)
	}

	if res := w.Close(); res.Status != Success {
		t.Fatalf("Close status = %v", res.Status)
	}

	r, res := OpenRead(path)
	if res.Status != Success {
		t.Fatalf("OpenRead status = %v, err = %v", res.Status, res.Err)
	}
	defer r.Close()

	buf := make([]byte, 64)
	n, res := r.Read(buf)
	if res.Status != Success {
		t.Fatalf("Read status = %v", res.Status)
	}

	if got := string(buf[:n]); got != "hello world" {
		t.Errorf("Read = %q, want %q", got, "hello world")
	}
}

func TestOpenReadMissingFileIsInvalidArgument(t *testing.T) {
	_, res := OpenRead(filepath.Join(t.TempDir(), "does-not-exist"))
	if res.Status != InvalidArgument {
		t.Errorf("status = %v, want InvalidArgument", res.Status)
	}
}

func TestCloseNilFileIsSuccess(t *testing.T) {
	var f *File
	if res := f.Close(); res.Status != Success {
		t.Errorf("Close(nil) status = %v, want Success", res.Status)
	}
}

func TestStdoutStderrAreStable(t *testing.T) {
	if Stdout() != Stdout() {
		t.Error("Stdout() returned different handles across calls")
	}

	if Stderr() != Stdout() && Stderr().f != os.Stderr {
		t.Error("Stderr() did not wrap os.Stderr")
	}
}

func TestStartTaskJoinReportsSuccess(t *testing.T) {
	ran := false
	task := StartTask(func(t *Task) { ran = true })

	if res := task.Join(); res.Status != Success {
		t.Errorf("Join status = %v", res.Status)
	}

	if !ran {
		t.Error("task function did not run")
	}
}

func TestStartTaskRecoversPanic(t *testing.T) {
	task := StartTask(func(t *Task) { panic("boom") })

	res := task.Join()
	if res.Status != SystemFailure {
		t.Errorf("Join status after panic = %v, want SystemFailure", res.Status)
	}
}

func TestTaskLastError(t *testing.T) {
	task := StartTask(func(t *Task) {
		t.SetLastError(nil)
	})
	task.Join()

	if task.LastError() != nil {
		t.Error("expected nil last error")
	}
}
