package panicrt

import (
	"os"
	"os/exec"
	"strings"
	"testing"
)

// Panic and PanicAt call os.Exit, so they are exercised the standard Go way:
// re-exec this test binary in a subprocess with an env var selecting the
// panic path, and assert on the subprocess's stderr and exit code.

func TestMain(m *testing.M) {
	switch os.Getenv("PANICRT_TEST_MODE") {
	case "panic":
		Panic("something went wrong")
		return
	case "panic_at":
		PanicAt("bad index", "heap/index.go", 42)
		return
	}

	os.Exit(m.Run())
}

func runSubprocess(t *testing.T, mode string) (stderr string, exitCode int) {
	t.Helper()

	cmd := exec.Command(os.Args[0], "-test.run=TestMain")
	cmd.Env = append(os.Environ(), "PANICRT_TEST_MODE="+mode)

	out, err := cmd.CombinedOutput()
	exitCode = 0

	if exitErr, ok := err.(*exec.ExitError); ok {
		exitCode = exitErr.ExitCode()
	} else if err != nil {
		t.Fatalf("failed to run subprocess: %v", err)
	}

	return string(out), exitCode
}

func TestPanicBannerShape(t *testing.T) {
	out, code := runSubprocess(t, "panic")

	if code != 1 {
		t.Errorf("exit code = %d, want 1", code)
	}

	for _, want := range []string{
		"PANIC: Runtime Error",
		"Time:",
		"PID:",
		"Message: something went wrong",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("banner missing %q, got:\n%s", want, out)
		}
	}

	if strings.Contains(out, "Location:") {
		t.Error("Panic should not include a Location line")
	}
}

func TestPanicAtIncludesLocation(t *testing.T) {
	out, code := runSubprocess(t, "panic_at")

	if code != 1 {
		t.Errorf("exit code = %d, want 1", code)
	}

	if !strings.Contains(out, "Location: heap/index.go:42") {
		t.Errorf("banner missing location line, got:\n%s", out)
	}
}
