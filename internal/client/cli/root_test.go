package cli

import (
	"bufio"
	"context"
	"strings"
	"testing"
)

type fakeExec struct {
	loggedIn bool

	calls []string
	args  [][]string
}

func (f *fakeExec) record(name string, args []string) {
	f.calls = append(f.calls, name)
	f.args = append(f.args, args)
}

func (f *fakeExec) isLoggedIn() bool { return f.loggedIn }
func (f *fakeExec) Register(ctx context.Context) error {
	f.record("register", nil)
	return nil
}
func (f *fakeExec) Login(ctx context.Context) error {
	f.record("login", nil)
	f.loggedIn = true
	return nil
}
func (f *fakeExec) Logout(ctx context.Context) error {
	f.record("logout", nil)
	f.loggedIn = false
	return nil
}
func (f *fakeExec) Ping(ctx context.Context) error { f.record("ping", nil); return nil }
func (f *fakeExec) List(ctx context.Context) error { f.record("list", nil); return nil }
func (f *fakeExec) ChangeDir(ctx context.Context, args []string) error {
	f.record("cd", args)
	return nil
}
func (f *fakeExec) Up(ctx context.Context) error  { f.record("up", nil); return nil }
func (f *fakeExec) Pwd(ctx context.Context) error { f.record("pwd", nil); return nil }
func (f *fakeExec) Upload(ctx context.Context, args []string) error {
	f.record("upload", args)
	return nil
}
func (f *fakeExec) Download(ctx context.Context, args []string) error {
	f.record("download", args)
	return nil
}
func (f *fakeExec) Remove(ctx context.Context, args []string) error {
	f.record("rm", args)
	return nil
}
func (f *fakeExec) BloodPressure(ctx context.Context, args []string) error {
	f.record("bp", args)
	return nil
}
func (f *fakeExec) Profile(ctx context.Context, args []string) error {
	f.record("profile", args)
	return nil
}

func TestRunREPL_LoginFlowAndCommands(t *testing.T) {
	origPrint := printlnFn
	printlnFn = func(...any) (int, error) { return 0, nil }
	t.Cleanup(func() { printlnFn = origPrint })

	input := strings.NewReader(strings.Join([]string{
		"help",
		"login",
		"help",
		"ls",
		"cd blood_pressure",
		"upload ./readings.csv",
		"bp list",
		"up",
		"foobar",
		"exit",
	}, "\n"))

	exec := &fakeExec{loggedIn: false}
	sc := bufio.NewScanner(input)

	runREPL(context.Background(), exec, func() string { return "status" }, sc)

	wantOrder := []string{"login", "list", "cd", "upload", "bp", "up"}
	if len(exec.calls) != len(wantOrder) {
		t.Fatalf("calls mismatch: got %v, want %v", exec.calls, wantOrder)
	}
	for i, c := range exec.calls {
		if c != wantOrder[i] {
			t.Fatalf("commands order mismatch: got %v, want %v", exec.calls, wantOrder)
		}
	}
	if got := exec.args[2]; len(got) != 1 || got[0] != "blood_pressure" {
		t.Fatalf("cd args mismatch: %v", got)
	}
	if got := exec.args[4]; len(got) != 1 || got[0] != "list" {
		t.Fatalf("bp args mismatch: %v", got)
	}
}

func TestRunREPL_EOFStops(t *testing.T) {
	origPrint := printlnFn
	printlnFn = func(...any) (int, error) { return 0, nil }
	t.Cleanup(func() { printlnFn = origPrint })

	input := strings.NewReader("\n\n")
	exec := &fakeExec{loggedIn: true}
	sc := bufio.NewScanner(input)

	runREPL(context.Background(), exec, func() string { return "s" }, sc)

	if len(exec.calls) != 0 {
		t.Fatalf("unexpected calls: %v", exec.calls)
	}
}

func TestRunREPL_QuitPrintsBye(t *testing.T) {
	var lines []string
	origPrint := printlnFn
	printlnFn = func(args ...any) (int, error) {
		for _, a := range args {
			if s, ok := a.(string); ok {
				lines = append(lines, s)
			}
		}
		return 0, nil
	}
	t.Cleanup(func() { printlnFn = origPrint })

	input := strings.NewReader("quit\n")
	sc := bufio.NewScanner(input)
	runREPL(context.Background(), &fakeExec{}, func() string { return "" }, sc)

	found := false
	for _, l := range lines {
		if l == "Bye!" {
			found = true
		}
	}
	if !found {
		t.Fatalf("missing farewell in output: %v", lines)
	}
}
