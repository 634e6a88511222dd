package cli

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

type fakeExec struct {
	loggedIn bool
	failWith error

	calls []string
}

func (f *fakeExec) isLoggedIn() bool { return f.loggedIn }
func (f *fakeExec) record(name string) error {
	f.calls = append(f.calls, name)
	return f.failWith
}
func (f *fakeExec) Register(ctx context.Context) error { return f.record("register") }
func (f *fakeExec) Login(ctx context.Context) error {
	f.loggedIn = true
	return f.record("login")
}
func (f *fakeExec) Me(ctx context.Context) error     { return f.record("me") }
func (f *fakeExec) Verify(ctx context.Context) error { return f.record("verify") }
func (f *fakeExec) Logout(ctx context.Context) error {
	f.loggedIn = false
	return f.record("logout")
}
func (f *fakeExec) Delete(ctx context.Context) error { return f.record("delete") }

// captureOutput replaces printlnFn and returns the collected lines.
func captureOutput(t *testing.T) *[]string {
	t.Helper()
	var lines []string
	orig := printlnFn
	printlnFn = func(a ...any) (int, error) {
		lines = append(lines, strings.TrimSuffix(fmt.Sprintln(a...), "\n"))
		return 0, nil
	}
	t.Cleanup(func() { printlnFn = orig })
	return &lines
}

func TestRunREPL_DispatchesCommands(t *testing.T) {
	out := captureOutput(t)

	input := strings.Join([]string{
		"help",
		"register",
		"login",
		"help",
		"",
		"me",
		"verify",
		"logout",
		"login",
		"delete",
		"foobar",
		"exit",
		"me",
	}, "\n")

	exec := &fakeExec{}
	runREPL(context.Background(), exec, func() string { return "status" }, rdr(input))

	assert.Equal(t, []string{"register", "login", "me", "verify", "logout", "login", "delete"}, exec.calls)
	assert.Contains(t, *out, "Available commands: register, login, exit")
	assert.Contains(t, *out, "Available commands: me, verify, logout, delete, exit")
	assert.Contains(t, *out, "Unknown command: foobar")
	assert.Contains(t, *out, "Bye!")
	assert.Contains(t, *out, "ua status> ")
}

func TestRunREPL_PrintsCommandErrors(t *testing.T) {
	out := captureOutput(t)

	exec := &fakeExec{failWith: errors.New("server unavailable")}
	runREPL(context.Background(), exec, func() string { return "" }, rdr("me\nquit\n"))

	assert.Equal(t, []string{"me"}, exec.calls)
	assert.Contains(t, *out, "Error: server unavailable")
}

func TestRunREPL_StopsOnEOF(t *testing.T) {
	captureOutput(t)

	exec := &fakeExec{}
	runREPL(context.Background(), exec, func() string { return "" }, rdr("verify"))

	assert.Equal(t, []string{"verify"}, exec.calls)
}
