package cmd

import (
	"errors"
	"path/filepath"
	"strings"
	"testing"

	"github.com/iksnae/newschat/internal"
	"github.com/iksnae/newschat/testutil"
)

func TestResetCommand(t *testing.T) {
	home := isolateUserDirs(t)
	api, srv := startBackend(t)
	state := filepath.Join(home, "state.db")
	testutil.CreateSessionStateFixture(t, state, "voosh_session")
	srv.Store().Append(testutil.TestSessionID, internal.UserTurn("q"), internal.AssistantTurn("a"))

	out, _, err := executeCommand(t, "reset", "--api", api, "--state", state)
	if err != nil {
		t.Fatalf("reset error = %v", err)
	}
	if !strings.Contains(out, "session: ") {
		t.Fatalf("output %q should print the new session", out)
	}

	id, _, err := executeCommand(t, "session", "--state", state)
	if err != nil {
		t.Fatalf("session error = %v", err)
	}
	newID := strings.TrimSpace(id)
	if newID == testutil.TestSessionID {
		t.Error("session id was not rotated")
	}
	if !strings.Contains(out, newID) {
		t.Errorf("reset printed %q, saved id is %q", out, newID)
	}
	if len(srv.Store().History(testutil.TestSessionID)) != 0 {
		t.Error("old session history was not discarded on the backend")
	}
}

func TestResetCommand_BackendDownKeepsSession(t *testing.T) {
	home := isolateUserDirs(t)
	state := filepath.Join(home, "state.db")
	testutil.CreateSessionStateFixture(t, state, "voosh_session")

	_, _, err := executeCommand(t, "reset", "--api", deadBackend(t), "--state", state)
	var resetErr *internal.ResetError
	if !errors.As(err, &resetErr) {
		t.Fatalf("error = %v, want ResetError", err)
	}

	id, _, err := executeCommand(t, "session", "--state", state)
	if err != nil {
		t.Fatalf("session error = %v", err)
	}
	if strings.TrimSpace(id) != testutil.TestSessionID {
		t.Errorf("session = %q, want unchanged %q", strings.TrimSpace(id), testutil.TestSessionID)
	}
}
