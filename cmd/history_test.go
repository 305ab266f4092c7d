package cmd

import (
	"path/filepath"
	"strings"
	"testing"

	"github.com/iksnae/newschat/internal"
	"github.com/iksnae/newschat/testutil"
)

func TestHistoryCommand(t *testing.T) {
	home := isolateUserDirs(t)
	api, srv := startBackend(t)
	state := filepath.Join(home, "state.db")
	testutil.CreateSessionStateFixture(t, state, "voosh_session")

	srv.Store().Append(testutil.TestSessionID,
		internal.UserTurn("first question"),
		internal.AssistantTurn("first answer"),
		internal.UserTurn("second question"),
		internal.AssistantTurn(internal.ErrorMarker),
	)

	tests := []struct {
		name    string
		args    []string
		want    []string
		notWant []string
	}{
		{
			name: "full transcript",
			args: []string{"history"},
			want: []string{testutil.TestSessionID, "Turns: 4", "first question", "first answer", "[4/4]", internal.ErrorMarker},
		},
		{
			name:    "last two turns",
			args:    []string{"history", "--limit", "2"},
			want:    []string{"(2 earlier turn(s))", "second question", "[3/4]"},
			notWant: []string{"first question"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			args := append(tt.args, "--api", api, "--state", state)
			out, _, err := executeCommand(t, args...)
			if err != nil {
				t.Fatalf("history error = %v", err)
			}
			for _, s := range tt.want {
				if !strings.Contains(out, s) {
					t.Errorf("output should contain %q:\n%s", s, out)
				}
			}
			for _, s := range tt.notWant {
				if strings.Contains(out, s) {
					t.Errorf("output should not contain %q:\n%s", s, out)
				}
			}
		})
	}
}

func TestHistoryCommand_BackendDown(t *testing.T) {
	isolateUserDirs(t)

	out, _, err := executeCommand(t, "history", "--api", deadBackend(t), "--ephemeral")
	if err != nil {
		t.Fatalf("history should not fail when the backend is down: %v", err)
	}
	if !strings.Contains(out, "No turns yet") {
		t.Errorf("output %q should show an empty transcript", out)
	}
}
