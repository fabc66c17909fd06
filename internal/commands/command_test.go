package commands

import (
	"errors"
	"testing"
)

func TestParseSupportedCommands(t *testing.T) {
	cases := []struct {
		in       string
		typeWant Type
	}{
		{"/add pay rent", TypeAdd},
		{"a water plants", TypeAdd},
		{"done", TypeDone},
		{"/done 2 5", TypeDone},
		{"delete 1", TypeDelete},
		{"/rm 3", TypeDelete},
		{"drop 1", TypeDrop},
		{"EDIT 4", TypeEdit},
		{"/pick", TypePick},
		{"random", TypePick},
		{"check", TypeCheck},
	}

	for _, tc := range cases {
		cmd, err := Parse(tc.in)
		if err != nil {
			t.Fatalf("parse %q failed: %v", tc.in, err)
		}
		if cmd.Type != tc.typeWant {
			t.Fatalf("parse %q type = %s, want %s", tc.in, cmd.Type, tc.typeWant)
		}
	}
}

func TestParseArguments(t *testing.T) {
	cmd, err := Parse("/add   call   mom ")
	if err != nil || cmd.Add.Text != "call mom" {
		t.Fatalf("unexpected add parse: %+v err=%v", cmd.Add, err)
	}

	cmd, err = Parse("done 2 5")
	if err != nil {
		t.Fatalf("parse done: %v", err)
	}
	if *cmd.Done != (DoneArgs{Index: 1, HasIndex: true, Days: 5}) {
		t.Fatalf("unexpected done args: %+v", cmd.Done)
	}

	cmd, err = Parse("done")
	if err != nil || cmd.Done.HasIndex || cmd.Done.Days != 0 {
		t.Fatalf("unexpected bare done: %+v err=%v", cmd.Done, err)
	}

	cmd, err = Parse("drop #3")
	if err != nil || cmd.Drop.Index != 2 {
		t.Fatalf("unexpected drop parse: %+v err=%v", cmd.Drop, err)
	}
}

func TestParseRejectsBadArguments(t *testing.T) {
	for _, in := range []string{
		"/add",
		"add    ",
		"done 0",
		"done x",
		"done 1 0",
		"done 1 2 3",
		"delete",
		"delete -1",
		"edit 1 2",
		"pick now",
	} {
		_, err := Parse(in)
		var ce *CommandError
		if !errors.As(err, &ce) || ce.Code != ErrCodeInvalidArgument {
			t.Fatalf("parse %q: expected invalid argument, got %v", in, err)
		}
	}
}

func TestParseEmptyInput(t *testing.T) {
	for _, in := range []string{"", "   ", "/"} {
		_, err := Parse(in)
		var ce *CommandError
		if !errors.As(err, &ce) || ce.Code != ErrCodeEmptyInput {
			t.Fatalf("parse %q: expected empty input error, got %v", in, err)
		}
	}
}

func TestParseUnknownCommand(t *testing.T) {
	_, err := Parse("/snooze do x")
	if err == nil {
		t.Fatal("expected error")
	}
	var ce *CommandError
	if !errors.As(err, &ce) || ce.Code != ErrCodeUnknownCommand {
		t.Fatalf("expected unknown command error, got %v", err)
	}
}

func TestExecuteDispatch(t *testing.T) {
	cmd, err := Parse("/add write docs")
	if err != nil {
		t.Fatalf("parse failed: %v", err)
	}

	called := false
	res, err := Execute(cmd, Handlers{
		Add: func(a AddArgs) (Result, error) {
			called = true
			if a.Text != "write docs" {
				t.Fatalf("unexpected text: %q", a.Text)
			}
			return Result{Message: "ok"}, nil
		},
	})
	if err != nil {
		t.Fatalf("execute failed: %v", err)
	}
	if !called || res.Message != "ok" {
		t.Fatalf("dispatch failed, called=%v res=%+v", called, res)
	}
}

func TestExecuteDispatchesIndexed(t *testing.T) {
	var got []string
	handlers := Handlers{
		Delete: func(a IndexArgs) (Result, error) { got = append(got, "delete"); return Result{}, nil },
		Drop:   func(a IndexArgs) (Result, error) { got = append(got, "drop"); return Result{}, nil },
		Edit:   func(a IndexArgs) (Result, error) { got = append(got, "edit"); return Result{}, nil },
		Pick:   func() (Result, error) { got = append(got, "pick"); return Result{}, nil },
		Check:  func() (Result, error) { got = append(got, "check"); return Result{}, nil },
	}
	for _, in := range []string{"delete 1", "drop 1", "edit 1", "pick", "check"} {
		cmd, err := Parse(in)
		if err != nil {
			t.Fatalf("parse %q: %v", in, err)
		}
		if _, err := Execute(cmd, handlers); err != nil {
			t.Fatalf("execute %q: %v", in, err)
		}
	}
	want := []string{"delete", "drop", "edit", "pick", "check"}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("dispatch order %v, want %v", got, want)
		}
	}
}

func TestExecuteMissingHandler(t *testing.T) {
	cmd, err := Parse("check")
	if err != nil {
		t.Fatalf("parse failed: %v", err)
	}
	_, err = Execute(cmd, Handlers{})
	if err == nil {
		t.Fatal("expected error")
	}
	var ce *CommandError
	if !errors.As(err, &ce) || ce.Code != ErrCodeHandlerMissing {
		t.Fatalf("expected missing handler error, got %v", err)
	}
}
