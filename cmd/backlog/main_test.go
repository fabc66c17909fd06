package main

import (
	"context"
	"fmt"
	"testing"

	"github.com/rogpeppe/go-internal/testscript"
)

func TestScripts(t *testing.T) {
	testscript.Run(t, testscript.Params{
		Dir: "testdata/script",
		Cmds: map[string]func(ts *testscript.TestScript, neg bool, args []string){
			"backlog": cmdBacklog,
		},
	})
}

// cmdBacklog runs the CLI in-process against files in the script's work
// directory. Later flags in args override the defaults set here.
func cmdBacklog(ts *testscript.TestScript, neg bool, args []string) {
	defaults := []string{
		"--config", ts.MkAbs("backlog.toml"),
		"--store", ts.MkAbs("todos.json"),
	}
	cmd := newRootCmd(ts.Stdout(), ts.Stderr())
	cmd.SetArgs(append(defaults, args...))
	err := cmd.ExecuteContext(context.Background())
	if err != nil {
		fmt.Fprintf(ts.Stderr(), "backlog: %v\n", err)
	}
	switch {
	case err != nil && !neg:
		ts.Fatalf("backlog %v: %v", args, err)
	case err == nil && neg:
		ts.Fatalf("backlog %v: unexpected success", args)
	}
}
