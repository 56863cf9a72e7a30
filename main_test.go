package main

import "testing"

func TestRootCommand(t *testing.T) {
	if rootCmd.RunE == nil {
		t.Fatal("rootCmd.RunE is not set")
	}

	for _, name := range []string{"config", "man", "generate", "voices", "check"} {
		cmd, _, err := rootCmd.Find([]string{name})
		if err != nil || cmd.Name() != name {
			t.Errorf("Find(%q) = %v, %v", name, cmd, err)
		}
	}
}
