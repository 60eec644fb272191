package cmd

import (
	"testing"
)

func TestRootCommands(t *testing.T) {
	root := NewRootCmd()

	for _, path := range [][]string{{"serve"}, {"chat"}, {"index"}, {"eval", "run"}, {"eval", "report"}} {
		found, _, err := root.Find(path)
		if err != nil {
			t.Errorf("Expected command %v: %v", path, err)
			continue
		}
		if found.Name() != path[len(path)-1] {
			t.Errorf("Expected %s, got %s", path[len(path)-1], found.Name())
		}
	}

	if root.PersistentFlags().Lookup("config") == nil {
		t.Error("Expected persistent --config flag")
	}
}

func TestServePortFlag(t *testing.T) {
	serve, _, err := NewRootCmd().Find([]string{"serve"})
	if err != nil {
		t.Fatal(err)
	}
	flag := serve.Flags().ShorthandLookup("p")
	if flag == nil || flag.Name != "port" {
		t.Fatal("Expected -p shorthand for --port")
	}
}
