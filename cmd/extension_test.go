package cmd

import (
	"os"
	"path/filepath"
	"runtime"
	"slices"
	"strings"
	"testing"
)

func TestExtensionEnv(t *testing.T) {
	cfg := &Config{
		Session:       "s.jsonl",
		PriceSelector: "$.prices",
		Currency:      "EUR",
		Balance:       "10",
		LogLevel:      "info",
	}
	env := extensionEnv(cfg)
	for _, want := range []string{
		"PTRADE_SESSION=s.jsonl",
		"PTRADE_PRICES=",
		"PTRADE_PRICE_SELECTOR=$.prices",
		"PTRADE_CURRENCY=EUR",
		"PTRADE_BALANCE=10",
		"PTRADE_LOG_LEVEL=info",
	} {
		if !slices.Contains(env, want) {
			t.Errorf("extensionEnv() = %v, missing %q", env, want)
		}
	}
}

func TestRunExtension(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("extension scripts need a unix shell")
	}
	dir := t.TempDir()
	script := "#!/bin/sh\necho \"$PTRADE_CURRENCY $PTRADE_BALANCE\" > \"$1\"\nexit $2\n"
	if err := os.WriteFile(filepath.Join(dir, "ptrade-hello"), []byte(script), 0o755); err != nil {
		t.Fatal(err)
	}
	t.Setenv("PATH", dir)
	t.Setenv("PTRADE_CURRENCY", "EUR")

	out := filepath.Join(dir, "out.txt")
	found, code := RunExtension("hello", []string{out, "0"})
	if !found || code != 0 {
		t.Fatalf("RunExtension(hello) = %v, %d, want true, 0", found, code)
	}
	data, err := os.ReadFile(out)
	if err != nil {
		t.Fatal(err)
	}
	if got := strings.TrimSpace(string(data)); got != "EUR 10000" {
		t.Errorf("extension saw %q, want %q", got, "EUR 10000")
	}

	if found, code := RunExtension("hello", []string{out, "3"}); !found || code != 3 {
		t.Errorf("RunExtension(hello, exit 3) = %v, %d, want true, 3", found, code)
	}
	if found, _ := RunExtension("missing", nil); found {
		t.Error("RunExtension(missing) found an extension")
	}
}
