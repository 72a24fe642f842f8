package provision_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"seedbench/internal/provision"
)

func writeScript(t *testing.T, path, body string) {
	t.Helper()
	if err := os.WriteFile(path, []byte("#!/bin/sh\n"+body), 0o755); err != nil {
		t.Fatalf("writing %s: %v", path, err)
	}
}

// echoGenerator reads the seed line from stdin and writes it into the
// expected <prefix>0000.txt file, counting every invocation.
const echoGenerator = `read line
echo "input from $line" > "${1}0000.txt"
echo x >> "${1}count"
`

func newProvisioner(t *testing.T, generatorBody string) (*provision.Provisioner, string) {
	t.Helper()
	base := t.TempDir()
	generatorPath := filepath.Join(base, "generator")
	writeScript(t, generatorPath, generatorBody)
	inputDir := filepath.Join(base, "input")
	return provision.New(generatorPath, inputDir, nil), inputDir
}

func TestEnsureInputGenerates(t *testing.T) {
	p, inputDir := newProvisioner(t, echoGenerator)

	path, err := p.EnsureInput(context.Background(), 7)
	if err != nil {
		t.Fatalf("EnsureInput: %v", err)
	}
	if want := filepath.Join(inputDir, "7.in"); path != want {
		t.Errorf("path: got %q, want %q", path, want)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("reading input: %v", err)
	}
	if got, want := string(data), "input from -seed 7\n"; got != want {
		t.Errorf("input content: got %q, want %q", got, want)
	}
}

func TestEnsureInputIdempotent(t *testing.T) {
	p, _ := newProvisioner(t, echoGenerator)

	first, err := p.EnsureInput(context.Background(), 11)
	if err != nil {
		t.Fatalf("first EnsureInput: %v", err)
	}

	// A second call must not touch the generator at all.
	p.GeneratorPath = filepath.Join(t.TempDir(), "missing-generator")
	second, err := p.EnsureInput(context.Background(), 11)
	if err != nil {
		t.Fatalf("second EnsureInput: %v", err)
	}
	if first != second {
		t.Errorf("paths differ: %q vs %q", first, second)
	}
}

func TestEnsureInputGeneratorProducesNothing(t *testing.T) {
	p, _ := newProvisioner(t, "cat > /dev/null\n")

	_, err := p.EnsureInput(context.Background(), 4)
	var genErr *provision.GenerationError
	if !errors.As(err, &genErr) {
		t.Fatalf("expected GenerationError, got %v", err)
	}
	if genErr.Seed != 4 {
		t.Errorf("seed: got %d, want 4", genErr.Seed)
	}
	if !strings.Contains(genErr.Error(), "4") {
		t.Errorf("error does not name the seed: %v", genErr)
	}
}

func TestEnsureInputSerializesSameSeed(t *testing.T) {
	p, inputDir := newProvisioner(t,
		`read line
sleep 0.1
echo "input from $line" > "${1}0000.txt"
echo x >> "${1}count"
`)

	var wg sync.WaitGroup
	errs := make([]error, 2)
	for i := range errs {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, errs[i] = p.EnsureInput(context.Background(), 3)
		}()
	}
	wg.Wait()
	for i, err := range errs {
		if err != nil {
			t.Fatalf("EnsureInput %d: %v", i, err)
		}
	}

	count, err := os.ReadFile(filepath.Join(inputDir, "3.count"))
	if err != nil {
		t.Fatalf("reading invocation count: %v", err)
	}
	if got := strings.Count(string(count), "x"); got != 1 {
		t.Errorf("generator ran %d times, want 1", got)
	}
}
