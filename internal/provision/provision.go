package provision

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"
	"strings"
	"sync"

	"go.uber.org/zap"
)

// GenerationError reports a generator run that did not produce the expected
// input file for a seed.
type GenerationError struct {
	Seed int
	Err  error
}

func (e *GenerationError) Error() string {
	return fmt.Sprintf("generating input for seed %d: %v", e.Seed, e.Err)
}

func (e *GenerationError) Unwrap() error { return e.Err }

// Provisioner materializes per-seed input files, invoking the external
// generator for seeds that have no cached input yet. Inputs are deterministic
// per seed, so an existing file is always returned untouched.
type Provisioner struct {
	GeneratorPath string
	InputDir      string

	log *zap.SugaredLogger

	mu    sync.Mutex
	seeds map[int]*sync.Mutex
}

func New(generatorPath, inputDir string, log *zap.SugaredLogger) *Provisioner {
	if log == nil {
		log = zap.NewNop().Sugar()
	}
	return &Provisioner{
		GeneratorPath: generatorPath,
		InputDir:      inputDir,
		log:           log,
		seeds:         make(map[int]*sync.Mutex),
	}
}

// InputPath returns the canonical input file path for a seed.
func (p *Provisioner) InputPath(seed int) string {
	return filepath.Join(p.InputDir, strconv.Itoa(seed)+".in")
}

// EnsureInput returns the canonical input file for seed, generating it first
// if it does not exist. Generation for the same seed is serialized, so a
// batch containing duplicate seeds cannot race the rename.
func (p *Provisioner) EnsureInput(ctx context.Context, seed int) (string, error) {
	lock := p.seedLock(seed)
	lock.Lock()
	defer lock.Unlock()

	inputPath := p.InputPath(seed)
	if _, err := os.Stat(inputPath); err == nil {
		return inputPath, nil
	}

	if err := os.MkdirAll(p.InputDir, 0o755); err != nil {
		return "", &GenerationError{Seed: seed, Err: err}
	}

	// The generator takes an output path prefix as its argument and the seed
	// on stdin, and writes <prefix>0000.txt.
	prefix := filepath.Join(p.InputDir, strconv.Itoa(seed)+".")
	p.log.Infow("generating input", "seed", seed)
	cmd := exec.CommandContext(ctx, p.GeneratorPath, prefix)
	cmd.Stdin = strings.NewReader(fmt.Sprintf("-seed %d\n", seed))
	if out, err := cmd.CombinedOutput(); err != nil {
		return "", &GenerationError{Seed: seed, Err: fmt.Errorf("%w: %s", err, out)}
	}

	if err := os.Rename(prefix+"0000.txt", inputPath); err != nil {
		return "", &GenerationError{Seed: seed, Err: err}
	}
	return inputPath, nil
}

func (p *Provisioner) seedLock(seed int) *sync.Mutex {
	p.mu.Lock()
	defer p.mu.Unlock()
	lock, ok := p.seeds[seed]
	if !ok {
		lock = &sync.Mutex{}
		p.seeds[seed] = lock
	}
	return lock
}
