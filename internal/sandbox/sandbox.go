package sandbox

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/moby/moby/api/types/container"
	"github.com/moby/moby/api/types/mount"
	"github.com/moby/moby/client"
)

// Runner executes judge processes inside a container instead of directly on
// the host. The harness stdio-to-file contract is preserved through shell
// redirections against bind-mounted paths.
type Runner struct {
	Image         string
	CPULimit      float64
	MemoryLimitMB int64
}

// JudgeOpts describes one containerized judge invocation. All paths are
// host paths; Out and Log files must already exist as bind targets.
type JudgeOpts struct {
	JudgePath  string
	SolverPath string
	InputPath  string
	OutPath    string
	LogPath    string
	Timeout    time.Duration
}

type RunResult struct {
	ExitCode int
	TimedOut bool
	Duration time.Duration
}

// RunJudge runs `judge <solver>` in a fresh container with stdin from the
// input file and stdout/stderr redirected to the capture files. The
// container is killed and reported as timed out (exit code 124) when the
// timeout expires, and is always removed.
func (r *Runner) RunJudge(ctx context.Context, opts *JudgeOpts) (*RunResult, error) {
	cli, err := client.NewClientWithOpts(client.FromEnv, client.WithAPIVersionNegotiation())
	if err != nil {
		return nil, fmt.Errorf("creating docker client: %w", err)
	}
	defer cli.Close()

	binds := []struct {
		host, target string
		readOnly     bool
	}{
		{opts.JudgePath, "/judge", true},
		{opts.SolverPath, "/solver", true},
		{opts.InputPath, "/input.in", true},
		{opts.OutPath, "/run/seed.out", false},
		{opts.LogPath, "/run/seed.log", false},
	}
	mounts := make([]mount.Mount, 0, len(binds))
	for _, b := range binds {
		abs, err := filepath.Abs(b.host)
		if err != nil {
			return nil, fmt.Errorf("resolving %s: %w", b.host, err)
		}
		mounts = append(mounts, mount.Mount{
			Type:     mount.TypeBind,
			Source:   abs,
			Target:   b.target,
			ReadOnly: b.readOnly,
		})
	}

	initTrue := true
	hostCfg := &container.HostConfig{
		Mounts:      mounts,
		Init:        &initTrue,
		NetworkMode: "none",
	}
	if r.CPULimit > 0 {
		hostCfg.NanoCPUs = int64(r.CPULimit * 1e9)
	}
	if r.MemoryLimitMB > 0 {
		hostCfg.Memory = r.MemoryLimitMB << 20
	}

	containerCfg := &container.Config{
		Image:  r.Image,
		Cmd:    []string{"sh", "-c", "/judge /solver < /input.in > /run/seed.out 2> /run/seed.log"},
		Labels: map[string]string{"seedbench": "true"},
	}

	createResp, err := cli.ContainerCreate(ctx, client.ContainerCreateOptions{
		Config:     containerCfg,
		HostConfig: hostCfg,
	})
	if err != nil {
		return nil, fmt.Errorf("creating container: %w", err)
	}
	containerID := createResp.ID
	defer func() {
		cli.ContainerRemove(context.Background(), containerID, client.ContainerRemoveOptions{Force: true})
	}()

	start := time.Now()
	if _, err := cli.ContainerStart(ctx, containerID, client.ContainerStartOptions{}); err != nil {
		return nil, fmt.Errorf("starting container: %w", err)
	}

	timeoutCtx, cancel := context.WithTimeout(ctx, opts.Timeout)
	defer cancel()

	waitResult := cli.ContainerWait(timeoutCtx, containerID, client.ContainerWaitOptions{
		Condition: container.WaitConditionNotRunning,
	})
	for {
		select {
		case err := <-waitResult.Error:
			if err != nil {
				cli.ContainerKill(context.Background(), containerID, client.ContainerKillOptions{Signal: "SIGKILL"})
				return &RunResult{
					ExitCode: 124,
					TimedOut: true,
					Duration: time.Since(start),
				}, nil
			}
			// nil error means no error on this channel; wait for result
		case status := <-waitResult.Result:
			return &RunResult{
				ExitCode: int(status.StatusCode),
				TimedOut: false,
				Duration: time.Since(start),
			}, nil
		}
	}
}
