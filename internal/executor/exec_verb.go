package executor

import (
	"bytes"
	"context"
	"fmt"
	"os/exec"
	"strings"

	"github.com/supernovae-st/nika/internal/binding"
	"github.com/supernovae-st/nika/internal/workflow"
	"github.com/supernovae-st/nika/pkg/nikaerr"
)

func (e *TaskExecutor) executeExec(ctx context.Context, action *workflow.ExecAction, bound map[string]any) (string, error) {
	command, err := binding.ResolveTemplate(action.Command, bound)
	if err != nil {
		return "", err
	}

	cctx, cancel := context.WithTimeout(ctx, execTimeout)
	defer cancel()

	cmd := exec.CommandContext(cctx, "sh", "-c", command)
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		if cctx.Err() != nil {
			return "", nikaerr.New(nikaerr.CodeTaskTimeout,
				fmt.Sprintf("command timed out after %s", execTimeout), cctx.Err())
		}
		return "", nikaerr.New(nikaerr.CodeTaskFailed,
			fmt.Sprintf("command failed: %s", strings.TrimSpace(stderr.String())), err)
	}
	return strings.TrimSpace(stdout.String()), nil
}
