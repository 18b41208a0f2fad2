package cmdtool

import (
	"bytes"
	"context"
	"os"
	"os/exec"
	"strings"

	"bitbucket.org/airenas/vtgo/internal/pkg/cmdapp"
	"github.com/pkg/errors"
)

//RunFunc declares function to invoke an external tool.
//Returns stdout, the captured diagnostic stream goes into the error
type RunFunc func(ctx context.Context, name string, args ...string) (string, error)

//Run executes the external tool and returns its stdout.
//On non zero exit the stderr output is attached to the error so the
//caller can extract a human readable cause
func Run(ctx context.Context, name string, args ...string) (string, error) {
	cmdapp.Log.Debugf("Running command: %s %s", name, strings.Join(args, " "))

	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Env = os.Environ()

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		return "", errors.Wrap(err, "Output: "+strings.TrimSpace(stderr.String()))
	}
	return stdout.String(), nil
}
