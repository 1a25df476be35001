//go:build !unix

package shell

import "os/exec"

// isolate relies on exec.CommandContext killing the direct child.
func isolate(_ *exec.Cmd) {}
