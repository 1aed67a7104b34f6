package library

import (
	"os/exec"
	"runtime"
)

// openPath opens the file or folder with the default system application.
func openPath(path string) error {
	var cmd *exec.Cmd
	switch runtime.GOOS {
	case "windows":
		cmd = exec.Command("cmd", "/c", "start", "", path)
	case "darwin":
		cmd = exec.Command("open", path)
	default: // linux, bsd, etc.
		cmd = exec.Command("xdg-open", path)
	}
	return cmd.Start()
}
