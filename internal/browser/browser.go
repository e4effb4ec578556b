// Package browser hands URLs to the operating system's default browser.
package browser

import (
	"fmt"
	"os/exec"
	"runtime"
)

// Open launches the system browser at url without waiting for it.
func Open(url string) error {
	var cmd *exec.Cmd
	switch runtime.GOOS {
	case "darwin":
		cmd = exec.Command("open", url)
	case "windows":
		cmd = exec.Command("rundll32", "url.dll,FileProtocolHandler", url)
	default:
		cmd = exec.Command("xdg-open", url)
	}
	if err := cmd.Start(); err != nil {
		return fmt.Errorf("open browser: %w", err)
	}
	go cmd.Wait()
	return nil
}
