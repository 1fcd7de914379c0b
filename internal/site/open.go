package site

import (
	"net/url"
	"os/exec"
	"path/filepath"
	"runtime"
)

// OpenBrowser opens target, a file path or URL, with the platform's default
// handler.
func OpenBrowser(target string) error {
	if u, err := url.Parse(target); err != nil || u.Scheme == "" || len(u.Scheme) == 1 {
		abs, err := filepath.Abs(target)
		if err != nil {
			return err
		}
		target = (&url.URL{Scheme: "file", Path: filepath.ToSlash(abs)}).String()
	}
	var cmd *exec.Cmd
	switch runtime.GOOS {
	case "darwin":
		cmd = exec.Command("open", target)
	case "windows":
		cmd = exec.Command("rundll32", "url.dll,FileProtocolHandler", target)
	default:
		cmd = exec.Command("xdg-open", target)
	}
	return cmd.Start()
}
