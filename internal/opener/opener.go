package opener

import (
	"context"
	"fmt"
	"os/exec"
	"runtime"

	"github.com/sirupsen/logrus"

	"walletbridge/internal/domain"
)

// Exec opens URLs through the platform opener (open / xdg-open / rundll32).
type Exec struct{}

func (Exec) OpenURL(ctx context.Context, rawURL string) error {
	var cmd *exec.Cmd
	switch runtime.GOOS {
	case "darwin":
		cmd = exec.CommandContext(ctx, "open", rawURL)
	case "windows":
		cmd = exec.CommandContext(ctx, "rundll32", "url.dll,FileProtocolHandler", rawURL)
	default:
		cmd = exec.CommandContext(ctx, "xdg-open", rawURL)
	}
	if out, err := cmd.CombinedOutput(); err != nil {
		return fmt.Errorf("opening %q: %v: %s", rawURL, err, out)
	}
	return nil
}

// Print writes the URL to the log instead of opening it. Used by the CLI's
// dry-run mode, where the user carries the URL to the wallet manually.
type Print struct {
	Log logrus.FieldLogger
}

func (p Print) OpenURL(_ context.Context, rawURL string) error {
	p.Log.WithField("url", rawURL).Info("open this URL in the wallet")
	return nil
}

var (
	_ domain.URLOpener = Exec{}
	_ domain.URLOpener = Print{}
)
