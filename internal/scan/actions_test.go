package scan

import (
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/urfave/cli/v2"
)

func runScan(t *testing.T, args ...string) int {
	t.Helper()

	exiter, errWriter := cli.OsExiter, cli.ErrWriter
	cli.OsExiter = func(int) {}
	cli.ErrWriter = io.Discard
	t.Cleanup(func() {
		cli.OsExiter, cli.ErrWriter = exiter, errWriter
	})

	app := &cli.App{
		Name: "meritscan",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "index-url"},
			&cli.StringFlag{Name: "format", Value: "json"},
			&cli.BoolFlag{Name: "quiet", Value: true},
		},
		Commands: []*cli.Command{{
			Name: "scan",
			Flags: []cli.Flag{
				&cli.StringFlag{Name: "url", Required: true},
				&cli.StringFlag{Name: "cnic", Required: true},
				&cli.BoolFlag{Name: "strip-dashes"},
			},
			Action: ScanAction,
		}},
	}

	err := app.Run(append([]string{"meritscan"}, args...))
	if err == nil {
		return 0
	}
	var exit cli.ExitCoder
	if errors.As(err, &exit) {
		return exit.ExitCode()
	}
	t.Fatalf("scan returned non-exit error: %v", err)
	return -1
}

func newDocumentServer(t *testing.T, hits *atomic.Int32) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		_, _ = w.Write([]byte("not a pdf"))
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestScanActionRejectsUnknownFormatBeforeFetch(t *testing.T) {
	var hits atomic.Int32
	srv := newDocumentServer(t, &hits)

	code := runScan(t, "--format", "xml", "scan", "--url", srv.URL+"/a.pdf", "--cnic", "1234567890123")
	if code != 2 {
		t.Errorf("exit code = %d, want 2", code)
	}
	if got := hits.Load(); got != 0 {
		t.Errorf("document requested %d times, want 0", got)
	}
}

func TestScanActionTextFormat(t *testing.T) {
	var hits atomic.Int32
	srv := newDocumentServer(t, &hits)

	code := runScan(t, "--format", "text", "--index-url", srv.URL+"/Downloads/MeritListsView",
		"scan", "--url", "/Uploads/a.pdf", "--cnic", "1234567890123")
	if code != 0 {
		t.Errorf("exit code = %d, want 0", code)
	}
	if got := hits.Load(); got != 1 {
		t.Errorf("document requested %d times, want 1", got)
	}
}
