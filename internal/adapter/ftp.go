// ABOUTME: Single-shot FTP adapter: anonymous login, list or fetch head.
// ABOUTME: Read-only; just enough protocol support for one utterance.

package adapter

import (
	"context"
	"fmt"
	"io"
	"net/url"
	"strings"

	"github.com/jlaffaye/ftp"

	"github.com/wronai/broxeen-sub001/internal/format"
	"github.com/wronai/broxeen-sub001/internal/ledger"
	"github.com/wronai/broxeen-sub001/internal/protocol"
)

// maxFTPHead caps how much of a retrieved file is read.
const maxFTPHead = 4 * 1024

type ftpAdapter struct {
	deps *Deps
}

func (a *ftpAdapter) Protocol() protocol.Protocol { return protocol.FTP }

// Read connects anonymously and either lists a directory or retrieves
// the head of a file, depending on the path.
func (a *ftpAdapter) Read(ctx context.Context, target string) *format.Result {
	u, err := url.Parse(strings.TrimSpace(target))
	if err != nil || u.Host == "" {
		return format.Error("An ftp:// URL is required. Try: bridge ftp ftp://files.example.com/pub")
	}

	addr := u.Host
	if u.Port() == "" {
		addr += ":21"
	}

	conn, err := ftp.Dial(addr,
		ftp.DialWithContext(ctx),
		ftp.DialWithTimeout(a.deps.ConnectTimeout))
	if err != nil {
		return format.Errorf(
			"Could not reach %s (%v).\nTry: bridge ftp ftp://files.example.com/pub", addr, err)
	}
	defer conn.Quit()

	user, pass := "anonymous", "anonymous"
	if u.User != nil {
		user = u.User.Username()
		if p, ok := u.User.Password(); ok {
			pass = p
		}
	}
	if err := conn.Login(user, pass); err != nil {
		return format.Errorf(
			"Login to %s failed (%v). Embed credentials in the URL: ftp://user:pass@%s", addr, err, u.Host)
	}

	path := u.Path
	if path == "" {
		path = "/"
	}

	var res *format.Result
	if strings.HasSuffix(path, "/") || path == "/" {
		res = a.list(conn, u.Host, path)
	} else if res = a.retrieve(conn, u.Host, path); res == nil {
		res = a.list(conn, u.Host, path)
	}

	a.deps.record(ctx, protocol.FTP, ledger.Received, target, res.Blocks[0].Text)
	return res
}

// Send is rejected: the ftp bridge is read-only.
func (a *ftpAdapter) Send(context.Context, string, string) *format.Result {
	return readOnly(protocol.FTP)
}

func (a *ftpAdapter) list(conn *ftp.ServerConn, hostname, path string) *format.Result {
	entries, err := conn.List(path)
	if err != nil {
		return format.Partialf("Nothing readable at %s on %s (%v)", path, hostname, err)
	}
	if len(entries) == 0 {
		return format.Partialf("Directory %s on %s is empty", path, hostname)
	}

	var b strings.Builder
	for _, e := range entries {
		marker := ""
		if e.Type == ftp.EntryTypeFolder {
			marker = "/"
		}
		fmt.Fprintf(&b, "%s%s (%d bytes)\n", e.Name, marker, e.Size)
	}
	return format.Success(strings.TrimRight(b.String(), "\n")).
		WithTitle(fmt.Sprintf("FTP listing of %s%s", hostname, path)).
		WithSummary(fmt.Sprintf("%d entries in %s", len(entries), path))
}

// retrieve fetches a file head; nil means "not a file, try listing".
func (a *ftpAdapter) retrieve(conn *ftp.ServerConn, hostname, path string) *format.Result {
	r, err := conn.Retr(path)
	if err != nil {
		return nil
	}
	defer r.Close()

	data, err := io.ReadAll(io.LimitReader(r, maxFTPHead))
	if err != nil {
		return format.Partialf("Could not read %s from %s (%v)", path, hostname, err)
	}

	res := format.Success(string(data)).
		WithTitle(fmt.Sprintf("FTP file %s%s", hostname, path)).
		WithSummary(fmt.Sprintf("Fetched the first %d bytes of %s", len(data), path))
	res.Meta.Truncated = len(data) == maxFTPHead
	return res
}
