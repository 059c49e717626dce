// This file is part of cdsplit.
//
// cdsplit is free software: you can redistribute it and/or modify
// it under the terms of the GNU General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// cdsplit is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU General Public License for more details.
//
// You should have received a copy of the GNU General Public License
// along with cdsplit.  If not, see <https://www.gnu.org/licenses/>.

package logger

import (
	"io"
	"log/slog"
	"os"
	"path"
	"strings"

	slogmulti "github.com/samber/slog-multi"
)

// NewEcho creates a slog.Logger suitable for use with SetEcho(). Entries are
// written as text to the io.Writer and, when cdsplit is running as a systemd
// service, to the systemd journal.
//
// When the journal is being used the io.Writer is not.
func NewEcho(w io.Writer, level slog.Leveler) *slog.Logger {
	var handlers []slog.Handler

	if isSystemdService() {
		if h, err := journalHandler(); err == nil {
			handlers = append(handlers, h)
		}
	}

	// without the journal the echo is written as text
	if len(handlers) == 0 {
		handlers = append(handlers, slog.NewTextHandler(w, &slog.HandlerOptions{
			Level: level,
		}))
	}

	return slog.New(slogmulti.Fanout(handlers...))
}

// a process is a systemd service if its cgroup is a service unit
func isSystemdService() bool {
	content, err := os.ReadFile("/proc/self/cgroup")
	if err != nil {
		return false
	}
	parts := strings.Split(strings.TrimSpace(string(content)), ":")
	if len(parts) < 3 {
		return false
	}
	return strings.HasSuffix(path.Dir(parts[2]), ".service")
}

// journal field names are upper case with underscores
func toJournalKey(s string) string {
	return strings.Map(func(r rune) rune {
		if r >= 'A' && r <= 'Z' || r >= '0' && r <= '9' {
			return r
		}
		return '_'
	}, strings.ToUpper(s))
}
