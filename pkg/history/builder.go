package history

import (
	"fmt"
	"os"
	"os/user"
	"time"

	"github.com/pakt-dev/pakt/pkg/classify"
	"github.com/pakt-dev/pakt/pkg/model"
)

const dateLayout = "2006-01-02 15:04:05 MST"

// NewEntry builds a ledger entry for a transaction that just committed.
func NewEntry(command []string, op model.OpKind, purged bool, summary *classify.Summary) *Entry {
	return &Entry{
		Date:        time.Now().Format(dateLayout),
		RequestedBy: RequestedBy(),
		Command:     command,
		Altered:     summary.Altered(),
		Purged:      purged,
		Operation:   op,
		Removed:     ChangeList(summary.Removed),
		AutoRemoved: ChangeList(summary.AutoRemoved),
		Installed:   ChangeList(summary.Installed),
		Reinstalled: ChangeList(summary.Reinstalled),
		Upgraded:    ChangeList(summary.Upgraded),
		Downgraded:  ChangeList(summary.Downgraded),
	}
}

// RequestedBy identifies the invoking user as "name (uid)". When running
// under doas or sudo the original user is recorded, not root.
func RequestedBy() string {
	if name := os.Getenv("DOAS_USER"); name != "" {
		if u, err := user.Lookup(name); err == nil {
			return fmt.Sprintf("%s (%s)", name, u.Uid)
		}
		return fmt.Sprintf("%s (%d)", name, os.Getuid())
	}
	if name := os.Getenv("SUDO_USER"); name != "" {
		uid := os.Getenv("SUDO_UID")
		if uid == "" {
			uid = fmt.Sprint(os.Getuid())
		}
		return fmt.Sprintf("%s (%s)", name, uid)
	}
	name := ""
	if u, err := user.Current(); err == nil {
		name = u.Username
	}
	return fmt.Sprintf("%s (%d)", name, os.Getuid())
}
