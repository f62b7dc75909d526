package email

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/charmbracelet/log"
	"github.com/mergestat/timediff"
	"github.com/samber/lo"

	"github.com/jon4hz/vazby/internal/database"
)

// DigestLink is a pending link as shown in the digest mail.
type DigestLink struct {
	Nazev     string
	URL       string
	Kategorie string
	CreatedBy string
	Age       string
}

// Digest is the data of one digest mail.
type Digest struct {
	AdminName string
	Links     []DigestLink
	ServerURL string
}

// DigestStore is the data needed to build the pending-approval digest.
type DigestStore interface {
	GetPendingLinks(ctx context.Context) ([]database.Link, error)
	GetActiveAdmins(ctx context.Context) ([]database.User, error)
}

// Digester mails the list of links waiting for approval to every active admin.
type Digester struct {
	db        DigestStore
	notifier  *NotificationService
	serverURL string
	now       func() time.Time
}

// NewDigester creates a new Digester.
func NewDigester(db DigestStore, notifier *NotificationService, serverURL string) *Digester {
	return &Digester{
		db:        db,
		notifier:  notifier,
		serverURL: serverURL,
		now:       time.Now,
	}
}

// Run sends the digest. Nothing is sent when no link is pending.
// A failed recipient does not stop the others.
func (d *Digester) Run(ctx context.Context) error {
	pending, err := d.db.GetPendingLinks(ctx)
	if err != nil {
		return fmt.Errorf("failed to get pending links: %w", err)
	}
	if len(pending) == 0 {
		log.Debug("No pending links, skipping digest")
		return nil
	}

	admins, err := d.db.GetActiveAdmins(ctx)
	if err != nil {
		return fmt.Errorf("failed to get admins: %w", err)
	}
	if len(admins) == 0 {
		log.Warn("Links are waiting for approval but there is no active admin with an email", "pending", len(pending))
		return nil
	}

	now := d.now()
	links := lo.Map(pending, func(l database.Link, _ int) DigestLink {
		return DigestLink{
			Nazev:     l.Nazev,
			URL:       l.URL,
			Kategorie: l.Kategorie,
			CreatedBy: l.CreatorUsername(),
			Age:       timediff.TimeDiff(l.CreatedAt, timediff.WithStartTime(now)),
		}
	})

	subject := fmt.Sprintf("[Vazby] %d link(s) waiting for approval", len(links))

	var errs []error
	for _, admin := range admins {
		body, err := render("digest.html", Digest{
			AdminName: admin.Username,
			Links:     links,
			ServerURL: d.serverURL,
		})
		if err != nil {
			return fmt.Errorf("failed to generate email body: %w", err)
		}
		if err := d.notifier.send(admin.Email, subject, body); err != nil {
			log.Error("Failed to send digest", "to", admin.Email, "error", err)
			errs = append(errs, err)
		}
	}

	if len(errs) == len(admins) {
		return fmt.Errorf("failed to send digest to any admin: %w", errors.Join(errs...))
	}
	return nil
}
