package directory

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/log"
	"gorm.io/gorm"

	"github.com/jon4hz/vazby/internal/audit"
	"github.com/jon4hz/vazby/internal/auth"
	"github.com/jon4hz/vazby/internal/database"
)

const msgLinkExists = "link with this title or URL already exists"

// LinkInput holds the fields of a new link.
type LinkInput struct {
	Nazev     string
	URL       string
	Popis     string
	Kategorie string
}

// LinkPatch holds the fields of a partial link update. Nil fields are not touched.
type LinkPatch struct {
	Nazev     *string
	URL       *string
	Popis     *string
	Kategorie *string
	Schvaleno *bool
}

// canSeePending reports whether the principal may see links that are not approved yet.
func canSeePending(p *auth.Principal) bool {
	return p.HasRole(auth.RoleEditor) || p.HasRole(auth.RoleAdmin)
}

// ListLinks returns the links visible to the principal, newest first.
// Anonymous callers and viewers only see approved links.
func (e *Engine) ListLinks(ctx context.Context, p *auth.Principal) ([]database.Link, error) {
	if err := auth.Check(auth.OpListLinks, p); err != nil {
		return nil, err
	}
	links, err := e.db.GetLinks(ctx, !canSeePending(p))
	if err != nil {
		return nil, fmt.Errorf("failed to list links: %w", err)
	}
	return links, nil
}

// CreateLink adds a new link. Links created by an admin are approved immediately,
// everything else waits for an admin.
func (e *Engine) CreateLink(ctx context.Context, p *auth.Principal, in LinkInput) (*database.Link, error) {
	if err := auth.Check(auth.OpCreateLink, p); err != nil {
		return nil, err
	}

	nazev, err := required("nazev", in.Nazev)
	if err != nil {
		return nil, err
	}
	url, err := required("url", in.URL)
	if err != nil {
		return nil, err
	}

	conflict, err := e.db.LinkConflicts(ctx, nazev, url, 0)
	if err != nil {
		return nil, fmt.Errorf("failed to check link uniqueness: %w", err)
	}
	if conflict {
		return nil, conflictError(msgLinkExists)
	}

	link := &database.Link{
		Nazev:       nazev,
		URL:         url,
		Popis:       strings.TrimSpace(in.Popis),
		Kategorie:   strings.TrimSpace(in.Kategorie),
		Schvaleno:   p.IsAdmin(),
		CreatedByID: p.ActorID(),
	}
	if err := e.db.CreateLink(ctx, link); err != nil {
		if errors.Is(err, database.ErrDuplicate) {
			return nil, conflictError(msgLinkExists)
		}
		return nil, fmt.Errorf("failed to create link: %w", err)
	}

	e.audit.Record(ctx, p.ActorID(), audit.ActionCreateLink, "Created link: "+nazev)
	log.Debug("link created", "id", link.ID, "nazev", nazev, "approved", link.Schvaleno, "by", p.Username)

	return e.reloadLink(ctx, link.ID)
}

// UpdateLink applies a partial update. The approval flag is only applied for admins
// and silently ignored for everyone else.
func (e *Engine) UpdateLink(ctx context.Context, p *auth.Principal, id uint, patch LinkPatch) (*database.Link, error) {
	if err := auth.Check(auth.OpUpdateLink, p); err != nil {
		return nil, err
	}

	current, err := e.db.GetLinkByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, notFoundError("link not found")
		}
		return nil, fmt.Errorf("failed to get link: %w", err)
	}

	var update database.LinkUpdate
	if patch.Nazev != nil {
		v, err := required("nazev", *patch.Nazev)
		if err != nil {
			return nil, err
		}
		update.Nazev = &v
	}
	if patch.URL != nil {
		v, err := required("url", *patch.URL)
		if err != nil {
			return nil, err
		}
		update.URL = &v
	}

	if update.Nazev != nil || update.URL != nil {
		nazev, url := current.Nazev, current.URL
		if update.Nazev != nil {
			nazev = *update.Nazev
		}
		if update.URL != nil {
			url = *update.URL
		}
		conflict, err := e.db.LinkConflicts(ctx, nazev, url, id)
		if err != nil {
			return nil, fmt.Errorf("failed to check link uniqueness: %w", err)
		}
		if conflict {
			return nil, conflictError(msgLinkExists)
		}
	}

	update.Popis = trimmedPtr(patch.Popis)
	update.Kategorie = trimmedPtr(patch.Kategorie)
	if p.IsAdmin() {
		update.Schvaleno = patch.Schvaleno
	}

	if update.IsEmpty() {
		return nil, validationError("nothing to update")
	}

	if err := e.db.UpdateLink(ctx, id, update); err != nil {
		switch {
		case errors.Is(err, database.ErrDuplicate):
			return nil, conflictError(msgLinkExists)
		case errors.Is(err, gorm.ErrRecordNotFound):
			return nil, notFoundError("link not found")
		}
		return nil, fmt.Errorf("failed to update link: %w", err)
	}

	e.audit.Record(ctx, p.ActorID(), audit.ActionUpdateLink, fmt.Sprintf("Updated link ID: %d", id))
	if update.Schvaleno != nil && *update.Schvaleno != current.Schvaleno {
		if *update.Schvaleno {
			e.audit.Record(ctx, p.ActorID(), audit.ActionApproveLink, fmt.Sprintf("Approved link: %s", current.Nazev))
		} else {
			log.Warn("approved link moved back to pending", "id", id, "by", p.Username)
			e.audit.Record(ctx, p.ActorID(), audit.ActionUnapproveLink, fmt.Sprintf("Unapproved link: %s", current.Nazev))
		}
	}

	return e.reloadLink(ctx, id)
}

// DeleteLink removes a link permanently.
func (e *Engine) DeleteLink(ctx context.Context, p *auth.Principal, id uint) error {
	if err := auth.Check(auth.OpDeleteLink, p); err != nil {
		return err
	}

	link, err := e.db.GetLinkByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return notFoundError("link not found")
		}
		return fmt.Errorf("failed to get link: %w", err)
	}

	if err := e.db.DeleteLink(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return notFoundError("link not found")
		}
		return fmt.Errorf("failed to delete link: %w", err)
	}

	e.audit.Record(ctx, p.ActorID(), audit.ActionDeleteLink, "Deleted link: "+link.Nazev)
	return nil
}

func (e *Engine) reloadLink(ctx context.Context, id uint) (*database.Link, error) {
	link, err := e.db.GetLinkByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to reload link: %w", err)
	}
	return link, nil
}
