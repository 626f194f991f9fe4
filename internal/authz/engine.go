package authz

import (
	"errors"
	"fmt"

	"github.com/fellowshipfinder/backend/internal/identity"
)

var ErrPermissionDenied = errors.New("permission denied")

// Decision is the result of an authorization check. Reason is set only
// on deny and is safe to surface to the caller.
type Decision struct {
	Allowed bool
	Reason  string
}

func Allow() Decision {
	return Decision{Allowed: true}
}

func Deny(reason string) Decision {
	return Decision{Reason: reason}
}

// Err converts a deny into ErrPermissionDenied (wrapped with the
// reason); an allow yields nil.
func (d Decision) Err() error {
	if d.Allowed {
		return nil
	}
	return fmt.Errorf("%w: %s", ErrPermissionDenied, d.Reason)
}

// Engine is the pure permission check consulted before every write and
// before non-public reads. It holds no storage handle: callers load the
// entity first and pass it in, which keeps the rule set testable
// without a live database.
type Engine struct {
	registry *Registry
}

func NewEngine(registry *Registry) *Engine {
	return &Engine{registry: registry}
}

// Authorize decides whether the identity may perform op on an entity of
// the given kind.
//
// Rules, in order:
//
//   - Read is public unless the kind declares a visibility condition
//     (inactive listings, unpublished drafts, notifications, DMs).
//   - Create requires a resolved identity whose username matches the
//     owner the new entity declares. For authenticated identities the
//     username comes from the role store via their token; guests
//     self-assert with no cross-check (deliberate weak-trust model).
//     Notifications are exempt: they model an internal side effect, any
//     write path may enqueue one.
//   - Update and Delete allow the owner or an admin. The admin override
//     always wins; when both hold, the check still passes exactly once.
//     Notification updates are additionally recipient-only and limited
//     to the is_read flag, which the notification service enforces at
//     the field level.
//
// entity may be nil for Read (list queries) and for Notification
// Create; every other operation requires the loaded instance.
func (e *Engine) Authorize(id identity.Identity, kind Kind, op Operation, entity any) Decision {
	desc, ok := e.registry.Lookup(kind)
	if !ok {
		return Deny(fmt.Sprintf("unknown entity kind %q", kind))
	}

	switch op {
	case OpRead:
		return e.authorizeRead(id, desc, entity)
	case OpCreate:
		return e.authorizeCreate(id, desc, entity)
	case OpUpdate:
		if !desc.Updatable {
			return Deny(fmt.Sprintf("%s does not support update", desc.Kind))
		}
		return e.authorizeMutate(id, desc, entity)
	case OpDelete:
		return e.authorizeMutate(id, desc, entity)
	default:
		return Deny(fmt.Sprintf("unknown operation %q", op))
	}
}

func (e *Engine) authorizeRead(id identity.Identity, desc Descriptor, entity any) Decision {
	if desc.Readable == nil {
		return Allow()
	}
	if entity == nil {
		// List query over a restricted kind: the repository filters to
		// the caller's own rows, so a resolved identity suffices.
		if id.IsResolved() {
			return Allow()
		}
		return Deny(fmt.Sprintf("%s is not publicly readable", desc.Kind))
	}
	if desc.Readable(id, entity) {
		return Allow()
	}
	return Deny(fmt.Sprintf("%s is not visible to this identity", desc.Kind))
}

func (e *Engine) authorizeCreate(id identity.Identity, desc Descriptor, entity any) Decision {
	if desc.Kind == KindNotification {
		return Allow()
	}
	if !id.IsResolved() {
		return Deny("create requires a resolved identity")
	}
	if entity == nil {
		return Deny("create requires the new entity")
	}
	owner := desc.Owner(entity)
	if owner == "" {
		return Deny(fmt.Sprintf("%s declares no owner", desc.Kind))
	}
	if owner != id.Username {
		return Deny(fmt.Sprintf("declared owner %q does not match caller %q", owner, id.Username))
	}
	return Allow()
}

func (e *Engine) authorizeMutate(id identity.Identity, desc Descriptor, entity any) Decision {
	if entity == nil {
		return Deny("mutation requires the existing entity")
	}
	if id.IsAdmin() {
		return Allow()
	}
	if !id.IsResolved() {
		return Deny("mutation requires a resolved identity")
	}
	if desc.Owner(entity) == id.Username {
		return Allow()
	}
	return Deny(fmt.Sprintf("only the owner or an admin may modify this %s", desc.Kind))
}
