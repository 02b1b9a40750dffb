package service

import (
	"github.com/rs/zerolog"

	"github.com/edenzconsult/crm-backend/internal/api/metrics"
	"github.com/edenzconsult/crm-backend/internal/core/authz"
	"github.com/edenzconsult/crm-backend/internal/core/domain"
)

// authorize runs the access decision function, records the outcome metric,
// and logs denials with their real reason. Denials surface as ErrForbidden.
func authorize(log zerolog.Logger, actor authz.Actor, op authz.Operation, kind authz.ResourceKind, ownerID string) error {
	d := authz.Authorize(actor, op, kind, ownerID)
	outcome := "allow"
	if !d.Allowed {
		outcome = "deny"
	}
	metrics.AuthzDecisionsTotal.WithLabelValues(outcome, string(kind)).Inc()

	if !d.Allowed {
		log.Info().
			Str("actor_id", actor.ID).
			Str("actor_role", string(actor.Role)).
			Str("operation", string(op)).
			Str("kind", string(kind)).
			Str("reason", d.Reason).
			Msg("access denied")
		return domain.ErrForbidden
	}
	return nil
}

// authorizeManage guards admin-only, system-wide operations.
func authorizeManage(log zerolog.Logger, actor authz.Actor, kind authz.ResourceKind) error {
	d := authz.CanManage(actor)
	outcome := "allow"
	if !d.Allowed {
		outcome = "deny"
	}
	metrics.AuthzDecisionsTotal.WithLabelValues(outcome, string(kind)).Inc()

	if !d.Allowed {
		log.Info().
			Str("actor_id", actor.ID).
			Str("actor_role", string(actor.Role)).
			Str("kind", string(kind)).
			Str("reason", d.Reason).
			Msg("access denied")
		return domain.ErrForbidden
	}
	return nil
}

// authorizeResource is authorize for operations on one concrete resource the
// service has already loaded. Denials come back as ErrNotFound so responses
// do not reveal that the resource exists to actors who cannot see it; the
// real reason is still logged and counted.
func authorizeResource(log zerolog.Logger, actor authz.Actor, op authz.Operation, kind authz.ResourceKind, ownerID string) error {
	if err := authorize(log, actor, op, kind, ownerID); err != nil {
		return domain.ErrNotFound
	}
	return nil
}
