// Package authz is the single place where access decisions are made. Every
// resource operation asks Authorize before touching storage; handlers never
// re-derive role checks inline.
package authz

import (
	"github.com/edenzconsult/crm-backend/internal/core/domain"
)

// Operation is the kind of access being requested.
type Operation string

const (
	OpRead   Operation = "read"
	OpCreate Operation = "create"
	OpUpdate Operation = "update"
)

// ResourceKind is the closed set of record types the policy knows about.
type ResourceKind string

const (
	KindStudentProfile        ResourceKind = "student_profile"
	KindDocument              ResourceKind = "document"
	KindApplication           ResourceKind = "application"
	KindConsultation          ResourceKind = "consultation"
	KindQuestionnaireResponse ResourceKind = "questionnaire_response"
	KindRecommendation        ResourceKind = "recommendation"
	KindEducation             ResourceKind = "education"
	KindChatSession           ResourceKind = "chat_session"
	KindAccount               ResourceKind = "account"
)

// staffVisible lists the kinds the processing team works with. Consultations
// and chat sessions are handled through dedicated staff routes guarded by the
// role middleware, not through ownership checks.
var staffVisible = map[ResourceKind]struct{}{
	KindStudentProfile:        {},
	KindDocument:              {},
	KindApplication:           {},
	KindRecommendation:        {},
	KindEducation:             {},
	KindQuestionnaireResponse: {},
}

// Actor is the minimal identity the decision function needs.
type Actor struct {
	ID   string
	Role domain.Role
}

// Decision is the outcome of an authorization check. Reason is set only on
// denial and is for server-side logging, never for client responses.
type Decision struct {
	Allowed bool
	Reason  string
}

func allow() Decision             { return Decision{Allowed: true} }
func deny(reason string) Decision { return Decision{Reason: reason} }

// Authorize decides whether actor may perform op on a resource of the given
// kind owned by ownerID. An empty ownerID marks an ownerless resource, which
// only permits Create (anonymous consultation booking). The function never
// errors for well-formed input.
func Authorize(actor Actor, op Operation, kind ResourceKind, ownerID string) Decision {
	switch actor.Role {
	case domain.RoleAdmin:
		return allow()
	case domain.RoleProcessing:
		if _, ok := staffVisible[kind]; ok {
			return allow()
		}
		return deny("role not permitted for resource kind")
	case domain.RoleStudent:
		if ownerID == "" {
			if op == OpCreate {
				return allow()
			}
			return deny("ownerless resource permits create only")
		}
		if actor.ID == ownerID {
			return allow()
		}
		return deny("not resource owner")
	}

	// Unknown or empty role: anonymous actors may only create ownerless
	// resources.
	if ownerID == "" && op == OpCreate {
		return allow()
	}
	return deny("unknown role")
}

// CanManage decides whether actor may administer system-wide records that
// belong to no single student: the questionnaire catalogue and the booking
// overview.
func CanManage(actor Actor) Decision {
	if actor.Role == domain.RoleAdmin {
		return allow()
	}
	return deny("admin role required")
}

// CanProvision decides whether actor may create an account with the given
// role. Student self-registration is open; processing accounts require an
// admin; admin accounts go through the out-of-band provisioning key path and
// are never created from a token alone.
func CanProvision(actor Actor, newRole domain.Role) Decision {
	switch newRole {
	case domain.RoleStudent:
		return allow()
	case domain.RoleProcessing:
		if actor.Role == domain.RoleAdmin {
			return allow()
		}
		return deny("only admins may provision processing accounts")
	case domain.RoleAdmin:
		return deny("admin accounts require the provisioning key")
	}
	return deny("unknown role")
}
