package authz

import (
	"testing"

	"github.com/edenzconsult/crm-backend/internal/core/domain"
)

func TestAuthorize_AdminAllowsEverything(t *testing.T) {
	admin := Actor{ID: "a1", Role: domain.RoleAdmin}

	kinds := []ResourceKind{
		KindStudentProfile, KindDocument, KindApplication, KindConsultation,
		KindQuestionnaireResponse, KindRecommendation, KindEducation,
		KindChatSession, KindAccount,
	}
	ops := []Operation{OpRead, OpCreate, OpUpdate}

	for _, kind := range kinds {
		for _, op := range ops {
			if d := Authorize(admin, op, kind, "someone-else"); !d.Allowed {
				t.Fatalf("admin denied %s on %s: %s", op, kind, d.Reason)
			}
		}
	}
}

func TestAuthorize_ProcessingStaffVisibleKinds(t *testing.T) {
	proc := Actor{ID: "p1", Role: domain.RoleProcessing}

	visible := []ResourceKind{
		KindStudentProfile, KindDocument, KindApplication,
		KindRecommendation, KindEducation, KindQuestionnaireResponse,
	}
	for _, kind := range visible {
		if d := Authorize(proc, OpRead, kind, "s42"); !d.Allowed {
			t.Fatalf("processing denied read on %s: %s", kind, d.Reason)
		}
		if d := Authorize(proc, OpUpdate, kind, "s42"); !d.Allowed {
			t.Fatalf("processing denied update on %s: %s", kind, d.Reason)
		}
	}

	hidden := []ResourceKind{KindAccount, KindChatSession, KindConsultation}
	for _, kind := range hidden {
		if d := Authorize(proc, OpRead, kind, "s42"); d.Allowed {
			t.Fatalf("processing allowed read on %s", kind)
		}
	}
}

func TestAuthorize_StudentOwnerOnly(t *testing.T) {
	student := Actor{ID: "s1", Role: domain.RoleStudent}

	if d := Authorize(student, OpRead, KindDocument, "s1"); !d.Allowed {
		t.Fatalf("student denied own document: %s", d.Reason)
	}
	if d := Authorize(student, OpUpdate, KindStudentProfile, "s1"); !d.Allowed {
		t.Fatalf("student denied own profile update: %s", d.Reason)
	}

	d := Authorize(student, OpRead, KindDocument, "s2")
	if d.Allowed {
		t.Fatalf("student allowed to read another student's document")
	}
	if d.Reason != "not resource owner" {
		t.Fatalf("unexpected deny reason: %q", d.Reason)
	}
}

func TestAuthorize_OwnerlessCreateOnly(t *testing.T) {
	anon := Actor{}

	if d := Authorize(anon, OpCreate, KindConsultation, ""); !d.Allowed {
		t.Fatalf("anonymous consultation create denied: %s", d.Reason)
	}
	if d := Authorize(anon, OpRead, KindConsultation, ""); d.Allowed {
		t.Fatalf("anonymous read of ownerless resource allowed")
	}

	student := Actor{ID: "s1", Role: domain.RoleStudent}
	if d := Authorize(student, OpCreate, KindConsultation, ""); !d.Allowed {
		t.Fatalf("student create of ownerless consultation denied: %s", d.Reason)
	}
	if d := Authorize(student, OpUpdate, KindConsultation, ""); d.Allowed {
		t.Fatalf("student update of ownerless consultation allowed")
	}
}

func TestAuthorize_UnknownRoleDenied(t *testing.T) {
	ghost := Actor{ID: "x", Role: "superuser"}
	if d := Authorize(ghost, OpRead, KindDocument, "x"); d.Allowed {
		t.Fatalf("unknown role allowed")
	}
}

func TestCanProvision(t *testing.T) {
	admin := Actor{ID: "a1", Role: domain.RoleAdmin}
	proc := Actor{ID: "p1", Role: domain.RoleProcessing}
	student := Actor{ID: "s1", Role: domain.RoleStudent}

	if d := CanProvision(Actor{}, domain.RoleStudent); !d.Allowed {
		t.Fatalf("open student registration denied: %s", d.Reason)
	}
	if d := CanProvision(admin, domain.RoleProcessing); !d.Allowed {
		t.Fatalf("admin denied provisioning processing account: %s", d.Reason)
	}
	if d := CanProvision(proc, domain.RoleProcessing); d.Allowed {
		t.Fatalf("processing allowed to provision processing account")
	}
	if d := CanProvision(student, domain.RoleProcessing); d.Allowed {
		t.Fatalf("student allowed to provision processing account")
	}
	// Even an admin token cannot mint admins; that path requires the key.
	if d := CanProvision(admin, domain.RoleAdmin); d.Allowed {
		t.Fatalf("token-based admin provisioning allowed")
	}
}
