package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/edenzconsult/crm-backend/internal/core/authz"
	"github.com/edenzconsult/crm-backend/internal/core/domain"
	"github.com/edenzconsult/crm-backend/internal/core/ports"
)

type stubConsultationRepo struct {
	byID   map[string]*domain.Consultation
	nextID int
}

func newStubConsultationRepo() *stubConsultationRepo {
	return &stubConsultationRepo{byID: make(map[string]*domain.Consultation)}
}

func (r *stubConsultationRepo) Create(_ context.Context, c *domain.Consultation) (*domain.Consultation, error) {
	r.nextID++
	clone := *c
	clone.ID = fmt.Sprintf("cst-%d", r.nextID)
	r.byID[clone.ID] = &clone
	out := clone
	return &out, nil
}

func (r *stubConsultationRepo) FindByID(_ context.Context, id string) (*domain.Consultation, error) {
	c, ok := r.byID[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	clone := *c
	return &clone, nil
}

func (r *stubConsultationRepo) ListByStudent(_ context.Context, studentID string) ([]*domain.Consultation, error) {
	var out []*domain.Consultation
	for _, c := range r.byID {
		if c.StudentID == studentID {
			clone := *c
			out = append(out, &clone)
		}
	}
	return out, nil
}

func (r *stubConsultationRepo) List(_ context.Context, status domain.ConsultationStatus) ([]*domain.Consultation, error) {
	var out []*domain.Consultation
	for _, c := range r.byID {
		if status != "" && c.Status != status {
			continue
		}
		clone := *c
		out = append(out, &clone)
	}
	return out, nil
}

func (r *stubConsultationRepo) UpdateStatus(_ context.Context, id string, status domain.ConsultationStatus, notes string, at time.Time) error {
	c, ok := r.byID[id]
	if !ok {
		return domain.ErrNotFound
	}
	c.Status = status
	c.Notes = notes
	c.UpdatedAt = at
	return nil
}

func bookFixture(studentID string) ports.BookConsultationInput {
	return ports.BookConsultationInput{
		StudentID: studentID,
		Name:      "Jane Doe",
		Email:     "Jane@Example.com",
		Phone:     "+92 300 1234567",
		Date:      "2026-09-15",
		Time:      "15:00",
		Service:   "UK admissions",
	}
}

func TestConsultationBook_Anonymous(t *testing.T) {
	svc := NewConsultationService(newStubConsultationRepo(), zerolog.Nop())

	booking, err := svc.Book(context.Background(), bookFixture(""))
	if err != nil {
		t.Fatalf("Book: %v", err)
	}
	if booking.StudentID != "" {
		t.Errorf("StudentID = %q, want empty for anonymous booking", booking.StudentID)
	}
	if !strings.HasPrefix(booking.Reference, "CST-") {
		t.Errorf("Reference = %q, want CST- prefix", booking.Reference)
	}
	if booking.Status != domain.ConsultationPending {
		t.Errorf("Status = %q, want pending", booking.Status)
	}
	if booking.PaymentStatus != "pending" {
		t.Errorf("PaymentStatus = %q, want pending", booking.PaymentStatus)
	}
	if booking.Email != "jane@example.com" {
		t.Errorf("Email = %q, want normalized", booking.Email)
	}
}

func TestConsultationBook_MissingFields(t *testing.T) {
	svc := NewConsultationService(newStubConsultationRepo(), zerolog.Nop())

	in := bookFixture("")
	in.Phone = ""
	if _, err := svc.Book(context.Background(), in); !errors.Is(err, domain.ErrInvalidInput) {
		t.Fatalf("Book without phone = %v, want ErrInvalidInput", err)
	}
}

func TestConsultationGet_Owner(t *testing.T) {
	svc := NewConsultationService(newStubConsultationRepo(), zerolog.Nop())
	booking, err := svc.Book(context.Background(), bookFixture("student-1"))
	if err != nil {
		t.Fatalf("Book: %v", err)
	}

	owner := authz.Actor{ID: "student-1", Role: domain.RoleStudent}
	if _, err := svc.Get(context.Background(), owner, booking.ID); err != nil {
		t.Fatalf("Get by owner: %v", err)
	}

	other := authz.Actor{ID: "student-2", Role: domain.RoleStudent}
	if _, err := svc.Get(context.Background(), other, booking.ID); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("Get by non-owner = %v, want ErrNotFound", err)
	}
}

func TestConsultationList_AdminOnly(t *testing.T) {
	svc := NewConsultationService(newStubConsultationRepo(), zerolog.Nop())
	if _, err := svc.Book(context.Background(), bookFixture("")); err != nil {
		t.Fatalf("Book: %v", err)
	}

	admin := authz.Actor{ID: "admin-1", Role: domain.RoleAdmin}
	bookings, err := svc.List(context.Background(), admin, "")
	if err != nil {
		t.Fatalf("List as admin: %v", err)
	}
	if len(bookings) != 1 {
		t.Errorf("List = %d bookings, want 1", len(bookings))
	}

	// Consultations are not staff-visible: processing is denied too.
	for _, actor := range []authz.Actor{
		{ID: "staff-1", Role: domain.RoleProcessing},
		{ID: "student-1", Role: domain.RoleStudent},
	} {
		if _, err := svc.List(context.Background(), actor, ""); !errors.Is(err, domain.ErrForbidden) {
			t.Errorf("List as %s = %v, want ErrForbidden", actor.Role, err)
		}
	}
}

func TestConsultationUpdate(t *testing.T) {
	svc := NewConsultationService(newStubConsultationRepo(), zerolog.Nop())
	booking, err := svc.Book(context.Background(), bookFixture(""))
	if err != nil {
		t.Fatalf("Book: %v", err)
	}

	admin := authz.Actor{ID: "admin-1", Role: domain.RoleAdmin}
	updated, err := svc.Update(context.Background(), admin, booking.ID, ports.UpdateConsultationInput{
		Status: string(domain.ConsultationConfirmed),
		Notes:  "Confirmed by phone",
	})
	if err != nil {
		t.Fatalf("Update: %v", err)
	}
	if updated.Status != domain.ConsultationConfirmed {
		t.Errorf("Status = %q, want confirmed", updated.Status)
	}

	// pending ← completed skips confirmation.
	booking2, err := svc.Book(context.Background(), bookFixture(""))
	if err != nil {
		t.Fatalf("Book: %v", err)
	}
	_, err = svc.Update(context.Background(), admin, booking2.ID, ports.UpdateConsultationInput{
		Status: string(domain.ConsultationCompleted),
	})
	if !errors.Is(err, domain.ErrInvalidTransition) {
		t.Fatalf("Update pending→completed = %v, want ErrInvalidTransition", err)
	}
}
