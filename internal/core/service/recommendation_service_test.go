package service

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/rs/zerolog"

	"github.com/edenzconsult/crm-backend/internal/core/authz"
	"github.com/edenzconsult/crm-backend/internal/core/domain"
	"github.com/edenzconsult/crm-backend/internal/core/ports"
)

type stubRecommendationRepo struct {
	byStudent map[string][]*domain.Recommendation
	nextID    int
}

func newStubRecommendationRepo() *stubRecommendationRepo {
	return &stubRecommendationRepo{byStudent: make(map[string][]*domain.Recommendation)}
}

func (r *stubRecommendationRepo) CreateMany(_ context.Context, recs []*domain.Recommendation) ([]*domain.Recommendation, error) {
	if len(recs) == 0 {
		return nil, nil
	}
	created := make([]*domain.Recommendation, 0, len(recs))
	for _, rec := range recs {
		r.nextID++
		clone := *rec
		clone.ID = fmt.Sprintf("rec-%d", r.nextID)
		created = append(created, &clone)
	}
	// Each batch replaces the previous one, like the real repository.
	r.byStudent[recs[0].StudentID] = created
	return created, nil
}

func (r *stubRecommendationRepo) ListByStudent(_ context.Context, studentID string) ([]*domain.Recommendation, error) {
	return r.byStudent[studentID], nil
}

func recommendationFixtureInput(studentID string) ports.GenerateRecommendationsInput {
	return ports.GenerateRecommendationsInput{
		StudentID:          studentID,
		EducationLevel:     "bachelor",
		GPA:                "3.6",
		EnglishScore:       "7.5",
		TestType:           "IELTS",
		PreferredCountries: []string{"Canada", "UK"},
		PreferredFields:    []string{"Computer Science"},
		Budget:             "30000 USD",
	}
}

func TestRecommendationGenerate_FromProvider(t *testing.T) {
	accounts := newStubAccountRepo()
	student := seedStudent(t, accounts, "rec@example.com")
	completer := &stubCompleter{reply: `Here you go:
[
  {"type": "university", "title": "TU Munich", "subtitle": "MSc Informatics", "description": "Tuition-free.", "match_percentage": 95},
  {"type": "improvement", "title": "Retake IELTS", "subtitle": "", "description": "Aim for 8.0.", "match_percentage": 70},
  {"type": "scholarship", "title": "DAAD Scholarship", "subtitle": "", "description": "Covers living costs.", "match_percentage": 60}
]
Good luck!`}
	svc := NewRecommendationService(newStubRecommendationRepo(), accounts, completer, zerolog.Nop())

	owner := authz.Actor{ID: student.ID, Role: domain.RoleStudent}
	recs, err := svc.Generate(context.Background(), owner, recommendationFixtureInput(student.ID))
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if len(recs) != 3 {
		t.Fatalf("got %d recommendations, want 3", len(recs))
	}
	if recs[0].Title != "TU Munich" || recs[0].Type != domain.RecommendationUniversity {
		t.Errorf("first rec = %+v", recs[0])
	}
	for _, r := range recs {
		if r.StudentID != student.ID {
			t.Errorf("StudentID = %q, want %q", r.StudentID, student.ID)
		}
	}
}

func TestRecommendationGenerate_ProviderDownFallsBack(t *testing.T) {
	accounts := newStubAccountRepo()
	student := seedStudent(t, accounts, "rec@example.com")
	completer := &stubCompleter{err: errors.New("timeout")}
	svc := NewRecommendationService(newStubRecommendationRepo(), accounts, completer, zerolog.Nop())

	owner := authz.Actor{ID: student.ID, Role: domain.RoleStudent}
	recs, err := svc.Generate(context.Background(), owner, recommendationFixtureInput(student.ID))
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if len(recs) != 5 {
		t.Fatalf("fallback produced %d recommendations, want 5", len(recs))
	}

	counts := map[domain.RecommendationType]int{}
	for _, r := range recs {
		counts[r.Type]++
	}
	if counts[domain.RecommendationUniversity] != 3 || counts[domain.RecommendationImprovement] != 1 || counts[domain.RecommendationScholarship] != 1 {
		t.Errorf("fallback mix = %v, want 3 universities, 1 improvement, 1 scholarship", counts)
	}
}

func TestRecommendationGenerate_UnparseableFallsBack(t *testing.T) {
	accounts := newStubAccountRepo()
	student := seedStudent(t, accounts, "rec@example.com")
	completer := &stubCompleter{reply: "I'm sorry, I can't produce JSON today."}
	svc := NewRecommendationService(newStubRecommendationRepo(), accounts, completer, zerolog.Nop())

	owner := authz.Actor{ID: student.ID, Role: domain.RoleStudent}
	recs, err := svc.Generate(context.Background(), owner, recommendationFixtureInput(student.ID))
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if len(recs) != 5 {
		t.Fatalf("got %d recommendations, want the 5 fallback ones", len(recs))
	}
}

func TestRecommendationGenerate_RegenerateReplaces(t *testing.T) {
	accounts := newStubAccountRepo()
	student := seedStudent(t, accounts, "rec@example.com")
	repo := newStubRecommendationRepo()
	completer := &stubCompleter{err: errors.New("down")}
	svc := NewRecommendationService(repo, accounts, completer, zerolog.Nop())

	owner := authz.Actor{ID: student.ID, Role: domain.RoleStudent}
	in := recommendationFixtureInput(student.ID)
	if _, err := svc.Generate(context.Background(), owner, in); err != nil {
		t.Fatalf("first Generate: %v", err)
	}
	if _, err := svc.Generate(context.Background(), owner, in); err != nil {
		t.Fatalf("second Generate: %v", err)
	}

	stored, err := svc.ListByStudent(context.Background(), owner, student.ID)
	if err != nil {
		t.Fatalf("ListByStudent: %v", err)
	}
	if len(stored) != 5 {
		t.Fatalf("stored = %d, want 5 (old batch replaced, not appended)", len(stored))
	}
}

func TestRecommendation_OtherStudentMasked(t *testing.T) {
	accounts := newStubAccountRepo()
	student := seedStudent(t, accounts, "rec@example.com")
	svc := NewRecommendationService(newStubRecommendationRepo(), accounts, &stubCompleter{}, zerolog.Nop())

	other := authz.Actor{ID: "someone-else", Role: domain.RoleStudent}
	if _, err := svc.ListByStudent(context.Background(), other, student.ID); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("ListByStudent by non-owner = %v, want ErrNotFound", err)
	}
}

func TestParseRecommendationJSON_ClampsAndFilters(t *testing.T) {
	recs := parseRecommendationJSON(`[
		{"type": "university", "title": "A", "match_percentage": 150},
		{"type": "bogus", "title": "B", "match_percentage": 50},
		{"type": "scholarship", "title": "", "match_percentage": 50}
	]`)
	if len(recs) != 1 {
		t.Fatalf("got %d recs, want 1 (bad type and empty title dropped)", len(recs))
	}
	if recs[0].MatchPercentage != 50 {
		t.Errorf("MatchPercentage = %d, want clamped default 50", recs[0].MatchPercentage)
	}
}
