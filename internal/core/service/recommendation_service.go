package service

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/edenzconsult/crm-backend/internal/api/metrics"
	"github.com/edenzconsult/crm-backend/internal/core/authz"
	"github.com/edenzconsult/crm-backend/internal/core/domain"
	"github.com/edenzconsult/crm-backend/internal/core/ports"
)

type recommendationService struct {
	repo      ports.RecommendationRepository
	accounts  ports.AccountRepository
	completer Completer
	log       zerolog.Logger
}

// NewRecommendationService returns a RecommendationService implementation.
func NewRecommendationService(repo ports.RecommendationRepository, accounts ports.AccountRepository, completer Completer, log zerolog.Logger) ports.RecommendationService {
	return &recommendationService{repo: repo, accounts: accounts, completer: completer, log: log}
}

func (s *recommendationService) Generate(ctx context.Context, actor authz.Actor, in ports.GenerateRecommendationsInput) ([]*domain.Recommendation, error) {
	if err := authorizeResource(s.log, actor, authz.OpCreate, authz.KindRecommendation, in.StudentID); err != nil {
		return nil, err
	}

	student, err := s.accounts.FindByID(ctx, in.StudentID)
	if err != nil {
		return nil, err
	}
	if student.Role != domain.RoleStudent {
		return nil, domain.ErrNotFound
	}

	recs := s.generate(ctx, student, in)
	now := time.Now().UTC()
	for _, r := range recs {
		r.StudentID = in.StudentID
		r.CreatedAt = now
	}

	created, err := s.repo.CreateMany(ctx, recs)
	if err != nil {
		return nil, err
	}

	s.log.Info().Str("student_id", in.StudentID).Int("count", len(created)).Msg("recommendations generated")
	return created, nil
}

func (s *recommendationService) ListByStudent(ctx context.Context, actor authz.Actor, studentID string) ([]*domain.Recommendation, error) {
	if err := authorizeResource(s.log, actor, authz.OpRead, authz.KindRecommendation, studentID); err != nil {
		return nil, err
	}
	return s.repo.ListByStudent(ctx, studentID)
}

// generate asks the completion provider for structured recommendations and
// falls back to the rule-based set when the provider is unavailable or
// returns something unparseable.
func (s *recommendationService) generate(ctx context.Context, student *domain.Account, in ports.GenerateRecommendationsInput) []*domain.Recommendation {
	prompt := buildRecommendationPrompt(student.Name, in)

	text, err := s.completer.Complete(ctx, prompt)
	if err == nil {
		if recs := parseRecommendationJSON(text); len(recs) > 0 {
			metrics.RecommendationsGeneratedTotal.WithLabelValues("llm").Inc()
			return recs
		}
		s.log.Warn().Msg("completion response was not parseable, using fallback")
	} else {
		s.log.Warn().Err(err).Msg("completion provider failed, using fallback")
	}

	metrics.RecommendationsGeneratedTotal.WithLabelValues("fallback").Inc()
	return fallbackRecommendations(in)
}

func buildRecommendationPrompt(name string, in ports.GenerateRecommendationsInput) string {
	var b strings.Builder
	b.WriteString("Analyze this student profile and generate personalized study-abroad recommendations.\n\n")
	fmt.Fprintf(&b, "Name: %s\n", name)
	fmt.Fprintf(&b, "Education Level: %s\n", orUnspecified(in.EducationLevel))
	fmt.Fprintf(&b, "GPA: %s\n", orUnspecified(in.GPA))
	fmt.Fprintf(&b, "English Test: %s - Score: %s\n", orUnspecified(in.TestType), orUnspecified(in.EnglishScore))
	fmt.Fprintf(&b, "Preferred Countries: %s\n", orUnspecified(strings.Join(in.PreferredCountries, ", ")))
	fmt.Fprintf(&b, "Preferred Fields: %s\n", orUnspecified(strings.Join(in.PreferredFields, ", ")))
	fmt.Fprintf(&b, "Budget: %s\n\n", orUnspecified(in.Budget))
	b.WriteString("Generate 5 recommendations: 3 university programmes, 1 profile improvement, 1 scholarship.\n")
	b.WriteString(`Respond with a JSON array of objects with fields "type" (university|improvement|scholarship), "title", "subtitle", "description", "match_percentage".`)
	return b.String()
}

func orUnspecified(s string) string {
	if s == "" {
		return "Not specified"
	}
	return s
}

// parseRecommendationJSON tolerates prose around the JSON array: it decodes
// from the first '[' to the matching ']'.
func parseRecommendationJSON(text string) []*domain.Recommendation {
	start := strings.Index(text, "[")
	end := strings.LastIndex(text, "]")
	if start < 0 || end <= start {
		return nil
	}

	var raw []struct {
		Type            string `json:"type"`
		Title           string `json:"title"`
		Subtitle        string `json:"subtitle"`
		Description     string `json:"description"`
		MatchPercentage int    `json:"match_percentage"`
	}
	if err := json.Unmarshal([]byte(text[start:end+1]), &raw); err != nil {
		return nil
	}

	recs := make([]*domain.Recommendation, 0, len(raw))
	for _, r := range raw {
		recType := domain.RecommendationType(r.Type)
		switch recType {
		case domain.RecommendationUniversity, domain.RecommendationImprovement, domain.RecommendationScholarship:
		default:
			continue
		}
		if r.Title == "" {
			continue
		}
		pct := r.MatchPercentage
		if pct < 0 || pct > 100 {
			pct = 50
		}
		recs = append(recs, &domain.Recommendation{
			Type:            recType,
			Title:           r.Title,
			Subtitle:        r.Subtitle,
			Description:     r.Description,
			MatchPercentage: pct,
		})
	}
	return recs
}

// fallbackRecommendations is the deterministic rule-based generator used when
// the provider is down. It favours the student's first preferred country and
// field where given.
func fallbackRecommendations(in ports.GenerateRecommendationsInput) []*domain.Recommendation {
	country := "the UK"
	if len(in.PreferredCountries) > 0 {
		country = in.PreferredCountries[0]
	}
	field := "Data Science"
	if len(in.PreferredFields) > 0 {
		field = in.PreferredFields[0]
	}

	return []*domain.Recommendation{
		{
			Type:            domain.RecommendationUniversity,
			Title:           "University of Glasgow",
			Subtitle:        "MSc " + field,
			Description:     fmt.Sprintf("A strong match for your profile with a well-ranked %s programme and generous international intake.", field),
			MatchPercentage: 92,
			Details:         map[string]string{"country": country},
		},
		{
			Type:            domain.RecommendationUniversity,
			Title:           "University of Melbourne",
			Subtitle:        "Master of " + field,
			Description:     "Highly regarded programme with strong industry links and post-study work options.",
			MatchPercentage: 87,
			Details:         map[string]string{"country": country},
		},
		{
			Type:            domain.RecommendationUniversity,
			Title:           "University of Toronto",
			Subtitle:        "MSc " + field,
			Description:     "Competitive programme in a country with clear pathways to permanent residency.",
			MatchPercentage: 84,
			Details:         map[string]string{"country": country},
		},
		{
			Type:            domain.RecommendationImprovement,
			Title:           "Strengthen your English test score",
			Subtitle:        "Target IELTS 7.0 or equivalent",
			Description:     "A higher language score unlocks scholarship eligibility at most of your target universities.",
			MatchPercentage: 75,
		},
		{
			Type:            domain.RecommendationScholarship,
			Title:           "Commonwealth Shared Scholarship",
			Subtitle:        "Full tuition plus stipend",
			Description:     "Based on your profile you may be eligible; applications open annually in the autumn.",
			MatchPercentage: 68,
		},
	}
}
