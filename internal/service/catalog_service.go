package service

import (
	"context"
	"strings"
	"time"

	"github.com/christa-jose1/student-migration-portal/internal/domain"
	"github.com/christa-jose1/student-migration-portal/internal/repository"
)

// CatalogService manages the public content catalogs: courses, FAQs,
// and country guides. Reads are public; writes are admin-only and
// enforced at the router.
type CatalogService struct {
	courses repository.CourseRepository
	faqs    repository.FAQRepository
	guides  repository.GuideRepository
	now     func() time.Time
}

// NewCatalogService creates a CatalogService.
func NewCatalogService(courses repository.CourseRepository, faqs repository.FAQRepository, guides repository.GuideRepository) *CatalogService {
	return &CatalogService{courses: courses, faqs: faqs, guides: guides, now: time.Now}
}

// CreateCourse adds a course to the catalog.
func (s *CatalogService) CreateCourse(ctx context.Context, req domain.CourseRequest) (*domain.Course, error) {
	now := s.now()
	course := &domain.Course{
		University:  req.University,
		Place:       req.Place,
		Course:      req.Course,
		CountryCode: normalizeCountry(req.CountryCode),
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := s.courses.Create(ctx, course); err != nil {
		return nil, err
	}
	return course, nil
}

// ListCourses returns courses, optionally filtered by country code.
func (s *CatalogService) ListCourses(ctx context.Context, countryCode string) ([]domain.Course, error) {
	return s.courses.List(ctx, normalizeCountry(countryCode))
}

// UpdateCourse replaces a course entry.
func (s *CatalogService) UpdateCourse(ctx context.Context, id string, req domain.CourseRequest) (*domain.Course, error) {
	req.CountryCode = normalizeCountry(req.CountryCode)
	return s.courses.Update(ctx, id, req)
}

// DeleteCourse removes a course entry.
func (s *CatalogService) DeleteCourse(ctx context.Context, id string) error {
	return s.courses.Delete(ctx, id)
}

// CreateFAQ adds an FAQ entry.
func (s *CatalogService) CreateFAQ(ctx context.Context, req domain.FAQRequest) (*domain.FAQ, error) {
	faq := &domain.FAQ{Question: req.Question, Answer: req.Answer}
	if err := s.faqs.Create(ctx, faq); err != nil {
		return nil, err
	}
	return faq, nil
}

// ListFAQs returns every FAQ entry.
func (s *CatalogService) ListFAQs(ctx context.Context) ([]domain.FAQ, error) {
	return s.faqs.List(ctx)
}

// UpdateFAQ replaces an FAQ entry.
func (s *CatalogService) UpdateFAQ(ctx context.Context, id string, req domain.FAQRequest) (*domain.FAQ, error) {
	return s.faqs.Update(ctx, id, req)
}

// DeleteFAQ removes an FAQ entry.
func (s *CatalogService) DeleteFAQ(ctx context.Context, id string) error {
	return s.faqs.Delete(ctx, id)
}

// RegisterGuide records the metadata of an uploaded country guide.
func (s *CatalogService) RegisterGuide(ctx context.Context, req domain.GuideRequest) (*domain.Guide, error) {
	guide := &domain.Guide{
		FileName:    req.FileName,
		FileURL:     req.FileURL,
		CountryCode: normalizeCountry(req.CountryCode),
		CreatedAt:   s.now(),
	}
	if err := s.guides.Create(ctx, guide); err != nil {
		return nil, err
	}
	return guide, nil
}

// ListGuides returns guides, optionally filtered by country code.
func (s *CatalogService) ListGuides(ctx context.Context, countryCode string) ([]domain.Guide, error) {
	return s.guides.List(ctx, normalizeCountry(countryCode))
}

// DeleteGuide removes a guide record.
func (s *CatalogService) DeleteGuide(ctx context.Context, id string) error {
	return s.guides.Delete(ctx, id)
}

func normalizeCountry(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}
