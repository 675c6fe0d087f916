package usecase

import (
	"context"
	"log"
	"time"

	"github.com/supplymatch/backend/internal/domain"
)

// Pack size sanity bands per unit family, in base units. Anything outside is
// reported as a pack outlier for the catalog team.
const (
	minSanePackWeight = 10    // 10 g
	maxSanePackWeight = 25000 // 25 kg
	minSanePackVolume = 50    // 50 ml
	maxSanePackVolume = 30000 // 30 l
	maxSanePackPieces = 10000
)

// AuditReportWriter renders a finished audit report for the reporting
// collaborator.
type AuditReportWriter interface {
	Write(report *domain.AuditReport, path string) error
}

// AuditService sweeps the whole active catalog through the classification
// pipeline and emits per-item issue codes. A single bad item never aborts
// the run.
type AuditService struct {
	match   *MatchService
	catalog domain.CatalogRepository
	debug   bool
}

// NewAuditService creates an audit service sharing the match pipeline's
// classifier and cache.
func NewAuditService(match *MatchService, catalog domain.CatalogRepository, debugTrace bool) *AuditService {
	return &AuditService{match: match, catalog: catalog, debug: debugTrace}
}

// Run audits every active offer and returns the aggregated report.
func (s *AuditService) Run(ctx context.Context) (*domain.AuditReport, error) {
	offers, err := s.catalog.ListActive(ctx)
	if err != nil {
		return nil, err
	}

	report := &domain.AuditReport{
		RanAt:  time.Now(),
		ByCode: make(map[string]int),
	}

	for _, offer := range offers {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		default:
		}
		report.Scanned++
		for _, issue := range s.auditOne(ctx, offer) {
			report.Issues = append(report.Issues, issue)
			report.ByCode[issue.Code]++
		}
	}

	if s.debug {
		log.Printf("[AUDIT] scanned=%d issues=%d byCode=%v", report.Scanned, len(report.Issues), report.ByCode)
	}
	return report, nil
}

// auditOne inspects one offer. Any panic inside the pipeline is converted
// into an issue so the sweep continues.
func (s *AuditService) auditOne(ctx context.Context, offer domain.Offer) (issues []domain.AuditIssue) {
	defer func() {
		if r := recover(); r != nil {
			issues = append(issues, domain.AuditIssue{
				OfferID: offer.ID, Name: offer.Name,
				Code: "ENGINE_ERROR", Detail: "pipeline panic during audit",
			})
		}
	}()

	add := func(code, detail string) {
		issues = append(issues, domain.AuditIssue{OfferID: offer.ID, Name: offer.Name, Code: code, Detail: detail})
	}

	cls := s.match.Classify(ctx, offer.Name)
	switch cls.Code {
	case domain.ReasonSourceExcluded:
		add(domain.IssueExcluded, "matches a forbidden product class")
		return
	case domain.ReasonRefNotClassified, domain.ReasonRefParseFailed:
		add(domain.IssueUnclassified, cls.Code)
		return
	}

	sig := cls.Signature

	// The offer declares a pack quantity but its own text parses to no unit,
	// or to a different unit family than the one the pack implies.
	if offer.PackKnown && sig.UnitType == domain.UnitUnknown {
		add(domain.IssueUnitMismatch, "pack quantity declared but no unit parsed from name")
	}

	if offer.PackKnown {
		if outlier(sig.UnitType, offer.PackBaseQty) {
			add(domain.IssuePackOutlier, "pack size outside sane band for unit family")
		}
	}

	if sig.Domain == domain.DomainGeneric && sig.UnitType == domain.UnitUnknown && sig.BrandID == "" {
		add(domain.IssueLowConfidence, "generic classification with no unit or brand evidence")
	}

	return
}

func outlier(t domain.UnitType, pack float64) bool {
	switch t {
	case domain.UnitWeight:
		return pack < minSanePackWeight || pack > maxSanePackWeight
	case domain.UnitVolume:
		return pack < minSanePackVolume || pack > maxSanePackVolume
	case domain.UnitPiece:
		return pack < 1 || pack > maxSanePackPieces
	default:
		return false
	}
}
