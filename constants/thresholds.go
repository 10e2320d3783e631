package constants

// Hand-tuned defaults for extraction acceptance and compliance windows.
// These are defaults, not invariants: each component takes them as config so
// product can retune without a schema change.
const (
	// MinExtractionConfidence gates Tier-1 acceptance.
	MinExtractionConfidence = 0.40
	// MinCriticalFieldCoverage is the required fraction of
	// {cert_name, cert_no, ship_name} present on a Tier-1 result.
	MinCriticalFieldCoverage = 2.0 / 3.0
	// MinFieldCoverage is the required fraction of all tracked fields.
	MinFieldCoverage = 0.30
	// MinSummaryTextLength disqualifies empty/near-empty OCR summaries.
	MinSummaryTextLength = 100

	// DuplicateSimilarityThreshold flags a pair as duplicate (inclusive).
	DuplicateSimilarityThreshold = 0.5

	// SurveyWindowDays is the half-width of the survey admissibility window.
	SurveyWindowDays = 90
	// CriticalDueSoonDays flags a survey as critical when due within it.
	CriticalDueSoonDays = 7
	// CriticalOverdueDays flags a non-special survey as critical when this
	// far past due.
	CriticalOverdueDays = 30

	// MinValidYear bounds accepted calendar dates; the upper bound is
	// current year + 1.
	MinValidYear = 1980
)
