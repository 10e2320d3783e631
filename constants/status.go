package constants

// FileStatus is the canonical per-file outcome for a batch upload.
type FileStatus string

// Stable values (store these exact strings in DB).
const (
	FileStatusCreated          FileStatus = "CREATED"                      // certificate persisted
	FileStatusReferenceOnly    FileStatus = "REFERENCE_ONLY"               // soft mismatch, kept with note
	FileStatusRejected         FileStatus = "REJECTED"                     // hard identity mismatch
	FileStatusPendingDuplicate FileStatus = "PENDING_DUPLICATE_RESOLUTION" // duplicate conflict awaiting caller
	FileStatusExtractionFailed FileStatus = "EXTRACTION_FAILED"            // all tiers insufficient
	FileStatusError            FileStatus = "ERROR"                        // infrastructure failure (retryable)
)

// ExtractionTier identifies which fallback tier produced a result.
type ExtractionTier string

const (
	TierAI     ExtractionTier = "AI"
	TierManual ExtractionTier = "MANUAL"
	TierRegex  ExtractionTier = "REGEX"
)
