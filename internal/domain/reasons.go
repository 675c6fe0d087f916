package domain

// Reason codes for classification failures, gate rejections and cart
// outcomes. These are expected, data-represented states; callers and tests
// branch on them directly instead of unwrapping errors.
const (
	// Classification failures
	ReasonRefNotClassified = "REF_NOT_CLASSIFIED"
	ReasonRefParseFailed   = "REF_PARSE_FAILED"
	ReasonSourceExcluded   = "SOURCE_EXCLUDED"

	// Guard rejections
	ReasonForbiddenClass      = "FORBIDDEN_CLASS"
	ReasonAnchorMissing       = "ANCHOR_MISSING"
	ReasonCrossMatchForbidden = "CROSS_MATCH_FORBIDDEN"

	// Gate rejections
	ReasonNotAvailable      = "NOT_AVAILABLE"
	ReasonDomainMismatch    = "DOMAIN_MISMATCH"
	ReasonSpeciesMismatch   = "SPECIES_MISMATCH"
	ReasonStateMismatch     = "STATE_MISMATCH"
	ReasonFormMismatch      = "FORM_MISMATCH"
	ReasonTailStateMismatch = "TAIL_STATE_MISMATCH"
	ReasonBreadedMismatch   = "BREADED_MISMATCH"
	ReasonSkinMismatch      = "SKIN_MISMATCH"
	ReasonCutTypeMismatch   = "CUT_TYPE_MISMATCH"
	ReasonCaliberMismatch   = "CALIBER_MISMATCH"
	ReasonCaliberUnknown    = "CALIBER_UNKNOWN"
	ReasonUOMMismatch       = "UOM_MISMATCH"
	ReasonPackagingMismatch = "PACKAGING_MISMATCH"
	ReasonBrandMismatch     = "BRAND_MISMATCH"

	// Non-blocking gate outcomes
	ReasonWeightToleranceExceeded = "WEIGHT_TOLERANCE_EXCEEDED"
	ReasonUnitUnknown             = "UNIT_UNKNOWN"

	// Pack and cart outcomes
	ReasonPackUnknown         = "PACK_UNKNOWN"
	ReasonMinOrderDeficit     = "MIN_ORDER_DEFICIT"
	ReasonSubstitutionRefused = "SUBSTITUTION_REFUSED"
	ReasonNoMatch             = "NO_MATCH"
	ReasonNoDestination       = "NO_DESTINATION"
)

// Batch audit issue codes emitted for the reporting collaborator.
const (
	IssueUnitMismatch  = "UNIT_MISMATCH"
	IssuePackOutlier   = "PACK_OUTLIER"
	IssueLowConfidence = "LOW_CONFIDENCE_CLASSIFICATION"
	IssueUnclassified  = "UNCLASSIFIED"
	IssueExcluded      = "EXCLUDED"
)

// Outcome kinds at the engine boundary. "not found" and "blocked" are normal
// results; "error" is reserved for genuine engine malfunction so tests can
// assert the two independently.
const (
	OutcomeOK       = "ok"
	OutcomeNotFound = "not_found"
	OutcomeBlocked  = "blocked"
	OutcomeError    = "error"
)
