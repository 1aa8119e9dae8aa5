package domain

// ReasonCode is a short enumerable tag explaining why a match or exception
// outcome occurred. The taxonomy package maps each code to a category and a
// base severity weight.
type ReasonCode string

const (
	// Structural data errors.
	ReasonMissingBankTrade         ReasonCode = "MISSING_BANK_TRADE"
	ReasonMissingCounterpartyTrade ReasonCode = "MISSING_COUNTERPARTY_TRADE"
	ReasonTradeIDMismatch          ReasonCode = "TRADE_ID_MISMATCH"
	ReasonInvalidFieldFormat       ReasonCode = "INVALID_FIELD_FORMAT"

	// Field-level matching outcomes.
	ReasonDateMismatch             ReasonCode = "DATE_MISMATCH"
	ReasonDateWithinTolerance      ReasonCode = "DATE_WITHIN_TOLERANCE"
	ReasonNotionalMismatch         ReasonCode = "NOTIONAL_MISMATCH"
	ReasonNotionalWithinTolerance  ReasonCode = "NOTIONAL_WITHIN_TOLERANCE"
	ReasonCurrencyMismatch         ReasonCode = "CURRENCY_MISMATCH"
	ReasonCounterpartyMismatch     ReasonCode = "COUNTERPARTY_NAME_MISMATCH"
	ReasonCounterpartyVariant      ReasonCode = "COUNTERPARTY_NAME_VARIANT"
	ReasonProductTypeMismatch      ReasonCode = "PRODUCT_TYPE_MISMATCH"
	ReasonSettlementDateMismatch   ReasonCode = "SETTLEMENT_DATE_MISMATCH"
	ReasonBuySellMismatch          ReasonCode = "BUY_SELL_MISMATCH"
	ReasonRateMismatch             ReasonCode = "RATE_MISMATCH"
	ReasonFloatingIndexMismatch    ReasonCode = "FLOATING_INDEX_MISMATCH"

	// Pipeline processing failures reported by upstream stages.
	ReasonExtractionFailed    ReasonCode = "EXTRACTION_FAILED"
	ReasonStorageWriteFailed  ReasonCode = "STORAGE_WRITE_FAILED"
	ReasonQueueDeliveryFailed ReasonCode = "QUEUE_DELIVERY_FAILED"

	// Transient conditions eligible for automatic resolution.
	ReasonLowConfidenceExtraction ReasonCode = "LOW_CONFIDENCE_EXTRACTION"
	ReasonRateLimitExceeded       ReasonCode = "RATE_LIMIT_EXCEEDED"
	ReasonTimeout                 ReasonCode = "TIMEOUT"
	ReasonNetworkError            ReasonCode = "NETWORK_ERROR"

	// Access failures that force compliance handling.
	ReasonAuthFailure         ReasonCode = "AUTH_FAILURE"
	ReasonAuthorizationDenied ReasonCode = "AUTHORIZATION_DENIED"
)
