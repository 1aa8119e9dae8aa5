package domain

// TradeSource identifies which side of the reconciliation reported a record.
type TradeSource string

const (
	SourceBank         TradeSource = "BANK"
	SourceCounterparty TradeSource = "COUNTERPARTY"
)

// Canonical field names for the fields the engine compares. Upstream
// extraction may attach ~25 more optional fields; unknown fields are ignored.
const (
	FieldTradeID           = "trade_id"
	FieldTradeDate         = "trade_date"
	FieldNotional          = "notional"
	FieldCurrency          = "currency"
	FieldCounterparty      = "counterparty"
	FieldProductType       = "product_type"
	FieldSettlementDate    = "settlement_date"
	FieldBuySell           = "buy_sell"
	FieldFixedRate         = "fixed_rate"
	FieldFloatingRateIndex = "floating_rate_index"
)

// TradeRecord is one side's view of a trade, as produced by the upstream
// extraction stage. It is immutable once handed to the engine.
type TradeRecord struct {
	Source TradeSource       `json:"source"`
	Fields map[string]string `json:"fields"`
}

// Field returns the value of a named field and whether it is present and
// non-empty.
func (r *TradeRecord) Field(name string) (string, bool) {
	if r == nil || r.Fields == nil {
		return "", false
	}
	v, ok := r.Fields[name]
	if !ok || v == "" {
		return "", false
	}
	return v, true
}

// TradeID returns the record's identifier, or "" when absent.
func (r *TradeRecord) TradeID() string {
	v, _ := r.Field(FieldTradeID)
	return v
}

// TradePair bundles the two views of one trade for reconciliation. Either
// side may be nil when that side never reported the trade.
type TradePair struct {
	TradeID      string       `json:"trade_id"`
	Bank         *TradeRecord `json:"bank,omitempty"`
	Counterparty *TradeRecord `json:"counterparty,omitempty"`
}
