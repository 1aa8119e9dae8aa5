package gateway

import (
	"context"
	"encoding/csv"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"recon-engine/internal/domain"
)

func writeCSV(t *testing.T, name string, rows [][]string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	f, err := os.Create(path)
	require.NoError(t, err)
	defer f.Close()
	w := csv.NewWriter(f)
	require.NoError(t, w.WriteAll(rows))
	w.Flush()
	require.NoError(t, w.Error())
	return path
}

func TestReadTradeFile(t *testing.T) {
	path := writeCSV(t, "bank.csv", [][]string{
		{"trade_id", "trade_date", "notional", "currency", "counterparty"},
		{"TRX001", "2026-03-02", "10000000", "USD", "Goldman Sachs"},
		{"TRX002", "2026-03-03", "5000000", "EUR", ""},
	})

	records, err := ReadTradeFile(path, domain.SourceBank)
	require.NoError(t, err)
	require.Len(t, records, 2)

	assert.Equal(t, domain.SourceBank, records[0].Source)
	assert.Equal(t, "TRX001", records[0].TradeID())
	assert.Equal(t, map[string]string{
		"trade_id":     "TRX001",
		"trade_date":   "2026-03-02",
		"notional":     "10000000",
		"currency":     "USD",
		"counterparty": "Goldman Sachs",
	}, records[0].Fields)

	// Empty cells are dropped rather than stored as empty strings.
	_, ok := records[1].Field(domain.FieldCounterparty)
	assert.False(t, ok)
}

func TestReadTradeFile_MissingFile(t *testing.T) {
	_, err := ReadTradeFile(filepath.Join(t.TempDir(), "absent.csv"), domain.SourceBank)
	assert.Error(t, err)
}

func TestPairRecords(t *testing.T) {
	bank := []domain.TradeRecord{
		{Source: domain.SourceBank, Fields: map[string]string{"trade_id": "TRX001"}},
		{Source: domain.SourceBank, Fields: map[string]string{"trade_id": "TRX002"}},
	}
	cp := []domain.TradeRecord{
		{Source: domain.SourceCounterparty, Fields: map[string]string{"trade_id": "TRX001"}},
		{Source: domain.SourceCounterparty, Fields: map[string]string{"trade_id": "TRX003"}},
	}

	pairs := PairRecords(bank, cp)
	require.Len(t, pairs, 3)

	byID := map[string]domain.TradePair{}
	for _, p := range pairs {
		byID[p.TradeID] = p
	}

	both := byID["TRX001"]
	assert.NotNil(t, both.Bank)
	assert.NotNil(t, both.Counterparty)

	bankOnly := byID["TRX002"]
	assert.NotNil(t, bankOnly.Bank)
	assert.Nil(t, bankOnly.Counterparty)

	cpOnly := byID["TRX003"]
	assert.Nil(t, cpOnly.Bank)
	assert.NotNil(t, cpOnly.Counterparty)
}

func TestPairRecords_DuplicateCounterpartyIDKeepsEveryRecord(t *testing.T) {
	bank := []domain.TradeRecord{
		{Source: domain.SourceBank, Fields: map[string]string{"trade_id": "TRX001", "notional": "100"}},
	}
	cp := []domain.TradeRecord{
		{Source: domain.SourceCounterparty, Fields: map[string]string{"trade_id": "TRX001", "notional": "100"}},
		{Source: domain.SourceCounterparty, Fields: map[string]string{"trade_id": "TRX001", "notional": "200"}},
	}

	pairs := PairRecords(bank, cp)
	require.Len(t, pairs, 2)

	// The first counterparty row completes the bank pair; the duplicate row
	// becomes its own counterparty-only pair instead of replacing it.
	full := pairs[0]
	assert.Equal(t, "TRX001", full.TradeID)
	require.NotNil(t, full.Bank)
	require.NotNil(t, full.Counterparty)
	v, _ := full.Counterparty.Field("notional")
	assert.Equal(t, "100", v)

	extra := pairs[1]
	assert.Nil(t, extra.Bank)
	require.NotNil(t, extra.Counterparty)
	v, _ = extra.Counterparty.Field("notional")
	assert.Equal(t, "200", v)
}

func TestPairRecords_DuplicateBankIDDoesNotOverwrite(t *testing.T) {
	bank := []domain.TradeRecord{
		{Source: domain.SourceBank, Fields: map[string]string{"trade_id": "TRX001", "notional": "100"}},
		{Source: domain.SourceBank, Fields: map[string]string{"trade_id": "TRX001", "notional": "999"}},
	}
	cp := []domain.TradeRecord{
		{Source: domain.SourceCounterparty, Fields: map[string]string{"trade_id": "TRX001", "notional": "100"}},
	}

	pairs := PairRecords(bank, cp)
	require.Len(t, pairs, 2)

	full := pairs[0]
	assert.Equal(t, "TRX001", full.TradeID)
	require.NotNil(t, full.Bank)
	v, _ := full.Bank.Field("notional")
	assert.Equal(t, "100", v)
	assert.NotNil(t, full.Counterparty)

	extra := pairs[1]
	require.NotNil(t, extra.Bank)
	v, _ = extra.Bank.Field("notional")
	assert.Equal(t, "999", v)
	assert.Nil(t, extra.Counterparty)
}

func TestCSVTradeSource_Pairs(t *testing.T) {
	bankPath := writeCSV(t, "bank.csv", [][]string{
		{"trade_id", "notional"},
		{"TRX001", "100"},
	})
	cpPath := writeCSV(t, "cp.csv", [][]string{
		{"trade_id", "notional"},
		{"TRX001", "100"},
		{"TRX002", "200"},
	})

	pairs, err := NewCSVTradeSource(bankPath, cpPath).Pairs(context.Background())
	require.NoError(t, err)
	require.Len(t, pairs, 2)
	assert.Equal(t, "TRX001", pairs[0].TradeID)
	assert.Equal(t, "TRX002", pairs[1].TradeID)
}
