// Package gateway adapts the engine to its file-based collaborators: CSV
// trade extracts, JSONL decision output, and the learner snapshot blob.
package gateway

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"

	"recon-engine/internal/domain"
)

// CSVTradeSource implements TradePairSource over two CSV extracts, one per
// side. The first row is a header naming the trade fields; unknown columns
// are carried through as optional fields.
type CSVTradeSource struct {
	bankPath         string
	counterpartyPath string
}

// NewCSVTradeSource creates a source reading the two extract files.
func NewCSVTradeSource(bankPath, counterpartyPath string) *CSVTradeSource {
	return &CSVTradeSource{bankPath: bankPath, counterpartyPath: counterpartyPath}
}

// Pairs reads both extracts and pairs records by trade identifier. Trades
// reported by only one side become pairs with the other side nil.
func (s *CSVTradeSource) Pairs(ctx context.Context) ([]domain.TradePair, error) {
	bank, err := ReadTradeFile(s.bankPath, domain.SourceBank)
	if err != nil {
		return nil, fmt.Errorf("could not read bank extract: %w", err)
	}
	cp, err := ReadTradeFile(s.counterpartyPath, domain.SourceCounterparty)
	if err != nil {
		return nil, fmt.Errorf("could not read counterparty extract: %w", err)
	}
	return PairRecords(bank, cp), nil
}

// ReadTradeFile reads one CSV extract into trade records tagged with the
// given source side.
func ReadTradeFile(path string, source domain.TradeSource) ([]domain.TradeRecord, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open trade extract %s: %w", path, err)
	}
	defer file.Close()

	reader := csv.NewReader(file)
	header, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("failed to read header from %s: %w", path, err)
	}
	for i := range header {
		header[i] = strings.TrimSpace(strings.ToLower(header[i]))
	}

	var records []domain.TradeRecord
	for {
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("error reading record from %s: %w", path, err)
		}
		fields := make(map[string]string, len(header))
		for i, col := range header {
			if i < len(row) && strings.TrimSpace(row[i]) != "" {
				fields[col] = strings.TrimSpace(row[i])
			}
		}
		records = append(records, domain.TradeRecord{Source: source, Fields: fields})
	}
	return records, nil
}

// PairRecords joins the two sides by trade identifier. Output order is
// deterministic: sorted by trade id, with identifier-less records last under
// a synthetic id. A duplicate identifier never replaces an existing pair;
// the extra record becomes its own one-sided pair under a synthetic key so
// every record still produces a decision.
func PairRecords(bank, cp []domain.TradeRecord) []domain.TradePair {
	pairs := make(map[string]*domain.TradePair)

	keyFor := func(rec domain.TradeRecord, idx int) string {
		if id := rec.TradeID(); id != "" {
			return id
		}
		return fmt.Sprintf("~unidentified-%s-%d", rec.Source, idx)
	}

	for i := range bank {
		rec := bank[i]
		key := keyFor(rec, i)
		if _, ok := pairs[key]; ok {
			key = duplicateKey(rec, key, i)
		}
		pairs[key] = &domain.TradePair{TradeID: key, Bank: &rec}
	}
	for i := range cp {
		rec := cp[i]
		key := keyFor(rec, i)
		if p, ok := pairs[key]; ok {
			if p.Counterparty == nil {
				p.Counterparty = &rec
				continue
			}
			key = duplicateKey(rec, key, i)
		}
		pairs[key] = &domain.TradePair{TradeID: key, Counterparty: &rec}
	}

	keys := make([]string, 0, len(pairs))
	for k := range pairs {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	out := make([]domain.TradePair, 0, len(pairs))
	for _, k := range keys {
		out = append(out, *pairs[k])
	}
	return out
}

func duplicateKey(rec domain.TradeRecord, id string, idx int) string {
	return fmt.Sprintf("~duplicate-%s-%s-%d", rec.Source, id, idx)
}
