package render

import (
	"fmt"
	"math"
	"time"

	"github.com/btcsuite/btcd/btcutil"

	"github.com/ArchivexBlasich/BTC-Analyser/explorer"
)

// TransactionRow is one already-validated record headed for the table.
type TransactionRow struct {
	Hash   string
	Amount btcutil.Amount
	Time   time.Time
}

// FormatBTC renders an amount with 8 decimal places, e.g. "0.00000546 BTC".
func FormatBTC(amt btcutil.Amount) string {
	return fmt.Sprintf("%.8f BTC", amt.ToBTC())
}

// FormatUSD renders a USD value with 5 decimal places. Five decimals are
// deliberate: typical per-transaction amounts are sub-cent.
func FormatUSD(v float64) string {
	return fmt.Sprintf("%.5f", v)
}

// USDValue converts an amount to USD at the given rate.
func USDValue(amt btcutil.Amount, rate float64) float64 {
	return amt.ToBTC() * rate
}

// TotalUSD sums the satoshi amounts first and converts the sum to USD once.
// Summing per-row USD values after display rounding compounds error across
// rows; the tests pin this ordering.
func TotalUSD(rows []TransactionRow, rate float64) float64 {
	var total btcutil.Amount
	for _, r := range rows {
		total += r.Amount
	}
	return USDValue(total, rate)
}

// checkRate rejects conversion rates the formatter cannot safely use.
func checkRate(rate float64) error {
	if rate <= 0 || math.IsNaN(rate) || math.IsInf(rate, 0) {
		return fmt.Errorf("conversion rate must be a positive finite number, got %v", rate)
	}
	return nil
}

// TransactionTable renders rows as Hash | Bitcoin | Amount (USD) | Time with
// a Total footer. An empty row list yields a header plus a zero total. Times
// are shown in the local time zone.
func TransactionTable(rows []TransactionRow, rate float64) (*Table, error) {
	if err := checkRate(rate); err != nil {
		return nil, err
	}

	t := NewTable("Hash", "Bitcoin", "Amount (USD)", "Time")
	var total btcutil.Amount
	for _, r := range rows {
		total += r.Amount
		t.AddRow(
			r.Hash,
			FormatBTC(r.Amount),
			FormatUSD(USDValue(r.Amount, rate)),
			r.Time.Format("15:04:05"),
		)
	}
	t.SetFooter("Total", FormatBTC(total), FormatUSD(USDValue(total, rate)), "")
	return t, nil
}

// GrandTotalTable renders the single-row grand total in USD.
func GrandTotalTable(rows []TransactionRow, rate float64) (*Table, error) {
	if err := checkRate(rate); err != nil {
		return nil, err
	}
	t := NewTable("Total Amount", "USD")
	t.AddRow("", "$"+FormatUSD(TotalUSD(rows, rate)))
	return t, nil
}

// TransferTotalsTable renders the total input and output of one transaction.
func TransferTotalsTable(in, out btcutil.Amount) *Table {
	t := NewTable("Total Input", "Total Output")
	t.AddRow(FormatBTC(in), FormatBTC(out))
	return t
}

// FlowTable renders address/value pairs for one side of a transaction.
// label names the side, e.g. "Address (input)".
func FlowTable(label string, outs []explorer.Output) *Table {
	t := NewTable(label, "Value")
	for _, o := range outs {
		addr := o.Addr
		if addr == "" {
			// Non-standard scripts have no decodable address.
			addr = "(non-standard)"
		}
		t.AddRow(addr, FormatBTC(btcutil.Amount(o.Value)))
	}
	return t
}

// AddressSummaryTable renders the aggregate view of one address.
func AddressSummaryTable(s *explorer.AddressSummary) *Table {
	t := NewTable("Address", "Transactions", "Total Received", "Total Sent", "Final Balance")
	t.AddRow(
		s.Address,
		fmt.Sprintf("%d", s.TxCount),
		FormatBTC(btcutil.Amount(s.TotalReceived)),
		FormatBTC(btcutil.Amount(s.TotalSent)),
		FormatBTC(btcutil.Amount(s.FinalBalance)),
	)
	return t
}

// TransactionRows converts explorer transactions to table rows. The amount
// shown for a transaction is the sum of its output values.
func TransactionRows(txs []explorer.Transaction) []TransactionRow {
	rows := make([]TransactionRow, 0, len(txs))
	for i := range txs {
		tx := &txs[i]
		rows = append(rows, TransactionRow{
			Hash:   tx.Hash,
			Amount: tx.OutputTotal(),
			Time:   tx.Received(),
		})
	}
	return rows
}
