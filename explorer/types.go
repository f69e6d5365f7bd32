package explorer

import (
	"fmt"
	"time"

	"github.com/btcsuite/btcd/btcutil"
	"github.com/btcsuite/btcd/chaincfg"
	"github.com/btcsuite/btcd/chaincfg/chainhash"
)

// Transaction is a single transaction as reported by the explorer.
// Field names follow the explorer's JSON schema.
type Transaction struct {
	Hash   string   `json:"hash"`
	Time   int64    `json:"time"`
	Inputs []Input  `json:"inputs"`
	Out    []Output `json:"out"`
}

// Input wraps the previous output being spent.
type Input struct {
	PrevOut Output `json:"prev_out"`
}

// Output is one transaction output: a destination address and a value in
// satoshis.
type Output struct {
	Addr  string `json:"addr"`
	Value int64  `json:"value"`
}

// OutputTotal returns the sum of all output values.
func (tx *Transaction) OutputTotal() btcutil.Amount {
	var total btcutil.Amount
	for _, out := range tx.Out {
		total += btcutil.Amount(out.Value)
	}
	return total
}

// InputTotal returns the sum of all spent previous-output values.
func (tx *Transaction) InputTotal() btcutil.Amount {
	var total btcutil.Amount
	for _, in := range tx.Inputs {
		total += btcutil.Amount(in.PrevOut.Value)
	}
	return total
}

// Received returns the explorer-reported transaction time.
func (tx *Transaction) Received() time.Time {
	return time.Unix(tx.Time, 0)
}

// AddressSummary is the aggregate view of one address plus its recent
// transactions.
type AddressSummary struct {
	Address       string        `json:"address"`
	TxCount       int64         `json:"n_tx"`
	TotalReceived int64         `json:"total_received"`
	TotalSent     int64         `json:"total_sent"`
	FinalBalance  int64         `json:"final_balance"`
	Txs           []Transaction `json:"txs"`
}

// tickerEntry is one currency entry in the explorer's ticker response.
type tickerEntry struct {
	Last   float64 `json:"last"`
	Symbol string  `json:"symbol"`
}

// ValidateTxHash checks that s is a well-formed transaction hash (64 hex
// characters). Validation happens before any network call. The length check
// is explicit because chainhash zero-pads short strings.
func ValidateTxHash(s string) error {
	if len(s) != chainhash.MaxHashStringSize {
		return fmt.Errorf("invalid transaction hash %q: must be %d hex characters",
			s, chainhash.MaxHashStringSize)
	}
	if _, err := chainhash.NewHashFromStr(s); err != nil {
		return fmt.Errorf("invalid transaction hash %q: %w", s, err)
	}
	return nil
}

// ValidateAddress checks that s decodes as a mainnet Bitcoin address.
func ValidateAddress(s string) error {
	if _, err := btcutil.DecodeAddress(s, &chaincfg.MainNetParams); err != nil {
		return fmt.Errorf("invalid bitcoin address %q: %w", s, err)
	}
	return nil
}

// validateTransactions rejects records the formatter must never see: empty
// hashes and negative output values.
func validateTransactions(txs []Transaction) error {
	for i, tx := range txs {
		if tx.Hash == "" {
			return fmt.Errorf("transaction %d has an empty hash", i)
		}
		for j, out := range tx.Out {
			if out.Value < 0 {
				return fmt.Errorf("transaction %s output %d has negative value %d", tx.Hash, j, out.Value)
			}
		}
		for j, in := range tx.Inputs {
			if in.PrevOut.Value < 0 {
				return fmt.Errorf("transaction %s input %d has negative value %d", tx.Hash, j, in.PrevOut.Value)
			}
		}
	}
	return nil
}
