package transaction

import (
	"fmt"
	"math"

	"github.com/mezonai/powledger/errors"
)

const (
	// RewardSender marks coin issuance for a mined block.
	RewardSender = "0"
	// RewardAmount is paid to the miner of every block.
	RewardAmount = 1
)

// Transaction is one transfer recorded on the chain. Amount sign is not constrained;
// see CheckFinite and CheckAmount.
type Transaction struct {
	Sender   string  `json:"sender"`
	Receiver string  `json:"receiver"`
	Amount   float64 `json:"amount"`
}

func NewTransaction(sender, receiver string, amount float64) Transaction {
	return Transaction{
		Sender:   sender,
		Receiver: receiver,
		Amount:   amount,
	}
}

// NewReward builds the issuance transaction paying minerAddress for a block.
func NewReward(minerAddress string) Transaction {
	return NewTransaction(RewardSender, minerAddress, RewardAmount)
}

func (tx Transaction) String() string {
	return fmt.Sprintf("%s->%s:%v", tx.Sender, tx.Receiver, tx.Amount)
}

// CheckFinite rejects NaN and infinite amounts.
func CheckFinite(amount float64) error {
	if math.IsNaN(amount) || math.IsInf(amount, 0) {
		return errors.InvalidAmount(amount)
	}
	return nil
}

// CheckAmount rejects NaN, infinite, zero and negative amounts.
func CheckAmount(amount float64) error {
	if err := CheckFinite(amount); err != nil {
		return err
	}
	if amount <= 0 {
		return errors.InvalidAmount(amount)
	}
	return nil
}
