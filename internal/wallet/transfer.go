package wallet

import (
	"strings"

	"ticwallet/internal/apperr"

	"github.com/shopspring/decimal"
)

// conversionScale matches the scale of the balance columns.
const conversionScale = 10

// movement describes one transfer applied to a wallet row.
type movement struct {
	From, To    Account
	AmountUSD   decimal.Decimal
	Debited     decimal.Decimal // in From's unit
	Credited    decimal.Decimal // in To's unit
	Rate        decimal.Decimal
	FromBefore  decimal.Decimal
	FromAfter   decimal.Decimal
	ToBefore    decimal.Decimal
	ToAfter     decimal.Decimal
	TotalBefore decimal.Decimal
	TotalAfter  decimal.Decimal
}

// parseTransfer runs the static checks in order: required fields, positive
// amount within the stored scale, distinct accounts, known accounts, routing.
func parseTransfer(req TransferRequest, route RoutingPolicy) (Account, Account, error) {
	if strings.TrimSpace(req.FromAccount) == "" || strings.TrimSpace(req.ToAccount) == "" {
		return 0, 0, apperr.Validation("from_account and to_account are required")
	}
	if !req.Amount.IsPositive() {
		return 0, 0, apperr.Validation("amount must be greater than 0")
	}
	if err := checkScale(req.Amount); err != nil {
		return 0, 0, err
	}
	if strings.EqualFold(strings.TrimSpace(req.FromAccount), strings.TrimSpace(req.ToAccount)) {
		return 0, 0, apperr.Validation("cannot transfer to the same account")
	}

	from, ok := ParseAccount(req.FromAccount)
	if !ok {
		return 0, 0, apperr.Validation("invalid from_account %q, must be one of: %s", req.FromAccount, accountCodes())
	}
	to, ok := ParseAccount(req.ToAccount)
	if !ok {
		return 0, 0, apperr.Validation("invalid to_account %q, must be one of: %s", req.ToAccount, accountCodes())
	}

	if err := route(from, to); err != nil {
		return 0, 0, err
	}
	return from, to, nil
}

// checkScale rejects amounts the balance columns would round on write.
func checkScale(amount decimal.Decimal) error {
	if !amount.Equal(amount.Truncate(conversionScale)) {
		return apperr.Validation("amount supports at most %d decimal places", conversionScale)
	}
	return nil
}

func accountCodes() string {
	codes := make([]string, len(allAccounts))
	for i, a := range allAccounts {
		codes[i] = a.Code()
	}
	return strings.Join(codes, ", ")
}

// nativeAmounts converts a USD amount into what leaves the source and what
// arrives at the destination. Only legs touching the main wallet convert
// tokens; a move between two sub-accounts is same-unit. Token debits round
// up and token credits round down so a transfer never creates value.
func nativeAmounts(from, to Account, usd decimal.Decimal, rates Rates) (debit, credit, rate decimal.Decimal) {
	debit, credit, rate = usd, usd, decimal.NewFromInt(1)

	if to == AccountTotal && from.IsToken() {
		rate = rates.Price(from)
		debit = usd.DivRound(rate, conversionScale+1).RoundCeil(conversionScale)
	}
	if from == AccountTotal && to.IsToken() {
		rate = rates.Price(to)
		credit = usd.DivRound(rate, conversionScale+1).RoundFloor(conversionScale)
	}
	return debit, credit, rate
}

// applyTransfer moves value between two accounts of w. It mutates w only when
// it returns a nil error. The main balance moves only if one side is the main
// account; a sub-to-sub move never touches it.
func applyTransfer(w *Wallet, from, to Account, usd decimal.Decimal, rates Rates) (*movement, error) {
	debit, credit, rate := nativeAmounts(from, to, usd, rates)

	m := &movement{
		From:        from,
		To:          to,
		AmountUSD:   usd,
		Debited:     debit,
		Credited:    credit,
		Rate:        rate,
		FromBefore:  w.Balance(from),
		ToBefore:    w.Balance(to),
		TotalBefore: w.TotalBalance,
	}

	if m.FromBefore.LessThan(debit) {
		return nil, insufficient(from, debit, m.FromBefore)
	}

	m.FromAfter = m.FromBefore.Sub(debit)
	m.ToAfter = m.ToBefore.Add(credit)

	// Recomputed guard on the value about to be written.
	if m.FromAfter.IsNegative() {
		return nil, insufficient(from, debit, m.FromBefore)
	}

	w.setBalance(from, m.FromAfter)
	w.setBalance(to, m.ToAfter)
	m.TotalAfter = w.TotalBalance

	return m, nil
}

func insufficient(a Account, required, available decimal.Decimal) error {
	u := a.Unit()
	p := u.Precision()
	return apperr.Insufficient("Insufficient %s balance. Required: %s, Available: %s",
		a.Label(), u.Format(required.RoundCeil(p)), u.Format(available.RoundFloor(p)))
}
