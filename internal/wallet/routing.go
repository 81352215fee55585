package wallet

import "ticwallet/internal/apperr"

// RoutingPolicy decides which account pairs may be used for a transfer.
// It runs before any balance is read.
type RoutingPolicy func(from, to Account) error

// HubRouting is the production policy: sub-wallets only converge into the
// main wallet and only the main wallet fans out to them.
func HubRouting(from, to Account) error {
	switch from {
	case AccountTIC, AccountGIC, AccountPartner:
		if to != AccountTotal {
			return apperr.Routing("%s can only transfer to %s", from.Label(), AccountTotal.Label())
		}
	}
	switch to {
	case AccountTIC, AccountGIC, AccountPartner, AccountStaking:
		if from != AccountTotal {
			return apperr.Routing("%s can only receive from %s", to.Label(), AccountTotal.Label())
		}
	}
	return nil
}

// OpenRouting allows every distinct pair.
func OpenRouting(from, to Account) error {
	return nil
}
