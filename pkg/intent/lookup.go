package intent

import (
	"context"

	"go.uber.org/zap"

	"github.com/shlapabank/dashboard-go/pkg/validation"
	"github.com/shlapabank/dashboard-go/signal"
)

const (
	accountLookupKey = "lookup.account"
	phoneLookupKey   = "lookup.phone"
)

// LookupAccount validates raw and, once typing pauses, classifies the
// account number as ours or another bank's. Invalid input cancels any
// scheduled lookup.
func (d *Dispatcher) LookupAccount(raw string) validation.Result {
	res := d.validator.AccountNumber(raw)
	if !res.Valid {
		d.lookups.Cancel(accountLookupKey)
		return res
	}

	number := res.Value
	d.lookups.Schedule(accountLookupKey, func(ctx context.Context) {
		check, err := d.backend.CheckAccount(ctx, number)
		if ctx.Err() != nil {
			return
		}

		event := AccountLookup{Number: number}
		if err != nil {
			d.logger.Debug("account lookup failed", zap.Error(err))
			event.Error = d.errorMessage(err)
		} else {
			d.rememberClassification(number, !check.Found)
			event.Found = check.Found
			event.Masked = check.Masked
		}
		signal.Send(AccountClassified, event)
	})
	return res
}

// LookupPhone resolves which banks can receive a transfer to the number.
func (d *Dispatcher) LookupPhone(raw string) validation.Result {
	res := d.validator.Phone(raw)
	if !res.Valid {
		d.lookups.Cancel(phoneLookupKey)
		return res
	}

	phone := res.Value
	d.lookups.Schedule(phoneLookupKey, func(ctx context.Context) {
		check, err := d.backend.CheckPhone(ctx, phone)
		if ctx.Err() != nil {
			return
		}

		event := PhoneLookup{Phone: phone}
		if err != nil {
			d.logger.Debug("phone lookup failed", zap.Error(err))
			event.Error = d.errorMessage(err)
		} else {
			event.InOurBank = check.InOurBank
			event.AvailableBanks = check.AvailableBanks
		}
		signal.Send(PhoneClassified, event)
	})
	return res
}
