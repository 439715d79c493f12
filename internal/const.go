package internal

import "time"

const (
	OtpDigits           = 4
	AccountNumberLength = 16
	PhoneDigits         = 10
	PhoneCountryPrefix  = "+7"
	OurBankCode         = "shlapabank"
	BaseCurrency        = "RUB"
)

const (
	TransferMin     = "10"
	TransferMax     = "300000"
	TopupMin        = "1"
	ExchangeMin     = "0.01"
	MobileMin       = "100"
	MobileMax       = "12000"
	VendorMin       = "100"
	VendorMax       = "500000"
	ExternalFeeRate = "0.05"
	PhoneFeeRate    = "0.02"
)

const (
	DefaultLookupDebounce   = 400 * time.Millisecond
	DefaultRedirectDelay    = 1200 * time.Millisecond
	DefaultChallengeTTL     = 300 * time.Second
	LimitUsageWarnPercent   = 70
	LimitUsageDangerPercent = 90
)
