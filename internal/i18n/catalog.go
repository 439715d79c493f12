package i18n

import (
	"golang.org/x/text/feature/plural"
	"golang.org/x/text/language"
	"golang.org/x/text/message/catalog"
)

// Message keys shared by validation, error mapping and the coordinator.
const (
	AmountRequired       = "amount.required"
	AmountInvalid        = "amount.invalid"
	AmountMin            = "amount.min"
	AmountMax            = "amount.max"
	AmountMaxWithFee     = "amount.max-with-fee"
	AmountHintUpTo       = "amount.hint.up-to"
	AmountHintFrom       = "amount.hint.from"
	AccountNumberLength  = "account-number.length"
	AccountRequired      = "account.required"
	AccountsMustDiffer   = "account.must-differ"
	PhoneRequired        = "phone.required"
	PhoneInvalid         = "phone.invalid"
	OperatorRequired     = "operator.required"
	OperatorUnknown      = "operator.unknown"
	BankRequired         = "bank.required"
	CategoryRequired     = "category.required"
	ProviderRequired     = "provider.required"
	ProviderNotInCat     = "provider.not-in-category"
	VendorNumberRequired = "vendor-number.required"
	VendorNumberPrefix   = "vendor-number.prefix"
	VendorNumberLength   = "vendor-number.length"
	DigitsCount          = "digits.count"
	OtpCodeIncomplete    = "otp.incomplete"
	OtpCodeExpired       = "otp.expired"
	OtpChallengeFailed   = "otp.challenge-failed"
	OtpPreview           = "otp.preview"
	OperationFailed      = "operation.failed"
	FailurePrefixed      = "operation.failure-prefixed"
)

type entry struct {
	key string
	ru  string
	en  string
}

var entries = []entry{
	{AmountRequired, "Укажите сумму", "Enter the amount"},
	{AmountInvalid, "Некорректная сумма", "Invalid amount"},
	{AmountMin, "Минимальная сумма %s%s", "Minimum amount %s%s"},
	{AmountMax, "Максимальная сумма %s%s", "Maximum amount %s%s"},
	{AmountMaxWithFee, "Максимальная сумма %s%s (комиссия %s%%, к списанию %s%s)", "Maximum amount %s%s (fee %s%%, total to be debited %s%s)"},
	{AmountHintUpTo, "До %s%s", "Up to %s%s"},
	{AmountHintFrom, "От %s%s", "From %s%s"},
	{AccountNumberLength, "Номер счёта должен состоять из %d цифр", "Account number must be %d digits"},
	{AccountRequired, "Выберите счёт", "Select an account"},
	{AccountsMustDiffer, "Нельзя переводить на тот же счёт.", "Cannot transfer to the same account."},
	{PhoneRequired, "Укажите номер телефона", "Enter the phone number"},
	{PhoneInvalid, "Введите номер в формате +7 (XXX) XXX-XX-XX", "Enter the number as +7 (XXX) XXX-XX-XX"},
	{OperatorRequired, "Выберите оператора", "Select an operator"},
	{OperatorUnknown, "Выбранный оператор не поддерживается.", "The selected operator is not supported."},
	{BankRequired, "Выберите банк получателя", "Select the recipient bank"},
	{CategoryRequired, "Выберите категорию платежа", "Select a payment category"},
	{ProviderRequired, "Выберите поставщика", "Select a provider"},
	{ProviderNotInCat, "Поставщик не относится к выбранной категории платежа.", "The provider does not belong to the selected category."},
	{VendorNumberRequired, "Укажите %s", "Enter the %s"},
	{VendorNumberPrefix, "%s для %s должен начинаться с \"%s\"", "%s for %s must start with \"%s\""},
	{VendorNumberLength, "%s для %s: %s", "%s for %s: %s"},
	{OtpCodeIncomplete, "Введите 4-значный OTP код", "Enter the 4-digit OTP code"},
	{OtpCodeExpired, "Срок действия кода истёк. Мы отправили новый код.", "The code has expired. A new code has been sent."},
	{OtpChallengeFailed, "Не удалось получить SMS-код. Попробуйте ещё раз.", "Could not get the SMS code. Please try again."},
	{OtpPreview, "SMS: ваш код подтверждения %s", "SMS: your confirmation code is %s"},
	{OperationFailed, "Ошибка операции", "Operation failed"},
	{FailurePrefixed, "%s: %s", "%s: %s"},
}

// Vendor account labels by category.
var labels = []entry{
	{"label.internet", "Лицевой счёт", "Account number"},
	{"label.utilities", "Лицевой счёт", "Account number"},
	{"label.education", "Номер договора", "Contract number"},
	{"label.charity", "Код получателя", "Recipient code"},
}

func buildCatalog() (*catalog.Builder, map[string]struct{}) {
	b := catalog.NewBuilder(catalog.Fallback(language.Russian))
	known := make(map[string]struct{})

	add := func(list []entry) {
		for _, e := range list {
			mustSet(b.SetString(language.Russian, e.key, e.ru))
			mustSet(b.SetString(language.English, e.key, e.en))
			known[e.key] = struct{}{}
		}
	}
	add(entries)
	add(labels)
	add(apiMessages)
	add(operationMessages)

	mustSet(b.Set(language.Russian, DigitsCount, plural.Selectf(1, "%d",
		"one", "%d цифра",
		"few", "%d цифры",
		"many", "%d цифр",
		"other", "%d цифры",
	)))
	mustSet(b.Set(language.English, DigitsCount, plural.Selectf(1, "%d",
		"one", "%d character",
		"other", "%d characters",
	)))
	known[DigitsCount] = struct{}{}

	return b, known
}

func mustSet(err error) {
	if err != nil {
		panic(err)
	}
}
