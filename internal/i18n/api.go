package i18n

// APIPrefix namespaces backend error codes inside the catalog.
const APIPrefix = "api."

var apiMessages = []entry{
	{APIPrefix + "invalid_token", "Сессия истекла. Войдите заново.", "Session expired. Please sign in again."},
	{APIPrefix + "invalid_otp_code", "Неверный OTP-код.", "Invalid OTP code."},
	{APIPrefix + "transfer_same_account", "Нельзя переводить на тот же счёт.", "Cannot transfer to the same account."},
	{APIPrefix + "transfer_amount_too_small", "Слишком маленькая сумма перевода.", "The transfer amount is too small."},
	{APIPrefix + "transfer_amount_exceeds_single_limit", "Сумма превышает лимит на одну операцию.", "The amount exceeds the single operation limit."},
	{APIPrefix + "transfer_amount_exceeds_daily_limit", "Превышен дневной лимит по переводам.", "The daily transfer limit has been exceeded."},
	{APIPrefix + "amount_too_large", "Сумма превышает лимит на одну операцию.", "The amount exceeds the single operation limit."},
	{APIPrefix + "account_not_found", "Счёт не найден.", "Account not found."},
	{APIPrefix + "forbidden_account_access", "Нет доступа к этому счёту.", "No access to this account."},
	{APIPrefix + "account_inactive", "Операция недоступна: счёт не активен.", "Operation unavailable: the account is inactive."},
	{APIPrefix + "account_closed", "Счёт закрыт.", "The account is closed."},
	{APIPrefix + "currency_mismatch", "Нельзя перевести между счетами с разными валютами.", "Cannot transfer between accounts in different currencies."},
	{APIPrefix + "insufficient_funds", "Недостаточно средств на счёте.", "Insufficient funds."},
	{APIPrefix + "account_limit_exceeded", "Достигнут лимит по количеству счетов для этой валюты.", "The account limit for this currency has been reached."},
	{APIPrefix + "account_already_closed", "Счёт уже закрыт.", "The account is already closed."},
	{APIPrefix + "account_close_requires_zero_balance", "Чтобы закрыть счёт, баланс должен быть 0,00.", "The balance must be 0.00 to close the account."},
	{APIPrefix + "transfer_not_allowed_from_savings", "С накопительного счёта нельзя переводить. Используйте дебетовый.", "Transfers from a savings account are not allowed. Use a debit account."},
	{APIPrefix + "currency_not_supported_for_exchange", "Эта пара валют недоступна для обмена.", "This currency pair is not available for exchange."},
	{APIPrefix + "user_blocked", "Пользователь заблокирован.", "The user is blocked."},
	{APIPrefix + "invalid_credentials", "Неверный логин или пароль.", "Invalid login or password."},
	{APIPrefix + "payment_operator_not_supported", "Выбранный оператор не поддерживается.", "The selected operator is not supported."},
	{APIPrefix + "payment_amount_out_of_range", "Сумма платежа вне допустимого диапазона.", "The payment amount is out of range."},
	{APIPrefix + "payment_requires_rub_account", "Платёж возможен только с рублёвого счёта.", "Payments are only possible from a RUB account."},
	{APIPrefix + "payment_provider_not_supported", "Выбранный поставщик не поддерживается.", "The selected provider is not supported."},
	{APIPrefix + "payment_provider_not_in_category", "Поставщик не относится к выбранной категории платежа.", "The provider does not belong to the selected category."},
	{APIPrefix + "payment_account_number_invalid_length", "Недопустимая длина номера лицевого счёта для этого поставщика.", "Invalid account number length for this provider."},
	{APIPrefix + "amount_must_be_positive", "Сумма должна быть больше нуля.", "The amount must be greater than zero."},
	{APIPrefix + "invalid_account_number", "Номер счёта должен состоять из 16 цифр.", "The account number must be 16 digits."},
	{APIPrefix + "account_found_in_bank", "Счёт найден в нашем банке. Используйте перевод по номеру счёта.", "The account belongs to our bank. Use a transfer by account number."},
	{APIPrefix + "recipient_not_found_in_our_bank", "Получатель не найден в нашем банке.", "The recipient was not found in our bank."},
	{APIPrefix + "recipient_has_no_suitable_account", "У получателя нет подходящего счёта.", "The recipient has no suitable account."},
	{APIPrefix + "not_found", "Объект не найден.", "Not found."},
	{APIPrefix + "forbidden", "Доступ запрещён.", "Access denied."},
	{APIPrefix + "validation_error: phone_not_unique", "Этот номер телефона уже используется.", "This phone number is already in use."},
	{APIPrefix + "validation_error: email_not_unique", "Этот email уже используется.", "This email is already in use."},
	{APIPrefix + "validation_error: password_change_requires_both_fields", "Для смены пароля укажите текущий и новый пароль.", "Enter both the current and the new password."},
	{APIPrefix + "validation_error: password_reuse_not_allowed", "Новый пароль не должен совпадать с текущим.", "The new password must differ from the current one."},
	{APIPrefix + "invalid_current_password", "Неверный текущий пароль.", "Invalid current password."},
	{APIPrefix + "request_failed", "Не удалось выполнить запрос. Попробуйте позже.", "The request failed. Please try again later."},
}

var operationMessages = []entry{
	{"op.transfer-own.success", "Перевод выполнен", "Transfer completed"},
	{"op.transfer-own.error", "Ошибка перевода", "Transfer failed"},
	{"op.transfer-by-account.success", "Перевод по номеру счёта выполнен", "Transfer by account number completed"},
	{"op.transfer-by-account.error", "Ошибка перевода по номеру счёта", "Transfer by account number failed"},
	{"op.transfer-external-by-account.success", "Перевод в другой банк выполнен", "Transfer to another bank completed"},
	{"op.transfer-external-by-account.error", "Ошибка перевода в другой банк", "Transfer to another bank failed"},
	{"op.transfer-by-phone.success", "Перевод по номеру телефона выполнен", "Transfer by phone number completed"},
	{"op.transfer-by-phone.error", "Ошибка перевода по номеру телефона", "Transfer by phone number failed"},
	{"op.exchange.success", "Обмен выполнен", "Exchange completed"},
	{"op.exchange.error", "Ошибка обмена валюты", "Currency exchange failed"},
	{"op.mobile-payment.success", "Оплата мобильной связи выполнена", "Mobile payment completed"},
	{"op.mobile-payment.error", "Ошибка оплаты мобильной связи", "Mobile payment failed"},
	{"op.vendor-payment.success", "Оплата выполнена", "Payment completed"},
	{"op.vendor-payment.error", "Ошибка оплаты услуги", "Service payment failed"},
	{"op.topup.success", "Счёт пополнен", "Account topped up"},
	{"op.topup.error", "Ошибка пополнения", "Top-up failed"},
}
