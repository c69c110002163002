// Package apperr определяет классы ошибок бизнес-уровня. Обработчики
// сопоставляют их с HTTP-статусами через errors.Is, не разбирая текст ошибки.
package apperr

import "errors"

var (
	// ErrValidation — клиент прислал некорректные данные (сумма, срок, код тарифа).
	// Исправимо на стороне клиента, никаких побочных эффектов не произошло.
	ErrValidation = errors.New("validation failed")

	// ErrNotFound — запрошенная сущность не существует (неизвестный код тарифа).
	ErrNotFound = errors.New("not found")

	// ErrQuotaExceeded — достигнут лимит тарифа. Повтор без смены тарифа бесполезен.
	ErrQuotaExceeded = errors.New("plan limit reached")

	// ErrStorage — сбой хранилища. Атомарная единица откачена целиком,
	// операцию безопасно повторить.
	ErrStorage = errors.New("storage failure")
)
