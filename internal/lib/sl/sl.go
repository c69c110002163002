// Package sl дополняет стандартный slog небольшими помощниками,
// чтобы поля записей лога по всему сервису выглядели единообразно.
package sl

import "log/slog"

// Err оборачивает ошибку в slog.Attr с ключом "error".
// Все записи об ошибках в логах формируются через него:
//
//	log.Error("deposit failed", sl.Err(err))
func Err(err error) slog.Attr {
	return slog.Attr{
		Key:   "error",
		Value: slog.StringValue(err.Error()),
	}
}
