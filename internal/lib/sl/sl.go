// Package sl содержит вспомогательные функции для работы с логгером slog.
// Основная цель — упростить формирование структурированных полей лога
// и не допустить попадания секретов (API-ключей, токенов) в вывод.
package sl

import "log/slog"

// Err возвращает slog.Attr с ключом "error" и значением текста ошибки.
// Удобно использовать в логировании для единообразного вывода ошибок.
//
// Пример:
//
//	log.Error("failed to analyze image", sl.Err(err))
func Err(err error) slog.Attr {
	return slog.Attr{
		Key:   "error",
		Value: slog.StringValue(err.Error()),
	}
}

// Secret возвращает slog.Attr, описывающий секретное значение без раскрытия.
// В лог попадает только факт наличия секрета: "set" либо "empty".
func Secret(key, value string) slog.Attr {
	state := "set"
	if value == "" {
		state = "empty"
	}
	return slog.Attr{
		Key:   key,
		Value: slog.StringValue(state),
	}
}
