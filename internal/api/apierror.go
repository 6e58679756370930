package api

import (
	"encoding/json"
	"errors"
	"fmt"
)

// StatusError представляет неуспешный HTTP ответ сервера.
// Тело ответа сохраняется как есть для последующего разбора сообщения.
type StatusError struct {
	StatusCode int
	Body       []byte
}

// Error возвращает сообщение об ошибке
func (e *StatusError) Error() string {
	return fmt.Sprintf("server returned status %d", e.StatusCode)
}

// AsStatusError извлекает StatusError из цепочки ошибок
func AsStatusError(err error) (*StatusError, bool) {
	var statusErr *StatusError
	if errors.As(err, &statusErr) {
		return statusErr, true
	}
	return nil, false
}

// PayloadKind представляет вид разобранного тела ошибки
type PayloadKind int

// Виды тела ошибки: ошибка конкретного поля, общая ошибка,
// тело-строка и нераспознанное тело.
const (
	PayloadUnknown PayloadKind = iota
	PayloadFieldError
	PayloadNonFieldError
	PayloadRawString
)

// ErrorPayload представляет тело ошибки API, сведенное к одному варианту.
// Бэкенд возвращает ошибки в разной форме: {"detail": "..."},
// {"non_field_errors": [...]}, {"<field>": [...]} или просто строку.
type ErrorPayload struct {
	Kind    PayloadKind
	Field   string
	Message string
}

// DecodeErrorPayload разбирает тело ошибки по приоритетному списку полей.
// Поля проверяются строго в переданном порядке; значение поля может быть
// строкой или массивом строк (берется первый элемент). Если тело — просто
// JSON строка, возвращается PayloadRawString.
func DecodeErrorPayload(data []byte, fieldOrder []string) ErrorPayload {
	if len(data) == 0 {
		return ErrorPayload{Kind: PayloadUnknown}
	}

	var object map[string]json.RawMessage
	if err := json.Unmarshal(data, &object); err == nil {
		for _, field := range fieldOrder {
			raw, ok := object[field]
			if !ok {
				continue
			}
			message, ok := firstString(raw)
			if !ok || message == "" {
				continue
			}
			kind := PayloadFieldError
			if field == "non_field_errors" || field == "detail" {
				kind = PayloadNonFieldError
			}
			return ErrorPayload{Kind: kind, Field: field, Message: message}
		}
		return ErrorPayload{Kind: PayloadUnknown}
	}

	var plain string
	if err := json.Unmarshal(data, &plain); err == nil && plain != "" {
		return ErrorPayload{Kind: PayloadRawString, Message: plain}
	}

	return ErrorPayload{Kind: PayloadUnknown}
}

// MessageOr возвращает извлеченное сообщение либо запасное
func (p ErrorPayload) MessageOr(fallback string) string {
	if p.Kind == PayloadUnknown || p.Message == "" {
		return fallback
	}
	return p.Message
}

// firstString принимает строку или массив строк
func firstString(raw json.RawMessage) (string, bool) {
	var single string
	if err := json.Unmarshal(raw, &single); err == nil {
		return single, true
	}

	var list []string
	if err := json.Unmarshal(raw, &list); err == nil && len(list) > 0 {
		return list[0], true
	}

	return "", false
}

// ExtractMessage разбирает тело неуспешного ответа и возвращает сообщение
// по приоритетному списку полей. allowRaw разрешает использовать тело-строку.
func ExtractMessage(err error, fieldOrder []string, allowRaw bool, fallback string) string {
	statusErr, ok := AsStatusError(err)
	if !ok {
		return fallback
	}

	payload := DecodeErrorPayload(statusErr.Body, fieldOrder)
	if payload.Kind == PayloadRawString && !allowRaw {
		return fallback
	}
	return payload.MessageOr(fallback)
}
