package world

import "errors"

var (
	errEmptyGrid    = errors.New("пустая схема мира")
	errRaggedGrid   = errors.New("строки схемы разной длины")
	errUnknownGlyph = errors.New("символ схемы отсутствует в легенде")
)
