package database

import (
	"errors"

	"github.com/lib/pq"
)

// Códigos SQLSTATE do PostgreSQL usados pelos repositórios.
const (
	codeUniqueViolation     = "23505"
	codeForeignKeyViolation = "23503"
	codeCheckViolation      = "23514"
	codeNumericOutOfRange   = "22003"
)

// IsUniqueViolation informa se err é uma violação de chave primária/única.
// O banco é a autoridade final sobre duplicidade; a checagem prévia no serviço é só atalho de UX.
func IsUniqueViolation(err error) bool {
	return hasCode(err, codeUniqueViolation)
}

// IsForeignKeyViolation informa se err referencia produto ou local inexistente.
func IsForeignKeyViolation(err error) bool {
	return hasCode(err, codeForeignKeyViolation)
}

// IsCheckViolation informa se err violou uma constraint CHECK (qty > 0, origem ou destino).
func IsCheckViolation(err error) bool {
	return hasCode(err, codeCheckViolation)
}

// IsNumericOutOfRange informa se um valor não coube na coluna numérica (ex.: qty > INTEGER).
func IsNumericOutOfRange(err error) bool {
	return hasCode(err, codeNumericOutOfRange)
}

// ConstraintName devolve o nome da constraint violada, se houver.
func ConstraintName(err error) string {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return pqErr.Constraint
	}
	return ""
}

func hasCode(err error, code string) bool {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return string(pqErr.Code) == code
	}
	return false
}
