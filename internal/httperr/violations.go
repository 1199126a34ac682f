package httperr

import (
	"errors"
	"net/http"
	"sort"
	"strings"

	"github.com/gin-gonic/gin"
)

// Violations acumula todas as falhas de validação de uma requisição
// antes de rejeitá-la, campo a campo.
type Violations map[string][]string

func (v Violations) Add(field, message string) {
	v[field] = append(v[field], message)
}

func (v Violations) Empty() bool {
	return len(v) == 0
}

// Err devolve nil quando não há violações.
func (v Violations) Err() error {
	if v.Empty() {
		return nil
	}
	return ViolationsError{Fields: v}
}

type ViolationsError struct {
	Fields Violations
}

func (e ViolationsError) Error() string {
	keys := make([]string, 0, len(e.Fields))
	for k := range e.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, k+": "+strings.Join(e.Fields[k], "; "))
	}
	return strings.Join(parts, " | ")
}

func AsViolations(err error) (ViolationsError, bool) {
	var ve ViolationsError
	if errors.As(err, &ve) {
		return ve, true
	}
	return ViolationsError{}, false
}

func WriteViolations(c *gin.Context, ve ViolationsError) {
	c.JSON(http.StatusBadRequest, gin.H{
		"error_code": "validation_error",
		"errors":     ve.Fields,
	})
}
