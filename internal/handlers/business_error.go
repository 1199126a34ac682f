package handlers

import (
	"errors"

	"github.com/gin-gonic/gin"

	"github.com/salonix/salon-scheduler/internal/httperr"
)

// Códigos de negócio que o cliente não deveria poder provocar
// acertando IDs: respondem 404/403 em vez de 400 genérico.
var notFoundCodes = map[string]string{
	"appointment_not_found":  "Agendamento não encontrado.",
	"series_not_found":       "Série não encontrada.",
	"service_not_found":      "Serviço não encontrado.",
	"professional_not_found": "Profissional não encontrado.",
	"slot_not_found":         "Horário não encontrado.",
}

var badRequestMessages = map[string]string{
	"slot_unavailable":      "Horário indisponível.",
	"professional_mismatch": "Horário não pertence ao profissional.",
	"slot_in_past":          "Horário já passou.",
	"duplicate_booking":     "Já existe um agendamento ativo neste horário.",
	"already_cancelled":     "Agendamento já cancelado.",
	"invalid_state":         "Transição de estado inválida.",
	"invalid_status":        "Status inválido para edição.",
	"ambiguous_edit":        "Cancelamento e troca de horário não podem vir juntos.",
	"occurrence_in_past":    "Ocorrência já passou.",
	"nothing_to_update":     "Nada para atualizar.",
}

// respondBusinessError traduz erros de negócio e de validação para o
// JSON de erro da API. Retorna false quando o erro não é de negócio
// (o chamador responde 500).
func respondBusinessError(c *gin.Context, err error) bool {
	if ve, ok := httperr.AsViolations(err); ok {
		httperr.WriteViolations(c, ve)
		return true
	}

	var be httperr.BusinessError
	if !errors.As(err, &be) {
		return false
	}

	if msg, ok := notFoundCodes[be.Code]; ok {
		httperr.NotFound(c, be.Code, msg)
		return true
	}

	if be.Code == "forbidden" {
		httperr.Forbidden(c, "forbidden", "Sem permissão para esta operação.")
		return true
	}

	msg, ok := badRequestMessages[be.Code]
	if !ok {
		msg = "Operação inválida."
	}
	httperr.BadRequest(c, be.Code, msg)
	return true
}
