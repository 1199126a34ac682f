package series

import (
	"context"

	ucappointment "github.com/salonix/salon-scheduler/internal/usecase/appointment"
)

// CreateSeries é uma casca fina sobre o bulk booking: a série é criada
// na mesma transação dos agendamentos e desfeita junto com eles.
type CreateSeries struct {
	bulk *ucappointment.BulkCreateAppointments
}

func NewCreateSeries(bulk *ucappointment.BulkCreateAppointments) *CreateSeries {
	return &CreateSeries{bulk: bulk}
}

func (uc *CreateSeries) Execute(
	ctx context.Context,
	in ucappointment.BulkCreateInput,
) (*ucappointment.BulkCreateResult, error) {

	if in.Series == nil {
		in.Series = &ucappointment.SeriesOptions{Notes: in.Notes}
	}

	return uc.bulk.Execute(ctx, in)
}
