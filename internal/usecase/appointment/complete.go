package appointment

import (
	"context"

	domain "github.com/salonix/salon-scheduler/internal/domain/appointment"
	"github.com/salonix/salon-scheduler/internal/httperr"
	"github.com/salonix/salon-scheduler/internal/models"
	"github.com/salonix/salon-scheduler/internal/timezone"
)

type CompleteAppointment struct {
	repo domain.Repository
}

func NewCompleteAppointment(repo domain.Repository) *CompleteAppointment {
	return &CompleteAppointment{repo: repo}
}

func (uc *CompleteAppointment) Execute(
	ctx context.Context,
	tenantID uint,
	actorID uint,
	appointmentID uint,
) (*models.Appointment, error) {

	ap, err := uc.repo.GetAppointment(ctx, tenantID, appointmentID)
	if err != nil {
		return nil, httperr.ErrBusiness("appointment_not_found")
	}

	if !domain.OwnedBySalonUser(ap, actorID) {
		return nil, httperr.ErrBusiness("forbidden")
	}

	now := timezone.Now()
	if err := domain.Complete(ap, now); err != nil {
		return nil, err
	}

	if err := uc.repo.SaveAppointment(ctx, ap); err != nil {
		return nil, err
	}

	return ap, nil
}

type PayAppointment struct {
	repo domain.Repository
}

func NewPayAppointment(repo domain.Repository) *PayAppointment {
	return &PayAppointment{repo: repo}
}

func (uc *PayAppointment) Execute(
	ctx context.Context,
	tenantID uint,
	actorID uint,
	appointmentID uint,
) (*models.Appointment, error) {

	ap, err := uc.repo.GetAppointment(ctx, tenantID, appointmentID)
	if err != nil {
		return nil, httperr.ErrBusiness("appointment_not_found")
	}

	if !domain.OwnedBySalonUser(ap, actorID) {
		return nil, httperr.ErrBusiness("forbidden")
	}

	if err := domain.Pay(ap); err != nil {
		return nil, err
	}

	if err := uc.repo.SaveAppointment(ctx, ap); err != nil {
		return nil, err
	}

	return ap, nil
}
