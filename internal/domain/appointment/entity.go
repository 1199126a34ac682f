package appointment

import (
	"time"

	"github.com/salonix/salon-scheduler/internal/models"
)

// ===============================
// Domain Actions
// ===============================

func Cancel(ap *models.Appointment, actorID uint, now time.Time) error {
	if err := CanCancel(Status(ap.Status)); err != nil {
		return err
	}

	ap.Status = string(StatusCancelled)
	ap.CancelledByID = &actorID
	ap.CancelledAt = &now
	return nil
}

func Complete(ap *models.Appointment, now time.Time) error {
	if err := CanComplete(Status(ap.Status)); err != nil {
		return err
	}

	ap.Status = string(StatusCompleted)
	ap.CompletedAt = &now
	return nil
}

func Pay(ap *models.Appointment) error {
	if err := CanPay(Status(ap.Status)); err != nil {
		return err
	}

	ap.Status = string(StatusPaid)
	return nil
}

// OwnedBySalonUser diz se o usuário é o dono do serviço ou do
// profissional do agendamento (staff do salão).
func OwnedBySalonUser(ap *models.Appointment, userID uint) bool {
	return ap.Service.UserID == userID || ap.Professional.UserID == userID
}
