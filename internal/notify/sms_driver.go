package notify

import (
	"fmt"

	"github.com/twilio/twilio-go"
	twilioApi "github.com/twilio/twilio-go/rest/api/v2010"
	"gorm.io/gorm"

	"github.com/salonix/salon-scheduler/internal/models"
	"github.com/salonix/salon-scheduler/internal/validators"
)

// SMSDriver envia SMS via Twilio para o cliente do agendamento.
type SMSDriver struct {
	db     *gorm.DB
	client *twilio.RestClient
	from   string
}

func NewSMSDriver(db *gorm.DB, accountSID, authToken, from string) *SMSDriver {
	return &SMSDriver{
		db: db,
		client: twilio.NewRestClientWithParams(twilio.ClientParams{
			Username: accountSID,
			Password: authToken,
		}),
		from: from,
	}
}

func (d *SMSDriver) Name() string { return "sms" }

func (d *SMSDriver) Send(ev Event) error {
	ap := ev.Appointment

	var client models.User
	if err := d.db.First(&client, ap.ClientID).Error; err != nil {
		return fmt.Errorf("load client %d: %w", ap.ClientID, err)
	}

	if client.Phone == "" || !validators.IsPhoneValid(client.Phone) {
		// Sem telefone utilizável não é erro: o canal in-app cobre.
		return nil
	}

	to := validators.SanitizePhone(client.Phone)
	body := message(ev)

	params := &twilioApi.CreateMessageParams{}
	params.SetTo(to)
	params.SetFrom(d.from)
	params.SetBody(body)

	_, err := d.client.Api.CreateMessage(params)
	return err
}
