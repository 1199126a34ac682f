package appointment

import "github.com/salonix/salon-scheduler/internal/models"

// ===============================
// Slot Status
// ===============================

const (
	SlotAvailable = "available"
	SlotBooked    = "booked"
	SlotBlocked   = "blocked"
)

// MarkBooked, MarkAvailable e MarkBlocked são as únicas transições
// permitidas sobre o par (is_available, status) de um slot. Nenhum
// outro código escreve esses campos diretamente.

func MarkBooked(slot *models.ScheduleSlot) {
	slot.IsAvailable = false
	slot.Status = SlotBooked
}

func MarkAvailable(slot *models.ScheduleSlot) {
	slot.IsAvailable = true
	slot.Status = SlotAvailable
}

func MarkBlocked(slot *models.ScheduleSlot) {
	slot.IsAvailable = false
	slot.Status = SlotBlocked
}

// SlotConsistent verifica o invariante is_available <=> status=available.
func SlotConsistent(slot *models.ScheduleSlot) bool {
	if slot.IsAvailable {
		return slot.Status == SlotAvailable
	}
	return slot.Status == SlotBooked || slot.Status == SlotBlocked
}
