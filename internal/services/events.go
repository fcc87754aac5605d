package services

import (
	"encoding/json"
	"fmt"
	"time"

	"medfind/internal/models"

	"github.com/rs/zerolog/log"
)

// Inventory event routing keys.
const (
	EventMedicineCreated = "medicine.created"
	EventMedicineUpdated = "medicine.updated"
	EventMedicineDeleted = "medicine.deleted"
)

// EventPublisher delivers inventory events to a message broker.
type EventPublisher interface {
	Publish(routingKey string, body []byte) error
}

// MedicineEvent is the payload published after an inventory change.
type MedicineEvent struct {
	Type       string        `json:"type"`
	StoreID    string        `json:"storeId"`
	MedicineID string        `json:"medicineId"`
	Name       string        `json:"name,omitempty"`
	Quantity   int           `json:"quantity"`
	Status     models.Status `json:"status,omitempty"`
	Version    int           `json:"version,omitempty"`
	OccurredAt time.Time     `json:"occurredAt"`
}

// publishMedicineEvent is best effort: a broker failure is logged and never fails the write.
func publishMedicineEvent(p EventPublisher, eventType string, m *models.Medicine, at time.Time) {
	if p == nil {
		return
	}
	event := MedicineEvent{
		Type:       eventType,
		StoreID:    m.StoreID,
		MedicineID: m.ID,
		Name:       m.Name,
		Quantity:   m.Quantity,
		Status:     m.Status,
		Version:    m.Version,
		OccurredAt: at,
	}
	body, err := json.Marshal(event)
	if err != nil {
		log.Error().Err(err).Str("medicine_id", m.ID).Msg("failed to marshal inventory event")
		return
	}
	if err := p.Publish(eventType, body); err != nil {
		log.Warn().Err(err).Str("event", eventType).Str("medicine_id", m.ID).Msg("failed to publish inventory event")
		return
	}
	log.Debug().Str("event", eventType).Str("medicine_id", m.ID).Msg("published inventory event")
}

// HandleMedicineEvent processes a consumed inventory event. Shortages are logged at warn level.
func HandleMedicineEvent(body []byte) error {
	var event MedicineEvent
	if err := json.Unmarshal(body, &event); err != nil {
		return fmt.Errorf("decode inventory event: %w", err)
	}
	if event.Type == "" || event.MedicineID == "" {
		return fmt.Errorf("inventory event missing type or medicine id")
	}

	entry := log.Info()
	if event.Type != EventMedicineDeleted && event.Status != models.StatusInStock {
		entry = log.Warn()
	}
	entry.Str("event", event.Type).
		Str("store_id", event.StoreID).
		Str("medicine_id", event.MedicineID).
		Str("name", event.Name).
		Int("quantity", event.Quantity).
		Str("status", string(event.Status)).
		Msg("inventory event received")
	return nil
}
