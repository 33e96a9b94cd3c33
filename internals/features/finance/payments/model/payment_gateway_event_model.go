package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

const (
	GatewayEventStatusReceived  = "received"
	GatewayEventStatusProcessed = "processed"
	GatewayEventStatusFailed    = "failed"
	GatewayEventStatusIgnored   = "ignored"
)

// PaymentGatewayEvent: audit setiap delivery webhook dari gateway.
// Append-mostly; status di-update sekali setelah diproses.
type PaymentGatewayEvent struct {
	PaymentGatewayEventID uuid.UUID `gorm:"column:payment_gateway_event_id;type:uuid;default:gen_random_uuid();primaryKey" json:"payment_gateway_event_id"`

	PaymentGatewayEventPaymentID *uuid.UUID `gorm:"column:payment_gateway_event_payment_id;type:uuid;index" json:"payment_gateway_event_payment_id,omitempty"`

	PaymentGatewayEventProvider   string  `gorm:"column:payment_gateway_event_provider;not null;default:'paymongo'" json:"payment_gateway_event_provider"`
	PaymentGatewayEventType       *string `gorm:"column:payment_gateway_event_type" json:"payment_gateway_event_type,omitempty"`
	PaymentGatewayEventExternalID *string `gorm:"column:payment_gateway_event_external_id" json:"payment_gateway_event_external_id,omitempty"` // checkout id di PSP

	PaymentGatewayEventPayload   datatypes.JSON `gorm:"column:payment_gateway_event_payload;type:jsonb" json:"payment_gateway_event_payload,omitempty"`
	PaymentGatewayEventSignature *string        `gorm:"column:payment_gateway_event_signature" json:"payment_gateway_event_signature,omitempty"`

	PaymentGatewayEventStatus      string     `gorm:"column:payment_gateway_event_status;not null;default:'received'" json:"payment_gateway_event_status"`
	PaymentGatewayEventError       *string    `gorm:"column:payment_gateway_event_error" json:"payment_gateway_event_error,omitempty"`
	PaymentGatewayEventProcessedAt *time.Time `gorm:"column:payment_gateway_event_processed_at" json:"payment_gateway_event_processed_at,omitempty"`

	CreatedAt time.Time `gorm:"column:payment_gateway_event_created_at;autoCreateTime" json:"payment_gateway_event_created_at"`
}

func (PaymentGatewayEvent) TableName() string { return "payment_gateway_events" }
