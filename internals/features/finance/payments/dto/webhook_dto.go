// file: internals/features/finance/payments/dto/webhook_dto.go
package dto

// Envelope webhook PayMongo:
//
//	{"data":{"attributes":{"type":"checkout_session.payment.paid",
//	  "data":{"id":"cs_xxx","attributes":{"metadata":{...},"payments":[...]}}}}}
//
// metadata adalah echo dari metadata yang kita kirim saat create checkout
// session — payment_id di situ yang dipakai untuk routing ke completion.

type PayMongoWebhookEnvelope struct {
	Data struct {
		ID         string `json:"id"`
		Attributes struct {
			Type string                `json:"type"`
			Data PayMongoWebhookObject `json:"data"`
		} `json:"attributes"`
	} `json:"data"`
}

type PayMongoWebhookObject struct {
	ID         string `json:"id"` // checkout session id (cs_...)
	Attributes struct {
		Metadata map[string]string        `json:"metadata"`
		Payments []PayMongoWebhookPayment `json:"payments"`
	} `json:"attributes"`
}

type PayMongoWebhookPayment struct {
	ID         string `json:"id"` // pay_...
	Attributes struct {
		Status string `json:"status"`
		Amount int64  `json:"amount"` // centavos
	} `json:"attributes"`
}

// EventType: tipe event, kosong bila envelope tidak lengkap.
func (e *PayMongoWebhookEnvelope) EventType() string {
	return e.Data.Attributes.Type
}

// CheckoutID: id checkout session yang memicu event.
func (e *PayMongoWebhookEnvelope) CheckoutID() string {
	return e.Data.Attributes.Data.ID
}

// MetadataValue: baca satu key metadata dengan aman.
func (e *PayMongoWebhookEnvelope) MetadataValue(key string) string {
	md := e.Data.Attributes.Data.Attributes.Metadata
	if md == nil {
		return ""
	}
	return md[key]
}

// GatewayPaymentID: reference pay_... pertama bila ada.
func (e *PayMongoWebhookEnvelope) GatewayPaymentID() string {
	ps := e.Data.Attributes.Data.Attributes.Payments
	if len(ps) == 0 {
		return ""
	}
	return ps[0].ID
}
