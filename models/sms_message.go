package models

import "time"

// SMSMessage is one entry of a client's SMS conversation (both directions).
type SMSMessage struct {
	ID           string           `gorm:"primaryKey;type:varchar(36)" bson:"_id" json:"id"`
	EntrepriseID string           `gorm:"type:varchar(36);index" bson:"entrepriseId,omitempty" json:"entrepriseId,omitempty"`
	ClientID     string           `gorm:"type:varchar(36);index" bson:"clientId,omitempty" json:"clientId,omitempty"`
	OrderID      string           `gorm:"type:varchar(36)" bson:"orderId,omitempty" json:"orderId,omitempty"`
	Direction    MessageDirection `gorm:"type:varchar(10);not null" bson:"direction" json:"direction"`
	From         string           `gorm:"type:varchar(50)" bson:"from" json:"from"`
	To           string           `gorm:"type:varchar(50)" bson:"to" json:"to"`
	Body         string           `gorm:"type:text" bson:"body" json:"body"`
	ProviderSID  string           `gorm:"type:varchar(64);index" bson:"providerSid,omitempty" json:"providerSid,omitempty"`
	NumMedia     int              `bson:"numMedia" json:"numMedia"`
	Status       string           `gorm:"type:varchar(30)" bson:"status,omitempty" json:"status,omitempty"`
	CreatedAt    time.Time        `gorm:"index" bson:"createdAt" json:"createdAt"`
}

func (SMSMessage) TableName() string { return "sms_messages" }
