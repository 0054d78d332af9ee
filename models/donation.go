package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// DefaultDeviceID is stored when the sensor does not identify itself.
const DefaultDeviceID = "smart_charity_box_01"

// Donation is one coin/banknote event reported by a charity box. The same
// shape is stored in both the ledger and the history collection.
//
// Field names on the wire to Mongo match the documents written by the
// first generation of the server, so existing data stays readable.
type Donation struct {
	ID         primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Amount     int64              `bson:"nominal" json:"amount"`
	DeviceID   string             `bson:"deviceId" json:"deviceId"`
	RecordedAt time.Time          `bson:"timestamp" json:"recordedAt"`
	CreatedAt  time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt  time.Time          `bson:"updatedAt" json:"updatedAt"`
}
