package domain

import "time"

// LoginEvent is one entry of the login audit trail. It never carries the
// password or the one-time code.
type LoginEvent struct {
	Op         string        `bson:"op"`
	Category   LoginCategory `bson:"category"`
	Identifier string        `bson:"identifier"`
	Result     string        `bson:"result"`
	At         time.Time     `bson:"at"`
}
