package entity

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"time"

	"github.com/google/uuid"
)

// HangoutEvent is one committed change to a hangout, kept as an append-only
// feed so members can catch up after reconnecting.
type HangoutEvent struct {
	ID            uuid.UUID  `db:"id" json:"id"`
	HangoutID     string     `db:"hangout_id" json:"hangoutId"`
	Kind          string     `db:"kind" json:"kind"`
	ActorMemberID *uuid.UUID `db:"actor_member_id" json:"actorMemberId,omitempty"`
	Payload       JSONB      `db:"payload" json:"payload"`
	CreatedAt     time.Time  `db:"created_at" json:"createdAt"`
}

type JSONB map[string]interface{}

func (a JSONB) Value() (driver.Value, error) {
	return json.Marshal(a)
}

func (a *JSONB) Scan(value interface{}) error {
	if value == nil {
		return nil
	}
	b, ok := value.([]byte)
	if !ok {
		return errors.New("type assertion to []byte failed")
	}
	return json.Unmarshal(b, &a)
}
