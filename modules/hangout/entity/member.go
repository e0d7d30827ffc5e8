package entity

import (
	"time"

	"hangout-api/core/utils"

	"github.com/google/uuid"
)

// Owner is the tagged union identifying who a member is: an account or a
// guest, never both, never neither.
type Owner struct {
	Kind utils.OwnerKind
	ID   uuid.UUID
}

func AccountOwner(id uuid.UUID) Owner {
	return Owner{Kind: utils.OwnerKindAccount, ID: id}
}

func GuestOwner(id uuid.UUID) Owner {
	return Owner{Kind: utils.OwnerKindGuest, ID: id}
}

// Member is one participant of a hangout. At most one member per hangout is
// the leader at any time; zero leaders is a valid transient state.
type Member struct {
	ID          uuid.UUID  `db:"id" json:"id"`
	HangoutID   string     `db:"hangout_id" json:"hangout_id"`
	AccountID   *uuid.UUID `db:"account_id" json:"account_id,omitempty"`
	GuestID     *uuid.UUID `db:"guest_id" json:"guest_id,omitempty"`
	DisplayName string     `db:"display_name" json:"display_name"`
	IsLeader    bool       `db:"is_leader" json:"is_leader"`
	CreatedAt   time.Time  `db:"created_at" json:"created_at"`
}

// NewMember builds a member row for the given owner.
func NewMember(hangoutID string, owner Owner, displayName string, isLeader bool) *Member {
	m := &Member{
		ID:          uuid.New(),
		HangoutID:   hangoutID,
		DisplayName: displayName,
		IsLeader:    isLeader,
	}
	id := owner.ID
	switch owner.Kind {
	case utils.OwnerKindGuest:
		m.GuestID = &id
	default:
		m.AccountID = &id
	}
	return m
}

// Owner reconstructs the tagged union from the nullable columns.
func (m *Member) Owner() Owner {
	if m.GuestID != nil {
		return GuestOwner(*m.GuestID)
	}
	if m.AccountID != nil {
		return AccountOwner(*m.AccountID)
	}
	return Owner{}
}

// OwnedBy reports whether the member row belongs to the given owner.
func (m *Member) OwnedBy(o Owner) bool {
	owner := m.Owner()
	return owner.Kind == o.Kind && owner.ID == o.ID
}
