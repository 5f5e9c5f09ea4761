package types

import "time"

type AdminRequestStatus string

const (
	AdminRequestStatusPending  AdminRequestStatus = "pending"
	AdminRequestStatusApproved AdminRequestStatus = "approved"
	AdminRequestStatusRejected AdminRequestStatus = "rejected"
)

func (s AdminRequestStatus) Valid() bool {
	switch s {
	case AdminRequestStatusPending, AdminRequestStatusApproved, AdminRequestStatusRejected:
		return true
	}
	return false
}

type AdminRequest struct {
	ID         string             `db:"id"`
	UserID     string             `db:"user_id"`
	Reason     string             `db:"reason"`
	Status     AdminRequestStatus `db:"status"`
	ReviewedBy Option[string]     `db:"reviewed_by"`
	ReviewedAt Option[time.Time]  `db:"reviewed_at"`
	AdminNotes Option[string]     `db:"admin_notes"`
	CreatedAt  time.Time          `db:"created_at"`
	UpdatedAt  time.Time          `db:"updated_at"`
}

type AdminRequestWithUser struct {
	AdminRequest
	RequesterEmail    string         `db:"requester_email"`
	RequesterFullName Option[string] `db:"requester_full_name"`
}

type AdminRequestReview struct {
	Status     AdminRequestStatus
	AdminNotes Option[string]
	ReviewedBy string
	ReviewedAt time.Time
}
