package model

import "time"

type Invitation struct {
	ID             string     `json:"id"`
	OrganizationID string     `json:"organization_id" validate:"required"`
	Email          string     `json:"email" validate:"required,email"`
	Role           string     `json:"role" validate:"required,oneof=athlete coach admin"`
	Token          string     `json:"token,omitempty"`
	ExpiresAt      time.Time  `json:"expires_at"`
	RedeemedAt     *time.Time `json:"redeemed_at,omitempty"`
}

func (i *Invitation) Expired(now time.Time) bool {
	return now.After(i.ExpiresAt)
}

func (i *Invitation) Redeemed() bool {
	return i.RedeemedAt != nil
}
