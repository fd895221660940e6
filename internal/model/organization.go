package model

import "time"

type Organization struct {
	ID        string     `json:"id"`
	Name      string     `json:"name" validate:"required"`
	CreatedAt *time.Time `json:"createdAt,omitempty"`
}
