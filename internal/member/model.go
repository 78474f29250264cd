package member

import "time"

type Member struct {
	ID              string    `json:"id"`
	Username        string    `json:"username"`
	Email           string    `json:"email"`
	Password        string    `json:"-"` // never return
	Role            string    `json:"role"`
	Status          string    `json:"status"`
	SponsorID       *string   `json:"sponsor_id,omitempty"`
	ActivePackageID *string   `json:"active_package_id,omitempty"`
	CreatedAt       time.Time `json:"created_at"`
}
