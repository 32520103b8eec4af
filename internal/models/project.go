package models

import "time"

// MaxProjectMembers caps project membership, the lead excluded.
const MaxProjectMembers = 12

type Project struct {
	ID          int        `json:"id"`
	Name        string     `json:"name"`
	Description *string    `json:"description"`
	LeadUserID  int        `json:"lead_user_id"`
	MemberIDs   []int      `json:"member_ids"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   *time.Time `json:"updated_at,omitempty"`
}

type ProjectCreate struct {
	Name        string `json:"name" binding:"required"`
	Description string `json:"description"`
	LeadUserID  int    `json:"lead_user_id" binding:"required"`
	MemberIDs   []int  `json:"member_ids"`
}

type ProjectUpdate struct {
	Name        *string `json:"name"`
	Description *string `json:"description"`
	LeadUserID  *int    `json:"lead_user_id"`
	MemberIDs   *[]int  `json:"member_ids"`
}
