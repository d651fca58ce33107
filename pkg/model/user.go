package model

import "time"

type Role string

const (
	RoleBusinessUser Role = "business_user"
	RoleAdmin        Role = "admin"
)

type UserStatus string

const (
	UserPending    UserStatus = "pending"
	UserApproved   UserStatus = "approved"
	UserRestricted UserStatus = "restricted"
)

type User struct {
	ID              int64      `json:"id"`
	Email           string     `json:"email"`
	FirstName       *string    `json:"first_name,omitempty"`
	LastName        *string    `json:"last_name,omitempty"`
	Role            Role       `json:"role"`
	Status          UserStatus `json:"status"`
	BusinessName    *string    `json:"business_name,omitempty"`
	Phone           *string    `json:"phone,omitempty"`
	Location        *string    `json:"location,omitempty"`
	ProductionFocus *string    `json:"production_focus,omitempty"`
	Certifications  []string   `json:"certifications,omitempty"`
	Needs           []string   `json:"needs,omitempty"`
	CreatedAt       *time.Time `json:"created_at,omitempty"`
	LoginCount      int        `json:"login_count,omitempty"`
}

func (u *User) IsAdmin() bool {
	return u != nil && u.Role == RoleAdmin
}

type LoginRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

type RegisterRequest struct {
	Email           string   `json:"email" validate:"required,email"`
	Password        string   `json:"password" validate:"required,min=6"`
	FirstName       string   `json:"first_name,omitempty" validate:"omitempty,max=100"`
	LastName        string   `json:"last_name,omitempty" validate:"omitempty,max=100"`
	Role            Role     `json:"role,omitempty" validate:"omitempty,oneof=business_user admin"`
	BusinessName    string   `json:"business_name" validate:"required,min=1,max=200"`
	Phone           string   `json:"phone,omitempty" validate:"omitempty,e164"`
	Location        string   `json:"location,omitempty" validate:"omitempty,max=200"`
	ProductionFocus string   `json:"production_focus,omitempty" validate:"omitempty,max=200"`
	Certifications  []string `json:"certifications,omitempty" validate:"omitempty,max=50,dive,min=1,max=100"`
	Needs           []string `json:"needs,omitempty" validate:"omitempty,max=50,dive,min=1,max=100"`
}

type ProfileUpdate struct {
	BusinessName    *string  `json:"business_name,omitempty" validate:"omitempty,min=1,max=200"`
	Phone           *string  `json:"phone,omitempty" validate:"omitempty,e164"`
	Location        *string  `json:"location,omitempty" validate:"omitempty,max=200"`
	ProductionFocus *string  `json:"production_focus,omitempty" validate:"omitempty,max=200"`
	Certifications  []string `json:"certifications,omitempty" validate:"omitempty,max=50,dive,min=1,max=100"`
	Needs           []string `json:"needs,omitempty" validate:"omitempty,max=50,dive,min=1,max=100"`
}

type UserStatusUpdate struct {
	Status UserStatus `json:"status" validate:"required,oneof=pending approved restricted"`
}

type TokenResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
	User        *User  `json:"user"`
}
