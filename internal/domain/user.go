package domain

import "time"

// User is a dashboard account
type User struct {
	ID           string     `gorm:"column:id;type:varchar(64);primaryKey" json:"id"`
	Name         string     `gorm:"column:name;type:varchar(255)" json:"name"`
	Email        string     `gorm:"column:email;type:varchar(320);index:users_email_idx" json:"email"`
	Password     string     `gorm:"column:password;type:varchar(255)" json:"-"`
	LoginMethod  string     `gorm:"column:login_method;type:varchar(64);default:'password'" json:"login_method"`
	Role         Role       `gorm:"column:role;type:varchar(20);index:users_role_idx;default:'user';not null" json:"role"`
	AvatarURL    *string    `gorm:"column:avatar_url;type:varchar(500)" json:"avatar_url,omitempty"`
	Bio          *string    `gorm:"column:bio;type:text" json:"bio,omitempty"`
	IsActive     bool       `gorm:"column:is_active;not null" json:"is_active"`
	CreatedAt    time.Time  `gorm:"column:created_at" json:"created_at"`
	LastSignedIn *time.Time `gorm:"column:last_signed_in" json:"last_signed_in,omitempty"`
}

func (User) TableName() string { return "users" }

// Actor converts the account into a session actor
func (u *User) Actor() *Actor {
	return &Actor{ID: u.ID, Role: u.Role, Name: u.Name, Email: u.Email}
}

// CreateUserRequest is used by admins to create accounts
type CreateUserRequest struct {
	Name      string  `json:"name" binding:"required,max=255"`
	Email     string  `json:"email" binding:"required,email,max=320"`
	Password  string  `json:"password" binding:"required,min=8,max=128"`
	Role      Role    `json:"role" binding:"omitempty,role"`
	AvatarURL *string `json:"avatar_url"`
	Bio       *string `json:"bio"`
}

// UpdateUserRequest is a partial update. Role and IsActive are admin-only.
type UpdateUserRequest struct {
	Name      *string `json:"name" binding:"omitempty,max=255"`
	Email     *string `json:"email" binding:"omitempty,email,max=320"`
	Role      *Role   `json:"role" binding:"omitempty,role"`
	IsActive  *bool   `json:"is_active"`
	AvatarURL *string `json:"avatar_url"`
	Bio       *string `json:"bio"`
}

// ResetPasswordRequest sets a new password
type ResetPasswordRequest struct {
	NewPassword string `json:"new_password" binding:"required,min=8,max=128"`
}

// UserStats counts accounts
type UserStats struct {
	Total  int64          `json:"total"`
	Active int64          `json:"active"`
	ByRole map[Role]int64 `json:"by_role"`
}

// LoginRequest is the credentials payload
type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// RefreshRequest carries a refresh token when the cookie is unavailable
type RefreshRequest struct {
	RefreshToken string `json:"refresh_token"`
}

// TokenPair is returned on login and refresh
type TokenPair struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	ExpiresIn    int    `json:"expires_in"`
}

// LoginResponse is returned on successful login
type LoginResponse struct {
	TokenPair
	User *User `json:"user"`
}
