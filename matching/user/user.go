package user

import (
	"fmt"
	"time"

	"github.com/Abraxas-365/resumatch/matching/analysis"
	"github.com/Abraxas-365/resumatch/pkg/kernel"
)

type User struct {
	ID           kernel.UserID       `db:"id" json:"id" bson:"_id"`
	Email        kernel.Email        `db:"email" json:"email" bson:"email"`
	PasswordHash string              `db:"password_hash" json:"-" bson:"passwordHash"`
	FirstName    kernel.FirstName    `db:"first_name" json:"firstName" bson:"firstName"`
	LastName     kernel.LastName     `db:"last_name" json:"lastName" bson:"lastName"`
	Phone        kernel.Phone        `db:"phone" json:"phoneNum" bson:"phoneNum"`
	Analyses     []analysis.Analysis `db:"-" json:"analyses" bson:"analyses"`
	CreatedAt    time.Time           `db:"created_at" json:"createdAt" bson:"createdAt"`
	UpdatedAt    time.Time           `db:"updated_at" json:"updatedAt" bson:"updatedAt"`
}

// NewUser builds a user with no analyses. hash must already be a bcrypt digest.
func NewUser(email kernel.Email, hash string, first kernel.FirstName, last kernel.LastName, phone kernel.Phone) *User {
	now := time.Now().UTC()
	return &User{
		ID:           kernel.GenerateUserID(),
		Email:        email,
		PasswordHash: hash,
		FirstName:    first,
		LastName:     last,
		Phone:        phone,
		Analyses:     []analysis.Analysis{},
		CreatedAt:    now,
		UpdatedAt:    now,
	}
}

func (u *User) FullName() string {
	return fmt.Sprintf("%s %s", u.FirstName, u.LastName)
}

// Profile is the public projection returned by auth endpoints
func (u *User) Profile() Profile {
	return Profile{
		FirstName: u.FirstName,
		LastName:  u.LastName,
		Email:     u.Email,
	}
}
