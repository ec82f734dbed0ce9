package models

import "time"

// College is the organizational unit that scopes Google-federated logins.
// AllowedDomains is a comma-separated list of email domains; accounts from
// other domains are admitted only when AllowExternalEmails is set.
type College struct {
	ID                  uint      `json:"id" gorm:"primaryKey"`
	Name                string    `json:"name" gorm:"uniqueIndex;not null"`
	AllowedDomains      string    `json:"allowed_domains" gorm:"not null"`
	AllowExternalEmails bool      `json:"allow_external_emails" gorm:"default:false"`
	CreatedAt           time.Time `json:"created_at"`
	UpdatedAt           time.Time `json:"updated_at"`
}
