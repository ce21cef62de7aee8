package contact

import "time"

const (
	maxNameLen    = 120
	maxEmailLen   = 254
	maxPhoneLen   = 40
	maxMessageLen = 600
)

// Message is one contact form submission.
type Message struct {
	ID        int64     `json:"id" gorm:"primaryKey"`
	CreatedAt time.Time `json:"created_at" gorm:"index"`
	Name      string    `json:"name" gorm:"size:120"`
	Email     string    `json:"email" gorm:"size:254"`
	Phone     string    `json:"phone" gorm:"size:40"`
	Message   string    `json:"message" gorm:"size:600"`
}

func (Message) TableName() string { return "contact_messages" }
