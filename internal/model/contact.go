package model

import "time"

type ContactStatus string

const (
	ContactNew      ContactStatus = "new"
	ContactRead     ContactStatus = "read"
	ContactReplied  ContactStatus = "replied"
	ContactArchived ContactStatus = "archived"
)

var ContactStatuses = []ContactStatus{ContactNew, ContactRead, ContactReplied, ContactArchived}

func ParseContactStatus(raw string) (ContactStatus, bool) { return parseEnum(raw, ContactStatuses) }

func ContactStatusNames() []string { return enumStrings(ContactStatuses) }

// Contact is a message left through the public contact form.
type Contact struct {
	ID        uint64        `json:"id"`
	Name      string        `json:"name"`
	Email     string        `json:"email"`
	Company   string        `json:"company"`
	Phone     string        `json:"phone"`
	Subject   string        `json:"subject"`
	Message   string        `json:"message"`
	Status    ContactStatus `json:"status"`
	CreatedAt time.Time     `json:"createdAt"`
}
