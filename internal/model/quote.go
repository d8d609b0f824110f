package model

import (
	"time"

	"github.com/samber/lo"
)

type QuoteStatus string

const (
	QuotePending   QuoteStatus = "pending"
	QuoteReviewed  QuoteStatus = "reviewed"
	QuoteSent      QuoteStatus = "sent"
	QuoteAccepted  QuoteStatus = "accepted"
	QuoteRejected  QuoteStatus = "rejected"
	QuoteConverted QuoteStatus = "converted"
)

var QuoteStatuses = []QuoteStatus{QuotePending, QuoteReviewed, QuoteSent, QuoteAccepted, QuoteRejected, QuoteConverted}

func ParseQuoteStatus(raw string) (QuoteStatus, bool) { return parseEnum(raw, QuoteStatuses) }

func QuoteStatusNames() []string { return enumStrings(QuoteStatuses) }

// clientTransitions lists the moves a requester may make. Admins are not
// bound by it: an admin response always lands on sent and an admin status
// update may pick any member of QuoteStatuses.
var clientTransitions = map[QuoteStatus][]QuoteStatus{
	QuoteSent: {QuoteAccepted, QuoteRejected},
}

// ClientCanMove reports whether a requester may move a quote from one
// status to another.
func ClientCanMove(from, to QuoteStatus) bool {
	return lo.Contains(clientTransitions[from], to)
}

// ClientResponse is the requester's verdict on an admin proposal.
type ClientResponse string

const (
	ResponseAccepted ClientResponse = "accepted"
	ResponseRejected ClientResponse = "rejected"
)

func ParseClientResponse(raw string) (ClientResponse, bool) {
	return parseEnum(raw, []ClientResponse{ResponseAccepted, ResponseRejected})
}

// Status is the quote status a response moves the quote to.
func (r ClientResponse) Status() QuoteStatus {
	if r == ResponseAccepted {
		return QuoteAccepted
	}
	return QuoteRejected
}

// Quote mirrors the `quotes` table. UserID is nil for guest requests and
// for requests whose account has since been deleted.
type Quote struct {
	ID               uint64      `json:"id"`
	ProjectType      string      `json:"projectType"`
	Features         []string    `json:"features"`
	Budget           string      `json:"budget"`
	Timeline         string      `json:"timeline"`
	Company          string      `json:"company"`
	Email            string      `json:"email"`
	Phone            string      `json:"phone"`
	Description      string      `json:"description"`
	EstimatedPrice   float64     `json:"estimatedPrice"`
	UserID           *uint64     `json:"userId"`
	HasAccount       bool        `json:"hasAccount"`
	Status           QuoteStatus `json:"status"`
	AdminResponse    *string     `json:"adminResponse"`
	AdminPrice       *float64    `json:"adminPrice"`
	AdminTimeline    *string     `json:"adminTimeline"`
	RespondedAt      *time.Time  `json:"respondedAt"`
	ClientResponse   *string     `json:"clientResponse"`
	ClientMessage    *string     `json:"clientMessage"`
	ClientResponseAt *time.Time  `json:"clientResponseAt"`
	CreatedAt        time.Time   `json:"createdAt"`
	UpdatedAt        time.Time   `json:"updatedAt"`
}
