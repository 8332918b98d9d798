package models

import "time"

// Competition groups games that members predict against each other
type Competition struct {
	ID        string    `json:"id" bson:"_id"`
	Name      string    `json:"name" bson:"name"`
	Status    Status    `json:"status" bson:"status"`
	WinnerID  *string   `json:"winnerId,omitempty" bson:"winner_id,omitempty"`
	CreatedAt time.Time `json:"createdAt" bson:"created_at"`
	UpdatedAt time.Time `json:"updatedAt" bson:"updated_at"`
}

// Membership registers a user to a competition. JoinedAt defines registration order.
type Membership struct {
	CompetitionID string    `json:"competitionId" bson:"competition_id"`
	UserID        string    `json:"userId" bson:"user_id"`
	JoinedAt      time.Time `json:"joinedAt" bson:"joined_at"`
}

// CreateCompetitionRequest is the admin payload for a new competition
type CreateCompetitionRequest struct {
	Name string `json:"name" validate:"required,max=120"`
}

// HasWinner reports whether a winner has been stored
func (c *Competition) HasWinner() bool {
	return c.WinnerID != nil && *c.WinnerID != ""
}

// IsWinner reports whether userID is the stored winner
func (c *Competition) IsWinner(userID string) bool {
	return c.HasWinner() && *c.WinnerID == userID
}
