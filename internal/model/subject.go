package model

import "time"

// Topic is a sub-entity of a Subject; stored inline, ordered by DisplayOrder.
type Topic struct {
	Name         string   `json:"name" bson:"name"`
	Code         string   `json:"code,omitempty" bson:"code,omitempty"`
	SubTopics    []string `json:"subTopics,omitempty" bson:"subTopics,omitempty"`
	DisplayOrder int      `json:"displayOrder" bson:"displayOrder"`
	IsActive     bool     `json:"isActive" bson:"isActive"`
}

// Subject is the controlled classification vocabulary questions are expected to
// reference. Name and code are unique.
type Subject struct {
	Name         string  `json:"name" bson:"name"`
	Code         string  `json:"code" bson:"code"`
	Description  string  `json:"description,omitempty" bson:"description,omitempty"`
	Icon         string  `json:"icon,omitempty" bson:"icon,omitempty"`
	Topics       []Topic `json:"topics,omitempty" bson:"topics,omitempty"`
	DisplayOrder int     `json:"displayOrder" bson:"displayOrder"`
	IsActive     bool    `json:"isActive" bson:"isActive"`

	CreatedBy string    `json:"createdBy,omitempty" bson:"createdBy,omitempty"`
	UpdatedBy string    `json:"updatedBy,omitempty" bson:"updatedBy,omitempty"`
	CreatedAt time.Time `json:"createdAt" bson:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt" bson:"updatedAt"`
}

// ActiveTopics returns the subject's active topics in display order.
func (s *Subject) ActiveTopics() []Topic {
	topics := make([]Topic, 0, len(s.Topics))
	for _, t := range s.Topics {
		if t.IsActive {
			topics = append(topics, t)
		}
	}
	return topics
}
