package model

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"
)

type ItemType string

const (
	ItemTypeSkill       ItemType = "skill"
	ItemTypeProject     ItemType = "project"
	ItemTypeInternship  ItemType = "internship"
	ItemTypeCertificate ItemType = "certificate"
)

type ItemStatus string

const (
	ItemStatusPending    ItemStatus = "pending"
	ItemStatusInProgress ItemStatus = "in-progress"
	ItemStatusCompleted  ItemStatus = "completed"
)

type Importance string

const (
	ImportanceHigh   Importance = "high"
	ImportanceMedium Importance = "medium"
	ImportanceLow    Importance = "low"
)

type RoadmapItem struct {
	ID             string     `json:"id"`
	Title          string     `json:"title"`
	Description    string     `json:"description"`
	Type           ItemType   `json:"type"`
	Duration       string     `json:"duration"`
	Status         ItemStatus `json:"status"`
	CompletedAt    *time.Time `json:"completedAt,omitempty"`
	Link           string     `json:"link,omitempty"`
	Importance     Importance `json:"importance,omitempty"`
	IsAIAdaptation bool       `json:"isAIAdaptation,omitempty"`
}

func (i RoadmapItem) IsCompleted() bool {
	return i.Status == ItemStatusCompleted
}

type RoadmapPhase struct {
	PhaseName         string        `json:"phaseName"`
	Items             []RoadmapItem `json:"items"`
	CompletionSummary string        `json:"completionSummary,omitempty"`
}

// IsComplete reports whether every item of the phase is completed.
func (p RoadmapPhase) IsComplete() bool {
	for _, item := range p.Items {
		if !item.IsCompleted() {
			return false
		}
	}
	return true
}

// Phases is the ordered phase list of a roadmap, stored as a JSON column.
type Phases []RoadmapPhase

// Clone returns a deep copy, so callers can mutate the result freely.
func (ps Phases) Clone() Phases {
	if ps == nil {
		return nil
	}
	out := make(Phases, len(ps))
	for i, p := range ps {
		out[i] = p
		out[i].Items = make([]RoadmapItem, len(p.Items))
		for j, item := range p.Items {
			if item.CompletedAt != nil {
				t := *item.CompletedAt
				item.CompletedAt = &t
			}
			out[i].Items[j] = item
		}
	}
	return out
}

// Counts returns the number of completed items and the total number of items.
func (ps Phases) Counts() (completed, total int) {
	for _, p := range ps {
		for _, item := range p.Items {
			total++
			if item.IsCompleted() {
				completed++
			}
		}
	}
	return completed, total
}

// IsComplete reports whether the roadmap has items and all of them are completed.
func (ps Phases) IsComplete() bool {
	completed, total := ps.Counts()
	return total > 0 && completed == total
}

// Items returns every item in phase order.
func (ps Phases) Items() []RoadmapItem {
	var items []RoadmapItem
	for _, p := range ps {
		items = append(items, p.Items...)
	}
	return items
}

func (ps Phases) Value() (driver.Value, error) {
	if ps == nil {
		return "[]", nil
	}
	b, err := json.Marshal(ps)
	if err != nil {
		return nil, err
	}
	return string(b), nil
}

func (ps *Phases) Scan(src any) error {
	var b []byte
	switch v := src.(type) {
	case nil:
		*ps = nil
		return nil
	case string:
		b = []byte(v)
	case []byte:
		b = v
	default:
		return fmt.Errorf("cannot scan %T into Phases", src)
	}
	return json.Unmarshal(b, ps)
}

type Roadmap struct {
	UserID    string    `db:"user_id" json:"-"`
	CareerID  string    `db:"career_id" json:"careerId"`
	Phases    Phases    `db:"phases" json:"phases"`
	Version   int       `db:"version" json:"version"`
	UpdatedAt time.Time `db:"updated_at" json:"updatedAt"`
}
