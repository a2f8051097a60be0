// Package types provides type definitions for structured data used throughout the resume-ats system.
//
//nolint:revive // types is a standard Go package name pattern
package types

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// BulletID is a stable synthetic identifier for a bullet. IDs survive rewrites
// and are never derived from bullet text, so duplicate text stays unambiguous.
type BulletID string

// Bullet is a single achievement line owned by an experience entry.
type Bullet struct {
	ID   BulletID `json:"id"`
	Text string   `json:"text" validate:"required"`
}

// NewBullet creates a bullet without an ID. Call AssignIDs on the owning
// resume before relying on identity.
func NewBullet(text string) Bullet {
	return Bullet{Text: text}
}

// UnmarshalJSON accepts either a plain string or an {"id","text"} object so
// resume files written by hand can list bullets as strings.
func (b *Bullet) UnmarshalJSON(data []byte) error {
	var text string
	if err := json.Unmarshal(data, &text); err == nil {
		b.ID = ""
		b.Text = text
		return nil
	}

	type plain Bullet
	var p plain
	if err := json.Unmarshal(data, &p); err != nil {
		return fmt.Errorf("bullet must be a string or an object with text: %w", err)
	}
	*b = Bullet(p)
	return nil
}

// BulletTexts returns the text of each bullet in order.
func BulletTexts(bullets []Bullet) []string {
	texts := make([]string, len(bullets))
	for i, b := range bullets {
		texts[i] = b.Text
	}
	return texts
}

const bulletIDPrefix = "b"

// AssignIDs gives every bullet in the resume a unique ID. Existing unique IDs
// are kept; empty or duplicated IDs are replaced with fresh ones drawn after
// the highest numeric ID already present.
func AssignIDs(r *Resume) {
	if r == nil {
		return
	}

	next := 1
	for _, exp := range r.Experience {
		for _, b := range exp.Bullets {
			if n, ok := parseBulletSeq(b.ID); ok && n >= next {
				next = n + 1
			}
		}
	}

	seen := make(map[BulletID]bool)
	for i := range r.Experience {
		for j := range r.Experience[i].Bullets {
			id := r.Experience[i].Bullets[j].ID
			if id == "" || seen[id] {
				id = BulletID(bulletIDPrefix + strconv.Itoa(next))
				next++
				r.Experience[i].Bullets[j].ID = id
			}
			seen[id] = true
		}
	}
}

func parseBulletSeq(id BulletID) (int, bool) {
	s := string(id)
	if !strings.HasPrefix(s, bulletIDPrefix) {
		return 0, false
	}
	n, err := strconv.Atoi(strings.TrimPrefix(s, bulletIDPrefix))
	if err != nil {
		return 0, false
	}
	return n, true
}
