package models

import (
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// IDs are generated client-side so inserts behave the same against Postgres
// and the in-memory SQLite used by tests; gen_random_uuid() stays as a
// server-side fallback for rows created outside the application.

func (e *Employee) BeforeCreate(*gorm.DB) error       { ensureID(&e.ID); return nil }
func (c *UserCredential) BeforeCreate(*gorm.DB) error { ensureID(&c.ID); return nil }
func (p *Part) BeforeCreate(*gorm.DB) error           { ensureID(&p.ID); return nil }
func (j *JobCard) BeforeCreate(*gorm.DB) error        { ensureID(&j.ID); return nil }
func (a *PartAllocation) BeforeCreate(*gorm.DB) error { ensureID(&a.ID); return nil }
func (s *StockLedgerEntry) BeforeCreate(*gorm.DB) error {
	ensureID(&s.ID)
	return nil
}
func (u *UsageCounter) BeforeCreate(*gorm.DB) error { ensureID(&u.ID); return nil }
func (c *Customer) BeforeCreate(*gorm.DB) error     { ensureID(&c.ID); return nil }
func (v *Vehicle) BeforeCreate(*gorm.DB) error      { ensureID(&v.ID); return nil }

func ensureID(id *uuid.UUID) {
	if *id == uuid.Nil {
		*id = uuid.New()
	}
}
