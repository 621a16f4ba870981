// Package sla classifies materials into time-sensitivity categories and
// derives elapsed time, SLA breaches and display badges for items.
package sla

import (
	"strings"
	"time"

	"github.com/heartmarshall/ntmanager-backend/internal/config"
	"github.com/heartmarshall/ntmanager-backend/internal/domain"
)

// Classifier maps material codes to categories and categories to SLAs.
// It is immutable after construction and safe for concurrent use.
type Classifier struct {
	coldChain map[string]struct{}
	flammable map[string]struct{}
	limits    map[domain.Category]time.Duration
}

// NewClassifier builds a Classifier from the configured code sets and
// per-category SLA minutes.
func NewClassifier(cfg config.SLAConfig) *Classifier {
	return &Classifier{
		coldChain: toSet(cfg.ColdChainCodes()),
		flammable: toSet(cfg.FlammableCodes()),
		limits: map[domain.Category]time.Duration{
			domain.CategoryColdChain: time.Duration(cfg.ColdChainMinutes) * time.Minute,
			domain.CategoryFlammable: time.Duration(cfg.FlammableMinutes) * time.Minute,
			domain.CategoryStandard:  time.Duration(cfg.StandardMinutes) * time.Minute,
		},
	}
}

// Classify returns the category of a material code. Codes are trimmed;
// anything outside both configured sets is standard.
func (c *Classifier) Classify(code string) domain.Category {
	code = strings.TrimSpace(code)
	if _, ok := c.coldChain[code]; ok {
		return domain.CategoryColdChain
	}
	if _, ok := c.flammable[code]; ok {
		return domain.CategoryFlammable
	}
	return domain.CategoryStandard
}

// SLA returns the time budget of a category. Unknown categories get the
// standard budget.
func (c *Classifier) SLA(cat domain.Category) time.Duration {
	if d, ok := c.limits[cat]; ok {
		return d
	}
	return c.limits[domain.CategoryStandard]
}

func toSet(codes []string) map[string]struct{} {
	set := make(map[string]struct{}, len(codes))
	for _, code := range codes {
		set[strings.TrimSpace(code)] = struct{}{}
	}
	return set
}
