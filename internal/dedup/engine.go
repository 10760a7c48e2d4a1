package dedup

import (
	"fmt"
	"time"

	"github.com/faturaflow/statement-import/internal/models"
)

// Policy controls how strictly the engine filters.
type Policy struct {
	// OnlyCurrentInstallment accepts a parcel of a known group only when it
	// falls in the statement's own billing month.
	OnlyCurrentInstallment bool
	// AllowExactDuplicates downgrades exact fingerprint matches from
	// blocked duplicates to imported-with-warning.
	AllowExactDuplicates bool
	// ReferenceMonth is the statement's billing month.
	ReferenceMonth time.Time
}

// DefaultPolicy returns the strict defaults for a given statement month.
func DefaultPolicy(referenceMonth time.Time) Policy {
	return Policy{
		OnlyCurrentInstallment: true,
		AllowExactDuplicates:   false,
		ReferenceMonth:         referenceMonth,
	}
}

// Status tags a candidate's deduplication outcome.
type Status string

const (
	StatusImport    Status = "import"
	StatusDuplicate Status = "duplicate"
	StatusWarning   Status = "warning"
)

// Decision records why a candidate was rejected or flagged. Accepted
// candidates keep their full payload in Result.Accepted.
type Decision struct {
	Transaction models.ExtractedTransaction `json:"transaction"`
	Status      Status                      `json:"status"`
	Reason      string                      `json:"reason"`
}

// Stats summarizes a filter run.
type Stats struct {
	TotalAnalyzed int `json:"totalAnalyzed"`
	ToImport      int `json:"toImport"`
	Duplicates    int `json:"duplicates"`
	Warnings      int `json:"warnings"`
}

// Result is the partition of one candidate batch.
type Result struct {
	Accepted   []models.ExtractedTransaction `json:"accepted"`
	Duplicates []Decision                    `json:"duplicates"`
	Warnings   []Decision                    `json:"warnings"`
	Stats      Stats                         `json:"stats"`
}

// Filter partitions candidates into import/duplicate/warning groups against
// the previously persisted set, under the given policy. No I/O; candidates
// are processed in order and the partition is deterministic.
func Filter(candidates []models.ExtractedTransaction, existing []models.PersistedTransaction, policy Policy) Result {
	existingFPs := make(map[string]struct{}, len(existing))
	groups := make(map[string][]models.PersistedTransaction)
	for _, tx := range existing {
		existingFPs[persistedFingerprint(tx)] = struct{}{}
		if gid, ok := groupIDFor(tx.Description, tx.Amount, tx.Installment); ok {
			groups[gid] = append(groups[gid], tx)
		}
	}

	var res Result
	res.Stats.TotalAnalyzed = len(candidates)

	for _, cand := range candidates {
		if _, seen := existingFPs[candidateFingerprint(cand)]; seen {
			if policy.AllowExactDuplicates {
				res.Accepted = append(res.Accepted, cand)
				res.Warnings = append(res.Warnings, Decision{
					Transaction: cand,
					Status:      StatusWarning,
					Reason:      "duplicate allowed by policy",
				})
				continue
			}
			res.Duplicates = append(res.Duplicates, Decision{
				Transaction: cand,
				Status:      StatusDuplicate,
				Reason:      "identical transaction already exists",
			})
			continue
		}

		gid, hasGroup := groupIDFor(cand.Description, cand.Amount, cand.Installment)
		if hasGroup {
			if members := groups[gid]; len(members) > 0 {
				if dup, reason := classifyParcel(cand, members, policy); dup {
					res.Duplicates = append(res.Duplicates, Decision{
						Transaction: cand,
						Status:      StatusDuplicate,
						Reason:      reason,
					})
					continue
				}
			}
		}

		res.Accepted = append(res.Accepted, cand)
	}

	res.Stats.ToImport = len(res.Accepted)
	res.Stats.Duplicates = len(res.Duplicates)
	res.Stats.Warnings = len(res.Warnings)
	return res
}

// classifyParcel decides whether a candidate parcel of an already-known
// installment group may be imported.
func classifyParcel(cand models.ExtractedTransaction, members []models.PersistedTransaction, policy Policy) (duplicate bool, reason string) {
	for _, m := range members {
		if m.Installment != nil && m.Installment.Current == cand.Installment.Current {
			return true, fmt.Sprintf("parcel %d/%d already exists",
				cand.Installment.Current, cand.Installment.Total)
		}
	}

	if !policy.OnlyCurrentInstallment {
		return false, ""
	}

	candMonth := cand.Date.Format("2006-01")
	refMonth := policy.ReferenceMonth.Format("2006-01")
	if candMonth != refMonth {
		return true, fmt.Sprintf("parcel dated %s outside statement month %s", candMonth, refMonth)
	}
	return false, ""
}
