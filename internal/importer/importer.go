// Package importer sequences the pipeline: parse, categorize, deduplicate.
// Persistence stays behind the store interfaces; this package only reads.
package importer

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/faturaflow/statement-import/internal/category"
	"github.com/faturaflow/statement-import/internal/dedup"
	"github.com/faturaflow/statement-import/internal/installment"
	"github.com/faturaflow/statement-import/internal/logger"
	"github.com/faturaflow/statement-import/internal/models"
	"github.com/faturaflow/statement-import/internal/parser"
)

// existingLookback bounds how far back prior transactions are fetched for
// deduplication. Long enough to cover any open installment plan.
const existingLookback = 24 * 30 * 24 * time.Hour

// TransactionStore reads previously persisted transactions.
type TransactionStore interface {
	ListExistingTransactions(ctx context.Context, userID string, since time.Time) ([]models.PersistedTransaction, error)
}

// CategoryStore reads and creates user categories. The core only calls
// ListCategories; CreateCategory exists for callers acting on "no match".
type CategoryStore interface {
	ListCategories(ctx context.Context, userID string) ([]models.Category, error)
	CreateCategory(ctx context.Context, userID, name string) (models.Category, error)
}

// RunOptions are the per-run policy switches.
type RunOptions struct {
	// ReferenceMonth is the statement's billing month when the caller
	// knows it; the document's own header wins when present.
	ReferenceMonth time.Time
	// AllowExactDuplicates imports fingerprint matches with a warning.
	AllowExactDuplicates bool
	// AllInstallments accepts parcels outside the statement month.
	AllInstallments bool
}

// CategorizedTransaction pairs an accepted candidate with its advisory
// category suggestion.
type CategorizedTransaction struct {
	models.ExtractedTransaction
	Category models.CategoryMatch `json:"category"`
}

// Result is everything one import run produced. Persisting the accepted
// subset is the caller's job.
type Result struct {
	RunID          string        `json:"runId"`
	Issuer         models.Issuer `json:"issuer"`
	ReferenceMonth time.Time     `json:"referenceMonth"`
	// Transactions is the full ordered candidate list as parsed, before
	// deduplication partitions it.
	Transactions []models.ExtractedTransaction `json:"transactions"`
	Accepted     []CategorizedTransaction      `json:"accepted"`
	Duplicates   []dedup.Decision              `json:"duplicates"`
	Warnings     []dedup.Decision              `json:"warnings"`
	Stats        dedup.Stats                   `json:"stats"`
	Diagnostics  []models.Diagnostic           `json:"diagnostics,omitempty"`
}

// Importer runs the import pipeline for one document at a time. Multiple
// documents may run concurrently; runs for the same user serialize so two
// imports cannot both accept the same installment group member.
type Importer struct {
	registry   *parser.Registry
	resolver   *installment.Resolver
	recognizer *category.Recognizer
	txStore    TransactionStore
	catStore   CategoryStore

	mu        sync.Mutex
	userLocks map[string]*sync.Mutex
}

// New creates an Importer. Stores may be nil for parse-only use; existing
// transactions and categories then come back empty.
func New(registry *parser.Registry, resolver *installment.Resolver, recognizer *category.Recognizer, txStore TransactionStore, catStore CategoryStore) *Importer {
	if registry == nil {
		registry = parser.Default()
	}
	if resolver == nil {
		resolver = installment.NewDefault()
	}
	if recognizer == nil {
		recognizer = category.NewDefault()
	}
	return &Importer{
		registry:   registry,
		resolver:   resolver,
		recognizer: recognizer,
		txStore:    txStore,
		catStore:   catStore,
		userLocks:  make(map[string]*sync.Mutex),
	}
}

// Run imports one document's text for a user. A document from which no
// strategy extracts anything fails with parser.ErrUnsupportedFormat; every
// smaller failure becomes a diagnostic, a duplicate, or a warning.
func (i *Importer) Run(ctx context.Context, userID, text string, opts RunOptions) (*Result, error) {
	runID := uuid.NewString()
	log := logger.FromContext(ctx).With().
		Str("run_id", runID).
		Str("user_id", userID).
		Logger()

	lock := i.userLock(userID)
	lock.Lock()
	defer lock.Unlock()

	stmt, err := i.registry.ParseDocument(text, parser.ParseOptions{
		ReferenceMonth: opts.ReferenceMonth,
		Resolver:       i.resolver,
	})
	if err != nil {
		log.Warn().Err(err).Msg("statement not parseable")
		return nil, fmt.Errorf("parsing statement: %w", err)
	}
	log.Info().
		Str("issuer", string(stmt.Issuer)).
		Int("candidates", len(stmt.Transactions)).
		Msg("statement parsed")

	existing, err := i.listExisting(ctx, userID, stmt.ReferenceMonth)
	if err != nil {
		return nil, fmt.Errorf("listing existing transactions: %w", err)
	}
	categories, err := i.listCategories(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("listing categories: %w", err)
	}

	policy := dedup.Policy{
		OnlyCurrentInstallment: !opts.AllInstallments,
		AllowExactDuplicates:   opts.AllowExactDuplicates,
		ReferenceMonth:         stmt.ReferenceMonth,
	}
	filtered := dedup.Filter(stmt.Transactions, existing, policy)

	history := buildHistory(existing, categories)
	accepted := make([]CategorizedTransaction, 0, len(filtered.Accepted))
	for _, tx := range filtered.Accepted {
		accepted = append(accepted, CategorizedTransaction{
			ExtractedTransaction: tx,
			Category:             i.recognizer.Recognize(tx.Description, categories, history),
		})
	}

	log.Info().
		Int("to_import", filtered.Stats.ToImport).
		Int("duplicates", filtered.Stats.Duplicates).
		Int("warnings", filtered.Stats.Warnings).
		Msg("deduplication finished")

	return &Result{
		RunID:          runID,
		Issuer:         stmt.Issuer,
		ReferenceMonth: stmt.ReferenceMonth,
		Transactions:   stmt.Transactions,
		Accepted:       accepted,
		Duplicates:     filtered.Duplicates,
		Warnings:       filtered.Warnings,
		Stats:          filtered.Stats,
		Diagnostics:    stmt.Diagnostics,
	}, nil
}

func (i *Importer) listExisting(ctx context.Context, userID string, ref time.Time) ([]models.PersistedTransaction, error) {
	if i.txStore == nil {
		return nil, nil
	}
	return i.txStore.ListExistingTransactions(ctx, userID, ref.Add(-existingLookback))
}

func (i *Importer) listCategories(ctx context.Context, userID string) ([]models.Category, error) {
	if i.catStore == nil {
		return nil, nil
	}
	return i.catStore.ListCategories(ctx, userID)
}

// userLock returns the serialization mutex for one user.
func (i *Importer) userLock(userID string) *sync.Mutex {
	i.mu.Lock()
	defer i.mu.Unlock()
	lock, ok := i.userLocks[userID]
	if !ok {
		lock = &sync.Mutex{}
		i.userLocks[userID] = lock
	}
	return lock
}

// buildHistory turns persisted transactions into recognizer history,
// resolving category names from the user's category list.
func buildHistory(existing []models.PersistedTransaction, categories []models.Category) []category.HistoryEntry {
	names := make(map[string]string, len(categories))
	for _, c := range categories {
		names[c.ID] = c.Name
	}

	var history []category.HistoryEntry
	for _, tx := range existing {
		if tx.CategoryID == "" {
			continue
		}
		history = append(history, category.HistoryEntry{
			Description:  tx.Description,
			CategoryID:   tx.CategoryID,
			CategoryName: names[tx.CategoryID],
		})
	}
	return history
}
