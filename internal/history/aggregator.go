package history

import (
	"context"
	"sort"
	"strings"
	"sync"

	"ticwallet/internal/apperr"
	"ticwallet/internal/logger"
	"ticwallet/internal/metrics"

	"golang.org/x/sync/errgroup"
)

type Service interface {
	History(ctx context.Context, email string, q Query) (*Result, error)
}

// Aggregator merges the history of every source into one time-ordered list.
// It never writes.
type Aggregator struct {
	sources []Source
}

func NewAggregator(sources ...Source) *Aggregator {
	return &Aggregator{sources: sources}
}

func (a *Aggregator) History(ctx context.Context, email string, q Query) (*Result, error) {
	if email == "" {
		return nil, apperr.AuthRequired()
	}
	if q.Limit < 0 || q.Offset < 0 {
		return nil, apperr.Validation("limit and offset must not be negative")
	}
	typeFilter := strings.ToLower(strings.TrimSpace(q.Type))
	statusFilter := strings.ToLower(strings.TrimSpace(q.Status))

	events := a.collect(ctx, email, typeFilter)
	events = dropDuplicatePurchases(events)

	sort.SliceStable(events, func(i, j int) bool {
		return events[i].Timestamp.After(events[j].Timestamp)
	})

	filtered := events[:0]
	for _, e := range events {
		if typeFilter != "" && e.Category != typeFilter && e.Type != typeFilter {
			continue
		}
		if statusFilter != "" && !strings.EqualFold(e.Status, statusFilter) {
			continue
		}
		filtered = append(filtered, e)
	}

	return paginate(filtered, q.Limit, q.Offset), nil
}

// collect queries the relevant sources concurrently. A failing source is
// logged and skipped so the rest of the history is still served.
func (a *Aggregator) collect(ctx context.Context, email, typeFilter string) []Event {
	var (
		g      errgroup.Group
		mu     sync.Mutex
		events []Event
	)

	for _, src := range a.sources {
		if typeFilter != "" && !servesType(src, typeFilter) {
			continue
		}
		g.Go(func() error {
			got, err := src.Fetch(ctx, email)
			if err != nil {
				logger.Warn("history source skipped",
					"source", src.Name(),
					"user_email", email,
					"error", err,
				)
				metrics.RecordHistorySourceError(src.Name())
				return nil
			}
			mu.Lock()
			events = append(events, got...)
			mu.Unlock()
			return nil
		})
	}
	_ = g.Wait()

	return events
}

func servesType(src Source, typeFilter string) bool {
	for _, c := range src.Categories() {
		if c == typeFilter || strings.HasPrefix(typeFilter, c+"_") {
			return true
		}
	}
	return false
}

// dropDuplicatePurchases removes ledger rows for plan purchases whose
// transaction id also has a plan payment row. The payment row is kept.
func dropDuplicatePurchases(events []Event) []Event {
	paid := make(map[string]bool)
	for _, e := range events {
		if e.Source == "plan_payments" && e.TransactionID != "" {
			paid[e.TransactionID] = true
		}
	}
	if len(paid) == 0 {
		return events
	}

	out := events[:0]
	for _, e := range events {
		if e.Source != "plan_payments" && e.Category == CategoryPlanPurchase && paid[e.TransactionID] {
			continue
		}
		out = append(out, e)
	}
	return out
}

func paginate(events []Event, limit, offset int) *Result {
	if limit == 0 {
		limit = defaultLimit
	}
	if limit > maxLimit {
		limit = maxLimit
	}

	res := &Result{
		Success:      true,
		Transactions: []Event{},
		Total:        len(events),
		Summary:      summarize(events),
	}
	if offset < len(events) {
		end := offset + limit
		if end > len(events) {
			end = len(events)
		}
		res.Transactions = events[offset:end]
		res.HasMore = end < len(events)
	}
	return res
}

func summarize(events []Event) map[string]TypeSummary {
	summary := make(map[string]TypeSummary)
	for _, e := range events {
		s := summary[e.Type]
		s.Count++
		s.Total = s.Total.Add(e.USDValue)
		summary[e.Type] = s
	}
	for k, s := range summary {
		s.Total = s.Total.Round(2)
		summary[k] = s
	}
	return summary
}

var _ Service = (*Aggregator)(nil)
