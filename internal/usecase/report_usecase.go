package usecase

import (
	"context"
	"encoding/csv"
	"encoding/json"
	"io"
	"time"

	"github.com/iho/gowallet/internal/domain"
)

const reportCacheTTL = time.Minute

// Cache keys for the sender aggregates. TransferUseCase drops both after a
// committed transfer.
const (
	reportTotalsCacheKey   = "report:totals"
	reportAveragesCacheKey = "report:averages"
)

// ReportUseCase serves read-only aggregates over accounts and transfer
// records. It imposes no invariants on the transfer core.
type ReportUseCase struct {
	accountRepo  AccountRepository
	transferRepo TransferRepository
	cache        Cache
}

// NewReportUseCase creates a new ReportUseCase. Cache may be nil.
func NewReportUseCase(accountRepo AccountRepository, transferRepo TransferRepository, cache Cache) *ReportUseCase {
	return &ReportUseCase{
		accountRepo:  accountRepo,
		transferRepo: transferRepo,
		cache:        cache,
	}
}

// TotalsBySender returns the total transferred per sender, largest first.
func (uc *ReportUseCase) TotalsBySender(ctx context.Context) ([]*SenderTotal, error) {
	var cached []*SenderTotal
	if uc.cacheGet(ctx, reportTotalsCacheKey, &cached) {
		return cached, nil
	}

	totals, err := uc.transferRepo.TotalsBySender(ctx)
	if err != nil {
		return nil, err
	}

	uc.cacheSet(ctx, reportTotalsCacheKey, totals)

	return totals, nil
}

// AveragesBySender returns the mean transfer amount and send count per
// sender, highest mean first.
func (uc *ReportUseCase) AveragesBySender(ctx context.Context) ([]*SenderAverage, error) {
	var cached []*SenderAverage
	if uc.cacheGet(ctx, reportAveragesCacheKey, &cached) {
		return cached, nil
	}

	averages, err := uc.transferRepo.AveragesBySender(ctx)
	if err != nil {
		return nil, err
	}

	uc.cacheSet(ctx, reportAveragesCacheKey, averages)

	return averages, nil
}

// ExportBalancesCSV streams every account as a CSV row. The output uses ";"
// as the delimiter and starts with a UTF-8 BOM so spreadsheet tools detect
// the encoding.
func (uc *ReportUseCase) ExportBalancesCSV(ctx context.Context, w io.Writer) error {
	if _, err := w.Write([]byte{0xEF, 0xBB, 0xBF}); err != nil {
		return err
	}

	cw := csv.NewWriter(w)
	cw.Comma = ';'

	if err := cw.Write([]string{"Name", "Email", "Balance"}); err != nil {
		return err
	}

	err := uc.accountRepo.ForEach(ctx, func(a *domain.Account) error {
		return cw.Write([]string{a.Name, a.Email, a.Balance.StringFixed(2)})
	})
	if err != nil {
		return err
	}

	cw.Flush()

	return cw.Error()
}

func (uc *ReportUseCase) cacheGet(ctx context.Context, key string, out any) bool {
	if uc.cache == nil {
		return false
	}

	raw, err := uc.cache.Get(ctx, key)
	if err != nil || raw == "" {
		return false
	}

	return json.Unmarshal([]byte(raw), out) == nil
}

func (uc *ReportUseCase) cacheSet(ctx context.Context, key string, val any) {
	if uc.cache == nil {
		return
	}

	raw, err := json.Marshal(val)
	if err != nil {
		return
	}

	// Best effort: a cache failure never fails the report.
	_ = uc.cache.Set(ctx, key, string(raw), reportCacheTTL)
}
