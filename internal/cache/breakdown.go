package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/segyhp/lending-engine/internal/domain"
	"github.com/segyhp/lending-engine/internal/engine"

	"github.com/cespare/xxhash/v2"
	"github.com/redis/go-redis/v9"
)

// BreakdownCache memoizes engine.Breakdown results. Keys are derived from the
// full input, so a stale entry can never be served for changed data; entries
// only expire.
type BreakdownCache interface {
	Get(ctx context.Context, key string) (*engine.LedgerBreakdown, error)
	Set(ctx context.Context, key string, breakdown engine.LedgerBreakdown) error
}

// BreakdownKey hashes everything Breakdown reads.
func BreakdownKey(loan *domain.Loan, installments []*domain.Installment, asOf time.Time) string {
	d := xxhash.New()
	policy := loan.FeePolicy
	_, _ = d.WriteString(strconv.FormatBool(policy.Enabled))
	_, _ = d.WriteString("|" + policy.RatePerPeriod.String())
	_, _ = d.WriteString("|" + strconv.Itoa(policy.GracePeriodDays))
	_, _ = d.WriteString("|" + policy.MaxLateFee.String())
	_, _ = d.WriteString("|" + string(policy.CalculationMode))
	_, _ = d.WriteString("|" + strconv.FormatInt(asOf.UnixNano(), 10))
	for _, inst := range installments {
		_, _ = d.WriteString(fmt.Sprintf("|%d,%d,%s,%t,%s",
			inst.InstallmentNumber,
			inst.DueDate.UnixNano(),
			inst.PrincipalAmount.String(),
			inst.IsPaid,
			inst.LateFeePaid.String(),
		))
	}
	return fmt.Sprintf("breakdown:%s:%016x", loan.LoanID, d.Sum64())
}

type redisBreakdownCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRedisBreakdownCache stores breakdowns as JSON with the given TTL.
func NewRedisBreakdownCache(client *redis.Client, ttl time.Duration) BreakdownCache {
	return &redisBreakdownCache{client: client, ttl: ttl}
}

// Get returns nil, nil on a miss.
func (c *redisBreakdownCache) Get(ctx context.Context, key string) (*engine.LedgerBreakdown, error) {
	data, err := c.client.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	var breakdown engine.LedgerBreakdown
	if err := json.Unmarshal(data, &breakdown); err != nil {
		return nil, fmt.Errorf("decode cached breakdown: %w", err)
	}
	return &breakdown, nil
}

func (c *redisBreakdownCache) Set(ctx context.Context, key string, breakdown engine.LedgerBreakdown) error {
	data, err := json.Marshal(breakdown)
	if err != nil {
		return fmt.Errorf("encode breakdown: %w", err)
	}
	return c.client.Set(ctx, key, data, c.ttl).Err()
}

// NoopBreakdownCache never stores anything. Used when Redis is not configured.
type NoopBreakdownCache struct{}

func (NoopBreakdownCache) Get(context.Context, string) (*engine.LedgerBreakdown, error) {
	return nil, nil
}

func (NoopBreakdownCache) Set(context.Context, string, engine.LedgerBreakdown) error {
	return nil
}
