package shared

import (
	"bookpay/shared/cache"
	"bookpay/shared/dto"
	"context"
	"fmt"
	"math"
	"strings"

	"github.com/rs/zerolog/log"
)

const cacheKeySeparator = ":"

func FilterByID(id any, fieldID, table string) dto.FilterGroup {
	return dto.FilterGroup{
		Filters: []any{
			dto.Filter{
				Field:    fieldID,
				Value:    id,
				Operator: dto.FilterOperatorEq,
				Table:    table,
			},
		},
	}
}

// BuildCacheKey joins a prefix and its parts into a single redis key.
func BuildCacheKey(prefix string, parts ...any) string {
	keys := make([]string, 0, len(parts)+1)
	keys = append(keys, prefix)

	for _, part := range parts {
		keys = append(keys, fmt.Sprintf("%v", part))
	}

	return strings.Join(keys, cacheKeySeparator)
}

// InvalidateCaches removes every key under prefix. Failures are only logged.
func InvalidateCaches(ctx context.Context, redisCache cache.RedisCache, prefix string) {
	if err := redisCache.Clear(ctx, prefix+cacheKeySeparator+"*"); err != nil {
		log.Error().Err(err).Str("prefix", prefix).Msg("failed to invalidate caches")
	}
}

// RoundMoney rounds an amount to two decimal places.
func RoundMoney(amount float64) float64 {
	return math.Round(amount*100) / 100 //nolint:mnd
}

// FormatMoney renders an amount with thousands separators and two decimals, e.g. "₱5,000.00".
func FormatMoney(symbol string, amount float64) string {
	sign := ""
	if amount < 0 {
		sign = "-"
		amount = -amount
	}

	whole := fmt.Sprintf("%.2f", RoundMoney(amount))
	intPart, fracPart, _ := strings.Cut(whole, ".")

	var out strings.Builder
	for i, c := range intPart {
		if i != 0 && (len(intPart)-i)%3 == 0 {
			out.WriteByte(',')
		}

		out.WriteRune(c)
	}

	return sign + symbol + out.String() + "." + fracPart
}
