package exchange

import (
	"context"
	"fmt"
	"log"
	"strconv"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
	"gitlab.com/open-soft/go-alpha-bot/src/client"
	"gitlab.com/open-soft/go-alpha-bot/src/model"
	"gitlab.com/open-soft/go-alpha-bot/src/utils"
)

type BalanceServiceInterface interface {
	GetAssetBalance(asset string, cache bool) float64
	InvalidateBalanceCache(asset string)
}

// BalanceService resolves spendable balances from the wallet endpoint.
// Absence at any step yields zero, a cycle must never crash on a balance
// read.
type BalanceService struct {
	RDB        *redis.Client
	Ctx        *context.Context
	CurrentBot *model.Bot
	Exchange   client.ExchangeApiInterface
	Formatter  *utils.Formatter
}

var accountPreferenceOrder = []string{
	model.AccountTypeCard,
	model.AccountTypeMain,
	model.AccountTypeSpot,
}

func (b *BalanceService) InvalidateBalanceCache(asset string) {
	if b.RDB == nil {
		return
	}

	b.RDB.Del(*b.Ctx, b.getBalanceCacheKey(asset))
}

func (b *BalanceService) GetAssetBalance(asset string, cache bool) float64 {
	symbol := strings.ToUpper(asset)
	if len(symbol) == 0 {
		return 0.00
	}

	if b.RDB != nil && cache {
		cached := b.RDB.Get(*b.Ctx, b.getBalanceCacheKey(symbol)).Val()
		if len(cached) > 0 {
			balanceCached, err := strconv.ParseFloat(cached, 64)
			if err == nil {
				return balanceCached
			}
		}
	}

	accountList, err := b.Exchange.GetBalances()
	if err != nil {
		log.Printf("[%s] balance request failure: %s", symbol, err.Error())
		return 0.00
	}

	_, assetEntry := b.SelectAssetEntry(accountList, symbol)
	if assetEntry == nil {
		return 0.00
	}

	balance := b.ExtractNumericBalance(assetEntry)

	if b.RDB != nil {
		b.RDB.Set(*b.Ctx, b.getBalanceCacheKey(symbol), balance, time.Minute)
	}

	return balance
}

// SelectAssetEntry picks the account holding the asset, preferring CARD,
// then MAIN, then SPOT, then any remaining account in original order.
func (b *BalanceService) SelectAssetEntry(accountList []model.Account, assetSymbol string) (*model.Account, *model.AssetBalance) {
	ordered := make([]*model.Account, 0, len(accountList))
	seen := make(map[int]bool)

	for _, accountType := range accountPreferenceOrder {
		for index := range accountList {
			if accountList[index].AccountType == accountType && !seen[index] {
				ordered = append(ordered, &accountList[index])
				seen[index] = true
				break
			}
		}
	}

	for index := range accountList {
		if !seen[index] {
			ordered = append(ordered, &accountList[index])
		}
	}

	for _, account := range ordered {
		for index := range account.AssetBalances {
			if account.AssetBalances[index].Matches(assetSymbol) {
				return account, &account.AssetBalances[index]
			}
		}
	}

	if len(ordered) > 0 {
		return ordered[0], nil
	}

	return nil, nil
}

// ExtractNumericBalance walks free, availableBalance, total and falls back
// to zero on a malformed entry.
func (b *BalanceService) ExtractNumericBalance(assetEntry *model.AssetBalance) float64 {
	raw := assetEntry.Free.Value()
	if len(raw) == 0 {
		raw = assetEntry.AvailableBalance.Value()
	}
	if len(raw) == 0 {
		raw = assetEntry.Total.Value()
	}
	if len(raw) == 0 {
		return 0.00
	}

	number := b.Formatter.AsDecimal(raw)
	if number == nil {
		log.Printf("unexpected balance payload: %s = %s", assetEntry.GetAsset(), raw)
		return 0.00
	}

	balance, _ := number.Float64()

	return balance
}

func (b *BalanceService) getBalanceCacheKey(asset string) string {
	return fmt.Sprintf("balance-%s-account-%d", asset, b.CurrentBot.Id)
}
