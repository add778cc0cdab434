// Package leaderboard содержит чистую логику рейтинга и агрегации:
// ранжирование банковских счетов, производные итоги по истории заявок
// и данные для графиков. Функции детерминированы и не имеют побочных эффектов.
package leaderboard

import (
	"sort"
	"time"

	"brz-forbes-portal/internal/storages"
)

// TopSize — размер публикуемого рейтинга
const TopSize = 20

// SeriesDays — длина дневного ряда выплат для графиков дашборда
const SeriesDays = 14

// DefaultJob — подпись счета без должности
const DefaultJob = "Elite Bancária"

// RankedClient представляет строку рейтинга
type RankedClient struct {
	ID     int64   `json:"id"`
	Player string  `json:"player"`
	Job    string  `json:"job"`
	Wealth float64 `json:"total_wealth"`
	Rank   int     `json:"rank"`
}

// Rank сортирует счета по rus по убыванию и усекает до TopSize.
// Сортировка стабильная: равные балансы сохраняют исходный порядок выборки.
func Rank(clients []storages.BankClient) []RankedClient {
	ranked := make([]RankedClient, 0, len(clients))
	for _, c := range clients {
		job := c.Job
		if job == "" {
			job = DefaultJob
		}
		ranked = append(ranked, RankedClient{
			ID:     c.ID,
			Player: c.Player,
			Job:    job,
			Wealth: c.Rus,
		})
	}

	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].Wealth > ranked[j].Wealth
	})

	if len(ranked) > TopSize {
		ranked = ranked[:TopSize]
	}

	for i := range ranked {
		ranked[i].Rank = i + 1
	}

	return ranked
}

// DailyPoint представляет точку дневного ряда выплат
type DailyPoint struct {
	Date  string  `json:"date"` // DD/MM
	Value float64 `json:"value"`
}

// DerivedTotals представляет итоги, пересчитанные из истории заявок
type DerivedTotals struct {
	ApprovedCoins float64      `json:"approved_coins"`
	ApprovedRus   float64      `json:"approved_rus"`
	PendingCount  int          `json:"pending_count"`
	FinishedCount int          `json:"finished_count"`
	CoinSeries    []DailyPoint `json:"coin_series"`
	RusSeries     []DailyPoint `json:"rus_series"`
}

// DeriveTotals пересчитывает производные итоги игрока из истории заявок:
// суммы одобренных выводов по валютам, счетчики статусов и дневные ряды
// за последние SeriesDays дней (UTC-дата created_at; пропущенные дни — ноль).
// Результат не зависит от порядка элементов history.
func DeriveTotals(history []storages.WithdrawRequest, now time.Time) DerivedTotals {
	totals := DerivedTotals{}

	coinByDay := make(map[string]float64)
	rusByDay := make(map[string]float64)

	for _, req := range history {
		switch req.Status {
		case storages.StatusPending:
			totals.PendingCount++
			continue
		case storages.StatusApproved, storages.StatusDenied:
			totals.FinishedCount++
		}

		if req.Status != storages.StatusApproved {
			continue
		}

		day := req.CreatedAt.UTC().Format("2006-01-02")
		switch req.CurrencyType {
		case storages.CurrencyCoin:
			totals.ApprovedCoins += req.Amount
			coinByDay[day] += req.Amount
		case storages.CurrencyRus:
			totals.ApprovedRus += req.Amount
			rusByDay[day] += req.Amount
		}
	}

	totals.CoinSeries = buildSeries(coinByDay, now)
	totals.RusSeries = buildSeries(rusByDay, now)

	return totals
}

// buildSeries строит ряд фиксированной длины, заканчивающийся сегодняшним днем
func buildSeries(byDay map[string]float64, now time.Time) []DailyPoint {
	series := make([]DailyPoint, 0, SeriesDays)
	today := now.UTC().Truncate(24 * time.Hour)

	for i := SeriesDays - 1; i >= 0; i-- {
		day := today.AddDate(0, 0, -i)
		key := day.Format("2006-01-02")
		series = append(series, DailyPoint{
			Date:  day.Format("02/01"),
			Value: byDay[key],
		})
	}

	return series
}

// ChartPoint представляет точку столбчатой или круговой диаграммы
type ChartPoint struct {
	Name  string  `json:"name"`
	Value float64 `json:"value"`
}

// WealthBars возвращает данные столбчатой диаграммы по первой десятке рейтинга
func WealthBars(ranked []RankedClient) []ChartPoint {
	limit := len(ranked)
	if limit > 10 {
		limit = 10
	}

	bars := make([]ChartPoint, 0, limit)
	for _, c := range ranked[:limit] {
		name := c.Player
		if name == "" {
			name = "User"
		}
		if len(name) > 8 {
			name = name[:8]
		}
		bars = append(bars, ChartPoint{Name: name, Value: c.Wealth})
	}

	return bars
}

// Concentration представляет распределение капитала по рейтингу
type Concentration struct {
	Slices    []ChartPoint `json:"slices"`
	TotalPool float64      `json:"total_pool"`
}

// Concentrate разбивает капитал рейтинга на доли: лидер, элита (места 2-5)
// и остальные участники
func Concentrate(ranked []RankedClient) Concentration {
	var top1, elite, others float64

	for i, c := range ranked {
		switch {
		case i == 0:
			top1 = c.Wealth
		case i < 5:
			elite += c.Wealth
		default:
			others += c.Wealth
		}
	}

	return Concentration{
		Slices: []ChartPoint{
			{Name: "Top 1", Value: top1},
			{Name: "Elite (2-5)", Value: elite},
			{Name: "Others", Value: others},
		},
		TotalPool: top1 + elite + others,
	}
}
