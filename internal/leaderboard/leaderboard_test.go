package leaderboard

import (
	"fmt"
	"testing"
	"time"

	"brz-forbes-portal/internal/storages"
)

func TestRankOrdersByWealthDescending(t *testing.T) {
	clients := []storages.BankClient{
		{ID: 1, Player: "Carlos", Rus: 500},
		{ID: 2, Player: "Ana", Rus: 900},
		{ID: 3, Player: "Bruno", Rus: 700},
	}

	ranked := Rank(clients)

	if len(ranked) != 3 {
		t.Fatalf("Expected 3 ranked clients, got %d", len(ranked))
	}

	expected := []string{"Ana", "Bruno", "Carlos"}
	for i, name := range expected {
		if ranked[i].Player != name {
			t.Errorf("Position %d: expected %s, got %s", i, name, ranked[i].Player)
		}
		if ranked[i].Rank != i+1 {
			t.Errorf("Position %d: expected rank %d, got %d", i, i+1, ranked[i].Rank)
		}
	}
}

func TestRankTruncatesToTopSize(t *testing.T) {
	clients := make([]storages.BankClient, 25)
	for i := range clients {
		clients[i] = storages.BankClient{
			ID:     int64(i + 1),
			Player: fmt.Sprintf("player%d", i),
			Rus:    float64(1000 - i),
		}
	}

	ranked := Rank(clients)

	if len(ranked) != TopSize {
		t.Fatalf("Expected %d ranked clients, got %d", TopSize, len(ranked))
	}
	if ranked[0].Rank != 1 || ranked[TopSize-1].Rank != TopSize {
		t.Errorf("Ranks not assigned sequentially: first=%d, last=%d", ranked[0].Rank, ranked[TopSize-1].Rank)
	}
}

func TestRankStableOnEqualWealth(t *testing.T) {
	clients := []storages.BankClient{
		{ID: 1, Player: "first", Rus: 100},
		{ID: 2, Player: "second", Rus: 100},
		{ID: 3, Player: "third", Rus: 100},
	}

	ranked := Rank(clients)

	if ranked[0].Player != "first" || ranked[1].Player != "second" || ranked[2].Player != "third" {
		t.Errorf("Equal wealth must preserve input order, got %s, %s, %s",
			ranked[0].Player, ranked[1].Player, ranked[2].Player)
	}
}

func TestRankFillsDefaultJob(t *testing.T) {
	ranked := Rank([]storages.BankClient{{ID: 1, Player: "x", Rus: 1}})

	if ranked[0].Job != DefaultJob {
		t.Errorf("Expected default job %q, got %q", DefaultJob, ranked[0].Job)
	}
}

func TestDeriveTotals(t *testing.T) {
	now := time.Date(2026, 8, 31, 12, 0, 0, 0, time.UTC)
	history := []storages.WithdrawRequest{
		{Amount: 100, CurrencyType: storages.CurrencyCoin, Status: storages.StatusApproved, CreatedAt: now},
		{Amount: 50, CurrencyType: storages.CurrencyCoin, Status: storages.StatusApproved, CreatedAt: now.AddDate(0, 0, -1)},
		{Amount: 200, CurrencyType: storages.CurrencyRus, Status: storages.StatusApproved, CreatedAt: now},
		{Amount: 30, CurrencyType: storages.CurrencyCoin, Status: storages.StatusDenied, CreatedAt: now},
		{Amount: 40, CurrencyType: storages.CurrencyCoin, Status: storages.StatusPending, CreatedAt: now},
	}

	totals := DeriveTotals(history, now)

	if totals.ApprovedCoins != 150 {
		t.Errorf("Expected approved coins 150, got %f", totals.ApprovedCoins)
	}
	if totals.ApprovedRus != 200 {
		t.Errorf("Expected approved rus 200, got %f", totals.ApprovedRus)
	}
	if totals.PendingCount != 1 {
		t.Errorf("Expected 1 pending, got %d", totals.PendingCount)
	}
	if totals.FinishedCount != 4 {
		t.Errorf("Expected 4 finished, got %d", totals.FinishedCount)
	}
}

func TestDeriveTotalsSeriesLength(t *testing.T) {
	now := time.Date(2026, 8, 31, 23, 59, 0, 0, time.UTC)
	totals := DeriveTotals(nil, now)

	if len(totals.CoinSeries) != SeriesDays {
		t.Fatalf("Expected %d coin series points, got %d", SeriesDays, len(totals.CoinSeries))
	}
	if len(totals.RusSeries) != SeriesDays {
		t.Fatalf("Expected %d rus series points, got %d", SeriesDays, len(totals.RusSeries))
	}

	// Ряд заканчивается сегодняшним днем
	last := totals.CoinSeries[SeriesDays-1]
	if last.Date != "31/08" {
		t.Errorf("Expected last point 31/08, got %s", last.Date)
	}
	for _, p := range totals.CoinSeries {
		if p.Value != 0 {
			t.Errorf("Expected zero value for empty history, got %f on %s", p.Value, p.Date)
		}
	}
}

func TestDeriveTotalsOrderIndependent(t *testing.T) {
	now := time.Date(2026, 8, 31, 12, 0, 0, 0, time.UTC)
	history := []storages.WithdrawRequest{
		{Amount: 10, CurrencyType: storages.CurrencyCoin, Status: storages.StatusApproved, CreatedAt: now.AddDate(0, 0, -3)},
		{Amount: 20, CurrencyType: storages.CurrencyCoin, Status: storages.StatusApproved, CreatedAt: now},
		{Amount: 30, CurrencyType: storages.CurrencyRus, Status: storages.StatusApproved, CreatedAt: now.AddDate(0, 0, -7)},
	}
	reversed := []storages.WithdrawRequest{history[2], history[1], history[0]}

	a := DeriveTotals(history, now)
	b := DeriveTotals(reversed, now)

	if a.ApprovedCoins != b.ApprovedCoins || a.ApprovedRus != b.ApprovedRus {
		t.Error("Totals must not depend on history order")
	}
	for i := range a.CoinSeries {
		if a.CoinSeries[i] != b.CoinSeries[i] {
			t.Errorf("Series point %d differs between orderings", i)
		}
	}
}

func TestWealthBars(t *testing.T) {
	clients := make([]storages.BankClient, 12)
	for i := range clients {
		clients[i] = storages.BankClient{
			ID:     int64(i + 1),
			Player: fmt.Sprintf("verylongname%d", i),
			Rus:    float64(100 - i),
		}
	}

	bars := WealthBars(Rank(clients))

	if len(bars) != 10 {
		t.Fatalf("Expected 10 bars, got %d", len(bars))
	}
	for _, b := range bars {
		if len(b.Name) > 8 {
			t.Errorf("Bar name %q exceeds 8 characters", b.Name)
		}
	}
}

func TestWealthBarsEmptyName(t *testing.T) {
	bars := WealthBars(Rank([]storages.BankClient{{ID: 1, Rus: 5}}))

	if bars[0].Name != "User" {
		t.Errorf("Expected placeholder name User, got %q", bars[0].Name)
	}
}

func TestConcentrate(t *testing.T) {
	clients := make([]storages.BankClient, 8)
	for i := range clients {
		clients[i] = storages.BankClient{
			ID:     int64(i + 1),
			Player: fmt.Sprintf("p%d", i),
			Rus:    float64(80 - i*10), // 80, 70, ..., 10
		}
	}

	conc := Concentrate(Rank(clients))

	if len(conc.Slices) != 3 {
		t.Fatalf("Expected 3 slices, got %d", len(conc.Slices))
	}
	if conc.Slices[0].Value != 80 {
		t.Errorf("Expected top1 slice 80, got %f", conc.Slices[0].Value)
	}
	if conc.Slices[1].Value != 70+60+50+40 {
		t.Errorf("Expected elite slice 220, got %f", conc.Slices[1].Value)
	}
	if conc.Slices[2].Value != 30+20+10 {
		t.Errorf("Expected others slice 60, got %f", conc.Slices[2].Value)
	}
	if conc.TotalPool != 360 {
		t.Errorf("Expected total pool 360, got %f", conc.TotalPool)
	}
}

func TestConcentrateEmpty(t *testing.T) {
	conc := Concentrate(nil)

	if conc.TotalPool != 0 {
		t.Errorf("Expected zero pool, got %f", conc.TotalPool)
	}
	if len(conc.Slices) != 3 {
		t.Fatalf("Expected 3 slices even for empty leaderboard, got %d", len(conc.Slices))
	}
}
