// Package report оборачивает внешний генератор нарративных отчетов.
// Любой сбой внешнего вызова деградирует до фиксированного отчета:
// наружу ошибка не поднимается, но логируется для наблюдаемости.
package report

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/sirupsen/logrus"

	"brz-forbes-portal/internal/leaderboard"
)

// Report представляет нарративный экономический отчет
type Report struct {
	Summary         string `json:"summary"`
	TopTrend        string `json:"topTrend"`
	InequalityScore string `json:"inequalityScore"`
}

// Fallback возвращает фиксированный отчет, подставляемый при любом сбое
func Fallback() Report {
	return Report{
		Summary:         "A elite financeira de BRz RP mantém sua hegemonia com liquidez recorde, consolidando ativos bancários de alto escalão.",
		TopTrend:        "Estabilidade e Crescimento Patrimonial",
		InequalityScore: "Elite Altamente Capitalizada",
	}
}

// Config содержит настройки клиента генератора отчетов
type Config struct {
	BaseURL    string
	APIKey     string
	Model      string
	Timeout    time.Duration
	RetryCount int
	RetryWait  time.Duration
}

// Client клиент внешнего генератора отчетов (Gemini API)
type Client struct {
	http   *resty.Client
	apiKey string
	model  string
	logger *logrus.Logger
}

// NewClient создает клиент с ограниченным таймаутом и повторами с паузой
func NewClient(cfg Config, logger *logrus.Logger) *Client {
	httpClient := resty.New().
		SetBaseURL(cfg.BaseURL).
		SetTimeout(cfg.Timeout).
		SetRetryCount(cfg.RetryCount).
		SetRetryWaitTime(cfg.RetryWait)

	return &Client{
		http:   httpClient,
		apiKey: cfg.APIKey,
		model:  cfg.Model,
		logger: logger,
	}
}

// Формат запроса и ответа generateContent
type generatePart struct {
	Text string `json:"text"`
}

type generateContent struct {
	Parts []generatePart `json:"parts"`
}

type generateRequest struct {
	Contents         []generateContent `json:"contents"`
	GenerationConfig struct {
		ResponseMimeType string `json:"responseMimeType"`
	} `json:"generationConfig"`
}

type generateResponse struct {
	Candidates []struct {
		Content generateContent `json:"content"`
	} `json:"candidates"`
}

// Generate возвращает нарративный отчет по рейтингу. Пустой рейтинг,
// отсутствие ключа API и любой сбой удаленного вызова дают фиксированный
// отчет; в частично заполненном ответе дополняются только пустые поля.
func (c *Client) Generate(ctx context.Context, ranked []leaderboard.RankedClient) Report {
	if len(ranked) == 0 {
		return Fallback()
	}

	if c.apiKey == "" {
		c.logger.Debug("Report API key is not configured, using fallback report")
		return Fallback()
	}

	// Компактная сериализация пар {игрок, баланс}
	type pair struct {
		P string  `json:"p"`
		F float64 `json:"f"`
	}
	pairs := make([]pair, 0, len(ranked))
	for _, rc := range ranked {
		pairs = append(pairs, pair{P: rc.Player, F: rc.Wealth})
	}
	pairsJSON, err := json.Marshal(pairs)
	if err != nil {
		c.logger.Warnf("Failed to marshal ranking for report: %v", err)
		return Fallback()
	}

	prompt := fmt.Sprintf(
		"Analise economia BRz RP. Top %d: %s. Responda em JSON com summary, topTrend, inequalityScore.",
		len(pairs), pairsJSON,
	)

	reqBody := generateRequest{
		Contents: []generateContent{{Parts: []generatePart{{Text: prompt}}}},
	}
	reqBody.GenerationConfig.ResponseMimeType = "application/json"

	var respBody generateResponse
	resp, err := c.http.R().
		SetContext(ctx).
		SetHeader("x-goog-api-key", c.apiKey).
		SetBody(reqBody).
		SetResult(&respBody).
		Post("/v1beta/models/" + c.model + ":generateContent")

	if err != nil {
		c.logger.Warnf("Report generation request failed: %v", err)
		return Fallback()
	}

	if resp.IsError() {
		c.logger.Warnf("Report generation returned status %d", resp.StatusCode())
		return Fallback()
	}

	if len(respBody.Candidates) == 0 || len(respBody.Candidates[0].Content.Parts) == 0 {
		c.logger.Warn("Report generation returned empty candidates")
		return Fallback()
	}

	// Модель возвращает JSON-текст; непригодный ответ отбрасывается целиком,
	// отсутствующие поля дополняются по отдельности
	var parsed Report
	if err := json.Unmarshal([]byte(respBody.Candidates[0].Content.Parts[0].Text), &parsed); err != nil {
		c.logger.Warnf("Failed to parse generated report: %v", err)
		return Fallback()
	}

	fallback := Fallback()
	if parsed.Summary == "" {
		parsed.Summary = fallback.Summary
	}
	if parsed.TopTrend == "" {
		parsed.TopTrend = fallback.TopTrend
	}
	if parsed.InequalityScore == "" {
		parsed.InequalityScore = fallback.InequalityScore
	}

	return parsed
}
