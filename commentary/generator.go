// Package commentary turns listing performance data into narrative text,
// preferring a language model and degrading to a deterministic statistical
// digest when none is available.
package commentary

import (
	"context"
	"fmt"
	"strings"
	"time"

	"ipo-analytics/models"
	"ipo-analytics/observability"
	"ipo-analytics/pipeline"

	"github.com/shopspring/decimal"
)

// DefaultTimeframe labels commentary when the caller does not supply one.
const DefaultTimeframe = "Last 3 years"

// promptCountryLimit caps how many country rows feed the model prompt.
const promptCountryLimit = 10

const systemPrompt = "You are a financial analyst specializing in IPO markets. " +
	"Provide concise, insightful analysis of IPO performance data with clear " +
	"explanations of performance drivers and actionable takeaways."

// ModelProvider generates free text from a prompt pair.
type ModelProvider interface {
	InvokeWithPrompt(ctx context.Context, systemPrompt, userPrompt string) (string, error)
}

// Generator produces market commentary. A nil provider always falls back to
// the statistical summary.
type Generator struct {
	provider ModelProvider
	now      func() time.Time
}

// New creates a Generator. The provider may be nil.
func New(provider ModelProvider) *Generator {
	return &Generator{provider: provider, now: time.Now}
}

// Generate produces commentary for the given listings. Model failures are not
// errors: the fallback digest is returned instead, marked by its Source field.
func (g *Generator) Generate(ctx context.Context, records []models.ListingRecord, timeframe string) models.Commentary {
	if timeframe == "" {
		timeframe = DefaultTimeframe
	}

	if g.provider == nil || len(records) == 0 {
		return g.fallback(records, timeframe)
	}

	text, err := g.provider.InvokeWithPrompt(ctx, systemPrompt, g.buildPrompt(records, timeframe))
	if err != nil {
		observability.Warn("model commentary failed, using statistical fallback", "error", err)
		return g.fallback(records, timeframe)
	}

	return models.Commentary{
		Text:        strings.TrimSpace(text),
		Source:      models.CommentarySourceModel,
		Timeframe:   timeframe,
		GeneratedAt: g.now(),
	}
}

// buildPrompt renders country and sector rollups into the analysis request.
func (g *Generator) buildPrompt(records []models.ListingRecord, timeframe string) string {
	countryRows := pipeline.Aggregate(records, pipeline.GroupByCountry, pipeline.SortByMeanReturn)
	if len(countryRows) > promptCountryLimit {
		countryRows = countryRows[:promptCountryLimit]
	}
	sectorRows := pipeline.Aggregate(records, pipeline.GroupBySector, pipeline.SortByMeanReturn)

	var b strings.Builder
	fmt.Fprintf(&b, "Analyze the following IPO performance data.\n\nTIMEFRAME: %s\n\n", timeframe)

	b.WriteString("COUNTRY PERFORMANCE DATA:\n")
	writeRows(&b, countryRows)

	b.WriteString("\nSECTOR PERFORMANCE DATA:\n")
	writeRows(&b, sectorRows)

	b.WriteString(`
Please cover:
1. Regional performance patterns: the strongest and weakest countries and likely reasons.
2. Sector analysis: which sectors outperform or underperform and what drives it.
3. Market insights: economic conditions, sentiment, sector trends and geopolitical factors behind the patterns.
4. Investment implications for future IPO investors.
`)
	return b.String()
}

func writeRows(b *strings.Builder, rows []models.AggregateRow) {
	if len(rows) == 0 {
		b.WriteString("No data available\n")
		return
	}
	for _, row := range rows {
		pct, _ := row.MeanReturn.Mul(hundred).Float64()
		capB := float64(row.TotalMarketCap) / 1e9
		fmt.Fprintf(b, "- %s: %.1f%% avg performance, %d IPOs, $%.1fB total market cap\n",
			row.Key, pct, row.Count, capB)
	}
}

// fallback renders the deterministic statistical digest.
func (g *Generator) fallback(records []models.ListingRecord, timeframe string) models.Commentary {
	generated := models.Commentary{
		Source:      models.CommentarySourceFallback,
		Timeframe:   timeframe,
		GeneratedAt: g.now(),
	}

	if len(records) == 0 {
		generated.Text = "No data available for analysis."
		return generated
	}

	countryRows := pipeline.Aggregate(records, pipeline.GroupByCountry, pipeline.SortByMeanReturn)
	sectorRows := pipeline.Aggregate(records, pipeline.GroupBySector, pipeline.SortByMeanReturn)

	var b strings.Builder
	fmt.Fprintf(&b, "## IPO Market Analysis - %s\n\n", timeframe)
	fmt.Fprintf(&b, "**Market Overview:**\nAnalyzing %d IPOs with an average performance of %.1f%% since listing.\n\n",
		len(records), meanReturnPct(records))

	best, worst := countryRows[0], countryRows[len(countryRows)-1]
	fmt.Fprintf(&b, "**Regional Performance:**\n- Best performing country: %s leads with %.1f%% average returns\n- Underperforming country: %s shows %.1f%% average returns\n\n",
		best.Key, rowPct(best), worst.Key, rowPct(worst))

	bestSector, worstSector := sectorRows[0], sectorRows[len(sectorRows)-1]
	fmt.Fprintf(&b, "**Sector Analysis:**\n- Top sector: %s delivers %.1f%% average performance\n- Challenging sector: %s faces headwinds with %.1f%% returns\n",
		bestSector.Key, rowPct(bestSector), worstSector.Key, rowPct(worstSector))

	generated.Text = strings.TrimSpace(b.String())
	return generated
}

var hundred = decimal.NewFromInt(100)

func meanReturnPct(records []models.ListingRecord) float64 {
	sum := 0.0
	for _, rec := range records {
		f, _ := rec.ReturnSinceListing.Float64()
		sum += f
	}
	return sum / float64(len(records)) * 100
}

func rowPct(row models.AggregateRow) float64 {
	pct, _ := row.MeanReturn.Mul(hundred).Float64()
	return pct
}
