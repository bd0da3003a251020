package advisor

import (
	"fmt"
	"strings"
	"time"

	"acionista/internal/domain"
)

const investingPhilosophy = `You are a fundamental-analysis advisor for Brazilian (B3) stocks. Your role is to interpret the screening results, portfolio data and dividend history you are given, NOT to invent market data.

Method:
- The user follows a buy-and-hold strategy driven by fundamentals: price near the 52-week low, low leverage, double-digit ROE/ROIC, consistent dividend payers.
- Sells are triggered by stop loss, deteriorating fundamentals or overextension above the 52-week high. When both buy and sell cases exist, the sell case wins ties.
- A very high trailing yield is usually a collapsed price, not a generous payer. Flag possible dividend traps.

Rules:
- Always reference the specific numbers in the context when making observations.
- Never fabricate data. If data is unavailable, say so.
- Express uncertainty when criteria conflict.
- Keep responses concise and actionable. You are talking via Telegram.
- Do not provide financial advice disclaimers on every message. The user understands this is informational.
- When asked about a stock, summarize: whether it is held, its payout record, and your interpretation.
- If a ticker has no data in the context, say so honestly rather than speculating.`

func BuildSystemPrompt(portfolioContext string) string {
	var sb strings.Builder
	sb.WriteString(investingPhilosophy)
	sb.WriteString("\n\n--- PORTFOLIO DATA (as of ")
	sb.WriteString(time.Now().UTC().Format(time.RFC822))
	sb.WriteString(") ---\n")
	sb.WriteString(portfolioContext)
	return sb.String()
}

func FormatPortfolioContext(positions []domain.Position, histories []domain.DividendHistory) string {
	var sb strings.Builder

	if len(positions) > 0 {
		sb.WriteString("\nCurrent Holdings:\n")
		for _, p := range positions {
			sb.WriteString(fmt.Sprintf("  %s: %d shares, avg cost R$ %.2f\n",
				p.Ticker, p.Quantity, p.AverageCost))
		}
	}

	if len(histories) > 0 {
		sb.WriteString("\nDividend History:\n")
		for _, h := range histories {
			consistency := "inconsistent payer"
			if h.Consistent5Y {
				consistency = "5+ years paying"
			}
			sb.WriteString(fmt.Sprintf("  %s: %d paying years (%s), 3y avg yield %.2f%%, trailing R$ %.2f/share\n",
				h.Ticker, h.YearsPaying, consistency, h.AvgYield3YPct, h.TrailingPerShare))
		}
	}

	if sb.Len() == 0 {
		return "No portfolio data currently available."
	}
	return sb.String()
}
