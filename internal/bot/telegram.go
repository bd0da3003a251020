package bot

import (
	"context"
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"acionista/internal/advisor"
	"acionista/internal/domain"
	"acionista/internal/ledger"
	"acionista/internal/service"

	tele "gopkg.in/telebot.v3"
)

func StartTelegramBot(
	analysisService *service.AnalysisService,
	dividendService *service.DividendService,
	advisorService *advisor.AdvisorService,
) {
	token := os.Getenv("TELEGRAM_BOT_TOKEN")
	if token == "" {
		log.Println("TELEGRAM_BOT_TOKEN not set, skipping Telegram bot startup")
		return
	}
	pref := tele.Settings{
		Token:  token,
		Poller: &tele.LongPoller{Timeout: 10 * time.Second},
	}
	b, err := tele.NewBot(pref)
	if err != nil {
		log.Fatalf("failed to create Telegram bot: %v", err)
	}

	b.Handle("/ping", func(c tele.Context) error {
		return c.Send("pong")
	})

	b.Handle("/analise", func(c tele.Context) error {
		args := c.Args()
		if len(args) == 0 {
			return c.Send("Usage: /analise 1000\nInforme o caixa disponível em reais.")
		}
		cash, err := strconv.ParseFloat(args[0], 64)
		if err != nil || cash < 0 {
			return c.Send(fmt.Sprintf("Valor inválido: %s", args[0]))
		}
		report, err := analysisService.Run(context.Background(), cash)
		if err != nil {
			return c.Send(fmt.Sprintf("Erro na análise: %v", err))
		}
		return c.Send(FormatReport(report))
	})

	b.Handle("/carteira", func(c tele.Context) error {
		positions, err := analysisService.Positions(context.Background())
		if err != nil {
			return c.Send(fmt.Sprintf("Erro ao ler a carteira: %v", err))
		}
		return c.Send(FormatPositions(positions))
	})

	b.Handle("/proventos", func(c tele.Context) error {
		args := c.Args()
		if len(args) == 0 {
			return c.Send("Usage: /proventos TAEE11")
		}
		ticker := ledger.NormalizeTicker(args[0])
		history, err := dividendService.History(context.Background(), ticker)
		if err != nil {
			return c.Send(fmt.Sprintf("Erro ao buscar proventos de %s: %v", ticker, err))
		}
		return c.Send(FormatDividendHistory(history))
	})

	b.Handle("/porque", func(c tele.Context) error {
		if advisorService == nil {
			return c.Send("Advisor indisponível: OPENAI_API_KEY não configurada.")
		}
		args := c.Args()
		if len(args) == 0 {
			return c.Send("Usage: /porque PETR4")
		}
		ticker := ledger.NormalizeTicker(args[0])
		question := fmt.Sprintf("Por que %s aparece (ou não) nas recomendações atuais? Explique os critérios relevantes.", ticker)
		reply, err := advisorService.Ask(context.Background(), c.Chat().ID, question)
		if err != nil {
			return c.Send(fmt.Sprintf("Erro: %v", err))
		}
		return c.Send(reply)
	})

	b.Handle("/conselho", func(c tele.Context) error {
		if advisorService == nil {
			return c.Send("Advisor indisponível: OPENAI_API_KEY não configurada.")
		}
		question := strings.TrimSpace(strings.Join(c.Args(), " "))
		if question == "" {
			return c.Send("Usage: /conselho devo vender PETR4?")
		}
		reply, err := advisorService.Ask(context.Background(), c.Chat().ID, question)
		if err != nil {
			return c.Send(fmt.Sprintf("Erro: %v", err))
		}
		return c.Send(reply)
	})

	log.Println("Telegram bot started")
	go b.Start()
}

// FormatReport renders a report as plain Telegram text.
func FormatReport(r domain.Report) string {
	var sb strings.Builder

	sb.WriteString("Vendas recomendadas:\n")
	if len(r.Sells) == 0 {
		sb.WriteString("  nenhuma\n")
	}
	for _, rec := range r.Sells {
		sb.WriteString(fmt.Sprintf("  %s: %d a R$ %.2f (%s) resultado R$ %.2f\n",
			rec.Ticker, rec.Quantity, rec.SuggestedPrice, strings.Join(rec.Reasons, "; "), rec.ExpectedResult))
	}

	sb.WriteString("\nCompras recomendadas:\n")
	if len(r.Buys) == 0 {
		sb.WriteString("  nenhuma\n")
	}
	for _, rec := range r.Buys {
		sb.WriteString(fmt.Sprintf("  %s: %d a R$ %.2f (%s) alocado R$ %.2f\n",
			rec.Ticker, rec.Quantity, rec.SuggestedPrice, strings.Join(rec.Reasons, "; "), rec.Allocated))
	}

	sb.WriteString(fmt.Sprintf("\nVendido no mês: R$ %.2f | Restante até o limite: R$ %.2f",
		r.SoldThisMonth, r.RemainingToSell))
	return sb.String()
}

// FormatPositions renders current holdings as plain Telegram text.
func FormatPositions(positions []domain.Position) string {
	if len(positions) == 0 {
		return "Carteira vazia."
	}
	var sb strings.Builder
	sb.WriteString("Carteira:\n")
	for _, p := range positions {
		sb.WriteString(fmt.Sprintf("  %s: %d ações, preço médio R$ %.2f\n",
			p.Ticker, p.Quantity, p.AverageCost))
	}
	return sb.String()
}

// FormatDividendHistory renders a payout record as plain Telegram text.
func FormatDividendHistory(h domain.DividendHistory) string {
	consistency := "não"
	if h.Consistent5Y {
		consistency = "sim"
	}
	return fmt.Sprintf(
		"%s\nAnos pagando: %d\nConsistente 5+ anos: %s\nDY médio 3 anos: %.2f%%\nÚltimos 12 meses: R$ %.2f/ação",
		h.Ticker, h.YearsPaying, consistency, h.AvgYield3YPct, h.TrailingPerShare,
	)
}
