package adapter

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"comex-portal/internal/core/logger"
	"comex-portal/internal/core/proxy"
	"comex-portal/internal/features/duties/ports"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/launcher"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// SenaeAdapter resolves ad-valorem rates by scraping SENAE's public tariff
// consultation page. The page is JS-rendered, so it goes through a headless
// browser rather than a plain HTTP call.
type SenaeAdapter struct {
	baseURL string
	proxy   proxy.Settings
	logger  *zap.Logger
}

// NewSenaeAdapter creates a new SenaeAdapter with the given consultation URL
// and proxy settings.
func NewSenaeAdapter(baseURL string, proxySettings proxy.Settings) *SenaeAdapter {
	return &SenaeAdapter{
		baseURL: baseURL,
		proxy:   proxySettings,
		logger:  logger.Get(),
	}
}

// senaeResponse represents the JSON the consultation page fetches for a
// subheading lookup.
type senaeResponse struct {
	Results []struct {
		Subheading  string `json:"subpartida"`
		Description string `json:"descripcion"`
		AdValorem   string `json:"advalorem"`
	} `json:"results"`
}

// GetAdValoremRate looks up the ad-valorem rate for a tariff subheading.
func (a *SenaeAdapter) GetAdValoremRate(ctx context.Context, hsCode string) (decimal.Decimal, error) {
	ctx, cancel := context.WithTimeout(ctx, 60*time.Second)
	defer cancel()

	pageURL := fmt.Sprintf(a.baseURL, hsCode)
	if !strings.Contains(a.baseURL, "%s") {
		pageURL = fmt.Sprintf("%s?subpartida=%s", a.baseURL, hsCode)
	}

	a.logger.Debug("Launching browser for tariff lookup",
		zap.String("hs_code", hsCode),
		zap.Bool("proxy_enabled", a.proxy.HasProxy()),
	)

	l := launcher.New().
		Context(ctx).
		Headless(true).
		NoSandbox(true)

	// Chromium cannot take proxy credentials on the command line. When the
	// upstream proxy needs auth, run a local forwarder and point the
	// browser at it.
	if a.proxy.HasProxy() {
		if a.proxy.Username != "" && a.proxy.Password != "" {
			fwd, err := proxy.NewForwardingProxy(a.proxy.FullURL())
			if err != nil {
				return decimal.Zero, fmt.Errorf("failed to create forwarding proxy: %w", err)
			}
			localAddr, err := fwd.Start(ctx)
			if err != nil {
				return decimal.Zero, fmt.Errorf("failed to start forwarding proxy: %w", err)
			}
			defer fwd.Stop()
			l = l.Proxy(localAddr)
		} else {
			l = l.Proxy(a.proxy.HostPort())
		}
	}

	u, err := l.Launch()
	if err != nil {
		return decimal.Zero, fmt.Errorf("failed to launch browser: %w", err)
	}

	browser := rod.New().Context(ctx).ControlURL(u)
	if err := browser.Connect(); err != nil {
		return decimal.Zero, fmt.Errorf("failed to connect to browser: %w", err)
	}
	defer browser.Close()

	page := browser.MustPage(pageURL)

	router := page.HijackRequests()
	defer router.MustStop()

	done := make(chan []byte)

	router.MustAdd("*/arancel/consulta*", func(ctx *rod.Hijack) {
		if err := ctx.LoadResponse(http.DefaultClient, true); err != nil {
			return
		}
		done <- []byte(ctx.Response.Body())
	})

	go router.Run()

	select {
	case body := <-done:
		var resp senaeResponse
		if err := json.Unmarshal(body, &resp); err != nil {
			return decimal.Zero, fmt.Errorf("failed to parse tariff response: %w", err)
		}
		return a.pickRate(resp, hsCode)

	case <-ctx.Done():
		return decimal.Zero, fmt.Errorf("timeout waiting for tariff response: %w", ctx.Err())
	}
}

// pickRate selects the exact subheading match and converts the percentage
// string ("20", "20.00" or "20%") to a fraction.
func (a *SenaeAdapter) pickRate(resp senaeResponse, hsCode string) (decimal.Decimal, error) {
	normalized := strings.ReplaceAll(hsCode, ".", "")

	for _, r := range resp.Results {
		if strings.ReplaceAll(r.Subheading, ".", "") != normalized {
			continue
		}

		raw := strings.TrimSuffix(strings.TrimSpace(r.AdValorem), "%")
		pct, err := decimal.NewFromString(raw)
		if err != nil {
			a.logger.Warn("Unparseable ad-valorem rate from SENAE",
				zap.String("hs_code", hsCode),
				zap.String("raw", r.AdValorem),
			)
			return decimal.Zero, fmt.Errorf("failed to parse ad-valorem rate %q: %w", r.AdValorem, err)
		}

		return pct.Div(decimal.NewFromInt(100)), nil
	}

	return decimal.Zero, ports.ErrTariffNotFound
}
