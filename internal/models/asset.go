package models

import "fmt"

// Asset — one entry of the dashboard menu.
type Asset struct {
	Name   string   `yaml:"name" json:"name"`
	Symbol string   `yaml:"symbol" json:"symbol"`
	MinTP  *float64 `yaml:"min_tp,omitempty" json:"min_tp,omitempty"` // override of the rule minimum distance, price units
}

// Registry — immutable ordered list of assets.
// Build it with NewRegistry; the zero value is an empty registry.
type Registry struct {
	assets   []Asset
	byName   map[string]int
	bySymbol map[string]int
}

func NewRegistry(assets []Asset) (*Registry, error) {
	r := &Registry{
		assets:   make([]Asset, 0, len(assets)),
		byName:   make(map[string]int, len(assets)),
		bySymbol: make(map[string]int, len(assets)),
	}
	for _, a := range assets {
		if a.Name == "" || a.Symbol == "" {
			return nil, fmt.Errorf("asset %q: name and symbol are required", a.Name)
		}
		if _, dup := r.byName[a.Name]; dup {
			return nil, fmt.Errorf("asset %q: duplicate name", a.Name)
		}
		if a.MinTP != nil {
			v := *a.MinTP
			a.MinTP = &v
		}
		r.byName[a.Name] = len(r.assets)
		if _, seen := r.bySymbol[a.Symbol]; !seen {
			r.bySymbol[a.Symbol] = len(r.assets)
		}
		r.assets = append(r.assets, a)
	}
	return r, nil
}

// Assets returns a copy of the assets in menu order.
func (r *Registry) Assets() []Asset {
	if r == nil {
		return nil
	}
	out := make([]Asset, len(r.assets))
	copy(out, r.assets)
	return out
}

func (r *Registry) Names() []string {
	if r == nil {
		return nil
	}
	out := make([]string, len(r.assets))
	for i, a := range r.assets {
		out[i] = a.Name
	}
	return out
}

func (r *Registry) Len() int {
	if r == nil {
		return 0
	}
	return len(r.assets)
}

// Symbol resolves a display name.
func (r *Registry) Symbol(name string) (string, bool) {
	if r == nil {
		return "", false
	}
	i, ok := r.byName[name]
	if !ok {
		return "", false
	}
	return r.assets[i].Symbol, true
}

// MinDistance returns the configured minimum distance for the symbol,
// or def when the symbol has no override.
func (r *Registry) MinDistance(symbol string, def float64) float64 {
	if r == nil {
		return def
	}
	i, ok := r.bySymbol[symbol]
	if !ok || r.assets[i].MinTP == nil {
		return def
	}
	return *r.assets[i].MinTP
}

func f(v float64) *float64 { return &v }

// DefaultAssets — instruments shipped with the dashboard.
func DefaultAssets() []Asset {
	return []Asset{
		{Name: "Gold (XAU/USD)", Symbol: "XAU_USD", MinTP: f(10.0)},
		{Name: "USA Tech 100", Symbol: "NAS100_USD", MinTP: f(10.0)},
		{Name: "USA 30", Symbol: "US30_USD", MinTP: f(10.0)},
		{Name: "Germany 40", Symbol: "GER40_EUR", MinTP: f(5.0)},
		{Name: "UK 100", Symbol: "UK100_GBP", MinTP: f(5.0)},
		{Name: "EU 50", Symbol: "EU50_EUR", MinTP: f(5.0)},
		{Name: "GBP/USD", Symbol: "GBP_USD", MinTP: f(0.0020)},
		{Name: "EUR/USD", Symbol: "EUR_USD", MinTP: f(0.0020)},
		{Name: "USD/JPY", Symbol: "USD_JPY", MinTP: f(0.15)},
		{Name: "USD/CHF", Symbol: "USD_CHF", MinTP: f(0.0020)},
		{Name: "AUD/USD", Symbol: "AUD_USD", MinTP: f(0.0020)},
		{Name: "NZD/USD", Symbol: "NZD_USD", MinTP: f(0.0020)},
	}
}
