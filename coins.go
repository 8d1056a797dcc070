package main

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

type CoinTable struct {
	Reference   Asset
	Comparisons []Asset
}

type coinsFile struct {
	Reference   Asset   `yaml:"reference"`
	Comparisons []Asset `yaml:"comparisons"`
}

func DefaultCoinTable() CoinTable {
	return CoinTable{
		Reference: Asset{ID: "kujira", Label: "KUJIRA"},
		Comparisons: []Asset{
			{ID: "terra-luna", Label: "LUNC", Text: "Remember the good old days in TERRA? That was KUJIRA's first home, and oh boy, what a journey it has been! Sure, we all felt the heartache during TERRA's fall. But don’t you worry, the spirit and community that made TERRA so great didn’t vanish – it just moved house to KUJIRA! Here, we’re not just reminiscing the good times; we’re creating new ones, stronger  than ever."},
			{ID: "injective-protocol", Label: "INJECTIVE", Text: "INJECTIVE and KUJIRA, both shining stars in the COSMOS ecosystem, but let's be honest, when it comes to being the heart of DeFi, KUJIRA takes the crown. INJECTIVE's doing a great job, no doubt. But KUJIRA it's the grand central station of DeFi within COSMOS ecosystem."},
			{ID: "osmosis", Label: "OSMOSIS", Text: "OSMOSIS might have its charm with all that 'expanding universe' vibe, but let's face it, it's a bit too inflationary for our taste. Meanwhile, KUJIRA is over here offering real yield, no inflationary tricks, just real 'hodl' and chill. Why inflate when you can appreciate? With KUJIRA, it's not just growth; it's sustainable, real growth – the kind that doesn't just vanish into thin air!"},
			{ID: "cosmos", Label: "ATOM", Text: "ATOM, ah, the beloved patriarch of the COSMOS ecosystem, will always hold a special place in our crypto-hearts. But let's face it, too much... drama. Less drama, more development – that's the KUJIRA way. Here, the only drama you'll find is the excitement of innovation."},
		},
	}
}

// LoadCoinTable reads a coins.yaml. A missing file yields the built-in table.
func LoadCoinTable(path string) (CoinTable, bool, error) {
	b, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return DefaultCoinTable(), false, nil
	}
	if err != nil {
		return CoinTable{}, false, err
	}
	t, err := ParseCoinTable(b)
	return t, true, err
}

func ParseCoinTable(b []byte) (CoinTable, error) {
	var cf coinsFile
	if err := yaml.Unmarshal(b, &cf); err != nil {
		return CoinTable{}, err
	}

	ref, ok := normalizeAsset(cf.Reference)
	if !ok {
		return CoinTable{}, fmt.Errorf("reference asset needs id and label")
	}

	seen := make(map[string]struct{}, len(cf.Comparisons))
	out := make([]Asset, 0, len(cf.Comparisons))
	for _, it := range cf.Comparisons {
		a, ok := normalizeAsset(it)
		if !ok {
			continue
		}
		if a.ID == ref.ID {
			continue
		}
		if _, dup := seen[a.ID]; dup {
			continue
		}
		seen[a.ID] = struct{}{}
		out = append(out, a)
	}
	if len(out) == 0 {
		return CoinTable{}, fmt.Errorf("no comparison assets found")
	}
	return CoinTable{Reference: ref, Comparisons: out}, nil
}

func normalizeAsset(a Asset) (Asset, bool) {
	a.ID = strings.ToLower(strings.TrimSpace(a.ID))
	a.Label = strings.ToUpper(strings.TrimSpace(a.Label))
	a.Text = strings.TrimSpace(a.Text)
	if a.Label == "" {
		a.Label = strings.ToUpper(a.ID)
	}
	return a, a.ID != ""
}

// TextTable maps display labels to their descriptive text.
type TextTable map[string]string

func (t CoinTable) Texts() TextTable {
	tt := make(TextTable, len(t.Comparisons)+1)
	for _, a := range append([]Asset{t.Reference}, t.Comparisons...) {
		if a.Text != "" {
			tt[a.Label] = a.Text
		}
	}
	return tt
}

func (t TextTable) Lookup(label string) string {
	return t[label]
}
