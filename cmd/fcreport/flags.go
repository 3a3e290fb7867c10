package main

import (
	"fmt"
	"strings"

	"github.com/spf13/pflag"
)

type pair struct {
	key, value string
}

// pairsFlag collects repeated key=value flags in order.
type pairsFlag struct {
	pairs []pair
}

var _ pflag.Value = (*pairsFlag)(nil)

func (p *pairsFlag) String() string {
	parts := make([]string, len(p.pairs))
	for i, kv := range p.pairs {
		parts[i] = kv.key + "=" + kv.value
	}
	return strings.Join(parts, ",")
}

func (p *pairsFlag) Set(s string) error {
	key, value, ok := strings.Cut(s, "=")
	if !ok || strings.TrimSpace(key) == "" {
		return fmt.Errorf("expected key=value, got %q", s)
	}
	p.pairs = append(p.pairs, pair{key: strings.TrimSpace(key), value: value})
	return nil
}

func (p *pairsFlag) Type() string {
	return "key=value"
}
