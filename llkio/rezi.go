// Package llkio persists a compiled grammar (a grammar.Grammar and its
// table.Table) to a byte stream. Spec §6 leaves the persisted format
// entirely to the caller ("any caller may serialize the Grammar and the
// prediction table for later reuse, but the format is not part of the
// specification"); this package is llk's own caller-owned choice, built on
// github.com/dekarrin/rezi the way server/dao/sqlite persists *game.State:
// rezi's reflection-based binary codec applied directly to a plain
// snapshot struct, length-framed, no hand-rolled encoding.
package llkio

import (
	"fmt"

	"github.com/dekarrin/llgen/grammar"
	"github.com/dekarrin/llgen/table"
	"github.com/dekarrin/rezi"
)

// FormatVersion is bumped whenever the snapshot shape below changes
// incompatibly. Save stamps every blob with it; Load refuses to decode a
// mismatched version rather than guessing.
const FormatVersion = 1

type symbolDTO struct {
	Kind    int // 0 = terminal, 1 = nonterminal, 2 = epsilon
	Term    int
	Nonterm int
}

type productionDTO struct {
	LHSKind int
	LHSName string
	Alts    [][]symbolDTO
}

type tableEntryDTO struct {
	Production int
	Key        []int
	Alt        int
}

// snapshot is the plain, exported-field-only shape rezi actually encodes.
// grammar.Grammar and table.Table keep their fields private (§5: callers
// interact with them only through accessors), so Save/Load translate to
// and from this DTO rather than handing rezi the live types directly.
type snapshot struct {
	Version     int
	K           int
	Start       int
	Terminals   []string
	Productions []productionDTO
	Entries     []tableEntryDTO
}

func toSymbolDTO(s grammar.Symbol) symbolDTO {
	switch {
	case s.IsTerminal():
		return symbolDTO{Kind: 0, Term: int(s.Terminal())}
	case s.IsNonterminal():
		return symbolDTO{Kind: 1, Nonterm: int(s.Nonterminal())}
	default:
		return symbolDTO{Kind: 2}
	}
}

func fromSymbolDTO(d symbolDTO) grammar.Symbol {
	switch d.Kind {
	case 0:
		return grammar.Term(grammar.TerminalID(d.Term))
	case 1:
		return grammar.NonTerm(grammar.ProdIndex(d.Nonterm))
	default:
		return grammar.Eps
	}
}

// Save encodes g's compiled form (g itself plus the prediction table built
// from it) as a versioned rezi blob.
func Save(g *grammar.Grammar, tbl *table.Table) ([]byte, error) {
	snap := snapshot{
		Version:   FormatVersion,
		K:         g.K(),
		Start:     int(g.Start()),
		Terminals: append([]string(nil), g.Terminals()...),
	}

	for p := 0; p < g.NumProductions(); p++ {
		prod := g.Production(grammar.ProdIndex(p))
		pd := productionDTO{
			LHSKind: int(prod.LHS.Kind),
			LHSName: prod.LHS.Name,
		}
		for _, alt := range prod.Alternations {
			var symbols []symbolDTO
			for _, s := range alt {
				symbols = append(symbols, toSymbolDTO(s))
			}
			pd.Alts = append(pd.Alts, symbols)
		}
		snap.Productions = append(snap.Productions, pd)

		for _, u := range tbl.Keys(grammar.ProdIndex(p)) {
			alt, ok := tbl.Lookup(grammar.ProdIndex(p), u)
			if !ok {
				// Keys and Lookup are drawn from the same table; this would
				// mean Table's own invariant broke.
				return nil, fmt.Errorf("llkio: table reported key %v for production %d with no matching entry", u, p)
			}
			ints := make([]int, len(u))
			for i, t := range u {
				ints[i] = int(t)
			}
			snap.Entries = append(snap.Entries, tableEntryDTO{Production: p, Key: ints, Alt: alt})
		}
	}

	return rezi.EncBinary(&snap), nil
}

// Load decodes a blob produced by Save back into a Grammar and a Table.
// The returned Table is rebuilt with table.FromEntries from the decoded
// entries rather than from Table's own field layout, since Table (like
// Grammar) keeps its storage private.
func Load(data []byte) (*grammar.Grammar, *table.Table, error) {
	var snap snapshot
	n, err := rezi.DecBinary(data, &snap)
	if err != nil {
		return nil, nil, fmt.Errorf("llkio: rezi decode: %w", err)
	}
	if n != len(data) {
		return nil, nil, fmt.Errorf("llkio: decoded %d/%d bytes, trailing data", n, len(data))
	}
	if snap.Version != FormatVersion {
		return nil, nil, fmt.Errorf("llkio: unsupported format version %d (want %d)", snap.Version, FormatVersion)
	}

	productions := make([]*grammar.Production, len(snap.Productions))
	for i, pd := range snap.Productions {
		var alts []grammar.Alternation
		for _, symbols := range pd.Alts {
			alt := make(grammar.Alternation, len(symbols))
			for j, sd := range symbols {
				alt[j] = fromSymbolDTO(sd)
			}
			alts = append(alts, alt)
		}
		productions[i] = &grammar.Production{
			LHS:          grammar.LHS{Kind: grammar.LHSKind(pd.LHSKind), Name: pd.LHSName},
			Alternations: alts,
			Index:        grammar.ProdIndex(i),
		}
	}

	g := grammar.Assemble(snap.K, grammar.ProdIndex(snap.Start), snap.Terminals, productions)

	entries := make([]table.RawEntry, len(snap.Entries))
	for i, ed := range snap.Entries {
		key := make(grammar.KString, len(ed.Key))
		for j, t := range ed.Key {
			key[j] = grammar.TerminalID(t)
		}
		entries[i] = table.RawEntry{Production: grammar.ProdIndex(ed.Production), Key: key, Alt: ed.Alt}
	}

	tbl, err := table.FromEntries(g, entries)
	if err != nil {
		return nil, nil, fmt.Errorf("llkio: rebuilding table: %w", err)
	}

	return g, tbl, nil
}
