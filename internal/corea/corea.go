// Package corea orchestrates Core A end-to-end (spec.md section 2's
// "Data flow — Core A"): alphabet compaction feeding an antichain-closed
// Aho-Corasick trie, the Ukkonen greedy sweep over it, and the shared
// chainer's final assembly. No suffix array is built for this core.
//
// Grounded on no single teacher file (eutils has no orchestration
// analogue for an automaton-driven algorithm); kept deliberately thin,
// delegating every decision to internal/alphabet, internal/actrie,
// internal/ukkonen and internal/chain, in the spirit of DESIGN.md's note
// that this package is original glue rather than an adapted teacher file.
package corea

import (
	"github.com/jkans/superstring-scs/internal/actrie"
	"github.com/jkans/superstring-scs/internal/alphabet"
	"github.com/jkans/superstring-scs/internal/chain"
	"github.com/jkans/superstring-scs/internal/ukkonen"
)

// Result is Core A's end-to-end output.
type Result struct {
	// Superstring is the assembled concatenation.
	Superstring []byte
	// Absorbed maps an input index that is not chained on its own
	// (because it is a proper substring of another input, or an exact
	// duplicate folded into an earlier index's emits list) to the input
	// index that covers it in Superstring.
	Absorbed map[int]int
}

// Run builds the automaton over strs (identified by their 0-based
// position) using sentinel as the byte that must not occur in any
// input, runs the Ukkonen sweep, and assembles every resulting chain in
// chain-start order.
func Run(strs [][]byte, sentinel byte) (Result, error) {
	table, err := alphabet.Build(strs, sentinel)
	if err != nil {
		return Result{}, err
	}

	trie := actrie.New(table.Sigma())
	codes := make([][]int16, len(strs))
	for i, s := range strs {
		codes[i] = table.Encode(s)
		trie.Insert(codes[i], i)
	}
	trie.Finalize()
	for i, c := range codes {
		trie.AbsorbSubstringsOf(c, i)
	}

	engine := ukkonen.Build(trie)
	chainer := chain.New(engine.NumStrings())
	engine.Run(chainer)

	var out []byte
	for _, chainLine := range chainer.Chains() {
		frag := chain.Assemble(chainLine, func(local int) []byte {
			return strs[engine.OriginalIndex(local)]
		}, chainer.Overlap)
		out = append(out, frag...)
	}

	absorbed := make(map[int]int)
	for i := range strs {
		s, ok := trie.StateForString(i)
		if !ok {
			absorbed[i] = trie.CoveringString(i)
		} else if rep := trie.Emits(s)[0]; rep != i {
			absorbed[i] = rep
		}
	}

	return Result{Superstring: out, Absorbed: absorbed}, nil
}
