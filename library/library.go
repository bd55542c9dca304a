// Package library maps whitespace-separated class-name token sets to
// decoded sprites.
//
// The library description is a nested mapping of token to either an encoded
// sprite string, a deeper mapping, or a post-processing command (alias,
// filtered alias, or composite declaration). Lookups are order independent:
// the tree is descended one matching token per level, with a configurable
// "normal" token as the fallback branch at every level.
package library

import (
	"encoding/json"
	"fmt"
	"io"
	"sort"
	"strings"

	"badc0de.net/pkg/go-retro/sprite"
)

// Settings configures an Index.
type Settings struct {
	// Codec decodes the library's literal sprite strings. Required.
	Codec *sprite.Codec

	// Description is the raw nested mapping. Required.
	Description map[string]interface{}

	// Normal is the fallback token; empty selects "normal".
	Normal string

	// Strict makes construction fail unless every branch of the tree
	// carries the normal token at every level.
	Strict bool
}

// Index is the class-hierarchy-aware sprite lookup structure.
type Index struct {
	codec  *sprite.Codec
	normal string
	root   *node
	cache  map[string]sprite.Decoded
}

// node is one level of the token tree. Leaves hold a decoded sprite;
// interior nodes hold children. raw retains the encoded string of literal
// leaves so filter commands can re-decode them.
type node struct {
	children map[string]*node
	sprite   sprite.Decoded
	raw      string
}

// NewIndex parses the description, decodes every literal sprite string, and
// then resolves post-processing commands in a second pass (commands may
// reference paths processed later in traversal order).
func NewIndex(s Settings) (*Index, error) {
	if s.Codec == nil {
		return nil, fmt.Errorf("library: an index requires a codec")
	}
	if s.Description == nil {
		return nil, fmt.Errorf("library: an index requires a description")
	}
	normal := s.Normal
	if normal == "" {
		normal = "normal"
	}
	x := &Index{
		codec:  s.Codec,
		normal: normal,
		cache:  map[string]sprite.Decoded{},
	}

	var pending []deferredCommand
	root, err := x.parseLevel(s.Description, nil, &pending)
	if err != nil {
		return nil, err
	}
	x.root = root

	byPath := make(map[string]*deferredCommand, len(pending))
	for i := range pending {
		byPath[strings.Join(pending[i].path, " ")] = &pending[i]
	}
	for i := range pending {
		if err := x.resolveCommand(pending[i], byPath, map[string]bool{}); err != nil {
			return nil, err
		}
	}

	if s.Strict {
		if err := x.validateStrict(x.root, nil); err != nil {
			return nil, err
		}
	}
	return x, nil
}

// LoadDescription reads a JSON library description.
func LoadDescription(r io.Reader) (map[string]interface{}, error) {
	var out map[string]interface{}
	if err := json.NewDecoder(r).Decode(&out); err != nil {
		return nil, fmt.Errorf("library: could not parse description json: %v", err)
	}
	return out, nil
}

// Lookup finds the most specific decoded sprite for a whitespace-separated,
// order-independent token set. Results are cached under both the raw and
// the normalized key.
func (x *Index) Lookup(key string) (sprite.Decoded, error) {
	if dec, ok := x.cache[key]; ok {
		return dec, nil
	}
	norm := normalizeKey(key)
	if dec, ok := x.cache[norm]; ok {
		x.cache[key] = dec
		return dec, nil
	}

	n := x.follow(x.root, strings.Fields(key))
	if n == nil || n.sprite == nil {
		return nil, fmt.Errorf("library: no sprite for key %q", key)
	}
	x.cache[key] = n.sprite
	x.cache[norm] = n.sprite
	return n.sprite, nil
}

// follow descends the tree, consuming one matching token per level. When no
// remaining token matches, the normal branch is taken without consuming;
// when that does not exist either, the deepest node reached is returned.
func (x *Index) follow(n *node, tokens []string) *node {
	if len(n.children) == 0 {
		return n
	}
	for i, tok := range tokens {
		if child, ok := n.children[tok]; ok {
			rest := make([]string, 0, len(tokens)-1)
			rest = append(rest, tokens[:i]...)
			rest = append(rest, tokens[i+1:]...)
			return x.follow(child, rest)
		}
	}
	if child, ok := n.children[x.normal]; ok {
		return x.follow(child, tokens)
	}
	return n
}

// Names returns the top-level tokens of the tree, sorted. Debug tooling
// and the web index page use it to enumerate the library.
func (x *Index) Names() []string {
	out := make([]string, 0, len(x.root.children))
	for tok := range x.root.children {
		out = append(out, tok)
	}
	sort.Strings(out)
	return out
}

func normalizeKey(key string) string {
	tokens := strings.Fields(key)
	sort.Strings(tokens)
	return strings.Join(tokens, " ")
}

// validateStrict checks that every interior node has a normal branch.
func (x *Index) validateStrict(n *node, path []string) error {
	if len(n.children) == 0 {
		return nil
	}
	if _, ok := n.children[x.normal]; !ok {
		return fmt.Errorf("library: strict mode: level %q misses the %q token", strings.Join(path, " "), x.normal)
	}
	for tok, child := range n.children {
		if err := x.validateStrict(child, append(path, tok)); err != nil {
			return err
		}
	}
	return nil
}
