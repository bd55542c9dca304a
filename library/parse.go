package library

// This file contains the description parser and the deferred resolution of
// post-processing commands ("same", "filter", "multiple").

import (
	"fmt"
	"strings"

	"github.com/golang/glog"
	"github.com/pkg/errors"

	"badc0de.net/pkg/go-retro/sprite"
)

// deferredCommand is a command tuple found during traversal, remembered
// with its path and resolved only after every literal has been decoded.
type deferredCommand struct {
	path []string
	args []interface{}
}

// parseLevel builds one tree level. Literal strings are decoded
// immediately; nested mappings recurse; command tuples are queued.
func (x *Index) parseLevel(desc map[string]interface{}, path []string, pending *[]deferredCommand) (*node, error) {
	n := &node{children: map[string]*node{}}
	for token, value := range desc {
		childPath := append(append([]string{}, path...), token)
		switch v := value.(type) {
		case string:
			key := strings.Join(childPath, " ")
			spr, err := x.codec.Decode(key, v, nil)
			if err != nil {
				return nil, errors.Wrapf(err, "decoding %q", key)
			}
			n.children[token] = &node{sprite: spr, raw: v}
		case map[string]interface{}:
			child, err := x.parseLevel(v, childPath, pending)
			if err != nil {
				return nil, err
			}
			n.children[token] = child
		case []interface{}:
			n.children[token] = &node{}
			*pending = append(*pending, deferredCommand{path: childPath, args: v})
		default:
			glog.Warningf("library: entry %q has unsupported type %T; skipping", strings.Join(childPath, " "), value)
		}
	}
	return n, nil
}

// nodeAt follows a path of literal tokens through the tree.
func (x *Index) nodeAt(path []string) *node {
	n := x.root
	for _, tok := range path {
		child, ok := n.children[tok]
		if !ok {
			return nil
		}
		n = child
	}
	return n
}

// resolveCommand fills in the node a command tuple was found at. byPath
// locates forward-referenced commands; visiting guards against alias
// cycles.
func (x *Index) resolveCommand(cmd deferredCommand, byPath map[string]*deferredCommand, visiting map[string]bool) error {
	pathKey := strings.Join(cmd.path, " ")
	if visiting[pathKey] {
		return fmt.Errorf("library: alias cycle through %q", pathKey)
	}
	visiting[pathKey] = true
	defer delete(visiting, pathKey)

	target := x.nodeAt(cmd.path)
	if target == nil {
		return fmt.Errorf("library: lost node for command at %q", pathKey)
	}
	if target.sprite != nil || len(target.children) > 0 {
		return nil // already resolved through another alias
	}

	if len(cmd.args) == 0 {
		glog.Warningf("library: empty command at %q; skipping", pathKey)
		return nil
	}
	name, ok := cmd.args[0].(string)
	if !ok {
		glog.Warningf("library: command at %q does not start with a string; skipping", pathKey)
		return nil
	}

	switch name {
	case "same":
		return x.resolveSame(cmd, target, byPath, visiting)
	case "filter":
		return x.resolveFilter(cmd, target)
	case "multiple":
		return x.resolveMultiple(cmd, target)
	default:
		glog.Warningf("library: unknown command %q at %q; skipping", name, pathKey)
		return nil
	}
}

// resolveSame aliases another path. The referenced path may itself be an
// unresolved command, in which case it is resolved first.
func (x *Index) resolveSame(cmd deferredCommand, target *node, byPath map[string]*deferredCommand, visiting map[string]bool) error {
	pathKey := strings.Join(cmd.path, " ")
	if len(cmd.args) < 2 {
		glog.Warningf("library: same command at %q misses its path; skipping", pathKey)
		return nil
	}
	refPath, err := tokenList(cmd.args[1])
	if err != nil {
		glog.Warningf("library: same command at %q: %v; skipping", pathKey, err)
		return nil
	}
	ref := x.nodeAt(refPath)
	if ref == nil {
		glog.Warningf("library: same command at %q references nonexistent %q; skipping", pathKey, strings.Join(refPath, " "))
		return nil
	}
	if ref.sprite == nil && len(ref.children) == 0 {
		// Forward reference to a command processed later: resolve it now.
		forward, ok := byPath[strings.Join(refPath, " ")]
		if !ok {
			glog.Warningf("library: same command at %q references empty %q; skipping", pathKey, strings.Join(refPath, " "))
			return nil
		}
		if err := x.resolveCommand(*forward, byPath, visiting); err != nil {
			return err
		}
	}
	target.sprite = ref.sprite
	target.raw = ref.raw
	target.children = ref.children
	return nil
}

// resolveFilter aliases another path with a named filter applied to the
// encoded string(s) found there. A subtree target is cloned with the filter
// applied to every literal leaf.
func (x *Index) resolveFilter(cmd deferredCommand, target *node) error {
	pathKey := strings.Join(cmd.path, " ")
	if len(cmd.args) < 3 {
		glog.Warningf("library: filter command at %q misses arguments; skipping", pathKey)
		return nil
	}
	refPath, err := tokenList(cmd.args[1])
	if err != nil {
		glog.Warningf("library: filter command at %q: %v; skipping", pathKey, err)
		return nil
	}
	filterName, ok := cmd.args[2].(string)
	if !ok {
		glog.Warningf("library: filter command at %q has a non-string filter name; skipping", pathKey)
		return nil
	}
	ref := x.nodeAt(refPath)
	if ref == nil {
		glog.Warningf("library: filter command at %q references nonexistent %q; skipping", pathKey, strings.Join(refPath, " "))
		return nil
	}
	clone, err := x.cloneFiltered(ref, cmd.path, filterName)
	if err != nil {
		return err
	}
	target.sprite = clone.sprite
	target.raw = clone.raw
	target.children = clone.children
	return nil
}

func (x *Index) cloneFiltered(src *node, path []string, filterName string) (*node, error) {
	out := &node{raw: src.raw}
	if src.raw != "" {
		key := strings.Join(path, " ")
		spr, err := x.codec.Decode(key, src.raw, &sprite.DecodeAttrs{FilterName: filterName})
		if err != nil {
			return nil, errors.Wrapf(err, "filter-decoding %q", key)
		}
		out.sprite = spr
	}
	if len(src.children) > 0 {
		out.children = make(map[string]*node, len(src.children))
		for tok, child := range src.children {
			cloned, err := x.cloneFiltered(child, append(append([]string{}, path...), tok), filterName)
			if err != nil {
				return nil, err
			}
			out.children[tok] = cloned
		}
	}
	return out, nil
}

// resolveMultiple builds a composite sprite from a direction tag and a part
// mapping.
func (x *Index) resolveMultiple(cmd deferredCommand, target *node) error {
	pathKey := strings.Join(cmd.path, " ")
	if len(cmd.args) < 3 {
		glog.Warningf("library: multiple command at %q misses arguments; skipping", pathKey)
		return nil
	}
	dir, ok := cmd.args[1].(string)
	if !ok {
		glog.Warningf("library: multiple command at %q has a non-string direction; skipping", pathKey)
		return nil
	}
	switch sprite.Direction(dir) {
	case sprite.DirVertical, sprite.DirHorizontal, sprite.DirCorners:
	default:
		glog.Warningf("library: multiple command at %q has unknown direction %q; skipping", pathKey, dir)
		return nil
	}
	spec, ok := cmd.args[2].(map[string]interface{})
	if !ok {
		glog.Warningf("library: multiple command at %q has no part mapping; skipping", pathKey)
		return nil
	}

	m := &sprite.Multiple{
		Direction: sprite.Direction(dir),
		Sprites:   map[string]*sprite.Sprite{},
	}
	for key, value := range spec {
		switch key {
		case "topheight":
			m.TopHeight = toInt(value)
		case "rightwidth":
			m.RightWidth = toInt(value)
		case "bottomheight":
			m.BottomHeight = toInt(value)
		case "leftwidth":
			m.LeftWidth = toInt(value)
		case "middleStretch":
			b, _ := value.(bool)
			m.MiddleStretch = b
		default:
			enc, ok := value.(string)
			if !ok {
				glog.Warningf("library: multiple command at %q: part %q is not a string; skipping part", pathKey, key)
				continue
			}
			spr, err := x.codec.Decode(pathKey+" "+key, enc, nil)
			if err != nil {
				return errors.Wrapf(err, "decoding part %q of %q", key, pathKey)
			}
			m.Sprites[key] = spr
		}
	}
	target.sprite = m
	return nil
}

// tokenList accepts either a []string or a JSON-decoded []interface{} of
// strings.
func tokenList(v interface{}) ([]string, error) {
	switch list := v.(type) {
	case []string:
		return list, nil
	case []interface{}:
		out := make([]string, len(list))
		for i, e := range list {
			s, ok := e.(string)
			if !ok {
				return nil, fmt.Errorf("path element %d is %T, not a string", i, e)
			}
			out[i] = s
		}
		return out, nil
	default:
		return nil, fmt.Errorf("path is %T, not a list", v)
	}
}

func toInt(v interface{}) int {
	switch n := v.(type) {
	case int:
		return n
	case float64:
		return int(n)
	default:
		return 0
	}
}
