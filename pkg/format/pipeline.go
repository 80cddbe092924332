package format

import (
	"bytes"
	"context"
	"strconv"

	"github.com/yaklabco/gozx/pkg/hostfmt"
	"github.com/yaklabco/gozx/pkg/syntax"
)

// Placeholder token shape: a valid host-language identifier so the host
// pretty-printer accepts the skeleton. The patch phase scans for the
// sentinel, then digits, then the closing underscores.
const (
	placeholderSentinel = "__ZX_BLOCK_"
	placeholderSuffix   = "__"
)

func placeholder(i int) string {
	return placeholderSentinel + strconv.Itoa(i) + placeholderSuffix
}

// File formats a whole host file: every template block is replaced by a
// numbered placeholder, the skeleton goes through the host formatter, and
// each block is re-rendered at the indentation observed at its placeholder's
// final position and spliced back in.
//
// Host formatter failure is recoverable: the unformatted skeleton is patched
// instead, so markup is still canonicalized.
func File(ctx context.Context, content []byte, hf hostfmt.Formatter) ([]byte, error) {
	tree, err := syntax.ParseFile(content)
	if err != nil {
		return nil, err
	}

	blocks := syntax.Blocks(tree.Root)
	if len(blocks) == 0 {
		formatted, ferr := hf.Format(ctx, content)
		if ferr != nil {
			return append([]byte(nil), content...), nil
		}
		return formatted, nil
	}

	var skel bytes.Buffer
	skel.Grow(len(content))
	idx := 0
	for _, child := range tree.Root.Children() {
		if child.Kind == syntax.KindBlock {
			skel.WriteString(placeholder(idx))
			idx++
			continue
		}
		skel.WriteString(tree.Text(child))
	}

	skeleton := skel.Bytes()
	formatted, ferr := hf.Format(ctx, skeleton)
	if ferr != nil {
		formatted = skeleton
	}

	return patchBlocks(formatted, tree, blocks), nil
}

// patchBlocks splices re-rendered blocks back over their placeholders.
// Placeholders are consumed once each, in emission order; a token with any
// other index is host text that happens to spell one and passes through.
func patchBlocks(skeleton []byte, tree *syntax.Tree, blocks []*syntax.Node) []byte {
	var out bytes.Buffer
	out.Grow(len(skeleton))

	i := 0
	next := 0
	for i < len(skeleton) {
		j := bytes.Index(skeleton[i:], []byte(placeholderSentinel))
		if j < 0 {
			out.Write(skeleton[i:])
			break
		}
		j += i
		out.Write(skeleton[i:j])

		k := j + len(placeholderSentinel)
		numStart := k
		for k < len(skeleton) && skeleton[k] >= '0' && skeleton[k] <= '9' {
			k++
		}
		if k == numStart || !bytes.HasPrefix(skeleton[k:], []byte(placeholderSuffix)) {
			// Sentinel-looking text that is not one of our tokens.
			out.WriteString(placeholderSentinel)
			i = j + len(placeholderSentinel)
			continue
		}
		n, _ := strconv.Atoi(string(skeleton[numStart:k]))
		k += len(placeholderSuffix)
		if n != next || n >= len(blocks) {
			out.Write(skeleton[j:k])
			i = k
			continue
		}
		next++

		blockText := tree.Text(blocks[n])
		btree, err := syntax.ParseBlock([]byte(blockText))
		if err != nil {
			// Already parsed once; a failure here means the extracted text
			// was mangled, keep the original bytes.
			out.WriteString(blockText)
		} else {
			out.WriteString(renderBlockAt(btree, btree.Root, indentLevelAt(skeleton, j)))
		}
		i = k
	}
	return out.Bytes()
}

// indentLevelAt derives the indentation level from the whitespace between
// the start of the placeholder's line and the placeholder itself.
func indentLevelAt(b []byte, pos int) int {
	lineStart := pos
	for lineStart > 0 && b[lineStart-1] != '\n' {
		lineStart--
	}
	cols := 0
	for _, c := range b[lineStart:pos] {
		switch c {
		case ' ':
			cols++
		case '\t':
			cols += len(indentUnit)
		default:
			return cols / len(indentUnit)
		}
	}
	return cols / len(indentUnit)
}
