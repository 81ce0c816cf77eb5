package edit

import (
	"bytes"
	"fmt"
	"sort"
)

// Apply folds intents into content. All offsets address the original
// content; at one offset the output order is InsertLeft texts (in queue
// order), then InsertRight texts (in queue order), then whatever survives a
// Remove starting there. Overlapping removes or out-of-range offsets are an
// error: the caller is responsible for emitting non-conflicting intents.
func Apply(content []byte, intents []Intent) ([]byte, error) {
	if len(intents) == 0 {
		return content, nil
	}

	type group struct {
		offset    uint32
		left      []Intent
		right     []Intent
		removeLen uint32
	}

	groups := make(map[uint32]*group)
	offsets := make([]uint32, 0)
	for _, in := range intents {
		if int(in.Offset) > len(content) {
			return nil, fmt.Errorf("edit offset %d out of range (content %d bytes)", in.Offset, len(content))
		}
		g, ok := groups[in.Offset]
		if !ok {
			g = &group{offset: in.Offset}
			groups[in.Offset] = g
			offsets = append(offsets, in.Offset)
		}
		switch in.Kind {
		case InsertLeft:
			g.left = append(g.left, in)
		case InsertRight:
			g.right = append(g.right, in)
		case Remove:
			if int(in.Offset+in.Length) > len(content) {
				return nil, fmt.Errorf("remove %d+%d out of range", in.Offset, in.Length)
			}
			if in.Length > g.removeLen {
				g.removeLen = in.Length
			}
		}
	}
	sort.Slice(offsets, func(i, j int) bool { return offsets[i] < offsets[j] })

	var out bytes.Buffer
	out.Grow(len(content) + len(intents)*16)

	pos := uint32(0)
	for _, off := range offsets {
		g := groups[off]
		if off < pos {
			return nil, fmt.Errorf("edit at offset %d overlaps an earlier removal", off)
		}
		out.Write(content[pos:off])

		sort.SliceStable(g.left, func(i, j int) bool { return g.left[i].seq < g.left[j].seq })
		sort.SliceStable(g.right, func(i, j int) bool { return g.right[i].seq < g.right[j].seq })
		for _, in := range g.left {
			out.WriteString(in.Text)
		}
		for _, in := range g.right {
			out.WriteString(in.Text)
		}
		pos = off + g.removeLen
	}
	out.Write(content[pos:])
	return out.Bytes(), nil
}
