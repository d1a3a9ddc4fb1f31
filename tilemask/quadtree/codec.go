package quadtree

import (
	"errors"
	"fmt"
)

// ErrTruncated is returned when the bitstream ends in the middle of a node.
var ErrTruncated = errors.New("truncated tree bitstream")

// Encode serializes the tree in pre-order: one bit telling whether the
// node has children, followed either by the leaf's inside bit or by the
// four children in quadrant order. Bits are packed MSB first and the last
// byte is zero padded.
func Encode(t *Tree) []byte {
	w := bitWriter{}
	var encode func(idx int32)
	encode = func(idx int32) {
		node := t.nodes[idx]
		w.writeBit(!node.IsLeaf())
		if node.IsLeaf() {
			w.writeBit(node.Inside)
			return
		}
		for q := range 4 {
			encode(node.Child(q))
		}
	}
	encode(0)
	return w.bytes()
}

// Decode reconstructs a tree from its bitstream. Branching stops at
// maxZoom: subtrees encoded below it are consumed and collapsed into a
// leaf that is inside if any leaf of the dropped subtree was inside.
// Padding bits after the root's description are ignored.
func Decode(data []byte, maxZoom int) (*Tree, error) {
	d := decoder{
		r:       bitReader{data: data},
		maxZoom: ClampZoom(maxZoom),
		nodes:   make([]Node, 1, 64),
	}
	root, err := d.decode(0)
	if err != nil {
		return nil, err
	}
	d.nodes[0] = root
	return &Tree{nodes: d.nodes, maxZoom: d.maxZoom}, nil
}

type decoder struct {
	r       bitReader
	maxZoom uint32
	nodes   []Node
}

func (d *decoder) decode(zoom uint32) (Node, error) {
	branch, err := d.r.readBit()
	if err != nil {
		return Node{}, err
	}
	if !branch {
		inside, err := d.r.readBit()
		if err != nil {
			return Node{}, err
		}
		return Node{Inside: inside}, nil
	}

	if zoom >= d.maxZoom {
		inside, err := d.skipSubtrees(4)
		if err != nil {
			return Node{}, err
		}
		return Node{Inside: inside}, nil
	}

	first := int32(len(d.nodes))
	d.nodes = append(d.nodes, Node{}, Node{}, Node{}, Node{})

	inside := false
	for q := range 4 {
		child, err := d.decode(zoom + 1)
		if err != nil {
			return Node{}, err
		}
		d.nodes[first+int32(q)] = child
		inside = inside || child.Inside
	}
	return Node{Inside: inside, First: first}, nil
}

// skipSubtrees consumes count encoded subtrees without materializing them
// and reports whether any of their leaves is inside. The depth of such
// subtrees is bounded only by the input length, so no recursion here.
func (d *decoder) skipSubtrees(count int) (bool, error) {
	inside := false
	for pending := count; pending > 0; pending-- {
		branch, err := d.r.readBit()
		if err != nil {
			return false, err
		}
		if branch {
			pending += 4
			continue
		}
		leafInside, err := d.r.readBit()
		if err != nil {
			return false, err
		}
		inside = inside || leafInside
	}
	return inside, nil
}

type bitWriter struct {
	buf   []byte
	nbits int
}

func (w *bitWriter) writeBit(bit bool) {
	if w.nbits%8 == 0 {
		w.buf = append(w.buf, 0)
	}
	if bit {
		w.buf[len(w.buf)-1] |= 0x80 >> (w.nbits % 8)
	}
	w.nbits++
}

func (w *bitWriter) bytes() []byte {
	return w.buf
}

type bitReader struct {
	data []byte
	pos  int
}

func (r *bitReader) readBit() (bool, error) {
	if r.pos >= len(r.data)*8 {
		return false, fmt.Errorf("%w: at bit %d", ErrTruncated, r.pos)
	}
	bit := r.data[r.pos/8]&(0x80>>(r.pos%8)) != 0
	r.pos++
	return bit, nil
}
