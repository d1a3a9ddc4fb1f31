package tile_test

import (
	"errors"
	"testing"

	"github.com/eak1mov/go-tilemask/tile"
	"github.com/google/go-cmp/cmp"
	"github.com/paulmach/orb/maptile"
)

func TestValid(t *testing.T) {
	for _, tc := range []struct {
		tileID tile.ID
		want   bool
	}{
		{tile.ID{X: 0, Y: 0, Z: 0}, true},
		{tile.ID{X: 1, Y: 0, Z: 0}, false},
		{tile.ID{X: 3, Y: 3, Z: 2}, true},
		{tile.ID{X: 4, Y: 0, Z: 2}, false},
		{tile.ID{X: 1<<31 - 1, Y: 0, Z: 31}, true},
		{tile.ID{X: 0, Y: 0, Z: 32}, false},
	} {
		if got := tc.tileID.Valid(); got != tc.want {
			t.Errorf("%v.Valid() = %v, want = %v", tc.tileID, got, tc.want)
		}
	}
}

func TestChildrenParent(t *testing.T) {
	for z := range 6 {
		for x := range 1 << z {
			for y := range 1 << z {
				tileID := tile.ID{X: uint32(x), Y: uint32(y), Z: uint32(z)}
				for q, child := range tileID.Children() {
					if diff := cmp.Diff(tileID, child.Parent()); diff != "" {
						t.Errorf("%v.Parent() mismatch (-want+got):\n%v", child, diff)
					}
					if got := child.QuadrantAt(tileID.Z); got != q {
						t.Errorf("%v.QuadrantAt(%v) = %v, want = %v", child, tileID.Z, got, q)
					}
					if !tileID.Contains(child) || child.Contains(tileID) {
						t.Errorf("%v.Contains(%v) mismatch", tileID, child)
					}
				}
			}
		}
	}
}

func TestQuadrantOrder(t *testing.T) {
	root := tile.ID{}
	want := [4]tile.ID{
		{X: 0, Y: 0, Z: 1},
		{X: 1, Y: 0, Z: 1},
		{X: 0, Y: 1, Z: 1},
		{X: 1, Y: 1, Z: 1},
	}
	if diff := cmp.Diff(want, root.Children()); diff != "" {
		t.Errorf("Children() mismatch (-want+got):\n%v", diff)
	}
}

func TestAncestor(t *testing.T) {
	tileID := tile.ID{X: 13, Y: 6, Z: 4}
	if diff := cmp.Diff(tile.ID{X: 3, Y: 1, Z: 2}, tileID.Ancestor(2)); diff != "" {
		t.Errorf("Ancestor(2) mismatch (-want+got):\n%v", diff)
	}
	if diff := cmp.Diff(tileID, tileID.Ancestor(4)); diff != "" {
		t.Errorf("Ancestor(4) mismatch (-want+got):\n%v", diff)
	}
	if got := tileID.QuadrantAt(0); got != 1 {
		t.Errorf("QuadrantAt(0) = %v, want = 1", got)
	}
	if got := tileID.QuadrantAt(3); got != 1 {
		t.Errorf("QuadrantAt(3) = %v, want = 1", got)
	}
}

func TestMapTile(t *testing.T) {
	tileID := tile.ID{X: 5, Y: 9, Z: 4}
	if got, want := tileID.MapTile(), maptile.New(5, 9, 4); got != want {
		t.Errorf("MapTile() = %v, want = %v", got, want)
	}
	if got, want := tileID.Bound(), maptile.New(5, 9, 4).Bound(); got != want {
		t.Errorf("Bound() = %v, want = %v", got, want)
	}
}

type sliceVisitor []tile.ID

func (s sliceVisitor) VisitTileIDs(visitor func(tile.ID) error) error {
	for _, tileID := range s {
		if err := visitor(tileID); err != nil {
			return err
		}
	}
	return nil
}

func TestCollectIDs(t *testing.T) {
	ids := sliceVisitor{{X: 0, Y: 0, Z: 0}, {X: 1, Y: 1, Z: 1}, {X: 2, Y: 3, Z: 2}}

	collected, err := tile.CollectIDs(ids)
	if err != nil {
		t.Fatalf("CollectIDs failed: %v", err)
	}
	if diff := cmp.Diff([]tile.ID(ids), collected); diff != "" {
		t.Errorf("CollectIDs mismatch (-want+got):\n%v", diff)
	}

	errStop := errors.New("stop")
	_, err = tile.CollectIDs(failingVisitor{errStop})
	if !errors.Is(err, errStop) {
		t.Errorf("CollectIDs error = %v, want = %v", err, errStop)
	}
}

type failingVisitor struct {
	err error
}

func (v failingVisitor) VisitTileIDs(visitor func(tile.ID) error) error {
	if err := visitor(tile.ID{}); err != nil {
		return err
	}
	return v.err
}
