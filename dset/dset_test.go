package dset_test

import (
	"testing"

	"github.com/graphia-go/graphon/dset"
	"github.com/graphia-go/graphon/handle"
	"github.com/graphia-go/graphon/harray"
)

func newCollection(t *testing.T, n int) (*dset.Collection[handle.Node], *harray.Registry) {
	t.Helper()
	reg := harray.NewRegistry()
	reg.GrowTo(n)
	return dset.NewCollection[handle.Node](reg), reg
}

func h(i int) handle.NodeHandle { return handle.NodeHandle(i) }

func requireType(t *testing.T, c *dset.Collection[handle.Node], elem handle.NodeHandle, want dset.Type) {
	t.Helper()
	got, err := c.TypeOf(elem)
	if err != nil {
		t.Fatalf("TypeOf(%v): %v", elem, err)
	}
	if got != want {
		t.Fatalf("TypeOf(%v) = %v, want %v", elem, got, want)
	}
}

func TestUntouchedHandleIsNot(t *testing.T) {
	c, _ := newCollection(t, 4)
	requireType(t, c, h(0), dset.Not)
}

func TestAddSingletonPlusSingleton(t *testing.T) {
	c, _ := newCollection(t, 4)

	setID, err := c.Add(handle.ID[handle.Node](handle.Null), h(2))
	if err != nil {
		t.Fatalf("Add(Null, 2): %v", err)
	}
	if setID != h(2) {
		t.Fatalf("Add(Null, 2) = %v, want 2", setID)
	}
	requireType(t, c, h(2), dset.Not)

	newHead, err := c.Add(h(2), h(0))
	if err != nil {
		t.Fatalf("Add(2, 0): %v", err)
	}
	if newHead != h(0) {
		t.Fatalf("Add(2, 0) = %v, want 0 (min of the two heads)", newHead)
	}
	requireType(t, c, h(0), dset.Head)
	requireType(t, c, h(2), dset.Tail)

	members, err := c.Members(newHead)
	if err != nil {
		t.Fatalf("Members: %v", err)
	}
	if len(members) != 2 || members[0] != h(0) || members[1] != h(2) {
		t.Fatalf("Members(%v) = %v, want [0 2]", newHead, members)
	}
}

func TestAddSingletonPlusList(t *testing.T) {
	c, _ := newCollection(t, 6)

	head, _ := c.Add(handle.ID[handle.Node](handle.Null), h(1))
	head, _ = c.Add(head, h(3))
	head, _ = c.Add(head, h(5))
	requireType(t, c, h(1), dset.Head)
	requireType(t, c, h(3), dset.Tail)
	requireType(t, c, h(5), dset.Tail)

	head, err := c.Add(head, h(0))
	if err != nil {
		t.Fatalf("Add(head, 0): %v", err)
	}
	if head != h(0) {
		t.Fatalf("head after adding smaller element = %v, want 0", head)
	}
	members, _ := c.Members(head)
	want := []handle.NodeHandle{h(0), h(1), h(3), h(5)}
	if !sliceEq(members, want) {
		t.Fatalf("Members = %v, want %v", members, want)
	}
}

func TestAddListPlusList(t *testing.T) {
	c, _ := newCollection(t, 8)

	left, _ := c.Add(handle.ID[handle.Node](handle.Null), h(0))
	left, _ = c.Add(left, h(1))

	right, _ := c.Add(handle.ID[handle.Node](handle.Null), h(4))
	right, _ = c.Add(right, h(5))

	merged, err := c.Add(left, right)
	if err != nil {
		t.Fatalf("Add(left, right): %v", err)
	}
	if merged != h(0) {
		t.Fatalf("merged head = %v, want 0", merged)
	}
	members, _ := c.Members(merged)
	want := []handle.NodeHandle{h(0), h(1), h(4), h(5)}
	if !sliceEq(members, want) {
		t.Fatalf("Members = %v, want %v", members, want)
	}
	requireType(t, c, h(1), dset.Tail)
	requireType(t, c, h(4), dset.Tail)
	requireType(t, c, h(5), dset.Tail)
}

func TestRemoveSingleton(t *testing.T) {
	c, _ := newCollection(t, 2)
	head, _ := c.Add(handle.ID[handle.Node](handle.Null), h(0))

	newHead, err := c.Remove(head, h(0))
	if err != nil {
		t.Fatalf("Remove: %v", err)
	}
	if !newHead.IsNull() {
		t.Fatalf("Remove(singleton) = %v, want null", newHead)
	}
	requireType(t, c, h(0), dset.Not)
}

func TestRemoveTwoElementListHead(t *testing.T) {
	c, _ := newCollection(t, 2)
	head, _ := c.Add(handle.ID[handle.Node](handle.Null), h(0))
	head, _ = c.Add(head, h(1))

	survivor, err := c.Remove(head, h(0))
	if err != nil {
		t.Fatalf("Remove: %v", err)
	}
	if survivor != h(1) {
		t.Fatalf("survivor = %v, want 1", survivor)
	}
	requireType(t, c, h(1), dset.Not)
}

func TestRemoveTwoElementListTail(t *testing.T) {
	c, _ := newCollection(t, 2)
	head, _ := c.Add(handle.ID[handle.Node](handle.Null), h(0))
	head, _ = c.Add(head, h(1))

	survivor, err := c.Remove(head, h(1))
	if err != nil {
		t.Fatalf("Remove: %v", err)
	}
	if survivor != h(0) {
		t.Fatalf("survivor = %v, want 0", survivor)
	}
	requireType(t, c, h(0), dset.Not)
}

func TestRemoveHeadOfLongerList(t *testing.T) {
	c, _ := newCollection(t, 4)
	head, _ := c.Add(handle.ID[handle.Node](handle.Null), h(0))
	head, _ = c.Add(head, h(1))
	head, _ = c.Add(head, h(2))

	newHead, err := c.Remove(head, h(0))
	if err != nil {
		t.Fatalf("Remove: %v", err)
	}
	if newHead != h(1) {
		t.Fatalf("newHead = %v, want 1", newHead)
	}
	members, _ := c.Members(newHead)
	if !sliceEq(members, []handle.NodeHandle{h(1), h(2)}) {
		t.Fatalf("Members = %v", members)
	}
}

func TestRemoveTailOfLongerList(t *testing.T) {
	c, _ := newCollection(t, 4)
	head, _ := c.Add(handle.ID[handle.Node](handle.Null), h(0))
	head, _ = c.Add(head, h(1))
	head, _ = c.Add(head, h(2))

	newHead, err := c.Remove(head, h(2))
	if err != nil {
		t.Fatalf("Remove: %v", err)
	}
	if newHead != h(0) {
		t.Fatalf("newHead = %v, want 0 (unchanged)", newHead)
	}
	members, _ := c.Members(newHead)
	if !sliceEq(members, []handle.NodeHandle{h(0), h(1)}) {
		t.Fatalf("Members = %v", members)
	}
}

func TestRemoveMiddleElement(t *testing.T) {
	c, _ := newCollection(t, 5)
	head, _ := c.Add(handle.ID[handle.Node](handle.Null), h(0))
	head, _ = c.Add(head, h(1))
	head, _ = c.Add(head, h(2))
	head, _ = c.Add(head, h(3))

	got, err := c.Remove(head, h(1))
	if err != nil {
		t.Fatalf("Remove: %v", err)
	}
	if got != head {
		t.Fatalf("Remove(middle) = %v, want unchanged head %v", got, head)
	}
	members, _ := c.Members(head)
	if !sliceEq(members, []handle.NodeHandle{h(0), h(2), h(3)}) {
		t.Fatalf("Members = %v", members)
	}
	requireType(t, c, h(1), dset.Not)
}

func TestRemoveAbsentIsError(t *testing.T) {
	c, _ := newCollection(t, 2)
	if _, err := c.Remove(handle.ID[handle.Node](handle.Null), h(0)); err != dset.ErrNotAMember {
		t.Fatalf("Remove(absent) err = %v, want ErrNotAMember", err)
	}
}

func TestAddTailOperandIsRejected(t *testing.T) {
	c, _ := newCollection(t, 4)
	head, _ := c.Add(handle.ID[handle.Node](handle.Null), h(0))
	head, _ = c.Add(head, h(1))

	if _, err := c.Add(h(1), h(2)); err != dset.ErrNotAHead {
		t.Fatalf("Add using a Tail as a set name err = %v, want ErrNotAHead", err)
	}
	_ = head
}

func sliceEq(a, b []handle.NodeHandle) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
