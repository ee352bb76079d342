package container

import "testing"

func TestManyToManyFirstSeen(t *testing.T) {
	m := NewManyToMany[int, string]()

	firstL, firstR := m.Map(1, "a")
	if !firstL || !firstR {
		t.Fatalf("expected both first-seen on initial pair, got (%v,%v)", firstL, firstR)
	}

	firstL, firstR = m.Map(1, "b")
	if firstL || !firstR {
		t.Fatalf("expected only firstR on repeat left with a new right, got (%v,%v)", firstL, firstR)
	}

	if got := m.GetRs(1); len(got) != 2 {
		t.Fatalf("expected 2 rs for l=1, got %d", len(got))
	}
	if got := m.GetLs("a"); len(got) != 1 {
		t.Fatalf("expected 1 l for r=a, got %d", len(got))
	}
}

func TestOneToOneFat(t *testing.T) {
	o := NewOneToOneFat[int, string, string, int]()
	o.PutLeft(1, "one")
	o.PutRight("one", 1)

	if v, ok := o.ByLID(1); !ok || v != "one" {
		t.Fatalf("ByLID(1) = %q, %v", v, ok)
	}
	if v, ok := o.ByRID("one"); !ok || v != 1 {
		t.Fatalf("ByRID(one) = %v, %v", v, ok)
	}
}

func TestDiffSymmetric(t *testing.T) {
	d := NewDiff([]string{"a", "b", "c"}, []string{"b", "c", "d"})
	onlyLeft, onlyRight := d.Diff()

	if len(onlyLeft) != 1 || onlyLeft[0] != "a" {
		t.Fatalf("onlyLeft = %v, want [a]", onlyLeft)
	}
	if len(onlyRight) != 1 || onlyRight[0] != "d" {
		t.Fatalf("onlyRight = %v, want [d]", onlyRight)
	}
	if got := d.Keep(); len(got) != 2 {
		t.Fatalf("Keep() = %v, want 2 elements", got)
	}
}
