package emotion

import "testing"

func TestLabelValid(t *testing.T) {
	for _, l := range Labels {
		if !l.Valid() {
			t.Fatalf("expected %s to be valid", l)
		}
	}
	if Label("bored").Valid() {
		t.Fatal("expected unknown label to be invalid")
	}
}

func TestPeakPrefersEarlierLabelOnTie(t *testing.T) {
	d := NewDistribution()
	d[Angry] = 3
	d[Surprised] = 3

	if got := d.Peak(); got != Angry {
		t.Fatalf("expected angry (earlier in enumeration order), got %s", got)
	}
}

func TestPeakAllZeroYieldsNeutral(t *testing.T) {
	if got := NewDistribution().Peak(); got != Neutral {
		t.Fatalf("expected neutral, got %s", got)
	}
}

func TestCloneIsIndependent(t *testing.T) {
	d := NewDistribution()
	d[Happy] = 1

	clone := d.Clone()
	clone[Happy] = 99

	if d[Happy] != 1 {
		t.Fatalf("clone mutated the original: got %d", d[Happy])
	}
}
