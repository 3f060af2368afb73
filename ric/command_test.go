package ric

import "testing"

func TestCommandVariantsImplementTarget(t *testing.T) {
	cmds := []Command{
		NewBaseCommand(3),
		NewLte2LteHandoverCommand(3, 42, 7),
	}
	for _, c := range cmds {
		if c.Target() != 3 {
			t.Errorf("%T: Target() = %d, want 3", c, c.Target())
		}
		if c.String() == "" {
			t.Errorf("%T: String() is empty", c)
		}
	}
}

func TestLte2LteHandoverCommandFields(t *testing.T) {
	c := NewLte2LteHandoverCommand(1, 100, 200)
	if c.TargetCellID != 100 || c.TargetRNTI != 200 {
		t.Fatalf("unexpected fields: %+v", c)
	}
}
