package pose

import "testing"

func TestJointNamesRoundTrip(t *testing.T) {
	if len(Joints) != 9 {
		t.Fatalf("expected 9 joints, got %d", len(Joints))
	}
	for _, j := range Joints {
		got, ok := ParseJoint(j.String())
		if !ok || got != j {
			t.Errorf("ParseJoint(%q) = %v, %v", j.String(), got, ok)
		}
	}
	if _, ok := ParseJoint("tail"); ok {
		t.Error("ParseJoint should reject unknown names")
	}
	if Joint(42).String() != "joint(42)" {
		t.Errorf("unknown joint String() = %q", Joint(42).String())
	}
}

func TestDefaultBaseIsComplete(t *testing.T) {
	base := DefaultBase()
	for _, j := range Joints {
		if _, ok := base[j]; !ok {
			t.Errorf("DefaultBase() missing %s", j)
		}
	}
}

func TestLandmarkIndexCoversJoints(t *testing.T) {
	seen := make(map[int]bool)
	for _, j := range Joints {
		idx, ok := LandmarkIndex(j)
		if !ok {
			t.Errorf("%s has no landmark", j)
			continue
		}
		if idx < 0 || idx >= LandmarkCount || seen[idx] {
			t.Errorf("%s maps to bad or duplicate index %d", j, idx)
		}
		seen[idx] = true
	}
}
