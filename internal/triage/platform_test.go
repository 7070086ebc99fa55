package triage

import "testing"

func TestCyclePlatformWalksFullCycle(t *testing.T) {
	cur := Platform("")
	seen := map[Platform]bool{}
	for i := 0; i < len(Platforms()); i++ {
		cur = CyclePlatform(cur)
		if cur == "" {
			t.Fatalf("cycle returned to empty after %d steps, want %d", i+1, len(Platforms()))
		}
		if seen[cur] {
			t.Fatalf("platform %q repeated before the cycle closed", cur)
		}
		seen[cur] = true
	}
	if got := CyclePlatform(cur); got != "" {
		t.Errorf("CyclePlatform(%q) = %q, want empty (no filter)", cur, got)
	}
}

func TestCyclePlatformUnknownResetsToFirst(t *testing.T) {
	if got := CyclePlatform(Platform("betamax")); got != PlatformCommon {
		t.Errorf("CyclePlatform(unknown) = %q, want %q", got, PlatformCommon)
	}
}

func TestValidStatus(t *testing.T) {
	for _, s := range Statuses() {
		if !ValidStatus(s) {
			t.Errorf("ValidStatus(%q) = false, want true", s)
		}
	}
	if ValidStatus(Status("archived")) {
		t.Error(`ValidStatus("archived") = true, want false`)
	}
}
