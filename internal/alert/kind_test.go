package alert

import "testing"

func TestKindOfCaseInsensitive(t *testing.T) {
	if KindOf("Deposit") != KindDeposit {
		t.Fatalf("Deposit not matched")
	}
	if KindOf("reallocateWITHDRAW") != KindReallocateWithdraw {
		t.Fatalf("mixed-case name not matched")
	}
	if KindOf("SomeFutureEvent") != KindUnknown {
		t.Fatalf("expected unknown kind")
	}
}

func TestSuppressedKinds(t *testing.T) {
	suppressed := []string{"AccrueInterest", "AccrueFee", "Transfer", "Approval", "CreateMetaMorpho", "UpdateLastTotalAssets"}
	for _, name := range suppressed {
		if !KindOf(name).Suppressed() {
			t.Fatalf("%s should be suppressed", name)
		}
	}

	for _, name := range []string{"Deposit", "SetCap", "ReallocateSupply", "Skim"} {
		if KindOf(name).Suppressed() {
			t.Fatalf("%s should not be suppressed", name)
		}
	}
}

func TestReallocationKinds(t *testing.T) {
	if !KindOf("ReallocateSupply").Reallocation() || !KindOf("ReallocateWithdraw").Reallocation() {
		t.Fatalf("reallocation kinds not detected")
	}
	if KindOf("Deposit").Reallocation() {
		t.Fatalf("deposit is not a reallocation")
	}
}
