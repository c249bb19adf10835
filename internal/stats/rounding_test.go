package stats // nolint:testpackage

import "testing"

func TestRoundingPolicies(t *testing.T) {
	cases := []struct {
		policy                 RoundingPolicy
		input, expected        float64
	}{
		{RoundHalfStep, 4.67, 4.5},
		{RoundHalfStep, 4.75, 5},
		{RoundHalfStep, 4.5, 4.5},
		{RoundHalfStep, 3, 3},
		{RoundCeil, 4.67, 5},
		{RoundCeil, 4.01, 5},
		{RoundCeil, 4, 4},
	}

	for k, v := range cases {
		if actual := v.policy(v.input); actual != v.expected {
			t.Errorf("case #%d: expected %f got %f", k, v.expected, actual)
		}
	}
}

func TestPolicyByName(t *testing.T) {
	if PolicyByName("ceil")(4.1) != 5 {
		t.Error("expected the ceil policy")
	}

	for _, name := range []string{"half-step", "", "unknown"} {
		if PolicyByName(name)(4.67) != 4.5 {
			t.Errorf("expected the half-step policy for '%s'", name)
		}
	}
}
