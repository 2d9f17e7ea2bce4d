package models

import (
	"testing"
)

func TestFeedFormula_ProportionsBalanced(t *testing.T) {
	tests := []struct {
		name        string
		proportions []float64
		want        bool
	}{
		{
			name:        "Exactly 100",
			proportions: []float64{60, 30, 10},
			want:        true,
		},
		{
			name:        "Low edge of band",
			proportions: []float64{50, 49},
			want:        true,
		},
		{
			name:        "High edge of band",
			proportions: []float64{51, 50},
			want:        true,
		},
		{
			name:        "Just below band",
			proportions: []float64{50, 48.9},
			want:        false,
		},
		{
			name:        "Just above band",
			proportions: []float64{51, 50.1},
			want:        false,
		},
		{
			name:        "Way off",
			proportions: []float64{10, 20},
			want:        false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			formula := &FeedFormula{Name: "Test mix"}
			for _, p := range tt.proportions {
				formula.Components = append(formula.Components, FeedComponent{
					Name:       "Component",
					Proportion: p,
				})
			}

			if got := formula.ProportionsBalanced(1.0); got != tt.want {
				t.Errorf("ProportionsBalanced(1.0) sum=%v got %v, want %v",
					formula.ProportionSum(), got, tt.want)
			}
		})
	}
}

func TestInviteCode_BeforeSave_RejectsOwnerRole(t *testing.T) {
	code := &InviteCode{Code: "ABCD1234", Role: RoleOwner}
	if err := code.BeforeSave(nil); err == nil {
		t.Error("BeforeSave() accepted an owner-role invite code")
	}

	code.Role = RoleWorker
	if err := code.BeforeSave(nil); err != nil {
		t.Errorf("BeforeSave() rejected a worker-role invite code: %v", err)
	}
}

func TestValidRole(t *testing.T) {
	for _, role := range []string{RoleOwner, RoleManager, RoleWorker, RoleViewer} {
		if !ValidRole(role) {
			t.Errorf("ValidRole(%q) = false", role)
		}
	}
	if ValidRole("admin") {
		t.Error("ValidRole(admin) = true, want false")
	}
	if ValidRole("") {
		t.Error("ValidRole(empty) = true, want false")
	}
}
