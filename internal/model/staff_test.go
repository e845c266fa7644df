package model

import "testing"

func TestRoleHierarchyIsTotalOrder(t *testing.T) {
	t.Parallel()

	roles := StaffRolesByLevel()
	for i := 1; i < len(roles); i++ {
		if !roles[i-1].Outranks(roles[i]) {
			t.Errorf("expected %s to outrank %s", roles[i-1], roles[i])
		}
	}

	seen := make(map[int]StaffRole)
	for _, r := range roles {
		if prev, dup := seen[r.Level()]; dup {
			t.Errorf("duplicate level %d for %s and %s", r.Level(), prev, r)
		}
		seen[r.Level()] = r
	}
}

func TestNextPromotionAndDemotion(t *testing.T) {
	t.Parallel()

	if got := RoleParalegal.NextPromotion(); got != RoleJuniorAssociate {
		t.Errorf("expected Junior Associate, got %s", got)
	}
	if got := RoleManagingPartner.NextPromotion(); got != "" {
		t.Errorf("expected no promotion above Managing Partner, got %s", got)
	}
	if got := RoleJuniorAssociate.NextDemotion(); got != RoleParalegal {
		t.Errorf("expected Paralegal, got %s", got)
	}
	if got := RoleParalegal.NextDemotion(); got != "" {
		t.Errorf("expected no demotion below Paralegal, got %s", got)
	}
}

func TestRoleMaxCounts(t *testing.T) {
	t.Parallel()

	if got := RoleManagingPartner.MaxCount(); got != 1 {
		t.Errorf("expected Managing Partner limit 1, got %d", got)
	}
	if got := RoleJuniorAssociate.MaxCount(); got != 10 {
		t.Errorf("expected Junior Associate limit 10, got %d", got)
	}
	if got := StaffRole("Intern").MaxCount(); got != 0 {
		t.Errorf("expected unknown role to have no limit, got %d", got)
	}
}

func TestUnknownRoleIsBelowEveryRealRole(t *testing.T) {
	t.Parallel()

	unknown := StaffRole("Intern")
	if unknown.IsValid() {
		t.Error("expected Intern to be invalid")
	}
	for _, r := range StaffRolesByLevel() {
		if !r.Outranks(unknown) {
			t.Errorf("expected %s to outrank unknown role", r)
		}
	}
}

func TestFormatCaseNumber(t *testing.T) {
	t.Parallel()

	got := FormatCaseNumber(2026, 42, "bobthebuilder")
	want := "AA-2026-0042-bobthebuilder"
	if got != want {
		t.Errorf("expected %s, got %s", want, got)
	}
}
