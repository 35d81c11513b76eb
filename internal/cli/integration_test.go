package cli

import (
	"strings"
	"testing"

	"github.com/aidanlsb/setlist/internal/testutil"
)

func TestBinaryIntegration(t *testing.T) {
	if testing.Short() {
		t.Skip("builds the setlist binary")
	}

	t.Run("dry run reports change and exits 0", func(t *testing.T) {
		p := testutil.NewTestPlanner(t).Build()
		res := p.RunCLI("set", "--dry-run", "production", "cut the trailer").MustSucceed(t)
		if !res.DataBool("changed") || !res.DataBool("dry_run") {
			t.Fatalf("expected dry-run change, got %v", res.Data)
		}
		p.AssertUnchanged()
	})

	t.Run("update from piped stdin with no answers changes nothing", func(t *testing.T) {
		p := testutil.NewTestPlanner(t).WithContent(strings.Replace(
			testutil.SamplePlanner, "top_deliverables", "deliverables", 1,
		)).Build()
		res := p.RunCLIWithStdin("", "update").MustSucceed(t)
		if res.DataBool("changed") {
			t.Fatalf("expected no change, got %v", res.Data)
		}
		if !strings.Contains(res.Stderr, "No changes detected.") {
			t.Errorf("expected status on stderr in JSON mode, got %q", res.Stderr)
		}
		p.AssertUnchanged()
	})

	t.Run("missing block exits 1", func(t *testing.T) {
		p := testutil.NewTestPlanner(t).WithContent("[[blocks]]\ntitle = \"Other\"\ndescription = \"x\"\n").Build()
		p.RunCLI("set", "production", "x").MustFail(t, ErrBlockNotFound)
		p.AssertUnchanged()
	})

	t.Run("show", func(t *testing.T) {
		p := testutil.NewTestPlanner(t).Build()
		res := p.RunCLI("show").MustSucceed(t)
		if res.DataString("title_prefix") != "DAILY" {
			t.Fatalf("unexpected plan: %v", res.Data)
		}
	})
}
