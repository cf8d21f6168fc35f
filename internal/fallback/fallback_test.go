package fallback

import (
	"context"
	"strings"
	"testing"

	"github.com/diffscope/diffscope/internal/model"
	"github.com/diffscope/diffscope/internal/structdiff"
)

const sampleDiff = `diff --git a/src/auth.js b/src/auth.js
index 123..456
--- a/src/auth.js
+++ b/src/auth.js
@@ -1,6 +1,10 @@
-function login(username) {
-  return check(username)
+async function login(username, rememberMe = false) {
+  if (rememberMe) {
+    persist(username)
+  }
+  return fetch('/api/login')
 }
+const logout = () => clear()
+import { useState } from 'react'
`

func TestScanDiff(t *testing.T) {
	records, err := ScanDiff("src/auth.js", sampleDiff)
	if err != nil {
		t.Fatalf("ScanDiff failed: %v", err)
	}

	byKey := map[string]model.ChangeType{}
	for _, r := range records {
		byKey[string(r.EntityKind)+"/"+r.IdentityKey] = r.Type
	}

	if got := byKey["function/login"]; got != model.ChangeModified {
		t.Errorf("login on both diff sides should be modified, got %q", got)
	}
	if got := byKey["function/logout"]; got != model.ChangeAdded {
		t.Errorf("logout should be added, got %q", got)
	}
	if got := byKey["import/react"]; got != model.ChangeAdded {
		t.Errorf("react import should be added, got %q", got)
	}

	foundControlFlow := false
	for _, r := range records {
		for _, d := range r.Details {
			if strings.Contains(d, "control-flow") {
				foundControlFlow = true
			}
		}
	}
	if !foundControlFlow {
		t.Error("added if-statement should report a control-flow signal")
	}
}

func TestScanDiffCSSSignals(t *testing.T) {
	diff := `--- a/main.css
+++ b/main.css
@@ -1,3 +1,4 @@
 .card {
-  color: red;
+  color: blue;
+  display: flex;
 }
+.footer {
`
	records, err := ScanDiff("main.css", diff)
	if err != nil {
		t.Fatalf("ScanDiff failed: %v", err)
	}

	byKey := map[string]model.ChangeType{}
	for _, r := range records {
		byKey[string(r.EntityKind)+"/"+r.IdentityKey] = r.Type
	}
	if got := byKey["declaration/color"]; got != model.ChangeModified {
		t.Errorf("color on both sides should be modified, got %q", got)
	}
	if got := byKey["declaration/display"]; got != model.ChangeAdded {
		t.Errorf("display should be added, got %q", got)
	}
	if got := byKey["selector/.footer"]; got != model.ChangeAdded {
		t.Errorf(".footer selector should be added, got %q", got)
	}
}

func TestScanDiffEmptyFails(t *testing.T) {
	if _, err := ScanDiff("a.js", "   \n"); err == nil {
		t.Fatal("empty diff text must fail the pattern tier")
	}
}

func TestScanDiffNoSignalsFails(t *testing.T) {
	// Non-empty diff with nothing recognizable: the generic tier's
	// line counts say more than an empty record list would.
	if _, err := ScanDiff("notes.txt", "--- a/notes.txt\n+++ b/notes.txt\n+alpha\n-beta\n"); err == nil {
		t.Fatal("signal-less diff text must fail the pattern tier")
	}
}

func TestControllerDemotesUnknownGrammarToPattern(t *testing.T) {
	c := NewController(structdiff.DefaultOptions(), nil)

	result := c.Analyze(context.Background(), Input{
		Path:     "notes.xyz",
		DiffText: "+function added() {\n",
	})

	if result.Tier != model.TierPattern {
		t.Fatalf("unknown grammar should land on the pattern tier, got %q", result.Tier)
	}
	if len(result.Records) == 0 {
		t.Error("pattern tier should have found the added function")
	}
}

func TestControllerDemotesToGenericFloor(t *testing.T) {
	c := NewController(structdiff.DefaultOptions(), nil)

	result := c.Analyze(context.Background(), Input{
		Path:         "binary.dat",
		DiffText:     "",
		LinesAdded:   7,
		LinesDeleted: 2,
	})

	if result.Tier != model.TierGeneric {
		t.Fatalf("expected generic tier, got %q", result.Tier)
	}
	if len(result.Records) != 1 {
		t.Fatalf("generic tier emits exactly one record, got %d", len(result.Records))
	}
	if !strings.Contains(result.Records[0].Details[0], "+7 -2 lines") {
		t.Errorf("unexpected summary: %v", result.Records[0].Details)
	}
}

func TestControllerASTTierOnPlainCode(t *testing.T) {
	c := NewController(structdiff.DefaultOptions(), nil)

	result := c.Analyze(context.Background(), Input{
		Path:       "math.js",
		OldContent: []byte("function add(a, b) { return a + b }\n"),
		NewContent: []byte("function add(a, b, c) { return a + b + c }\n"),
	})

	if result.Tier != model.TierAST {
		t.Fatalf("valid code should stay on the ast tier, got %q", result.Tier)
	}

	foundParam := false
	for _, r := range result.Records {
		if r.Type == model.ChangeModified && r.IdentityKey == "add" {
			for _, d := range r.Details {
				if strings.Contains(d, `"c" added`) {
					foundParam = true
				}
			}
		}
	}
	if !foundParam {
		t.Errorf("expected added-parameter detail for add, got %+v", result.Records)
	}
}

func TestAnalyzeDiffOnlySkipsASTTier(t *testing.T) {
	c := NewController(structdiff.DefaultOptions(), nil)

	// Content is absent (unresolvable), but the diff text carries real
	// changes; the empty-model AST diff must not get a chance to report
	// a clean result.
	result := c.AnalyzeDiffOnly(Input{
		Path:       "app.js",
		DiffText:   "--- a/app.js\n+++ b/app.js\n+function retry() {\n",
		LinesAdded: 1,
	})

	if result.Tier != model.TierPattern {
		t.Fatalf("diff-only analysis should land on the pattern tier, got %q", result.Tier)
	}

	found := false
	for _, r := range result.Records {
		if r.Type == model.ChangeAdded && r.IdentityKey == "retry" {
			found = true
		}
	}
	if !found {
		t.Errorf("expected the added function from the diff, got %+v", result.Records)
	}
}

func TestControllerCanceledContextDemotes(t *testing.T) {
	c := NewController(structdiff.DefaultOptions(), nil)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	result := c.Analyze(ctx, Input{
		Path:       "app.js",
		OldContent: []byte("function a() {}\n"),
		NewContent: []byte("function b() {}\n"),
		DiffText:   "-function a() {}\n+function b() {}\n",
	})

	if result.Tier != model.TierPattern {
		t.Fatalf("canceled context should demote to the pattern tier, got %q", result.Tier)
	}
}
