package extract

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/diffscope/diffscope/internal/grammar"
	"github.com/diffscope/diffscope/internal/model"
)

func codeModel(t *testing.T, path, source string, g grammar.Grammar) *model.StructuralModel {
	t.Helper()
	mdl, err := Model(path, []byte(source), g)
	require.NoError(t, err)
	return mdl
}

func findEntity(t *testing.T, mdl *model.StructuralModel, kind model.EntityKind, key string) model.Entity {
	t.Helper()
	for _, e := range mdl.ByKind(kind) {
		if e.IdentityKey == key {
			return e
		}
	}
	t.Fatalf("no %s entity with key %q; have %v", kind, key, mdl.Entities)
	return model.Entity{}
}

func TestExtractFunctionDeclaration(t *testing.T) {
	source := `
async function login(username, password, remember = false) {
  if (!username) {
    return null;
  }
  const res = await fetch("/api/login");
  return res.json();
}
`
	mdl := codeModel(t, "auth.js", source, grammar.CodePlain)

	fn := findEntity(t, mdl, model.KindFunction, "login")
	assert.True(t, fn.Async)
	assert.False(t, fn.Generator)
	assert.True(t, fn.HasReturn)
	assert.True(t, fn.CallsAPI)
	assert.Equal(t, 2, fn.Complexity)

	require.Len(t, fn.Params, 3)
	assert.Equal(t, "username", fn.Params[0].Name)
	assert.False(t, fn.Params[0].HasDefault)
	assert.Equal(t, "remember", fn.Params[2].Name)
	assert.True(t, fn.Params[2].HasDefault)
	assert.True(t, fn.Params[2].DefaultIsLiteral)
}

func TestExtractArrowBindingAndRestParam(t *testing.T) {
	source := `
const format = (template, ...values) => {
  return template + values.length;
};
`
	mdl := codeModel(t, "fmt.js", source, grammar.CodePlain)

	fn := findEntity(t, mdl, model.KindFunction, "format")
	require.Len(t, fn.Params, 2)
	assert.Equal(t, "values", fn.Params[1].Name)
	assert.True(t, fn.Params[1].IsRest)

	// The binding is reported as a function, not also as a variable.
	assert.Empty(t, mdl.ByKind(model.KindVariable))
}

func TestComplexityCountsBranchesNotNestedFunctions(t *testing.T) {
	source := `
function outer(items) {
  const helper = (x) => {
    if (x > 0) { return x; }
    return -x;
  };
  return items.map(helper);
}
`
	mdl := codeModel(t, "util.js", source, grammar.CodePlain)

	outer := findEntity(t, mdl, model.KindFunction, "outer")
	assert.Equal(t, 1, outer.Complexity, "inner function branches must not attribute to the outer function")

	helper := findEntity(t, mdl, model.KindFunction, "helper")
	assert.Equal(t, 2, helper.Complexity)
}

func TestComplexityCountsLogicalOperators(t *testing.T) {
	source := `
function gate(a, b, c) {
  if (a && b || c) {
    return true;
  }
  return false;
}
`
	mdl := codeModel(t, "gate.js", source, grammar.CodePlain)

	fn := findEntity(t, mdl, model.KindFunction, "gate")
	// 1 base + if + && + ||
	assert.Equal(t, 4, fn.Complexity)
}

func TestMethodsCarryOwnerQualifiedKeys(t *testing.T) {
	source := `
class Session {
  refresh() { return true; }
  static open(id) { return new Session(); }
}
`
	mdl := codeModel(t, "session.js", source, grammar.CodePlain)

	refresh := findEntity(t, mdl, model.KindFunction, "Session.refresh")
	assert.Equal(t, "Session", refresh.MethodOwner)
	assert.False(t, refresh.IsStatic)

	open := findEntity(t, mdl, model.KindFunction, "Session.open")
	assert.True(t, open.IsStatic)

	cls := findEntity(t, mdl, model.KindClass, "Session")
	assert.Empty(t, cls.Superclass)
}

func TestComponentDetection(t *testing.T) {
	source := `
import React, { useState } from "react";

function Banner({ title, onClose }) {
  const [open, setOpen] = useState(true);
  if (!open) {
    return null;
  }
  return <div className="banner">{title}</div>;
}

function formatTitle(title) {
  return title.trim();
}

class ErrorBoundary extends React.Component {
  render() { return <div/>; }
}
`
	mdl := codeModel(t, "banner.jsx", source, grammar.CodeWithMarkup)

	banner := findEntity(t, mdl, model.KindComponent, "Banner")
	assert.True(t, banner.IsComponent)
	require.Len(t, banner.Params, 1)
	assert.True(t, banner.Params[0].IsDestructured)
	assert.Equal(t, []string{"title", "onClose"}, banner.Params[0].Members)

	// Lowercase helper returning no markup stays a plain function.
	helper := findEntity(t, mdl, model.KindFunction, "formatTitle")
	assert.False(t, helper.IsComponent)

	// Class extending the UI base class is a component too.
	boundary := findEntity(t, mdl, model.KindComponent, "ErrorBoundary")
	assert.Equal(t, "React.Component", boundary.Superclass)

	imp := findEntity(t, mdl, model.KindImport, "react")
	assert.True(t, imp.IsFramework)
	assert.Contains(t, imp.Bindings, "React")
	assert.Contains(t, imp.Bindings, "useState")

	hook := findEntity(t, mdl, model.KindHookCall, "useState")
	assert.Equal(t, 1, hook.CallCount)
}

func TestHookCallCounts(t *testing.T) {
	source := `
import { useState, useEffect } from "react";

const Panel = () => {
  const [a, setA] = useState(0);
  const [b, setB] = useState(0);
  useEffect(() => {}, []);
  return <section>{a + b}</section>;
};
`
	mdl := codeModel(t, "panel.jsx", source, grammar.CodeWithMarkup)

	state := findEntity(t, mdl, model.KindHookCall, "useState")
	assert.Equal(t, 2, state.CallCount)

	effect := findEntity(t, mdl, model.KindHookCall, "useEffect")
	assert.Equal(t, 1, effect.CallCount)

	// Expression-ish arrow component with markup return.
	panel := findEntity(t, mdl, model.KindComponent, "Panel")
	assert.True(t, panel.IsComponent)
}

func TestExportExtraction(t *testing.T) {
	source := `
const parse = (s) => s.trim();
const VERSION = "2.1.0";

export { parse, VERSION as version };
export default parse;
`
	mdl := codeModel(t, "index.js", source, grammar.CodePlain)

	exports := mdl.ByKind(model.KindExport)
	keys := map[string]bool{}
	var def model.Entity
	for _, e := range exports {
		keys[e.IdentityKey] = true
		if e.IsDefault {
			def = e
		}
	}
	assert.True(t, keys["parse"])
	assert.True(t, keys["version"], "aliased export must use the exported name")
	assert.Equal(t, "parse", def.IdentityKey)

	vers := findEntity(t, mdl, model.KindVariable, "VERSION")
	assert.Equal(t, model.KindVariable, vers.Kind)
}

func TestTypedParameterUnwrapping(t *testing.T) {
	source := `
function greet(name: string, title?: string): string {
  return title ? title + " " + name : name;
}
`
	mdl := codeModel(t, "greet.ts", source, grammar.TypedCode)

	fn := findEntity(t, mdl, model.KindFunction, "greet")
	require.Len(t, fn.Params, 2)
	assert.Equal(t, "name", fn.Params[0].Name)
	assert.Equal(t, "title", fn.Params[1].Name)
	// 1 base + ternary
	assert.Equal(t, 2, fn.Complexity)
}

func TestGeneratorDetection(t *testing.T) {
	source := `
function* walk(tree) {
  yield tree;
}
`
	mdl := codeModel(t, "walk.js", source, grammar.CodePlain)

	fn := findEntity(t, mdl, model.KindFunction, "walk")
	assert.True(t, fn.Generator)
}

func TestUnparseableContentFails(t *testing.T) {
	_, err := Model("broken.js", []byte("function ( {{{"), grammar.CodePlain)
	assert.Error(t, err)
}
